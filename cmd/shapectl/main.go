// Command shapectl is a terminal remote for a running shapefield engine.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	addr := flag.String("addr", "localhost:8080", "engine host:port")
	flag.Parse()

	c, err := dial(*addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect %s: %v\n", *addr, err)
		os.Exit(1)
	}
	defer c.Close()

	if _, err := tea.NewProgram(newModel(*addr, c, c.Next)).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "shapectl: %v\n", err)
		os.Exit(1)
	}
}

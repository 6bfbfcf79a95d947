package surface

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Token names one of the palette colors assignable to shapes.
type Token string

const (
	Green  Token = "green"
	Purple Token = "purple"
	Black  Token = "black"
	Red    Token = "red"
	Blue   Token = "blue"
	Orange Token = "orange"
)

// Palette lists every token in a fixed order.
var Palette = []Token{Green, Purple, Black, Red, Blue, Orange}

var tokenHex = map[Token]string{
	Green:  "#2f9e5b",
	Purple: "#7a4fd0",
	Black:  "#1b1b1f",
	Red:    "#e0453a",
	Blue:   "#2f6fe0",
	Orange: "#f08a24",
}

// Background is the page color behind the shapes.
var Background = mustHex("#f4efe6")

// Hex returns the token's color in #rrggbb form, or "" for an unknown token.
func (t Token) Hex() string { return tokenHex[t] }

// Color parses the token's hex value. Unknown tokens fall back to black.
func (t Token) Color() colorful.Color {
	c, err := colorful.Hex(t.Hex())
	if err != nil {
		return mustHex(tokenHex[Black])
	}
	return c
}

// RGBA returns the token color with the given opacity applied as alpha.
func (t Token) RGBA(opacity float64) color.NRGBA {
	r, g, b := t.Color().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(clamp01(opacity) * 255)}
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

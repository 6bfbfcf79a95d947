// Package shape generates and applies the BaseState every mode renders
// relative to.
package shape

import (
	"math/rand"

	"github.com/coreman2200/funtimes-shapefield/internal/surface"
)

// Placement generator constants.
const (
	EdgeMin   = 0.12
	EdgeMax   = 0.88
	JitterX   = 0.36
	JitterY   = 0.44
	ScaleMin  = 0.35
	ScaleSpan = 0.40
	BigMin    = 1.0
	BigSpan   = 0.25
	ZMin      = 10
	ZSpan     = 90
)

var anchors = [3]float64{0.12, 0.5, 0.88}

// Placement is the base pose of one node.
type Placement struct {
	Node   *surface.Node
	Left   float64
	Top    float64
	Scale  float64
	Rotate float64
	Z      int
}

// BaseState is an immutable snapshot of every node's base pose plus the
// palette token painted on the set. Replace it wholesale; never edit it.
type BaseState struct {
	token  surface.Token
	shapes []Placement
}

// NewBaseState copies placements into a BaseState.
func NewBaseState(token surface.Token, placements []Placement) BaseState {
	return BaseState{token: token, shapes: append([]Placement(nil), placements...)}
}

func (b BaseState) Token() surface.Token { return b.token }
func (b BaseState) Len() int             { return len(b.shapes) }
func (b BaseState) At(i int) Placement   { return b.shapes[i] }

// Placements returns a copy of the placements in generation order.
func (b BaseState) Placements() []Placement {
	return append([]Placement(nil), b.shapes...)
}

// Style is the node style that renders p exactly at its base pose.
func (b BaseState) Style(i int) surface.Style {
	p := b.shapes[i]
	return surface.Style{
		Left:    p.Left,
		Top:     p.Top,
		Rotate:  p.Rotate,
		Scale:   p.Scale,
		Opacity: 1,
		Z:       p.Z,
		Fill:    b.token,
	}
}

// Generate paints a random palette token on every node and returns freshly
// randomized placements for them. exclude, when non-empty, is never chosen
// as long as another token is eligible. Result order is a random
// permutation of the nodes, not markup order.
func Generate(root *surface.Root, rng *rand.Rand, exclude surface.Token) BaseState {
	if !root.Active() {
		return BaseState{}
	}
	token := pickToken(rng, exclude)
	nodes := root.Nodes()
	for _, n := range nodes {
		n.SetFill(token)
	}

	perm := rng.Perm(len(nodes))
	colOrder := rng.Perm(len(anchors))
	rowOrder := rng.Perm(len(anchors))
	big := rng.Intn(len(nodes))

	out := make([]Placement, len(nodes))
	for i, ni := range perm {
		left := clamp(anchors[colOrder[i%len(anchors)]]+jitter(rng, JitterX), EdgeMin, EdgeMax)
		top := clamp(anchors[rowOrder[i%len(anchors)]]+jitter(rng, JitterY), EdgeMin, EdgeMax)
		scale := ScaleMin + rng.Float64()*ScaleSpan
		if i == big {
			scale = BigMin + rng.Float64()*BigSpan
		}
		out[i] = Placement{
			Node:   nodes[ni],
			Left:   left,
			Top:    top,
			Scale:  scale,
			Rotate: float64(rng.Intn(360)),
			Z:      ZMin + rng.Intn(ZSpan),
		}
	}
	return BaseState{token: token, shapes: out}
}

// Apply renders every node at its base pose and clears container effects.
func Apply(root *surface.Root, b BaseState) {
	if root == nil {
		return
	}
	for i := range b.shapes {
		b.shapes[i].Node.SetStyle(b.Style(i))
	}
	root.SetOpacity(1)
	root.SetBlur(0)
}

func pickToken(rng *rand.Rand, exclude surface.Token) surface.Token {
	eligible := make([]surface.Token, 0, len(surface.Palette))
	for _, t := range surface.Palette {
		if t != exclude {
			eligible = append(eligible, t)
		}
	}
	if len(eligible) == 0 {
		eligible = surface.Palette
	}
	return eligible[rng.Intn(len(eligible))]
}

func jitter(rng *rand.Rand, n float64) float64 { return (rng.Float64() - 0.5) * n }

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

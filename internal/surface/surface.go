// Package surface is the render contract between the animation engine and
// whatever draws the page: a root container holding a fixed set of shape
// nodes whose style the engine mutates.
//
// The engine never creates or destroys nodes. Frontends read immutable
// Snapshots; only the engine thread calls the mutators.
package surface

import (
	"sort"
	"strconv"
)

// AttrMode is the document-level attribute mirroring the active mode id.
const AttrMode = "data-mode"

// Template identifies the outline a node currently renders.
type Template string

const (
	Arc   Template = "arc"
	Blob  Template = "blob"
	Star  Template = "star"
	Ring  Template = "ring"
	Wedge Template = "wedge"
)

// Templates lists the known outlines.
var Templates = []Template{Arc, Blob, Star, Ring, Wedge}

// Style is the mutable presentation of one node. Left and Top are viewport
// fractions of the node center; Rotate is in degrees.
type Style struct {
	Left    float64 `json:"left"`
	Top     float64 `json:"top"`
	Rotate  float64 `json:"rotate"`
	Scale   float64 `json:"scale"`
	Opacity float64 `json:"opacity"`
	Z       int     `json:"z"`
	Fill    Token   `json:"fill"`
}

// Node is one rendered shape element.
type Node struct {
	ID string
	// Extent is the node's box side at scale 1, as a fraction of the
	// viewport's shorter side.
	Extent float64

	style    Style
	template Template
}

// NewNode returns a node with the given outline and a neutral style.
func NewNode(id string, t Template, extent float64) *Node {
	return &Node{
		ID:       id,
		Extent:   extent,
		template: t,
		style:    Style{Left: 0.5, Top: 0.5, Scale: 1, Opacity: 1},
	}
}

func (n *Node) Style() Style           { return n.style }
func (n *Node) SetStyle(s Style)       { n.style = s }
func (n *Node) Template() Template     { return n.template }
func (n *Node) SetTemplate(t Template) { n.template = t }

// SetFill paints every sub-element of the node with the token.
func (n *Node) SetFill(t Token) { n.style.Fill = t }

// Root is the container of the fixed shape set.
type Root struct {
	nodes   []*Node
	attrs   map[string]string
	opacity float64
	blur    float64
}

// NewRoot wraps the given nodes. Order is the markup order.
func NewRoot(nodes ...*Node) *Root {
	return &Root{
		nodes:   nodes,
		attrs:   map[string]string{},
		opacity: 1,
	}
}

// Active reports whether an engine can run on r.
func (r *Root) Active() bool { return r != nil && len(r.nodes) > 0 }

// Nodes returns the nodes in markup order. The slice must not be modified.
func (r *Root) Nodes() []*Node { return r.nodes }

func (r *Root) Attr(k string) string { return r.attrs[k] }
func (r *Root) SetAttr(k, v string)  { r.attrs[k] = v }
func (r *Root) Opacity() float64     { return r.opacity }
func (r *Root) SetOpacity(v float64) { r.opacity = clamp01(v) }
func (r *Root) Blur() float64        { return r.blur }
func (r *Root) SetBlur(px float64) {
	if px < 0 {
		px = 0
	}
	r.blur = px
}

// Token returns the palette token currently painted on the shapes, read
// from the first node.
func (r *Root) Token() Token {
	if !r.Active() {
		return ""
	}
	return r.nodes[0].style.Fill
}

// ShapeView is the rendered state of one node at snapshot time.
type ShapeView struct {
	ID       string   `json:"id"`
	Template Template `json:"template"`
	Extent   float64  `json:"extent"`
	Style
}

// Snapshot is an immutable copy of the root, safe to hand to other goroutines.
type Snapshot struct {
	Mode    int         `json:"mode"`
	Opacity float64     `json:"opacity"`
	Blur    float64     `json:"blur"`
	Shapes  []ShapeView `json:"shapes"`
}

// Snapshot copies the current state. Shapes are ordered back to front.
func (r *Root) Snapshot() Snapshot {
	if r == nil {
		return Snapshot{}
	}
	s := Snapshot{Opacity: r.opacity, Blur: r.blur, Shapes: make([]ShapeView, 0, len(r.nodes))}
	if v, err := strconv.Atoi(r.attrs[AttrMode]); err == nil {
		s.Mode = v
	}
	for _, n := range r.nodes {
		s.Shapes = append(s.Shapes, ShapeView{ID: n.ID, Template: n.template, Extent: n.Extent, Style: n.style})
	}
	sort.SliceStable(s.Shapes, func(i, j int) bool { return s.Shapes[i].Z < s.Shapes[j].Z })
	return s
}

package model

import (
	"math"

	"github.com/matzehuels/dimgraph/pkg/dimension"
)

// Node is the simulation record for one graph node.
type Node struct {
	ID         string
	Label      string
	Dimensions dimension.Vector

	X, Y   float64
	VX, VY float64

	// Fixed nodes are pinned at (PinX, PinY) and never move under force.
	Fixed      bool
	PinX, PinY float64

	Selected bool

	slot int
}

// Slot returns the node's index in the placement spiral.
func (n *Node) Slot() int { return n.slot }

// Finite reports whether position and velocity are all finite numbers.
func (n *Node) Finite() bool {
	return finite(n.X) && finite(n.Y) && finite(n.VX) && finite(n.VY)
}

// Pin fixes the node at (x, y) and stops it.
func (n *Node) Pin(x, y float64) {
	n.Fixed = true
	n.PinX, n.PinY = x, y
	n.X, n.Y = x, y
	n.VX, n.VY = 0, 0
}

// Edge is the simulation record for one graph edge.
type Edge struct {
	ID         string
	Source     string
	Target     string
	Strength   float64
	Dimensions dimension.Vector
	Selected   bool
}

// Link is an edge resolved to its endpoint nodes.
type Link struct {
	Edge   *Edge
	Source *Node
	Target *Node
}

// Diff describes what an Initialize call changed, by id.
type Diff struct {
	Added        []string
	Removed      []string
	Updated      []string
	EdgesAdded   []string
	EdgesRemoved []string
}

// MembershipChanged reports whether nodes were added or removed.
func (d Diff) MembershipChanged() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0
}

// Empty reports whether nothing changed.
func (d Diff) Empty() bool {
	return !d.MembershipChanged() && len(d.Updated) == 0 &&
		len(d.EdgesAdded) == 0 && len(d.EdgesRemoved) == 0
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/dimgraph/pkg/graph"
)

// Terminal cells are mapped onto the engine viewport at this size, so a
// cell grid of cols x rows is a viewport of cols*cellWidth x rows*cellHeight.
const (
	cellWidth  = 8.0
	cellHeight = 16.0
)

const edgeColor = "#5c5c5c"

// maxLineCells skips edges stretched far beyond the grid by deep zoom.
const maxLineCells = 1 << 14

// shapeGlyphs draws each node shape as a single character.
var shapeGlyphs = map[string]rune{
	"circle":    '●',
	"oval":      '⬮',
	"diamond":   '◆',
	"octagon":   '⯃',
	"square":    '■',
	"rectangle": '▬',
}

type cell struct {
	r      rune
	fg     string
	bold   bool
	invert bool
}

// canvas is a character grid the live view draws a snapshot into.
type canvas struct {
	cols, rows int
	cells      []cell
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{cols: max(cols, 0), rows: max(rows, 0)}
	c.cells = make([]cell, c.cols*c.rows)
	for i := range c.cells {
		c.cells[i].r = ' '
	}
	return c
}

func (c *canvas) inside(col, row int) bool {
	return col >= 0 && row >= 0 && col < c.cols && row < c.rows
}

func (c *canvas) at(col, row int) *cell {
	if !c.inside(col, row) {
		return nil
	}
	return &c.cells[row*c.cols+col]
}

func (c *canvas) set(col, row int, v cell) {
	if p := c.at(col, row); p != nil {
		*p = v
	}
}

// project maps a layout point to a cell through the view transform.
func project(t graph.Transform, x, y float64) (col, row int) {
	sx := x*t.Scale + t.TranslateX
	sy := y*t.Scale + t.TranslateY
	return int(math.Floor(sx / cellWidth)), int(math.Floor(sy / cellHeight))
}

// line draws a Bresenham segment, leaving the end cells to the nodes.
func (c *canvas) line(c0, r0, c1, r1 int, v cell) {
	dc, dr := abs(c1-c0), -abs(r1-r0)
	sc, sr := sign(c1-c0), sign(r1-r0)
	if dc-dr > maxLineCells {
		return
	}
	err := dc + dr
	for {
		if (c0 != c1 || r0 != r1) && c.inside(c0, r0) {
			if p := c.at(c0, r0); p.r == ' ' {
				*p = v
			}
		}
		if c0 == c1 && r0 == r1 {
			return
		}
		e2 := 2 * err
		if e2 >= dr {
			err += dr
			c0 += sc
		}
		if e2 <= dc {
			err += dc
			r0 += sr
		}
	}
}

// drawSnapshot renders s into a cols x rows grid: edges first, then nodes,
// then labels where they fit.
func drawSnapshot(s graph.Snapshot, cols, rows int, labels bool) *canvas {
	c := newCanvas(cols, rows)
	t := s.Transform
	if t.Scale == 0 {
		t.Scale = 1
	}

	for _, e := range s.Edges {
		c0, r0 := project(t, e.X1, e.Y1)
		c1, r1 := project(t, e.X2, e.Y2)
		v := cell{r: '·', fg: edgeColor}
		if e.Selected {
			v = cell{r: '•', fg: e.Stroke, bold: true}
		}
		c.line(c0, r0, c1, r1, v)
	}

	type placed struct {
		col, row int
		node     graph.StyledNode
	}
	nodes := make([]placed, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		col, row := project(t, n.X, n.Y)
		glyph, ok := shapeGlyphs[n.Shape]
		if !ok {
			glyph = '●'
		}
		c.set(col, row, cell{r: glyph, fg: n.Fill, bold: n.Focused, invert: n.Selected})
		nodes = append(nodes, placed{col, row, n})
	}

	if !labels {
		return c
	}
	for _, p := range nodes {
		c.label(p.col+2, p.row, p.node.Label, p.node.Fill, p.node.Focused)
	}
	return c
}

// label writes text starting at (col, row) if every cell it needs holds
// nothing but background or edges.
func (c *canvas) label(col, row int, text, fg string, bold bool) {
	runes := []rune(text)
	if len(runes) == 0 || !c.inside(col, row) || col+len(runes) > c.cols {
		return
	}
	for i := range runes {
		if r := c.at(col+i, row).r; r != ' ' && r != '·' {
			return
		}
	}
	for i, r := range runes {
		c.set(col+i, row, cell{r: r, fg: fg, bold: bold})
	}
}

// plain returns the grid without colors.
func (c *canvas) plain() string {
	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < c.cols; col++ {
			b.WriteRune(c.cells[row*c.cols+col].r)
		}
	}
	return b.String()
}

// render returns the grid with each run of equally styled cells wrapped in
// one lipgloss style.
func (c *canvas) render() string {
	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		line := c.cells[row*c.cols : (row+1)*c.cols]
		for i := 0; i < len(line); {
			j := i
			var run strings.Builder
			for j < len(line) && sameStyle(line[i], line[j]) {
				run.WriteRune(line[j].r)
				j++
			}
			b.WriteString(cellStyle(line[i]).Render(run.String()))
			i = j
		}
	}
	return b.String()
}

func sameStyle(a, b cell) bool {
	return a.fg == b.fg && a.bold == b.bold && a.invert == b.invert
}

func cellStyle(v cell) lipgloss.Style {
	st := lipgloss.NewStyle().Bold(v.bold).Reverse(v.invert)
	if v.fg != "" {
		st = st.Foreground(lipgloss.Color(v.fg))
	}
	return st
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

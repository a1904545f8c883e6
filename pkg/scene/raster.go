package scene

import (
	"math"
	"strings"
)

// Glyphs used by the terminal rasterizer.
const (
	GlyphNode     = '●'
	GlyphNodeFill = '•'
	GlyphDash     = '┄'
)

// Cell is one character of a raster.
type Cell struct {
	Rune  rune
	Color string
}

// Raster is a character grid rendering of a surface.
type Raster struct {
	Cols, Rows int
	cells      []Cell
}

// Rasterize draws s onto a cols×rows grid. Lines are traced with Bresenham's
// algorithm; node circles become a center glyph, filled out when the radius
// spans more than one cell.
func Rasterize(s Surface, cols, rows int) *Raster {
	r := &Raster{Cols: max(cols, 1), Rows: max(rows, 1)}
	r.cells = make([]Cell, r.Cols*r.Rows)
	for i := range r.cells {
		r.cells[i].Rune = ' '
	}

	sx := float64(r.Cols) / math.Max(s.Width(), 1)
	sy := float64(r.Rows) / math.Max(s.Height(), 1)

	for _, p := range s.Primitives(LayerLinks) {
		x1, _ := Float(p, "x1")
		y1, _ := Float(p, "y1")
		x2, _ := Float(p, "x2")
		y2, _ := Float(p, "y2")
		dashed := String(p, "stroke-dasharray") != ""
		r.line(int(x1*sx), int(y1*sy), int(x2*sx), int(y2*sy), String(p, "stroke"), dashed)
	}
	for _, p := range s.Primitives(LayerNodes) {
		cx, _ := Float(p, "cx")
		cy, _ := Float(p, "cy")
		rad, ok := Float(p, "r")
		if !ok {
			rad = 1
		}
		r.disc(cx*sx, cy*sy, rad*sx, rad*sy, String(p, "fill"))
	}
	return r
}

// At returns the cell at (col, row). Out of range reads return a blank.
func (r *Raster) At(col, row int) Cell {
	if col < 0 || row < 0 || col >= r.Cols || row >= r.Rows {
		return Cell{Rune: ' '}
	}
	return r.cells[row*r.Cols+col]
}

func (r *Raster) set(col, row int, c Cell) {
	if col < 0 || row < 0 || col >= r.Cols || row >= r.Rows {
		return
	}
	r.cells[row*r.Cols+col] = c
}

// Write puts text on row starting at col. Cells outside the grid are
// dropped.
func (r *Raster) Write(col, row int, text, color string) {
	for i, ch := range []rune(text) {
		r.set(col+i, row, Cell{Rune: ch, Color: color})
	}
}

// String returns the raster as plain text, one line per row.
func (r *Raster) String() string {
	return r.Render(nil)
}

// Render joins the rows, passing each run of equally colored cells through
// paint. A nil paint returns plain text.
func (r *Raster) Render(paint func(color, text string) string) string {
	var sb strings.Builder
	for row := range r.Rows {
		if row > 0 {
			sb.WriteByte('\n')
		}
		start := 0
		for col := 1; col <= r.Cols; col++ {
			if col < r.Cols && r.At(col, row).Color == r.At(start, row).Color {
				continue
			}
			var run strings.Builder
			for c := start; c < col; c++ {
				run.WriteRune(r.At(c, row).Rune)
			}
			color := r.At(start, row).Color
			if paint != nil && color != "" {
				sb.WriteString(paint(color, run.String()))
			} else {
				sb.WriteString(run.String())
			}
			start = col
		}
	}
	return sb.String()
}

func (r *Raster) line(x0, y0, x1, y1 int, color string, dashed bool) {
	glyph := lineGlyph(x1-x0, y1-y0)
	if dashed {
		glyph = GlyphDash
	}
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for i := 0; ; i++ {
		if !dashed || i%2 == 0 {
			r.set(x0, y0, Cell{Rune: glyph, Color: color})
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func lineGlyph(dx, dy int) rune {
	switch {
	case dy == 0:
		return '─'
	case dx == 0:
		return '│'
	}
	slope := float64(dy) / float64(dx)
	switch {
	case math.Abs(slope) < 0.4:
		return '─'
	case math.Abs(slope) > 2.5:
		return '│'
	case slope > 0:
		return '╲'
	default:
		return '╱'
	}
}

func (r *Raster) disc(cx, cy, rx, ry float64, color string) {
	if rx >= 1 && ry >= 1 {
		for row := int(cy - ry); row <= int(cy+ry); row++ {
			for col := int(cx - rx); col <= int(cx+rx); col++ {
				dx := (float64(col) + 0.5 - cx) / rx
				dy := (float64(row) + 0.5 - cy) / ry
				if dx*dx+dy*dy <= 1 {
					r.set(col, row, Cell{Rune: GlyphNodeFill, Color: color})
				}
			}
		}
	}
	col, row := int(cx), int(cy)
	col = min(max(col, 0), r.Cols-1)
	row = min(max(row, 0), r.Rows-1)
	r.set(col, row, Cell{Rune: GlyphNode, Color: color})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

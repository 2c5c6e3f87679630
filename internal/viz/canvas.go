package viz

import (
	"strings"

	"github.com/san-kum/springsim/internal/dynamo"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a grid of braille cells. Each cell holds 2x4 sub-pixels, so the
// drawable area is (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// PixelSize is the canvas size in sub-pixels.
func (c *Canvas) PixelSize() (int, int) { return c.Width * 2, c.Height * 4 }

// Set sets a pixel at (x, y) in sub-pixel coordinates.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// IsSet reports whether the sub-pixel at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// FillDisc lights every sub-pixel within r of (x, y).
func (c *Canvas) FillDisc(x, y, r int) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				c.Set(x+dx, y+dy)
			}
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Viewport maps the world rectangle [MinX,MaxX]x[MinY,MaxY] onto a canvas,
// with y pointing up in the world and down on screen.
type Viewport struct {
	MinX, MinY, MaxX, MaxY float64
}

// UnitViewport shows the unit square the chain is seeded in.
var UnitViewport = Viewport{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1}

// ToPixel maps a world point to canvas sub-pixels. Points outside the
// viewport map outside the canvas and are clipped by Set.
func (v Viewport) ToPixel(c *Canvas, p dynamo.Vec2) (int, int) {
	w, h := c.PixelSize()
	x := (p.X - v.MinX) / (v.MaxX - v.MinX) * float64(w-1)
	y := (v.MaxY - p.Y) / (v.MaxY - v.MinY) * float64(h-1)
	return roundInt(x), roundInt(y)
}

// CellToWorld maps the center of a terminal cell (col, row), relative to the
// canvas origin, back to world coordinates. ok is false outside the canvas.
func (v Viewport) CellToWorld(c *Canvas, col, row int) (p dynamo.Vec2, ok bool) {
	if col < 0 || row < 0 || col >= c.Width || row >= c.Height {
		return dynamo.Vec2{}, false
	}
	w, h := c.PixelSize()
	px := float64(col*2) + 0.5
	py := float64(row*4) + 1.5
	return dynamo.Vec2{
		X: v.MinX + px/float64(w-1)*(v.MaxX-v.MinX),
		Y: v.MaxY - py/float64(h-1)*(v.MaxY-v.MinY),
	}, true
}

func roundInt(f float64) int {
	if f < 0 {
		return int(f - 0.5)
	}
	return int(f + 0.5)
}

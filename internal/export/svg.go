package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/viz"
)

// Options controls how a recorded frame is drawn.
type Options struct {
	Size     int // square image side in pixels
	Viewport viz.Viewport
	Theme    viz.Theme
	Ground   float64
	Closed   bool
}

// DefaultOptions draws the unit square at 512px with the default theme.
func DefaultOptions() Options {
	return Options{Size: 512, Viewport: viz.UnitViewport, Theme: viz.Themes[0]}
}

func (o Options) toSVG(p dynamo.Vec2) (float64, float64) {
	v := o.Viewport
	x := (p.X - v.MinX) / (v.MaxX - v.MinX) * float64(o.Size)
	y := (v.MaxY - p.Y) / (v.MaxY - v.MinY) * float64(o.Size)
	return x, y
}

func header(sb *strings.Builder, size int, background string) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, size, size, size, size, background)
}

// FrameToSVG draws one recorded frame: the ground line, a spring between
// each consecutive pair of particles (plus the closing spring of a ring) and
// a disc per particle.
func FrameToSVG(f dynamo.Snapshot, o Options) string {
	var sb strings.Builder
	header(&sb, o.Size, string(o.Theme.Background))

	_, gy := o.toSVG(dynamo.Vec2{Y: o.Ground})
	fmt.Fprintf(&sb, `<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="%s" stroke-width="2"/>
`, gy, o.Size, gy, o.Theme.Muted)

	n := len(f.Pos)
	sb.WriteString(fmt.Sprintf(`<g stroke="%s" stroke-width="1.5">
`, o.Theme.Secondary))
	for i := range n {
		j := i + 1
		if j == n {
			if !o.Closed || n < 3 {
				break
			}
			j = 0
		}
		x1, y1 := o.toSVG(f.Pos[i])
		x2, y2 := o.toSVG(f.Pos[j])
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
`, x1, y1, x2, y2)
	}
	sb.WriteString("</g>\n")

	radius := max(float64(o.Size)/128, 1)
	sb.WriteString(fmt.Sprintf(`<g fill="%s">
`, o.Theme.Primary))
	for _, p := range f.Pos {
		cx, cy := o.toSVG(p)
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, radius)
	}
	sb.WriteString("</g>\n")

	fmt.Fprintf(&sb, `<text x="8" y="20" fill="%s" font-family="monospace" font-size="14">t=%.3fs n=%d</text>
`, o.Theme.Text, f.Time, n)
	sb.WriteString("</svg>")
	return sb.String()
}

// TrajectoryToSVG draws the path of one particle as a polyline, scaled to its
// bounding box.
func TrajectoryToSVG(points []dynamo.Vec2, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	// Find bounds
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// WriteFrame writes FrameToSVG output to w.
func WriteFrame(w io.Writer, f dynamo.Snapshot, o Options) error {
	_, err := io.WriteString(w, FrameToSVG(f, o))
	return err
}

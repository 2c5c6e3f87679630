package analysis

import (
	"strings"

	"github.com/san-kum/springsim/internal/dynamo"
)

// Trajectory collects the positions of one particle across recorded frames.
// Frames where the particle did not exist yet are skipped.
func Trajectory(frames []dynamo.Snapshot, idx int) []dynamo.Vec2 {
	points := make([]dynamo.Vec2, 0, len(frames))
	for _, f := range frames {
		if idx < len(f.Pos) {
			points = append(points, f.Pos[idx])
		}
	}
	return points
}

// TrajectoryToASCII plots points on a width×height character grid scaled to
// their bounding box, with the ground drawn as a line where it is visible.
func TrajectoryToASCII(points []dynamo.Vec2, ground float64, width, height int) string {
	if len(points) == 0 || width < 2 || height < 2 {
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
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	if minY <= ground && maxY >= ground {
		row := height - 1 - int((ground-minY)/rangeY*float64(height-1))
		for col := range canvas[row] {
			canvas[row][col] = '─'
		}
	}

	for _, p := range points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

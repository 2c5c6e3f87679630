package dynamo

import "math"

// Vec2 is a 2D world-space vector.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

func (v Vec2) Scale(f float64) Vec2 { return Vec2{X: v.X * f, Y: v.Y * f} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

func (v Vec2) Norm() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

// NormEps returns sqrt(|v|^2 + eps). It stays positive for coincident
// points, so it is safe to divide by.
func (v Vec2) NormEps(eps float64) float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + eps)
}

func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

package dynamo

import (
	"fmt"
	"math"
)

// Vec2 is a point in logical surface coordinates.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Length() float64      { return math.Hypot(v.X, v.Y) }

// Dist returns the euclidean distance between two points.
func (v Vec2) Dist(o Vec2) float64 { return v.Sub(o).Length() }

// IsValid reports whether both coordinates are finite.
func (v Vec2) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Range is a closed interval [Min, Max].
type Range struct {
	Min, Max float64
}

func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Clamp limits v to the interval.
func (r Range) Clamp(v float64) float64 {
	return math.Max(r.Min, math.Min(r.Max, v))
}

func (r Range) String() string {
	return fmt.Sprintf("[%g, %g]", r.Min, r.Max)
}

// Check returns a *BoundsError when v falls outside the interval.
func (r Range) Check(param string, v float64) error {
	if math.IsNaN(v) || !r.Contains(v) {
		return &BoundsError{Param: param, Value: v, Range: r}
	}
	return nil
}

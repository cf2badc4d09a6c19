// Package hit resolves a pointer position to a plotted entity.
//
// Targets are circles of a shared radius centered on projected points.
// Containment is inclusive (dx²+dy² <= r²) and the first containing target
// in slice order wins. Renderers draw in reverse order so that target is
// the topmost one.
package hit

import (
	"math"

	"github.com/matzehuels/agentscape/pkg/scatter"
	"github.com/matzehuels/agentscape/pkg/scatter/viewport"
)

// DefaultRadius is the default point radius in pixels.
const DefaultRadius = 8.0

// Target is a hit-testable point in screen pixels.
type Target struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Contains reports whether (px, py) lies inside or on the circle of the given
// radius around t.
func (t Target) Contains(px, py, radius float64) bool {
	if !(radius >= 0) {
		return false
	}
	dx := px - t.X
	dy := py - t.Y
	return dx*dx+dy*dy <= radius*radius
}

// Test returns the name of the first target containing (px, py).
// It returns false when no target matches, when targets is empty, or when
// radius is negative or NaN. A zero radius only matches exact centers.
func Test(px, py float64, targets []Target, radius float64) (string, bool) {
	for _, t := range targets {
		if t.Contains(px, py, radius) {
			return t.Name, true
		}
	}
	return "", false
}

// TestAll returns the names of every target containing (px, py), in order.
// The first element, if any, is what [Test] returns.
func TestAll(px, py float64, targets []Target, radius float64) []string {
	var names []string
	for _, t := range targets {
		if t.Contains(px, py, radius) {
			names = append(names, t.Name)
		}
	}
	return names
}

// Targets projects positioned points through v, preserving order.
func Targets(points []scatter.PositionedPoint, v viewport.View) []Target {
	out := make([]Target, len(points))
	for i, p := range points {
		x, y := v.Project(p.PlotX, p.PlotY)
		out[i] = Target{Name: p.Name, X: x, Y: y}
	}
	return out
}

// Nearest returns the target closest to (px, py) regardless of radius, and
// its distance. It is used for keyboard navigation, not for clicks.
func Nearest(px, py float64, targets []Target) (Target, float64, bool) {
	best, bestDist := Target{}, math.Inf(1)
	for _, t := range targets {
		if d := math.Hypot(px-t.X, py-t.Y); d < bestDist {
			best, bestDist = t, d
		}
	}
	return best, bestDist, len(targets) > 0
}

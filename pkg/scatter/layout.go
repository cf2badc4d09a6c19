package scatter

import "math"

// DefaultJitterAmount is the full width of the displacement window applied to
// colliding points, in attribute units.
const DefaultJitterAmount = 0.02

// seedModulus bounds the name-derived seeds to [0, seedModulus).
const seedModulus = 100

// PositionedPoint is the layout of a single entity.
type PositionedPoint struct {
	Name string `json:"name"`

	// RawX and RawY are the attribute values (0 when missing).
	RawX float64 `json:"raw_x"`
	RawY float64 `json:"raw_y"`

	// PlotX and PlotY are the possibly displaced values used for drawing.
	PlotX float64 `json:"plot_x"`
	PlotY float64 `json:"plot_y"`

	MissingX bool `json:"missing_x,omitempty"`
	MissingY bool `json:"missing_y,omitempty"`
}

// Displaced reports whether the plotted position differs from the raw one.
func (p PositionedPoint) Displaced() bool {
	return p.PlotX != p.RawX || p.PlotY != p.RawY
}

// Option configures [ComputeLayout].
type Option func(*layoutConfig)

type layoutConfig struct {
	amount float64
}

// WithJitterAmount sets the displacement window width. A value of zero or
// less disables displacement; NaN and infinities keep the default.
func WithJitterAmount(amount float64) Option {
	return func(c *layoutConfig) {
		if math.IsNaN(amount) || math.IsInf(amount, 0) {
			return
		}
		c.amount = max(amount, 0)
	}
}

// collisionKey is a position quantized to two decimal digits.
type collisionKey struct{ x, y int64 }

func keyOf(x, y float64) collisionKey {
	return collisionKey{x: int64(math.Round(x * 100)), y: int64(math.Round(y * 100))}
}

// ComputeLayout positions every entity on the selected axes.
//
// The result has one point per entity, in input order. Points whose rounded
// raw position was already taken by an earlier entity are displaced by
// [Offset]; axes sitting exactly on 0 or 1 stay pinned. ComputeLayout keeps
// no state between calls.
func ComputeLayout(entities []Entity, axes AxisSelection, opts ...Option) []PositionedPoint {
	cfg := layoutConfig{amount: DefaultJitterAmount}
	for _, opt := range opts {
		opt(&cfg)
	}

	points := make([]PositionedPoint, len(entities))
	seen := make(map[collisionKey]int, len(entities))

	for i, e := range entities {
		rawX, okX := attribute(e, axes.X)
		rawY, okY := attribute(e, axes.Y)
		p := PositionedPoint{
			Name:     e.Name,
			RawX:     rawX,
			RawY:     rawY,
			PlotX:    rawX,
			PlotY:    rawY,
			MissingX: !okX,
			MissingY: !okY,
		}

		key := keyOf(rawX, rawY)
		if seen[key] > 0 && cfg.amount > 0 {
			dx, dy := Offset(e.Name, cfg.amount)
			if !pinned(rawX) {
				p.PlotX = rawX + dx
			}
			if !pinned(rawY) {
				p.PlotY = rawY + dy
			}
		}
		seen[key]++
		points[i] = p
	}
	return points
}

// Offset returns the displacement applied to a colliding entity named name.
//
// Each axis uses its own seed in [0, 100): the X seed is the sum of the
// name's code points, the Y seed weights each code point by its 1-based
// position. A seed h maps to ((h+0.5)/100 - 0.5) * amount, which is never
// zero and stays strictly inside (-amount/2, amount/2).
func Offset(name string, amount float64) (dx, dy float64) {
	var sx, sy int64
	i := int64(1)
	for _, r := range name {
		sx = (sx + int64(r)) % seedModulus
		sy = (sy + i*int64(r)) % seedModulus
		i++
	}
	return centered(sx, amount), centered(sy, amount)
}

func centered(seed int64, amount float64) float64 {
	unit := (float64(seed) + 0.5) / seedModulus
	return (unit - 0.5) * amount
}

// attribute reads key from e, mapping missing and NaN values to 0.
func attribute(e Entity, key AxisKey) (float64, bool) {
	v, ok := e.Attributes[key]
	if !ok || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// pinned reports whether v sits on a boundary that must not be displaced.
func pinned(v float64) bool {
	return v == 0 || v == 1
}

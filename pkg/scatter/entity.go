package scatter

import (
	"fmt"
	"strings"
)

// AxisKey names a plottable numeric attribute.
type AxisKey string

// Plottable attributes. Values are normalized to [0, 1].
const (
	CodeLevel     AxisKey = "code_level"
	Complexity    AxisKey = "complexity"
	LearningCurve AxisKey = "learning_curve"
)

// AxisKeys lists every plottable attribute in display order.
var AxisKeys = []AxisKey{CodeLevel, Complexity, LearningCurve}

var axisTitles = map[AxisKey]string{
	CodeLevel:     "Code Level",
	Complexity:    "Complexity",
	LearningCurve: "Learning Curve",
}

var axisScales = map[AxisKey]string{
	CodeLevel:     "0 = No Code, 1 = Advanced Coding",
	Complexity:    "0 = Simple, 1 = Complex",
	LearningCurve: "0 = Gentle, 1 = Steep",
}

// ParseAxisKey converts s (case-insensitive, "-" or "_" separated) to an AxisKey.
func ParseAxisKey(s string) (AxisKey, error) {
	k := AxisKey(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if k.Valid() {
		return k, nil
	}
	return "", fmt.Errorf("unknown axis %q (must be one of: code_level, complexity, learning_curve)", s)
}

// Valid reports whether k is one of the known attributes.
func (k AxisKey) Valid() bool {
	_, ok := axisTitles[k]
	return ok
}

// Title returns the human-readable attribute name, e.g. "Code Level".
func (k AxisKey) Title() string {
	if t, ok := axisTitles[k]; ok {
		return t
	}
	return string(k)
}

// Label returns the axis title including its scale description.
func (k AxisKey) Label() string {
	if s, ok := axisScales[k]; ok {
		return fmt.Sprintf("%s (%s)", k.Title(), s)
	}
	return k.Title()
}

// Next returns the attribute after k in [AxisKeys], wrapping around.
func (k AxisKey) Next() AxisKey {
	for i, key := range AxisKeys {
		if key == k {
			return AxisKeys[(i+1)%len(AxisKeys)]
		}
	}
	return AxisKeys[0]
}

// Entity is the input record of the layout engine.
type Entity struct {
	Name       string
	Attributes map[AxisKey]float64
}

// Value returns the attribute for key and whether it is present.
func (e Entity) Value(key AxisKey) (float64, bool) {
	v, ok := e.Attributes[key]
	return v, ok
}

// AxisSelection is the pair of attributes mapped to the X and Y dimensions.
type AxisSelection struct {
	X AxisKey `json:"x"`
	Y AxisKey `json:"y"`
}

// DefaultAxes is the selection used when none is given.
var DefaultAxes = AxisSelection{X: CodeLevel, Y: Complexity}

// Validate checks that both keys are known attributes.
func (a AxisSelection) Validate() error {
	if !a.X.Valid() {
		return fmt.Errorf("x axis: unknown attribute %q", a.X)
	}
	if !a.Y.Valid() {
		return fmt.Errorf("y axis: unknown attribute %q", a.Y)
	}
	return nil
}

// String returns "x×y" using the attribute keys.
func (a AxisSelection) String() string {
	return string(a.X) + "×" + string(a.Y)
}

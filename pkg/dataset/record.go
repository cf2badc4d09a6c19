// Package dataset loads and filters agent-framework records.
//
// A [Record] is the full display row: name, category, description, links,
// and one normalized value plus a free-text justification per plottable
// attribute. [Record.Entity] projects a record onto the attribute map the
// layout engine consumes.
//
// Records can be read from CSV (header row with the column names listed on
// [Record]), a JSON array, or a YAML sequence. Unknown CSV columns are
// ignored; empty numeric cells are treated as missing.
package dataset

import (
	"github.com/matzehuels/agentscape/pkg/scatter"
)

// Known categories of the bundled dataset. Other values are allowed.
const (
	CategoryAgentFramework = "Agent Framework"
	CategoryOrchestration  = "Orchestration"
)

// Record is one agent framework.
type Record struct {
	Name     string `json:"name" yaml:"name" bson:"name" validate:"required,max=256"`
	Category string `json:"category" yaml:"category" bson:"category" validate:"max=64"`

	CodeLevel              *float64 `json:"code_level" yaml:"code_level" bson:"code_level" validate:"omitempty,gte=0,lte=1"`
	CodeLevelJustification string   `json:"code_level_justification,omitempty" yaml:"code_level_justification,omitempty" bson:"code_level_justification,omitempty"`

	Complexity              *float64 `json:"complexity" yaml:"complexity" bson:"complexity" validate:"omitempty,gte=0,lte=1"`
	ComplexityJustification string   `json:"complexity_justification,omitempty" yaml:"complexity_justification,omitempty" bson:"complexity_justification,omitempty"`

	LearningCurve              *float64 `json:"learning_curve,omitempty" yaml:"learning_curve,omitempty" bson:"learning_curve,omitempty" validate:"omitempty,gte=0,lte=1"`
	LearningCurveJustification string   `json:"learning_curve_justification,omitempty" yaml:"learning_curve_justification,omitempty" bson:"learning_curve_justification,omitempty"`

	Description string `json:"description" yaml:"description" bson:"description"`
	URL         string `json:"url,omitempty" yaml:"url,omitempty" bson:"url,omitempty" validate:"omitempty,url"`
	LogoURL     string `json:"logo_url,omitempty" yaml:"logo_url,omitempty" bson:"logo_url,omitempty" validate:"omitempty,url"`
}

// Value returns the attribute for key, or nil when it is missing.
func (r Record) Value(key scatter.AxisKey) *float64 {
	switch key {
	case scatter.CodeLevel:
		return r.CodeLevel
	case scatter.Complexity:
		return r.Complexity
	case scatter.LearningCurve:
		return r.LearningCurve
	}
	return nil
}

// Justification returns the explanation recorded for key.
func (r Record) Justification(key scatter.AxisKey) string {
	switch key {
	case scatter.CodeLevel:
		return r.CodeLevelJustification
	case scatter.Complexity:
		return r.ComplexityJustification
	case scatter.LearningCurve:
		return r.LearningCurveJustification
	}
	return ""
}

// Entity projects the record onto the layout engine's input. Missing
// attributes are left out of the map.
func (r Record) Entity() scatter.Entity {
	attrs := make(map[scatter.AxisKey]float64, len(scatter.AxisKeys))
	for _, key := range scatter.AxisKeys {
		if v := r.Value(key); v != nil {
			attrs[key] = *v
		}
	}
	return scatter.Entity{Name: r.Name, Attributes: attrs}
}

// Entities projects every record, preserving order.
func Entities(records []Record) []scatter.Entity {
	out := make([]scatter.Entity, len(records))
	for i, r := range records {
		out[i] = r.Entity()
	}
	return out
}

// Find returns the record named name.
func Find(records []Record, name string) (Record, bool) {
	for _, r := range records {
		if r.Name == name {
			return r, true
		}
	}
	return Record{}, false
}

// Float returns a pointer to v, for building records in code.
func Float(v float64) *float64 { return &v }

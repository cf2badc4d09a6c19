package plot

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/agentscape/pkg/dataset"
	"github.com/matzehuels/agentscape/pkg/scatter"
	"github.com/matzehuels/agentscape/pkg/scatter/viewport"
)

func sample() []dataset.Record {
	return []dataset.Record{
		{Name: "A", Category: dataset.CategoryAgentFramework, CodeLevel: dataset.Float(0.5), Complexity: dataset.Float(0.5),
			Description: "first", CodeLevelJustification: "code"},
		{Name: "B", Category: dataset.CategoryOrchestration, CodeLevel: dataset.Float(0.5), Complexity: dataset.Float(0.5)},
		{Name: "C", Category: dataset.CategoryOrchestration, CodeLevel: dataset.Float(0), Complexity: dataset.Float(1)},
		{Name: "D"},
	}
}

func build(t *testing.T) Layout {
	t.Helper()
	l, err := Build(sample(), Options{Axes: scatter.DefaultAxes, JitterAmount: scatter.DefaultJitterAmount})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return l
}

func TestBuild(t *testing.T) {
	l := build(t)

	if l.VizType != VizTypeScatter || l.Theme != ThemeLight {
		t.Errorf("viz/theme = %q/%q", l.VizType, l.Theme)
	}
	if l.Radius != 8 {
		t.Errorf("radius = %v, want 8", l.Radius)
	}
	if got := strings.Join(l.Categories, ","); got != "Agent Framework,Orchestration" {
		t.Errorf("categories = %q", got)
	}
	if len(l.Points) != 4 {
		t.Fatalf("points = %d, want 4", len(l.Points))
	}

	a := l.Points[0]
	if a.PX != 400 || a.PY != 300 {
		t.Errorf("A pixel = (%v, %v), want (400, 300)", a.PX, a.PY)
	}
	if a.Displaced() {
		t.Error("first point at a key must not move")
	}
	if a.Meta == nil || a.Meta.XJustification != "code" || a.Description() != "first" {
		t.Errorf("A meta = %+v", a.Meta)
	}
	if !l.Points[1].Displaced() {
		t.Error("second point at a key must move")
	}
	if c := l.Points[2]; c.PX != 60 || c.PY != 60 {
		t.Errorf("C pixel = (%v, %v), want (60, 60)", c.PX, c.PY)
	}
	if d := l.Points[3]; !d.MissingX || !d.MissingY || d.Meta != nil {
		t.Errorf("D = %+v, want missing without meta", d)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"bad axis", Options{Axes: scatter.AxisSelection{X: "stars", Y: scatter.Complexity}}},
		{"negative radius", Options{Axes: scatter.DefaultAxes, Radius: -1}},
		{"bad viewport", Options{Axes: scatter.DefaultAxes, View: viewport.New(100, 100, 60)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Build(sample(), tt.opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestBuildID(t *testing.T) {
	a, b := build(t), build(t)
	if a.ID == "" || a.ID != b.ID {
		t.Errorf("IDs %q and %q, want equal and non-empty", a.ID, b.ID)
	}

	other, _ := Build(sample(), Options{Axes: scatter.AxisSelection{X: scatter.Complexity, Y: scatter.CodeLevel}})
	if other.ID == a.ID {
		t.Error("different axes should give a different ID")
	}
}

func TestHitTest(t *testing.T) {
	l := build(t)

	p, ok := l.HitTest(403, 300)
	if !ok || p.Name != "A" {
		t.Errorf("HitTest(403, 300) = %q, %v; want A", p.Name, ok)
	}
	if _, ok := l.HitTest(700, 400); ok {
		t.Error("expected miss")
	}
	if got := len(l.Targets()); got != 4 {
		t.Errorf("targets = %d", got)
	}
}

func TestWithView(t *testing.T) {
	l := build(t)
	v := l.View()
	v.ZoomAt(2, 400, 300)
	v.Pan(10, 0)

	z := l.WithView(v)
	if z.Zoom != 2 || z.PanX != v.PanX {
		t.Errorf("zoom/pan not stored: %v %v", z.Zoom, z.PanX)
	}
	if a := z.Points[0]; a.PX != 410 || a.PY != 300 {
		t.Errorf("A after zoom at its center and pan = (%v, %v), want (410, 300)", a.PX, a.PY)
	}
	if l.Points[0].PX != 400 {
		t.Error("WithView must not modify the receiver")
	}
	if z.Points[1].PlotX != l.Points[1].PlotX {
		t.Error("plot positions must be unchanged")
	}
}

func TestLayoutFileRoundTrip(t *testing.T) {
	l := build(t)
	path := filepath.Join(t.TempDir(), "x.layout.json")
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile: %v", err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if got.ID != l.ID || len(got.Points) != len(l.Points) || got.Points[1].PlotX != l.Points[1].PlotX {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if p, ok := got.Point("C"); !ok || p.Category != dataset.CategoryOrchestration {
		t.Errorf("Point(C) = %+v, %v", p, ok)
	}
}

func TestUnmarshalLayout(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"scatter", `{"viz_type":"scatter","width":800,"height":600,"margin":60,"x_axis":"code_level","y_axis":"complexity"}`, false},
		{"default viz type", `{"width":800,"height":600,"x_axis":"code_level","y_axis":"learning_curve"}`, false},
		{"nodelink", `{"viz_type":"nodelink","dot":"digraph{}"}`, false},
		{"nodelink without DOT", `{"viz_type":"nodelink"}`, true},
		{"bad axis", `{"width":800,"height":600,"x_axis":"stars","y_axis":"complexity"}`, true},
		{"no size", `{"x_axis":"code_level","y_axis":"complexity"}`, true},
		{"unknown viz", `{"viz_type":"tower"}`, true},
		{"invalid json", `{`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalLayout([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestReadLayoutFileNotFound(t *testing.T) {
	if _, err := ReadLayoutFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestNewNodelink(t *testing.T) {
	l := NewNodelink("digraph {}", []string{"x"}, 0, 0, ThemeDark)
	if !l.IsNodelink() || l.Engine != "dot" || l.ID == "" {
		t.Errorf("nodelink layout = %+v", l)
	}
	if err := l.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

package hit

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/agentscape/pkg/scatter"
	"github.com/matzehuels/agentscape/pkg/scatter/viewport"
)

func TestTest(t *testing.T) {
	pair := []Target{{Name: "first", X: 100, Y: 100}, {Name: "second", X: 130, Y: 100}}
	same := []Target{{Name: "under", X: 50, Y: 50}, {Name: "over", X: 50, Y: 50}}

	tests := []struct {
		name    string
		px, py  float64
		targets []Target
		radius  float64
		want    string
		wantOK  bool
	}{
		{"center of first", 100, 100, pair, 15, "first", true},
		{"center of second", 130, 100, pair, 15, "second", true},
		{"outside both", 100, 116, pair, 15, "", false},
		{"on the boundary", 100, 115, pair, 15, "first", true},
		{"overlap resolves to first", 115, 100, pair, 15, "first", true},
		{"identical centers", 52, 49, same, 8, "under", true},
		{"empty", 0, 0, nil, 15, "", false},
		{"zero radius exact", 130, 100, pair, 0, "second", true},
		{"zero radius off by one", 131, 100, pair, 0, "", false},
		{"negative radius", 100, 100, pair, -1, "", false},
		{"NaN radius", 100, 100, pair, math.NaN(), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Test(tt.px, tt.py, tt.targets, tt.radius)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Test(%v, %v) = (%q, %v), want (%q, %v)", tt.px, tt.py, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestTestAll(t *testing.T) {
	targets := []Target{
		{Name: "a", X: 10, Y: 10},
		{Name: "b", X: 14, Y: 10},
		{Name: "c", X: 40, Y: 10},
	}
	got := TestAll(12, 10, targets, 5)
	if want := []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("TestAll = %v, want %v", got, want)
	}
	if got := TestAll(100, 100, targets, 5); got != nil {
		t.Errorf("TestAll miss = %v, want nil", got)
	}
}

func TestTargets(t *testing.T) {
	v := viewport.New(200, 200, 0)
	points := []scatter.PositionedPoint{
		{Name: "low", PlotX: 0, PlotY: 0},
		{Name: "high", PlotX: 1, PlotY: 1},
	}
	got := Targets(points, v)
	want := []Target{{Name: "low", X: 0, Y: 200}, {Name: "high", X: 200, Y: 0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Targets = %v, want %v", got, want)
	}
}

func TestLayoutThenHit(t *testing.T) {
	entities := []scatter.Entity{
		{Name: "A", Attributes: map[scatter.AxisKey]float64{scatter.CodeLevel: 0.5, scatter.Complexity: 0.5}},
		{Name: "B", Attributes: map[scatter.AxisKey]float64{scatter.CodeLevel: 0.5, scatter.Complexity: 0.5}},
	}
	v := viewport.New(800, 600, 60)
	targets := Targets(scatter.ComputeLayout(entities, scatter.DefaultAxes), v)

	px, py := v.Project(0.5, 0.5)
	if name, ok := Test(px, py, targets, DefaultRadius); !ok || name != "A" {
		t.Errorf("Test at shared spot = (%q, %v), want A", name, ok)
	}
	if name, ok := Test(targets[1].X, targets[1].Y, targets, 0); !ok || name != "B" {
		t.Errorf("Test at B's exact center = (%q, %v), want B", name, ok)
	}
}

func TestNearest(t *testing.T) {
	if _, _, ok := Nearest(0, 0, nil); ok {
		t.Error("Nearest on empty input should report false")
	}
	targets := []Target{{Name: "far", X: 100, Y: 0}, {Name: "near", X: 3, Y: 4}}
	got, d, ok := Nearest(0, 0, targets)
	if !ok || got.Name != "near" || d != 5 {
		t.Errorf("Nearest = (%v, %v, %v)", got, d, ok)
	}
}

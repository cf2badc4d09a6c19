package scatter_test

import (
	"fmt"

	"github.com/matzehuels/agentscape/pkg/scatter"
)

func ExampleComputeLayout() {
	entities := []scatter.Entity{
		{Name: "LangGraph", Attributes: map[scatter.AxisKey]float64{scatter.CodeLevel: 0.8, scatter.Complexity: 0.7}},
		{Name: "CrewAI", Attributes: map[scatter.AxisKey]float64{scatter.CodeLevel: 0.8, scatter.Complexity: 0.7}},
		{Name: "Zapier", Attributes: map[scatter.AxisKey]float64{scatter.CodeLevel: 0, scatter.Complexity: 0.2}},
	}

	for _, p := range scatter.ComputeLayout(entities, scatter.DefaultAxes) {
		fmt.Printf("%s displaced=%v\n", p.Name, p.Displaced())
	}
	// Output:
	// LangGraph displaced=false
	// CrewAI displaced=true
	// Zapier displaced=false
}

func ExampleAxisKey_Label() {
	fmt.Println(scatter.CodeLevel.Label())
	// Output: Code Level (0 = No Code, 1 = Advanced Coding)
}

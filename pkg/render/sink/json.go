package sink

import "github.com/matzehuels/agentscape/pkg/plot"

// RenderJSON serializes the layout.
func RenderJSON(l plot.Layout) ([]byte, error) { return plot.MarshalLayout(l) }

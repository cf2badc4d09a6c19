// Package plot provides the serializable layout format for agentscape
// visualizations.
//
// A [Layout] is what the pipeline caches, what `agentscape layout` writes to
// disk and what the HTTP API returns. Renderers, the hit tester and the
// terminal explorer all work from it, so a layout file fully determines the
// picture.
//
// # Core Types
//
//   - [Layout]: discriminated by VizType ("scatter" or "nodelink")
//   - [Point]: one positioned framework with pixel center and display metadata
//
// # Building
//
// [Build] runs the layout engine over dataset records and projects every
// point through the viewport:
//
//	l, err := plot.Build(records, plot.Options{Axes: scatter.DefaultAxes})
//	name, ok := hit.Test(px, py, l.Targets(), l.Radius)
//
// Pan and zoom change only pixel centers. [Layout.WithView] reprojects the
// stored plot positions without re-running the engine.
//
// # Serialization
//
//	data, _ := plot.MarshalLayout(l)
//	l, err := plot.UnmarshalLayout(data) // validates axes and viewport
//	plot.WriteLayoutFile(l, "frameworks.layout.json")
//
// Layout IDs are name-based UUIDs over the layout content, so rebuilding the
// same input yields the same ID.
package plot

// Package render turns layouts into images.
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both the scatter sink and
// the node-link renderer use them.
//
//	svg := sink.RenderSVG(layout, sink.WithPopups())
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0) // 2x scale
//
// Subpackages:
//   - [sink]: scatter output formats (SVG, PNG, PDF, JSON)
//   - [styles]: themes and text helpers
//   - [nodelink]: Graphviz map of frameworks grouped by category
//   - [logos]: logo image cache for embedded logos
//
// [sink]: github.com/matzehuels/agentscape/pkg/render/sink
// [styles]: github.com/matzehuels/agentscape/pkg/render/styles
// [nodelink]: github.com/matzehuels/agentscape/pkg/render/nodelink
// [logos]: github.com/matzehuels/agentscape/pkg/render/logos
package render

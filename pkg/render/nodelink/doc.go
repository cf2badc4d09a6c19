// Package nodelink renders frameworks as a Graphviz category map.
//
// Each category becomes a cluster with a hub node linked to its
// frameworks. Nodes are filled with the category's theme color and carry
// the description as tooltip and the website as link.
//
//	dot := nodelink.ToDOT(records, nodelink.Options{Theme: styles.Dark})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink

// Package sink writes scatter layouts to output formats.
//
// # SVG
//
// [RenderSVG] draws the plot area (grid, axes with titles, one circle per
// point colored by category) and, through options, point labels, a
// category legend, hover popups, click-to-open detail panels, embedded
// logos and a wheel-zoom / drag-pan script:
//
//	svg := sink.RenderSVG(l,
//	    sink.WithTheme(styles.Dark),
//	    sink.WithPopups(),
//	    sink.WithDetails(),
//	    sink.WithInteractive(),
//	)
//
// Points are drawn in layout order, so later points paint over earlier
// ones while hit testing reports the earliest. The interactive script uses
// the same transform as the viewport package (screen = base·zoom + pan).
//
// # PNG and PDF
//
// [RenderPNG] and [RenderPDF] convert the SVG with rsvg-convert. Scripts
// are ignored by the converter, so static output shows the layout's stored
// zoom and pan.
//
// # JSON
//
// [RenderJSON] writes the layout itself, for re-rendering later with
// `agentscape visualize`.
package sink

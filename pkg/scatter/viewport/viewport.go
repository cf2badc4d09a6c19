// Package viewport maps plot coordinates in [0, 1]² to pixels.
//
// The plot area is the canvas inset by Margin on every side; Y grows upward
// in plot space and downward on screen. On top of that base mapping a View
// applies zoom and pan:
//
//	screen = base*Zoom + Pan
//
// Pan is in screen pixels. [View.ZoomAt] keeps the pixel under the cursor
// fixed, so repeated wheel zooms feel anchored.
package viewport

import (
	"fmt"
	"math"
)

// Defaults used by [New] and by the zero-value fallbacks in [View].
const (
	DefaultWidth   = 800.0
	DefaultHeight  = 600.0
	DefaultMargin  = 60.0
	DefaultMinZoom = 0.5
	DefaultMaxZoom = 20.0
)

// View is a pixel viewport over the unit plot square.
type View struct {
	Width, Height float64
	Margin        float64

	Zoom       float64
	PanX, PanY float64

	MinZoom, MaxZoom float64
}

// New returns an unzoomed view of the given canvas size.
func New(width, height, margin float64) View {
	return View{
		Width:   width,
		Height:  height,
		Margin:  margin,
		Zoom:    1,
		MinZoom: DefaultMinZoom,
		MaxZoom: DefaultMaxZoom,
	}
}

// Validate checks that the plot area has positive size.
func (v View) Validate() error {
	if v.Width <= 0 || v.Height <= 0 {
		return fmt.Errorf("viewport: size %gx%g must be positive", v.Width, v.Height)
	}
	if v.Margin < 0 || 2*v.Margin >= v.Width || 2*v.Margin >= v.Height {
		return fmt.Errorf("viewport: margin %g does not fit a %gx%g canvas", v.Margin, v.Width, v.Height)
	}
	return nil
}

// PlotWidth is the width of the area between the margins.
func (v View) PlotWidth() float64 { return v.Width - 2*v.Margin }

// PlotHeight is the height of the area between the margins.
func (v View) PlotHeight() float64 { return v.Height - 2*v.Margin }

// Project converts plot coordinates to screen pixels.
func (v View) Project(x, y float64) (px, py float64) {
	bx := v.Margin + x*v.PlotWidth()
	by := v.Margin + (1-y)*v.PlotHeight()
	z := v.zoom()
	return bx*z + v.PanX, by*z + v.PanY
}

// Unproject converts screen pixels back to plot coordinates.
func (v View) Unproject(px, py float64) (x, y float64) {
	z := v.zoom()
	bx := (px - v.PanX) / z
	by := (py - v.PanY) / z
	x = (bx - v.Margin) / v.PlotWidth()
	y = 1 - (by-v.Margin)/v.PlotHeight()
	return x, y
}

// Pan shifts the view by (dx, dy) screen pixels.
func (v *View) Pan(dx, dy float64) {
	v.PanX += dx
	v.PanY += dy
}

// ZoomAt multiplies the zoom by factor, keeping the screen pixel (cx, cy)
// over the same plot coordinate. The result is clamped to [MinZoom, MaxZoom].
// Non-positive or non-finite factors are ignored.
func (v *View) ZoomAt(factor, cx, cy float64) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return
	}
	old := v.zoom()
	next := min(max(old*factor, v.minZoom()), v.maxZoom())
	v.PanX = cx - (cx-v.PanX)*next/old
	v.PanY = cy - (cy-v.PanY)*next/old
	v.Zoom = next
}

// Reset restores zoom 1 and removes any pan.
func (v *View) Reset() {
	v.Zoom = 1
	v.PanX, v.PanY = 0, 0
}

// Visible reports whether the screen pixel lies inside the canvas.
func (v View) Visible(px, py float64) bool {
	return px >= 0 && px <= v.Width && py >= 0 && py <= v.Height
}

func (v View) zoom() float64 {
	if v.Zoom <= 0 || math.IsNaN(v.Zoom) {
		return 1
	}
	return v.Zoom
}

func (v View) minZoom() float64 {
	if v.MinZoom <= 0 {
		return DefaultMinZoom
	}
	return v.MinZoom
}

func (v View) maxZoom() float64 {
	if v.MaxZoom <= 0 {
		return DefaultMaxZoom
	}
	return v.MaxZoom
}

// Package styles defines the color themes used by the renderers.
package styles

import (
	"fmt"
	"strings"
)

// Colors of the two categories in the bundled dataset.
const (
	ColorAgentFramework = "rgba(255, 99, 132, 0.6)"
	ColorOrchestration  = "rgba(53, 162, 235, 0.6)"
	ColorUncategorized  = "rgba(150, 150, 150, 0.6)"
)

var fixedColors = map[string]string{
	"Agent Framework": ColorAgentFramework,
	"Orchestration":   ColorOrchestration,
}

// Theme is a set of colors for one appearance.
type Theme struct {
	Name       string
	Background string
	Text       string
	MutedText  string
	Grid       string
	Axis       string
	Stroke     string // point outline

	PopupBackground string
	PopupBorder     string
	Link            string

	// Palette is cycled for categories without a fixed color.
	Palette []string
}

var defaultPalette = []string{
	"rgba(75, 192, 192, 0.6)",
	"rgba(255, 159, 64, 0.6)",
	"rgba(153, 102, 255, 0.6)",
	"rgba(255, 205, 86, 0.6)",
	"rgba(201, 203, 207, 0.6)",
}

// Light is the default theme.
var Light = Theme{
	Name:            "light",
	Background:      "#ffffff",
	Text:            "#1f2937",
	MutedText:       "#6b7280",
	Grid:            "#e5e7eb",
	Axis:            "#9ca3af",
	Stroke:          "#ffffff",
	PopupBackground: "#ffffff",
	PopupBorder:     "#d1d5db",
	Link:            "#2563eb",
	Palette:         defaultPalette,
}

// Dark is a theme for dark backgrounds.
var Dark = Theme{
	Name:            "dark",
	Background:      "#111827",
	Text:            "#f3f4f6",
	MutedText:       "#9ca3af",
	Grid:            "#1f2937",
	Axis:            "#4b5563",
	Stroke:          "#111827",
	PopupBackground: "#1f2937",
	PopupBorder:     "#374151",
	Link:            "#60a5fa",
	Palette:         defaultPalette,
}

// ThemeByName returns the theme called name. Empty means [Light].
func ThemeByName(name string) (Theme, error) {
	switch strings.ToLower(name) {
	case "", "light":
		return Light, nil
	case "dark":
		return Dark, nil
	}
	return Theme{}, fmt.Errorf("unknown theme %q (must be light or dark)", name)
}

// CategoryColor returns the fill color for category. Categories without a
// fixed color take palette entries in the order they appear in categories.
func (t Theme) CategoryColor(category string, categories []string) string {
	if c, ok := fixedColors[category]; ok {
		return c
	}
	if category == "" || len(t.Palette) == 0 {
		return ColorUncategorized
	}
	i := 0
	for _, c := range categories {
		if c == category {
			return t.Palette[i%len(t.Palette)]
		}
		if _, fixed := fixedColors[c]; !fixed {
			i++
		}
	}
	return ColorUncategorized
}

// Hex converts "rgba(r, g, b, a)" to "#rrggbbaa" for tools that do not
// understand CSS color functions. Other input is returned unchanged.
func Hex(color string) string {
	var r, g, b int
	var a float64
	if _, err := fmt.Sscanf(strings.ReplaceAll(color, " ", ""), "rgba(%d,%d,%d,%g)", &r, &g, &b, &a); err != nil {
		return color
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, int(a*255+0.5))
}

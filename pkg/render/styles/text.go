package styles

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// EscapeXML escapes s for use in SVG text and attributes.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// WrapURL wraps whatever fn writes in a link when url is set.
func WrapURL(buf *bytes.Buffer, url string, fn func()) {
	if url != "" {
		fmt.Fprintf(buf, `<a href="%s" target="_blank" rel="noopener">`, EscapeXML(url))
	}
	fn()
	if url != "" {
		buf.WriteString("</a>")
	}
}

// FormatValue prints an attribute value, or "unknown" when it is missing.
func FormatValue(v float64, missing bool) string {
	if missing {
		return "unknown"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WrapText breaks s into lines of at most width runes on word boundaries,
// returning at most maxLines lines. A truncated result ends in "…".
func WrapText(s string, width, maxLines int) []string {
	words := strings.Fields(s)
	if len(words) == 0 || width <= 0 || maxLines <= 0 {
		return nil
	}

	var lines []string
	var cur []rune
	for _, w := range words {
		r := []rune(w)
		if len(r) > width {
			r = append(r[:width-1], '…')
		}
		switch {
		case len(cur) == 0:
			cur = r
		case len(cur)+1+len(r) <= width:
			cur = append(append(cur, ' '), r...)
		default:
			lines = append(lines, string(cur))
			cur = r
		}
		if len(lines) == maxLines {
			last := []rune(lines[maxLines-1])
			if len(last) >= width {
				last = last[:width-1]
			}
			lines[maxLines-1] = string(last) + "…"
			return lines
		}
	}
	return append(lines, string(cur))
}

// TextWidth estimates the rendered width of s at the given font size.
func TextWidth(s string, fontSize float64) float64 {
	return float64(len([]rune(s))) * fontSize * 0.55
}

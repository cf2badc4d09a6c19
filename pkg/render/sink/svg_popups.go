package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/agentscape/pkg/plot"
	"github.com/matzehuels/agentscape/pkg/render/styles"
)

const (
	popupFont    = 12.0
	popupLine    = 16.0
	popupWrap    = 42
	detailWidth  = 380.0
	detailFont   = 13.0
	detailLine   = 18.0
	detailWrap   = 54
	detailMaxRow = 5
)

// PopupLines returns the hover text of p: name, one line per axis and the
// wrapped description.
func PopupLines(l plot.Layout, p plot.Point) []string {
	lines := []string{
		p.Name,
		l.XAxis.Title() + ": " + styles.FormatValue(p.RawX, p.MissingX),
		l.YAxis.Title() + ": " + styles.FormatValue(p.RawY, p.MissingY),
	}
	return append(lines, styles.WrapText(p.Description(), popupWrap, 3)...)
}

// DetailSubtitle returns "category • X: v • Y: v".
func DetailSubtitle(l plot.Layout, p plot.Point) string {
	parts := make([]string, 0, 3)
	if p.Category != "" {
		parts = append(parts, p.Category)
	}
	parts = append(parts,
		l.XAxis.Title()+": "+styles.FormatValue(p.RawX, p.MissingX),
		l.YAxis.Title()+": "+styles.FormatValue(p.RawY, p.MissingY),
	)
	return strings.Join(parts, " • ")
}

func renderPopups(buf *bytes.Buffer, r *svgRenderer, l plot.Layout) {
	for i, p := range l.Points {
		lines := PopupLines(l, p)
		w := 0.0
		for _, s := range lines {
			w = max(w, styles.TextWidth(s, popupFont))
		}
		w += 16
		h := float64(len(lines))*popupLine + 10

		fmt.Fprintf(buf, `  <g class="popup" data-for="%s" visibility="hidden" pointer-events="none">`, pointID(i))
		fmt.Fprintf(buf, `<rect width="%.1f" height="%.1f" rx="6" fill="%s" stroke="%s"/>`, w, h, r.theme.PopupBackground, r.theme.PopupBorder)
		for j, s := range lines {
			weight := ""
			if j == 0 {
				weight = ` font-weight="bold"`
			}
			fill := r.theme.Text
			if j > 2 {
				fill = r.theme.MutedText
			}
			fmt.Fprintf(buf, `<text x="8" y="%.1f" font-size="%.0f" fill="%s"%s>%s</text>`,
				float64(j+1)*popupLine, popupFont, fill, weight, styles.EscapeXML(s))
		}
		buf.WriteString("</g>\n")
	}
}

func renderDetails(buf *bytes.Buffer, r *svgRenderer, l plot.Layout) {
	for i, p := range l.Points {
		var rows []detailRow
		rows = append(rows, detailRow{text: p.Name, size: 16, bold: true})
		rows = append(rows, detailRow{text: DetailSubtitle(l, p), muted: true})
		for _, s := range styles.WrapText(p.Description(), detailWrap, detailMaxRow) {
			rows = append(rows, detailRow{text: s})
		}
		if p.Meta != nil {
			rows = appendJustification(rows, l.XAxis.Title(), p.Meta.XJustification)
			if l.YAxis != l.XAxis {
				rows = appendJustification(rows, l.YAxis.Title(), p.Meta.YJustification)
			}
		}

		h := float64(len(rows))*detailLine + 28
		url := ""
		if p.Meta != nil {
			url = p.Meta.URL
		}
		if url != "" {
			h += detailLine + 6
		}
		x := (l.Width - detailWidth) / 2
		y := max(10, (l.Height-h)/2)

		fmt.Fprintf(buf, `  <g class="detail" data-for="%s" visibility="hidden" transform="translate(%.1f,%.1f)">`, pointID(i), x, y)
		fmt.Fprintf(buf, `<rect width="%.1f" height="%.1f" rx="8" fill="%s" stroke="%s"/>`, detailWidth, h, r.theme.PopupBackground, r.theme.PopupBorder)
		fmt.Fprintf(buf, `<text class="detail-close" x="%.1f" y="22" font-size="16" fill="%s" text-anchor="end">×</text>`, detailWidth-12, r.theme.MutedText)

		ty := 10.0
		for _, row := range rows {
			ty += detailLine
			size := row.size
			if size == 0 {
				size = detailFont
			}
			fill := r.theme.Text
			if row.muted {
				fill = r.theme.MutedText
			}
			weight := ""
			if row.bold {
				weight = ` font-weight="bold"`
			}
			fmt.Fprintf(buf, `<text x="14" y="%.1f" font-size="%.0f" fill="%s"%s>%s</text>`, ty, size, fill, weight, styles.EscapeXML(row.text))
		}
		if url != "" {
			ty += detailLine + 6
			styles.WrapURL(buf, url, func() {
				fmt.Fprintf(buf, `<text class="detail-link" x="14" y="%.1f" font-size="%.0f" fill="%s" text-decoration="underline">Visit Website</text>`,
					ty, detailFont, r.theme.Link)
			})
		}
		buf.WriteString("</g>\n")
	}
}

type detailRow struct {
	text  string
	size  float64
	bold  bool
	muted bool
}

func appendJustification(rows []detailRow, title, text string) []detailRow {
	if strings.TrimSpace(text) == "" {
		return rows
	}
	rows = append(rows, detailRow{text: title + " Justification", bold: true})
	for _, s := range styles.WrapText(text, detailWrap, detailMaxRow) {
		rows = append(rows, detailRow{text: s, muted: true})
	}
	return rows
}

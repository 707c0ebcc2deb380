package pdf

import (
	"strings"

	"github.com/aerissecure/planexport/theme"
)

var (
	white     = theme.Color{R: 255, G: 255, B: 255}
	textDark  = theme.Color{R: 31, G: 41, B: 55}
	textMuted = theme.Color{R: 107, G: 114, B: 128}
	gridLine  = theme.Color{R: 229, G: 231, B: 235}
	emptyFill = theme.Color{R: 249, G: 250, B: 251}
)

const ellipsis = "..."

func (r *renderer) font(style string, size float64, c theme.Color) {
	r.pdf.SetFont("Helvetica", style, size)
	r.pdf.SetTextColor(c.RGB())
}

func (r *renderer) fillColor(c theme.Color)   { r.pdf.SetFillColor(c.RGB()) }
func (r *renderer) strokeColor(c theme.Color) { r.pdf.SetDrawColor(c.RGB()) }

// text draws a single line of s in a box at (x, y). s is translated to the
// core font encoding; runes it cannot represent print as '.'.
func (r *renderer) text(x, y, w, h float64, s, align string) {
	r.pdf.SetXY(x, y)
	r.pdf.CellFormat(w, h, r.tr(s), "", 0, align, false, 0, "")
}

func (r *renderer) width(s string) float64 {
	return r.pdf.GetStringWidth(r.tr(s))
}

// wrap breaks s into lines no wider than width in the current font. Every
// newline starts a new line; words wider than a line are split between runes.
func (r *renderer) wrap(s string, width float64) []string {
	var lines []string
	for _, para := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if r.width(candidate) <= width {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
			}
			for len([]rune(word)) > 1 && r.width(word) > width {
				head, tail := r.splitWord(word, width)
				lines = append(lines, head)
				word = tail
			}
			line = word
		}
		lines = append(lines, line)
	}
	return lines
}

// splitWord returns the longest prefix of word (at least one rune) that fits
// width, and the rest.
func (r *renderer) splitWord(word string, width float64) (string, string) {
	runes := []rune(word)
	n := 1
	for n < len(runes)-1 && r.width(string(runes[:n+1])) <= width {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}

// fit shortens s until it fits width, ending it with an ellipsis.
func (r *renderer) fit(s string, width float64) string {
	if r.width(s) <= width {
		return s
	}
	runes := []rune(strings.TrimSuffix(s, ellipsis))
	for len(runes) > 0 && r.width(string(runes)+ellipsis) > width {
		runes = runes[:len(runes)-1]
	}
	return strings.TrimRight(string(runes), " ") + ellipsis
}

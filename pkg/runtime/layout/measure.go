package layout

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Measurer reports the printed width of text in millimetres.
type Measurer interface {
	TextWidth(s string, st Style) float64
}

// ApproxMeasurer estimates widths from terminal cell widths: half an em per
// cell, a little wider for bold. It is used where no font metrics exist.
type ApproxMeasurer struct{}

func (ApproxMeasurer) TextWidth(s string, st Style) float64 {
	w := float64(runewidth.StringWidth(s)) * st.Size * ptToMM * 0.5
	if st.Bold {
		w *= 1.08
	}
	return w
}

// Wrap breaks text into lines no wider than width. Explicit newlines are kept
// and words longer than a line are split by rune. Empty text is one empty line.
func Wrap(m Measurer, text string, width float64, st Style) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(m, para, width, st)...)
	}
	return lines
}

func wrapParagraph(m Measurer, text string, width float64, st Style) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	line := ""
	for _, w := range words {
		candidate := w
		if line != "" {
			candidate = line + " " + w
		}
		if m.TextWidth(candidate, st) <= width {
			line = candidate
			continue
		}
		if line != "" {
			lines = append(lines, line)
			line = ""
		}
		if m.TextWidth(w, st) <= width {
			line = w
			continue
		}
		pieces := breakWord(m, w, width, st)
		lines = append(lines, pieces[:len(pieces)-1]...)
		line = pieces[len(pieces)-1]
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// breakWord splits a single word into pieces that each fit width. Every piece
// holds at least one rune, so a very narrow width still terminates.
func breakWord(m Measurer, word string, width float64, st Style) []string {
	var pieces []string
	runes := []rune(word)
	start := 0
	for start < len(runes) {
		end := start + 1
		for end < len(runes) && m.TextWidth(string(runes[start:end+1]), st) <= width {
			end++
		}
		pieces = append(pieces, string(runes[start:end]))
		start = end
	}
	return pieces
}

// TextHeight is the height of text wrapped at width.
func TextHeight(m Measurer, text string, width float64, st Style) float64 {
	return float64(len(Wrap(m, text, width, st))) * st.LineHeight()
}

package export

import (
	"strings"
)

// MeasureFunc returns the rendered width of s in points.
type MeasureFunc func(s string) float64

type Style int

const (
	StyleTitle Style = iota
	StyleField
	StyleHeading
	StyleBody
)

// advance is how far the cursor drops after a line of each style.
func (s Style) advance() float64 {
	switch s {
	case StyleTitle:
		return 30
	case StyleField:
		return 20
	case StyleHeading:
		return 25
	default:
		return 15
	}
}

type Line struct {
	Text  string
	Style Style
}

// PlacedLine is a line with its baseline in PDF coordinates (origin bottom-left).
type PlacedLine struct {
	Line
	Y float64
}

type Page struct {
	Lines []PlacedLine
}

// Geometry is the vertical extent available for text in PDF coordinates.
type Geometry struct {
	Top    float64
	Bottom float64
}

// Wrap splits text into lines no wider than width. Newlines start new paragraphs, words
// are packed greedily and a word wider than width is broken between runes.
func Wrap(text string, width float64, measure MeasureFunc) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var out []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}

		line := ""
		for _, w := range words {
			for measure(w) > width {
				if line != "" {
					out = append(out, line)
					line = ""
				}
				var head string
				head, w = splitToWidth(w, width, measure)
				out = append(out, head)
			}
			if w == "" {
				continue
			}
			if line == "" {
				line = w
				continue
			}
			if candidate := line + " " + w; measure(candidate) <= width {
				line = candidate
			} else {
				out = append(out, line)
				line = w
			}
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// splitToWidth returns the longest rune prefix of w that fits, always at least one rune.
func splitToWidth(w string, width float64, measure MeasureFunc) (string, string) {
	runes := []rune(w)
	n := 1
	for n < len(runes) && measure(string(runes[:n+1])) <= width {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}

// Layout flattens doc into styled lines wrapped to width. measureFor returns the measure
// for the font used by a style.
func Layout(doc Document, width float64, measureFor func(Style) MeasureFunc) []Line {
	var lines []Line
	add := func(text string, style Style) {
		for _, l := range Wrap(text, width, measureFor(style)) {
			lines = append(lines, Line{Text: l, Style: style})
		}
	}

	add(doc.Title, StyleTitle)
	for _, f := range doc.Fields {
		add(f.Label+": "+f.Value, StyleField)
	}
	for _, s := range doc.Sections {
		add(s.Heading+":", StyleHeading)
		if s.Body != "" {
			add(s.Body, StyleBody)
		}
	}
	return lines
}

// Paginate assigns each line a baseline, starting a new page whenever the cursor has
// dropped below geo.Bottom. Lines keep their order and each appears exactly once.
func Paginate(lines []Line, geo Geometry) []Page {
	pages := []Page{{}}
	y := geo.Top
	for _, l := range lines {
		if y < geo.Bottom {
			pages = append(pages, Page{})
			y = geo.Top
		}
		last := &pages[len(pages)-1]
		last.Lines = append(last.Lines, PlacedLine{Line: l, Y: y})
		y -= l.Style.advance()
	}
	return pages
}

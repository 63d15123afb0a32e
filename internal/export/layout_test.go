package export

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runeWidth measures one point per rune.
func runeWidth(s string) float64 {
	return float64(utf8.RuneCountInString(s))
}

func TestWrapPacksWordsGreedily(t *testing.T) {
	lines := Wrap("uno dos tres cuatro cinco", 9, runeWidth)
	assert.Equal(t, []string{"uno dos", "tres", "cuatro", "cinco"}, lines)
	for _, l := range lines {
		assert.LessOrEqual(t, runeWidth(l), 9.0)
	}
}

func TestWrapKeepsParagraphs(t *testing.T) {
	lines := Wrap("primera\r\n\nsegunda linea", 100, runeWidth)
	assert.Equal(t, []string{"primera", "", "segunda linea"}, lines)
}

func TestWrapBreaksLongWord(t *testing.T) {
	lines := Wrap("ab abcdefghij cd", 4, runeWidth)
	assert.Equal(t, []string{"ab", "abcd", "efgh", "ij", "cd"}, lines)
}

func TestWrapBreaksBetweenRunes(t *testing.T) {
	lines := Wrap("ñññññ", 2, runeWidth)
	assert.Equal(t, []string{"ññ", "ññ", "ñ"}, lines)
}

func TestWrapPreservesWords(t *testing.T) {
	text := "El grupo llegó a la posada del Poni Pisador y pidió cerveza para todos"
	lines := Wrap(text, 20, runeWidth)
	assert.Equal(t, strings.Fields(text), strings.Fields(strings.Join(lines, " ")))
}

func TestPaginateSinglePage(t *testing.T) {
	lines := []Line{
		{Text: "t", Style: StyleTitle},
		{Text: "f", Style: StyleField},
		{Text: "h", Style: StyleHeading},
		{Text: "b", Style: StyleBody},
	}
	pages := Paginate(lines, Geometry{Top: 750, Bottom: 50})
	require.Len(t, pages, 1)

	ys := make([]float64, 0, 4)
	for _, pl := range pages[0].Lines {
		ys = append(ys, pl.Y)
	}
	assert.Equal(t, []float64{750, 720, 700, 675}, ys)
}

func TestPaginateStartsNewPageBelowMargin(t *testing.T) {
	lines := make([]Line, 100)
	for i := range lines {
		lines[i] = Line{Text: "linea", Style: StyleBody}
	}
	pages := Paginate(lines, Geometry{Top: 750, Bottom: 50})

	// 750 down to 50 in steps of 15 fits 47 lines per page
	require.Len(t, pages, 3)
	assert.Len(t, pages[0].Lines, 47)
	assert.Len(t, pages[1].Lines, 47)
	assert.Len(t, pages[2].Lines, 6)

	total := 0
	for _, p := range pages {
		assert.Equal(t, 750.0, p.Lines[0].Y)
		for _, pl := range p.Lines {
			assert.GreaterOrEqual(t, pl.Y, 50.0)
		}
		total += len(p.Lines)
	}
	assert.Equal(t, len(lines), total)
}

func TestPaginateEmpty(t *testing.T) {
	pages := Paginate(nil, Geometry{Top: 750, Bottom: 50})
	require.Len(t, pages, 1)
	assert.Empty(t, pages[0].Lines)
}

func TestLayoutOrder(t *testing.T) {
	doc := Document{
		Title:  "Titulo",
		Fields: []Field{{Label: "Juego", Value: "Rol"}},
		Sections: []Section{
			{Heading: "Resumen", Body: "uno\ndos"},
			{Heading: "Inventario"},
		},
	}
	measure := func(Style) MeasureFunc { return runeWidth }
	lines := Layout(doc, 100, measure)

	assert.Equal(t, []Line{
		{Text: "Titulo", Style: StyleTitle},
		{Text: "Juego: Rol", Style: StyleField},
		{Text: "Resumen:", Style: StyleHeading},
		{Text: "uno", Style: StyleBody},
		{Text: "dos", Style: StyleBody},
		{Text: "Inventario:", Style: StyleHeading},
	}, lines)
}

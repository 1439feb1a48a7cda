package plot

// graphColors is the default series palette, assigned in order of first
// appearance and reused cyclically.
var graphColors = []string{
	"#4C9AFF",
	"#FF7452",
	"#57D9A3",
	"#FFC400",
	"#B877D9",
	"#26C6DA",
	"#F06292",
	"#9CCC65",
	"#FF8F00",
	"#7986CB",
}

// Palette hands out stable default colors keyed by series id. A series
// keeps its color for the lifetime of the chart, including across
// clearData.
type Palette struct {
	assigned map[string]string
	next     int
}

func NewPalette() *Palette {
	return &Palette{assigned: make(map[string]string)}
}

// Color returns the series color, assigning the next palette entry on
// first use.
func (p *Palette) Color(seriesID string) string {
	if c, ok := p.assigned[seriesID]; ok {
		return c
	}
	c := graphColors[p.next%len(graphColors)]
	p.assigned[seriesID] = c
	p.next++
	return c
}

package models

// Trace is a single line series of the figure. Y entries are nil for gaps.
type Trace struct {
	Type  string     `json:"type"`
	Mode  string     `json:"mode"`
	Name  string     `json:"name"`
	X     []string   `json:"x"`
	Y     []*float64 `json:"y"`
	XAxis string     `json:"xaxis"`
	YAxis string     `json:"yaxis"`
}

// Axis is a figure axis.
type Axis struct {
	Title  AxisTitle `json:"title"`
	Domain []float64 `json:"domain,omitempty"`
	Anchor string    `json:"anchor,omitempty"`
}

type AxisTitle struct {
	Text string `json:"text"`
}

// Annotation labels a subplot.
type Annotation struct {
	Text      string  `json:"text"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	XRef      string  `json:"xref"`
	YRef      string  `json:"yref"`
	ShowArrow bool    `json:"showarrow"`
	XAnchor   string  `json:"xanchor"`
	YAnchor   string  `json:"yanchor"`
}

// Layout describes the two stacked panels sharing one date axis.
type Layout struct {
	Title       AxisTitle    `json:"title"`
	Height      int          `json:"height"`
	XAxis       Axis         `json:"xaxis"`
	YAxis       Axis         `json:"yaxis"`
	YAxis2      Axis         `json:"yaxis2"`
	Annotations []Annotation `json:"annotations"`
}

// Figure is a declarative chart document drawn client-side.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// TracesOn returns the traces plotted against the given y axis ("y" or "y2").
func (f Figure) TracesOn(yaxis string) []Trace {
	var out []Trace
	for _, t := range f.Data {
		if t.YAxis == yaxis {
			out = append(out, t)
		}
	}
	return out
}

// ScoreTable is a titled ranking table.
type ScoreTable struct {
	Title string        `json:"title"`
	Rows  []SectorScore `json:"rows"`
}

// RawTable is the filtered subset with every source column.
type RawTable struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Height  int        `json:"height"` // viewport height in px; rows scroll
}

// View is the complete render output for one SelectionState.
type View struct {
	Title     string         `json:"title"`
	Selection SelectionState `json:"selection"`
	Filtered  int            `json:"filtered_rows"`
	Chart     Figure         `json:"chart"`
	Summary   ScoreTable     `json:"summary"`
	Lowest    ScoreTable     `json:"lowest"`
	Highest   ScoreTable     `json:"highest"`
	Raw       *RawTable      `json:"raw,omitempty"`
}

package core

// BackgroundGroup and BackgroundColor label points outside every selection
// when Settings.BackgroundGrey is set.
const (
	BackgroundGroup = "Background"
	BackgroundColor = "#a4a2a2"
)

// NeutralColor is the primary color of a point without any group color.
const NeutralColor = "#cccccc"

// PlotPoint is a single plot-ready volcano point.
type PlotPoint struct {
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	ID         string   `json:"id"`
	Gene       string   `json:"gene"`
	Comparison string   `json:"comparison"`
	Text       string   `json:"text,omitempty"`
	Selections []string `json:"selections"`
	Colors     []string `json:"colors"`
	Color      string   `json:"color"`
}

// Group returns the first group the point belongs to.
func (p PlotPoint) Group() string {
	if len(p.Selections) == 0 {
		return ""
	}
	return p.Selections[0]
}

// Axis is a fully resolved set of volcano plot bounds.
type Axis struct {
	MinX, MaxX float64
	MinY, MaxY float64
	XTitle     string
	YTitle     string
}

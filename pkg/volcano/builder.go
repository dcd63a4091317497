// Package volcano builds plot-ready volcano points from processed
// differential rows, user selections and significance cutoffs.
package volcano

import (
	"math"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/Curtain/pkg/core"
	"github.com/ChrisMcGann/Curtain/pkg/differential"
	"github.com/ChrisMcGann/Curtain/pkg/palette"
)

// Result holds the points of one volcano plot and the data ranges seen
// while building them.
type Result struct {
	Points []core.PlotPoint

	// ColorMap is the input color map extended with colors for new
	// selections and significance groups.
	ColorMap map[string]string

	// MinFC, MaxFC and MaxY are the data ranges of the points. They
	// are zero when there are no points.
	MinFC, MaxFC float64
	MaxY         float64
}

// Build converts processed rows into points. Rows in a selection take the
// selection colors. Other rows are grouped by significance, or all share
// the background group when s.BackgroundGrey is set.
func Build(rows []differential.Row, form core.DifferentialForm, sel *core.Selections, s core.Settings) Result {
	colorMap := make(map[string]string, len(s.ColorMap))
	for k, v := range s.ColorMap {
		colorMap[k] = v
	}

	// Selections and significance groups share one allocation batch;
	// colors held by anything other than a condition are avoided.
	alloc := palette.NewAllocator(s.Palette(), palette.Used(colorMap, s.IsCondition))
	alloc.Assign(colorMap, sel.Names())

	b := builder{
		form:     form,
		settings: s,
		colorMap: colorMap,
		alloc:    alloc,
	}
	if !s.BackgroundGrey {
		b.seedQuadrants()
	}

	res := Result{Points: make([]core.PlotPoint, 0, len(rows))}
	for i, r := range rows {
		p := b.point(r, sel)
		if i == 0 {
			res.MinFC, res.MaxFC, res.MaxY = p.X, p.X, p.Y
		} else {
			res.MinFC = math.Min(res.MinFC, p.X)
			res.MaxFC = math.Max(res.MaxFC, p.X)
			res.MaxY = math.Max(res.MaxY, p.Y)
		}
		res.Points = append(res.Points, p)
	}
	res.ColorMap = colorMap
	return res
}

type builder struct {
	form     core.DifferentialForm
	settings core.Settings
	colorMap map[string]string
	alloc    *palette.Allocator

	// quadrant caches one color per significance quadrant so the same
	// quadrant is colored alike for every comparison.
	quadrant map[string]string
}

func (b *builder) point(r differential.Row, sel *core.Selections) core.PlotPoint {
	p := core.PlotPoint{
		X:          r.FoldChange,
		Y:          r.Significance,
		ID:         r.Values[b.form.PrimaryIDColumn],
		Gene:       r.Values[b.form.GeneNameColumn],
		Comparison: r.Values[b.form.ComparisonColumn],
	}
	if b.form.ComparisonColumn == "" {
		p.Comparison = ""
	}
	if p.Gene == "" {
		p.Gene = p.ID
	}
	if b.settings.CustomVolcanoTextCol != "" {
		p.Text = r.Values[b.settings.CustomVolcanoTextCol]
	}

	for _, name := range sel.For(p.ID) {
		color, ok := b.colorMap[name]
		if !ok {
			continue
		}
		p.Selections = append(p.Selections, name)
		p.Colors = append(p.Colors, color)
	}

	if len(p.Selections) == 0 {
		if b.settings.BackgroundGrey {
			p.Selections = []string{core.BackgroundGroup}
			p.Colors = []string{core.BackgroundColor}
		} else {
			group, position := Bucket(p.X, p.Y, p.Comparison, b.settings.PCutoff, b.settings.Log2FCCutoff)
			color, ok := b.colorMap[group]
			if !ok {
				color = b.quadrantColor(position)
				b.colorMap[group] = color
			}
			p.Selections = []string{group}
			p.Colors = []string{color}
		}
	}

	p.Color = core.NeutralColor
	if len(p.Colors) > 0 && p.Colors[0] != "" {
		p.Color = p.Colors[0]
	}
	return p
}

// seedQuadrants binds every quadrant that already has a colored group in
// the color map to that color, so a comparison added in a later import
// reuses it instead of allocating a new one. When several comparisons of
// one quadrant are colored, the lexically first group wins.
func (b *builder) seedQuadrants() {
	b.quadrant = make(map[string]string)
	p := formatCutoff(b.settings.PCutoff)
	fc := formatCutoff(b.settings.Log2FCCutoff)
	for _, pSide := range []string{pAbove, pBelow} {
		for _, fcSide := range []string{fcAbove, fcBelow} {
			prefix := pSide + p + ";" + fcSide + fc + " ("
			var best string
			for group := range b.colorMap {
				if !strings.HasPrefix(group, prefix) || !strings.HasSuffix(group, ")") {
					continue
				}
				if best == "" || group < best {
					best = group
				}
			}
			if best != "" {
				b.quadrant[pSide+fcSide] = b.colorMap[best]
			}
		}
	}
}

func (b *builder) quadrantColor(position string) string {
	if b.quadrant == nil {
		b.quadrant = make(map[string]string)
	}
	color, ok := b.quadrant[position]
	if !ok {
		color = b.alloc.Next()
		b.quadrant[position] = color
	}
	return color
}

// Significance group label prefixes.
const (
	pAbove  = "P-value > "
	pBelow  = "P-value <= "
	fcAbove = "FC > "
	fcBelow = "FC <= "
)

// Bucket returns the significance group label of a point and the key of
// its quadrant. The label includes the comparison; the quadrant key does
// not.
func Bucket(x, y float64, comparison string, pCutoff, fcCutoff float64) (group, position string) {
	p := formatCutoff(pCutoff)
	fc := formatCutoff(fcCutoff)

	pSide := pBelow
	if -math.Log10(pCutoff) > y {
		pSide = pAbove
	}
	fcSide := fcBelow
	if math.Abs(x) > fcCutoff {
		fcSide = fcAbove
	}
	group = pSide + p + ";" + fcSide + fc + " (" + comparison + ")"
	return group, pSide + fcSide
}

func formatCutoff(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Axis resolves the plot bounds, taking each bound from a when it is set
// and from the data ranges otherwise.
func (r Result) Axis(a core.VolcanoAxis) core.Axis {
	axis := core.Axis{
		MinX:   r.MinFC - 1,
		MaxX:   r.MaxFC + 1,
		MinY:   0,
		MaxY:   r.MaxY + 1,
		XTitle: a.XTitle,
		YTitle: a.YTitle,
	}
	if a.MinX != nil {
		axis.MinX = *a.MinX
	}
	if a.MaxX != nil {
		axis.MaxX = *a.MaxX
	}
	if a.MinY != nil {
		axis.MinY = *a.MinY
	}
	if a.MaxY != nil {
		axis.MaxY = *a.MaxY
	}
	if axis.XTitle == "" {
		axis.XTitle = "Log2FC"
	}
	if axis.YTitle == "" {
		axis.YTitle = "-log10(p-value)"
	}
	return axis
}

package condition

import (
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/ChrisMcGann/Curtain/pkg/core"
	"github.com/ChrisMcGann/Curtain/pkg/reader/tabular"
)

// Group is the abundance of one protein across the samples of a condition.
type Group struct {
	Condition string
	Color     string
	Samples   []string
	Values    []float64 // NaN where the cell is missing or not a number

	// Mean and StdDev summarise the non-NaN values. Both are NaN when
	// the group has no usable value; StdDev is NaN for a single value.
	Mean, StdDev float64
}

// Profile returns the per-condition abundance of the protein id in the raw
// table, ordered by s.ConditionOrder and s.SampleOrder. Hidden samples and
// samples not listed in form are left out. Values are log2 transformed
// unless form.IsLog2 is set. The boolean result is false if id is not in
// the table.
func Profile(ds *tabular.Dataset, form core.RawForm, s core.Settings, id string) ([]Group, bool) {
	ids, ok := ds.Column(form.PrimaryIDColumn)
	if !ok {
		return nil, false
	}
	row := -1
	for i, v := range ids {
		if strings.TrimSpace(v) == id {
			row = i
			break
		}
	}
	if row < 0 {
		return nil, false
	}

	selected := make(map[string]bool, len(form.SampleColumns))
	for _, c := range form.SampleColumns {
		selected[c] = true
	}

	var groups []Group
	for _, c := range s.ConditionOrder {
		g := Group{Condition: c, Color: s.ColorMap[c]}
		for _, sample := range s.SampleOrder[c] {
			if !selected[sample] || !s.SampleVisible[sample] {
				continue
			}
			g.Samples = append(g.Samples, sample)
			g.Values = append(g.Values, abundance(ds.Cell(sample, row), form.IsLog2))
		}
		if len(g.Samples) == 0 {
			continue
		}
		g.Mean, g.StdDev = summarise(g.Values)
		groups = append(groups, g)
	}
	return groups, true
}

func abundance(cell string, isLog2 bool) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || math.IsNaN(v) {
		return math.NaN()
	}
	if isLog2 {
		return v
	}
	if v <= 0 {
		return math.NaN()
	}
	return math.Log2(v)
}

func summarise(values []float64) (mean, std float64) {
	var finite []float64
	for _, v := range values {
		if !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}
	switch len(finite) {
	case 0:
		return math.NaN(), math.NaN()
	case 1:
		return finite[0], math.NaN()
	}
	return stat.MeanStdDev(finite, nil)
}

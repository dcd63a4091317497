// Package differential filters and transforms the rows of a differential
// analysis table into the values plotted on a volcano plot.
package differential

import (
	"math"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/Curtain/pkg/core"
	"github.com/ChrisMcGann/Curtain/pkg/reader/tabular"
)

// Row is a differential table row reduced to its essential columns.
type Row struct {
	// Values holds the cells of the essential columns only.
	Values map[string]string

	FoldChange   float64 // after log2 transform and reversal
	Significance float64 // after -log10 transform
}

// Result holds the processed rows along with the form after defaulting.
type Result struct {
	Form    core.DifferentialForm
	Columns []string // essential columns, in a fixed order
	Rows    []Row
}

// Process filters ds to the rows whose comparison value is selected in
// form and transforms fold change and significance. customTextColumn is
// kept in the projected rows when non-empty.
func Process(ds *tabular.Dataset, form core.DifferentialForm, customTextColumn string) Result {
	form = Defaults(ds, form)
	columns := essentialColumns(form, customTextColumn)

	selected := make(map[string]bool, len(form.ComparisonSelect))
	for _, c := range form.ComparisonSelect {
		selected[strings.TrimSpace(c)] = true
	}
	synthetic := !ds.Has(form.ComparisonColumn)

	res := Result{Form: form, Columns: columns}
	for i := 0; i < ds.RowCount(); i++ {
		comparison := core.DefaultComparison
		if !synthetic {
			comparison = strings.TrimSpace(ds.Cell(form.ComparisonColumn, i))
		}
		if len(selected) > 0 && !selected[comparison] {
			continue
		}

		values := ds.Row(i, columns)
		values[form.ComparisonColumn] = comparison
		res.Rows = append(res.Rows, Row{
			Values:       values,
			FoldChange:   FoldChange(values[form.FoldChangeColumn], form.TransformFoldChange, form.ReverseFoldChange),
			Significance: Significance(values[form.SignificanceColumn], form.TransformSignificance),
		})
	}
	return res
}

// Defaults fills in the comparison column and comparison selection of form.
// An unset comparison column becomes core.ComparisonSentinel. When the
// column is not in the table the selection is core.DefaultComparison;
// otherwise an empty selection becomes the first comparison value of the
// table, or core.DefaultComparison if there is none.
func Defaults(ds *tabular.Dataset, form core.DifferentialForm) core.DifferentialForm {
	form = form.Clone()
	if form.ComparisonColumn == "" {
		form.ComparisonColumn = core.ComparisonSentinel
	}
	if !ds.Has(form.ComparisonColumn) {
		// Without a comparison column every row carries the default
		// comparison, so any other selection would drop them all.
		form.ComparisonSelect = []string{core.DefaultComparison}
		return form
	}
	if len(form.ComparisonSelect) == 0 {
		first := strings.TrimSpace(ds.Cell(form.ComparisonColumn, 0))
		if first == "" {
			first = core.DefaultComparison
		}
		form.ComparisonSelect = []string{first}
	}
	return form
}

func essentialColumns(form core.DifferentialForm, customTextColumn string) []string {
	var columns []string
	for _, c := range []string{
		form.FoldChangeColumn,
		form.SignificanceColumn,
		form.PrimaryIDColumn,
		form.GeneNameColumn,
		customTextColumn,
		form.ComparisonColumn,
	} {
		if c != "" && !contains(columns, c) {
			columns = append(columns, c)
		}
	}
	return columns
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ParseFloat parses a numeric cell, returning 0 for anything that is not a
// finite number.
func ParseFloat(cell string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// FoldChange parses and transforms a fold change cell. With transform set
// the value is replaced by its log2, or 0 if it is not positive. With
// reverse set the sign of the result is flipped.
func FoldChange(cell string, transform, reverse bool) float64 {
	v := ParseFloat(cell)
	if transform {
		if v > 0 {
			v = math.Log2(v)
		} else {
			v = 0
		}
	}
	if reverse && v != 0 {
		v = -v
	}
	return v
}

// Significance parses and transforms a p-value cell. With transform set
// the value is replaced by its -log10, or 0 if it is not positive.
func Significance(cell string, transform bool) float64 {
	v := ParseFloat(cell)
	if transform {
		if v > 0 {
			return -math.Log10(v)
		}
		return 0
	}
	return v
}

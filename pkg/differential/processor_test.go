package differential

import (
	"math"
	"reflect"
	"testing"

	"github.com/ChrisMcGann/Curtain/pkg/core"
	"github.com/ChrisMcGann/Curtain/pkg/reader/tabular"
)

const eps = 1e-9

func TestFoldChange(t *testing.T) {
	tests := []struct {
		name      string
		cell      string
		transform bool
		reverse   bool
		want      float64
	}{
		{"log2", "4.0", true, false, 2},
		{"log2 of zero", "0", true, false, 0},
		{"log2 of negative", "-3", true, false, 0},
		{"reverse after log2", "4.0", true, true, -2},
		{"reverse raw", "1.5", false, true, -1.5},
		{"raw", "-0.75", false, false, -0.75},
		{"unparsable", "NA", false, false, 0},
		{"missing", "", true, true, 0},
		{"whitespace", " 8 ", true, false, 3},
		{"infinite", "Inf", false, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FoldChange(tt.cell, tt.transform, tt.reverse)
			if math.Abs(got-tt.want) > eps {
				t.Errorf("FoldChange(%q, %v, %v) = %v, expected %v", tt.cell, tt.transform, tt.reverse, got, tt.want)
			}
		})
	}
}

func TestSignificance(t *testing.T) {
	tests := []struct {
		name      string
		cell      string
		transform bool
		want      float64
	}{
		{"minus log10", "0.01", true, 2},
		{"zero", "0", true, 0},
		{"negative", "-0.5", true, 0},
		{"untransformed", "3.5", false, 3.5},
		{"unparsable", "n/a", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Significance(tt.cell, tt.transform)
			if math.Abs(got-tt.want) > eps {
				t.Errorf("Significance(%q, %v) = %v, expected %v", tt.cell, tt.transform, got, tt.want)
			}
		})
	}
}

const diffTable = "id\tgene\tfc\tp\tcomparison\textra\n" +
	"P1\tGA\t4\t0.01\tA-B\tx\n" +
	"P2\tGB\t0.5\t0.5\tC-D\ty\n" +
	"P3\t\t2\t0.001\t A-B \tz\n"

func TestProcessFiltersComparison(t *testing.T) {
	ds := tabular.Parse(diffTable)
	form := core.DifferentialForm{
		PrimaryIDColumn:       "id",
		GeneNameColumn:        "gene",
		FoldChangeColumn:      "fc",
		TransformFoldChange:   true,
		SignificanceColumn:    "p",
		TransformSignificance: true,
		ComparisonColumn:      "comparison",
		ComparisonSelect:      []string{"A-B"},
	}
	res := Process(ds, form, "")

	if len(res.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(res.Rows))
	}
	if res.Rows[0].Values["id"] != "P1" || res.Rows[1].Values["id"] != "P3" {
		t.Errorf("Unexpected rows: %v, %v", res.Rows[0].Values, res.Rows[1].Values)
	}
	if _, ok := res.Rows[0].Values["extra"]; ok {
		t.Error("Non-essential column must not be retained")
	}
	if math.Abs(res.Rows[1].FoldChange-1) > eps || math.Abs(res.Rows[1].Significance-3) > eps {
		t.Errorf("Unexpected transforms for P3: fc=%v sig=%v", res.Rows[1].FoldChange, res.Rows[1].Significance)
	}
	wantColumns := []string{"fc", "p", "id", "gene", "comparison"}
	if !reflect.DeepEqual(res.Columns, wantColumns) {
		t.Errorf("Expected essential columns %v, got %v", wantColumns, res.Columns)
	}
}

func TestProcessDefaultsComparison(t *testing.T) {
	ds := tabular.Parse(diffTable)

	form := core.DifferentialForm{PrimaryIDColumn: "id", FoldChangeColumn: "fc", SignificanceColumn: "p", ComparisonColumn: "comparison"}
	res := Process(ds, form, "")
	if !reflect.DeepEqual(res.Form.ComparisonSelect, []string{"A-B"}) {
		t.Errorf("Expected selection from first row, got %v", res.Form.ComparisonSelect)
	}
	if len(res.Rows) != 2 {
		t.Errorf("Expected 2 rows for default selection, got %d", len(res.Rows))
	}

	form.ComparisonColumn = ""
	res = Process(ds, form, "extra")
	if res.Form.ComparisonColumn != core.ComparisonSentinel {
		t.Errorf("Expected sentinel comparison column, got %q", res.Form.ComparisonColumn)
	}
	if !reflect.DeepEqual(res.Form.ComparisonSelect, []string{core.DefaultComparison}) {
		t.Errorf("Expected default selection, got %v", res.Form.ComparisonSelect)
	}
	if len(res.Rows) != 3 {
		t.Fatalf("Expected all 3 rows, got %d", len(res.Rows))
	}
	if got := res.Rows[0].Values[core.ComparisonSentinel]; got != core.DefaultComparison {
		t.Errorf("Expected synthetic comparison value, got %q", got)
	}
	if got := res.Rows[2].Values["extra"]; got != "z" {
		t.Errorf("Expected custom text column to be kept, got %q", got)
	}
	if len(form.ComparisonSelect) != 0 {
		t.Error("Input form was mutated")
	}
}

func TestProcessSelectionWithoutComparisonColumn(t *testing.T) {
	ds := tabular.Parse("id\tfc\tp\nP1\t1\t0.01\nP2\t2\t0.02\n")
	for _, column := range []string{"", "comparison"} {
		form := core.DifferentialForm{
			PrimaryIDColumn:    "id",
			FoldChangeColumn:   "fc",
			SignificanceColumn: "p",
			ComparisonColumn:   column,
			ComparisonSelect:   []string{"A-B"},
		}
		res := Process(ds, form, "")
		if len(res.Rows) != 2 {
			t.Errorf("Column %q: expected every row to be kept, got %d", column, len(res.Rows))
		}
		if !reflect.DeepEqual(res.Form.ComparisonSelect, []string{core.DefaultComparison}) {
			t.Errorf("Column %q: expected default selection, got %v", column, res.Form.ComparisonSelect)
		}
	}
}

func TestProcessTrimsComparison(t *testing.T) {
	ds := tabular.Parse(diffTable)
	form := core.DifferentialForm{PrimaryIDColumn: "id", FoldChangeColumn: "fc", SignificanceColumn: "p", ComparisonColumn: "comparison", ComparisonSelect: []string{"A-B"}}
	res := Process(ds, form, "")
	if len(res.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(res.Rows))
	}
	if got := res.Rows[1].Values["comparison"]; got != "A-B" {
		t.Errorf("Expected trimmed comparison %q, got %q", "A-B", got)
	}
}

func TestProcessEmpty(t *testing.T) {
	res := Process(tabular.Parse(""), core.DifferentialForm{FoldChangeColumn: "fc"}, "")
	if len(res.Rows) != 0 {
		t.Errorf("Expected no rows, got %d", len(res.Rows))
	}
}

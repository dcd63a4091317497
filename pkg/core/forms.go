// Package core provides the data model shared by the Curtain import pipeline:
// table forms, settings, selections and plot points.
package core

import (
	"fmt"
	"strings"
)

// ComparisonSentinel is the comparison column name used when the differential
// table has no comparison column. Every row carries DefaultComparison in it.
const ComparisonSentinel = "CurtainSetComparison"

// DefaultComparison is the comparison value used when none can be derived.
const DefaultComparison = "1"

// ColumnSet is implemented by tables that can report column presence.
type ColumnSet interface {
	Has(name string) bool
}

// RawForm identifies the identifier and sample columns of a raw abundance table.
type RawForm struct {
	PrimaryIDColumn string   `json:"primaryIDs" toml:"primary_id"`
	SampleColumns   []string `json:"samples" toml:"samples"`
	IsLog2          bool     `json:"log2" toml:"log2"`
}

// DifferentialForm describes the columns and transforms of a differential table.
type DifferentialForm struct {
	PrimaryIDColumn       string   `json:"primaryIDs" toml:"primary_id"`
	GeneNameColumn        string   `json:"geneNames" toml:"gene_name"`
	FoldChangeColumn      string   `json:"foldChange" toml:"fold_change"`
	TransformFoldChange   bool     `json:"transformFC" toml:"transform_fold_change"`
	SignificanceColumn    string   `json:"significant" toml:"significance"`
	TransformSignificance bool     `json:"transformSignificant" toml:"transform_significance"`
	ComparisonColumn      string   `json:"comparison" toml:"comparison"`
	ComparisonSelect      []string `json:"comparisonSelect" toml:"comparison_select"`
	ReverseFoldChange     bool     `json:"reverseFoldChange" toml:"reverse_fold_change"`
}

// ValidationError represents a form column that does not match the table it
// describes.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// Validate checks that every configured column is present in cols.
// Missing columns are not fatal to the pipeline; callers report them.
func (f RawForm) Validate(cols ColumnSet) error {
	var errs []string
	if f.PrimaryIDColumn == "" {
		errs = append(errs, "primary id column is not set")
	} else if !cols.Has(f.PrimaryIDColumn) {
		errs = append(errs, fmt.Sprintf("primary id column %q not found", f.PrimaryIDColumn))
	}
	if len(f.SampleColumns) == 0 {
		errs = append(errs, "no sample columns selected")
	}
	for _, s := range f.SampleColumns {
		if !cols.Has(s) {
			errs = append(errs, fmt.Sprintf("sample column %q not found", s))
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Field: "RawForm", Message: strings.Join(errs, "; ")}
	}
	return nil
}

// Validate checks that every configured column is present in cols.
func (f DifferentialForm) Validate(cols ColumnSet) error {
	var errs []string
	for _, c := range []struct {
		field, name string
		required    bool
	}{
		{"primary id", f.PrimaryIDColumn, true},
		{"fold change", f.FoldChangeColumn, true},
		{"significance", f.SignificanceColumn, true},
		{"gene name", f.GeneNameColumn, false},
		{"comparison", f.ComparisonColumn, false},
	} {
		switch {
		case c.name == "" && c.required:
			errs = append(errs, c.field+" column is not set")
		case c.name == "", c.name == ComparisonSentinel:
		case !cols.Has(c.name):
			errs = append(errs, fmt.Sprintf("%s column %q not found", c.field, c.name))
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Field: "DifferentialForm", Message: strings.Join(errs, "; ")}
	}
	return nil
}

// Clone returns a copy of f that shares no slices with it.
func (f DifferentialForm) Clone() DifferentialForm {
	f.ComparisonSelect = append([]string(nil), f.ComparisonSelect...)
	return f
}

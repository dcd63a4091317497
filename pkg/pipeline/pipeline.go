// Package pipeline runs one import pass: raw table to conditions,
// differential table to volcano points, and the settings merge.
package pipeline

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/ChrisMcGann/Curtain/pkg/condition"
	"github.com/ChrisMcGann/Curtain/pkg/core"
	"github.com/ChrisMcGann/Curtain/pkg/differential"
	"github.com/ChrisMcGann/Curtain/pkg/reader/tabular"
	"github.com/ChrisMcGann/Curtain/pkg/volcano"
)

// Input is everything one import pass needs. The pipeline reads no files;
// table text is supplied by the caller.
type Input struct {
	RawText          string
	DifferentialText string
	RawForm          core.RawForm
	DifferentialForm core.DifferentialForm
	Settings         core.Settings
	Selections       *core.Selections

	// Logger receives progress and validation messages. Nil discards them.
	Logger *log.Logger
}

// Output is the result of one import pass.
type Output struct {
	// Settings is Input.Settings with the condition, sample and color
	// state of this pass merged in. The caller persists it.
	Settings core.Settings

	Points []core.PlotPoint
	Axis   core.Axis

	// Form is the differential form after comparison defaults.
	Form       core.DifferentialForm
	Conditions []string

	// Warnings holds form validation problems. They do not stop the
	// pass; missing columns simply disable the features that need them.
	Warnings []error
}

// Run executes the import pass. It only fails if ctx is done before the
// pass completes.
func Run(ctx context.Context, in Input) (Output, error) {
	logger := in.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	var out Output

	raw := tabular.Parse(in.RawText)
	logger.Debug("loaded raw table", "columns", len(raw.Columns()), "rows", raw.RowCount())
	if len(raw.Columns()) > 0 {
		if err := in.RawForm.Validate(raw); err != nil {
			out.Warnings = append(out.Warnings, err)
			logger.Warn("raw table", "err", err)
		}
	}

	mapped := condition.Map(in.RawForm.SampleColumns, in.Settings)
	out.Conditions = mapped.Conditions
	logger.Debug("mapped samples", "samples", len(in.RawForm.SampleColumns), "conditions", mapped.Conditions)
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}

	diff := tabular.Parse(in.DifferentialText)
	logger.Debug("loaded differential table", "columns", len(diff.Columns()), "rows", diff.RowCount())
	if len(diff.Columns()) > 0 {
		if err := in.DifferentialForm.Validate(diff); err != nil {
			out.Warnings = append(out.Warnings, err)
			logger.Warn("differential table", "err", err)
		}
	}

	processed := differential.Process(diff, in.DifferentialForm, mapped.Settings.CustomVolcanoTextCol)
	out.Form = processed.Form
	logger.Debug("processed differential rows", "kept", len(processed.Rows), "comparisons", processed.Form.ComparisonSelect)
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}

	built := volcano.Build(processed.Rows, processed.Form, in.Selections, mapped.Settings)
	out.Points = built.Points
	out.Axis = built.Axis(mapped.Settings.VolcanoAxis)

	update := mapped.Settings
	update.ColorMap = built.ColorMap
	out.Settings = in.Settings.Merge(update)
	logger.Info("import complete", "points", len(out.Points), "conditions", len(out.Conditions), "colors", len(out.Settings.ColorMap))
	return out, nil
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ChrisMcGann/Curtain/pkg/core"
	"github.com/ChrisMcGann/Curtain/pkg/pipeline"
	"github.com/ChrisMcGann/Curtain/pkg/source"
)

// inputFlags are shared by import and plot.
type inputFlags struct {
	raw        string
	diff       string
	selections string

	rawID       string
	samples     []string
	log2        bool
	diffID      string
	gene        string
	foldChange  string
	transformFC bool
	pValue      string
	transformP  bool
	comparison  string
	selectComp  []string
	reverseFC   bool
}

var importFlags inputFlags

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.raw, "raw", "r", "", "Raw abundance table (path, -, http(s) URL or s3://bucket/key)")
	cmd.Flags().StringVarP(&f.diff, "diff", "d", "", "Differential analysis table (path, -, http(s) URL or s3://bucket/key)")
	cmd.Flags().StringVar(&f.selections, "selections", "", "Two-column TSV of protein id and selection name")

	cmd.Flags().StringVar(&f.rawID, "raw-id", "", "Primary id column of the raw table")
	cmd.Flags().StringSliceVar(&f.samples, "samples", nil, "Comma-separated sample columns of the raw table")
	cmd.Flags().BoolVar(&f.log2, "log2", false, "Raw abundances are already log2 transformed")
	cmd.Flags().StringVar(&f.diffID, "diff-id", "", "Primary id column of the differential table")
	cmd.Flags().StringVar(&f.gene, "gene", "", "Gene name column")
	cmd.Flags().StringVar(&f.foldChange, "fold-change", "", "Fold change column")
	cmd.Flags().BoolVar(&f.transformFC, "transform-fc", false, "Fold changes are linear and need log2 transform")
	cmd.Flags().StringVar(&f.pValue, "significance", "", "Significance (p-value) column")
	cmd.Flags().BoolVar(&f.transformP, "transform-significance", true, "Apply -log10 to significance values")
	cmd.Flags().StringVar(&f.comparison, "comparison", "", "Comparison column (omit for a single comparison)")
	cmd.Flags().StringSliceVar(&f.selectComp, "select", nil, "Comma-separated comparisons to keep")
	cmd.Flags().BoolVar(&f.reverseFC, "reverse", false, "Negate fold changes")
}

// forms returns the configured forms with any flags the user set applied over them.
func (f *inputFlags) forms(cmd *cobra.Command) (core.RawForm, core.DifferentialForm) {
	raw := cfg.Raw
	diff := cfg.Differential.Clone()
	raw.SampleColumns = append([]string(nil), raw.SampleColumns...)

	changed := cmd.Flags().Changed
	if changed("raw-id") {
		raw.PrimaryIDColumn = f.rawID
	}
	if changed("samples") {
		raw.SampleColumns = trimAll(f.samples)
	}
	if changed("log2") {
		raw.IsLog2 = f.log2
	}
	if changed("diff-id") {
		diff.PrimaryIDColumn = f.diffID
	}
	if diff.PrimaryIDColumn == "" {
		diff.PrimaryIDColumn = raw.PrimaryIDColumn
	}
	if changed("gene") {
		diff.GeneNameColumn = f.gene
	}
	if changed("fold-change") {
		diff.FoldChangeColumn = f.foldChange
	}
	if changed("transform-fc") {
		diff.TransformFoldChange = f.transformFC
	}
	if changed("significance") {
		diff.SignificanceColumn = f.pValue
	}
	if changed("transform-significance") {
		diff.TransformSignificance = f.transformP
	}
	if changed("comparison") {
		diff.ComparisonColumn = f.comparison
	}
	if changed("select") {
		diff.ComparisonSelect = trimAll(f.selectComp)
	}
	if changed("reverse") {
		diff.ReverseFoldChange = f.reverseFC
	}
	return raw, diff
}

func trimAll(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// newFetcher returns a source fetcher using the config's S3 section, or the
// environment when that section is empty.
func newFetcher() *source.Fetcher {
	s3cfg := cfg.S3
	if s3cfg == (source.S3Config{}) {
		s3cfg = source.S3ConfigFromEnv()
	}
	return source.New(s3cfg)
}

// inputs holds the text of every source named on the command line.
type inputs struct {
	raw, diff string
	sel       *core.Selections
}

// readInputs fetches the sources concurrently.
func (f *inputFlags) readInputs(ctx context.Context) (inputs, error) {
	var in inputs
	fetch := newFetcher()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		text, err := fetch.ReadText(gctx, f.raw)
		if err != nil {
			return fmt.Errorf("raw table: %w", err)
		}
		in.raw = text
		return nil
	})
	g.Go(func() error {
		text, err := fetch.ReadText(gctx, f.diff)
		if err != nil {
			return fmt.Errorf("differential table: %w", err)
		}
		in.diff = text
		return nil
	})
	if f.selections != "" {
		g.Go(func() error {
			text, err := fetch.ReadText(gctx, f.selections)
			if err != nil {
				return fmt.Errorf("selections: %w", err)
			}
			sel, err := core.ReadSelections(strings.NewReader(text))
			if err != nil {
				return fmt.Errorf("selections: %w", err)
			}
			in.sel = sel
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return inputs{}, err
	}
	return in, nil
}

// runImport reads the inputs, runs the pipeline against the stored settings
// and saves the merged result.
func runImport(cmd *cobra.Command, f *inputFlags) (pipeline.Output, error) {
	ctx := cmd.Context()

	in, err := f.readInputs(ctx)
	if err != nil {
		return pipeline.Output{}, err
	}
	logger.Debug("read inputs", "raw", f.raw, "diff", f.diff, "selections", f.selections)

	st, err := openStore(ctx)
	if err != nil {
		return pipeline.Output{}, err
	}
	defer st.Close()

	settings, found, err := st.Load(ctx, cfg.Store.Key)
	if err != nil {
		return pipeline.Output{}, err
	}
	if !found {
		logger.Info("no stored settings, starting fresh", "key", cfg.Store.Key)
		settings = core.DefaultSettings()
	}
	settings = cfg.Apply(settings)

	rawForm, diffForm := f.forms(cmd)
	out, err := pipeline.Run(ctx, pipeline.Input{
		RawText:          in.raw,
		DifferentialText: in.diff,
		RawForm:          rawForm,
		DifferentialForm: diffForm,
		Settings:         settings,
		Selections:       in.sel,
		Logger:           logger,
	})
	if err != nil {
		return pipeline.Output{}, err
	}

	if err := st.Save(ctx, cfg.Store.Key, out.Settings); err != nil {
		return pipeline.Output{}, err
	}
	logger.Debug("saved settings", "key", cfg.Store.Key)
	return out, nil
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import raw and differential tables and update session settings",
	Long: `Map raw sample columns to conditions, process the differential table and
assign stable colors, then save the merged session settings.

Examples:
  # Import with columns from flags
  curtain import --raw raw.tsv --diff diff.tsv --raw-id Protein.Group \
    --samples A.1,A.2,B.1,B.2 --fold-change log2FC --significance p.value

  # Import using a config file and a shared Postgres store
  curtain import -c curtain.toml --raw s3://lab/raw.tsv.gz --diff s3://lab/diff.tsv \
    --store postgres://localhost/curtain --key experiment-1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := runImport(cmd, &importFlags)
		if err != nil {
			return err
		}
		printSummary(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	importFlags.register(importCmd)
	importCmd.MarkFlagRequired("raw")
	importCmd.MarkFlagRequired("diff")
}

func printSummary(w io.Writer, out pipeline.Output) {
	fmt.Fprintf(w, "Import complete!\n")
	fmt.Fprintf(w, "Conditions: %s\n", strings.Join(out.Conditions, ", "))
	fmt.Fprintf(w, "Comparisons: %s\n", strings.Join(out.Form.ComparisonSelect, ", "))
	fmt.Fprintf(w, "Points: %d\n", len(out.Points))
	fmt.Fprintf(w, "Colors: %d\n", len(out.Settings.ColorMap))
	if len(out.Warnings) > 0 {
		fmt.Fprintf(w, "Warnings: %d (see log)\n", len(out.Warnings))
	}
	fmt.Fprintf(w, "Settings key: %s\n", cfg.Store.Key)
}

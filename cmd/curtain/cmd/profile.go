package cmd

import (
	"fmt"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/Curtain/pkg/condition"
	"github.com/ChrisMcGann/Curtain/pkg/reader/tabular"
)

var (
	profileRaw     string
	profileID      string
	profileRawID   string
	profileSamples []string
	profileLog2    bool
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show per-condition abundance of one protein",
	Long: `Print the abundance of a protein in every visible sample, grouped by
condition in the stored condition and sample order, with mean and standard
deviation per condition.

Example:
  curtain profile --raw raw.tsv --id P04637 --key experiment-1`,
	RunE: runProfile,
}

func init() {
	profileCmd.Flags().StringVarP(&profileRaw, "raw", "r", "", "Raw abundance table")
	profileCmd.Flags().StringVar(&profileID, "id", "", "Protein identifier")
	profileCmd.Flags().StringVar(&profileRawID, "raw-id", "", "Primary id column of the raw table")
	profileCmd.Flags().StringSliceVar(&profileSamples, "samples", nil, "Comma-separated sample columns")
	profileCmd.Flags().BoolVar(&profileLog2, "log2", false, "Raw abundances are already log2 transformed")

	profileCmd.MarkFlagRequired("raw")
	profileCmd.MarkFlagRequired("id")
}

func runProfile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	form := cfg.Raw
	if cmd.Flags().Changed("raw-id") {
		form.PrimaryIDColumn = profileRawID
	}
	if cmd.Flags().Changed("samples") {
		form.SampleColumns = trimAll(profileSamples)
	}
	if cmd.Flags().Changed("log2") {
		form.IsLog2 = profileLog2
	}

	r, err := newFetcher().Open(ctx, profileRaw)
	if err != nil {
		return fmt.Errorf("raw table: %w", err)
	}
	ds, err := tabular.NewReader(r).Read()
	r.Close()
	if err != nil {
		return fmt.Errorf("raw table: %w", err)
	}
	if err := form.Validate(ds); err != nil {
		logger.Warn("raw table", "err", err)
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	settings, found, err := st.Load(ctx, cfg.Store.Key)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no settings stored under key %q, run import first", cfg.Store.Key)
	}

	groups, ok := condition.Profile(ds, form, settings, profileID)
	if !ok {
		return fmt.Errorf("protein %q not found in column %q", profileID, form.PrimaryIDColumn)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "condition\tcolor\tn\tmean\tsd\tvalues\n")
	for _, g := range groups {
		values := make([]string, len(g.Values))
		for i, v := range g.Values {
			values[i] = g.Samples[i] + "=" + formatValue(v)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
			g.Condition, g.Color, len(g.Samples), formatValue(g.Mean), formatValue(g.StdDev), strings.Join(values, " "))
	}
	return w.Flush()
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "NA"
	}
	return fmt.Sprintf("%.3f", v)
}

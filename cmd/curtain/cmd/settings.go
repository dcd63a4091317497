package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/maruel/natural"
	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/Curtain/pkg/core"
)

var showJSON bool

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect or reset stored session settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the settings stored under --key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		s, found, err := st.Load(ctx, cfg.Store.Key)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("no settings stored under key %q", cfg.Store.Key)
		}
		if showJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		}
		return writeSettings(cmd.OutOrStdout(), s)
	},
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored settings keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		keys, err := st.Keys(ctx)
		if err != nil {
			return err
		}
		sortNatural(keys)
		for _, k := range keys {
			fmt.Fprintln(cmd.OutOrStdout(), k)
		}
		return nil
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the settings stored under --key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Delete(ctx, cfg.Store.Key); err != nil {
			return err
		}
		logger.Info("settings reset", "key", cfg.Store.Key)
		return nil
	},
}

func init() {
	settingsShowCmd.Flags().BoolVar(&showJSON, "json", false, "Print the full settings record as JSON")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsListCmd)
	settingsCmd.AddCommand(settingsResetCmd)
}

// sortNatural orders names so that "A.2" sorts before "A.10".
func sortNatural(names []string) {
	sort.Slice(names, func(i, j int) bool { return natural.Less(names[i], names[j]) })
}

// writeSettings prints a readable summary of s.
func writeSettings(out io.Writer, s core.Settings) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "p-value cutoff:\t%g\n", s.PCutoff)
	fmt.Fprintf(w, "log2 FC cutoff:\t%g\n", s.Log2FCCutoff)
	fmt.Fprintf(w, "title:\t%s\n", s.PlotTitle)
	fmt.Fprintf(w, "conditions:\t%s\n", strings.Join(s.ConditionOrder, ", "))
	for _, c := range s.ConditionOrder {
		fmt.Fprintf(w, "  %s:\t%s\n", c, strings.Join(s.SampleOrder[c], ", "))
	}

	names := make([]string, 0, len(s.ColorMap))
	for n := range s.ColorMap {
		names = append(names, n)
	}
	sortNatural(names)
	fmt.Fprintf(w, "colors:\t%d\n", len(names))
	for _, n := range names {
		fmt.Fprintf(w, "  %s\t%s\n", n, s.ColorMap[n])
	}

	hidden := make([]string, 0)
	for sample, visible := range s.SampleVisible {
		if !visible {
			hidden = append(hidden, sample)
		}
	}
	if len(hidden) > 0 {
		sortNatural(hidden)
		fmt.Fprintf(w, "hidden samples:\t%s\n", strings.Join(hidden, ", "))
	}
	if len(s.Extra) > 0 {
		extra := make([]string, 0, len(s.Extra))
		for k := range s.Extra {
			extra = append(extra, k)
		}
		sortNatural(extra)
		fmt.Fprintf(w, "other fields:\t%s\n", strings.Join(extra, ", "))
	}
	return w.Flush()
}

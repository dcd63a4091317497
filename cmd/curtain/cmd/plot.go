package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/Curtain/pkg/pipeline"
	"github.com/ChrisMcGann/Curtain/pkg/render"
)

var (
	plotFlags inputFlags
	plotOut   string
	plotTitle string
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Import tables and render the volcano plot",
	Long: `Run an import and write the volcano plot. The output format is taken from
the file extension: .html (interactive), .png (static image) or .tsv (points).

Examples:
  curtain plot --raw raw.tsv --diff diff.tsv --out volcano.html
  curtain plot -c curtain.toml --raw raw.tsv --diff diff.tsv --selections kinases.tsv --out volcano.png`,
	RunE: runPlot,
}

func init() {
	plotFlags.register(plotCmd)
	plotCmd.Flags().StringVarP(&plotOut, "out", "o", "", "Output file (.html, .png or .tsv)")
	plotCmd.Flags().StringVar(&plotTitle, "title", "", "Plot title (default from settings)")

	plotCmd.MarkFlagRequired("raw")
	plotCmd.MarkFlagRequired("diff")
	plotCmd.MarkFlagRequired("out")
}

func runPlot(cmd *cobra.Command, args []string) error {
	ext := strings.ToLower(filepath.Ext(plotOut))
	switch ext {
	case ".html", ".png", ".tsv":
	default:
		return fmt.Errorf("cannot detect output format from extension '%s', use .html, .png or .tsv", ext)
	}

	out, err := runImport(cmd, &plotFlags)
	if err != nil {
		return err
	}

	f, err := os.Create(plotOut)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	title := plotTitle
	if title == "" {
		title = out.Settings.PlotTitle
	}
	if title == "" {
		title = "Volcano plot"
	}

	if err := writePlot(f, ext, out, title); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	printSummary(cmd.OutOrStdout(), out)
	fmt.Fprintf(cmd.OutOrStdout(), "Output: %s\n", plotOut)
	return nil
}

func writePlot(f *os.File, ext string, out pipeline.Output, title string) error {
	switch ext {
	case ".html":
		return render.HTML(f, out.Points, out.Axis, title)
	case ".png":
		return render.PNG(f, out.Points, out.Axis, title)
	default:
		return render.TSV(f, out.Points)
	}
}

package render

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/Curtain/pkg/core"
)

// TSV writes one line per point with its coordinates, groups and color.
func TSV(w io.Writer, points []core.PlotPoint) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "id\tgene\tcomparison\tx\ty\tgroup\tselections\tcolor")
	for _, p := range points {
		fmt.Fprintf(bw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Gene, p.Comparison,
			strconv.FormatFloat(p.X, 'g', -1, 64),
			strconv.FormatFloat(p.Y, 'g', -1, 64),
			p.Group(), strings.Join(p.Selections, ";"), p.Color)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write tsv: %w", err)
	}
	return nil
}

package render

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/ChrisMcGann/Curtain/pkg/core"
)

// PNG writes a static scatter image with a legend entry per group.
func PNG(w io.Writer, points []core.PlotPoint, axis core.Axis, title string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = axis.XTitle
	p.Y.Label.Text = axis.YTitle
	p.X.Min, p.X.Max = axis.MinX, axis.MaxX
	p.Y.Min, p.Y.Max = axis.MinY, axis.MaxY
	p.Legend.Top = true

	for _, s := range groupPoints(points) {
		xys := make(plotter.XYs, len(s.points))
		for i, pt := range s.points {
			xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("series %q: %w", s.name, err)
		}
		hex := s.color
		if hex == "" {
			hex = core.NeutralColor
		}
		c, err := parseHex(hex)
		if err != nil {
			return fmt.Errorf("series %q: %w", s.name, err)
		}
		sc.GlyphStyle.Color = c
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(sc)
		if s.name != "" {
			p.Legend.Add(s.name, sc)
		}
	}

	wt, err := p.WriterTo(18*vg.Centimeter, 15*vg.Centimeter, "png")
	if err != nil {
		return fmt.Errorf("failed to render png: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write png: %w", err)
	}
	return nil
}

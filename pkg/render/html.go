package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ChrisMcGann/Curtain/pkg/core"
)

// HTML writes a standalone interactive scatter page with one series per group.
func HTML(w io.Writer, points []core.PlotPoint, axis core.Axis, title string) error {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "800px"}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: axis.XTitle, Type: "value", Min: axis.MinX, Max: axis.MaxX}),
		charts.WithYAxisOpts(opts.YAxis{Name: axis.YTitle, Type: "value", Min: axis.MinY, Max: axis.MaxY}),
	)

	for _, s := range groupPoints(points) {
		data := make([]opts.ScatterData, 0, len(s.points))
		for _, p := range s.points {
			data = append(data, opts.ScatterData{Value: []interface{}{p.X, p.Y}, Name: label(p)})
		}
		c := s.color
		if c == "" {
			c = core.NeutralColor
		}
		scatter.AddSeries(s.name, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: c}))
	}

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("failed to render html: %w", err)
	}
	return nil
}

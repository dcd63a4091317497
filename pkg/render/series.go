// Package render draws volcano points as an interactive HTML chart, a PNG
// image or a tab-separated table. Renderers only lay out what they are given.
package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/Curtain/pkg/core"
)

// series is the set of points drawn with one legend entry.
type series struct {
	name   string
	color  string
	points []core.PlotPoint
}

// groupPoints splits points by primary group in order of first appearance.
// Points without a group are collected under an unnamed series.
func groupPoints(points []core.PlotPoint) []series {
	index := make(map[string]int)
	var out []series
	for _, p := range points {
		g := p.Group()
		i, ok := index[g]
		if !ok {
			i = len(out)
			index[g] = i
			out = append(out, series{name: g, color: p.Color})
		}
		out[i].points = append(out[i].points, p)
	}
	return out
}

// label is the hover and legend text for a point.
func label(p core.PlotPoint) string {
	switch {
	case p.Text != "":
		return p.Text
	case p.Gene != "":
		return p.Gene + "(" + p.ID + ")"
	default:
		return p.ID
	}
}

// parseHex converts "#rrggbb" or "#rgb" to an opaque color.
func parseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

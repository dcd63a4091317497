package volcano

import (
	"reflect"
	"testing"

	"github.com/ChrisMcGann/Curtain/pkg/core"
	"github.com/ChrisMcGann/Curtain/pkg/differential"
)

var testForm = core.DifferentialForm{
	PrimaryIDColumn:  "id",
	GeneNameColumn:   "gene",
	FoldChangeColumn: "fc",
	ComparisonColumn: "comparison",
}

func row(id, gene, comparison string, fc, sig float64) differential.Row {
	return differential.Row{
		Values:       map[string]string{"id": id, "gene": gene, "comparison": comparison},
		FoldChange:   fc,
		Significance: sig,
	}
}

func TestBucket(t *testing.T) {
	tests := []struct {
		x, y         float64
		wantGroup    string
		wantPosition string
	}{
		{2, 3, "P-value <= 0.05;FC > 0.6 (X)", "P-value <= FC > "},
		{-2, 3, "P-value <= 0.05;FC > 0.6 (X)", "P-value <= FC > "},
		{0.6, 3, "P-value <= 0.05;FC <= 0.6 (X)", "P-value <= FC <= "},
		{2, 0.5, "P-value > 0.05;FC > 0.6 (X)", "P-value > FC > "},
		{0, 0, "P-value > 0.05;FC <= 0.6 (X)", "P-value > FC <= "},
	}
	for _, tt := range tests {
		group, position := Bucket(tt.x, tt.y, "X", 0.05, 0.6)
		if group != tt.wantGroup || position != tt.wantPosition {
			t.Errorf("Bucket(%v, %v): expected (%q, %q), got (%q, %q)", tt.x, tt.y, tt.wantGroup, tt.wantPosition, group, position)
		}
	}
}

func TestFormatCutoff(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{1, "1"},
		{0.05, "0.05"},
		{0.6, "0.6"},
		{1.5, "1.5"},
	}
	for _, tt := range tests {
		if got := formatCutoff(tt.v); got != tt.want {
			t.Errorf("formatCutoff(%v): expected %q, got %q", tt.v, tt.want, got)
		}
	}
	if group, _ := Bucket(2, 3, "X", 0.05, 1); group != "P-value <= 0.05;FC > 1 (X)" {
		t.Errorf("Unexpected group for integral cutoff: %q", group)
	}
}

func TestBuildSignificanceBuckets(t *testing.T) {
	s := core.DefaultSettings()
	rows := []differential.Row{
		row("P1", "G1", "X", 2, 3),
		row("P2", "", "Y", -1, 2),
		row("P3", "G3", "X", 0.1, 0.1),
	}
	res := Build(rows, testForm, nil, s)

	if len(res.Points) != 3 {
		t.Fatalf("Expected 3 points, got %d", len(res.Points))
	}
	p1, p2, p3 := res.Points[0], res.Points[1], res.Points[2]
	if p1.Group() == p2.Group() {
		t.Errorf("Expected labels to differ by comparison, both %q", p1.Group())
	}
	if p1.Color != p2.Color {
		t.Errorf("Expected same quadrant color, got %s and %s", p1.Color, p2.Color)
	}
	if p1.Color != core.DefaultPalette[0] || p3.Color != core.DefaultPalette[1] {
		t.Errorf("Unexpected quadrant colors: %s, %s", p1.Color, p3.Color)
	}
	if res.ColorMap[p2.Group()] != p2.Color {
		t.Errorf("Expected group %q bound in color map", p2.Group())
	}
	if p2.Gene != "P2" {
		t.Errorf("Expected gene to fall back to id, got %q", p2.Gene)
	}
	if len(s.ColorMap) != 0 {
		t.Error("Input settings color map was mutated")
	}

	if res.MinFC != -1 || res.MaxFC != 2 || res.MaxY != 3 {
		t.Errorf("Unexpected ranges: min=%v max=%v maxY=%v", res.MinFC, res.MaxFC, res.MaxY)
	}
	axis := res.Axis(core.VolcanoAxis{})
	if axis.MinX != -2 || axis.MaxX != 3 || axis.MinY != 0 || axis.MaxY != 4 {
		t.Errorf("Unexpected axis: %+v", axis)
	}
	fixed := 10.0
	if got := res.Axis(core.VolcanoAxis{MaxX: &fixed}).MaxX; got != fixed {
		t.Errorf("Expected fixed max x %v, got %v", fixed, got)
	}
}

func TestBuildQuadrantColorAcrossImports(t *testing.T) {
	s := core.DefaultSettings()
	first := Build([]differential.Row{row("P1", "", "X", 2, 3)}, testForm, nil, s)
	s.ColorMap = first.ColorMap

	second := Build([]differential.Row{row("P1", "", "Y", 2, 3), row("P2", "", "X", 0, 0)}, testForm, nil, s)
	if second.Points[0].Color != first.Points[0].Color {
		t.Errorf("Expected new comparison to reuse quadrant color %s, got %s", first.Points[0].Color, second.Points[0].Color)
	}
	if second.Points[1].Color == first.Points[0].Color {
		t.Errorf("Expected a different quadrant to get a different color")
	}
}

func TestBuildSelections(t *testing.T) {
	s := core.DefaultSettings()
	s.ConditionOrder = []string{"A"}
	s.ColorMap["A"] = core.DefaultPalette[0]

	sel := core.NewSelections()
	sel.Add("P1", "kinases")
	sel.Add("P1", "hits")
	sel.Set("P2", "hits", false)

	rows := []differential.Row{
		row("P1", "G1", "X", 2, 3),
		row("P2", "G2", "X", 2, 3),
	}
	res := Build(rows, testForm, sel, s)

	p1 := res.Points[0]
	if !reflect.DeepEqual(p1.Selections, []string{"kinases", "hits"}) {
		t.Errorf("Expected selections [kinases hits], got %v", p1.Selections)
	}
	// Condition colors do not block selection colors.
	want := []string{core.DefaultPalette[0], core.DefaultPalette[1]}
	if !reflect.DeepEqual(p1.Colors, want) {
		t.Errorf("Expected colors %v, got %v", want, p1.Colors)
	}
	if p1.Color != want[0] {
		t.Errorf("Expected primary color %s, got %s", want[0], p1.Color)
	}

	p2 := res.Points[1]
	group, _ := Bucket(2, 3, "X", s.PCutoff, s.Log2FCCutoff)
	if p2.Group() != group {
		t.Errorf("Expected non-member to fall into %q, got %v", group, p2.Selections)
	}
	if p2.Color != core.DefaultPalette[2] {
		t.Errorf("Expected bucket color to continue the batch, got %s", p2.Color)
	}
}

func TestBuildSelectionKeepsUserColor(t *testing.T) {
	s := core.DefaultSettings()
	s.ColorMap["hits"] = "#123456"
	sel := core.NewSelections()
	sel.Add("P1", "hits")
	sel.Add("P2", "new")

	res := Build([]differential.Row{row("P1", "", "X", 1, 1), row("P2", "", "X", 1, 1)}, testForm, sel, s)
	if res.Points[0].Color != "#123456" {
		t.Errorf("Expected user color, got %s", res.Points[0].Color)
	}
	if res.Points[1].Color != core.DefaultPalette[0] {
		t.Errorf("Expected new selection to take first free color, got %s", res.Points[1].Color)
	}
}

func TestBuildBackgroundGrey(t *testing.T) {
	s := core.DefaultSettings()
	s.BackgroundGrey = true
	res := Build([]differential.Row{row("P1", "", "X", 5, 5)}, testForm, nil, s)

	p := res.Points[0]
	if !reflect.DeepEqual(p.Selections, []string{core.BackgroundGroup}) || !reflect.DeepEqual(p.Colors, []string{core.BackgroundColor}) {
		t.Errorf("Expected background group, got %v %v", p.Selections, p.Colors)
	}
	if len(res.ColorMap) != 0 {
		t.Errorf("Expected no significance groups in color map, got %v", res.ColorMap)
	}
}

func TestBuildEmpty(t *testing.T) {
	res := Build(nil, testForm, nil, core.DefaultSettings())
	if len(res.Points) != 0 || res.MinFC != 0 || res.MaxY != 0 {
		t.Errorf("Expected empty result, got %+v", res)
	}
}

package core

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestMergePreservesUnrelatedFields(t *testing.T) {
	minX := -3.0
	old := DefaultSettings()
	old.PlotTitle = "Volcano of doom"
	old.FontFamily = "Helvetica"
	old.VolcanoAxis.MinX = &minX
	old.Extra["selectedComparison"] = List(String("A-B"))
	old.ColorMap["stale"] = "#000000"

	update := DefaultSettings()
	update.ColorMap["A"] = "#fd7f6f"
	update.SampleMap["A.1"] = SampleInfo{Replicate: "1", Condition: "A", Name: "A.1"}
	update.SampleOrder["A"] = []string{"A.1"}
	update.SampleVisible["A.1"] = true
	update.ConditionOrder = []string{"A"}
	update.PlotTitle = "ignored"

	merged := old.Merge(update)

	if merged.PlotTitle != "Volcano of doom" {
		t.Errorf("Expected plot title to be kept, got %q", merged.PlotTitle)
	}
	if merged.FontFamily != "Helvetica" {
		t.Errorf("Expected font family to be kept, got %q", merged.FontFamily)
	}
	if merged.VolcanoAxis.MinX == nil || *merged.VolcanoAxis.MinX != -3 {
		t.Errorf("Expected axis bound to be kept, got %v", merged.VolcanoAxis.MinX)
	}
	if !merged.Extra["selectedComparison"].Equal(List(String("A-B"))) {
		t.Errorf("Expected extra field to be kept, got %v", merged.Extra)
	}
	if !reflect.DeepEqual(merged.ColorMap, map[string]string{"A": "#fd7f6f"}) {
		t.Errorf("Expected color map from update, got %v", merged.ColorMap)
	}
	if !reflect.DeepEqual(merged.ConditionOrder, []string{"A"}) {
		t.Errorf("Expected condition order from update, got %v", merged.ConditionOrder)
	}

	// Neither input may be changed by the merge.
	merged.SampleOrder["A"][0] = "changed"
	if update.SampleOrder["A"][0] != "A.1" {
		t.Error("Merge result shares slices with its input")
	}
	*merged.VolcanoAxis.MinX = 5
	if minX != -3 {
		t.Error("Merge result shares axis bounds with its input")
	}
	if _, ok := old.ColorMap["stale"]; !ok {
		t.Error("Merge modified the receiver")
	}
}

func TestSettingsJSONKeepsUnknownFields(t *testing.T) {
	input := `{
		"pCutoff": 0.01,
		"log2FCCutoff": 1,
		"colorMap": {"A": "#fd7f6f"},
		"conditionOrder": ["A"],
		"volcanoPlotTitle": "t",
		"volcanoAxis": {"minX": -4},
		"legendStatus": {"A": true},
		"prideAccession": "PXD000001",
		"visualizationsOrder": [1, "two", null]
	}`
	var s Settings
	if err := json.Unmarshal([]byte(input), &s); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if s.PCutoff != 0.01 || s.Log2FCCutoff != 1 || s.PlotTitle != "t" {
		t.Errorf("Known fields not decoded: %+v", s)
	}
	if s.VolcanoAxis.MinX == nil || *s.VolcanoAxis.MinX != -4 || s.VolcanoAxis.MaxX != nil {
		t.Errorf("Unexpected axis: %+v", s.VolcanoAxis)
	}
	if len(s.Extra) != 3 {
		t.Fatalf("Expected 3 extra fields, got %v", s.Extra)
	}
	if s.Extra["prideAccession"].StringOr("") != "PXD000001" {
		t.Errorf("Unexpected accession: %v", s.Extra["prideAccession"])
	}
	legend, ok := s.Extra["legendStatus"].AsMap()
	if !ok || !legend["A"].BoolOr(false) {
		t.Errorf("Unexpected legend status: %v", s.Extra["legendStatus"])
	}
	if s.SampleMap == nil || s.SampleVisible == nil {
		t.Error("Missing collections must default to empty")
	}
	if len(s.DefaultPalette) != len(DefaultPalette) {
		t.Errorf("Expected default palette, got %v", s.DefaultPalette)
	}

	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var again Settings
	if err := json.Unmarshal(b, &again); err != nil {
		t.Fatalf("Unmarshal round trip: %v", err)
	}
	if !reflect.DeepEqual(s, again) {
		t.Errorf("Round trip changed settings:\n%+v\n%+v", s, again)
	}
	if !strings.Contains(string(b), `"prideAccession":"PXD000001"`) {
		t.Errorf("Expected extra field in output, got %s", b)
	}
}

func TestSettingsExtraDoesNotShadowKnownFields(t *testing.T) {
	s := DefaultSettings()
	s.PCutoff = 0.05
	s.Extra["pCutoff"] = Number(1)
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	var got Settings
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if got.PCutoff != 0.05 {
		t.Errorf("Expected known field to win, got %v", got.PCutoff)
	}
}

func TestValueAccessors(t *testing.T) {
	tests := []struct {
		name  string
		json  string
		kind  Kind
		float float64
	}{
		{"number", `1.5`, KindNumber, 1.5},
		{"numeric string", `"0.05"`, KindString, 0.05},
		{"text", `"abc"`, KindString, -1},
		{"bool", `true`, KindBool, -1},
		{"null", `null`, KindNull, -1},
		{"list", `[1,2]`, KindList, -1},
		{"map", `{"a":1}`, KindMap, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Value
			if err := json.Unmarshal([]byte(tt.json), &v); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if v.Kind() != tt.kind {
				t.Errorf("Expected kind %v, got %v", tt.kind, v.Kind())
			}
			if got := v.FloatOr(-1); got != tt.float {
				t.Errorf("FloatOr: expected %v, got %v", tt.float, got)
			}
			b, err := json.Marshal(v)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(b) != tt.json {
				t.Errorf("Expected %s, got %s", tt.json, b)
			}
		})
	}
}

func TestValueCloneIsDeep(t *testing.T) {
	inner := map[string]Value{"x": Number(1)}
	v := Map(map[string]Value{"inner": Map(inner)})
	c := v.Clone()
	m, _ := c.AsMap()
	im, _ := m["inner"].AsMap()
	im["x"] = Number(2)
	if !v.Equal(Map(map[string]Value{"inner": Map(inner)})) {
		t.Error("Clone shares nested maps with the original")
	}
}

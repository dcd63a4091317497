package core

import (
	"encoding/json"
	"fmt"
)

// DefaultPalette is the color cycle used when settings carry none.
var DefaultPalette = []string{
	"#fd7f6f",
	"#7eb0d5",
	"#b2e061",
	"#bd7ebe",
	"#ffb55a",
	"#ffee65",
	"#beb9db",
	"#fdcce5",
	"#8bd3c7",
}

// SampleInfo is the condition assignment of a single sample column.
type SampleInfo struct {
	Replicate string `json:"replicate"`
	Condition string `json:"condition"`
	Name      string `json:"name"`
}

// VolcanoAxis holds user-fixed axis bounds and titles. A nil bound is
// derived from the data.
type VolcanoAxis struct {
	MinX   *float64 `json:"minX,omitempty"`
	MaxX   *float64 `json:"maxX,omitempty"`
	MinY   *float64 `json:"minY,omitempty"`
	MaxY   *float64 `json:"maxY,omitempty"`
	XTitle string   `json:"x,omitempty"`
	YTitle string   `json:"y,omitempty"`
}

// Settings is the persisted state of a Curtain session.
//
// Settings values are treated as immutable by the pipeline: every operation
// that changes them returns a new value, and the caller replaces its stored
// copy.
type Settings struct {
	PCutoff              float64               `json:"pCutoff"`
	Log2FCCutoff         float64               `json:"log2FCCutoff"`
	ColorMap             map[string]string     `json:"colorMap"`
	DefaultPalette       []string              `json:"defaultColorList"`
	SampleMap            map[string]SampleInfo `json:"sampleMap"`
	SampleOrder          map[string][]string   `json:"sampleOrder"`
	SampleVisible        map[string]bool       `json:"sampleVisible"`
	ConditionOrder       []string              `json:"conditionOrder"`
	BackgroundGrey       bool                  `json:"backGroundColorGrey"`
	PlotTitle            string                `json:"volcanoPlotTitle"`
	FontFamily           string                `json:"plotFontFamily"`
	CustomVolcanoTextCol string                `json:"customVolcanoTextCol"`
	VolcanoAxis          VolcanoAxis           `json:"volcanoAxis"`

	// Extra holds fields written by other tools that this package
	// does not interpret.
	Extra map[string]Value `json:"-"`
}

// DefaultSettings returns the settings used for a session with no stored state.
func DefaultSettings() Settings {
	return Settings{
		PCutoff:        0.05,
		Log2FCCutoff:   0.6,
		ColorMap:       map[string]string{},
		DefaultPalette: append([]string(nil), DefaultPalette...),
		SampleMap:      map[string]SampleInfo{},
		SampleOrder:    map[string][]string{},
		SampleVisible:  map[string]bool{},
		ConditionOrder: []string{},
		Extra:          map[string]Value{},
	}
}

// Palette returns the configured palette, or DefaultPalette if none is set.
func (s Settings) Palette() []string {
	if len(s.DefaultPalette) == 0 {
		return DefaultPalette
	}
	return s.DefaultPalette
}

// IsCondition reports whether name is one of the ordered conditions.
func (s Settings) IsCondition(name string) bool {
	for _, c := range s.ConditionOrder {
		if c == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of s.
func (s Settings) Clone() Settings {
	c := s
	c.ColorMap = cloneStrings(s.ColorMap)
	c.DefaultPalette = cloneSlice(s.DefaultPalette)
	c.SampleMap = make(map[string]SampleInfo, len(s.SampleMap))
	for k, v := range s.SampleMap {
		c.SampleMap[k] = v
	}
	c.SampleOrder = cloneOrder(s.SampleOrder)
	c.SampleVisible = make(map[string]bool, len(s.SampleVisible))
	for k, v := range s.SampleVisible {
		c.SampleVisible[k] = v
	}
	c.ConditionOrder = cloneSlice(s.ConditionOrder)
	c.VolcanoAxis = s.VolcanoAxis.clone()
	c.Extra = make(map[string]Value, len(s.Extra))
	for k, v := range s.Extra {
		c.Extra[k] = v.Clone()
	}
	return c
}

// Merge returns a copy of s with the condition, sample and color state taken
// from update. All other fields of s are kept unchanged.
func (s Settings) Merge(update Settings) Settings {
	m := s.Clone()
	u := update.Clone()
	m.ColorMap = u.ColorMap
	m.SampleMap = u.SampleMap
	m.SampleOrder = u.SampleOrder
	m.SampleVisible = u.SampleVisible
	m.ConditionOrder = u.ConditionOrder
	return m
}

func (a VolcanoAxis) clone() VolcanoAxis {
	return VolcanoAxis{
		MinX:   cloneFloat(a.MinX),
		MaxX:   cloneFloat(a.MaxX),
		MinY:   cloneFloat(a.MinY),
		MaxY:   cloneFloat(a.MaxY),
		XTitle: a.XTitle,
		YTitle: a.YTitle,
	}
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

// cloneSlice copies s, keeping the distinction between nil and empty.
func cloneSlice(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}

func cloneStrings(m map[string]string) map[string]string {
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func cloneOrder(m map[string][]string) map[string][]string {
	c := make(map[string][]string, len(m))
	for k, v := range m {
		c[k] = cloneSlice(v)
	}
	return c
}

// settingsFields is Settings without its JSON methods.
type settingsFields Settings

// MarshalJSON writes the known fields followed by any extra fields that do
// not collide with them.
func (s Settings) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(settingsFields(s))
	if err != nil {
		return nil, err
	}
	if len(s.Extra) == 0 {
		return b, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, err
	}
	for k, v := range s.Extra {
		if _, known := fields[k]; known {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal extra field %q: %w", k, err)
		}
		fields[k] = raw
	}
	return json.Marshal(fields)
}

// UnmarshalJSON reads the known fields and keeps every other field in Extra.
// Fields absent from data keep their DefaultSettings values.
func (s *Settings) UnmarshalJSON(data []byte) error {
	f := settingsFields(DefaultSettings())
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	known, err := knownSettingsKeys()
	if err != nil {
		return err
	}
	extra := make(map[string]Value)
	for k, raw := range all {
		if known[k] {
			continue
		}
		var v Value
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("unmarshal extra field %q: %w", k, err)
		}
		extra[k] = v
	}
	*s = Settings(f)
	s.Extra = extra
	s.normalize()
	return nil
}

func knownSettingsKeys() (map[string]bool, error) {
	b, err := json.Marshal(settingsFields{})
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(fields))
	for k := range fields {
		known[k] = true
	}
	return known, nil
}

// normalize replaces nil collections decoded from explicit JSON nulls.
func (s *Settings) normalize() {
	if s.ColorMap == nil {
		s.ColorMap = map[string]string{}
	}
	if s.SampleMap == nil {
		s.SampleMap = map[string]SampleInfo{}
	}
	if s.SampleOrder == nil {
		s.SampleOrder = map[string][]string{}
	}
	if s.SampleVisible == nil {
		s.SampleVisible = map[string]bool{}
	}
	if s.ConditionOrder == nil {
		s.ConditionOrder = []string{}
	}
}

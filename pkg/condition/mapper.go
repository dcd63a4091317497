// Package condition derives experimental conditions from raw sample column
// names and keeps sample ordering, visibility and condition colors in step
// with the persisted settings.
package condition

import (
	"strings"

	"github.com/ChrisMcGann/Curtain/pkg/core"
	"github.com/ChrisMcGann/Curtain/pkg/palette"
)

// Result is the outcome of mapping one set of sample columns.
type Result struct {
	// Conditions holds the non-empty conditions seen in this pass in
	// the order they were first seen.
	Conditions []string

	// Settings is the input settings with the sample, condition and
	// color state merged.
	Settings core.Settings
}

// Split splits a sample column name into its condition and replicate. The
// last "."-separated segment is the replicate. A name without a separator
// has an empty condition.
func Split(sample string) (condition, replicate string) {
	i := strings.LastIndex(sample, ".")
	if i < 0 {
		return "", sample
	}
	return sample[:i], sample[i+1:]
}

// Map assigns a condition to each of samples and merges the result into s.
// A condition stored in s.SampleMap for a sample takes precedence over the
// one derived from its name. Existing colors are kept; conditions without
// a color receive one from the palette.
func Map(samples []string, s core.Settings) Result {
	old := s.Clone()

	present := make(map[string]bool, len(samples))
	sampleMap := make(map[string]core.SampleInfo, len(samples))
	var conditions []string
	seen := make(map[string]bool)
	for _, name := range samples {
		condition, replicate := Split(name)
		if stored, ok := old.SampleMap[name]; ok {
			condition = stored.Condition
		}
		present[name] = true
		sampleMap[name] = core.SampleInfo{Replicate: replicate, Condition: condition, Name: name}
		if condition != "" && !seen[condition] {
			seen[condition] = true
			conditions = append(conditions, condition)
		}
	}

	// Colors already bound to other names (selections, significance
	// groups) are avoided while free palette slots remain.
	alloc := palette.NewAllocator(old.Palette(), palette.Used(old.ColorMap, func(name string) bool {
		return seen[name]
	}))
	colorMap := old.ColorMap
	for _, c := range conditions {
		color := alloc.Next()
		if _, ok := colorMap[c]; !ok {
			colorMap[c] = color
		}
	}

	sampleOrder := old.SampleOrder
	sampleVisible := old.SampleVisible
	for _, name := range samples {
		condition := sampleMap[name].Condition
		if !contains(sampleOrder[condition], name) {
			sampleOrder[condition] = append(sampleOrder[condition], name)
		}
		if _, ok := sampleVisible[name]; !ok {
			sampleVisible[name] = true
		}
	}

	var conditionOrder []string
	for _, c := range old.ConditionOrder {
		if seen[c] && !contains(conditionOrder, c) {
			conditionOrder = append(conditionOrder, c)
		}
	}
	for _, c := range conditions {
		if !contains(conditionOrder, c) {
			conditionOrder = append(conditionOrder, c)
		}
	}

	kept := make(map[string]bool, len(conditionOrder))
	for _, c := range conditionOrder {
		kept[c] = true
	}
	for c, order := range sampleOrder {
		if !kept[c] {
			delete(sampleOrder, c)
			continue
		}
		pruned := order[:0]
		for _, name := range order {
			if present[name] {
				pruned = append(pruned, name)
			}
		}
		sampleOrder[c] = pruned
	}
	for name := range sampleVisible {
		if _, ok := sampleMap[name]; !ok {
			delete(sampleVisible, name)
		}
	}

	update := core.Settings{
		ColorMap:       colorMap,
		SampleMap:      sampleMap,
		SampleOrder:    sampleOrder,
		SampleVisible:  sampleVisible,
		ConditionOrder: conditionOrder,
	}
	if update.ConditionOrder == nil {
		update.ConditionOrder = []string{}
	}
	return Result{
		Conditions: conditions,
		Settings:   s.Merge(update),
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

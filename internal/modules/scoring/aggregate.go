package scoring

import (
	"fmt"
	"math"
	"sort"
)

const (
	FullScore = 100.0

	// SaturationDamageCount is the damage count at which a component scores 0 outright.
	SaturationDamageCount = 100
	DefaultComponentName  = "default"
)

// Component is one physical component of a bridge type.
type Component struct {
	Key               string `json:"component_key"`
	PartID            int64  `json:"part_id"`
	PartName          string `json:"part_name"`
	StructureID       *int64 `json:"structure_id,omitempty"`
	StructureName     string `json:"structure_name,omitempty"`
	ComponentTypeID   *int64 `json:"component_type_id,omitempty"`
	ComponentTypeName string `json:"component_type_name,omitempty"`
	ComponentFormID   *int64 `json:"component_form_id,omitempty"`
	ComponentFormName string `json:"component_form_name,omitempty"`
	ComponentName     string `json:"component_name"`
}

// ComponentKey groups damages per physical component. Absent ids render as "none"
// and an empty component name as "default".
func ComponentKey(partID int64, componentTypeID, componentFormID *int64, componentName string) string {
	if componentName == "" {
		componentName = DefaultComponentName
	}
	return fmt.Sprintf("%d_%s_%s_%s", partID, idOrNone(componentTypeID), idOrNone(componentFormID), componentName)
}

func idOrNone(id *int64) string {
	if id == nil {
		return "none"
	}
	return fmt.Sprint(*id)
}

// Damage is one scored observation on a component.
type Damage struct {
	RecordID          int64        `json:"record_id"`
	ComponentKey      string       `json:"component_key"`
	DiseaseID         int64        `json:"disease_id"`
	ScaleID           *int64       `json:"scale_id,omitempty"`
	ScaleValue        *int         `json:"scale_value,omitempty"`
	MaxScale          *int         `json:"max_scale,omitempty"`
	DamageScore       int          `json:"damage_score"`
	Status            DamageStatus `json:"status"`
	DamageLocation    string       `json:"damage_location,omitempty"`
	DamageDescription string       `json:"damage_description,omitempty"`
}

type ComponentResult struct {
	Component
	Damages        []Damage `json:"damages"`
	DamageCount    int      `json:"damage_count"`
	UnscoredCount  int      `json:"unscored_count"`
	ComponentScore float64  `json:"component_score"`
}

// ComponentScore folds deductions into a 0..100 score. Deductions are applied
// largest first; the i-th removes deduction/(100*sqrt(i)) of the remaining headroom.
func ComponentScore(deductions []float64) float64 {
	switch n := len(deductions); {
	case n == 0:
		return FullScore
	case n == 1:
		return math.Max(0, FullScore-deductions[0])
	case n >= SaturationDamageCount:
		return 0
	}

	sorted := append([]float64(nil), deductions...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	total := 0.0
	for i, d := range sorted {
		u := d / (100 * math.Sqrt(float64(i+1))) * (FullScore - total)
		total += u
	}
	return math.Max(0, FullScore-total)
}

// Aggregate scores every component of universe plus any component that only appears
// in damages. Results follow universe order, then first appearance in damages.
// extra resolves component info for keys outside universe.
func Aggregate(universe []Component, damages []Damage, extra func(key string) Component) []ComponentResult {
	byKey := map[string]int{}
	out := make([]ComponentResult, 0, len(universe))
	add := func(c Component) int {
		if i, ok := byKey[c.Key]; ok {
			return i
		}
		byKey[c.Key] = len(out)
		out = append(out, ComponentResult{Component: c, Damages: []Damage{}})
		return len(out) - 1
	}
	for _, c := range universe {
		add(c)
	}
	for _, d := range damages {
		i, ok := byKey[d.ComponentKey]
		if !ok {
			c := Component{Key: d.ComponentKey}
			if extra != nil {
				c = extra(d.ComponentKey)
				c.Key = d.ComponentKey
			}
			i = add(c)
		}
		out[i].Damages = append(out[i].Damages, d)
	}

	for i := range out {
		r := &out[i]
		deductions := make([]float64, 0, len(r.Damages))
		for _, d := range r.Damages {
			if !d.Status.Scored() {
				r.UnscoredCount++
			}
			deductions = append(deductions, float64(d.DamageScore))
		}
		r.DamageCount = len(r.Damages)
		r.ComponentScore = ComponentScore(deductions)
	}
	return out
}

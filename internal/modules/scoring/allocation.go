package scoring

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type CalculationMode string

const (
	ModeDefault CalculationMode = "DEFAULT"
	ModeCustom  CalculationMode = "CUSTOM"
)

// ParseMode accepts either case and defaults to DEFAULT when empty.
func ParseMode(s string) (CalculationMode, error) {
	switch CalculationMode(strings.ToUpper(strings.TrimSpace(s))) {
	case "", ModeDefault:
		return ModeDefault, nil
	case ModeCustom:
		return ModeCustom, nil
	default:
		return "", fmt.Errorf("unsupported calculation mode %q", s)
	}
}

// LinkKey identifies a weight link inside one bridge type.
type LinkKey struct {
	PartID          int64
	ComponentTypeID int64
}

// WeightLink is one (part, component type) share of a bridge type's weight.
// ComponentCount is the live count; CustomComponentCount is the count the
// allocation used.
type WeightLink struct {
	PartID               int64
	PartName             string
	StructureID          *int64
	ComponentTypeID      int64
	ComponentTypeName    string
	Weight               decimal.Decimal
	ComponentCount       int
	CustomComponentCount int
	UseCustomCount       bool
	AdjustedWeight       decimal.Decimal
}

func (l WeightLink) Key() LinkKey {
	return LinkKey{PartID: l.PartID, ComponentTypeID: l.ComponentTypeID}
}

// ApplyCounts picks the count each link is allocated with. Under ModeCustom links
// named in overrides use the override; every other link uses its live count.
func ApplyCounts(links []WeightLink, mode CalculationMode, overrides map[LinkKey]int) []WeightLink {
	out := make([]WeightLink, len(links))
	for i, l := range links {
		l.CustomComponentCount = l.ComponentCount
		l.UseCustomCount = false
		if mode == ModeCustom {
			if n, ok := overrides[l.Key()]; ok {
				l.CustomComponentCount = n
				l.UseCustomCount = true
			}
		}
		out[i] = l
	}
	return out
}

// Allocate fills AdjustedWeight on a copy of links. Within each part the weight of
// links with a zero count moves to the nonzero siblings in proportion to their own
// weight, so the part total is unchanged unless every link in it is zero.
func Allocate(links []WeightLink) []WeightLink {
	out := make([]WeightLink, len(links))
	copy(out, links)

	for _, idx := range groupByPart(out) {
		zeroSum := decimal.Zero
		nonzeroSum := decimal.Zero
		zeros := 0
		for _, i := range idx {
			if out[i].CustomComponentCount <= 0 {
				zeroSum = zeroSum.Add(out[i].Weight)
				zeros++
			} else {
				nonzeroSum = nonzeroSum.Add(out[i].Weight)
			}
		}

		switch {
		case zeros == 0:
			for _, i := range idx {
				out[i].AdjustedWeight = out[i].Weight
			}
		case zeros == len(idx):
			for _, i := range idx {
				out[i].AdjustedWeight = decimal.Zero
			}
		default:
			for _, i := range idx {
				w := out[i].Weight
				switch {
				case out[i].CustomComponentCount <= 0:
					out[i].AdjustedWeight = decimal.Zero
				case nonzeroSum.IsZero():
					out[i].AdjustedWeight = w
				default:
					out[i].AdjustedWeight = w.Add(w.Mul(zeroSum).Div(nonzeroSum))
				}
			}
		}
	}
	return out
}

// groupByPart returns link indexes per part in first-seen order.
func groupByPart(links []WeightLink) [][]int {
	pos := map[int64]int{}
	var groups [][]int
	for i, l := range links {
		g, ok := pos[l.PartID]
		if !ok {
			g = len(groups)
			pos[l.PartID] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}
	return groups
}

// PartTotals sums Weight and AdjustedWeight per part.
func PartTotals(links []WeightLink) map[int64][2]decimal.Decimal {
	out := map[int64][2]decimal.Decimal{}
	for _, l := range links {
		t := out[l.PartID]
		t[0] = t[0].Add(l.Weight)
		t[1] = t[1].Add(l.AdjustedWeight)
		out[l.PartID] = t
	}
	return out
}

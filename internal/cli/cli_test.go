package cli

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/AlcMaple/bridge-inspection-backend/internal/modules/scoring"
	"github.com/AlcMaple/bridge-inspection-backend/internal/services"
)

func TestParseCustomCounts(t *testing.T) {
	got, err := parseCustomCounts([]string{"3:7=4", " 5 : 9 = 0 "})
	if err != nil {
		t.Fatalf("parseCustomCounts: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len: want=2 got=%d", len(got))
	}
	if got[0].PartID != 3 || got[0].ComponentTypeID != 7 || got[0].CustomComponentCount != 4 {
		t.Fatalf("first: got=%+v", got[0])
	}
	if got[1].PartID != 5 || got[1].CustomComponentCount != 0 {
		t.Fatalf("second: got=%+v", got[1])
	}

	for _, bad := range []string{"3:7", "3=4", "x:7=4", "3:y=4", "3:7=n"} {
		if _, err := parseCustomCounts([]string{bad}); err == nil {
			t.Fatalf("parseCustomCounts(%q): want error", bad)
		}
	}
}

func TestRenderAllocation(t *testing.T) {
	res := &services.WeightAllocationResult{
		BridgeInstanceName: "K12+300",
		BridgeTypeID:       1,
		CalculationMode:    "DEFAULT",
		Total:              2,
		Items: []services.WeightAllocationItem{
			{PartID: 1, PartName: "Superstructure", ComponentTypeName: "Main beam", Weight: decimal.RequireFromString("0.7"), ComponentCount: 2, AdjustedWeight: decimal.RequireFromString("1")},
			{PartID: 1, PartName: "Superstructure", ComponentTypeName: "Diaphragm", Weight: decimal.RequireFromString("0.3"), AdjustedWeight: decimal.Zero},
		},
	}
	out := renderAllocation(res, services.SaveActionCreated)
	for _, want := range []string{"K12+300", "Main beam", "1.0000", "0.3000", "2 links, created"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Count(out, "Superstructure") != 1 {
		t.Fatalf("part name should print once per group:\n%s", out)
	}
}

func TestRenderScores(t *testing.T) {
	res := &services.ScoreCalculationResult{
		BridgeInstanceName: "K12+300",
		BridgeTypeID:       1,
		Total:              1,
		DamageCount:        2,
		UnscoredCount:      1,
		Components: []scoring.ComponentResult{{
			Component:      scoring.Component{PartName: "Superstructure", ComponentTypeName: "Main beam", ComponentName: "beam 1-1"},
			DamageCount:    2,
			ComponentScore: 51.51,
		}},
	}
	out := renderScores(res)
	for _, want := range []string{"Main beam/beam 1-1", "51.51", "1 components, 2 damages", "1 unscored"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

package scoring

import (
	"math"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 0.01 }

func TestComponentScoreRules(t *testing.T) {
	if got := ComponentScore(nil); got != 100 {
		t.Fatalf("no damages: want=100 got=%v", got)
	}
	if got := ComponentScore([]float64{35}); got != 65 {
		t.Fatalf("one damage: want=65 got=%v", got)
	}
	if got := ComponentScore([]float64{50, 50}); !approx(got, 32.32) {
		t.Fatalf("[50 50]: want~32.32 got=%v", got)
	}
	if got := ComponentScore([]float64{20, 80}); !approx(got, ComponentScore([]float64{80, 20})) {
		t.Fatalf("order must not matter: got=%v", got)
	}

	many := make([]float64, SaturationDamageCount)
	if got := ComponentScore(many); got != 0 {
		t.Fatalf(">=100 damages: want=0 got=%v", got)
	}
}

func TestComponentScoreMonotonic(t *testing.T) {
	none := ComponentScore(nil)
	one := ComponentScore([]float64{80})
	two := ComponentScore([]float64{80, 20})
	if !(two < one && one < none) {
		t.Fatalf("monotonicity: want [80,20] < [80] < []: got %v, %v, %v", two, one, none)
	}
}

func TestComponentScoreNeverNegative(t *testing.T) {
	for n := 2; n < SaturationDamageCount; n++ {
		ds := make([]float64, n)
		for i := range ds {
			ds[i] = 100
		}
		if got := ComponentScore(ds); got < 0 || got > 100 {
			t.Fatalf("n=%d: score out of range: %v", n, got)
		}
	}
}

func TestComponentKey(t *testing.T) {
	ct, cf := int64(4), int64(9)
	if got := ComponentKey(2, &ct, &cf, "beam 1"); got != "2_4_9_beam 1" {
		t.Fatalf("key: got=%q", got)
	}
	if got := ComponentKey(2, nil, nil, ""); got != "2_none_none_default" {
		t.Fatalf("key without ids: got=%q", got)
	}
}

func TestAggregate(t *testing.T) {
	ct := int64(4)
	universe := []Component{
		{Key: ComponentKey(1, &ct, nil, ""), PartID: 1},
		{Key: ComponentKey(2, nil, nil, ""), PartID: 2},
	}
	named := ComponentKey(1, &ct, nil, "beam 7")
	damages := []Damage{
		{RecordID: 1, ComponentKey: universe[0].Key, DamageScore: 50, Status: StatusScored},
		{RecordID: 2, ComponentKey: universe[0].Key, DamageScore: 50, Status: StatusScored},
		{RecordID: 3, ComponentKey: named, DamageScore: 0, Status: StatusMissingMaxScale},
	}
	extraCalls := 0
	got := Aggregate(universe, damages, func(key string) Component {
		extraCalls++
		return Component{PartID: 1, ComponentName: "beam 7"}
	})

	if len(got) != 3 || extraCalls != 1 {
		t.Fatalf("results: want=3 extra=1 got=%d extra=%d", len(got), extraCalls)
	}
	if got[0].DamageCount != 2 || !approx(got[0].ComponentScore, 32.32) {
		t.Fatalf("damaged component: got=%+v", got[0])
	}
	if got[1].DamageCount != 0 || got[1].ComponentScore != 100 || got[1].Damages == nil {
		t.Fatalf("undamaged component: got=%+v", got[1])
	}
	if got[2].Key != named || got[2].UnscoredCount != 1 || got[2].ComponentScore != 100 {
		t.Fatalf("extra component: got=%+v", got[2])
	}
}

package scoring

// deductionTable maps max scale -> observed scale -> deduction points.
var deductionTable = map[int]map[int]int{
	3: {1: 0, 2: 20, 3: 35},
	4: {1: 25, 2: 0, 3: 40, 4: 50},
	5: {1: 0, 2: 35, 3: 45, 4: 60, 5: 100},
}

// DeductionValue returns the points deducted for an observation at scaleValue on a
// disease whose worst severity is maxScale. ok is false when the pair has no entry.
func DeductionValue(maxScale, scaleValue int) (int, bool) {
	row, ok := deductionTable[maxScale]
	if !ok {
		return 0, false
	}
	v, ok := row[scaleValue]
	return v, ok
}

type DamageStatus string

const (
	StatusScored           DamageStatus = "scored"
	StatusMissingScale     DamageStatus = "unscored_missing_scale"
	StatusMissingMaxScale  DamageStatus = "unscored_missing_max_scale"
	StatusNoDeductionEntry DamageStatus = "unscored_no_deduction_entry"
)

func (s DamageStatus) Scored() bool { return s == StatusScored }

// ScoreDamage resolves one observation. Unscored observations deduct 0 and carry
// the reason in their status.
func ScoreDamage(maxScale, scaleValue *int) (int, DamageStatus) {
	if scaleValue == nil {
		return 0, StatusMissingScale
	}
	if maxScale == nil {
		return 0, StatusMissingMaxScale
	}
	v, ok := DeductionValue(*maxScale, *scaleValue)
	if !ok {
		return 0, StatusNoDeductionEntry
	}
	return v, StatusScored
}

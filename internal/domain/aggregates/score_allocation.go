package aggregates

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

var ScoreAllocationAggregateContract = Contract{
	Name:             "Scores.AllocationAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns the saved weight allocation of one bridge instance scope; every link of the scope is written in one transaction.",
}

// ScoreAllocationAggregate persists weight allocations.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeConflict, CodeInternal.
type ScoreAllocationAggregate interface {
	Aggregate

	// SaveAllocation upserts one row per link of the scope, keyed by
	// (bridge instance, assessment unit, bridge type, part, component type).
	SaveAllocation(ctx context.Context, in SaveScoreAllocationInput) (SaveScoreAllocationResult, error)

	// DeleteAllocation deactivates every saved row of the scope.
	DeleteAllocation(ctx context.Context, in ScoreAllocationScope) (DeleteScoreAllocationResult, error)
}

// ScoreAllocationScope identifies one saved allocation. AssessmentUnitInstanceName is
// empty when the bridge is scored as a whole.
type ScoreAllocationScope struct {
	BridgeInstanceName         string
	AssessmentUnitInstanceName string
	BridgeTypeID               int64
}

type ScoreAllocationLink struct {
	PartID               int64
	StructureID          *int64
	ComponentTypeID      int64
	Weight               decimal.Decimal
	ComponentCount       int
	CustomComponentCount int
	AdjustedWeight       decimal.Decimal
	UseCustomCount       bool
}

type SaveScoreAllocationInput struct {
	Scope   ScoreAllocationScope
	Links   []ScoreAllocationLink
	SavedAt time.Time
}

type SaveScoreAllocationResult struct {
	Created bool
	Rows    int
	SavedAt time.Time
}

type DeleteScoreAllocationResult struct {
	Deleted int64
}

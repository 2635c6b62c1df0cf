package scoring

import (
	"context"
	"testing"

	"github.com/AlcMaple/bridge-inspection-backend/internal/data/repos/testutil"
	types "github.com/AlcMaple/bridge-inspection-backend/internal/domain"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/dbctx"
	"github.com/shopspring/decimal"
)

func scoreRow(s Scope, partID, componentTypeID int64, weight, adjusted string, custom int) *types.Score {
	return &types.Score{
		BridgeInstanceName:         s.BridgeInstanceName,
		AssessmentUnitInstanceName: s.AssessmentUnitInstanceName,
		BridgeTypeID:               s.BridgeTypeID,
		PartID:                     partID,
		ComponentTypeID:            componentTypeID,
		Weight:                     decimal.RequireFromString(weight),
		ComponentCount:             3,
		CustomComponentCount:       custom,
		AdjustedWeight:             decimal.RequireFromString(adjusted),
		IsActive:                   true,
	}
}

func TestScoreRepoUpsertLinks(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewScoreRepo(db, testutil.Logger(t))

	scope := Scope{BridgeInstanceName: "K12", BridgeTypeID: 1}
	unitScope := Scope{BridgeInstanceName: "K12", AssessmentUnitInstanceName: "span-1", BridgeTypeID: 1}

	if ok, err := repo.ExistsActiveForScope(dbc, scope); err != nil || ok {
		t.Fatalf("ExistsActiveForScope(empty): err=%v ok=%v", err, ok)
	}

	if err := repo.UpsertLinks(dbc, []*types.Score{
		scoreRow(scope, 1, 10, "0.6", "0.6", 3),
		scoreRow(scope, 1, 11, "0.4", "0.4", 3),
	}); err != nil {
		t.Fatalf("UpsertLinks(insert): %v", err)
	}
	first, err := repo.ListActiveByScope(dbc, scope)
	if err != nil || len(first) != 2 {
		t.Fatalf("ListActiveByScope: err=%v len=%d", err, len(first))
	}

	update := scoreRow(scope, 1, 10, "9.9", "0", 0)
	update.UseCustomCount = true
	if err := repo.UpsertLinks(dbc, []*types.Score{update, scoreRow(scope, 1, 11, "0.4", "1", 3)}); err != nil {
		t.Fatalf("UpsertLinks(update): %v", err)
	}
	second, err := repo.ListActiveByScope(dbc, scope)
	if err != nil || len(second) != 2 {
		t.Fatalf("ListActiveByScope after update: err=%v len=%d", err, len(second))
	}
	if second[0].ID != first[0].ID || second[1].ID != first[1].ID {
		t.Fatalf("upsert re-inserted rows: before=%d,%d after=%d,%d", first[0].ID, first[1].ID, second[0].ID, second[1].ID)
	}
	if !second[0].AdjustedWeight.IsZero() || second[0].CustomComponentCount != 0 || !second[0].UseCustomCount {
		t.Fatalf("updated row: got=%+v", second[0])
	}
	if !second[0].Weight.Equal(decimal.RequireFromString("0.6")) {
		t.Fatalf("weight must keep saved value: want=0.6 got=%s", second[0].Weight)
	}
	if !second[1].AdjustedWeight.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("sibling adjusted: want=1 got=%s", second[1].AdjustedWeight)
	}

	if rows, err := repo.ListActiveByScope(dbc, unitScope); err != nil || len(rows) != 0 {
		t.Fatalf("unit scope is separate: err=%v len=%d", err, len(rows))
	}
	if err := repo.UpsertLinks(dbc, []*types.Score{scoreRow(unitScope, 1, 10, "0.6", "0.6", 3)}); err != nil {
		t.Fatalf("UpsertLinks(unit scope): %v", err)
	}

	n, err := repo.SoftDeleteScope(dbc, scope)
	if err != nil || n != 2 {
		t.Fatalf("SoftDeleteScope: err=%v n=%d", err, n)
	}
	if ok, err := repo.ExistsActiveForScope(dbc, scope); err != nil || ok {
		t.Fatalf("ExistsActiveForScope after delete: err=%v ok=%v", err, ok)
	}
	if ok, err := repo.ExistsActiveForScope(dbc, unitScope); err != nil || !ok {
		t.Fatalf("unit scope survives delete: err=%v ok=%v", err, ok)
	}

	if err := repo.UpsertLinks(dbc, []*types.Score{scoreRow(scope, 1, 10, "0.6", "0.6", 3)}); err != nil {
		t.Fatalf("UpsertLinks(reactivate): %v", err)
	}
	if rows, err := repo.ListActiveByScope(dbc, scope); err != nil || len(rows) != 1 || rows[0].ID != first[0].ID {
		t.Fatalf("reactivated row: err=%v rows=%d", err, len(rows))
	}
}

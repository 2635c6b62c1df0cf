package taxonomy

import (
	"context"
	"testing"

	"github.com/AlcMaple/bridge-inspection-backend/internal/data/repos/testutil"
	types "github.com/AlcMaple/bridge-inspection-backend/internal/domain"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/dbctx"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/pointers"
)

func TestUserPathRepoScopesAndCascade(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewUserPathRepo(db, testutil.Logger(t))

	cat := testutil.SeedCategory(t, ctx, tx, "highway")
	girder := testutil.SeedBridgeType(t, ctx, tx, "girder")
	arch := testutil.SeedBridgeType(t, ctx, tx, "arch")
	part := testutil.SeedPart(t, ctx, tx, "deck")

	girderPath := testutil.SeedPath(t, ctx, tx, types.Hierarchy{CategoryID: cat.ID, BridgeTypeID: girder.ID, PartID: part.ID}, nil, nil)
	archPath := testutil.SeedPath(t, ctx, tx, types.Hierarchy{CategoryID: cat.ID, BridgeTypeID: arch.ID, PartID: part.ID}, nil, nil)

	user := pointers.Int64(7)
	testutil.SeedUserPath(t, ctx, tx, girderPath, "K12", nil, nil)
	testutil.SeedUserPath(t, ctx, tx, girderPath, "K12", pointers.String("span-1"), nil)
	testutil.SeedUserPath(t, ctx, tx, archPath, "K12", pointers.String("span-2"), nil)
	testutil.SeedUserPath(t, ctx, tx, girderPath, "K40", nil, user)

	admin, err := repo.ListActiveForInstance(dbc, InstanceFilter{BridgeInstanceName: "K12", BridgeTypeID: girder.ID})
	if err != nil {
		t.Fatalf("ListActiveForInstance: %v", err)
	}
	if len(admin) != 2 {
		t.Fatalf("admin rows: want=2 got=%d", len(admin))
	}

	unit, err := repo.ListActiveForInstance(dbc, InstanceFilter{BridgeInstanceName: "K12", BridgeTypeID: girder.ID, AssessmentUnitInstanceName: pointers.String("span-1")})
	if err != nil || len(unit) != 1 {
		t.Fatalf("unit rows: err=%v len=%d", err, len(unit))
	}

	owned, err := repo.ListActiveForInstance(dbc, InstanceFilter{BridgeInstanceName: "K12", BridgeTypeID: girder.ID, UserID: user})
	if err != nil || len(owned) != 0 {
		t.Fatalf("user scope must not see admin rows: err=%v len=%d", err, len(owned))
	}

	bridges, err := repo.DistinctBridgeInstances(dbc, nil)
	if err != nil {
		t.Fatalf("DistinctBridgeInstances: %v", err)
	}
	if len(bridges) != 1 || bridges[0] != "K12" {
		t.Fatalf("admin bridges: want=[K12] got=%v", bridges)
	}
	if bridges, err = repo.DistinctBridgeInstances(dbc, user); err != nil || len(bridges) != 1 || bridges[0] != "K40" {
		t.Fatalf("user bridges: err=%v got=%v", err, bridges)
	}

	units, err := repo.DistinctAssessmentUnitInstances(dbc, "K12", nil)
	if err != nil {
		t.Fatalf("DistinctAssessmentUnitInstances: %v", err)
	}
	if len(units) != 2 || units[0] != "span-1" || units[1] != "span-2" {
		t.Fatalf("units: want=[span-1 span-2] got=%v", units)
	}

	bridgeTypes, err := repo.DistinctBridgeTypes(dbc, "K12", nil, nil)
	if err != nil {
		t.Fatalf("DistinctBridgeTypes: %v", err)
	}
	if len(bridgeTypes) != 2 {
		t.Fatalf("bridge types: want=2 got=%v", bridgeTypes)
	}
	onlyArch, err := repo.DistinctBridgeTypes(dbc, "K12", pointers.String("span-2"), nil)
	if err != nil || len(onlyArch) != 1 || onlyArch[0].ID != arch.ID || onlyArch[0].Name != "arch" {
		t.Fatalf("bridge types for unit: err=%v got=%v", err, onlyArch)
	}
}

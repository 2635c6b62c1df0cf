package testutil

import (
	"context"
	"testing"

	types "github.com/AlcMaple/bridge-inspection-backend/internal/domain"
	"github.com/AlcMaple/bridge-inspection-backend/internal/domain/taxonomy"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func entry(name string) taxonomy.Entry {
	return taxonomy.Entry{Code: name, Name: name, IsActive: true}
}

func create(tb testing.TB, ctx context.Context, tx *gorm.DB, what string, row any) {
	tb.Helper()
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed %s: %v", what, err)
	}
}

func SeedCategory(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Category {
	tb.Helper()
	row := &types.Category{Entry: entry(name)}
	create(tb, ctx, tx, "category", row)
	return row
}

func SeedBridgeType(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.BridgeType {
	tb.Helper()
	row := &types.BridgeType{Entry: entry(name)}
	create(tb, ctx, tx, "bridge type", row)
	return row
}

func SeedPart(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Part {
	tb.Helper()
	row := &types.Part{Entry: entry(name)}
	create(tb, ctx, tx, "part", row)
	return row
}

func SeedStructure(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Structure {
	tb.Helper()
	row := &types.Structure{Entry: entry(name)}
	create(tb, ctx, tx, "structure", row)
	return row
}

func SeedComponentType(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.ComponentType {
	tb.Helper()
	row := &types.ComponentType{Entry: entry(name)}
	create(tb, ctx, tx, "component type", row)
	return row
}

func SeedComponentForm(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.ComponentForm {
	tb.Helper()
	row := &types.ComponentForm{Entry: entry(name)}
	create(tb, ctx, tx, "component form", row)
	return row
}

func SeedDisease(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Disease {
	tb.Helper()
	row := &types.Disease{Entry: entry(name)}
	create(tb, ctx, tx, "disease", row)
	return row
}

func SeedScale(tb testing.TB, ctx context.Context, tx *gorm.DB, value int) *types.Scale {
	tb.Helper()
	row := &types.Scale{Entry: entry("scale"), ScaleValue: value}
	create(tb, ctx, tx, "scale", row)
	return row
}

// SeedPath inserts an active path at h.
func SeedPath(tb testing.TB, ctx context.Context, tx *gorm.DB, h types.Hierarchy, diseaseID, scaleID *int64) *types.Path {
	tb.Helper()
	row := &types.Path{Hierarchy: h, DiseaseID: diseaseID, ScaleID: scaleID, IsActive: true}
	create(tb, ctx, tx, "path", row)
	return row
}

// SeedUserPath binds p to a bridge instance, copying its hierarchy.
func SeedUserPath(tb testing.TB, ctx context.Context, tx *gorm.DB, p *types.Path, bridgeInstance string, unitInstance *string, userID *int64) *types.UserPath {
	tb.Helper()
	row := &types.UserPath{
		UserID:                     userID,
		BridgeInstanceName:         bridgeInstance,
		AssessmentUnitInstanceName: unitInstance,
		Hierarchy:                  p.Hierarchy,
		PathsID:                    p.ID,
		IsActive:                   true,
	}
	create(tb, ctx, tx, "user path", row)
	return row
}

// SeedInspectionRecord records one damage on the location of up.
func SeedInspectionRecord(tb testing.TB, ctx context.Context, tx *gorm.DB, up *types.UserPath, diseaseID int64, scaleID *int64, componentName *string) *types.InspectionRecord {
	tb.Helper()
	row := &types.InspectionRecord{
		UserID:                     up.UserID,
		BridgeInstanceName:         up.BridgeInstanceName,
		AssessmentUnitInstanceName: up.AssessmentUnitInstanceName,
		Hierarchy:                  up.Hierarchy,
		ComponentName:              componentName,
		DamageTypeID:               diseaseID,
		ScaleID:                    scaleID,
		IsActive:                   true,
	}
	create(tb, ctx, tx, "inspection record", row)
	return row
}

func SeedWeightReference(tb testing.TB, ctx context.Context, tx *gorm.DB, bridgeTypeID, partID, componentTypeID int64, weight string) *types.WeightReference {
	tb.Helper()
	row := &types.WeightReference{
		BridgeTypeID:    bridgeTypeID,
		PartID:          partID,
		ComponentTypeID: componentTypeID,
		Weight:          decimal.RequireFromString(weight),
		IsActive:        true,
	}
	create(tb, ctx, tx, "weight reference", row)
	return row
}

package nullable

import (
	"testing"

	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/pointers"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type row struct {
	ID          int64 `gorm:"primaryKey"`
	StructureID *int64
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: gormLogger.Default.LogMode(gormLogger.Silent)})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&row{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestEqDistinguishesNullFromValue(t *testing.T) {
	db := openDB(t)
	rows := []row{{ID: 1}, {ID: 2, StructureID: pointers.Int64(7)}, {ID: 3, StructureID: pointers.Int64(8)}}
	if err := db.Create(&rows).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	var gotNull []row
	if err := Eq[int64](db.Model(&row{}), "structure_id", nil).Find(&gotNull).Error; err != nil {
		t.Fatalf("Eq nil: %v", err)
	}
	if len(gotNull) != 1 || gotNull[0].ID != 1 {
		t.Fatalf("Eq nil: want only row 1 got=%+v", gotNull)
	}

	var gotSeven []row
	if err := Eq(db.Model(&row{}), "structure_id", pointers.Int64(7)).Find(&gotSeven).Error; err != nil {
		t.Fatalf("Eq 7: %v", err)
	}
	if len(gotSeven) != 1 || gotSeven[0].ID != 2 {
		t.Fatalf("Eq 7: want only row 2 got=%+v", gotSeven)
	}

	var gotAll []row
	if err := Optional[int64](db.Model(&row{}), "structure_id", nil).Find(&gotAll).Error; err != nil {
		t.Fatalf("Optional nil: %v", err)
	}
	if len(gotAll) != 3 {
		t.Fatalf("Optional nil: want all rows got=%d", len(gotAll))
	}
}

func TestSameHelpers(t *testing.T) {
	if !SameInt64(nil, nil) || SameInt64(nil, pointers.Int64(1)) || !SameInt64(pointers.Int64(2), pointers.Int64(2)) {
		t.Fatalf("SameInt64 mismatch")
	}
	if !SameString(nil, nil) || SameString(pointers.String("a"), nil) || SameString(pointers.String("a"), pointers.String("b")) {
		t.Fatalf("SameString mismatch")
	}
}

package db

import (
	"fmt"

	types "github.com/AlcMaple/bridge-inspection-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.AllModels()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return EnsureScoringIndexes(db)
}

// EnsureScoringIndexes adds the composite lookup indexes the scoring queries rely on.
// Statements are portable between Postgres and SQLite.
func EnsureScoringIndexes(db *gorm.DB) error {
	stmts := []struct {
		name string
		sql  string
	}{
		{
			name: "idx_paths_weight_link",
			sql:  `CREATE INDEX IF NOT EXISTS idx_paths_weight_link ON paths(bridge_type_id, part_id, component_type_id, is_active);`,
		},
		{
			name: "idx_paths_disease_lookup",
			sql:  `CREATE INDEX IF NOT EXISTS idx_paths_disease_lookup ON paths(bridge_type_id, part_id, disease_id);`,
		},
		{
			name: "idx_user_paths_instance",
			sql:  `CREATE INDEX IF NOT EXISTS idx_user_paths_instance ON user_paths(bridge_instance_name, bridge_type_id, is_active);`,
		},
		{
			name: "idx_inspection_records_instance",
			sql:  `CREATE INDEX IF NOT EXISTS idx_inspection_records_instance ON inspection_records(bridge_instance_name, bridge_type_id, part_id, is_active);`,
		},
		{
			name: "idx_weight_references_link",
			sql:  `CREATE INDEX IF NOT EXISTS idx_weight_references_link ON weight_references(bridge_type_id, part_id, component_type_id, is_active);`,
		},
	}
	for _, s := range stmts {
		if err := db.Exec(s.sql).Error; err != nil {
			return fmt.Errorf("create %s: %w", s.name, err)
		}
	}
	return nil
}

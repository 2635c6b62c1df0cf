package scoring

import (
	"time"

	"github.com/shopspring/decimal"
)

// WeightReference holds the nominal share of a part's weight assigned to one
// component type for a bridge type. Maintained outside the scoring core.
type WeightReference struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	BridgeTypeID    int64           `gorm:"column:bridge_type_id;not null;index" json:"bridge_type_id"`
	PartID          int64           `gorm:"column:part_id;not null" json:"part_id"`
	StructureID     *int64          `gorm:"column:structure_id" json:"structure_id,omitempty"`
	ComponentTypeID int64           `gorm:"column:component_type_id;not null" json:"component_type_id"`
	Weight          decimal.Decimal `gorm:"column:weight;type:numeric(10,4);not null" json:"weight"`
	IsActive        bool            `gorm:"column:is_active;not null;index" json:"is_active"`
	CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null" json:"updated_at"`
}

func (WeightReference) TableName() string { return "weight_references" }

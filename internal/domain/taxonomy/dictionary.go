package taxonomy

import "time"

// Entry is the shape shared by every taxonomy dictionary table.
type Entry struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Code      string    `gorm:"column:code;size:64;index" json:"code"`
	Name      string    `gorm:"column:name;size:128;not null" json:"name"`
	IsActive  bool      `gorm:"column:is_active;not null;index" json:"is_active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

type Category struct{ Entry }

func (Category) TableName() string { return "categories" }

type AssessmentUnit struct{ Entry }

func (AssessmentUnit) TableName() string { return "assessment_units" }

type BridgeType struct{ Entry }

func (BridgeType) TableName() string { return "bridge_types" }

// Part is a major structural division of a bridge (superstructure, substructure, deck system).
type Part struct{ Entry }

func (Part) TableName() string { return "parts" }

type Structure struct{ Entry }

func (Structure) TableName() string { return "structures" }

type ComponentType struct{ Entry }

func (ComponentType) TableName() string { return "component_types" }

// ComponentForm rows named PlaceholderComponentForm stand in for "no form" and are never counted.
type ComponentForm struct{ Entry }

func (ComponentForm) TableName() string { return "component_forms" }

const PlaceholderComponentForm = "-"

// Disease is a damage type (crack, corrosion, settlement, ...).
type Disease struct{ Entry }

func (Disease) TableName() string { return "diseases" }

// Scale is one severity level. ScaleValue orders levels within a disease.
type Scale struct {
	Entry
	ScaleValue int `gorm:"column:scale_value;not null" json:"scale_value"`
}

func (Scale) TableName() string { return "scales" }

type Quality struct{ Entry }

func (Quality) TableName() string { return "qualities" }

type Quantity struct{ Entry }

func (Quantity) TableName() string { return "quantities" }

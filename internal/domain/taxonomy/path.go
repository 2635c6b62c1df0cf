package taxonomy

import (
	"time"

	"gorm.io/datatypes"
)

// Hierarchy locates a physical component inside the taxonomy. Only category,
// bridge type and part are mandatory; the rest narrow the location when present.
type Hierarchy struct {
	CategoryID       int64  `gorm:"column:category_id;not null;index" json:"category_id"`
	AssessmentUnitID *int64 `gorm:"column:assessment_unit_id;index" json:"assessment_unit_id,omitempty"`
	BridgeTypeID     int64  `gorm:"column:bridge_type_id;not null;index" json:"bridge_type_id"`
	PartID           int64  `gorm:"column:part_id;not null;index" json:"part_id"`
	StructureID      *int64 `gorm:"column:structure_id" json:"structure_id,omitempty"`
	ComponentTypeID  *int64 `gorm:"column:component_type_id;index" json:"component_type_id,omitempty"`
	ComponentFormID  *int64 `gorm:"column:component_form_id" json:"component_form_id,omitempty"`
}

// Path is one fully specified taxonomy combination down to disease/scale/quality/quantity.
type Path struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Code string `gorm:"column:code;size:64;index" json:"code"`
	Hierarchy
	DiseaseID  *int64    `gorm:"column:disease_id;index" json:"disease_id,omitempty"`
	ScaleID    *int64    `gorm:"column:scale_id" json:"scale_id,omitempty"`
	QualityID  *int64    `gorm:"column:quality_id" json:"quality_id,omitempty"`
	QuantityID *int64    `gorm:"column:quantity_id" json:"quantity_id,omitempty"`
	IsActive   bool      `gorm:"column:is_active;not null;index" json:"is_active"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (Path) TableName() string { return "paths" }

// UserPath binds a taxonomy path to a named bridge (and optional assessment unit)
// instance. UserID nil marks rows created by an administrator.
type UserPath struct {
	ID                         int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID                     *int64  `gorm:"column:user_id;index" json:"user_id,omitempty"`
	BridgeInstanceName         string  `gorm:"column:bridge_instance_name;size:255;not null;index" json:"bridge_instance_name"`
	AssessmentUnitInstanceName *string `gorm:"column:assessment_unit_instance_name;size:255" json:"assessment_unit_instance_name,omitempty"`
	Hierarchy
	PathsID   int64     `gorm:"column:paths_id;not null;index" json:"paths_id"`
	IsActive  bool      `gorm:"column:is_active;not null;index" json:"is_active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (UserPath) TableName() string { return "user_paths" }

// InspectionRecord is one observed damage on a bridge instance.
type InspectionRecord struct {
	ID                         int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID                     *int64  `gorm:"column:user_id;index" json:"user_id,omitempty"`
	BridgeInstanceName         string  `gorm:"column:bridge_instance_name;size:255;not null;index" json:"bridge_instance_name"`
	AssessmentUnitInstanceName *string `gorm:"column:assessment_unit_instance_name;size:255" json:"assessment_unit_instance_name,omitempty"`
	Hierarchy
	ComponentName     *string        `gorm:"column:component_name;size:255" json:"component_name,omitempty"`
	DamageTypeID      int64          `gorm:"column:damage_type_id;not null" json:"damage_type_id"`
	ScaleID           *int64         `gorm:"column:scale_id" json:"scale_id,omitempty"`
	QualityID         *int64         `gorm:"column:quality_id" json:"quality_id,omitempty"`
	QuantityID        *int64         `gorm:"column:quantity_id" json:"quantity_id,omitempty"`
	DamageLocation    string         `gorm:"column:damage_location;size:255" json:"damage_location"`
	DamageDescription string         `gorm:"column:damage_description" json:"damage_description"`
	Images            datatypes.JSON `gorm:"column:images" json:"images,omitempty"`
	IsActive          bool           `gorm:"column:is_active;not null;index" json:"is_active"`
	CreatedAt         time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"not null" json:"updated_at"`
}

func (InspectionRecord) TableName() string { return "inspection_records" }

// Package nullable centralises "IS NULL vs = value" matching for optional columns.
// Column names are always package constants from the calling repo, never user input.
package nullable

import (
	types "github.com/AlcMaple/bridge-inspection-backend/internal/domain"
	"gorm.io/gorm"
)

// Eq constrains column to v, or to NULL when v is nil. An absent value never means "any".
func Eq[T any](q *gorm.DB, column string, v *T) *gorm.DB {
	if v == nil {
		return q.Where(column + " IS NULL")
	}
	return q.Where(column+" = ?", *v)
}

// Optional constrains column to v only when v is set.
func Optional[T any](q *gorm.DB, column string, v *T) *gorm.DB {
	if v == nil {
		return q
	}
	return q.Where(column+" = ?", *v)
}

// Hierarchy applies null-aware equality on every hierarchy column. prefix is a
// table alias such as "p." or "".
func Hierarchy(q *gorm.DB, prefix string, h types.Hierarchy) *gorm.DB {
	q = q.Where(prefix+"category_id = ?", h.CategoryID).
		Where(prefix+"bridge_type_id = ?", h.BridgeTypeID).
		Where(prefix+"part_id = ?", h.PartID)
	q = Eq(q, prefix+"assessment_unit_id", h.AssessmentUnitID)
	q = Eq(q, prefix+"structure_id", h.StructureID)
	q = Eq(q, prefix+"component_type_id", h.ComponentTypeID)
	q = Eq(q, prefix+"component_form_id", h.ComponentFormID)
	return q
}

// SameInt64 reports null-aware equality of two optional ids.
func SameInt64(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// SameString reports null-aware equality of two optional strings.
func SameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

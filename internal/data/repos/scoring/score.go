package scoring

import (
	"time"

	types "github.com/AlcMaple/bridge-inspection-backend/internal/domain"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/dbctx"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Scope identifies the saved allocation of one bridge instance for one bridge type.
// AssessmentUnitInstanceName is "" when the whole bridge is scored.
type Scope struct {
	BridgeInstanceName         string
	AssessmentUnitInstanceName string
	BridgeTypeID               int64
}

type ScoreRepo interface {
	ListActiveByScope(dbc dbctx.Context, s Scope) ([]*types.Score, error)
	ExistsActiveForScope(dbc dbctx.Context, s Scope) (bool, error)
	UpsertLinks(dbc dbctx.Context, rows []*types.Score) error
	SoftDeleteScope(dbc dbctx.Context, s Scope) (int64, error)
}

type scoreRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScoreRepo(db *gorm.DB, baseLog *logger.Logger) ScoreRepo {
	return &scoreRepo{db: db, log: baseLog.With("repo", "ScoreRepo")}
}

func (r *scoreRepo) scoped(dbc dbctx.Context, s Scope) *gorm.DB {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Context()).
		Model(&types.Score{}).
		Where("bridge_instance_name = ? AND assessment_unit_instance_name = ? AND bridge_type_id = ?",
			s.BridgeInstanceName, s.AssessmentUnitInstanceName, s.BridgeTypeID)
}

func (r *scoreRepo) ListActiveByScope(dbc dbctx.Context, s Scope) ([]*types.Score, error) {
	out := []*types.Score{}
	if s.BridgeInstanceName == "" || s.BridgeTypeID <= 0 {
		return out, nil
	}
	err := r.scoped(dbc, s).
		Where("is_active = ?", true).
		Order("part_id ASC, component_type_id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *scoreRepo) ExistsActiveForScope(dbc dbctx.Context, s Scope) (bool, error) {
	if s.BridgeInstanceName == "" || s.BridgeTypeID <= 0 {
		return false, nil
	}
	var n int64
	if err := r.scoped(dbc, s).Where("is_active = ?", true).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpsertLinks inserts or updates one row per link keyed by idx_scores_scope_link.
// Existing rows keep their id, weight and component count.
func (r *scoreRepo) UpsertLinks(dbc dbctx.Context, rows []*types.Score) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return nil
	}
	return t.WithContext(dbc.Context()).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "bridge_instance_name"},
			{Name: "assessment_unit_instance_name"},
			{Name: "bridge_type_id"},
			{Name: "part_id"},
			{Name: "component_type_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"adjusted_weight",
			"custom_component_count",
			"use_custom_count",
			"is_active",
			"updated_at",
		}),
	}).Create(&rows).Error
}

func (r *scoreRepo) SoftDeleteScope(dbc dbctx.Context, s Scope) (int64, error) {
	if s.BridgeInstanceName == "" || s.BridgeTypeID <= 0 {
		return 0, nil
	}
	res := r.scoped(dbc, s).
		Where("is_active = ?", true).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

package taxonomy

import (
	types "github.com/AlcMaple/bridge-inspection-backend/internal/domain"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/dbctx"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type ScaleRepo interface {
	Create(dbc dbctx.Context, rows []*types.Scale) ([]*types.Scale, error)
	GetScaleValue(dbc dbctx.Context, id *int64) (*int, error)
	GetScaleValues(dbc dbctx.Context, ids []int64) (map[int64]int, error)
}

type scaleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScaleRepo(db *gorm.DB, baseLog *logger.Logger) ScaleRepo {
	return &scaleRepo{db: db, log: baseLog.With("repo", "ScaleRepo")}
}

func (r *scaleRepo) Create(dbc dbctx.Context, rows []*types.Scale) ([]*types.Scale, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Scale{}, nil
	}
	if err := t.WithContext(dbc.Context()).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetScaleValues resolves scale ids to their scale values. Unknown ids are absent from the map.
func (r *scaleRepo) GetScaleValues(dbc dbctx.Context, ids []int64) (map[int64]int, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	out := map[int64]int{}
	if len(ids) == 0 {
		return out, nil
	}
	var rows []types.Scale
	if err := t.WithContext(dbc.Context()).
		Select("id", "scale_value").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, s := range rows {
		out[s.ID] = s.ScaleValue
	}
	return out, nil
}

// GetScaleValue returns nil when the scale id is nil or unknown.
func (r *scaleRepo) GetScaleValue(dbc dbctx.Context, id *int64) (*int, error) {
	if id == nil {
		return nil, nil
	}
	vals, err := r.GetScaleValues(dbc, []int64{*id})
	if err != nil {
		return nil, err
	}
	v, ok := vals[*id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

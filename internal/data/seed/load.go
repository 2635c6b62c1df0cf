package seed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AlcMaple/bridge-inspection-backend/internal/data/repos"
	types "github.com/AlcMaple/bridge-inspection-backend/internal/domain"
	"github.com/AlcMaple/bridge-inspection-backend/internal/domain/taxonomy"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/dbctx"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/logger"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/pointers"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Refs maps fixture keys to the ids assigned on insert, per table.
type Refs map[string]map[string]int64

func (r Refs) ID(table, key string) int64 { return r[table][key] }

func (r Refs) opt(table, key string) *int64 {
	if key == "" {
		return nil
	}
	id, ok := r[table][key]
	if !ok {
		return nil
	}
	return &id
}

type Loader struct {
	db                *gorm.DB
	log               *logger.Logger
	paths             repos.PathRepo
	userPaths         repos.UserPathRepo
	inspectionRecords repos.InspectionRecordRepo
	scales            repos.ScaleRepo
	weightReferences  repos.WeightReferenceRepo
}

func NewLoader(db *gorm.DB, baseLog *logger.Logger) *Loader {
	return &Loader{
		db:                db,
		log:               baseLog.With("component", "SeedLoader"),
		paths:             repos.NewPathRepo(db, baseLog),
		userPaths:         repos.NewUserPathRepo(db, baseLog),
		inspectionRecords: repos.NewInspectionRecordRepo(db, baseLog),
		scales:            repos.NewScaleRepo(db, baseLog),
		weightReferences:  repos.NewWeightReferenceRepo(db, baseLog),
	}
}

// Load inserts the fixture in one transaction. A failure leaves the database untouched.
func (l *Loader) Load(ctx context.Context, f *Fixture) (Refs, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	refs := Refs{}
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := l.loadDictionaries(dbc, f.Dictionaries, refs); err != nil {
			return err
		}
		if err := l.loadPaths(dbc, f.Paths, refs); err != nil {
			return err
		}
		if err := l.loadWeightReferences(dbc, f.WeightReferences, refs); err != nil {
			return err
		}
		if err := l.loadUserPaths(dbc, f.UserPaths, refs); err != nil {
			return err
		}
		return l.loadInspectionRecords(dbc, f.InspectionRecords, refs)
	})
	if err != nil {
		return nil, err
	}
	l.log.Info("fixture loaded",
		"paths", len(f.Paths),
		"weight_references", len(f.WeightReferences),
		"user_paths", len(f.UserPaths),
		"inspection_records", len(f.InspectionRecords),
	)
	return refs, nil
}

func entry(e EntryFixture) taxonomy.Entry {
	code := e.Code
	if code == "" {
		code = e.Key
	}
	name := e.Name
	if name == "" {
		name = e.Key
	}
	return taxonomy.Entry{Code: code, Name: name, IsActive: !e.Inactive}
}

// insertEntries creates dictionary rows built by wrap and records their ids under table.
func insertEntries[T any](dbc dbctx.Context, refs Refs, table string, rows []EntryFixture, wrap func(EntryFixture) *T, id func(*T) int64) error {
	refs[table] = map[string]int64{}
	for _, e := range rows {
		row := wrap(e)
		if err := dbc.Tx.WithContext(dbc.Context()).Create(row).Error; err != nil {
			return fmt.Errorf("insert %s %q: %w", table, e.Key, err)
		}
		refs[table][e.Key] = id(row)
	}
	return nil
}

func (l *Loader) loadDictionaries(dbc dbctx.Context, d Dictionaries, refs Refs) error {
	steps := []func() error{
		func() error {
			return insertEntries(dbc, refs, "categories", d.Categories,
				func(e EntryFixture) *types.Category { return &types.Category{Entry: entry(e)} },
				func(r *types.Category) int64 { return r.ID })
		},
		func() error {
			return insertEntries(dbc, refs, "assessment_units", d.AssessmentUnits,
				func(e EntryFixture) *types.AssessmentUnit { return &types.AssessmentUnit{Entry: entry(e)} },
				func(r *types.AssessmentUnit) int64 { return r.ID })
		},
		func() error {
			return insertEntries(dbc, refs, "bridge_types", d.BridgeTypes,
				func(e EntryFixture) *types.BridgeType { return &types.BridgeType{Entry: entry(e)} },
				func(r *types.BridgeType) int64 { return r.ID })
		},
		func() error {
			return insertEntries(dbc, refs, "parts", d.Parts,
				func(e EntryFixture) *types.Part { return &types.Part{Entry: entry(e)} },
				func(r *types.Part) int64 { return r.ID })
		},
		func() error {
			return insertEntries(dbc, refs, "structures", d.Structures,
				func(e EntryFixture) *types.Structure { return &types.Structure{Entry: entry(e)} },
				func(r *types.Structure) int64 { return r.ID })
		},
		func() error {
			return insertEntries(dbc, refs, "component_types", d.ComponentTypes,
				func(e EntryFixture) *types.ComponentType { return &types.ComponentType{Entry: entry(e)} },
				func(r *types.ComponentType) int64 { return r.ID })
		},
		func() error {
			return insertEntries(dbc, refs, "component_forms", d.ComponentForms,
				func(e EntryFixture) *types.ComponentForm { return &types.ComponentForm{Entry: entry(e)} },
				func(r *types.ComponentForm) int64 { return r.ID })
		},
		func() error {
			return insertEntries(dbc, refs, "diseases", d.Diseases,
				func(e EntryFixture) *types.Disease { return &types.Disease{Entry: entry(e)} },
				func(r *types.Disease) int64 { return r.ID })
		},
		func() error {
			return insertEntries(dbc, refs, "qualities", d.Qualities,
				func(e EntryFixture) *types.Quality { return &types.Quality{Entry: entry(e)} },
				func(r *types.Quality) int64 { return r.ID })
		},
		func() error {
			return insertEntries(dbc, refs, "quantities", d.Quantities,
				func(e EntryFixture) *types.Quantity { return &types.Quantity{Entry: entry(e)} },
				func(r *types.Quantity) int64 { return r.ID })
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	scales := make([]*types.Scale, 0, len(d.Scales))
	for _, e := range d.Scales {
		scales = append(scales, &types.Scale{Entry: entry(e), ScaleValue: e.Value})
	}
	created, err := l.scales.Create(dbc, scales)
	if err != nil {
		return fmt.Errorf("insert scales: %w", err)
	}
	refs["scales"] = map[string]int64{}
	for i, s := range created {
		refs["scales"][d.Scales[i].Key] = s.ID
	}
	return nil
}

func (l *Loader) loadPaths(dbc dbctx.Context, rows []PathFixture, refs Refs) error {
	out := make([]*types.Path, 0, len(rows))
	for _, p := range rows {
		out = append(out, &types.Path{
			Code: p.Code,
			Hierarchy: types.Hierarchy{
				CategoryID:       refs.ID("categories", p.Category),
				AssessmentUnitID: refs.opt("assessment_units", p.AssessmentUnit),
				BridgeTypeID:     refs.ID("bridge_types", p.BridgeType),
				PartID:           refs.ID("parts", p.Part),
				StructureID:      refs.opt("structures", p.Structure),
				ComponentTypeID:  refs.opt("component_types", p.ComponentType),
				ComponentFormID:  refs.opt("component_forms", p.ComponentForm),
			},
			DiseaseID:  refs.opt("diseases", p.Disease),
			ScaleID:    refs.opt("scales", p.Scale),
			QualityID:  refs.opt("qualities", p.Quality),
			QuantityID: refs.opt("quantities", p.Quantity),
			IsActive:   !p.Inactive,
		})
	}
	created, err := l.paths.Create(dbc, out)
	if err != nil {
		return fmt.Errorf("insert paths: %w", err)
	}
	refs["paths"] = map[string]int64{}
	for i, p := range created {
		refs["paths"][rows[i].Key] = p.ID
	}
	return nil
}

func (l *Loader) loadWeightReferences(dbc dbctx.Context, rows []WeightReferenceFixture, refs Refs) error {
	out := make([]*types.WeightReference, 0, len(rows))
	for i, w := range rows {
		weight, err := decimal.NewFromString(w.Weight)
		if err != nil {
			return fmt.Errorf("weight_references[%d]: invalid weight %q: %w", i, w.Weight, err)
		}
		out = append(out, &types.WeightReference{
			BridgeTypeID:    refs.ID("bridge_types", w.BridgeType),
			PartID:          refs.ID("parts", w.Part),
			StructureID:     refs.opt("structures", w.Structure),
			ComponentTypeID: refs.ID("component_types", w.ComponentType),
			Weight:          weight,
			IsActive:        !w.Inactive,
		})
	}
	if _, err := l.weightReferences.Create(dbc, out); err != nil {
		return fmt.Errorf("insert weight references: %w", err)
	}
	return nil
}

func (l *Loader) loadUserPaths(dbc dbctx.Context, rows []UserPathFixture, refs Refs) error {
	out := make([]*types.UserPath, 0, len(rows))
	for _, up := range rows {
		pathID := refs.ID("paths", up.Path)
		base, err := l.paths.GetByID(dbc, pathID)
		if err != nil {
			return fmt.Errorf("load path %q: %w", up.Path, err)
		}
		if base == nil {
			return fmt.Errorf("user path %q: path %q was not inserted", up.Key, up.Path)
		}
		out = append(out, &types.UserPath{
			UserID:                     up.UserID,
			BridgeInstanceName:         up.BridgeInstance,
			AssessmentUnitInstanceName: pointers.NonEmpty(up.AssessmentUnitInstance),
			Hierarchy:                  base.Hierarchy,
			PathsID:                    base.ID,
			IsActive:                   !up.Inactive,
		})
	}
	created, err := l.userPaths.Create(dbc, out)
	if err != nil {
		return fmt.Errorf("insert user paths: %w", err)
	}
	refs["user_paths"] = map[string]int64{}
	for i, up := range created {
		refs["user_paths"][rows[i].Key] = up.ID
	}
	return nil
}

func (l *Loader) loadInspectionRecords(dbc dbctx.Context, rows []InspectionRecordFixture, refs Refs) error {
	if len(rows) == 0 {
		return nil
	}
	byID := map[int64]*types.UserPath{}
	var ups []*types.UserPath
	if err := dbc.Tx.WithContext(dbc.Context()).Where("id IN ?", mapValues(refs["user_paths"])).Find(&ups).Error; err != nil {
		return fmt.Errorf("load user paths: %w", err)
	}
	for _, up := range ups {
		byID[up.ID] = up
	}

	out := make([]*types.InspectionRecord, 0, len(rows))
	for i, r := range rows {
		up := byID[refs.ID("user_paths", r.UserPath)]
		if up == nil {
			return fmt.Errorf("inspection_records[%d]: user path %q was not inserted", i, r.UserPath)
		}
		images := datatypes.JSON([]byte("[]"))
		if len(r.Images) > 0 {
			raw, err := json.Marshal(r.Images)
			if err != nil {
				return fmt.Errorf("inspection_records[%d]: images: %w", i, err)
			}
			images = datatypes.JSON(raw)
		}
		out = append(out, &types.InspectionRecord{
			UserID:                     up.UserID,
			BridgeInstanceName:         up.BridgeInstanceName,
			AssessmentUnitInstanceName: up.AssessmentUnitInstanceName,
			Hierarchy:                  up.Hierarchy,
			ComponentName:              pointers.NonEmpty(r.ComponentName),
			DamageTypeID:               refs.ID("diseases", r.Disease),
			ScaleID:                    refs.opt("scales", r.Scale),
			QualityID:                  refs.opt("qualities", r.Quality),
			QuantityID:                 refs.opt("quantities", r.Quantity),
			DamageLocation:             r.Location,
			DamageDescription:          r.Description,
			Images:                     images,
			IsActive:                   !r.Inactive,
		})
	}
	if _, err := l.inspectionRecords.Create(dbc, out); err != nil {
		return fmt.Errorf("insert inspection records: %w", err)
	}
	return nil
}

func mapValues(m map[string]int64) []int64 {
	out := make([]int64, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}

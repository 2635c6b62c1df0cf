package services

import (
	"context"
	"math"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	dataagg "github.com/AlcMaple/bridge-inspection-backend/internal/data/aggregates"
	"github.com/AlcMaple/bridge-inspection-backend/internal/data/repos"
	types "github.com/AlcMaple/bridge-inspection-backend/internal/domain"
	domainagg "github.com/AlcMaple/bridge-inspection-backend/internal/domain/aggregates"
	"github.com/AlcMaple/bridge-inspection-backend/internal/modules/scoring"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/dbctx"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/logger"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/pointers"
)

// adjustedWeightTolerance bounds the drift accepted between a client-supplied
// adjusted weight and the server recomputation.
var adjustedWeightTolerance = decimal.New(1, -4)

var tracer = otel.Tracer("github.com/AlcMaple/bridge-inspection-backend/internal/services")

type ScoresService interface {
	GetScoreList(ctx context.Context, req ScoreListRequest) ([]ScoreListItem, int, error)
	GetCascadeOptions(ctx context.Context, req CascadeOptionsRequest) (*CascadeOptions, error)
	CalculateWeightAllocation(ctx context.Context, req WeightAllocationRequest) (*WeightAllocationResult, error)
	SaveWeightAllocation(ctx context.Context, req WeightAllocationSaveRequest) (*WeightAllocationSaveResult, error)
	DeleteWeightAllocation(ctx context.Context, req ScoreListRequest) (int64, error)
	CalculateScore(ctx context.Context, req ScoreCalculationRequest) (*ScoreCalculationResult, error)
}

type ScoresServiceDeps struct {
	Allocations domainagg.ScoreAllocationAggregate
	WeightLinks WeightLinkReader
	Counter     ComponentCounter
	Damages     DamageScoreCalculator
	Scores      repos.ScoreRepo
	UserPaths   repos.UserPathRepo
	Paths       repos.PathRepo
}

type scoresService struct {
	log  *logger.Logger
	deps ScoresServiceDeps
}

func NewScoresService(baseLog *logger.Logger, deps ScoresServiceDeps) ScoresService {
	return &scoresService{
		log:  baseLog.With("service", "ScoresService"),
		deps: deps,
	}
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func scopeAttrs(bridgeInstanceName string, bridgeTypeID int64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("bridge.instance_name", bridgeInstanceName),
		attribute.Int64("bridge.type_id", bridgeTypeID),
	}
}

func allocationScope(bridgeInstanceName string, unit *string, bridgeTypeID int64) domainagg.ScoreAllocationScope {
	return domainagg.ScoreAllocationScope{
		BridgeInstanceName:         bridgeInstanceName,
		AssessmentUnitInstanceName: pointers.Deref(unit),
		BridgeTypeID:               bridgeTypeID,
	}
}

func scoreScope(bridgeInstanceName string, unit *string, bridgeTypeID int64) repos.ScoreScope {
	return repos.ScoreScope{
		BridgeInstanceName:         bridgeInstanceName,
		AssessmentUnitInstanceName: pointers.Deref(unit),
		BridgeTypeID:               bridgeTypeID,
	}
}

// allocate loads the links of a bridge type with live counts and runs the allocation.
func (s *scoresService) allocate(dbc dbctx.Context, op string, bridgeTypeID int64, mode scoring.CalculationMode, overrides map[scoring.LinkKey]int) ([]scoring.WeightLink, error) {
	rows, err := s.deps.WeightLinks.ListActiveWeightLinks(dbc, bridgeTypeID)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	known := make(map[scoring.LinkKey]bool, len(rows))
	links := make([]scoring.WeightLink, 0, len(rows))
	for _, row := range rows {
		n, err := s.deps.Counter.Count(dbc, bridgeTypeID, row)
		if err != nil {
			return nil, dataagg.MapError(op, err)
		}
		l := scoring.WeightLink{
			PartID:            row.PartID,
			PartName:          row.PartName,
			StructureID:       row.StructureID,
			ComponentTypeID:   row.ComponentTypeID,
			ComponentTypeName: row.ComponentTypeName,
			Weight:            row.Weight,
			ComponentCount:    n,
		}
		known[l.Key()] = true
		links = append(links, l)
	}

	if mode == scoring.ModeCustom {
		for k := range overrides {
			if !known[k] {
				return nil, domainagg.NotFoundf(op, "no active weight reference for part %d, component type %d", k.PartID, k.ComponentTypeID)
			}
		}
	}
	return scoring.Allocate(scoring.ApplyCounts(links, mode, overrides)), nil
}

func (s *scoresService) GetScoreList(ctx context.Context, req ScoreListRequest) (items []ScoreListItem, total int, err error) {
	const op = "scores.list"
	ctx, span := startSpan(ctx, "ScoresService.GetScoreList", scopeAttrs(req.BridgeInstanceName, req.BridgeTypeID)...)
	defer func() { endSpan(span, err) }()

	if err := req.Validate(); err != nil {
		return nil, 0, err
	}
	unit := unitName(req.AssessmentUnitInstanceName)
	dbc := dbctx.Context{Ctx: ctx}

	links, err := s.allocate(dbc, op, req.BridgeTypeID, scoring.ModeDefault, nil)
	if err != nil {
		return nil, 0, err
	}
	saved, err := s.deps.Scores.ListActiveByScope(dbc, scoreScope(req.BridgeInstanceName, unit, req.BridgeTypeID))
	if err != nil {
		return nil, 0, dataagg.MapError(op, err)
	}
	byKey := make(map[scoring.LinkKey]*types.Score, len(saved))
	for _, row := range saved {
		byKey[scoring.LinkKey{PartID: row.PartID, ComponentTypeID: row.ComponentTypeID}] = row
	}

	out := make([]ScoreListItem, 0, len(links))
	for _, l := range links {
		item := ScoreListItem{WeightAllocationItem: itemFromLink(l)}
		if row, ok := byKey[l.Key()]; ok {
			item.Weight = row.Weight
			item.ComponentCount = row.ComponentCount
			item.CustomComponentCount = row.CustomComponentCount
			item.AdjustedWeight = row.AdjustedWeight
			item.UseCustomCount = row.UseCustomCount
			item.Saved = true
		}
		out = append(out, item)
	}
	return paginate(out, req.Page, req.PageSize), len(out), nil
}

func paginate[T any](items []T, page, pageSize int) []T {
	if page <= 0 || pageSize <= 0 {
		return items
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func (s *scoresService) GetCascadeOptions(ctx context.Context, req CascadeOptionsRequest) (out *CascadeOptions, err error) {
	const op = "scores.cascade_options"
	ctx, span := startSpan(ctx, "ScoresService.GetCascadeOptions")
	defer func() { endSpan(span, err) }()

	dbc := dbctx.Context{Ctx: ctx}
	out = &CascadeOptions{
		BridgeInstanceNames:         []string{},
		AssessmentUnitInstanceNames: []string{},
		BridgeTypes:                 []repos.BridgeTypeOption{},
	}

	out.BridgeInstanceNames, err = s.deps.UserPaths.DistinctBridgeInstances(dbc, req.UserID)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	bridge := unitName(req.BridgeInstanceName)
	if bridge == nil {
		return out, nil
	}
	out.AssessmentUnitInstanceNames, err = s.deps.UserPaths.DistinctAssessmentUnitInstances(dbc, *bridge, req.UserID)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	out.BridgeTypes, err = s.deps.UserPaths.DistinctBridgeTypes(dbc, *bridge, unitName(req.AssessmentUnitInstanceName), req.UserID)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	return out, nil
}

func (s *scoresService) CalculateWeightAllocation(ctx context.Context, req WeightAllocationRequest) (out *WeightAllocationResult, err error) {
	const op = "scores.weight_allocation.calculate"
	ctx, span := startSpan(ctx, "ScoresService.CalculateWeightAllocation", scopeAttrs(req.BridgeInstanceName, req.BridgeTypeID)...)
	defer func() { endSpan(span, err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	links, err := s.allocate(dbctx.Context{Ctx: ctx}, op, req.BridgeTypeID, req.mode(), req.overrides())
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, domainagg.NotFoundf(op, "no active weight references for bridge type %d", req.BridgeTypeID)
	}
	return allocationResult(req, links), nil
}

func allocationResult(req WeightAllocationRequest, links []scoring.WeightLink) *WeightAllocationResult {
	items := make([]WeightAllocationItem, 0, len(links))
	for _, l := range links {
		items = append(items, itemFromLink(l))
	}
	return &WeightAllocationResult{
		BridgeInstanceName:         req.BridgeInstanceName,
		AssessmentUnitInstanceName: unitName(req.AssessmentUnitInstanceName),
		BridgeTypeID:               req.BridgeTypeID,
		CalculationMode:            req.CalculationMode,
		Items:                      items,
		Total:                      len(items),
	}
}

// SaveWeightAllocation recomputes the allocation server-side and saves one score row
// per link through the allocation aggregate.
func (s *scoresService) SaveWeightAllocation(ctx context.Context, req WeightAllocationSaveRequest) (out *WeightAllocationSaveResult, err error) {
	const op = "scores.weight_allocation.save"
	ctx, span := startSpan(ctx, "ScoresService.SaveWeightAllocation", scopeAttrs(req.BridgeInstanceName, req.BridgeTypeID)...)
	defer func() { endSpan(span, err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	links, err := s.allocate(dbctx.Context{Ctx: ctx}, op, req.BridgeTypeID, req.mode(), req.overrides())
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, domainagg.NotFoundf(op, "no active weight references for bridge type %d", req.BridgeTypeID)
	}
	if err := checkSubmittedItems(op, req.Items, links); err != nil {
		return nil, err
	}

	scope := allocationScope(req.BridgeInstanceName, unitName(req.AssessmentUnitInstanceName), req.BridgeTypeID)
	in := domainagg.SaveScoreAllocationInput{Scope: scope, Links: make([]domainagg.ScoreAllocationLink, 0, len(links))}
	for _, l := range links {
		in.Links = append(in.Links, domainagg.ScoreAllocationLink{
			PartID:               l.PartID,
			StructureID:          l.StructureID,
			ComponentTypeID:      l.ComponentTypeID,
			Weight:               l.Weight,
			ComponentCount:       l.ComponentCount,
			CustomComponentCount: l.CustomComponentCount,
			AdjustedWeight:       l.AdjustedWeight,
			UseCustomCount:       l.UseCustomCount,
		})
	}

	saved, err := s.deps.Allocations.SaveAllocation(ctx, in)
	if err != nil {
		s.log.Error("save weight allocation failed",
			"bridge_instance_name", req.BridgeInstanceName,
			"bridge_type_id", req.BridgeTypeID,
			"error", err,
		)
		return nil, err
	}
	action := SaveActionUpdated
	if saved.Created {
		action = SaveActionCreated
	}

	s.log.Info("weight allocation saved",
		"bridge_instance_name", req.BridgeInstanceName,
		"assessment_unit_instance_name", scope.AssessmentUnitInstanceName,
		"bridge_type_id", req.BridgeTypeID,
		"mode", req.CalculationMode,
		"links", saved.Rows,
		"action", string(action),
	)
	return &WeightAllocationSaveResult{
		WeightAllocationResult: *allocationResult(req.WeightAllocationRequest, links),
		Action:                 action,
	}, nil
}

// checkSubmittedItems rejects an allocation the client computed against data that
// has since changed.
func checkSubmittedItems(op string, items []WeightAllocationItem, links []scoring.WeightLink) error {
	if len(items) == 0 {
		return nil
	}
	byKey := make(map[scoring.LinkKey]scoring.WeightLink, len(links))
	for _, l := range links {
		byKey[l.Key()] = l
	}
	for i, it := range items {
		l, ok := byKey[scoring.LinkKey{PartID: it.PartID, ComponentTypeID: it.ComponentTypeID}]
		if !ok {
			return domainagg.Validationf(op, "items[%d]: part %d, component type %d is not a weight link of this bridge type", i, it.PartID, it.ComponentTypeID)
		}
		if it.AdjustedWeight.Sub(l.AdjustedWeight).Abs().GreaterThan(adjustedWeightTolerance) {
			return domainagg.Validationf(op, "items[%d]: stale allocation, adjusted_weight %s does not match %s", i, it.AdjustedWeight, l.AdjustedWeight)
		}
	}
	return nil
}

func (s *scoresService) DeleteWeightAllocation(ctx context.Context, req ScoreListRequest) (n int64, err error) {
	const op = "scores.weight_allocation.delete"
	ctx, span := startSpan(ctx, "ScoresService.DeleteWeightAllocation", scopeAttrs(req.BridgeInstanceName, req.BridgeTypeID)...)
	defer func() { endSpan(span, err) }()

	if err := validateScope(op, req.BridgeInstanceName, req.BridgeTypeID); err != nil {
		return 0, err
	}
	res, err := s.deps.Allocations.DeleteAllocation(ctx, allocationScope(req.BridgeInstanceName, unitName(req.AssessmentUnitInstanceName), req.BridgeTypeID))
	if err != nil {
		return 0, err
	}
	n = res.Deleted
	if n == 0 {
		return 0, domainagg.NotFoundf(op, "no saved weight allocation for %q", req.BridgeInstanceName)
	}
	s.log.Info("weight allocation deleted",
		"bridge_instance_name", req.BridgeInstanceName,
		"bridge_type_id", req.BridgeTypeID,
		"rows", n,
	)
	return n, nil
}

func (s *scoresService) CalculateScore(ctx context.Context, req ScoreCalculationRequest) (out *ScoreCalculationResult, err error) {
	const op = "scores.calculate"
	ctx, span := startSpan(ctx, "ScoresService.CalculateScore", scopeAttrs(req.BridgeInstanceName, req.BridgeTypeID)...)
	defer func() { endSpan(span, err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	unit := unitName(req.AssessmentUnitInstanceName)
	dbc := dbctx.Context{Ctx: ctx}

	damages, err := s.deps.Damages.Calculate(dbc, DamageQuery{
		BridgeInstanceName:         req.BridgeInstanceName,
		BridgeTypeID:               req.BridgeTypeID,
		AssessmentUnitInstanceName: unit,
		UserID:                     req.UserID,
	})
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	combos, err := s.deps.Paths.ListComponentCombinations(dbc, req.BridgeTypeID)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}

	names := newComponentNames(combos)
	universe := make([]scoring.Component, 0, len(combos))
	for _, c := range combos {
		universe = append(universe, names.component(c.PartID, c.StructureID, c.ComponentTypeID, c.ComponentFormID, ""))
	}
	seen := make(map[string]scoring.Component, len(damages))
	plain := make([]scoring.Damage, 0, len(damages))
	for _, d := range damages {
		if _, ok := seen[d.ComponentKey]; !ok {
			c := d.Component
			seen[d.ComponentKey] = names.component(c.PartID, c.StructureID, c.ComponentTypeID, c.ComponentFormID, c.ComponentName)
		}
		plain = append(plain, d.Damage)
	}

	results := scoring.Aggregate(universe, plain, func(key string) scoring.Component { return seen[key] })
	out = &ScoreCalculationResult{
		BridgeInstanceName:         req.BridgeInstanceName,
		AssessmentUnitInstanceName: unit,
		BridgeTypeID:               req.BridgeTypeID,
		Components:                 results,
		Total:                      len(results),
	}
	for i := range results {
		results[i].ComponentScore = round2(results[i].ComponentScore)
		out.DamageCount += results[i].DamageCount
		out.UnscoredCount += results[i].UnscoredCount
	}
	if out.UnscoredCount > 0 {
		s.log.Warn("score calculated with unscored damages",
			"bridge_instance_name", req.BridgeInstanceName,
			"bridge_type_id", req.BridgeTypeID,
			"unscored", out.UnscoredCount,
			"damages", out.DamageCount,
		)
	}
	span.SetAttributes(attribute.Int("scores.components", out.Total), attribute.Int("scores.damages", out.DamageCount))
	return out, nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

type comboKey struct {
	partID          int64
	componentTypeID int64
	componentFormID int64
}

// componentNames resolves taxonomy names for components seen in paths.
type componentNames struct {
	byKey map[comboKey]repos.ComponentCombination
}

func newComponentNames(combos []repos.ComponentCombination) componentNames {
	m := make(map[comboKey]repos.ComponentCombination, len(combos))
	for _, c := range combos {
		k := comboKey{partID: c.PartID, componentTypeID: pointers.Deref(c.ComponentTypeID), componentFormID: pointers.Deref(c.ComponentFormID)}
		if _, ok := m[k]; !ok {
			m[k] = c
		}
	}
	return componentNames{byKey: m}
}

func (n componentNames) component(partID int64, structureID, componentTypeID, componentFormID *int64, name string) scoring.Component {
	c := scoring.Component{
		Key:             scoring.ComponentKey(partID, componentTypeID, componentFormID, name),
		PartID:          partID,
		StructureID:     structureID,
		ComponentTypeID: componentTypeID,
		ComponentFormID: componentFormID,
		ComponentName:   componentNameOrDefault(name),
	}
	if combo, ok := n.byKey[comboKey{partID: partID, componentTypeID: pointers.Deref(componentTypeID), componentFormID: pointers.Deref(componentFormID)}]; ok {
		c.PartName = combo.PartName
		c.StructureName = combo.StructureName
		c.ComponentTypeName = combo.ComponentTypeName
		c.ComponentFormName = combo.ComponentFormName
	}
	return c
}

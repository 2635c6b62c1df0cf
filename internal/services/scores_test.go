package services

import (
	"context"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	dataagg "github.com/AlcMaple/bridge-inspection-backend/internal/data/aggregates"
	"github.com/AlcMaple/bridge-inspection-backend/internal/data/repos"
	"github.com/AlcMaple/bridge-inspection-backend/internal/data/repos/testutil"
	"github.com/AlcMaple/bridge-inspection-backend/internal/data/seed"
	types "github.com/AlcMaple/bridge-inspection-backend/internal/domain"
	domainagg "github.com/AlcMaple/bridge-inspection-backend/internal/domain/aggregates"
	"github.com/AlcMaple/bridge-inspection-backend/internal/modules/scoring"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/cache"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/dbctx"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/pointers"
)

const demoBridge = "K12+300"

type demoEnv struct {
	db   *gorm.DB
	svc  ScoresService
	refs seed.Refs
	bt   int64
}

func newDemoEnv(t *testing.T, overrides ...func(*ScoresServiceDeps)) demoEnv {
	t.Helper()
	db := testutil.SQLite(t)
	log := testutil.Logger(t)

	f, err := seed.Demo()
	if err != nil {
		t.Fatalf("seed.Demo: %v", err)
	}
	refs, err := seed.NewLoader(db, log).Load(context.Background(), f)
	if err != nil {
		t.Fatalf("seed.Load: %v", err)
	}

	paths := repos.NewPathRepo(db, log)
	scores := repos.NewScoreRepo(db, log)
	deps := ScoresServiceDeps{
		Allocations: dataagg.NewScoreAllocationAggregate(dataagg.ScoreAllocationAggregateDeps{
			Base:   dataagg.BaseDeps{DB: db, Log: log},
			Scores: scores,
		}),
		WeightLinks: NewWeightLinkReader(log, repos.NewWeightReferenceRepo(db, log), cache.NewMemory(), 0),
		Counter:     NewComponentCounter(log, paths),
		Damages: NewDamageScoreCalculator(log,
			repos.NewUserPathRepo(db, log),
			repos.NewInspectionRecordRepo(db, log),
			paths,
			repos.NewScaleRepo(db, log),
		),
		Scores:    scores,
		UserPaths: repos.NewUserPathRepo(db, log),
		Paths:     paths,
	}
	for _, o := range overrides {
		o(&deps)
	}
	svc := NewScoresService(log, deps)
	return demoEnv{db: db, svc: svc, refs: refs, bt: refs.ID("bridge_types", "girder")}
}

func (e demoEnv) key(part, componentType string) scoring.LinkKey {
	return scoring.LinkKey{PartID: e.refs.ID("parts", part), ComponentTypeID: e.refs.ID("component_types", componentType)}
}

func weightsByKey(items []WeightAllocationItem) map[scoring.LinkKey]WeightAllocationItem {
	out := map[scoring.LinkKey]WeightAllocationItem{}
	for _, it := range items {
		out[scoring.LinkKey{PartID: it.PartID, ComponentTypeID: it.ComponentTypeID}] = it
	}
	return out
}

func assertDecimal(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	if got.Sub(decimal.RequireFromString(want)).Abs().GreaterThan(decimal.New(1, -6)) {
		t.Fatalf("%s: want=%s got=%s", label, want, got)
	}
}

func TestCalculateWeightAllocationDefault(t *testing.T) {
	env := newDemoEnv(t)
	res, err := env.svc.CalculateWeightAllocation(context.Background(), WeightAllocationRequest{
		BridgeInstanceName: demoBridge,
		BridgeTypeID:       env.bt,
		CalculationMode:    "default",
	})
	if err != nil {
		t.Fatalf("CalculateWeightAllocation: %v", err)
	}
	if res.CalculationMode != "DEFAULT" || res.Total != 7 || len(res.Items) != 7 {
		t.Fatalf("result header: mode=%s total=%d items=%d", res.CalculationMode, res.Total, len(res.Items))
	}

	items := weightsByKey(res.Items)
	want := map[scoring.LinkKey]struct {
		count    int
		adjusted string
	}{
		env.key("superstructure", "main_beam"): {2, "1"},
		env.key("superstructure", "diaphragm"): {0, "0"},
		env.key("superstructure", "bearing"):   {0, "0"},
		env.key("substructure", "pier"):        {1, "1"},
		env.key("substructure", "abutment"):    {0, "0"},
		env.key("deck", "pavement"):            {1, "1"},
		env.key("deck", "expansion_joint"):     {0, "0"},
	}
	for k, w := range want {
		it, ok := items[k]
		if !ok {
			t.Fatalf("missing link %+v", k)
		}
		if it.ComponentCount != w.count || it.CustomComponentCount != w.count || it.UseCustomCount {
			t.Fatalf("link %+v counts: want=%d got=%d/%d custom=%v", k, w.count, it.ComponentCount, it.CustomComponentCount, it.UseCustomCount)
		}
		assertDecimal(t, it.ComponentTypeName, it.AdjustedWeight, w.adjusted)
	}
	if items[env.key("superstructure", "main_beam")].PartName != "Superstructure" {
		t.Fatalf("part name not resolved: %+v", items[env.key("superstructure", "main_beam")])
	}
}

func TestCalculateWeightAllocationCustom(t *testing.T) {
	env := newDemoEnv(t)
	diaphragm := env.key("superstructure", "diaphragm")
	mainBeam := env.key("superstructure", "main_beam")

	res, err := env.svc.CalculateWeightAllocation(context.Background(), WeightAllocationRequest{
		BridgeInstanceName: demoBridge,
		BridgeTypeID:       env.bt,
		CalculationMode:    "CUSTOM",
		CustomComponentCounts: []CustomComponentCount{
			{PartID: mainBeam.PartID, ComponentTypeID: mainBeam.ComponentTypeID, CustomComponentCount: 0},
			{PartID: diaphragm.PartID, ComponentTypeID: diaphragm.ComponentTypeID, CustomComponentCount: 4},
		},
	})
	if err != nil {
		t.Fatalf("CalculateWeightAllocation: %v", err)
	}
	items := weightsByKey(res.Items)
	assertDecimal(t, "main beam", items[mainBeam].AdjustedWeight, "0")
	assertDecimal(t, "diaphragm", items[diaphragm].AdjustedWeight, "1")
	if !items[diaphragm].UseCustomCount || items[diaphragm].CustomComponentCount != 4 || items[diaphragm].ComponentCount != 0 {
		t.Fatalf("diaphragm counts: %+v", items[diaphragm])
	}
	if items[env.key("substructure", "pier")].UseCustomCount {
		t.Fatalf("pier: links without an override keep the live count")
	}
	assertDecimal(t, "pier", items[env.key("substructure", "pier")].AdjustedWeight, "1")
}

func TestCalculateWeightAllocationErrors(t *testing.T) {
	env := newDemoEnv(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  WeightAllocationRequest
		want domainagg.ErrorCode
	}{
		{"missing bridge", WeightAllocationRequest{BridgeTypeID: env.bt}, domainagg.CodeValidation},
		{"bad mode", WeightAllocationRequest{BridgeInstanceName: demoBridge, BridgeTypeID: env.bt, CalculationMode: "weighted"}, domainagg.CodeValidation},
		{"custom without overrides", WeightAllocationRequest{BridgeInstanceName: demoBridge, BridgeTypeID: env.bt, CalculationMode: "CUSTOM"}, domainagg.CodeValidation},
		{"unknown bridge type", WeightAllocationRequest{BridgeInstanceName: demoBridge, BridgeTypeID: env.bt + 100}, domainagg.CodeNotFound},
		{"unknown override link", WeightAllocationRequest{
			BridgeInstanceName:    demoBridge,
			BridgeTypeID:          env.bt,
			CalculationMode:       "CUSTOM",
			CustomComponentCounts: []CustomComponentCount{{PartID: 9999, ComponentTypeID: 9999, CustomComponentCount: 1}},
		}, domainagg.CodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.svc.CalculateWeightAllocation(ctx, tc.req)
			if got := domainagg.CodeOf(err); got != tc.want {
				t.Fatalf("code: want=%q got=%q (err=%v)", tc.want, got, err)
			}
		})
	}
}

func TestSaveWeightAllocationRoundTrip(t *testing.T) {
	env := newDemoEnv(t)
	ctx := context.Background()
	listReq := ScoreListRequest{BridgeInstanceName: demoBridge, BridgeTypeID: env.bt}

	before, total, err := env.svc.GetScoreList(ctx, listReq)
	if err != nil || total != 7 {
		t.Fatalf("GetScoreList(before): err=%v total=%d", err, total)
	}
	for _, it := range before {
		if it.Saved {
			t.Fatalf("GetScoreList(before): nothing saved yet, got %+v", it)
		}
	}

	diaphragm := env.key("superstructure", "diaphragm")
	req := WeightAllocationSaveRequest{WeightAllocationRequest: WeightAllocationRequest{
		BridgeInstanceName: demoBridge,
		BridgeTypeID:       env.bt,
		CalculationMode:    "CUSTOM",
		CustomComponentCounts: []CustomComponentCount{
			{PartID: diaphragm.PartID, ComponentTypeID: diaphragm.ComponentTypeID, CustomComponentCount: 2},
		},
	}}
	saved, err := env.svc.SaveWeightAllocation(ctx, req)
	if err != nil {
		t.Fatalf("SaveWeightAllocation: %v", err)
	}
	if saved.Action != SaveActionCreated || saved.Total != 7 {
		t.Fatalf("SaveWeightAllocation: action=%s total=%d", saved.Action, saved.Total)
	}

	after, total, err := env.svc.GetScoreList(ctx, listReq)
	if err != nil || total != 7 {
		t.Fatalf("GetScoreList(after): err=%v total=%d", err, total)
	}
	want := weightsByKey(saved.Items)
	for _, it := range after {
		if !it.Saved {
			t.Fatalf("GetScoreList(after): want saved item got %+v", it)
		}
		w := want[scoring.LinkKey{PartID: it.PartID, ComponentTypeID: it.ComponentTypeID}]
		assertDecimal(t, it.ComponentTypeName, it.AdjustedWeight, w.AdjustedWeight.String())
		if it.UseCustomCount != w.UseCustomCount || it.CustomComponentCount != w.CustomComponentCount {
			t.Fatalf("round trip %s: want=%+v got=%+v", it.ComponentTypeName, w, it.WeightAllocationItem)
		}
	}

	req.Items = saved.Items
	again, err := env.svc.SaveWeightAllocation(ctx, req)
	if err != nil {
		t.Fatalf("SaveWeightAllocation(again): %v", err)
	}
	if again.Action != SaveActionUpdated {
		t.Fatalf("SaveWeightAllocation(again): want updated got %s", again.Action)
	}

	unit, total, err := env.svc.GetScoreList(ctx, ScoreListRequest{BridgeInstanceName: demoBridge, BridgeTypeID: env.bt, AssessmentUnitInstanceName: pointers.String("span-1")})
	if err != nil || total != 7 {
		t.Fatalf("GetScoreList(unit): err=%v total=%d", err, total)
	}
	for _, it := range unit {
		if it.Saved {
			t.Fatalf("GetScoreList(unit): whole-bridge allocation leaked into unit scope: %+v", it)
		}
	}
}

func TestSaveWeightAllocationRejectsStaleItems(t *testing.T) {
	env := newDemoEnv(t)
	ctx := context.Background()
	base := WeightAllocationRequest{BridgeInstanceName: demoBridge, BridgeTypeID: env.bt}

	calc, err := env.svc.CalculateWeightAllocation(ctx, base)
	if err != nil {
		t.Fatalf("CalculateWeightAllocation: %v", err)
	}
	items := append([]WeightAllocationItem(nil), calc.Items...)
	items[0].AdjustedWeight = items[0].AdjustedWeight.Sub(decimal.RequireFromString("0.01"))

	_, err = env.svc.SaveWeightAllocation(ctx, WeightAllocationSaveRequest{WeightAllocationRequest: base, Items: items})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("stale items: want validation got=%v", err)
	}

	items[0] = calc.Items[0]
	items[0].AdjustedWeight = items[0].AdjustedWeight.Add(decimal.RequireFromString("0.00005"))
	if _, err := env.svc.SaveWeightAllocation(ctx, WeightAllocationSaveRequest{WeightAllocationRequest: base, Items: items}); err != nil {
		t.Fatalf("items within tolerance: %v", err)
	}

	items = []WeightAllocationItem{{PartID: 9999, ComponentTypeID: 1}}
	_, err = env.svc.SaveWeightAllocation(ctx, WeightAllocationSaveRequest{WeightAllocationRequest: base, Items: items})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("unknown item link: want validation got=%v", err)
	}
}

func TestDeleteWeightAllocation(t *testing.T) {
	env := newDemoEnv(t)
	ctx := context.Background()
	scope := ScoreListRequest{BridgeInstanceName: demoBridge, BridgeTypeID: env.bt}

	if _, err := env.svc.DeleteWeightAllocation(ctx, scope); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("delete unsaved: want not_found got=%v", err)
	}
	if _, err := env.svc.SaveWeightAllocation(ctx, WeightAllocationSaveRequest{WeightAllocationRequest: WeightAllocationRequest{
		BridgeInstanceName: demoBridge,
		BridgeTypeID:       env.bt,
	}}); err != nil {
		t.Fatalf("SaveWeightAllocation: %v", err)
	}
	n, err := env.svc.DeleteWeightAllocation(ctx, scope)
	if err != nil || n != 7 {
		t.Fatalf("DeleteWeightAllocation: err=%v n=%d", err, n)
	}
	items, _, err := env.svc.GetScoreList(ctx, scope)
	if err != nil {
		t.Fatalf("GetScoreList: %v", err)
	}
	for _, it := range items {
		if it.Saved {
			t.Fatalf("deleted allocation still listed as saved: %+v", it)
		}
	}
}

func TestGetScoreListPagination(t *testing.T) {
	env := newDemoEnv(t)
	ctx := context.Background()

	page, total, err := env.svc.GetScoreList(ctx, ScoreListRequest{BridgeInstanceName: demoBridge, BridgeTypeID: env.bt, Page: 3, PageSize: 3})
	if err != nil {
		t.Fatalf("GetScoreList: %v", err)
	}
	if total != 7 || len(page) != 1 {
		t.Fatalf("page 3: want total=7 len=1 got total=%d len=%d", total, len(page))
	}
	page, total, err = env.svc.GetScoreList(ctx, ScoreListRequest{BridgeInstanceName: demoBridge, BridgeTypeID: env.bt, Page: 4, PageSize: 3})
	if err != nil || total != 7 || len(page) != 0 {
		t.Fatalf("page 4: err=%v total=%d len=%d", err, total, len(page))
	}

	empty, total, err := env.svc.GetScoreList(ctx, ScoreListRequest{BridgeInstanceName: demoBridge, BridgeTypeID: env.bt + 100})
	if err != nil || total != 0 || len(empty) != 0 {
		t.Fatalf("unknown bridge type: err=%v total=%d len=%d", err, total, len(empty))
	}
	if _, _, err := env.svc.GetScoreList(ctx, ScoreListRequest{BridgeInstanceName: demoBridge, BridgeTypeID: env.bt, PageSize: 501}); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("oversized page: want validation got=%v", err)
	}
}

func TestGetCascadeOptions(t *testing.T) {
	env := newDemoEnv(t)
	ctx := context.Background()

	opts, err := env.svc.GetCascadeOptions(ctx, CascadeOptionsRequest{})
	if err != nil {
		t.Fatalf("GetCascadeOptions(empty): %v", err)
	}
	if len(opts.BridgeInstanceNames) != 1 || opts.BridgeInstanceNames[0] != demoBridge {
		t.Fatalf("bridge instances: got=%v", opts.BridgeInstanceNames)
	}
	if len(opts.AssessmentUnitInstanceNames) != 0 || len(opts.BridgeTypes) != 0 {
		t.Fatalf("no bridge chosen: got=%+v", opts)
	}

	opts, err = env.svc.GetCascadeOptions(ctx, CascadeOptionsRequest{BridgeInstanceName: pointers.String(demoBridge)})
	if err != nil {
		t.Fatalf("GetCascadeOptions(bridge): %v", err)
	}
	if len(opts.AssessmentUnitInstanceNames) != 1 || opts.AssessmentUnitInstanceNames[0] != "span-1" {
		t.Fatalf("units: got=%v", opts.AssessmentUnitInstanceNames)
	}
	if len(opts.BridgeTypes) != 1 || opts.BridgeTypes[0].ID != env.bt || opts.BridgeTypes[0].Name != "Girder bridge" {
		t.Fatalf("bridge types: got=%+v", opts.BridgeTypes)
	}

	opts, err = env.svc.GetCascadeOptions(ctx, CascadeOptionsRequest{UserID: pointers.Int64(42)})
	if err != nil || len(opts.BridgeInstanceNames) != 0 {
		t.Fatalf("other user: err=%v instances=%v", err, opts.BridgeInstanceNames)
	}
}

func componentsByName(res *ScoreCalculationResult) map[string]scoring.ComponentResult {
	out := map[string]scoring.ComponentResult{}
	for _, c := range res.Components {
		out[c.ComponentTypeName+"/"+c.ComponentFormName+"/"+c.ComponentName] = c
	}
	return out
}

func TestCalculateScoreDemo(t *testing.T) {
	env := newDemoEnv(t)
	res, err := env.svc.CalculateScore(context.Background(), ScoreCalculationRequest{BridgeInstanceName: demoBridge, BridgeTypeID: env.bt})
	if err != nil {
		t.Fatalf("CalculateScore: %v", err)
	}
	if res.Total != 7 || res.DamageCount != 5 || res.UnscoredCount != 0 {
		t.Fatalf("totals: components=%d damages=%d unscored=%d", res.Total, res.DamageCount, res.UnscoredCount)
	}

	got := componentsByName(res)
	cases := []struct {
		key     string
		damages int
		score   float64
	}{
		{"Main beam/T-beam/beam 1-1", 2, 51.51},
		{"Main beam/T-beam/beam 1-2", 1, 100},
		{"Main beam/T-beam/default", 0, 100},
		{"Main beam/Box girder/default", 0, 100},
		{"Bearing/-/default", 0, 100},
		{"Pier/Column pier/default", 1, 65},
		{"Pavement/Asphalt/default", 1, 100},
	}
	for _, tc := range cases {
		c, ok := got[tc.key]
		if !ok {
			t.Fatalf("missing component %q in %v", tc.key, res.Components)
		}
		if c.DamageCount != tc.damages || math.Abs(c.ComponentScore-tc.score) > 1e-9 {
			t.Fatalf("%s: want damages=%d score=%v got damages=%d score=%v", tc.key, tc.damages, tc.score, c.DamageCount, c.ComponentScore)
		}
	}
	if got["Pier/Column pier/default"].StructureName != "Span 1" {
		t.Fatalf("pier structure name: %+v", got["Pier/Column pier/default"].Component)
	}
	beam := got["Main beam/T-beam/beam 1-1"]
	for _, d := range beam.Damages {
		if d.MaxScale == nil {
			t.Fatalf("beam damage without max scale: %+v", d)
		}
		if d.DamageScore == 20 && *d.MaxScale != 3 {
			t.Fatalf("spalling max scale: want=3 got=%d", *d.MaxScale)
		}
		if d.DamageScore == 40 && *d.MaxScale != 4 {
			t.Fatalf("crack max scale: want=4 got=%d", *d.MaxScale)
		}
	}
}

func TestCalculateScoreUnitScope(t *testing.T) {
	env := newDemoEnv(t)
	res, err := env.svc.CalculateScore(context.Background(), ScoreCalculationRequest{
		BridgeInstanceName:         demoBridge,
		BridgeTypeID:               env.bt,
		AssessmentUnitInstanceName: pointers.String("span-1"),
	})
	if err != nil {
		t.Fatalf("CalculateScore: %v", err)
	}
	if res.DamageCount != 0 || res.Total != 5 {
		t.Fatalf("unit scope: want 5 untouched components got total=%d damages=%d", res.Total, res.DamageCount)
	}
	for _, c := range res.Components {
		if c.ComponentScore != scoring.FullScore {
			t.Fatalf("%s: want full score got %v", c.Key, c.ComponentScore)
		}
	}
	if res.AssessmentUnitInstanceName == nil || *res.AssessmentUnitInstanceName != "span-1" {
		t.Fatalf("unit echo: got=%v", res.AssessmentUnitInstanceName)
	}
}

func TestCalculateScoreUnscoredDamage(t *testing.T) {
	env := newDemoEnv(t)
	ctx := context.Background()
	tx := env.db.WithContext(ctx)

	up := testutil.SeedUserPath(t, ctx, tx, pathByKey(t, env, "pavement_crack_1"), "K15+000", nil, nil)
	testutil.SeedInspectionRecord(t, ctx, tx, up, env.refs.ID("diseases", "crack"), nil, pointers.String("lane 1"))
	spall := testutil.SeedInspectionRecord(t, ctx, tx, up, env.refs.ID("diseases", "spalling"), pointers.Int64(env.refs.ID("scales", "spall_1")), pointers.String("lane 1"))

	res, err := env.svc.CalculateScore(ctx, ScoreCalculationRequest{BridgeInstanceName: "K15+000", BridgeTypeID: env.bt})
	if err != nil {
		t.Fatalf("CalculateScore: %v", err)
	}
	if res.DamageCount != 2 || res.UnscoredCount != 2 {
		t.Fatalf("unscored: want damages=2 unscored=2 got damages=%d unscored=%d", res.DamageCount, res.UnscoredCount)
	}
	lane := componentsByName(res)["Pavement/Asphalt/lane 1"]
	statuses := map[int64]scoring.DamageStatus{}
	for _, d := range lane.Damages {
		statuses[d.RecordID] = d.Status
	}
	if statuses[spall.ID] != scoring.StatusMissingMaxScale {
		t.Fatalf("spalling on pavement: want %s got %s", scoring.StatusMissingMaxScale, statuses[spall.ID])
	}
	if lane.ComponentScore != scoring.FullScore {
		t.Fatalf("unscored damages deduct nothing: got %v", lane.ComponentScore)
	}
}

func pathByKey(t *testing.T, env demoEnv, key string) *types.Path {
	t.Helper()
	p, err := repos.NewPathRepo(env.db, testutil.Logger(t)).GetByID(dbctx.Context{Ctx: context.Background()}, env.refs.ID("paths", key))
	if err != nil || p == nil {
		t.Fatalf("path %s: err=%v", key, err)
	}
	return p
}

type fakeAllocationAggregate struct {
	saveErr  error
	lastSave domainagg.SaveScoreAllocationInput
}

func (f *fakeAllocationAggregate) Contract() domainagg.Contract {
	return domainagg.ScoreAllocationAggregateContract
}

func (f *fakeAllocationAggregate) SaveAllocation(_ context.Context, in domainagg.SaveScoreAllocationInput) (domainagg.SaveScoreAllocationResult, error) {
	f.lastSave = in
	if f.saveErr != nil {
		return domainagg.SaveScoreAllocationResult{}, f.saveErr
	}
	return domainagg.SaveScoreAllocationResult{Created: true, Rows: len(in.Links)}, nil
}

func (f *fakeAllocationAggregate) DeleteAllocation(context.Context, domainagg.ScoreAllocationScope) (domainagg.DeleteScoreAllocationResult, error) {
	return domainagg.DeleteScoreAllocationResult{}, nil
}

func TestSaveWeightAllocationDelegatesToAggregate(t *testing.T) {
	fake := &fakeAllocationAggregate{}
	env := newDemoEnv(t, func(d *ScoresServiceDeps) { d.Allocations = fake })
	ctx := context.Background()
	req := WeightAllocationSaveRequest{WeightAllocationRequest: WeightAllocationRequest{
		BridgeInstanceName:         demoBridge,
		BridgeTypeID:               env.bt,
		AssessmentUnitInstanceName: pointers.String("  span-1 "),
	}}

	if _, err := env.svc.SaveWeightAllocation(ctx, req); err != nil {
		t.Fatalf("SaveWeightAllocation: %v", err)
	}
	if fake.lastSave.Scope.AssessmentUnitInstanceName != "span-1" || fake.lastSave.Scope.BridgeTypeID != env.bt {
		t.Fatalf("scope: got=%+v", fake.lastSave.Scope)
	}
	if len(fake.lastSave.Links) != 7 {
		t.Fatalf("links: want=7 got=%d", len(fake.lastSave.Links))
	}

	fake.saveErr = domainagg.NewError(domainagg.CodeConflict, "Scores.Allocation.Save", "duplicate key", nil)
	if _, err := env.svc.SaveWeightAllocation(ctx, req); !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("aggregate conflict: want conflict got=%v", err)
	}
}

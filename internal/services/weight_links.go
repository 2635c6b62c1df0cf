package services

import (
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/AlcMaple/bridge-inspection-backend/internal/data/repos"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/cache"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/dbctx"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/logger"
)

// WeightLinkReader lists the active weight links of a bridge type ordered by
// part, then component type.
type WeightLinkReader interface {
	ListActiveWeightLinks(dbc dbctx.Context, bridgeTypeID int64) ([]repos.WeightLinkRow, error)
	Invalidate(dbc dbctx.Context, bridgeTypeID int64) error
}

type weightLinkReader struct {
	log   *logger.Logger
	refs  repos.WeightReferenceRepo
	store cache.Store
	ttl   time.Duration
	group singleflight.Group
}

// NewWeightLinkReader reads through store when both store and ttl are set.
func NewWeightLinkReader(baseLog *logger.Logger, refs repos.WeightReferenceRepo, store cache.Store, ttl time.Duration) WeightLinkReader {
	return &weightLinkReader{
		log:   baseLog.With("service", "WeightLinkReader"),
		refs:  refs,
		store: store,
		ttl:   ttl,
	}
}

func weightLinksKey(bridgeTypeID int64) string {
	return fmt.Sprintf("weight_links:%d", bridgeTypeID)
}

func (r *weightLinkReader) cached() bool { return r.store != nil && r.ttl > 0 }

func (r *weightLinkReader) ListActiveWeightLinks(dbc dbctx.Context, bridgeTypeID int64) ([]repos.WeightLinkRow, error) {
	if !r.cached() {
		return r.refs.ListActiveLinks(dbc, bridgeTypeID)
	}
	ctx := dbc.Context()
	key := weightLinksKey(bridgeTypeID)

	if raw, ok, err := r.store.Get(ctx, key); err != nil {
		r.log.Warn("weight link cache read failed", "bridge_type_id", bridgeTypeID, "error", err)
	} else if ok {
		var rows []repos.WeightLinkRow
		if err := json.Unmarshal(raw, &rows); err == nil {
			return rows, nil
		}
		r.log.Warn("weight link cache entry unreadable", "bridge_type_id", bridgeTypeID)
	}

	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		rows, err := r.refs.ListActiveLinks(dbc, bridgeTypeID)
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(rows); err == nil {
			if err := r.store.Set(ctx, key, raw, r.ttl); err != nil {
				r.log.Warn("weight link cache write failed", "bridge_type_id", bridgeTypeID, "error", err)
			}
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	rows := v.([]repos.WeightLinkRow)
	out := make([]repos.WeightLinkRow, len(rows))
	copy(out, rows)
	return out, nil
}

func (r *weightLinkReader) Invalidate(dbc dbctx.Context, bridgeTypeID int64) error {
	if r.store == nil {
		return nil
	}
	return r.store.Delete(dbc.Context(), weightLinksKey(bridgeTypeID))
}

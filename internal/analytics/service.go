// Package analytics stores profit snapshots: a period's figures frozen at the time
// they were computed so later rate or cost changes do not rewrite history.
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/RonnieMoneymaker/2.2-sub001/internal/cache"
	"github.com/RonnieMoneymaker/2.2-sub001/internal/profit"
)

const dateLayout = "2006-01-02"

var (
	// ErrSnapshotNotFound is returned for unknown or expired snapshot ids.
	ErrSnapshotNotFound = errors.New("analytics: snapshot not found")
	// ErrStoreUnavailable is returned when no Redis client is configured.
	ErrStoreUnavailable = errors.New("analytics: snapshot store not configured")
)

// SnapshotRequest describes the period to freeze.
type SnapshotRequest struct {
	PeriodStart string              `json:"period_start" validate:"required,datetime=2006-01-02"`
	PeriodEnd   string              `json:"period_end" validate:"required,datetime=2006-01-02"`
	Orders      []profit.OrderInput `json:"orders" validate:"dive"`
	FixedCosts  []profit.FixedCost  `json:"fixed_costs" validate:"dive"`
	AdSpend     decimal.Decimal     `json:"ad_spend"`
}

// Snapshot is a stored period report.
type Snapshot struct {
	ID          string                     `json:"id"`
	Tenant      string                     `json:"tenant"`
	PeriodStart string                     `json:"period_start"`
	PeriodEnd   string                     `json:"period_end"`
	Days        int                        `json:"days"`
	FixedCosts  profit.FixedCostAllocation `json:"fixed_costs"`
	Profit      profit.PeriodProfit        `json:"profit"`
	Rating      profit.Rating              `json:"rating"`
	CreatedAt   time.Time                  `json:"created_at"`
}

// Service computes and persists snapshots in Redis.
type Service struct {
	Engine *profit.Engine
	R      *redis.Client
	TTL    time.Duration
	Now    func() time.Time
	NewID  func() string
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

// Compute builds a snapshot without storing it. Days are counted inclusively, so a
// period starting and ending on the same date is one day long.
func (s *Service) Compute(tenantID string, req SnapshotRequest) (Snapshot, error) {
	start, err := time.Parse(dateLayout, req.PeriodStart)
	if err != nil {
		return Snapshot{}, &profit.ArgumentError{Field: "period_start", Reason: "must be a YYYY-MM-DD date"}
	}
	end, err := time.Parse(dateLayout, req.PeriodEnd)
	if err != nil {
		return Snapshot{}, &profit.ArgumentError{Field: "period_end", Reason: "must be a YYYY-MM-DD date"}
	}
	if end.Before(start) {
		return Snapshot{}, &profit.ArgumentError{Field: "period_end", Reason: "must not be before period_start"}
	}
	// Both dates are UTC midnights; time.Duration cannot span more than ~292 years.
	days := int((end.Unix()-start.Unix())/86400) + 1

	alloc, err := profit.AllocateFixedCosts(req.FixedCosts, days)
	if err != nil {
		return Snapshot{}, err
	}
	period, err := s.Engine.PeriodFromOrders(req.Orders, alloc.Total, req.AdSpend)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		ID:          s.newID(),
		Tenant:      tenantID,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		Days:        days,
		FixedCosts:  alloc,
		Profit:      period,
		Rating:      profit.Classify(period.ProfitMarginPercentage),
		CreatedAt:   s.now(),
	}, nil
}

// Create computes and stores a snapshot for tenantID.
func (s *Service) Create(ctx context.Context, tenantID string, req SnapshotRequest) (Snapshot, error) {
	if s == nil || s.R == nil {
		return Snapshot{}, ErrStoreUnavailable
	}
	snap, err := s.Compute(tenantID, req)
	if err != nil {
		return Snapshot{}, err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return Snapshot{}, fmt.Errorf("encode snapshot: %w", err)
	}

	index := cache.KeySnapshotIndex(tenantID)
	pipe := s.R.TxPipeline()
	pipe.Set(ctx, cache.KeySnapshot(tenantID, snap.ID), data, s.TTL)
	pipe.ZAdd(ctx, index, redis.Z{Score: float64(snap.CreatedAt.UnixNano()), Member: snap.ID})
	if s.TTL > 0 {
		pipe.Expire(ctx, index, s.TTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("store snapshot: %w", err)
	}
	return snap, nil
}

// Get loads one snapshot of tenantID.
func (s *Service) Get(ctx context.Context, tenantID, id string) (Snapshot, error) {
	if s == nil || s.R == nil {
		return Snapshot{}, ErrStoreUnavailable
	}
	data, err := s.R.Get(ctx, cache.KeySnapshot(tenantID, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, ErrSnapshotNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

// List returns the newest snapshots of tenantID first. Expired entries are
// dropped from the index as they are found.
func (s *Service) List(ctx context.Context, tenantID string, limit int) ([]Snapshot, error) {
	if s == nil || s.R == nil {
		return nil, ErrStoreUnavailable
	}
	if limit <= 0 {
		limit = 20
	}
	index := cache.KeySnapshotIndex(tenantID)
	ids, err := s.R.ZRevRange(ctx, index, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	out := make([]Snapshot, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = cache.KeySnapshot(tenantID, id)
	}
	values, err := s.R.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	var stale []any
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}
		var snap Snapshot
		if err := json.Unmarshal([]byte(raw), &snap); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
		out = append(out, snap)
	}
	if len(stale) > 0 {
		_ = s.R.ZRem(ctx, index, stale...).Err()
	}
	return out, nil
}

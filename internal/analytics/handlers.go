package analytics

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RonnieMoneymaker/2.2-sub001/internal/common"
	"github.com/RonnieMoneymaker/2.2-sub001/internal/obs"
	"github.com/RonnieMoneymaker/2.2-sub001/internal/profit"
	"github.com/RonnieMoneymaker/2.2-sub001/internal/tenant"
)

// Handler exposes snapshot endpoints.
type Handler struct {
	Svc *Service
}

// Create computes and stores a snapshot.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req SnapshotRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		h.fail(w, "create", err)
		return
	}
	tenantID, _ := tenant.From(r.Context())
	snap, err := h.Svc.Create(r.Context(), tenantID, req)
	if err != nil {
		h.fail(w, "create", err)
		return
	}
	obs.ObserveSnapshot("create", obs.ResultOK)
	common.Data(w, http.StatusCreated, snap)
}

// Get returns one snapshot of the request tenant.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := tenant.From(r.Context())
	snap, err := h.Svc.Get(r.Context(), tenantID, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "get", err)
		return
	}
	obs.ObserveSnapshot("get", obs.ResultOK)
	common.Data(w, http.StatusOK, snap)
}

// List returns the newest snapshots of the request tenant.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := tenant.From(r.Context())
	limit := common.QueryLimit(r, "limit", 20, 100)
	snaps, err := h.Svc.List(r.Context(), tenantID, limit)
	if err != nil {
		h.fail(w, "list", err)
		return
	}
	obs.ObserveSnapshot("list", obs.ResultOK)
	common.Data(w, http.StatusOK, snaps)
}

func (h *Handler) fail(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, ErrSnapshotNotFound):
		obs.ObserveSnapshot(action, obs.ResultNotFound)
		common.WriteError(w, common.NotFound("SNAPSHOT_NOT_FOUND", "snapshot not found"))
	case errors.Is(err, ErrStoreUnavailable):
		obs.ObserveSnapshot(action, obs.ResultError)
		common.JSONError(w, http.StatusServiceUnavailable, "SNAPSHOTS_UNAVAILABLE", "snapshot store not configured", nil)
	case errors.Is(err, profit.ErrInvalidArgument) || common.IsAppError(err):
		obs.ObserveSnapshot(action, obs.ResultInvalid)
		common.WriteError(w, err)
	default:
		obs.ObserveSnapshot(action, obs.ResultError)
		common.WriteError(w, err)
	}
}

package api

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hackgods/doctor-availability/internal/appointment"
)

// SnapshotSource hands out the service for the current snapshot. Handlers call
// it once per request so a refresh never splits a response across two snapshots.
type SnapshotSource interface {
	Service() *appointment.Service
}

// SnapshotHolder is a SnapshotSource whose service can be swapped atomically.
type SnapshotHolder struct {
	current atomic.Pointer[appointment.Service]
}

func NewSnapshotHolder(svc *appointment.Service) *SnapshotHolder {
	h := &SnapshotHolder{}
	h.current.Store(svc)
	return h
}

func (h *SnapshotHolder) Service() *appointment.Service {
	return h.current.Load()
}

// Swap installs svc and reports whether the snapshot version changed.
func (h *SnapshotHolder) Swap(svc *appointment.Service) bool {
	old := h.current.Swap(svc)
	return old == nil || old.Snapshot().Version() != svc.Snapshot().Version()
}

// AvailabilityCache is the optional read-through cache for single-day
// availability. Get reports a miss with redisclient.ErrCacheMiss.
type AvailabilityCache interface {
	Get(ctx context.Context, key string) ([]time.Time, error)
	Set(ctx context.Context, key string, slots []time.Time) error
}

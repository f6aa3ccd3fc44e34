package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var errNotConfigured = errors.New("not configured")

// CheckFunc pings one dependency. A nil CheckFunc means the dependency is not
// configured.
type CheckFunc func(ctx context.Context) error

type HealthHandler struct {
	postgres CheckFunc
	redis    CheckFunc
	src      SnapshotSource
	env      string
	version  string
}

func NewHealthHandler(postgres, redis CheckFunc, src SnapshotSource, env, version string) *HealthHandler {
	return &HealthHandler{
		postgres: postgres,
		redis:    redis,
		src:      src,
		env:      env,
		version:  version,
	}
}

type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Env     string `json:"env,omitempty"`
}

type ReadinessResponse struct {
	Status          string            `json:"status"`
	Version         string            `json:"version,omitempty"`
	Env             string            `json:"env,omitempty"`
	SnapshotVersion string            `json:"snapshot_version,omitempty"`
	Dependencies    map[string]string `json:"dependencies"`
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	resp := LivenessResponse{
		Status:  "ok",
		Version: h.version,
		Env:     h.env,
	}
	writeJSON(w, http.StatusOK, resp)
}

// Readiness is "error" without postgres and "degraded" without redis, since
// the cache is optional.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	deps := make(map[string]string)
	status := "ok"

	if ping(ctx, h.postgres) != nil {
		deps["postgres"] = "down"
		status = "error"
	} else {
		deps["postgres"] = "ok"
	}

	if h.redis == nil {
		deps["redis"] = "disabled"
		if status == "ok" {
			status = "degraded"
		}
	} else if ping(ctx, h.redis) != nil {
		deps["redis"] = "down"
		if status == "ok" {
			status = "degraded"
		}
	} else {
		deps["redis"] = "ok"
	}

	resp := ReadinessResponse{
		Status:       status,
		Version:      h.version,
		Env:          h.env,
		Dependencies: deps,
	}
	if h.src != nil {
		if svc := h.src.Service(); svc != nil {
			resp.SnapshotVersion = snapshotVersionString(svc.Snapshot().Version())
		}
	}

	httpStatus := http.StatusOK
	if status == "error" {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, resp)
}

func ping(ctx context.Context, check CheckFunc) error {
	if check == nil {
		return errNotConfigured
	}
	pingCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return check(pingCtx)
}

func snapshotVersionString(v uint64) string {
	return fmt.Sprintf("%016x", v)
}

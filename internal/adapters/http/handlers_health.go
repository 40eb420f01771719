package http

import (
	"context"
	"net/http"
	"sort"
	"time"
)

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make(map[string]string, len(names))
	ready := true
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			ready = false
			results[name] = "unavailable"
			logHTTPOperationError(ctx, "readyz", http.StatusServiceUnavailable, "NOT_READY", name, err)
			continue
		}
		results[name] = "ok"
	}
	if !ready {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "error",
			"code":   "NOT_READY",
			"checks": results,
		})
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"status": "ready", "checks": results})
}

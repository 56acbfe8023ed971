package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"lyricsync/logger"
	"lyricsync/model"
)

// HealthHandler reports liveness and the number of connected sessions.
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	status := &model.HealthStatus{
		Status:   "ok",
		Sessions: s.hub.Count(),
		Version:  Version,
	}

	if s.hub.Presence() != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		online, err := s.hub.ActiveCount(ctx)
		if err != nil {
			logger.Warn("failed to count online sessions", logger.ErrorField(err))
		} else {
			status.Online = &online
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

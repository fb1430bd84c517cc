package server

import (
	"net/http"
	"runtime"
	"time"
)

type statsResponse struct {
	Uptime     string   `json:"uptime"`
	StartTime  string   `json:"start_time"`
	Goroutines int      `json:"goroutines"`
	Resources  []string `json:"resources"`
}

// handleStats reports operational counters for monitoring.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	resources := make([]string, 0, len(s.pages))
	for _, p := range s.pages {
		resources = append(resources, p.Slug())
	}

	respondOK(w, reqID, statsResponse{
		Uptime:     time.Since(s.startTime).Round(time.Second).String(),
		StartTime:  s.startTime.Format(time.RFC3339),
		Goroutines: runtime.NumGoroutine(),
		Resources:  resources,
	})
}

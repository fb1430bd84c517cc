package server

import (
	"net/http"
	"runtime"
	"time"
)

type healthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
	DealerAPI string `json:"dealer_api"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	// The dashboard is healthy on its own; the dealer API's state is reported
	// alongside, not folded into the status.
	upstream := "reachable"
	if err := s.client.Health(r.Context()); err != nil {
		upstream = "unreachable"
	}

	respondOK(w, reqID, healthResponse{
		Status:    "healthy",
		Version:   "0.1.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		DealerAPI: upstream,
	})
}

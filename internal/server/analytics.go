package server

import (
	"net/http"

	"defnixsite/internal/util"
	"defnixsite/pkg/domain"
)

type eventRequest struct {
	EventType string         `json:"eventType"`
	Payload   map[string]any `json:"payload"`
	SessionID string         `json:"sessionId"`
}

func (s *Server) handleAnalyticsEvents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req eventRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		event, err := s.app.TrackEvent(req.EventType, req.SessionID,
			r.UserAgent(), util.ClientIP(r, s.trusted), req.Payload)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, event)
	case http.MethodGet:
		s.adminOnly(func(w http.ResponseWriter, r *http.Request, _ domain.AdminUser) {
			events, err := s.app.EventsByType(r.URL.Query().Get("type"))
			if err != nil {
				writeAppError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"items": events, "count": len(events)})
		}).ServeHTTP(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleAnalyticsSummary(w http.ResponseWriter, r *http.Request, _ domain.AdminUser) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	summary, err := s.app.Summary()
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

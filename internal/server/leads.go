package server

import (
	"net/http"
	"strings"

	"defnixsite/internal/app"
	"defnixsite/pkg/domain"
)

type leadRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Message string `json:"message"`
	Source  string `json:"source"`
}

type leadStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleLeads(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req leadRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		lead, err := s.app.CreateLead(app.CreateLeadInput{
			Name:    req.Name,
			Email:   req.Email,
			Company: req.Company,
			Message: req.Message,
			Source:  req.Source,
		})
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, lead)
	case http.MethodGet:
		s.adminOnly(func(w http.ResponseWriter, r *http.Request, _ domain.AdminUser) {
			page, limit := pageParams(r)
			leads, total, err := s.app.ListLeads(page, limit)
			if err != nil {
				writeAppError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, pagedResponse("leads", leads, total, page))
		}).ServeHTTP(w, r)
	default:
		methodNotAllowed(w)
	}
}

// /api/v1/leads/{id}/status
func (s *Server) handleLeadStatus(w http.ResponseWriter, r *http.Request, user domain.AdminUser) {
	path := strings.TrimPrefix(r.URL.Path, apiPrefix+"/leads/")
	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] != "status" {
		writeError(w, http.StatusNotFound, "Lead not found")
		return
	}
	if r.Method != http.MethodPatch {
		methodNotAllowed(w)
		return
	}
	var req leadStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	lead, err := s.app.UpdateLeadStatus(parts[0], req.Status)
	if err != nil {
		writeAppError(w, err)
		return
	}
	s.audit(r, "lead_status_update", "success", "user", user.Email, "lead", lead.ID, "status", string(lead.Status))
	writeJSON(w, http.StatusOK, lead)
}

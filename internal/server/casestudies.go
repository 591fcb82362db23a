package server

import (
	"net/http"
	"strings"

	"defnixsite/internal/app"
	"defnixsite/pkg/domain"
)

type caseStudyRequest struct {
	Title      string `json:"title"`
	Client     string `json:"client"`
	Industry   string `json:"industry"`
	Challenge  string `json:"challenge"`
	Solution   string `json:"solution"`
	Results    string `json:"results"`
	CoverImage string `json:"coverImage"`
	Published  *bool  `json:"published"`
}

func (req caseStudyRequest) toInput() app.CaseStudyInput {
	return app.CaseStudyInput{
		Title:      req.Title,
		Client:     req.Client,
		Industry:   req.Industry,
		Challenge:  req.Challenge,
		Solution:   req.Solution,
		Results:    req.Results,
		CoverImage: req.CoverImage,
		Published:  req.Published,
	}
}

func (s *Server) handleCaseStudies(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		studies, err := s.app.ListCaseStudies()
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": studies, "count": len(studies)})
	case http.MethodPost:
		s.adminOnly(func(w http.ResponseWriter, r *http.Request, user domain.AdminUser) {
			var req caseStudyRequest
			if err := decodeBody(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			cs, err := s.app.CreateCaseStudy(req.toInput())
			if err != nil {
				writeAppError(w, err)
				return
			}
			s.audit(r, "case_study_create", "success", "user", user.Email, "caseStudy", cs.ID)
			writeJSON(w, http.StatusCreated, cs)
		}).ServeHTTP(w, r)
	default:
		methodNotAllowed(w)
	}
}

// GET /api/v1/case-studies/{slug} is public; PUT and DELETE address by id
// and require admin credentials.
func (s *Server) handleCaseStudyByPath(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, apiPrefix+"/case-studies/")
	if key == "" || strings.Contains(key, "/") {
		writeError(w, http.StatusNotFound, "Case study not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		cs, err := s.app.GetCaseStudyBySlug(key)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cs)
	case http.MethodPut:
		s.adminOnly(func(w http.ResponseWriter, r *http.Request, user domain.AdminUser) {
			var req caseStudyRequest
			if err := decodeBody(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			cs, err := s.app.UpdateCaseStudy(key, req.toInput())
			if err != nil {
				writeAppError(w, err)
				return
			}
			s.audit(r, "case_study_update", "success", "user", user.Email, "caseStudy", cs.ID)
			writeJSON(w, http.StatusOK, cs)
		}).ServeHTTP(w, r)
	case http.MethodDelete:
		s.adminOnly(func(w http.ResponseWriter, r *http.Request, user domain.AdminUser) {
			if err := s.app.DeleteCaseStudy(key); err != nil {
				writeAppError(w, err)
				return
			}
			s.audit(r, "case_study_delete", "success", "user", user.Email, "caseStudy", key)
			writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
		}).ServeHTTP(w, r)
	default:
		methodNotAllowed(w)
	}
}

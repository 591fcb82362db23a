package server

import (
	"net/http"
	"strings"

	"defnixsite/pkg/domain"
)

func (s *Server) handleMedia(w http.ResponseWriter, r *http.Request, user domain.AdminUser) {
	switch r.Method {
	case http.MethodPost:
		s.handleMediaUpload(w, r, user)
	case http.MethodGet:
		assets, err := s.app.ListMedia()
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": assets, "count": len(assets)})
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleMediaUpload(w http.ResponseWriter, r *http.Request, user domain.AdminUser) {
	r.Body = http.MaxBytesReader(w, r.Body, s.app.MaxUploadBytes())
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form data")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required (field: file)")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	asset, err := s.app.UploadMedia(r.Context(), header.Filename, contentType, header.Size, file)
	if err != nil {
		writeAppError(w, err)
		return
	}
	s.audit(r, "media_upload", "success", "user", user.Email, "asset", asset.ID)
	writeJSON(w, http.StatusCreated, asset)
}

func (s *Server) handleMediaByID(w http.ResponseWriter, r *http.Request, user domain.AdminUser) {
	id := strings.TrimPrefix(r.URL.Path, apiPrefix+"/media/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "Media asset not found")
		return
	}
	if r.Method != http.MethodDelete {
		methodNotAllowed(w)
		return
	}
	if err := s.app.DeleteMedia(r.Context(), id); err != nil {
		writeAppError(w, err)
		return
	}
	s.audit(r, "media_delete", "success", "user", user.Email, "asset", id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

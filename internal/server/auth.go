package server

import (
	"encoding/json"
	"io"
	"net/http"

	"defnixsite/internal/app"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	token, user, err := s.app.Login(req.Email, req.Password)
	if err != nil {
		if err == app.ErrInvalidCredentials {
			s.audit(r, "login", "failure", "email", req.Email)
		}
		writeAppError(w, err)
		return
	}
	s.audit(r, "login", "success", "user", user.Email)
	writeJSON(w, http.StatusOK, map[string]any{
		"accessToken": token,
		"user":        user,
	})
}

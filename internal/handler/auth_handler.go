package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/theprojectmacker/clinic/internal/auth"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 128
)

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if n := utf8.RuneCountInString(req.Password); n < minPasswordLen || n > maxPasswordLen {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "password must be 8 to 128 characters"})
		return
	}

	if err := h.verifier.Verify(req.Password); err != nil {
		// don't report a missing secret as bad credentials
		if errors.Is(err, auth.ErrNotConfigured) {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid admin credentials"})
		return
	}

	token, expiresAt := h.sessions.Issue()
	writeJSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: expiresAt})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if err := h.sessions.Validate(token); err != nil {
		writeErr(w, err)
		return
	}
	h.sessions.Revoke(token)
	writeJSON(w, http.StatusOK, map[string]string{"message": "admin logged out"})
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/theprojectmacker/clinic/internal/auth"
	"github.com/theprojectmacker/clinic/internal/service"
	"github.com/theprojectmacker/clinic/internal/store"
)

type Handler struct {
	svc      *service.Appointments
	sessions *auth.Sessions
	verifier *auth.Verifier
}

func New(svc *service.Appointments, sessions *auth.Sessions, verifier *auth.Verifier) *Handler {
	return &Handler{svc: svc, sessions: sessions, verifier: verifier}
}

// Routes builds the full route table. Middleware is applied by the
// caller.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health)

	mux.HandleFunc("POST /admin/login", h.Login)
	mux.HandleFunc("POST /admin/logout", h.Logout)

	mux.HandleFunc("GET /appointments", h.ListAppointments)
	mux.HandleFunc("POST /appointments", h.CreateAppointment)
	mux.HandleFunc("GET /appointments/search", h.SearchAppointments)
	mux.HandleFunc("GET /appointments/statuses", h.ListStatuses)
	mux.HandleFunc("GET /appointments/summary", h.QueueSummary)
	mux.HandleFunc("PATCH /appointments/{id}/status", h.UpdateStatus)
	mux.HandleFunc("DELETE /appointments/{id}", h.DeleteAppointment)

	return mux
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// bearerToken pulls the token out of "Authorization: Bearer <token>".
// A missing or malformed header yields "", which fails validation the
// same way an unknown token does.
func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps core errors onto status codes. Authorization failures
// share one message so callers cannot tell malformed from expired from
// unknown.
func writeErr(w http.ResponseWriter, err error) {
	var ve *service.ValidationError
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid or expired admin session"})
	case errors.Is(err, auth.ErrNotConfigured):
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "server is misconfigured"})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "appointment not found"})
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": ve.Reason})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

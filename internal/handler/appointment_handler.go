package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/theprojectmacker/clinic/internal/model"
	"github.com/theprojectmacker/clinic/internal/service"
)

type createAppointmentRequest struct {
	FullName      string `json:"fullName"`
	ContactNumber string `json:"contactNumber"`
	VisitType     string `json:"visitType"`
	ScheduledFor  string `json:"scheduledFor"`
	VisitReason   string `json:"visitReason"`
	// Status is accepted for wire compatibility and ignored; new
	// appointments always start SCHEDULED.
	Status string `json:"status"`
}

func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	scheduledFor, err := parseSchedule(req.ScheduledFor)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "scheduledFor must be a timestamp"})
		return
	}

	created, err := h.svc.Create(r.Context(), service.CreateInput{
		FullName:      req.FullName,
		ContactNumber: req.ContactNumber,
		VisitType:     model.VisitType(req.VisitType),
		ScheduledFor:  scheduledFor,
		VisitReason:   req.VisitReason,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// parseSchedule accepts RFC 3339 and, for clients that send local-naive
// timestamps, a zone-less form that is taken as UTC.
func parseSchedule(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04", raw)
}

func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	appts, err := h.svc.List(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	if appts == nil {
		appts = []model.Appointment{}
	}
	writeJSON(w, http.StatusOK, appts)
}

func (h *Handler) SearchAppointments(w http.ResponseWriter, r *http.Request) {
	appts, err := h.svc.Search(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeErr(w, err)
		return
	}
	if appts == nil {
		appts = []model.Appointment{}
	}
	writeJSON(w, http.StatusOK, appts)
}

func (h *Handler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.StatusValues())
}

func (h *Handler) QueueSummary(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Snapshot(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	updated, err := h.svc.UpdateStatus(r.Context(), bearerToken(r), id, model.Status(req.Status))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	if err := h.svc.Delete(r.Context(), bearerToken(r), id); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, &service.ValidationError{Reason: "id must be an integer"}
	}
	return id, nil
}

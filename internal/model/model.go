package model

import (
	"strings"
	"time"
)

type VisitType string

const (
	VisitInPerson VisitType = "IN_PERSON"
	VisitOnline   VisitType = "ONLINE"
)

func (v VisitType) Valid() bool {
	return v == VisitInPerson || v == VisitOnline
}

type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusCheckedIn Status = "CHECKED_IN"
	StatusInSession Status = "IN_SESSION"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Statuses returns every status in display order.
func Statuses() []Status {
	return []Status{StatusScheduled, StatusCheckedIn, StatusInSession, StatusCompleted, StatusCancelled}
}

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCheckedIn, StatusInSession, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Label renders a status for display: "CHECKED_IN" -> "Checked In".
func (s Status) Label() string {
	parts := strings.Split(string(s), "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
	}
	return strings.Join(parts, " ")
}

type Appointment struct {
	ID            int64     `json:"id"`
	FullName      string    `json:"fullName"`
	ContactNumber string    `json:"contactNumber,omitempty"`
	VisitType     VisitType `json:"visitType"`
	ScheduledFor  time.Time `json:"scheduledFor"`
	VisitReason   string    `json:"visitReason,omitempty"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type StatusCount struct {
	Status Status `json:"status"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
}

// Snapshot is the queue overview shown on the admin board.
type Snapshot struct {
	TotalAppointments int           `json:"totalAppointments"`
	ScheduledToday    int           `json:"scheduledToday"`
	WaitingCount      int           `json:"waitingCount"`
	CompletedToday    int           `json:"completedToday"`
	OnlineCount       int           `json:"onlineCount"`
	InPersonCount     int           `json:"inPersonCount"`
	StatusBreakdown   []StatusCount `json:"statusBreakdown"`
	NextAppointment   *Appointment  `json:"nextAppointment"`
}

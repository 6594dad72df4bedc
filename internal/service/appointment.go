package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/theprojectmacker/clinic/internal/auth"
	"github.com/theprojectmacker/clinic/internal/model"
	"github.com/theprojectmacker/clinic/internal/store"
)

const (
	maxNameLen    = 160
	maxContactLen = 32
	maxReasonLen  = 500
	minSearchLen  = 3
)

// ValidationError marks client input the service refused. The HTTP
// layer maps it to a 400.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Repository is what the service needs from durable storage. *store.Store
// satisfies it; tests substitute an in-memory fake.
type Repository interface {
	Insert(ctx context.Context, a *model.Appointment) error
	Get(ctx context.Context, id int64) (*model.Appointment, error)
	ListAll(ctx context.Context) ([]model.Appointment, error)
	SearchByName(ctx context.Context, name string) ([]model.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status model.Status) (*model.Appointment, error)
	Delete(ctx context.Context, id int64) (bool, error)
	CountByStatus(ctx context.Context) (map[model.Status]int, error)
	CountByVisitType(ctx context.Context) (map[model.VisitType]int, error)
	CountScheduledBetween(ctx context.Context, from, to time.Time) (int, error)
	CountCompletedBetween(ctx context.Context, from, to time.Time) (int, error)
	NextUpcoming(ctx context.Context, now time.Time) (*model.Appointment, error)
}

// Appointments enforces the business rules between the HTTP boundary
// and the repository.
type Appointments struct {
	repo     Repository
	sessions *auth.Sessions
	// openDelete drops the admin requirement on deletion. The stricter
	// default stands unless explicitly configured away.
	openDelete bool
	now        func() time.Time
}

func New(repo Repository, sessions *auth.Sessions, openDelete bool) *Appointments {
	return &Appointments{
		repo:       repo,
		sessions:   sessions,
		openDelete: openDelete,
		now:        time.Now,
	}
}

type CreateInput struct {
	FullName      string
	ContactNumber string
	VisitType     model.VisitType
	ScheduledFor  time.Time
	VisitReason   string
}

// Create validates and normalizes the booking, then persists it with
// status forced to SCHEDULED no matter what the caller supplied.
func (s *Appointments) Create(ctx context.Context, in CreateInput) (*model.Appointment, error) {
	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		return nil, invalid("fullName is required")
	}
	if utf8.RuneCountInString(fullName) > maxNameLen {
		return nil, invalid("fullName must be at most %d characters", maxNameLen)
	}
	if utf8.RuneCountInString(in.ContactNumber) > maxContactLen {
		return nil, invalid("contactNumber must be at most %d characters", maxContactLen)
	}
	if utf8.RuneCountInString(in.VisitReason) > maxReasonLen {
		return nil, invalid("visitReason must be at most %d characters", maxReasonLen)
	}
	if !in.VisitType.Valid() {
		return nil, invalid("visitType must be IN_PERSON or ONLINE")
	}
	if in.ScheduledFor.IsZero() {
		return nil, invalid("scheduledFor is required")
	}

	// same-minute bookings pass, anything earlier does not
	scheduledFor := in.ScheduledFor.UTC()
	if scheduledFor.Before(s.now().UTC().Truncate(time.Minute)) {
		return nil, invalid("selected schedule is in the past")
	}

	a := &model.Appointment{
		FullName:      fullName,
		ContactNumber: strings.TrimSpace(in.ContactNumber),
		VisitType:     in.VisitType,
		ScheduledFor:  scheduledFor,
		VisitReason:   strings.TrimSpace(in.VisitReason),
		Status:        model.StatusScheduled,
	}
	if err := s.repo.Insert(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Appointments) List(ctx context.Context) ([]model.Appointment, error) {
	return s.repo.ListAll(ctx)
}

func (s *Appointments) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	return s.repo.Get(ctx, id)
}

// Search requires at least 3 characters after trimming; shorter queries
// never reach the repository.
func (s *Appointments) Search(ctx context.Context, name string) ([]model.Appointment, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < minSearchLen {
		return nil, invalid("name must be at least %d characters", minSearchLen)
	}
	return s.repo.SearchByName(ctx, name)
}

// UpdateStatus moves an appointment to any valid status. There is no
// transition graph; the only gate is a live admin session.
func (s *Appointments) UpdateStatus(ctx context.Context, token string, id int64, status model.Status) (*model.Appointment, error) {
	if err := s.sessions.Validate(token); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, invalid("unknown status %q", status)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// Delete removes the appointment for good. Requires an admin session
// unless the deployment opted into open deletion.
func (s *Appointments) Delete(ctx context.Context, token string, id int64) error {
	if !s.openDelete {
		if err := s.sessions.Validate(token); err != nil {
			return err
		}
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return store.ErrNotFound
	}
	return nil
}

// StatusValues lists every status the state machine accepts.
func (s *Appointments) StatusValues() []string {
	statuses := model.Statuses()
	out := make([]string, len(statuses))
	for i, st := range statuses {
		out[i] = string(st)
	}
	return out
}

// Snapshot assembles the queue overview. "Today" is the current UTC day.
func (s *Appointments) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	now := s.now().UTC()
	dayStart := now.Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byVisit, err := s.repo.CountByVisitType(ctx)
	if err != nil {
		return nil, err
	}
	scheduledToday, err := s.repo.CountScheduledBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	completedToday, err := s.repo.CountCompletedBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	next, err := s.repo.NextUpcoming(ctx, now)
	if err != nil {
		return nil, err
	}

	snap := &model.Snapshot{
		ScheduledToday:  scheduledToday,
		CompletedToday:  completedToday,
		OnlineCount:     byVisit[model.VisitOnline],
		InPersonCount:   byVisit[model.VisitInPerson],
		NextAppointment: next,
	}
	for _, st := range model.Statuses() {
		n := byStatus[st]
		snap.TotalAppointments += n
		snap.StatusBreakdown = append(snap.StatusBreakdown, model.StatusCount{
			Status: st,
			Label:  st.Label(),
			Count:  n,
		})
	}
	snap.WaitingCount = byStatus[model.StatusScheduled] + byStatus[model.StatusCheckedIn]
	return snap, nil
}

// Package storetest provides an in-memory stand-in for the Postgres
// store so the layers above it can be tested without a database.
package storetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/theprojectmacker/clinic/internal/model"
	"github.com/theprojectmacker/clinic/internal/store"
)

type Memory struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]model.Appointment
}

func NewMemory() *Memory {
	return &Memory{nextID: 1, rows: make(map[int64]model.Appointment)}
}

func (m *Memory) Insert(_ context.Context, a *model.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	a.ID = m.nextID
	m.nextID++
	a.CreatedAt = now
	a.UpdatedAt = now
	m.rows[a.ID] = *a
	return nil
}

func (m *Memory) Get(_ context.Context, id int64) (*model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &a, nil
}

func (m *Memory) ListAll(_ context.Context) ([]model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(func(model.Appointment) bool { return true }), nil
}

func (m *Memory) SearchByName(_ context.Context, name string) ([]model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	needle := strings.ToLower(name)
	return m.sorted(func(a model.Appointment) bool {
		return strings.Contains(strings.ToLower(a.FullName), needle)
	}), nil
}

func (m *Memory) UpdateStatus(_ context.Context, id int64, status model.Status) (*model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = time.Now().UTC()
	m.rows[id] = a
	return &a, nil
}

func (m *Memory) Delete(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[id]; !ok {
		return false, nil
	}
	delete(m.rows, id)
	return true, nil
}

func (m *Memory) CountByStatus(_ context.Context) (map[model.Status]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[model.Status]int)
	for _, a := range m.rows {
		out[a.Status]++
	}
	return out, nil
}

func (m *Memory) CountByVisitType(_ context.Context) (map[model.VisitType]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[model.VisitType]int)
	for _, a := range m.rows {
		out[a.VisitType]++
	}
	return out, nil
}

func (m *Memory) CountScheduledBetween(_ context.Context, from, to time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, a := range m.rows {
		if !a.ScheduledFor.Before(from) && a.ScheduledFor.Before(to) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) CountCompletedBetween(_ context.Context, from, to time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, a := range m.rows {
		if a.Status == model.StatusCompleted && !a.UpdatedAt.Before(from) && a.UpdatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) NextUpcoming(_ context.Context, now time.Time) (*model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	waiting := m.sorted(func(a model.Appointment) bool {
		if a.ScheduledFor.Before(now) {
			return false
		}
		return a.Status == model.StatusScheduled || a.Status == model.StatusCheckedIn
	})
	if len(waiting) == 0 {
		return nil, nil
	}
	return &waiting[0], nil
}

// sorted filters and returns rows in (ScheduledFor, ID) order, matching
// the SQL store's canonical ordering.
func (m *Memory) sorted(keep func(model.Appointment) bool) []model.Appointment {
	var out []model.Appointment
	for _, a := range m.rows {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledFor.Equal(out[j].ScheduledFor) {
			return out[i].ScheduledFor.Before(out[j].ScheduledFor)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

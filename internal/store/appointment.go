package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/theprojectmacker/clinic/internal/model"
)

const appointmentCols = `id, full_name, COALESCE(contact_number,''), visit_type,
	scheduled_for, COALESCE(visit_reason,''), status, created_at, updated_at`

func scanAppointment(row pgx.Row, a *model.Appointment) error {
	return row.Scan(
		&a.ID, &a.FullName, &a.ContactNumber, &a.VisitType,
		&a.ScheduledFor, &a.VisitReason, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
}

func (s *Store) Insert(ctx context.Context, a *model.Appointment) error {
	return s.pool.QueryRow(ctx,
		`INSERT INTO appointments (full_name, contact_number, visit_type, scheduled_for, visit_reason, status)
		 VALUES ($1, NULLIF($2,''), $3, $4, NULLIF($5,''), $6)
		 RETURNING id, created_at, updated_at`,
		a.FullName, a.ContactNumber, a.VisitType, a.ScheduledFor, a.VisitReason, a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (s *Store) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	a := &model.Appointment{}
	err := scanAppointment(s.pool.QueryRow(ctx,
		`SELECT `+appointmentCols+` FROM appointments WHERE id = $1`, id), a)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListAll returns every appointment in canonical display order:
// (scheduled_for, id) ascending. The id tie-break keeps same-instant
// appointments in a stable order.
func (s *Store) ListAll(ctx context.Context) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+appointmentCols+`
		 FROM appointments
		 ORDER BY scheduled_for ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// SearchByName matches a case-insensitive substring of full_name, same
// ordering as ListAll. Minimum query length is enforced by the service.
func (s *Store) SearchByName(ctx context.Context, name string) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+appointmentCols+`
		 FROM appointments
		 WHERE lower(full_name) LIKE '%' || lower($1) || '%'
		 ORDER BY scheduled_for ASC, id ASC`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (s *Store) UpdateStatus(ctx context.Context, id int64, status model.Status) (*model.Appointment, error) {
	a := &model.Appointment{}
	err := scanAppointment(s.pool.QueryRow(ctx,
		`UPDATE appointments SET status = $2, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+appointmentCols, id, status), a)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes the row. Reports false, not an error, when the id was
// already gone.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func collect(rows pgx.Rows) ([]model.Appointment, error) {
	var out []model.Appointment
	for rows.Next() {
		var a model.Appointment
		if err := scanAppointment(rows, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ----- queue snapshot aggregates -----

func (s *Store) CountByStatus(ctx context.Context) (map[model.Status]int, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM appointments GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[model.Status]int)
	for rows.Next() {
		var st model.Status
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, err
		}
		out[st] = n
	}
	return out, rows.Err()
}

func (s *Store) CountByVisitType(ctx context.Context) (map[model.VisitType]int, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT visit_type, COUNT(*) FROM appointments GROUP BY visit_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[model.VisitType]int)
	for rows.Next() {
		var vt model.VisitType
		var n int
		if err := rows.Scan(&vt, &n); err != nil {
			return nil, err
		}
		out[vt] = n
	}
	return out, rows.Err()
}

func (s *Store) CountScheduledBetween(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments WHERE scheduled_for >= $1 AND scheduled_for < $2`,
		from, to).Scan(&n)
	return n, err
}

func (s *Store) CountCompletedBetween(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments
		 WHERE status = $1 AND updated_at >= $2 AND updated_at < $3`,
		model.StatusCompleted, from, to).Scan(&n)
	return n, err
}

// NextUpcoming returns the earliest appointment still waiting to be
// seen, or nil when the queue is empty.
func (s *Store) NextUpcoming(ctx context.Context, now time.Time) (*model.Appointment, error) {
	a := &model.Appointment{}
	err := scanAppointment(s.pool.QueryRow(ctx,
		`SELECT `+appointmentCols+`
		 FROM appointments
		 WHERE scheduled_for >= $1 AND status IN ($2, $3)
		 ORDER BY scheduled_for ASC, id ASC
		 LIMIT 1`, now, model.StatusScheduled, model.StatusCheckedIn), a)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

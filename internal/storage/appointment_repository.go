package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/nayan-ray/bookingd/internal/model"
	"github.com/nayan-ray/bookingd/libs/db"
)

type AppointmentRepository struct {
	pool *db.Pool
}

func NewAppointmentRepository(pool *db.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

func (r *AppointmentRepository) Insert(ctx context.Context, rec *model.AppointmentRecord) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (name, email, phone, service, date, time, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, rec.Name, rec.Email, rec.Phone, rec.Service, rec.Date, rec.Time, rec.Notes).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// DeleteByID removes at most one row. Deleting an id that does not exist
// is not an error; the operator console treats both as success.
func (r *AppointmentRepository) DeleteByID(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	return err
}

func (r *AppointmentRepository) Count(ctx context.Context, filter string) (int, error) {
	var n int
	var err error
	if strings.TrimSpace(filter) == "" {
		err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointments`).Scan(&n)
	} else {
		err = r.pool.QueryRow(ctx, `
			SELECT COUNT(*) FROM appointments
			WHERE name ILIKE $1 OR email ILIKE $1 OR phone ILIKE $1 OR service ILIKE $1
		`, likePattern(filter)).Scan(&n)
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

// List returns records ordered newest first, ties broken by id so pages
// are stable for rows created in the same instant.
func (r *AppointmentRepository) List(ctx context.Context, filter string, offset, limit int) ([]model.AppointmentRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	var rows pgx.Rows
	var err error
	if strings.TrimSpace(filter) == "" {
		rows, err = r.pool.Query(ctx, `
			SELECT id, name, email, phone, service,
				to_char(date, 'YYYY-MM-DD'), to_char(time, 'HH24:MI'), notes, created_at
			FROM appointments
			ORDER BY created_at DESC, id DESC
			LIMIT $1 OFFSET $2
		`, limit, offset)
	} else {
		rows, err = r.pool.Query(ctx, `
			SELECT id, name, email, phone, service,
				to_char(date, 'YYYY-MM-DD'), to_char(time, 'HH24:MI'), notes, created_at
			FROM appointments
			WHERE name ILIKE $1 OR email ILIKE $1 OR phone ILIKE $1 OR service ILIKE $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2 OFFSET $3
		`, likePattern(filter), limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []model.AppointmentRecord
	for rows.Next() {
		var rec model.AppointmentRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.Name,
			&rec.Email,
			&rec.Phone,
			&rec.Service,
			&rec.Date,
			&rec.Time,
			&rec.Notes,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return recs, nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// likePattern wraps the term for a substring ILIKE match, escaping the
// pattern metacharacters so a search for "100%" behaves literally.
func likePattern(term string) string {
	term = strings.TrimSpace(term)
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + escaper.Replace(term) + "%"
}

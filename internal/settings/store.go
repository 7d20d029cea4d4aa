package settings

import (
	"context"

	"github.com/nayan-ray/bookingd/libs/db"
)

// Store persists Settings as rows in the widget_settings table. Loads
// happen once per request; saves are rare and last-writer-wins.
type Store struct {
	pool *db.Pool
}

func NewStore(pool *db.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Load(ctx context.Context) (Settings, error) {
	rows, err := s.pool.Query(ctx, `SELECT key, value FROM widget_settings`)
	if err != nil {
		return Settings{}, err
	}
	defer rows.Close()

	values := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Settings{}, err
		}
		values[key] = value
	}
	if rows.Err() != nil {
		return Settings{}, rows.Err()
	}
	return fromMap(values), nil
}

func (s *Store) Save(ctx context.Context, cfg Settings) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for key, value := range cfg.toMap() {
		if _, err := tx.Exec(ctx, `
			INSERT INTO widget_settings (key, value)
			VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE
			SET value = EXCLUDED.value,
				updated_at = now()
		`, key, value); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

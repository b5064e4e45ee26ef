package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLStore keeps sessions in the quiz_sessions table. It is an optional
// shared backend selected with session_backend "sql".
// Queries use $n placeholders, which both sqlite and postgres accept.
type SQLStore struct {
	db  *sql.DB
	cfg storeConfig
}

func NewSQLStore(db *sql.DB, opts ...StoreOption) *SQLStore {
	return &SQLStore{db: db, cfg: newStoreConfig(opts)}
}

func (s *SQLStore) Create(ctx context.Context, entries map[string]KeyEntry) (Session, error) {
	if entries == nil {
		entries = map[string]KeyEntry{}
	}
	ej, err := json.Marshal(entries)
	if err != nil {
		return Session{}, err
	}
	if err := s.evict(ctx); err != nil {
		return Session{}, err
	}

	now := s.cfg.now()
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := s.cfg.newID()
		if id == "" {
			continue
		}
		res, err := s.db.ExecContext(ctx, `INSERT INTO quiz_sessions (id,entries_json,created_at)
			VALUES ($1,$2,$3)
			ON CONFLICT (id) DO NOTHING`,
			id, string(ej), now.UnixMilli())
		if err != nil {
			return Session{}, err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			continue
		}
		return Session{ID: id, CreatedAt: now, Entries: entries}, nil
	}
	return Session{}, fmt.Errorf("allocate session id: %d attempts collided", maxIDAttempts)
}

func (s *SQLStore) Get(ctx context.Context, id string) (Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT entries_json, created_at FROM quiz_sessions WHERE id=$1`, id)
	var (
		ejson   string
		created int64
	)
	if err := row.Scan(&ejson, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrSessionNotFound
		}
		return Session{}, err
	}
	sess := Session{ID: id, CreatedAt: time.UnixMilli(created)}
	if s.cfg.expired(sess.CreatedAt) {
		return Session{}, ErrSessionNotFound
	}
	if err := json.Unmarshal([]byte(ejson), &sess.Entries); err != nil {
		return Session{}, fmt.Errorf("decode session %s: %w", id, err)
	}
	return sess, nil
}

func (s *SQLStore) evict(ctx context.Context) error {
	cutoff, ok := s.cfg.eviction.Cutoff(s.cfg.now())
	if !ok {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM quiz_sessions WHERE created_at < $1`, cutoff.UnixMilli())
	return err
}

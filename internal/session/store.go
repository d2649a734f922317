// Package session keeps each visitor's overlay state between HTMX requests.
// The store is volatile by default (an in-memory SQLite database) and rows
// expire after a TTL.
package session

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// State is what one visitor has open. Experience and Project are indexes
// into the static lists, or -1.
type State struct {
	Experience   int
	Project      int
	ScrollLocked bool
}

// Closed is the state of a freshly mounted page.
var Closed = State{Experience: -1, Project: -1}

// Store persists State per visitor ID.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS visits (
	id TEXT PRIMARY KEY,
	experience_selected INTEGER,
	project_selected INTEGER,
	scroll_locked INTEGER NOT NULL DEFAULT 0,
	updated_at INTEGER NOT NULL
)`

// Open opens the store at dsn and creates its table. An empty dsn means
// MemoryDSN.
func Open(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening session database")
	}
	// Every connection to ":memory:" is a separate database, so keep one.
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating visits table")
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the visitor's state, or Closed when there is none.
func (s *Store) Load(ctx context.Context, id string) (State, error) {
	var exp, proj sql.NullInt64
	var locked bool

	err := s.db.QueryRowContext(ctx, `
		SELECT experience_selected, project_selected, scroll_locked
		FROM visits WHERE id = ?`, id).Scan(&exp, &proj, &locked)
	if errors.Is(err, sql.ErrNoRows) {
		return Closed, nil
	}
	if err != nil {
		return Closed, errors.Wrapf(err, "loading visit %s", id)
	}

	st := Closed
	if exp.Valid {
		st.Experience = int(exp.Int64)
	}
	if proj.Valid {
		st.Project = int(proj.Int64)
	}
	st.ScrollLocked = locked
	return st, nil
}

// Save stores the visitor's state and refreshes its expiry.
func (s *Store) Save(ctx context.Context, id string, st State) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visits (id, experience_selected, project_selected, scroll_locked, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			experience_selected = excluded.experience_selected,
			project_selected = excluded.project_selected,
			scroll_locked = excluded.scroll_locked,
			updated_at = excluded.updated_at`,
		id, nullIndex(st.Experience), nullIndex(st.Project), st.ScrollLocked, s.now().UnixNano())
	if err != nil {
		return errors.Wrapf(err, "saving visit %s", id)
	}
	return nil
}

func nullIndex(i int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(i), Valid: i >= 0}
}

// Cleanup deletes visits not updated within ttl and returns how many went.
func (s *Store) Cleanup(ctx context.Context, ttl time.Duration) (int64, error) {
	cutoff := s.now().Add(-ttl).UnixNano()
	result, err := s.db.ExecContext(ctx, `DELETE FROM visits WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, errors.Wrap(err, "cleaning up visits")
	}
	n, _ := result.RowsAffected()
	return n, nil
}

// Count returns the number of stored visits.
func (s *Store) Count(ctx context.Context) (n int64, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM visits`).Scan(&n)
	if err != nil {
		err = errors.Wrap(err, "counting visits")
	}
	return n, err
}

// RunCleanup removes expired visits every ttl/2 until ctx is done.
func (s *Store) RunCleanup(ctx context.Context, ttl time.Duration, log *slog.Logger) {
	every := max(ttl/2, time.Second)
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanupOnce(ctx, ttl, log)
		}
	}
}

func (s *Store) cleanupOnce(ctx context.Context, ttl time.Duration, log *slog.Logger) {
	n, err := s.Cleanup(ctx, ttl)
	if err != nil {
		log.Error("error cleaning up visits", "err", err)
		return
	}
	if n == 0 {
		return
	}
	remaining, err := s.Count(ctx)
	if err != nil {
		log.Error("error counting visits", "err", err)
		return
	}
	log.Info("expired visits removed", "count", n, "remaining", remaining)
}

// Package store persists layout sessions in SQLite so that successive
// exports to the same document continue on the same sheet.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/chazu/facesvg/pkg/emit"
	"github.com/chazu/facesvg/pkg/geom"
	"github.com/chazu/facesvg/pkg/layout"
	"github.com/chazu/facesvg/pkg/profile"
)

// ErrNotFound is returned by Load for an unknown session.
var ErrNotFound = errors.New("store: session not found")

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    name         TEXT PRIMARY KEY,
    cursor_x     REAL NOT NULL,
    cursor_y     REAL NOT NULL,
    row_height   REAL NOT NULL,
    has_viewport INTEGER NOT NULL DEFAULT 0,
    view_min_x   REAL NOT NULL DEFAULT 0,
    view_min_y   REAL NOT NULL DEFAULT 0,
    view_max_x   REAL NOT NULL DEFAULT 0,
    view_max_y   REAL NOT NULL DEFAULT 0,
    updated_at   TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS faces (
    session TEXT NOT NULL REFERENCES sessions(name) ON DELETE CASCADE,
    seq     INTEGER NOT NULL,
    name    TEXT NOT NULL,
    kind    TEXT NOT NULL,
    depth   REAL NOT NULL,
    paths   TEXT NOT NULL,
    PRIMARY KEY (session, seq)
);
`

// Path is one emitted loop of a placed face.
type Path struct {
	Data string   `json:"d"`
	Min  geom.Vec `json:"min"`
	Max  geom.Vec `json:"max"`
}

// NewPath records an emit result.
func NewPath(r emit.Result) Path {
	return Path{Data: r.Data, Min: r.Bounds.Min, Max: r.Bounds.Max}
}

// Result converts back to an emit result.
func (p Path) Result() emit.Result {
	return emit.Result{Data: p.Data, Bounds: geom.NewBounds(p.Min, p.Max)}
}

// Face is a profile already placed on the sheet, kept as path data. The
// first path is the outer loop.
type Face struct {
	Name  string
	Kind  profile.FaceKind
	Depth float64
	Paths []Path
}

// Session is everything needed to resume a document.
type Session struct {
	Name  string
	State layout.State
	Faces []Face
}

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the named session or ErrNotFound.
func (s *Store) Load(ctx context.Context, name string) (Session, error) {
	sess := Session{Name: name}
	st := &sess.State
	var hasViewport int
	row := s.db.QueryRowContext(ctx, `
        SELECT cursor_x, cursor_y, row_height, has_viewport,
               view_min_x, view_min_y, view_max_x, view_max_y
        FROM sessions
        WHERE name = ?
    `, name)
	err := row.Scan(&st.Cursor.X, &st.Cursor.Y, &st.Cursor.RowHeight, &hasViewport,
		&st.ViewMin.X, &st.ViewMin.Y, &st.ViewMax.X, &st.ViewMax.Y)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, fmt.Errorf("store: load %q: %w", name, err)
	}
	st.HasViewport = hasViewport != 0

	rows, err := s.db.QueryContext(ctx, `
        SELECT name, kind, depth, paths
        FROM faces
        WHERE session = ?
        ORDER BY seq
    `, name)
	if err != nil {
		return Session{}, fmt.Errorf("store: load %q faces: %w", name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			f           Face
			kind, paths string
		)
		if err := rows.Scan(&f.Name, &kind, &f.Depth, &paths); err != nil {
			return Session{}, fmt.Errorf("store: load %q faces: %w", name, err)
		}
		if f.Kind, err = profile.ParseFaceKind(kind); err != nil {
			return Session{}, fmt.Errorf("store: face %q: %w", f.Name, err)
		}
		if err := json.Unmarshal([]byte(paths), &f.Paths); err != nil {
			return Session{}, fmt.Errorf("store: face %q paths: %w", f.Name, err)
		}
		sess.Faces = append(sess.Faces, f)
	}
	if err := rows.Err(); err != nil {
		return Session{}, fmt.Errorf("store: load %q faces: %w", name, err)
	}
	return sess, nil
}

// Save replaces the stored session in one transaction.
func (s *Store) Save(ctx context.Context, sess Session) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: save %q: %w", sess.Name, err)
	}
	defer tx.Rollback()

	st := sess.State
	_, err = tx.ExecContext(ctx, `
        INSERT INTO sessions (name, cursor_x, cursor_y, row_height, has_viewport,
                              view_min_x, view_min_y, view_max_x, view_max_y, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(name) DO UPDATE SET
            cursor_x = excluded.cursor_x,
            cursor_y = excluded.cursor_y,
            row_height = excluded.row_height,
            has_viewport = excluded.has_viewport,
            view_min_x = excluded.view_min_x,
            view_min_y = excluded.view_min_y,
            view_max_x = excluded.view_max_x,
            view_max_y = excluded.view_max_y,
            updated_at = CURRENT_TIMESTAMP
    `, sess.Name, st.Cursor.X, st.Cursor.Y, st.Cursor.RowHeight, boolInt(st.HasViewport),
		st.ViewMin.X, st.ViewMin.Y, st.ViewMax.X, st.ViewMax.Y)
	if err != nil {
		return fmt.Errorf("store: save %q: %w", sess.Name, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM faces WHERE session = ?`, sess.Name); err != nil {
		return fmt.Errorf("store: save %q: %w", sess.Name, err)
	}
	for i, f := range sess.Faces {
		paths, err := json.Marshal(f.Paths)
		if err != nil {
			return fmt.Errorf("store: face %q paths: %w", f.Name, err)
		}
		_, err = tx.ExecContext(ctx, `
            INSERT INTO faces (session, seq, name, kind, depth, paths)
            VALUES (?, ?, ?, ?, ?, ?)
        `, sess.Name, i, f.Name, f.Kind.String(), f.Depth, string(paths))
		if err != nil {
			return fmt.Errorf("store: save %q face %q: %w", sess.Name, f.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: save %q: %w", sess.Name, err)
	}
	return nil
}

// Delete removes a session and its faces. Deleting an unknown session is
// not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM faces WHERE session = ?`, name); err != nil {
		return fmt.Errorf("store: delete %q: %w", name, err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE name = ?`, name); err != nil {
		return fmt.Errorf("store: delete %q: %w", name, err)
	}
	return nil
}

// List returns the stored session names in order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM sessions ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("store: list: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

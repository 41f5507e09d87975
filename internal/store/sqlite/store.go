package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/MrSnakeDoc/converso/internal/companion"
)

const companionColumns = "c.id, c.author, c.name, c.subject, c.topic, c.voice, c.style, c.duration"

// Store is the SQLite-backed record store.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at dsn and applies the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// every connection to :memory: is a different database
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) initSchema(ctx context.Context) error {
	schema := `
    CREATE TABLE IF NOT EXISTS companions (
        id TEXT PRIMARY KEY, -- UUID
        author TEXT NOT NULL,
        name TEXT NOT NULL,
        subject TEXT NOT NULL,
        topic TEXT NOT NULL,
        voice TEXT NOT NULL,
        style TEXT NOT NULL,
        duration INTEGER NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_companions_author ON companions (author);

    CREATE TABLE IF NOT EXISTS session_history (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        companion_id TEXT NOT NULL,
        user_id TEXT NOT NULL,
        created_at DATETIME NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_session_history_user ON session_history (user_id, created_at);

    CREATE TABLE IF NOT EXISTS bookmarks (
        companion_id TEXT NOT NULL,
        user_id TEXT NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_bookmarks_user ON bookmarks (user_id);
    `
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Companion methods

func (s *Store) InsertCompanion(ctx context.Context, c companion.Companion) (companion.Companion, error) {
	c.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO companions (id, author, name, subject, topic, voice, style, duration) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		c.ID, c.Author, c.Name, c.Subject, c.Topic, c.Voice, c.Style, c.Duration)
	if err != nil {
		return companion.Companion{}, fmt.Errorf("failed to insert companion: %w", err)
	}
	return c, nil
}

// FindCompanions applies the subject and topic filters with LIKE, which is
// case-insensitive for ASCII only in SQLite. % and _ in a filter match literally.
func (s *Store) FindCompanions(ctx context.Context, q companion.CompanionQuery) ([]companion.Companion, error) {
	if q.From < 0 || q.To < q.From {
		return []companion.Companion{}, nil
	}

	var (
		where []string
		args  []any
	)
	if q.Subject != "" {
		where = append(where, `c.subject LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(q.Subject))
	}
	if q.Topic != "" {
		where = append(where, `(c.topic LIKE ? ESCAPE '\' OR c.name LIKE ? ESCAPE '\')`)
		args = append(args, likePattern(q.Topic), likePattern(q.Topic))
	}

	query := "SELECT " + companionColumns + " FROM companions c"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY c.rowid LIMIT ? OFFSET ?"
	args = append(args, q.To-q.From+1, q.From)

	return s.queryCompanions(ctx, "find companions", query, args...)
}

func (s *Store) CompanionByID(ctx context.Context, id string) (companion.Companion, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+companionColumns+" FROM companions c WHERE c.id = ?", id)
	c, err := scanCompanion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return companion.Companion{}, companion.ErrNotFound
	}
	if err != nil {
		return companion.Companion{}, fmt.Errorf("failed to get companion: %w", err)
	}
	return c, nil
}

func (s *Store) CompanionsByAuthor(ctx context.Context, author string) ([]companion.Companion, error) {
	return s.queryCompanions(ctx, "query companions by author",
		"SELECT "+companionColumns+" FROM companions c WHERE c.author = ? ORDER BY c.rowid", author)
}

func (s *Store) CountCompanionsByAuthor(ctx context.Context, author string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM companions WHERE author = ?", author).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count companions: %w", err)
	}
	return n, nil
}

// Session history methods

func (s *Store) InsertSession(ctx context.Context, e companion.SessionEntry) (companion.SessionEntry, error) {
	e.CreatedAt = s.now().UTC()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO session_history (companion_id, user_id, created_at) VALUES (?, ?, ?)",
		e.CompanionID, e.UserID, e.CreatedAt)
	if err != nil {
		return companion.SessionEntry{}, fmt.Errorf("failed to insert session: %w", err)
	}
	if e.ID, err = res.LastInsertId(); err != nil {
		return companion.SessionEntry{}, fmt.Errorf("failed to read session id: %w", err)
	}
	return e, nil
}

// SessionCompanions joins history to companions. Entries pointing at a
// deleted companion drop out of the inner join.
func (s *Store) SessionCompanions(ctx context.Context, q companion.SessionQuery) ([]companion.Companion, error) {
	query := "SELECT " + companionColumns + " FROM session_history h JOIN companions c ON c.id = h.companion_id"
	args := []any{}
	if q.UserID != "" {
		query += " WHERE h.user_id = ?"
		args = append(args, q.UserID)
	}
	query += " ORDER BY h.created_at DESC, h.id DESC LIMIT ?"
	args = append(args, q.Limit)

	return s.queryCompanions(ctx, "query session history", query, args...)
}

// Bookmark methods

func (s *Store) InsertBookmark(ctx context.Context, b companion.Bookmark) error {
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO bookmarks (companion_id, user_id) VALUES (?, ?)", b.CompanionID, b.UserID); err != nil {
		return fmt.Errorf("failed to insert bookmark: %w", err)
	}
	return nil
}

func (s *Store) DeleteBookmark(ctx context.Context, b companion.Bookmark) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM bookmarks WHERE companion_id = ? AND user_id = ?", b.CompanionID, b.UserID); err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	return nil
}

func (s *Store) BookmarkedCompanions(ctx context.Context, userID string) ([]companion.Companion, error) {
	return s.queryCompanions(ctx, "query bookmarks",
		"SELECT "+companionColumns+" FROM bookmarks b JOIN companions c ON c.id = b.companion_id WHERE b.user_id = ? ORDER BY b.rowid",
		userID)
}

type scanner interface {
	Scan(dest ...any) error
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// likePattern builds a substring LIKE pattern with the wildcards of s escaped.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func scanCompanion(row scanner) (companion.Companion, error) {
	var c companion.Companion
	err := row.Scan(&c.ID, &c.Author, &c.Name, &c.Subject, &c.Topic, &c.Voice, &c.Style, &c.Duration)
	return c, err
}

func (s *Store) queryCompanions(ctx context.Context, what, query string, args ...any) ([]companion.Companion, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", what, err)
	}
	defer rows.Close()

	list := make([]companion.Companion, 0)
	for rows.Next() {
		c, err := scanCompanion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan companion: %w", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to %s: %w", what, err)
	}
	return list, nil
}

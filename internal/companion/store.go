package companion

import (
	"context"
	"errors"
)

// ErrNotFound is returned by record stores when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// CompanionQuery filters and pages the companions collection.
//
// Subject is a case-insensitive substring match on subject. Topic is a
// case-insensitive substring match on topic OR name. Both combine with AND.
// Filters match literally, wildcard characters included. Case folding is
// Unicode-aware in the memory store and ASCII-only in SQLite.
// From and To are the inclusive row range.
type CompanionQuery struct {
	Subject string
	Topic   string
	From    int
	To      int
}

// SessionQuery selects session history joined to companions, newest first.
// An empty UserID spans every user.
type SessionQuery struct {
	UserID string
	Limit  int
}

// RecordStore is the persistence surface the service needs.
type RecordStore interface {
	InsertCompanion(ctx context.Context, c Companion) (Companion, error)
	FindCompanions(ctx context.Context, q CompanionQuery) ([]Companion, error)
	CompanionByID(ctx context.Context, id string) (Companion, error)
	CompanionsByAuthor(ctx context.Context, author string) ([]Companion, error)
	CountCompanionsByAuthor(ctx context.Context, author string) (int, error)

	InsertSession(ctx context.Context, e SessionEntry) (SessionEntry, error)
	SessionCompanions(ctx context.Context, q SessionQuery) ([]Companion, error)

	InsertBookmark(ctx context.Context, b Bookmark) error
	DeleteBookmark(ctx context.Context, b Bookmark) error
	BookmarkedCompanions(ctx context.Context, userID string) ([]Companion, error)

	Ping(ctx context.Context) error
}

// Invalidator marks cached renders of a view path as stale.
type Invalidator interface {
	Invalidate(ctx context.Context, path string) error
}

// NopInvalidator is used when no view cache is configured.
type NopInvalidator struct{}

func (NopInvalidator) Invalidate(context.Context, string) error { return nil }

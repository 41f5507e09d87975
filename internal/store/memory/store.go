package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/converso/internal/companion"
)

// Store keeps the companion collections in process memory.
// It mirrors the SQLite store semantics and is safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	companions map[string]companion.Companion // ID -> Companion
	order      []string                       // companion IDs in insertion order
	sessions   []companion.SessionEntry       // append-only, oldest first
	bookmarks  []companion.Bookmark           // not deduplicated
	nextID     int64
	now        func() time.Time
}

// NewStore creates an empty memory store.
func NewStore() *Store {
	return &Store{
		companions: make(map[string]companion.Companion),
		now:        time.Now,
	}
}

func (s *Store) InsertCompanion(_ context.Context, c companion.Companion) (companion.Companion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = uuid.NewString()
	s.companions[c.ID] = c
	s.order = append(s.order, c.ID)
	return c, nil
}

func (s *Store) FindCompanions(_ context.Context, q companion.CompanionQuery) ([]companion.Companion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]companion.Companion, 0, len(s.order))
	for _, id := range s.order {
		c := s.companions[id]
		if q.Subject != "" && !containsFold(c.Subject, q.Subject) {
			continue
		}
		if q.Topic != "" && !containsFold(c.Topic, q.Topic) && !containsFold(c.Name, q.Topic) {
			continue
		}
		matched = append(matched, c)
	}

	if q.From < 0 || q.From >= len(matched) || q.To < q.From {
		return []companion.Companion{}, nil
	}
	to := len(matched)
	if q.To < to-1 {
		to = q.To + 1
	}
	return matched[q.From:to], nil
}

func (s *Store) CompanionByID(_ context.Context, id string) (companion.Companion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.companions[id]
	if !ok {
		return companion.Companion{}, companion.ErrNotFound
	}
	return c, nil
}

func (s *Store) CompanionsByAuthor(_ context.Context, author string) ([]companion.Companion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]companion.Companion, 0)
	for _, id := range s.order {
		if c := s.companions[id]; c.Author == author {
			list = append(list, c)
		}
	}
	return list, nil
}

func (s *Store) CountCompanionsByAuthor(ctx context.Context, author string) (int, error) {
	list, err := s.CompanionsByAuthor(ctx, author)
	return len(list), err
}

func (s *Store) InsertSession(_ context.Context, e companion.SessionEntry) (companion.SessionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	e.ID = s.nextID
	e.CreatedAt = s.now().UTC()
	s.sessions = append(s.sessions, e)
	return e, nil
}

// SessionCompanions walks the history newest first. Entries whose companion
// no longer exists are skipped.
func (s *Store) SessionCompanions(_ context.Context, q companion.SessionQuery) ([]companion.Companion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]companion.Companion, 0, min(q.Limit, len(s.sessions)))
	for i := len(s.sessions) - 1; i >= 0 && len(list) < q.Limit; i-- {
		e := s.sessions[i]
		if q.UserID != "" && e.UserID != q.UserID {
			continue
		}
		if c, ok := s.companions[e.CompanionID]; ok {
			list = append(list, c)
		}
	}
	return list, nil
}

func (s *Store) InsertBookmark(_ context.Context, b companion.Bookmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bookmarks = append(s.bookmarks, b)
	return nil
}

func (s *Store) DeleteBookmark(_ context.Context, b companion.Bookmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.bookmarks[:0]
	for _, existing := range s.bookmarks {
		if existing != b {
			kept = append(kept, existing)
		}
	}
	s.bookmarks = kept
	return nil
}

func (s *Store) BookmarkedCompanions(_ context.Context, userID string) ([]companion.Companion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]companion.Companion, 0)
	for _, b := range s.bookmarks {
		if b.UserID != userID {
			continue
		}
		if c, ok := s.companions[b.CompanionID]; ok {
			list = append(list, c)
		}
	}
	return list, nil
}

func (s *Store) Ping(context.Context) error { return nil }

// Count returns the number of companions held.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.companions)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

package companion

import (
	"context"
	"errors"

	"github.com/MrSnakeDoc/converso/internal/auth"
	"github.com/MrSnakeDoc/converso/internal/logger"
)

// Service exposes the companion, session history and bookmark operations and
// enforces the creation quota. It keeps no state between calls.
//
// A nil store means the record store is not configured: read operations
// degrade to empty results and write operations return ErrStoreUnavailable.
type Service struct {
	store      RecordStore
	identities auth.Provider
	views      Invalidator
	logger     logger.Logger
}

// New builds the service. store may be nil; views defaults to a no-op.
func New(store RecordStore, identities auth.Provider, views Invalidator, log logger.Logger) *Service {
	if views == nil {
		views = NopInvalidator{}
	}
	if identities == nil {
		identities = auth.ContextProvider{}
	}
	return &Service{
		store:      store,
		identities: identities,
		views:      views,
		logger:     log,
	}
}

// Available reports whether a record store is configured.
func (s *Service) Available() bool {
	return s.store != nil
}

// CreateCompanion inserts a companion authored by the current identity.
func (s *Service) CreateCompanion(ctx context.Context, in CreateCompanionInput) (Result[*Companion], error) {
	if s.store == nil {
		return unavailable[*Companion](nil), ErrStoreUnavailable
	}

	id, err := s.identities.Resolve(ctx)
	if err != nil {
		s.logger.Debug("create companion skipped, no identity", logger.Error(err))
		return empty[*Companion](nil), nil
	}

	created, err := s.store.InsertCompanion(ctx, in.WithAuthor(id.UserID))
	if err != nil {
		s.queryFailed("create_companion", err)
		return queryError[*Companion](nil, err), nil
	}

	return ok(&created), nil
}

// ListCompanions returns one page of the companion library.
func (s *Service) ListCompanions(ctx context.Context, params ListCompanionsParams) Result[[]Companion] {
	if s.store == nil {
		return unavailable([]Companion{})
	}

	from, to := params.Range()
	list, err := s.store.FindCompanions(ctx, CompanionQuery{
		Subject: params.Subject,
		Topic:   params.Topic,
		From:    from,
		To:      to,
	})
	if err != nil {
		s.queryFailed("list_companions", err)
		return queryError([]Companion{}, err)
	}

	return rows(list)
}

// GetCompanion looks up a single companion.
func (s *Service) GetCompanion(ctx context.Context, id string) Result[*Companion] {
	if s.store == nil {
		return unavailable[*Companion](nil)
	}

	c, err := s.store.CompanionByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return empty[*Companion](nil)
	}
	if err != nil {
		s.queryFailed("get_companion", err)
		return queryError[*Companion](nil, err)
	}

	return ok(&c)
}

// AddToSessionHistory records that the current identity opened a session with companionID.
func (s *Service) AddToSessionHistory(ctx context.Context, companionID string) (Result[*SessionEntry], error) {
	if s.store == nil {
		return unavailable[*SessionEntry](nil), ErrStoreUnavailable
	}

	id, err := s.identities.Resolve(ctx)
	if err != nil {
		s.logger.Debug("session history skipped, no identity", logger.Error(err))
		return empty[*SessionEntry](nil), nil
	}

	entry, err := s.store.InsertSession(ctx, SessionEntry{CompanionID: companionID, UserID: id.UserID})
	if err != nil {
		s.queryFailed("add_to_session_history", err)
		return queryError[*SessionEntry](nil, err), nil
	}

	return ok(&entry), nil
}

// RecentSessions returns the companions of the most recent sessions across all users.
func (s *Service) RecentSessions(ctx context.Context, limit int) Result[[]Companion] {
	return s.sessionCompanions(ctx, "recent_sessions", SessionQuery{Limit: limit})
}

// UserSessions returns the companions of userID's most recent sessions.
func (s *Service) UserSessions(ctx context.Context, userID string, limit int) Result[[]Companion] {
	return s.sessionCompanions(ctx, "user_sessions", SessionQuery{UserID: userID, Limit: limit})
}

func (s *Service) sessionCompanions(ctx context.Context, op string, q SessionQuery) Result[[]Companion] {
	if s.store == nil {
		return unavailable([]Companion{})
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}

	list, err := s.store.SessionCompanions(ctx, q)
	if err != nil {
		s.queryFailed(op, err)
		return queryError([]Companion{}, err)
	}

	return rows(list)
}

// UserCompanions returns every companion authored by userID.
func (s *Service) UserCompanions(ctx context.Context, userID string) Result[[]Companion] {
	if s.store == nil {
		return unavailable([]Companion{})
	}

	list, err := s.store.CompanionsByAuthor(ctx, userID)
	if err != nil {
		s.queryFailed("user_companions", err)
		return queryError([]Companion{}, err)
	}

	return rows(list)
}

// NewCompanionPermissions decides whether the current identity may create another companion.
//
// A failing count query allows creation: an unreadable companions table
// must not block the UI.
func (s *Service) NewCompanionPermissions(ctx context.Context) Result[bool] {
	if s.store == nil {
		return unavailable(false)
	}

	id, err := s.identities.Resolve(ctx)
	if err != nil {
		s.logger.Debug("permission check without identity", logger.Error(err))
		return empty(false)
	}

	quota := QuotaFor(id)
	if quota.Unlimited {
		return ok(true)
	}

	count, err := s.store.CountCompanionsByAuthor(ctx, id.UserID)
	if err != nil {
		s.queryFailed("new_companion_permissions", err)
		return queryError(true, err)
	}

	allowed := quota.Allows(count)
	s.logger.Debug("companion quota evaluated",
		logger.String("user_id", id.UserID),
		logger.Bool("has_3_limit", id.Has(Feature3Companion)),
		logger.Bool("has_10_limit", id.Has(Feature10Companion)),
		logger.Int("limit", quota.Limit),
		logger.Int("count", count),
		logger.Bool("allowed", allowed))

	return ok(allowed)
}

// AddBookmark bookmarks companionID for the current identity and invalidates path.
func (s *Service) AddBookmark(ctx context.Context, companionID, path string) (Result[*Bookmark], error) {
	id, err := s.identities.Resolve(ctx)
	if err != nil {
		return empty[*Bookmark](nil), nil
	}
	if s.store == nil {
		return unavailable[*Bookmark](nil), ErrStoreUnavailable
	}

	b := Bookmark{CompanionID: companionID, UserID: id.UserID}
	if err := s.store.InsertBookmark(ctx, b); err != nil {
		s.queryFailed("add_bookmark", err)
		return queryError[*Bookmark](nil, err), nil
	}

	s.invalidate(ctx, path)
	return ok(&b), nil
}

// RemoveBookmark deletes the current identity's bookmark on companionID and invalidates path.
func (s *Service) RemoveBookmark(ctx context.Context, companionID, path string) (Result[*Bookmark], error) {
	id, err := s.identities.Resolve(ctx)
	if err != nil {
		return empty[*Bookmark](nil), nil
	}
	if s.store == nil {
		return unavailable[*Bookmark](nil), ErrStoreUnavailable
	}

	b := Bookmark{CompanionID: companionID, UserID: id.UserID}
	if err := s.store.DeleteBookmark(ctx, b); err != nil {
		s.queryFailed("remove_bookmark", err)
		return queryError[*Bookmark](nil, err), nil
	}

	s.invalidate(ctx, path)
	return ok(&b), nil
}

// BookmarkedCompanions returns the companions userID bookmarked.
func (s *Service) BookmarkedCompanions(ctx context.Context, userID string) Result[[]Companion] {
	if s.store == nil {
		return unavailable([]Companion{})
	}

	list, err := s.store.BookmarkedCompanions(ctx, userID)
	if err != nil {
		s.queryFailed("bookmarked_companions", err)
		return queryError([]Companion{}, err)
	}

	return rows(list)
}

// Ping checks the record store.
func (s *Service) Ping(ctx context.Context) error {
	if s.store == nil {
		return ErrStoreUnavailable
	}
	return s.store.Ping(ctx)
}

// invalidate is best effort: a stale view is refreshed by its TTL.
func (s *Service) invalidate(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.views.Invalidate(ctx, path); err != nil {
		s.logger.Warn("view invalidation failed",
			logger.String("path", path),
			logger.Error(err))
	}
}

func (s *Service) queryFailed(op string, err error) {
	s.logger.Warn("record store query failed",
		logger.String("op", op),
		logger.Error(err))
}

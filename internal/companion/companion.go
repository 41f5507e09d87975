package companion

import (
	"math"
	"time"
)

const (
	// DefaultLimit is the page size used when a caller does not pass one.
	DefaultLimit = 10
	// DefaultPage is the first page; pages are 1-indexed.
	DefaultPage = 1
)

// Companion is a user-authored AI tutor profile.
//
// ID is assigned by the record store on creation. Author is the identity
// that created it and never changes afterwards.
type Companion struct {
	ID       string `json:"id"`
	Author   string `json:"author"`
	Name     string `json:"name"`
	Subject  string `json:"subject"`
	Topic    string `json:"topic"`
	Voice    string `json:"voice"`
	Style    string `json:"style"`
	Duration int    `json:"duration"`
}

// CreateCompanionInput holds the user-supplied fields of a new companion.
type CreateCompanionInput struct {
	Name     string `json:"name"`
	Subject  string `json:"subject"`
	Topic    string `json:"topic"`
	Voice    string `json:"voice"`
	Style    string `json:"style"`
	Duration int    `json:"duration"`
}

// WithAuthor builds the record to insert for the given author.
func (in CreateCompanionInput) WithAuthor(author string) Companion {
	return Companion{
		Author:   author,
		Name:     in.Name,
		Subject:  in.Subject,
		Topic:    in.Topic,
		Voice:    in.Voice,
		Style:    in.Style,
		Duration: in.Duration,
	}
}

// SessionEntry records that a user started or continued a session with a companion.
// Entries are append-only.
type SessionEntry struct {
	ID          int64     `json:"id"`
	CompanionID string    `json:"companion_id"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Bookmark marks a companion for a user. (CompanionID, UserID) is the key.
type Bookmark struct {
	CompanionID string `json:"companion_id"`
	UserID      string `json:"user_id"`
}

// ListCompanionsParams are the browse filters of the companion library.
type ListCompanionsParams struct {
	Limit   int
	Page    int
	Subject string
	Topic   string
}

// normalized applies the default limit and page.
func (p ListCompanionsParams) normalized() ListCompanionsParams {
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	return p
}

// Range returns the inclusive row range [from, to] for the page. A page whose
// offset does not fit in an int yields a range past any stored row.
func (p ListCompanionsParams) Range() (from, to int) {
	p = p.normalized()
	if p.Page > math.MaxInt/p.Limit {
		return math.MaxInt, math.MaxInt
	}
	return (p.Page - 1) * p.Limit, p.Page*p.Limit - 1
}

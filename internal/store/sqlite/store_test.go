package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/MrSnakeDoc/converso/internal/companion"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "converso.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func insert(t *testing.T, s *Store, list ...companion.Companion) []companion.Companion {
	t.Helper()
	out := make([]companion.Companion, 0, len(list))
	for _, c := range list {
		created, err := s.InsertCompanion(context.Background(), c)
		if err != nil {
			t.Fatalf("InsertCompanion() error = %v", err)
		}
		out = append(out, created)
	}
	return out
}

func names(list []companion.Companion) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.Name
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestOpenInMemory(t *testing.T) {
	s, err := Open(context.Background(), "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	insert(t, s, companion.Companion{Author: "u1", Name: "Neura"})
	n, err := s.CountCompanionsByAuthor(context.Background(), "u1")
	if err != nil || n != 1 {
		t.Errorf("CountCompanionsByAuthor() = %d, %v; want 1", n, err)
	}
}

func TestInsertAndGetCompanion(t *testing.T) {
	s := openTest(t)
	want := companion.Companion{
		Author: "u1", Name: "Neura", Subject: "science", Topic: "Neurons",
		Voice: "female", Style: "formal", Duration: 30,
	}
	created := insert(t, s, want)[0]
	if created.ID == "" {
		t.Fatal("InsertCompanion() should assign an ID")
	}

	got, err := s.CompanionByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("CompanionByID() error = %v", err)
	}
	want.ID = created.ID
	if got != want {
		t.Errorf("CompanionByID() = %+v, want %+v", got, want)
	}

	if _, err := s.CompanionByID(context.Background(), "missing"); !errors.Is(err, companion.ErrNotFound) {
		t.Errorf("CompanionByID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestFindCompanions(t *testing.T) {
	s := openTest(t)
	insert(t, s,
		companion.Companion{Name: "Countsy", Subject: "maths", Topic: "Derivatives"},
		companion.Companion{Name: "Verba", Subject: "language", Topic: "Grammar"},
		companion.Companion{Name: "Algebra Al", Subject: "maths", Topic: "Equations"},
		companion.Companion{Name: "Cosmo", Subject: "science", Topic: "algebra of stars"},
	)

	tests := []struct {
		name  string
		query companion.CompanionQuery
		want  []string
	}{
		{name: "no filter", query: companion.CompanionQuery{To: 9}, want: []string{"Countsy", "Verba", "Algebra Al", "Cosmo"}},
		{name: "subject case-insensitive", query: companion.CompanionQuery{Subject: "MATH", To: 9}, want: []string{"Countsy", "Algebra Al"}},
		{name: "topic or name", query: companion.CompanionQuery{Topic: "Algebra", To: 9}, want: []string{"Algebra Al", "Cosmo"}},
		{name: "both filters", query: companion.CompanionQuery{Subject: "maths", Topic: "algebra", To: 9}, want: []string{"Algebra Al"}},
		{name: "range", query: companion.CompanionQuery{From: 1, To: 2}, want: []string{"Verba", "Algebra Al"}},
		{name: "range past end", query: companion.CompanionQuery{From: 10, To: 19}, want: []string{}},
		{name: "percent is literal", query: companion.CompanionQuery{Topic: "%", To: 9}, want: []string{}},
		{name: "underscore is literal", query: companion.CompanionQuery{Subject: "m_ths", To: 9}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.FindCompanions(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("FindCompanions() error = %v", err)
			}
			if !equal(names(got), tt.want) {
				t.Errorf("FindCompanions() = %v, want %v", names(got), tt.want)
			}
		})
	}
}

func TestFindCompanionsLiteralWildcards(t *testing.T) {
	s := openTest(t)
	insert(t, s,
		companion.Companion{Name: "Discounts", Subject: "maths", Topic: "50% off"},
		companion.Companion{Name: "Fifty", Subject: "maths", Topic: "500 off"},
		companion.Companion{Name: "Snake", Subject: "code", Topic: "snake_case"},
		companion.Companion{Name: "Camel", Subject: "code", Topic: "snakeXcase"},
		companion.Companion{Name: "Paths", Subject: "code", Topic: `C:\dir`},
	)

	tests := []struct {
		topic string
		want  []string
	}{
		{topic: "50%", want: []string{"Discounts"}},
		{topic: "snake_", want: []string{"Snake"}},
		{topic: `:\`, want: []string{"Paths"}},
	}
	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			got, err := s.FindCompanions(context.Background(), companion.CompanionQuery{Topic: tt.topic, To: 9})
			if err != nil {
				t.Fatalf("FindCompanions() error = %v", err)
			}
			if !equal(names(got), tt.want) {
				t.Errorf("FindCompanions(%q) = %v, want %v", tt.topic, names(got), tt.want)
			}
		})
	}
}

func TestSessionCompanions(t *testing.T) {
	s := openTest(t)
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	list := insert(t, s,
		companion.Companion{Name: "A"},
		companion.Companion{Name: "B"},
	)
	ctx := context.Background()

	for _, e := range []companion.SessionEntry{
		{CompanionID: list[0].ID, UserID: "u1"},
		{CompanionID: list[1].ID, UserID: "u2"},
		{CompanionID: "deleted-companion", UserID: "u1"},
		{CompanionID: list[1].ID, UserID: "u1"},
	} {
		entry, err := s.InsertSession(ctx, e)
		if err != nil {
			t.Fatalf("InsertSession() error = %v", err)
		}
		if entry.ID == 0 || entry.CreatedAt.IsZero() {
			t.Errorf("InsertSession() = %+v, want id and timestamp", entry)
		}
	}

	all, err := s.SessionCompanions(ctx, companion.SessionQuery{Limit: 10})
	if err != nil {
		t.Fatalf("SessionCompanions() error = %v", err)
	}
	if want := []string{"B", "B", "A"}; !equal(names(all), want) {
		t.Errorf("all sessions = %v, want %v", names(all), want)
	}

	mine, _ := s.SessionCompanions(ctx, companion.SessionQuery{UserID: "u1", Limit: 10})
	if want := []string{"B", "A"}; !equal(names(mine), want) {
		t.Errorf("u1 sessions = %v, want %v", names(mine), want)
	}

	one, _ := s.SessionCompanions(ctx, companion.SessionQuery{Limit: 1})
	if want := []string{"B"}; !equal(names(one), want) {
		t.Errorf("limited sessions = %v, want %v", names(one), want)
	}
}

func TestBookmarks(t *testing.T) {
	s := openTest(t)
	list := insert(t, s, companion.Companion{Name: "A"}, companion.Companion{Name: "B"})
	ctx := context.Background()

	for _, b := range []companion.Bookmark{
		{CompanionID: list[0].ID, UserID: "u1"},
		{CompanionID: list[1].ID, UserID: "u1"},
		{CompanionID: list[1].ID, UserID: "u2"},
	} {
		if err := s.InsertBookmark(ctx, b); err != nil {
			t.Fatalf("InsertBookmark() error = %v", err)
		}
	}

	got, _ := s.BookmarkedCompanions(ctx, "u1")
	if want := []string{"A", "B"}; !equal(names(got), want) {
		t.Errorf("u1 bookmarks = %v, want %v", names(got), want)
	}

	if err := s.DeleteBookmark(ctx, companion.Bookmark{CompanionID: list[0].ID, UserID: "u1"}); err != nil {
		t.Fatalf("DeleteBookmark() error = %v", err)
	}
	got, _ = s.BookmarkedCompanions(ctx, "u1")
	if want := []string{"B"}; !equal(names(got), want) {
		t.Errorf("u1 bookmarks after delete = %v, want %v", names(got), want)
	}

	other, _ := s.BookmarkedCompanions(ctx, "u2")
	if want := []string{"B"}; !equal(names(other), want) {
		t.Errorf("u2 bookmarks = %v, want %v", names(other), want)
	}
}

func TestCompanionsByAuthor(t *testing.T) {
	s := openTest(t)
	insert(t, s,
		companion.Companion{Author: "u1", Name: "A"},
		companion.Companion{Author: "u2", Name: "B"},
		companion.Companion{Author: "u1", Name: "C"},
	)

	got, err := s.CompanionsByAuthor(context.Background(), "u1")
	if err != nil {
		t.Fatalf("CompanionsByAuthor() error = %v", err)
	}
	if want := []string{"A", "C"}; !equal(names(got), want) {
		t.Errorf("CompanionsByAuthor() = %v, want %v", names(got), want)
	}

	n, _ := s.CountCompanionsByAuthor(context.Background(), "u1")
	if n != 2 {
		t.Errorf("CountCompanionsByAuthor() = %d, want 2", n)
	}
}

func TestQueryErrorsAreWrapped(t *testing.T) {
	s := openTest(t)
	if _, err := s.db.Exec("DROP TABLE companions"); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	if _, err := s.FindCompanions(context.Background(), companion.CompanionQuery{To: 9}); err == nil {
		t.Error("FindCompanions() should fail without the companions table")
	}
	if _, err := s.CountCompanionsByAuthor(context.Background(), "u1"); err == nil {
		t.Error("CountCompanionsByAuthor() should fail without the companions table")
	}
	if _, err := s.CompanionByID(context.Background(), "x"); err == nil || errors.Is(err, companion.ErrNotFound) {
		t.Errorf("CompanionByID() error = %v, want a query error", err)
	}
}

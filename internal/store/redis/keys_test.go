package redis

import (
	"path"
	"testing"
)

func TestViewKey(t *testing.T) {
	got := ViewKey("/api/users/u1/bookmarks", "u1", "limit=5")
	want := "converso:view:/api/users/u1/bookmarks:u1:limit=5"
	if got != want {
		t.Errorf("ViewKey() = %q, want %q", got, want)
	}
}

func TestViewPatterns(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		key      string
		wantHits bool
	}{
		{name: "same view", path: "/api/users/u1/bookmarks", key: ViewKey("/api/users/u1/bookmarks", "u1", ""), wantHits: true},
		{name: "trailing slash", path: "/api/users/u1/bookmarks/", key: ViewKey("/api/users/u1/bookmarks", "u2", "x=1"), wantHits: true},
		{name: "nested view", path: "/api/users/u1", key: ViewKey("/api/users/u1/sessions", "u1", ""), wantHits: true},
		{name: "sibling user", path: "/api/users/u1", key: ViewKey("/api/users/u10/sessions", "u1", ""), wantHits: false},
		{name: "other view", path: "/api/sessions/recent", key: ViewKey("/api/users/u1/sessions", "u1", ""), wantHits: false},
		{name: "glob characters are literal", path: "/api/users/*", key: ViewKey("/api/users/u1/sessions", "u1", ""), wantHits: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := false
			for _, p := range ViewPatterns(tt.path) {
				// path.Match agrees with Redis globbing while the key tail has no slash.
				if ok, err := path.Match(p, tt.key); err == nil && ok {
					hit = true
				}
			}
			if hit != tt.wantHits {
				t.Errorf("patterns %v match %q = %v, want %v", ViewPatterns(tt.path), tt.key, hit, tt.wantHits)
			}
		})
	}
}

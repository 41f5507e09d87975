package companion

import (
	"math"
	"testing"

	"github.com/MrSnakeDoc/converso/internal/auth"
)

func TestQuotaFor(t *testing.T) {
	tests := []struct {
		name string
		id   auth.Identity
		want Quota
	}{
		{name: "pro", id: auth.Identity{UserID: "u", Plan: "pro"}, want: Quota{Unlimited: true}},
		{name: "pro with features", id: auth.Identity{UserID: "u", Plan: "pro", Features: []string{"3_companion_limit"}}, want: Quota{Unlimited: true}},
		{name: "3 limit", id: auth.Identity{UserID: "u", Features: []string{"3_companion_limit"}}, want: Quota{Limit: 3}},
		{name: "10 limit", id: auth.Identity{UserID: "u", Features: []string{"10_companion_limit"}}, want: Quota{Limit: 10}},
		{name: "both features", id: auth.Identity{UserID: "u", Features: []string{"10_companion_limit", "3_companion_limit"}}, want: Quota{Limit: 3}},
		{name: "nothing", id: auth.Identity{UserID: "u"}, want: Quota{Limit: fallbackLimit}},
		{name: "unrelated feature", id: auth.Identity{UserID: "u", Features: []string{"voice_cloning"}}, want: Quota{Limit: fallbackLimit}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QuotaFor(tt.id); got != tt.want {
				t.Errorf("QuotaFor() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestQuotaAllows(t *testing.T) {
	if !(Quota{Unlimited: true}).Allows(1 << 20) {
		t.Error("unlimited quota should always allow")
	}
	q := Quota{Limit: 3}
	if !q.Allows(2) {
		t.Error("Allows(2) with limit 3 should be true")
	}
	if q.Allows(3) {
		t.Error("Allows(3) with limit 3 should be false")
	}
}

func TestListCompanionsParamsRange(t *testing.T) {
	tests := []struct {
		name     string
		params   ListCompanionsParams
		from, to int
	}{
		{name: "second page", params: ListCompanionsParams{Limit: 10, Page: 2}, from: 10, to: 19},
		{name: "defaults", params: ListCompanionsParams{}, from: 0, to: 9},
		{name: "largest limit", params: ListCompanionsParams{Limit: math.MaxInt, Page: 1}, from: 0, to: math.MaxInt - 1},
		{name: "offset overflows", params: ListCompanionsParams{Limit: 10, Page: math.MaxInt}, from: math.MaxInt, to: math.MaxInt},
		{name: "product overflows", params: ListCompanionsParams{Limit: math.MaxInt, Page: 2}, from: math.MaxInt, to: math.MaxInt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := tt.params.Range()
			if from != tt.from || to != tt.to {
				t.Errorf("Range() = (%d, %d), want (%d, %d)", from, to, tt.from, tt.to)
			}
			if from < 0 || to < from {
				t.Errorf("Range() = (%d, %d) is not a valid range", from, to)
			}
		})
	}
}

func TestStrict(t *testing.T) {
	if _, err := unavailable(false).Strict(); err != ErrStoreUnavailable {
		t.Errorf("Strict() on unavailable = %v, want ErrStoreUnavailable", err)
	}
	if _, err := empty(0).Strict(); err != nil {
		t.Errorf("Strict() on empty = %v, want nil", err)
	}
	if StatusQueryError.String() != "query_error" {
		t.Errorf("String() = %q", StatusQueryError.String())
	}
}

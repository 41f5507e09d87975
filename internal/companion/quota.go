package companion

import "github.com/MrSnakeDoc/converso/internal/auth"

// Entitlements that size the creation quota.
var (
	PlanPro            = auth.Plan("pro")
	Feature3Companion  = auth.Feature("3_companion_limit")
	Feature10Companion = auth.Feature("10_companion_limit")
)

// fallbackLimit is granted to identities with no recognized tier.
const fallbackLimit = 1

// Quota is the creation allowance of an identity.
type Quota struct {
	Unlimited bool
	Limit     int
}

// Allows reports whether an identity owning count companions may create another.
func (q Quota) Allows(count int) bool {
	if q.Unlimited {
		return true
	}
	return count < q.Limit
}

// QuotaFor sizes the quota of id. The plan check wins over feature checks and
// the first matching feature wins.
func QuotaFor(id auth.Identity) Quota {
	if id.Has(PlanPro) {
		return Quota{Unlimited: true}
	}

	limit := 0
	switch {
	case id.Has(Feature3Companion):
		limit = 3
	case id.Has(Feature10Companion):
		limit = 10
	}

	if limit == 0 {
		limit = fallbackLimit
	}
	return Quota{Limit: limit}
}

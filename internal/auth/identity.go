package auth

import (
	"context"
	"errors"
)

// ErrIdentityMissing is returned when no authenticated identity is attached to the request.
var ErrIdentityMissing = errors.New("identity missing")

// EntitlementKind distinguishes plan checks from feature checks.
type EntitlementKind int

const (
	KindPlan EntitlementKind = iota
	KindFeature
)

// Entitlement is a boolean capability check against an identity.
type Entitlement struct {
	Kind EntitlementKind
	Name string
}

// Plan builds a plan entitlement, ex: Plan("pro").
func Plan(name string) Entitlement { return Entitlement{Kind: KindPlan, Name: name} }

// Feature builds a feature entitlement, ex: Feature("3_companion_limit").
func Feature(name string) Entitlement { return Entitlement{Kind: KindFeature, Name: name} }

// Identity is the authenticated caller as described by the identity provider.
type Identity struct {
	UserID       string
	SessionToken string
	Plan         string
	Features     []string
}

// Has reports whether the identity holds the entitlement.
func (i Identity) Has(e Entitlement) bool {
	switch e.Kind {
	case KindPlan:
		return e.Name != "" && i.Plan == e.Name
	case KindFeature:
		for _, f := range i.Features {
			if f == e.Name {
				return true
			}
		}
	}
	return false
}

// Provider resolves the identity performing the current operation.
type Provider interface {
	Resolve(ctx context.Context) (Identity, error)
}

type ctxKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity stored by WithIdentity.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok || id.UserID == "" {
		return Identity{}, false
	}
	return id, true
}

// ContextProvider resolves identities placed in the request context by the HTTP middleware.
type ContextProvider struct{}

func (ContextProvider) Resolve(ctx context.Context) (Identity, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return Identity{}, ErrIdentityMissing
	}
	return id, nil
}

// Package authz implements the role gate and ownership guard as a single
// table-driven policy evaluator. Each operation declares its Policy once;
// routes and services evaluate it through Authorize and AuthorizeOwner
// instead of scattering role checks across route declarations.
package authz

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/pkg/errors"
	"github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/pkg/middleware"

	"github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/internal/domain"
)

// Identity is the authenticated caller: who they are and what category of
// caller they are. It is derived from verified token claims, never from
// request bodies.
type Identity struct {
	ID   string
	Role domain.Role
}

// Policy declares the authorization requirements of one operation.
type Policy struct {
	// Roles is the required-role set. Empty means any authenticated caller.
	Roles []domain.Role
}

// Allows reports whether the given role is a member of the policy's
// required-role set. Comparison is case-insensitive.
func (p Policy) Allows(role domain.Role) bool {
	if len(p.Roles) == 0 {
		return true
	}
	for _, r := range p.Roles {
		if strings.EqualFold(string(r), string(role)) {
			return true
		}
	}
	return false
}

// Authorize applies the role gate: the identity must be present and its role
// must be in the policy's required set. Denials are returned, never silently
// allowed.
func Authorize(id Identity, p Policy) error {
	if id.ID == "" {
		return apperrors.Unauthorized("missing caller identity")
	}
	if !p.Allows(id.Role) {
		return apperrors.Forbidden(fmt.Sprintf("role %s is not permitted for this operation", id.Role))
	}
	return nil
}

// AuthorizeOwner applies the ownership guard for seller-scoped resources:
// the caller must own the resource, or hold one of the override roles
// (e.g. SuperAdmin, ContentAdmin for moderation deletes). It must be
// evaluated after fetching the current resource and before any mutation
// is persisted.
func AuthorizeOwner(id Identity, resourceOwnerID string, overrides ...domain.Role) error {
	if id.ID == "" {
		return apperrors.Unauthorized("missing caller identity")
	}
	if id.ID == resourceOwnerID {
		return nil
	}
	for _, r := range overrides {
		if strings.EqualFold(string(r), string(id.Role)) {
			return nil
		}
	}
	return apperrors.Forbidden("caller does not own this resource")
}

// FromContext builds the caller identity from the claims stored by the auth
// middleware. Returns Unauthenticated when no verified identity is present
// or the stored role is outside the closed enum.
func FromContext(ctx context.Context) (Identity, error) {
	userID := middleware.UserIDFromContext(ctx)
	if userID == "" {
		return Identity{}, apperrors.Unauthorized("missing caller identity")
	}
	role, err := domain.ParseRole(middleware.RoleFromContext(ctx))
	if err != nil {
		return Identity{}, apperrors.Unauthorized("invalid caller role")
	}
	return Identity{ID: userID, Role: role}, nil
}

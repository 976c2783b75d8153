package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iwork-app/iwork-backend/internal/domain"
	"github.com/iwork-app/iwork-backend/internal/port"
)

// Action names a privileged operation gated by role. Roles are matched
// exactly against the policy table; admin does not imply moderator.
type Action string

const (
	ActionManageCompanies Action = "companies:manage"
	ActionModerateReviews Action = "reviews:moderate"
	ActionViewAudit       Action = "audit:view"
)

var policy = map[Action]domain.Role{
	ActionManageCompanies: domain.RoleAdmin,
	ActionModerateReviews: domain.RoleModerator,
	ActionViewAudit:       domain.RoleAdmin,
}

// RoleAllowed reports whether role may perform action. Unknown actions are
// always denied.
func RoleAllowed(role domain.Role, action Action) bool {
	required, ok := policy[action]
	return ok && role == required
}

// Authz resolves ownership-based write access on resources.
type Authz struct {
	companies port.CompanyStore
}

// NewAuthz returns an ownership resolver backed by the company store.
func NewAuthz(companies port.CompanyStore) *Authz {
	return &Authz{companies: companies}
}

// CanMutate reports whether actor may modify a resource owned by ownerUserID
// and attached to companyID. Admins may always; the resource owner may; the
// owner of the attached company may. companyID may be empty for resources not
// attached to a company.
func (a *Authz) CanMutate(ctx context.Context, actor *domain.User, ownerUserID, companyID string) (bool, error) {
	if actor.Role == domain.RoleAdmin {
		return true, nil
	}
	if ownerUserID != "" && actor.ID == ownerUserID {
		return true, nil
	}
	if companyID == "" {
		return false, nil
	}
	company, err := a.companies.GetCompanyByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, port.ErrCompanyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("resolve company owner: %w", err)
	}
	return company.OwnerUserID != nil && *company.OwnerUserID == actor.ID, nil
}

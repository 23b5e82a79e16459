package auth

import (
	"github.com/ukydev/marine-pms/internal/models"
)

// Policy maps each role to the actions it may perform.
type Policy struct {
	grants map[models.Role]map[models.Action]bool
}

// NewPolicy builds a policy from explicit grants. Roles not listed may do
// nothing.
func NewPolicy(grants map[models.Role][]models.Action) *Policy {
	p := &Policy{grants: make(map[models.Role]map[models.Action]bool, len(grants))}
	for role, actions := range grants {
		set := make(map[models.Action]bool, len(actions))
		for _, a := range actions {
			set[a] = true
		}
		p.grants[role] = set
	}
	return p
}

// DefaultPolicy returns the fleet's standard role grants. The activity
// trail is for developers only.
func DefaultPolicy() *Policy {
	admin := except(models.AllActions, models.ActionViewActivity)
	shore := except(admin, models.ActionManageUsers)
	crew := []models.Action{
		models.ActionViewPMS,
		models.ActionRecordRunningHours,
		models.ActionManageWorkOrders,
		models.ActionViewAnalytics,
		models.ActionExportReports,
		models.ActionViewInventory,
	}
	return NewPolicy(map[models.Role][]models.Action{
		models.RoleDeveloper:     models.AllActions,
		models.RoleAdmin:         admin,
		models.RoleShoreManager:  shore,
		models.RoleCaptain:       crew,
		models.RoleChiefEngineer: crew,
		models.RoleEngineer:      crew,
		models.RoleCustomer:      {models.ActionViewPMS},
	})
}

func except(actions []models.Action, drop models.Action) []models.Action {
	out := make([]models.Action, 0, len(actions))
	for _, a := range actions {
		if a != drop {
			out = append(out, a)
		}
	}
	return out
}

// Allows reports whether role may perform action.
func (p *Policy) Allows(role models.Role, action models.Action) bool {
	return p.grants[role][action]
}

// Actions lists the actions granted to role in canonical order.
func (p *Policy) Actions(role models.Role) []models.Action {
	out := make([]models.Action, 0)
	for _, a := range models.AllActions {
		if p.grants[role][a] {
			out = append(out, a)
		}
	}
	return out
}

// CanAccessVessel reports whether the user may see data of vesselID. Crew
// members assigned to a vessel are limited to it; everyone else sees the
// whole fleet.
func CanAccessVessel(claims *models.Claims, vesselID string) bool {
	if claims == nil {
		return false
	}
	if !models.IsCrew(claims.Role) || claims.VesselID == "" {
		return true
	}
	return claims.VesselID == vesselID
}

// ScopeVessel resolves the vessel filter of a query. Crew members assigned
// to a vessel who ask for no vessel get their own; ok is false when the
// requested vessel is off limits.
func ScopeVessel(claims *models.Claims, requested string) (vesselID string, ok bool) {
	if requested == "" {
		if claims != nil && models.IsCrew(claims.Role) && claims.VesselID != "" {
			return claims.VesselID, true
		}
		return "", true
	}
	if !CanAccessVessel(claims, requested) {
		return "", false
	}
	return requested, true
}

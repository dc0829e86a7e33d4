package session

import (
	"strings"

	"lumora.life/internal/access"
)

// Route tables are static per domain: each role maps to the route prefixes it
// may navigate and to the landing route it falls back to. Absence means deny,
// mirroring the permission table.

var routePrefixes = map[access.Role][]string{
	// Consumer portal.
	access.RolePrincipal: {
		"/app/dashboard", "/app/journeys", "/app/vault", "/app/intents",
		"/app/privacy", "/app/invites", "/app/messages", "/app/settings",
	},
	access.RoleSpouse: {
		"/app/dashboard", "/app/journeys", "/app/vault", "/app/intents",
		"/app/messages", "/app/settings",
	},
	access.RoleLegacyHeir: {
		"/app/dashboard", "/app/journeys", "/app/vault", "/app/messages",
	},
	access.RoleAdvisor: {
		"/app/advisor", "/app/journeys", "/app/intents", "/app/messages",
	},

	// Institutional portal.
	access.RoleRelationshipManager: {
		"/institution/clients", "/institution/invites", "/institution/messages",
	},
	access.RolePrivateBanker: {
		"/institution/clients", "/institution/intents", "/institution/risk",
		"/institution/messages",
	},
	access.RoleFamilyOfficeDirector: {
		"/institution",
	},
	access.RoleComplianceOfficer: {
		"/institution/risk", "/institution/audit", "/institution/clients",
	},
	access.RoleInstitutionalAdmin: {
		"/institution",
	},
	access.RoleUHNIPortal: {
		"/institution/portal",
	},

	// Admin portal.
	access.RoleSuperAdmin: {
		"/admin",
	},
}

var defaultRoutes = map[access.Role]string{
	access.RolePrincipal:            "/app/dashboard",
	access.RoleSpouse:               "/app/dashboard",
	access.RoleLegacyHeir:           "/app/dashboard",
	access.RoleAdvisor:              "/app/advisor",
	access.RoleRelationshipManager:  "/institution/clients",
	access.RolePrivateBanker:        "/institution/clients",
	access.RoleFamilyOfficeDirector: "/institution/overview",
	access.RoleComplianceOfficer:    "/institution/risk",
	access.RoleInstitutionalAdmin:   "/institution/admin",
	access.RoleUHNIPortal:           "/institution/portal",
	access.RoleSuperAdmin:           "/admin/overview",
}

// CanAccessRoute reports whether role may navigate to path. Prefix match on
// path segment boundaries; unknown roles deny everything.
func CanAccessRoute(role access.Role, path string) bool {
	prefixes, ok := routePrefixes[role]
	if !ok {
		return false
	}
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// DefaultRouteFor returns the landing route of a role, or "/" for a role the
// tables do not know.
func DefaultRouteFor(role access.Role) string {
	if route, ok := defaultRoutes[role]; ok {
		return route
	}
	return "/"
}

// GuardDecision is the outcome of a route guard check.
type GuardDecision struct {
	Allowed bool
	// Fallback is the route to navigate back to after a denial.
	Fallback string
}

// Guard gates navigation for a single domain's subtree. One guard per domain
// can coexist in a shared layout: a guard whose domain does not match the
// session's active domain passes through untouched, as does a session whose
// role is not yet resolved (mid-authentication must not flash a denial).
type Guard struct {
	Domain access.Domain
}

// Check evaluates path against the guard's domain for the given session.
func (g Guard) Check(sess *Context, path string) GuardDecision {
	if sess == nil {
		return GuardDecision{Allowed: true}
	}
	role, ok := sess.ActiveRole()
	if !ok {
		return GuardDecision{Allowed: true}
	}
	if sess.ActiveDomain() != g.Domain {
		return GuardDecision{Allowed: true}
	}
	if CanAccessRoute(role, path) {
		return GuardDecision{Allowed: true}
	}
	return GuardDecision{Allowed: false, Fallback: DefaultRouteFor(role)}
}

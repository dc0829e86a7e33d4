package session

import (
	"testing"

	"lumora.life/internal/access"
)

// Every role must at minimum reach its own landing route.
func TestEveryRoleReachesItsDefaultRoute(t *testing.T) {
	for _, domain := range access.DomainPriority {
		for _, role := range access.RolesForDomain(domain) {
			route := DefaultRouteFor(role)
			if route == "/" {
				t.Fatalf("role %s has no default route", role)
			}
			if !CanAccessRoute(role, route) {
				t.Fatalf("role %s cannot access its default route %s", role, route)
			}
		}
	}
}

func TestCanAccessRoute(t *testing.T) {
	cases := []struct {
		role  access.Role
		path  string
		allow bool
	}{
		{access.RolePrincipal, "/app/vault/items/42", true},
		{access.RolePrincipal, "/admin/overview", false},
		{access.RoleSpouse, "/app/privacy", false},
		{access.RoleLegacyHeir, "/app/intents", false},
		{access.RoleAdvisor, "/app/advisor", true},
		{access.RoleRelationshipManager, "/institution/risk", false},
		{access.RoleComplianceOfficer, "/institution/audit/reports", true},
		{access.RoleInstitutionalAdmin, "/institution/admin/members", true},
		{access.RoleUHNIPortal, "/institution/clients", false},
		{access.RoleSuperAdmin, "/admin/institutions/7", true},
		{access.RoleSuperAdmin, "/institution/clients", false},
		// Prefix matching must respect segment boundaries.
		{access.RoleUHNIPortal, "/institution/portalish", false},
	}
	for _, tc := range cases {
		if got := CanAccessRoute(tc.role, tc.path); got != tc.allow {
			t.Fatalf("CanAccessRoute(%s, %s)=%v, want %v", tc.role, tc.path, got, tc.allow)
		}
	}
}

func TestCanAccessRouteUnknownRole(t *testing.T) {
	if CanAccessRoute("ghost", "/app/dashboard") {
		t.Fatal("unknown role must be denied")
	}
	if DefaultRouteFor("ghost") != "/" {
		t.Fatal("unknown role should fall back to /")
	}
}

func TestGuardDeniesWithFallback(t *testing.T) {
	sess := NewContext(access.RoleAssignment{Consumer: access.RoleLegacyHeir})
	if err := sess.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	guard := Guard{Domain: access.DomainConsumer}
	decision := guard.Check(sess, "/app/privacy")
	if decision.Allowed {
		t.Fatal("expected denial")
	}
	if decision.Fallback != "/app/dashboard" {
		t.Fatalf("unexpected fallback: %s", decision.Fallback)
	}
}

// A guard for another domain must not interfere with the active domain's
// routes, so guards can coexist in a shared layout.
func TestGuardPassesThroughForeignDomain(t *testing.T) {
	sess := NewContext(access.RoleAssignment{Consumer: access.RolePrincipal})
	if err := sess.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	guard := Guard{Domain: access.DomainAdmin}
	if d := guard.Check(sess, "/admin/overview"); !d.Allowed {
		t.Fatal("foreign-domain guard must pass through")
	}
}

// Mid-authentication there is no resolved role yet; the guard must not flash
// a denial state.
func TestGuardPassesThroughUnresolvedRole(t *testing.T) {
	guard := Guard{Domain: access.DomainConsumer}
	if d := guard.Check(NewContext(access.RoleAssignment{}), "/app/vault"); !d.Allowed {
		t.Fatal("unresolved role must pass through")
	}
	if d := guard.Check(nil, "/app/vault"); !d.Allowed {
		t.Fatal("nil session must pass through")
	}
}

// SuperAdmin is admin-scoped only: under an institutional context it holds no
// institutional routes.
func TestSuperAdminHasNoInstitutionalRoutes(t *testing.T) {
	if CanAccessRoute(access.RoleSuperAdmin, "/institution/overview") {
		t.Fatal("super_admin must not access institutional routes")
	}
}

package access

import "testing"

func TestHasPermissionGrantedPairs(t *testing.T) {
	cases := []struct {
		role     Role
		action   Action
		resource Resource
	}{
		{RolePrincipal, ActionExport, ResourceVault},
		{RolePrincipal, ActionApprove, ResourceIntent},
		{RoleSpouse, ActionWrite, ResourceJourney},
		{RoleLegacyHeir, ActionRead, ResourceVault},
		{RoleAdvisor, ActionWrite, ResourceIntent},
		{RoleRelationshipManager, ActionWrite, ResourceClient},
		{RolePrivateBanker, ActionApprove, ResourceIntent},
		{RoleFamilyOfficeDirector, ActionApprove, ResourceContract},
		{RoleComplianceOfficer, ActionExport, ResourceAudit},
		{RoleInstitutionalAdmin, ActionConfigure, ResourceInstitution},
		{RoleUHNIPortal, ActionWrite, ResourcePrivacy},
		{RoleSuperAdmin, ActionDelete, ResourceRevenue},
	}
	for _, tc := range cases {
		if !HasPermission(tc.role, tc.action, tc.resource) {
			t.Fatalf("expected %s to allow %s on %s", tc.role, tc.action, tc.resource)
		}
	}
}

func TestHasPermissionDenyByDefault(t *testing.T) {
	cases := []struct {
		role     Role
		action   Action
		resource Resource
	}{
		{RoleSpouse, ActionDelete, ResourceVault},
		{RoleLegacyHeir, ActionWrite, ResourceJourney},
		{RoleAdvisor, ActionExport, ResourceVault},
		{RoleRelationshipManager, ActionApprove, ResourceIntent},
		{RoleComplianceOfficer, ActionWrite, ResourceClient},
		{RoleUHNIPortal, ActionRead, ResourceClient},
		{RolePrincipal, ActionRead, ResourceRevenue},
	}
	for _, tc := range cases {
		if HasPermission(tc.role, tc.action, tc.resource) {
			t.Fatalf("expected %s to deny %s on %s", tc.role, tc.action, tc.resource)
		}
	}
}

func TestHasPermissionUnknownInputsDeny(t *testing.T) {
	if HasPermission(Role("intruder"), ActionRead, ResourceVault) {
		t.Fatal("unknown role must deny")
	}
	if HasPermission(RolePrincipal, Action("OBLITERATE"), ResourceVault) {
		t.Fatal("unknown action must deny")
	}
	if HasPermission(RolePrincipal, ActionRead, Resource("starship")) {
		t.Fatal("unknown resource must deny")
	}
	if HasPermission("", "", "") {
		t.Fatal("zero values must deny")
	}
}

// Every declared role must have an explicit grant table entry: a role whose
// entry is missing would be silently denied everywhere, which reads like a
// table gap rather than a decision.
func TestGrantTableCoversEveryRole(t *testing.T) {
	for _, domain := range DomainPriority {
		for _, role := range RolesForDomain(domain) {
			if len(GrantsFor(role)) == 0 {
				t.Fatalf("role %s has no grants defined", role)
			}
		}
	}
}

func TestGrantTableUsesOnlyKnownActionsAndResources(t *testing.T) {
	knownActions := make(map[Action]struct{}, len(Actions))
	for _, a := range Actions {
		knownActions[a] = struct{}{}
	}
	knownResources := make(map[Resource]struct{}, len(Resources))
	for _, r := range Resources {
		knownResources[r] = struct{}{}
	}
	for role := range grantTable {
		if _, ok := DomainOf(role); !ok {
			t.Fatalf("grant table contains undeclared role %s", role)
		}
		for _, g := range GrantsFor(role) {
			if _, ok := knownActions[g.Action]; !ok {
				t.Fatalf("role %s grants unknown action %s", role, g.Action)
			}
			if _, ok := knownResources[g.Resource]; !ok {
				t.Fatalf("role %s grants unknown resource %s", role, g.Resource)
			}
		}
	}
}

func TestSuperAdminHoldsEveryGrant(t *testing.T) {
	for _, r := range Resources {
		for _, a := range Actions {
			if !HasPermission(RoleSuperAdmin, a, r) {
				t.Fatalf("super_admin missing %s on %s", a, r)
			}
		}
	}
}

// SuperAdmin grants live in the admin domain only; evaluating an
// institutional role must never expose them.
func TestNoCrossDomainLeakage(t *testing.T) {
	if HasPermission(RoleUHNIPortal, ActionConfigure, ResourceInstitution) {
		t.Fatal("uhni_portal gained institutional admin grant")
	}
	for _, role := range RolesForDomain(DomainInstitutional) {
		if role == RoleInstitutionalAdmin {
			continue
		}
		if HasPermission(role, ActionConfigure, ResourceInstitution) {
			t.Fatalf("role %s unexpectedly configures institution", role)
		}
	}
}

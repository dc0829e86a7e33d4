package access

import "testing"

func TestDomainOf(t *testing.T) {
	cases := map[Role]Domain{
		RolePrincipal:     DomainConsumer,
		RoleAdvisor:       DomainConsumer,
		RolePrivateBanker: DomainInstitutional,
		RoleUHNIPortal:    DomainInstitutional,
		RoleSuperAdmin:    DomainAdmin,
	}
	for role, want := range cases {
		got, ok := DomainOf(role)
		if !ok || got != want {
			t.Fatalf("DomainOf(%s)=%s ok=%v, want %s", role, got, ok, want)
		}
	}
	if _, ok := DomainOf("ghost"); ok {
		t.Fatal("unknown role should not resolve to a domain")
	}
}

func TestRoleAssignmentDomains(t *testing.T) {
	a := RoleAssignment{Consumer: RolePrincipal, Admin: RoleSuperAdmin}
	domains := a.Domains()
	if len(domains) != 2 || domains[0] != DomainConsumer || domains[1] != DomainAdmin {
		t.Fatalf("unexpected domains: %v", domains)
	}

	if !(RoleAssignment{}).Empty() {
		t.Fatal("zero assignment should be empty")
	}
	if a.Empty() {
		t.Fatal("populated assignment reported empty")
	}
}

func TestRoleAssignmentRoleFor(t *testing.T) {
	a := RoleAssignment{Institutional: RoleComplianceOfficer}
	role, ok := a.RoleFor(DomainInstitutional)
	if !ok || role != RoleComplianceOfficer {
		t.Fatalf("RoleFor institutional = %s ok=%v", role, ok)
	}
	if _, ok := a.RoleFor(DomainConsumer); ok {
		t.Fatal("consumer domain should not be held")
	}
	if _, ok := a.RoleFor(Domain("galactic")); ok {
		t.Fatal("unknown domain should not be held")
	}
}

func TestRoleAssignmentValidate(t *testing.T) {
	good := RoleAssignment{Consumer: RoleSpouse, Institutional: RoleUHNIPortal}
	if err := good.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Institutional role placed into the consumer field.
	bad := RoleAssignment{Consumer: RolePrivateBanker}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected validation error for misplaced role")
	}
	unknown := RoleAssignment{Admin: "emperor"}
	if err := unknown.Validate(); err == nil {
		t.Fatal("expected validation error for unknown role")
	}
}

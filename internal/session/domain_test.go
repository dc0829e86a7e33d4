package session

import (
	"errors"
	"testing"

	"lumora.life/internal/access"
)

func TestResolveInitialDomainPriority(t *testing.T) {
	cases := []struct {
		name       string
		assignment access.RoleAssignment
		want       access.Domain
	}{
		{
			name:       "consumer wins over institutional",
			assignment: access.RoleAssignment{Consumer: access.RolePrincipal, Institutional: access.RolePrivateBanker},
			want:       access.DomainConsumer,
		},
		{
			name:       "institutional wins over admin",
			assignment: access.RoleAssignment{Institutional: access.RoleComplianceOfficer, Admin: access.RoleSuperAdmin},
			want:       access.DomainInstitutional,
		},
		{
			name:       "admin only",
			assignment: access.RoleAssignment{Admin: access.RoleSuperAdmin},
			want:       access.DomainAdmin,
		},
	}
	for _, tc := range cases {
		got, err := ResolveInitialDomain(tc.assignment)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestResolveInitialDomainEmptyAssignment(t *testing.T) {
	if _, err := ResolveInitialDomain(access.RoleAssignment{}); !errors.Is(err, ErrNoDomainHeld) {
		t.Fatalf("expected ErrNoDomainHeld, got %v", err)
	}
}

func TestContextInitIsIdempotent(t *testing.T) {
	sess := NewContext(access.RoleAssignment{Consumer: access.RolePrincipal, Admin: access.RoleSuperAdmin})
	if err := sess.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if sess.ActiveDomain() != access.DomainConsumer {
		t.Fatalf("unexpected initial domain: %s", sess.ActiveDomain())
	}

	if _, err := sess.Switch(access.DomainAdmin); err != nil {
		t.Fatalf("switch: %v", err)
	}
	// A second bootstrap must not clobber the switch.
	if err := sess.Init(); err != nil {
		t.Fatalf("re-init: %v", err)
	}
	if sess.ActiveDomain() != access.DomainAdmin {
		t.Fatalf("re-init overwrote active domain: %s", sess.ActiveDomain())
	}
}

func TestContextSwitchRejectsUnheldDomain(t *testing.T) {
	sess := NewContext(access.RoleAssignment{Consumer: access.RolePrincipal})
	if err := sess.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := sess.Switch(access.DomainInstitutional); !errors.Is(err, ErrDomainNotHeld) {
		t.Fatalf("expected ErrDomainNotHeld, got %v", err)
	}
	if sess.ActiveDomain() != access.DomainConsumer {
		t.Fatalf("rejected switch mutated domain: %s", sess.ActiveDomain())
	}
}

func TestContextSwitchReturnsLandingRoute(t *testing.T) {
	sess := NewContext(access.RoleAssignment{Consumer: access.RoleAdvisor, Institutional: access.RoleUHNIPortal})
	if err := sess.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	route, err := sess.Switch(access.DomainInstitutional)
	if err != nil {
		t.Fatalf("switch: %v", err)
	}
	if route != "/institution/portal" {
		t.Fatalf("unexpected landing route: %s", route)
	}
	role, ok := sess.ActiveRole()
	if !ok || role != access.RoleUHNIPortal {
		t.Fatalf("unexpected active role: %s ok=%v", role, ok)
	}
}

func TestContextMFAFlag(t *testing.T) {
	sess := NewContext(access.RoleAssignment{Consumer: access.RoleSpouse})
	if sess.MFAVerified() {
		t.Fatal("fresh session must not be MFA verified")
	}
	sess.MarkMFAVerified()
	if !sess.MFAVerified() {
		t.Fatal("expected MFA verified after mark")
	}
}

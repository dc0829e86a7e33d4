package access

import "fmt"

// Domain identifies one of the three tenancy portals a session can operate in.
type Domain string

const (
	DomainConsumer      Domain = "consumer"
	DomainInstitutional Domain = "institutional"
	DomainAdmin         Domain = "admin"
)

// DomainPriority is the order used to pick the initial domain at session start.
var DomainPriority = []Domain{DomainConsumer, DomainInstitutional, DomainAdmin}

// Role is a named capability set scoped to exactly one domain.
type Role string

// Consumer domain roles.
const (
	RolePrincipal  Role = "principal"
	RoleSpouse     Role = "spouse"
	RoleLegacyHeir Role = "legacy_heir"
	RoleAdvisor    Role = "advisor"
)

// Institutional domain roles.
const (
	RoleRelationshipManager  Role = "relationship_manager"
	RolePrivateBanker        Role = "private_banker"
	RoleFamilyOfficeDirector Role = "family_office_director"
	RoleComplianceOfficer    Role = "compliance_officer"
	RoleInstitutionalAdmin   Role = "institutional_admin"
	RoleUHNIPortal           Role = "uhni_portal"
)

// Admin domain roles.
const (
	RoleSuperAdmin Role = "super_admin"
)

var rolesByDomain = map[Domain][]Role{
	DomainConsumer: {
		RolePrincipal,
		RoleSpouse,
		RoleLegacyHeir,
		RoleAdvisor,
	},
	DomainInstitutional: {
		RoleRelationshipManager,
		RolePrivateBanker,
		RoleFamilyOfficeDirector,
		RoleComplianceOfficer,
		RoleInstitutionalAdmin,
		RoleUHNIPortal,
	},
	DomainAdmin: {
		RoleSuperAdmin,
	},
}

var domainByRole = func() map[Role]Domain {
	m := make(map[Role]Domain)
	for domain, roles := range rolesByDomain {
		for _, role := range roles {
			m[role] = domain
		}
	}
	return m
}()

// RolesForDomain returns the fixed role enumeration of a domain.
func RolesForDomain(domain Domain) []Role {
	roles := rolesByDomain[domain]
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

// DomainOf reports the domain a role belongs to.
func DomainOf(role Role) (Domain, bool) {
	domain, ok := domainByRole[role]
	return domain, ok
}

// ValidRole reports whether role is part of the fixed enumeration of domain.
func ValidRole(domain Domain, role Role) bool {
	d, ok := domainByRole[role]
	return ok && d == domain
}

// RoleAssignment records a user's role per domain. A user holds at most one
// role per domain; an empty field means the domain is not held.
type RoleAssignment struct {
	Consumer      Role `json:"consumer,omitempty"`
	Institutional Role `json:"institutional,omitempty"`
	Admin         Role `json:"admin,omitempty"`
}

// RoleFor returns the role the assignment holds in the given domain.
func (a RoleAssignment) RoleFor(domain Domain) (Role, bool) {
	var role Role
	switch domain {
	case DomainConsumer:
		role = a.Consumer
	case DomainInstitutional:
		role = a.Institutional
	case DomainAdmin:
		role = a.Admin
	}
	if role == "" {
		return "", false
	}
	return role, true
}

// Domains lists the domains held, in priority order.
func (a RoleAssignment) Domains() []Domain {
	var held []Domain
	for _, domain := range DomainPriority {
		if _, ok := a.RoleFor(domain); ok {
			held = append(held, domain)
		}
	}
	return held
}

// Empty reports whether no domain is held. Such a user cannot authenticate
// into any portal.
func (a RoleAssignment) Empty() bool {
	return a.Consumer == "" && a.Institutional == "" && a.Admin == ""
}

// Validate checks every populated field against its domain's enumeration.
func (a RoleAssignment) Validate() error {
	for _, domain := range DomainPriority {
		role, ok := a.RoleFor(domain)
		if !ok {
			continue
		}
		if !ValidRole(domain, role) {
			return fmt.Errorf("role %q is not a %s domain role", role, domain)
		}
	}
	return nil
}

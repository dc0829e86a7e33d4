package access

// Action is a verb a role may be granted on a resource.
type Action string

const (
	ActionRead      Action = "READ"
	ActionWrite     Action = "WRITE"
	ActionDelete    Action = "DELETE"
	ActionApprove   Action = "APPROVE"
	ActionExport    Action = "EXPORT"
	ActionAssign    Action = "ASSIGN"
	ActionConfigure Action = "CONFIGURE"
)

// Actions is the closed action set.
var Actions = []Action{
	ActionRead,
	ActionWrite,
	ActionDelete,
	ActionApprove,
	ActionExport,
	ActionAssign,
	ActionConfigure,
}

// Resource is a protected entity class reachable through the portals.
type Resource string

const (
	ResourceJourney     Resource = "journey"
	ResourceVault       Resource = "vault"
	ResourceIntent      Resource = "intent"
	ResourcePrivacy     Resource = "privacy"
	ResourceClient      Resource = "client"
	ResourceRisk        Resource = "risk"
	ResourceAudit       Resource = "audit"
	ResourceInvite      Resource = "invite"
	ResourceInstitution Resource = "institution"
	ResourceMessage     Resource = "message"
	ResourceContract    Resource = "contract"
	ResourceRevenue     Resource = "revenue"
	ResourceUser        Resource = "user"
)

// Resources is the closed resource set.
var Resources = []Resource{
	ResourceJourney,
	ResourceVault,
	ResourceIntent,
	ResourcePrivacy,
	ResourceClient,
	ResourceRisk,
	ResourceAudit,
	ResourceInvite,
	ResourceInstitution,
	ResourceMessage,
	ResourceContract,
	ResourceRevenue,
	ResourceUser,
}

// Grant is a single (action, resource) permission.
type Grant struct {
	Action   Action   `json:"action"`
	Resource Resource `json:"resource"`
}

// HasPermission reports whether role may perform action on resource in the
// domain the role belongs to. The lookup is a pure function of the static
// grant table; any unrecognized role, action, or resource evaluates to deny.
// Callers supply the role already resolved for the active domain, so a single
// call can never observe grants from another domain.
func HasPermission(role Role, action Action, resource Resource) bool {
	grants, ok := grantTable[role]
	if !ok {
		return false
	}
	_, ok = grants[Grant{Action: action, Resource: resource}]
	return ok
}

// GrantsFor returns a copy of the grant set of a role, primarily for
// self-description endpoints and tests.
func GrantsFor(role Role) []Grant {
	grants, ok := grantTable[role]
	if !ok {
		return nil
	}
	out := make([]Grant, 0, len(grants))
	for g := range grants {
		out = append(out, g)
	}
	return out
}

package access

// The grant table is the single authority for portal permissions. Every
// (role, action, resource) combination the portals can reach is decided here
// explicitly; anything absent is denied at evaluation time. The table is
// assembled once at package init and never mutated afterwards.

type grantSet map[Grant]struct{}

func grants(entries ...[]Grant) grantSet {
	set := make(grantSet)
	for _, group := range entries {
		for _, g := range group {
			set[g] = struct{}{}
		}
	}
	return set
}

func on(resource Resource, actions ...Action) []Grant {
	out := make([]Grant, 0, len(actions))
	for _, a := range actions {
		out = append(out, Grant{Action: a, Resource: resource})
	}
	return out
}

func everything() []Grant {
	out := make([]Grant, 0, len(Actions)*len(Resources))
	for _, r := range Resources {
		for _, a := range Actions {
			out = append(out, Grant{Action: a, Resource: r})
		}
	}
	return out
}

var grantTable = map[Role]grantSet{
	// Consumer domain. The Principal owns the household estate; Spouse is a
	// co-author without destructive rights; LegacyHeir is read-only over the
	// legacy material; Advisor drafts intents but never touches the vault
	// beyond reading.
	RolePrincipal: grants(
		on(ResourceJourney, ActionRead, ActionWrite, ActionDelete),
		on(ResourceVault, ActionRead, ActionWrite, ActionDelete, ActionExport),
		on(ResourceIntent, ActionRead, ActionWrite, ActionDelete, ActionApprove),
		on(ResourcePrivacy, ActionRead, ActionWrite, ActionConfigure),
		on(ResourceInvite, ActionRead, ActionWrite, ActionDelete, ActionAssign),
		on(ResourceMessage, ActionRead, ActionWrite),
		on(ResourceUser, ActionRead, ActionWrite),
	),
	RoleSpouse: grants(
		on(ResourceJourney, ActionRead, ActionWrite),
		on(ResourceVault, ActionRead, ActionWrite),
		on(ResourceIntent, ActionRead, ActionWrite),
		on(ResourcePrivacy, ActionRead),
		on(ResourceMessage, ActionRead, ActionWrite),
		on(ResourceUser, ActionRead),
	),
	RoleLegacyHeir: grants(
		on(ResourceJourney, ActionRead),
		on(ResourceVault, ActionRead),
		on(ResourceIntent, ActionRead),
		on(ResourceMessage, ActionRead),
		on(ResourceUser, ActionRead),
	),
	RoleAdvisor: grants(
		on(ResourceJourney, ActionRead),
		on(ResourceVault, ActionRead),
		on(ResourceIntent, ActionRead, ActionWrite),
		on(ResourceRisk, ActionRead),
		on(ResourceMessage, ActionRead, ActionWrite),
		on(ResourceUser, ActionRead),
	),

	// Institutional domain. Grants follow the desk hierarchy: managers work
	// the book, bankers execute, directors approve, compliance audits, and
	// the institutional admin owns membership and configuration. UHNIPortal
	// is the client's own self-service slice.
	RoleRelationshipManager: grants(
		on(ResourceClient, ActionRead, ActionWrite),
		on(ResourceJourney, ActionRead),
		on(ResourceIntent, ActionRead),
		on(ResourceRisk, ActionRead),
		on(ResourceInvite, ActionRead, ActionWrite),
		on(ResourceMessage, ActionRead, ActionWrite),
		on(ResourceUser, ActionRead),
	),
	RolePrivateBanker: grants(
		on(ResourceClient, ActionRead, ActionWrite),
		on(ResourceVault, ActionRead),
		on(ResourceIntent, ActionRead, ActionWrite, ActionApprove),
		on(ResourceRisk, ActionRead, ActionWrite),
		on(ResourceContract, ActionRead),
		on(ResourceMessage, ActionRead, ActionWrite),
		on(ResourceUser, ActionRead),
	),
	RoleFamilyOfficeDirector: grants(
		on(ResourceClient, ActionRead, ActionWrite, ActionAssign),
		on(ResourceIntent, ActionRead, ActionApprove),
		on(ResourceRisk, ActionRead, ActionWrite, ActionApprove),
		on(ResourceContract, ActionRead, ActionWrite, ActionApprove),
		on(ResourceRevenue, ActionRead),
		on(ResourceAudit, ActionRead),
		on(ResourceInvite, ActionRead, ActionWrite, ActionAssign),
		on(ResourceMessage, ActionRead, ActionWrite),
		on(ResourceUser, ActionRead),
	),
	RoleComplianceOfficer: grants(
		on(ResourceClient, ActionRead),
		on(ResourceRisk, ActionRead, ActionWrite, ActionApprove),
		on(ResourceAudit, ActionRead, ActionExport),
		on(ResourcePrivacy, ActionRead),
		on(ResourceContract, ActionRead),
		on(ResourceUser, ActionRead),
	),
	RoleInstitutionalAdmin: grants(
		on(ResourceInstitution, ActionRead, ActionWrite, ActionConfigure),
		on(ResourceClient, ActionRead, ActionWrite, ActionDelete, ActionAssign),
		on(ResourceUser, ActionRead, ActionWrite, ActionAssign),
		on(ResourceInvite, ActionRead, ActionWrite, ActionDelete, ActionAssign),
		on(ResourceAudit, ActionRead),
		on(ResourceContract, ActionRead, ActionWrite),
		on(ResourceRevenue, ActionRead),
		on(ResourceMessage, ActionRead, ActionWrite),
	),
	RoleUHNIPortal: grants(
		on(ResourceJourney, ActionRead),
		on(ResourceVault, ActionRead),
		on(ResourceIntent, ActionRead, ActionWrite),
		on(ResourcePrivacy, ActionRead, ActionWrite),
		on(ResourceMessage, ActionRead, ActionWrite),
		on(ResourceUser, ActionRead, ActionWrite),
	),

	// Admin domain. SuperAdmin carries every grant, but only while the
	// session operates in the admin domain; it confers nothing elsewhere.
	RoleSuperAdmin: grants(everything()),
}

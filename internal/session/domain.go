package session

import (
	"errors"
	"fmt"

	"lumora.life/internal/access"
)

var (
	// ErrNoDomainHeld indicates the assignment grants access to no portal at
	// all; such a user cannot establish a session.
	ErrNoDomainHeld = errors.New("session: no domain held")
	// ErrDomainNotHeld indicates a switch to a domain the user has no role in.
	ErrDomainNotHeld = errors.New("session: domain not held")
)

// ResolveInitialDomain picks the domain a fresh session lands in: the first
// held domain in the fixed priority order consumer > institutional > admin.
func ResolveInitialDomain(assignment access.RoleAssignment) (access.Domain, error) {
	for _, domain := range access.DomainPriority {
		if _, ok := assignment.RoleFor(domain); ok {
			return domain, nil
		}
	}
	return "", ErrNoDomainHeld
}

// Context is the per-session mutable state: which portal the session operates
// in and whether MFA elevation happened. One UI session owns one Context;
// reads and writes are never concurrent within a session, so there is no
// locking here. It is threaded explicitly to the components that need it
// rather than living in a process-wide singleton.
type Context struct {
	assignment  access.RoleAssignment
	active      access.Domain
	initialized bool
	mfaVerified bool
}

// NewContext builds an uninitialized session context for the assignment.
func NewContext(assignment access.RoleAssignment) *Context {
	return &Context{assignment: assignment}
}

// Init resolves the initial domain exactly once. Subsequent calls are no-ops
// so re-entrant session bootstrapping cannot clobber a switch the user
// already made.
func (c *Context) Init() error {
	if c.initialized {
		return nil
	}
	domain, err := ResolveInitialDomain(c.assignment)
	if err != nil {
		return err
	}
	c.active = domain
	c.initialized = true
	return nil
}

// ActiveDomain returns the portal the session currently operates in.
func (c *Context) ActiveDomain() access.Domain { return c.active }

// ActiveRole returns the role resolved for the active domain.
func (c *Context) ActiveRole() (access.Role, bool) {
	if !c.initialized {
		return "", false
	}
	return c.assignment.RoleFor(c.active)
}

// Assignment returns the role assignment the session was established with.
func (c *Context) Assignment() access.RoleAssignment { return c.assignment }

// SelectableDomains lists the domains the session may switch to.
func (c *Context) SelectableDomains() []access.Domain { return c.assignment.Domains() }

// Switch moves the session into another held domain and returns the landing
// route of that domain's role. Switching to a domain the user holds no role
// in is rejected.
func (c *Context) Switch(domain access.Domain) (string, error) {
	role, ok := c.assignment.RoleFor(domain)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrDomainNotHeld, domain)
	}
	c.active = domain
	c.initialized = true
	return DefaultRouteFor(role), nil
}

// MFAVerified reports whether this session passed MFA elevation.
func (c *Context) MFAVerified() bool { return c.mfaVerified }

// MarkMFAVerified records a successful login-time MFA verification. The flag
// is session-scoped and never persisted to the user record.
func (c *Context) MarkMFAVerified() { c.mfaVerified = true }

package store

import (
	"context"
	"errors"
	"time"

	"lumora.life/internal/access"
	"lumora.life/internal/device"
	"lumora.life/internal/mfa"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("store: not found")

// User is the persisted user record as this core sees it: identity fields,
// the per-domain role assignment, and the MFA columns. The MFA secret is
// opaque here and never leaves the server after enrollment.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Roles        access.RoleAssignment
	MFAEnabled   bool
	MFASecret    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserStore is the user persistence boundary. It includes the mfa.Store
// operations so the MFA engine can run against the same backend.
type UserStore interface {
	mfa.Store

	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	RoleAssignment(ctx context.Context, userID string) (access.RoleAssignment, error)
}

// DeviceStore persists trusted device records.
type DeviceStore = device.Store

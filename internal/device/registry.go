package device

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound covers both nonexistent devices and devices owned by
	// another user, so revocation attempts cannot probe for existence.
	ErrNotFound = errors.New("device: not found")
)

// Status of a trusted device record.
const (
	StatusActive  = "active"
	StatusRevoked = "revoked"
)

// TrustWindow is how long a device trust grant lasts. The window slides:
// every successful bypass refreshes LastUsed, so a device in regular use
// stays trusted while a dormant one expires.
const TrustWindow = 30 * 24 * time.Hour

// Record is a trusted device bound to one user.
type Record struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	Token    string    `json:"-"`
	Name     string    `json:"name"`
	LastUsed time.Time `json:"last_used"`
	Status   string    `json:"status"`
}

// Store is the persistence boundary for device records.
type Store interface {
	Insert(ctx context.Context, rec *Record) error
	FindByToken(ctx context.Context, token string) (*Record, error)
	ListByUser(ctx context.Context, userID string) ([]*Record, error)
	SetStatus(ctx context.Context, deviceID, status string) error
	TouchLastUsed(ctx context.Context, deviceID string, at time.Time) error
}

// Registry manages device trust grants that let a client skip MFA for the
// duration of the trust window.
type Registry struct {
	store Store
	now   func() time.Time
}

// NewRegistry wires a Registry to its store.
func NewRegistry(store Store) (*Registry, error) {
	if store == nil {
		return nil, errors.New("device: store is required")
	}
	return &Registry{store: store, now: time.Now}, nil
}

// Register creates a trust grant for the user and returns the record along
// with the opaque token the client must present at future logins. The token
// comes from a cryptographically strong source and is the only credential
// tying the client to the record.
func (r *Registry) Register(ctx context.Context, userID, userAgent string) (*Record, string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, "", errors.New("device: user id is required")
	}
	token, err := newToken()
	if err != nil {
		return nil, "", fmt.Errorf("generate device token: %w", err)
	}
	rec := &Record{
		UserID:   userID,
		Token:    token,
		Name:     LabelFromUserAgent(userAgent),
		LastUsed: r.now().UTC(),
		Status:   StatusActive,
	}
	if err := r.store.Insert(ctx, rec); err != nil {
		return nil, "", err
	}
	return rec, token, nil
}

// IsTrusted reports whether the presented token grants an MFA bypass for the
// user. It fails closed: a missing token, a lookup error, a foreign owner, a
// revoked record, or an expired trust window all mean "not trusted" and the
// caller falls through to the full MFA flow. A successful check refreshes the
// sliding trust window.
func (r *Registry) IsTrusted(ctx context.Context, userID, token string) bool {
	userID = strings.TrimSpace(userID)
	token = strings.TrimSpace(token)
	if userID == "" || token == "" {
		return false
	}
	rec, err := r.store.FindByToken(ctx, token)
	if err != nil || rec == nil {
		return false
	}
	if rec.UserID != userID || rec.Status != StatusActive {
		return false
	}
	now := r.now().UTC()
	if now.Sub(rec.LastUsed) > TrustWindow {
		return false
	}
	// Best effort: a failed touch only shortens the window, never widens it.
	_ = r.store.TouchLastUsed(ctx, rec.ID, now)
	return true
}

// Revoke marks one of the user's devices revoked. The device must belong to
// the requesting user; a foreign or unknown device id reports ErrNotFound.
func (r *Registry) Revoke(ctx context.Context, deviceID, requestingUserID string) error {
	deviceID = strings.TrimSpace(deviceID)
	requestingUserID = strings.TrimSpace(requestingUserID)
	if deviceID == "" || requestingUserID == "" {
		return ErrNotFound
	}
	owned, err := r.store.ListByUser(ctx, requestingUserID)
	if err != nil {
		return err
	}
	for _, rec := range owned {
		if rec.ID == deviceID {
			return r.store.SetStatus(ctx, deviceID, StatusRevoked)
		}
	}
	return ErrNotFound
}

// List returns the user's device records for self-service management.
func (r *Registry) List(ctx context.Context, userID string) ([]*Record, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("device: user id is required")
	}
	return r.store.ListByUser(ctx, userID)
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

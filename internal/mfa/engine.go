package mfa

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Result classifies the outcome of a verification attempt. Declined attempts
// are values, not errors: only store failures surface as errors.
type Result string

const (
	ResultOK          Result = "ok"
	ResultNoSecret    Result = "no-secret-configured"
	ResultBadFormat   Result = "invalid-code-format"
	ResultMismatch    Result = "code-mismatch"
	ResultRateLimited Result = "rate-limited"
)

// Settings is the per-user MFA state the engine reads and writes through the
// store boundary.
type Settings struct {
	Secret  string
	Enabled bool
}

// Store is the persistence boundary for MFA state. Implementations must make
// each mutation atomic with respect to the user record.
type Store interface {
	MFASettings(ctx context.Context, userID string) (Settings, error)
	// SetMFASecret overwrites the secret and resets enrollment: the user is
	// pending verification until the first valid code.
	SetMFASecret(ctx context.Context, userID, secret string) error
	// EnableMFA flips the user to enrolled after the first valid code.
	EnableMFA(ctx context.Context, userID string) error
}

// Attempt limiter defaults: a burst of five codes, then one fresh attempt
// every ten seconds per user.
const (
	limiterBurst    = 5
	limiterInterval = 10 * time.Second
)

// Engine drives the per-user enrollment state machine:
// Unenrolled -> (Setup) -> PendingVerification -> (first valid code) -> Enrolled.
// Session-scoped elevation on top of Enrolled is the caller's concern; the
// engine only reports successful verifications.
type Engine struct {
	store  Store
	issuer string
	now    func() time.Time

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewEngine builds an Engine issuing provisioning URIs under the given label.
func NewEngine(store Store, issuer string) (*Engine, error) {
	if store == nil {
		return nil, errors.New("mfa: store is required")
	}
	issuer = strings.TrimSpace(issuer)
	if issuer == "" {
		return nil, errors.New("mfa: issuer is required")
	}
	return &Engine{
		store:    store,
		issuer:   issuer,
		now:      time.Now,
		limiters: make(map[string]*rate.Limiter),
	}, nil
}

// Setup generates a fresh secret for the user and persists it, resetting any
// pending enrollment. Calling Setup again before the first verification
// overwrites the previous secret, so codes derived from it stop working.
func (e *Engine) Setup(ctx context.Context, userID, accountLabel string) (Enrollment, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Enrollment{}, errors.New("mfa: user id is required")
	}
	enrollment, err := GenerateSecret(e.issuer, accountLabel)
	if err != nil {
		return Enrollment{}, err
	}
	if err := e.store.SetMFASecret(ctx, userID, enrollment.Secret); err != nil {
		return Enrollment{}, err
	}
	return enrollment, nil
}

// Verify checks a candidate code for the user. On the first success after
// setup it flips the user to enrolled. The returned Result distinguishes a
// wrong code from a missing secret: the latter means setup never completed
// and the user must be sent back there instead of retrying.
func (e *Engine) Verify(ctx context.Context, userID, code string) (Result, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ResultNoSecret, errors.New("mfa: user id is required")
	}
	settings, err := e.store.MFASettings(ctx, userID)
	if err != nil {
		return ResultMismatch, err
	}
	if settings.Secret == "" {
		return ResultNoSecret, nil
	}
	if !ValidCodeFormat(code) {
		return ResultBadFormat, nil
	}
	if !e.limiter(userID).Allow() {
		// Declined before any comparison; the secret is not consulted.
		return ResultRateLimited, nil
	}
	if !VerifyCode(settings.Secret, code, e.now()) {
		return ResultMismatch, nil
	}
	if !settings.Enabled {
		if err := e.store.EnableMFA(ctx, userID); err != nil {
			return ResultMismatch, err
		}
	}
	return ResultOK, nil
}

func (e *Engine) limiter(userID string) *rate.Limiter {
	e.mu.Lock()
	defer e.mu.Unlock()
	lim, ok := e.limiters[userID]
	if !ok {
		lim = rate.NewLimiter(rate.Every(limiterInterval), limiterBurst)
		e.limiters[userID] = lim
	}
	return lim
}

package mfa

import (
	"errors"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	// Period is the TOTP time step.
	Period = 30 * time.Second
	// secretSize is the raw secret length in bytes (160 bits).
	secretSize = 20
	// driftSteps is the accepted clock drift in time steps on each side.
	driftSteps = 1
)

// Enrollment is handed to the client exactly once, at setup time. The secret
// is never re-sent afterwards.
type Enrollment struct {
	Secret          string `json:"secret"`
	ProvisioningURI string `json:"provisioning_uri"`
}

// GenerateSecret creates a fresh base32 secret and the otpauth:// key URI
// embedding issuer, account label, SHA-1, 6 digits and the 30 second period.
func GenerateSecret(issuer, accountLabel string) (Enrollment, error) {
	issuer = strings.TrimSpace(issuer)
	accountLabel = strings.TrimSpace(accountLabel)
	if issuer == "" || accountLabel == "" {
		return Enrollment{}, errors.New("mfa: issuer and account label are required")
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: accountLabel,
		Period:      uint(Period / time.Second),
		SecretSize:  secretSize,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return Enrollment{}, err
	}
	return Enrollment{Secret: key.Secret(), ProvisioningURI: key.URL()}, nil
}

// ValidCodeFormat reports whether code is exactly six ASCII digits. Anything
// else is rejected before any cryptographic comparison happens.
func ValidCodeFormat(code string) bool {
	if len(code) != 6 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

// VerifyCode checks a candidate code against the secret at the given instant,
// accepting the current time step and one adjacent step on each side to
// tolerate client clock drift.
func VerifyCode(secret, code string, at time.Time) bool {
	if !ValidCodeFormat(code) || secret == "" {
		return false
	}
	ok, err := totp.ValidateCustom(code, secret, at.UTC(), totp.ValidateOpts{
		Period:    uint(Period / time.Second),
		Skew:      driftSteps,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return false
	}
	return ok
}

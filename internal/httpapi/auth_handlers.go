package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"lumora.life/internal/audit"
	"lumora.life/internal/auth"
	"lumora.life/internal/device"
	"lumora.life/internal/mfa"
	"lumora.life/internal/obs"
	"lumora.life/internal/session"
	"lumora.life/internal/store"
)

type loginRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DeviceToken string `json:"device_token,omitempty"`
}

type loginResponse struct {
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expires_at"`
	MFARequired bool      `json:"mfa_required"`
	Domain      string    `json:"domain,omitempty"`
	Route       string    `json:"route,omitempty"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := a.users.FindByEmail(r.Context(), email)
	if errors.Is(err, store.ErrNotFound) {
		obs.CountLogin("denied")
		writeError(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		obs.CountLogin("error")
		obs.LogError("user lookup failed", map[string]any{
			"request_id": RequestIDFromContext(r.Context()),
			"error":      err.Error(),
		})
		writeError(w, r, http.StatusInternalServerError, "authentication error")
		return
	}
	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		obs.CountLogin("denied")
		writeError(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if user.Roles.Empty() {
		// Credentials are fine, but no portal will take this user.
		obs.CountLogin("denied")
		writeError(w, r, http.StatusForbidden, "no portal access")
		return
	}

	identity := auth.Identity{ID: user.ID, Email: user.Email, Name: user.Name, Roles: user.Roles}

	// An enrolled user still needs a code unless a trusted device vouches
	// for the client. The check fails closed inside the registry.
	mfaRequired := user.MFAEnabled
	if mfaRequired && req.DeviceToken != "" {
		if a.devices.IsTrusted(r.Context(), user.ID, req.DeviceToken) {
			obs.CountDeviceBypass("trusted")
			mfaRequired = false
		} else {
			obs.CountDeviceBypass("untrusted")
		}
	}

	elevated := user.MFAEnabled && !mfaRequired
	token, expiresAt, err := a.tokens.Issue(identity, elevated)
	if err != nil {
		obs.CountLogin("error")
		writeError(w, r, http.StatusInternalServerError, "token generation failed")
		return
	}

	resp := loginResponse{Token: token, ExpiresAt: expiresAt, MFARequired: mfaRequired}
	if !mfaRequired {
		if domain, err := session.ResolveInitialDomain(user.Roles); err == nil {
			resp.Domain = string(domain)
			if role, ok := user.Roles.RoleFor(domain); ok {
				resp.Route = session.DefaultRouteFor(role)
			}
		}
	}

	outcome := "ok"
	if mfaRequired {
		outcome = "mfa_required"
	}
	obs.CountLogin(outcome)
	_ = audit.LogEvent(r.Context(), "auth.login", map[string]any{
		"user_id":      user.ID,
		"mfa_required": mfaRequired,
	})
	writeJSON(w, http.StatusOK, resp)
}

type mfaVerifyRequest struct {
	Code        string `json:"code"`
	TrustDevice bool   `json:"trust_device,omitempty"`
}

type mfaVerifyResponse struct {
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expires_at"`
	DeviceToken string    `json:"device_token,omitempty"`
	Domain      string    `json:"domain,omitempty"`
	Route       string    `json:"route,omitempty"`
}

func (a *API) handleMFASetup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	enrollment, err := a.mfa.Setup(r.Context(), principal.UserID, principal.Email)
	if err != nil {
		obs.LogError("mfa setup failed", map[string]any{
			"request_id": RequestIDFromContext(r.Context()),
			"error":      err.Error(),
		})
		writeError(w, r, http.StatusInternalServerError, "mfa setup failed")
		return
	}
	_ = audit.LogEvent(r.Context(), "auth.mfa.setup", map[string]any{
		"user_id": principal.UserID,
	})
	// The one and only time the secret crosses the wire.
	writeJSON(w, http.StatusOK, enrollment)
}

func (a *API) handleMFAVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	var req mfaVerifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := a.mfa.Verify(r.Context(), principal.UserID, req.Code)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "verification error")
		return
	}
	obs.CountMFAVerification(string(result))
	if result != mfa.ResultOK {
		writeMFADecline(w, r, result)
		return
	}

	identity := auth.Identity{
		ID:    principal.UserID,
		Email: principal.Email,
		Name:  principal.Name,
		Roles: principal.Roles,
	}
	token, expiresAt, err := a.tokens.Issue(identity, true)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "token generation failed")
		return
	}

	resp := mfaVerifyResponse{Token: token, ExpiresAt: expiresAt}
	if req.TrustDevice {
		// Device trust is an enhancement: a registry failure must never
		// block the now-elevated session.
		if _, deviceToken, err := a.devices.Register(r.Context(), principal.UserID, r.UserAgent()); err != nil {
			_ = audit.LogEvent(r.Context(), "auth.device.register_failed", map[string]any{
				"user_id": principal.UserID,
				"error":   err.Error(),
			})
		} else {
			resp.DeviceToken = deviceToken
			_ = audit.LogEvent(r.Context(), "auth.device.registered", map[string]any{
				"user_id": principal.UserID,
			})
		}
	}
	if domain, err := session.ResolveInitialDomain(principal.Roles); err == nil {
		resp.Domain = string(domain)
		if role, ok := principal.Roles.RoleFor(domain); ok {
			resp.Route = session.DefaultRouteFor(role)
		}
	}

	_ = audit.LogEvent(r.Context(), "auth.mfa.verified", map[string]any{
		"user_id":        principal.UserID,
		"device_trusted": resp.DeviceToken != "",
	})
	writeJSON(w, http.StatusOK, resp)
}

// writeMFADecline maps verification reason codes onto responses. The reason
// travels in the body so the client can route "no-secret-configured" back to
// setup instead of asking for another code.
func writeMFADecline(w http.ResponseWriter, r *http.Request, result mfa.Result) {
	status := http.StatusUnauthorized
	switch result {
	case mfa.ResultNoSecret, mfa.ResultBadFormat:
		status = http.StatusBadRequest
	case mfa.ResultRateLimited:
		w.Header().Set("Retry-After", "10")
		status = http.StatusTooManyRequests
	}
	writeJSON(w, status, map[string]any{
		"error":      "mfa verification declined",
		"reason":     string(result),
		"request_id": RequestIDFromContext(r.Context()),
	})
}

func (a *API) handleDevices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	list, err := a.devices.List(r.Context(), principal.UserID)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "device listing failed")
		return
	}
	if list == nil {
		list = []*device.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"devices": list})
}

func (a *API) handleDeviceByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, r, http.MethodDelete)
		return
	}
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	deviceID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/auth/devices/"), "/")
	if deviceID == "" || strings.Contains(deviceID, "/") {
		writeError(w, r, http.StatusNotFound, "device not found")
		return
	}

	err := a.devices.Revoke(r.Context(), deviceID, principal.UserID)
	if errors.Is(err, device.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "device not found")
		return
	}
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "device revocation failed")
		return
	}
	_ = audit.LogEvent(r.Context(), "auth.device.revoked", map[string]any{
		"user_id":   principal.UserID,
		"device_id": deviceID,
	})
	w.WriteHeader(http.StatusNoContent)
}

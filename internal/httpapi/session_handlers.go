package httpapi

import (
	"errors"
	"net/http"

	"lumora.life/internal/access"
	"lumora.life/internal/audit"
	"lumora.life/internal/auth"
	"lumora.life/internal/obs"
	"lumora.life/internal/session"
)

type sessionResponse struct {
	UserID            string          `json:"user_id"`
	Email             string          `json:"email"`
	ActiveDomain      string          `json:"active_domain"`
	ActiveRole        string          `json:"active_role"`
	Route             string          `json:"route"`
	SelectableDomains []access.Domain `json:"selectable_domains"`
	MFAVerified       bool            `json:"mfa_verified"`
	Grants            []access.Grant  `json:"grants"`
}

func (a *API) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	sess := session.NewContext(principal.Roles)
	if err := sess.Init(); err != nil {
		if errors.Is(err, session.ErrNoDomainHeld) {
			writeError(w, r, http.StatusForbidden, "no portal access")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "session resolution failed")
		return
	}
	role, _ := sess.ActiveRole()

	writeJSON(w, http.StatusOK, sessionResponse{
		UserID:            principal.UserID,
		Email:             principal.Email,
		ActiveDomain:      string(sess.ActiveDomain()),
		ActiveRole:        string(role),
		Route:             session.DefaultRouteFor(role),
		SelectableDomains: sess.SelectableDomains(),
		MFAVerified:       principal.MFAVerified,
		Grants:            access.GrantsFor(role),
	})
}

type domainSwitchRequest struct {
	Domain string `json:"domain"`
}

type domainSwitchResponse struct {
	Domain string `json:"domain"`
	Role   string `json:"role"`
	Route  string `json:"route"`
}

// handleDomainSwitch re-resolves the caller into another held portal. The
// token itself is domain-agnostic; what changes is the landing route and the
// role the client renders against.
func (a *API) handleDomainSwitch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	var req domainSwitchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	target := access.Domain(req.Domain)

	sess := session.NewContext(principal.Roles)
	route, err := sess.Switch(target)
	if errors.Is(err, session.ErrDomainNotHeld) {
		obs.CountDomainSwitch("denied")
		writeError(w, r, http.StatusForbidden, "domain not held")
		return
	}
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "domain switch failed")
		return
	}
	role, _ := sess.ActiveRole()

	obs.CountDomainSwitch("ok")
	_ = audit.LogEvent(r.Context(), "session.domain_switch", map[string]any{
		"user_id": principal.UserID,
		"domain":  string(target),
	})
	writeJSON(w, http.StatusOK, domainSwitchResponse{
		Domain: string(sess.ActiveDomain()),
		Role:   string(role),
		Route:  route,
	})
}

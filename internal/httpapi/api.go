package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lumora.life/internal/auth"
	"lumora.life/internal/device"
	"lumora.life/internal/mfa"
	"lumora.life/internal/obs"
	"lumora.life/internal/store"
)

// ReadyProbe reports backend readiness (database ping when configured).
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// Options carries the collaborators the API needs.
type Options struct {
	Tokens     *auth.TokenService
	Users      store.UserStore
	Devices    *device.Registry
	MFA        *mfa.Engine
	ReadyProbe ReadyProbe
	Version    string

	RateLimitPerSecond int
	RateLimitBurst     int
	MaxBodyBytes       int64
}

// API is the HTTP layer over the access-control core.
type API struct {
	mux        *http.ServeMux
	tokens     *auth.TokenService
	users      store.UserStore
	devices    *device.Registry
	mfa        *mfa.Engine
	readyProbe ReadyProbe
	version    string

	ratePerSecond int
	rateBurst     int
	maxBodyBytes  int64
}

// New wires the route table.
func New(opts Options) (*API, error) {
	if opts.Tokens == nil {
		return nil, errors.New("httpapi: token service is required")
	}
	if opts.Users == nil {
		return nil, errors.New("httpapi: user store is required")
	}
	if opts.Devices == nil {
		return nil, errors.New("httpapi: device registry is required")
	}
	if opts.MFA == nil {
		return nil, errors.New("httpapi: mfa engine is required")
	}
	a := &API{
		mux:           http.NewServeMux(),
		tokens:        opts.Tokens,
		users:         opts.Users,
		devices:       opts.Devices,
		mfa:           opts.MFA,
		readyProbe:    opts.ReadyProbe,
		version:       opts.Version,
		ratePerSecond: opts.RateLimitPerSecond,
		rateBurst:     opts.RateLimitBurst,
		maxBodyBytes:  opts.MaxBodyBytes,
	}
	if a.ratePerSecond <= 0 {
		a.ratePerSecond = 20
	}
	if a.rateBurst <= 0 {
		a.rateBurst = 40
	}
	if a.maxBodyBytes <= 0 {
		a.maxBodyBytes = 1 << 20
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/v1/auth/login", a.handleLogin)
	a.mux.HandleFunc("/v1/auth/mfa/setup", a.handleMFASetup)
	a.mux.HandleFunc("/v1/auth/mfa/verify", a.handleMFAVerify)
	a.mux.HandleFunc("/v1/auth/devices", a.handleDevices)
	a.mux.HandleFunc("/v1/auth/devices/", a.handleDeviceByID)
	a.mux.HandleFunc("/v1/session", a.handleSession)
	a.mux.HandleFunc("/v1/session/domain", a.handleDomainSwitch)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a, nil
}

// Handler assembles the middleware chain around the route table.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = a.withAuth(h)
	h = MaxBodyBytes(h, a.maxBodyBytes)
	h = RateLimit(h, a.rateBurst, a.ratePerSecond)
	h = SecurityHeaders(h)
	h = CORS(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "lumora-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "lumora-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	writeJSON(w, code, map[string]any{
		"error":      msg,
		"request_id": RequestIDFromContext(r.Context()),
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
		_ = r.Body.Close()
	}()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

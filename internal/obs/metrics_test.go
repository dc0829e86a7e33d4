package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                         "/",
		"/metrics":                 "/metrics",
		"/v1/auth/login":           "/v1/auth/login",
		"/v1/auth/devices":         "/v1/auth/devices",
		"/v1/auth/devices/01HXQ2":  "/v1/auth/devices/:id",
		"/v1/auth/devices/abc?x=1": "/v1/auth/devices/:id",
		"/v1/session?verbose=1":    "/v1/session",
		"/v1/auth/devices/a/extra": "/v1/auth/devices/a/extra",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}

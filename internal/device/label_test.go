package device

import "testing"

func TestLabelFromUserAgent(t *testing.T) {
	cases := []struct {
		ua   string
		want string
	}{
		{"", "Unknown device"},
		{"curl/8.0", "Unknown device"},
		{"Mozilla/5.0 (Windows NT 10.0) Chrome/120.0 Safari/537.36", "Chrome on Windows"},
		{"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15) Version/17 Safari/605", "Safari on macOS"},
		{"Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0", "Firefox on Linux"},
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0) Version/17 Mobile Safari", "Safari on iPhone"},
		{"Mozilla/5.0 (Windows NT 10.0) Chrome/120.0 Safari/537.36 Edg/120.0", "Edge on Windows"},
		{"Mozilla/5.0 (Linux; Android 14) Chrome/120.0 Mobile Safari/537.36", "Chrome on Android"},
		{"Firefox/121.0", "Firefox"},
	}
	for _, tc := range cases {
		if got := LabelFromUserAgent(tc.ua); got != tc.want {
			t.Fatalf("LabelFromUserAgent(%q)=%q, want %q", tc.ua, got, tc.want)
		}
	}
}

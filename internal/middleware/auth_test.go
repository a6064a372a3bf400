package middleware

import "testing"

func TestNormalizeToken(t *testing.T) {
	cases := map[string]string{
		"":                     "",
		"   ":                  "",
		"abc123":               "abc123",
		"Bearer abc123":        "abc123",
		"bearer abc123":        "abc123",
		"BEARER   abc123  ":    "abc123",
		"  Bearer iwkdeadbeef": "iwkdeadbeef",
	}
	for in, want := range cases {
		if got := NormalizeToken(in); got != want {
			t.Errorf("NormalizeToken(%q) = %q, want %q", in, got, want)
		}
	}
}

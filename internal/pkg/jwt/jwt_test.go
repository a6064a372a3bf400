package jwt

import (
	"testing"
	"time"
)

func TestSignAndParse(t *testing.T) {
	token, err := Sign("user-1", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := Parse(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("user id = %q", claims.UserID)
	}
	if claims.SessionID != "" {
		t.Fatalf("unexpected session id %q", claims.SessionID)
	}
}

func TestSignWithOptions(t *testing.T) {
	token, err := SignWithOptions("user-2", time.Hour, SignOptions{
		SessionID: "sess-9",
		IP:        "10.0.0.1",
		UA:        "test-agent",
	})
	if err != nil {
		t.Fatal(err)
	}

	claims, err := Parse(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.SessionID != "sess-9" || claims.IP != "10.0.0.1" || claims.UA != "test-agent" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestParseExpired(t *testing.T) {
	token, err := Sign("user-3", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Parse(token); err == nil {
		t.Fatal("expected expired token error")
	}
}

func TestParseGarbage(t *testing.T) {
	if _, err := Parse("not.a.token"); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseWrongSecret(t *testing.T) {
	token, err := Sign("user-4", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	SetSecret("a completely different secret")
	defer SetSecret(defaultSecret)

	if _, err := Parse(token); err == nil {
		t.Fatal("expected signature error")
	}
}

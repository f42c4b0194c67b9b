package main

import (
	"testing"
	"time"
)

// TestSessionToken_RoundTrip verifies a signed session token parses back to
// the same user identity with a future expiry.
func TestSessionToken_RoundTrip(t *testing.T) {
	h := &Handler{jwtSecret: []byte("test-secret")}
	u := user{ID: "2f1e9c3a-0000-4000-8000-000000000001", Username: "lina"}

	token, err := h.newSessionToken(u)
	if err != nil {
		t.Fatalf("newSessionToken: %v", err)
	}

	claims, err := h.parseSessionToken(token)
	if err != nil {
		t.Fatalf("parseSessionToken: %v", err)
	}
	if claims.UserID != u.ID {
		t.Errorf("UserID = %q, want %q", claims.UserID, u.ID)
	}
	if claims.Username != u.Username {
		t.Errorf("Username = %q, want %q", claims.Username, u.Username)
	}
	if !claims.ExpiresAt.After(time.Now()) {
		t.Errorf("token already expired: %v", claims.ExpiresAt)
	}
}

// TestSessionToken_WrongSecret verifies a token signed with one secret is
// rejected by a handler holding another.
func TestSessionToken_WrongSecret(t *testing.T) {
	signer := &Handler{jwtSecret: []byte("secret-a")}
	verifier := &Handler{jwtSecret: []byte("secret-b")}

	token, err := signer.newSessionToken(user{ID: "id", Username: "mallory"})
	if err != nil {
		t.Fatalf("newSessionToken: %v", err)
	}
	if _, err := verifier.parseSessionToken(token); err == nil {
		t.Error("expected an error parsing a token signed with a different secret")
	}
}

// TestSessionToken_Garbage verifies a non-token cookie value is rejected.
func TestSessionToken_Garbage(t *testing.T) {
	h := &Handler{jwtSecret: []byte("test-secret")}
	if _, err := h.parseSessionToken("not-a-jwt"); err == nil {
		t.Error("expected an error parsing a malformed token")
	}
}

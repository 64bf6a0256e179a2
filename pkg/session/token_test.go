package session

import (
	"testing"
	"time"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	tok, err := IssueSessionToken("secret", "tenant-1", "user-1", "ops@example.com", time.Hour, now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	vs, err := VerifySessionToken(tok, "secret", now.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if vs.TenantID != "tenant-1" || vs.UserID != "user-1" || vs.Email != "ops@example.com" {
		t.Fatalf("unexpected session: %+v", vs)
	}
}

func TestVerifySessionToken_Expired(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	tok, err := IssueSessionToken("secret", "tenant-1", "user-1", "", time.Hour, now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := VerifySessionToken(tok, "secret", now.Add(2*time.Hour)); err == nil {
		t.Fatalf("expected expiry error")
	}
}

func TestVerifySessionToken_WrongSecret(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	tok, err := IssueSessionToken("secret", "tenant-1", "user-1", "", time.Hour, now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := VerifySessionToken(tok, "other", now); err == nil {
		t.Fatalf("expected signature error")
	}
}

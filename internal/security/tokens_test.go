package security

import (
	"testing"
	"time"
)

func TestTokenCodec_MintAndVerifyAccess(t *testing.T) {
	c := NewTestTokenCodec()

	access, exp, err := c.MintAccess("u1")
	if err != nil {
		t.Fatalf("MintAccess: %v", err)
	}
	if access == "" {
		t.Fatal("access token empty")
	}
	if exp.Before(time.Now()) {
		t.Fatal("expires at in the past")
	}

	claims, err := c.VerifyAccess(access)
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}
	if claims.UserID != "u1" {
		t.Errorf("VerifyAccess: got userID=%q", claims.UserID)
	}
	if claims.JTI != "" {
		t.Errorf("access token should carry no jti, got %q", claims.JTI)
	}
}

func TestTokenCodec_MintAndVerifyRefresh(t *testing.T) {
	c := NewTestTokenCodec()

	refresh, exp, err := c.MintRefresh("u1", "jti-1")
	if err != nil {
		t.Fatalf("MintRefresh: %v", err)
	}
	if refresh == "" {
		t.Fatal("refresh token empty")
	}
	if exp.Before(time.Now()) {
		t.Fatal("refresh expires at in the past")
	}

	claims, err := c.VerifyRefresh(refresh)
	if err != nil {
		t.Fatalf("VerifyRefresh: %v", err)
	}
	if claims.UserID != "u1" || claims.JTI != "jti-1" {
		t.Errorf("VerifyRefresh: got userID=%q jti=%q", claims.UserID, claims.JTI)
	}
}

func TestTokenCodec_MintRefreshRequiresJTI(t *testing.T) {
	c := NewTestTokenCodec()
	_, _, err := c.MintRefresh("u1", "")
	if err != ErrTokenInvalid {
		t.Errorf("MintRefresh without jti: want ErrTokenInvalid, got %v", err)
	}
}

func TestTokenCodec_CrossKindRejection(t *testing.T) {
	c := NewTestTokenCodec()

	access, _, err := c.MintAccess("u1")
	if err != nil {
		t.Fatalf("MintAccess: %v", err)
	}
	if _, err := c.VerifyRefresh(access); err != ErrTokenInvalid {
		t.Errorf("access token as refresh: want ErrTokenInvalid, got %v", err)
	}

	refresh, _, err := c.MintRefresh("u1", "jti-1")
	if err != nil {
		t.Fatalf("MintRefresh: %v", err)
	}
	if _, err := c.VerifyAccess(refresh); err != ErrTokenInvalid {
		t.Errorf("refresh token as access: want ErrTokenInvalid, got %v", err)
	}
}

func TestTokenCodec_VerifyMalformed(t *testing.T) {
	c := NewTestTokenCodec()
	if _, err := c.VerifyAccess("not-a-token"); err != ErrTokenInvalid {
		t.Errorf("malformed access: want ErrTokenInvalid, got %v", err)
	}
	if _, err := c.VerifyRefresh("not-a-token"); err != ErrTokenInvalid {
		t.Errorf("malformed refresh: want ErrTokenInvalid, got %v", err)
	}
}

func TestTokenCodec_Expired(t *testing.T) {
	expired := NewTokenCodec(
		[]byte("test-access-secret-0123456789abcdef"),
		[]byte("test-refresh-secret-0123456789abcdef"),
		"test-issuer", "test-audience",
		-time.Minute, -time.Minute,
	)

	access, _, err := expired.MintAccess("u1")
	if err != nil {
		t.Fatalf("MintAccess: %v", err)
	}
	if _, err := expired.VerifyAccess(access); err != ErrTokenExpired {
		t.Errorf("expired access: want ErrTokenExpired, got %v", err)
	}

	refresh, _, err := expired.MintRefresh("u1", "jti-1")
	if err != nil {
		t.Fatalf("MintRefresh: %v", err)
	}
	if _, err := expired.VerifyRefresh(refresh); err != ErrTokenExpired {
		t.Errorf("expired refresh: want ErrTokenExpired, got %v", err)
	}
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	c := NewTestTokenCodec()
	other := NewTokenCodec(
		[]byte("other-access-secret"),
		[]byte("other-refresh-secret"),
		"test-issuer", "test-audience",
		15*time.Minute, 7*24*time.Hour,
	)

	refresh, _, err := c.MintRefresh("u1", "jti-1")
	if err != nil {
		t.Fatalf("MintRefresh: %v", err)
	}
	if _, err := other.VerifyRefresh(refresh); err != ErrTokenInvalid {
		t.Errorf("foreign secret: want ErrTokenInvalid, got %v", err)
	}
}

func TestTokenCodec_WrongIssuerAudience(t *testing.T) {
	c := NewTestTokenCodec()
	wrongIss := NewTokenCodec(
		[]byte("test-access-secret-0123456789abcdef"),
		[]byte("test-refresh-secret-0123456789abcdef"),
		"other-issuer", "test-audience",
		15*time.Minute, 7*24*time.Hour,
	)

	access, _, err := c.MintAccess("u1")
	if err != nil {
		t.Fatalf("MintAccess: %v", err)
	}
	if _, err := wrongIss.VerifyAccess(access); err != ErrTokenInvalid {
		t.Errorf("wrong issuer: want ErrTokenInvalid, got %v", err)
	}
}

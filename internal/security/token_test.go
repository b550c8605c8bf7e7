package security

import (
	"testing"
	"time"
)

func testCodec() *JWTCodec {
	return NewJWTCodec("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestSignAndVerify_Access(t *testing.T) {
	codec := testCodec()

	token, err := codec.Sign("user_1", "ADMIN", TokenClassAccess)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	claims, err := codec.Verify(token, TokenClassAccess)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.Subject != "user_1" {
		t.Errorf("sub = %s, want user_1", claims.Subject)
	}
	if claims.Role != "ADMIN" {
		t.Errorf("role = %s, want ADMIN", claims.Role)
	}
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		t.Fatal("iat and exp must be set")
	}

	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if lifetime != 15*time.Minute {
		t.Errorf("access token lifetime = %s, want 15m", lifetime)
	}
}

func TestSign_RefreshOmitsRole(t *testing.T) {
	codec := testCodec()

	token, err := codec.Sign("user_1", "ADMIN", TokenClassRefresh)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	claims, err := codec.Verify(token, TokenClassRefresh)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.Role != "" {
		t.Errorf("refresh token carries role %q, want none", claims.Role)
	}
	if claims.Subject != "user_1" {
		t.Errorf("sub = %s, want user_1", claims.Subject)
	}
}

// The two classes are signed with distinct secrets, so a token of one
// class never verifies as the other.
func TestVerify_ClassMismatch(t *testing.T) {
	codec := testCodec()

	access, err := codec.Sign("user_1", "CUSTOMER", TokenClassAccess)
	if err != nil {
		t.Fatal(err)
	}
	refresh, err := codec.Sign("user_1", "", TokenClassRefresh)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := codec.Verify(access, TokenClassRefresh); err == nil {
		t.Error("access token verified as refresh token")
	}
	if _, err := codec.Verify(refresh, TokenClassAccess); err == nil {
		t.Error("refresh token verified as access token")
	}
}

func TestVerify_Expired(t *testing.T) {
	codec := NewJWTCodec("access-secret", "refresh-secret", -time.Minute, -time.Minute)

	token, err := codec.Sign("user_1", "CUSTOMER", TokenClassAccess)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := codec.Verify(token, TokenClassAccess); err == nil {
		t.Error("expired token verified")
	}
}

func TestVerify_Garbage(t *testing.T) {
	codec := testCodec()

	if _, err := codec.Verify("not.a.jwt", TokenClassAccess); err == nil {
		t.Error("garbage verified as a token")
	}
}

func TestSign_UniqueTokens(t *testing.T) {
	codec := testCodec()

	first, err := codec.Sign("user_1", "", TokenClassRefresh)
	if err != nil {
		t.Fatal(err)
	}
	second, err := codec.Sign("user_1", "", TokenClassRefresh)
	if err != nil {
		t.Fatal(err)
	}

	if first == second {
		t.Error("two tokens for the same subject must differ")
	}
}

func TestUnknownClass(t *testing.T) {
	codec := testCodec()

	if _, err := codec.Sign("user_1", "", TokenClass("session")); err == nil {
		t.Error("unknown class accepted by Sign")
	}
	if _, err := codec.Verify("x", TokenClass("session")); err == nil {
		t.Error("unknown class accepted by Verify")
	}
	if codec.Lifetime(TokenClass("session")) != 0 {
		t.Error("unknown class should have zero lifetime")
	}
}

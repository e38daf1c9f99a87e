package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/devconnect/backend/internal/apperror"
)

const testSecret = "test-secret-at-least-16-chars!!"

func newTestVerifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier(testSecret)
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	return v
}

// signToken mints a token the way the identity provider would: HS256 over the
// shared secret with an arbitrary claims payload.
func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return signed
}

func validClaims(subject string) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   subject,
		"email": "dev@example.com",
		"role":  "authenticated",
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}
}

func TestNewVerifier_ShortSecret(t *testing.T) {
	_, err := NewVerifier("short")
	if err == nil {
		t.Fatal("NewVerifier() should reject secrets shorter than 16 chars")
	}
}

func TestVerify_ValidToken(t *testing.T) {
	v := newTestVerifier(t)
	raw := signToken(t, testSecret, validClaims("user-abc-123"))

	identity, err := v.Verify(raw)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if identity.Subject != "user-abc-123" {
		t.Errorf("Subject = %q, want %q", identity.Subject, "user-abc-123")
	}
	if identity.Email != "dev@example.com" {
		t.Errorf("Email = %q, want %q", identity.Email, "dev@example.com")
	}
	if identity.Role != "authenticated" {
		t.Errorf("Role = %q, want %q", identity.Role, "authenticated")
	}
}

func TestVerify_ResidualClaimsMergedWithoutShadowing(t *testing.T) {
	v := newTestVerifier(t)
	claims := validClaims("user-1")
	claims["app_metadata"] = map[string]any{"provider": "google"}
	claims["session_id"] = "sess-42"

	identity, err := v.Verify(signToken(t, testSecret, claims))
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if _, ok := identity.Claims["session_id"]; !ok {
		t.Error("residual claim session_id should be carried on Identity.Claims")
	}
	// sub/email/role live on the typed fields, not in the residual map —
	// a colliding payload key cannot shadow the verified values.
	for _, reserved := range []string{"sub", "email", "role"} {
		if _, ok := identity.Claims[reserved]; ok {
			t.Errorf("reserved claim %q should not appear in Claims map", reserved)
		}
	}
}

func TestVerify_TamperedSignature(t *testing.T) {
	v := newTestVerifier(t)
	raw := signToken(t, "a-completely-different-secret!!", validClaims("user-1"))

	_, err := v.Verify(raw)
	if err == nil {
		t.Fatal("Verify() should reject a token signed with another secret")
	}
	if !errors.Is(err, apperror.ErrUnauthenticated) {
		t.Errorf("error should match ErrUnauthenticated, got %v", err)
	}
}

func TestVerify_ExpiredToken(t *testing.T) {
	v := newTestVerifier(t)
	claims := validClaims("user-1")
	claims["exp"] = time.Now().Add(-time.Minute).Unix()

	_, err := v.Verify(signToken(t, testSecret, claims))
	if err == nil {
		t.Fatal("Verify() should reject an expired token")
	}
	if !errors.Is(err, apperror.ErrUnauthenticated) {
		t.Errorf("error should match ErrUnauthenticated, got %v", err)
	}
}

func TestVerify_MissingExpiry(t *testing.T) {
	v := newTestVerifier(t)
	claims := validClaims("user-1")
	delete(claims, "exp")

	if _, err := v.Verify(signToken(t, testSecret, claims)); err == nil {
		t.Fatal("Verify() should reject a token without an expiry claim")
	}
}

func TestVerify_MissingSubject(t *testing.T) {
	v := newTestVerifier(t)
	claims := validClaims("")

	if _, err := v.Verify(signToken(t, testSecret, claims)); err == nil {
		t.Fatal("Verify() should reject a token without a subject")
	}
}

func TestVerify_Garbage(t *testing.T) {
	v := newTestVerifier(t)

	_, err := v.Verify("not-a-jwt-at-all")
	if err == nil {
		t.Fatal("Verify() should reject a malformed token")
	}
	if !errors.Is(err, apperror.ErrUnauthenticated) {
		t.Errorf("error should match ErrUnauthenticated, got %v", err)
	}
}

func TestVerify_ClientSafeMessage(t *testing.T) {
	v := newTestVerifier(t)

	_, err := v.Verify("garbage")
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatal("expected an *apperror.AppError")
	}
	// Regardless of what went wrong, the client sees a fixed message.
	if appErr.Message != "Invalid token" {
		t.Errorf("Message = %q, want %q", appErr.Message, "Invalid token")
	}
}

// Package auth verifies identity-provider tokens and gates protected routes.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. The client signs in with the external identity provider and receives a
//    signed JWT access token.
// 2. The client calls POST /api/me/sync with `Authorization: Bearer <token>`
//    so this service can reconcile its own profile row for the subject.
// 3. On every protected request, middleware validates the token's signature
//    against the provider's shared secret and puts the resolved Identity in
//    the request context.
//
// This service never issues tokens. The provider is a black box; the only
// contract is the HS256 signature over the shared secret and the standard
// temporal claims. Verification is stateless and re-run per request — there
// is no server-side session cache.
package auth

import (
	"errors"
	"maps"

	"github.com/golang-jwt/jwt/v5"

	"github.com/devconnect/backend/internal/apperror"
)

// Identity is the verified caller extracted from a token.
//
// Subject is the provider's stable user id and doubles as the profile primary
// key. Claims carries every residual claim from the token payload; "sub",
// "email", and "role" are removed from the map because the typed fields take
// precedence — a token whose payload smuggles a second "sub" cannot shadow
// the verified subject.
type Identity struct {
	Subject string
	Email   string
	Role    string
	Claims  map[string]any
}

// Verifier validates provider-issued JWTs against the shared signing secret.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier with the provider's signing secret.
// The secret should be at least 32 bytes of random data in production.
func NewVerifier(secret string) (*Verifier, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: signing secret must be at least 16 characters")
	}
	return &Verifier{secret: []byte(secret)}, nil
}

// Verify parses and validates a raw token string and returns the caller's
// Identity.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid against the shared secret
//   - Token is not expired and not used before its not-before time
//   - Algorithm is HS256 (prevents algorithm confusion attacks)
//
// Any failure — malformed, expired, bad signature, missing subject — comes
// back as apperror.ErrUnauthenticated with a fixed client-safe message.
// The underlying cause stays on the error chain for logging only.
func (v *Verifier) Verify(rawToken string) (*Identity, error) {
	claims := jwt.MapClaims{}

	_, err := jwt.ParseWithClaims(
		rawToken,
		claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return v.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, invalidToken(err)
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, invalidToken(errors.New("token has no subject"))
	}

	identity := &Identity{
		Subject: subject,
		Claims:  make(map[string]any, len(claims)),
	}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	if role, ok := claims["role"].(string); ok {
		identity.Role = role
	}

	// Residual claims: everything else the provider put in the payload.
	maps.Copy(identity.Claims, claims)
	delete(identity.Claims, "sub")
	delete(identity.Claims, "email")
	delete(identity.Claims, "role")

	return identity, nil
}

// invalidToken wraps the verification failure under a single client-facing
// message. Whether the token was expired, tampered with, or garbage is an
// internal detail the response must not reveal.
func invalidToken(cause error) error {
	appErr := apperror.Unauthenticated("Invalid token")
	appErr.Err = errors.Join(appErr.Err, cause)
	return appErr
}

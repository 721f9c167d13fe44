package token

import (
	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Claims represents the fields decoded from a bearer token's payload segment.
// The signature is never verified: decoded claims are informational only
// (routing and UI convenience) and must never gate a security-sensitive
// action on the client. All real authorization stays server-side.
type Claims struct {
	Exp   int64          // Expiration, seconds since epoch
	Sub   string         // Subject - the user's email
	Extra map[string]any // Remaining claims, untyped
}

// DecodeClaims parses the claims payload of a bearer token without verifying
// its signature. A malformed token yields ok == false rather than an error;
// callers treat that the same as an expired token.
func DecodeClaims(rawToken string) (Claims, bool) {
	unverifiedToken, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return Claims{}, false
	}

	unverifiedClaims, ok := unverifiedToken.Claims.(jwtlib.MapClaims)
	if !ok {
		return Claims{}, false
	}

	exp, _ := unverifiedClaims["exp"].(float64)
	sub, _ := unverifiedClaims["sub"].(string)

	extra := make(map[string]any)
	for name, value := range unverifiedClaims {
		if name == "exp" || name == "sub" {
			continue
		}
		extra[name] = value
	}

	return Claims{Exp: int64(exp), Sub: sub, Extra: extra}, true
}

// ExpiryEpochMillis returns the token's expiry in milliseconds since epoch,
// or 0 when the token cannot be decoded. Zero always means "already expired"
// to callers, never "no expiry".
func ExpiryEpochMillis(rawToken string) int64 {
	claims, ok := DecodeClaims(rawToken)
	if !ok {
		return 0
	}
	return claims.Exp * 1000
}

// Subject returns the claims' sub field, or an empty string when the token
// cannot be decoded or carries no subject.
func Subject(rawToken string) string {
	claims, ok := DecodeClaims(rawToken)
	if !ok {
		return ""
	}
	return claims.Sub
}

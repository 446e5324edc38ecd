package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
)

// GoogleClaims is the subset of a verified Google ID token this service
// cares about.
type GoogleClaims struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

func VerifyGoogleIDToken(ctx context.Context, tokenString, expectedAud string) (*GoogleClaims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, errors.New("missing id token")
	}
	if strings.TrimSpace(expectedAud) == "" {
		return nil, errors.New("missing google client id")
	}

	payload, err := idtoken.Validate(ctx, tokenString, expectedAud)
	if err != nil {
		return nil, err
	}
	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return nil, fmt.Errorf("unexpected issuer: %s", payload.Issuer)
	}

	claims := &GoogleClaims{Subject: payload.Subject}
	claims.Email = strings.TrimSpace(strings.ToLower(stringClaim(payload.Claims, "email")))
	claims.Name = strings.TrimSpace(stringClaim(payload.Claims, "name"))
	claims.Picture = strings.TrimSpace(stringClaim(payload.Claims, "picture"))
	if claims.Email == "" {
		return nil, errors.New("id token missing email claim")
	}

	return claims, nil
}

func stringClaim(claims map[string]any, key string) string {
	raw, ok := claims[key]
	if !ok {
		return ""
	}
	v, ok := raw.(string)
	if !ok {
		return ""
	}
	return v
}

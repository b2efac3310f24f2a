// Package identity resolves the calling user from request credentials.
//
// Two mechanisms are accepted: a bearer JWT (subject = user id) or a plain
// x-user-id header. An invalid bearer token is rejected outright - it does
// NOT fall back to the header, so a client presenting a bad token always
// learns the token was the problem.
package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

var (
	// ErrNoIdentity means no credentials were supplied at all.
	ErrNoIdentity = errors.New("no identity supplied")
	// ErrInvalidToken means a bearer token was supplied but failed verification.
	ErrInvalidToken = errors.New("invalid bearer token")
	// ErrMalformedIdentity means the supplied user id is not a well-formed reference.
	ErrMalformedIdentity = errors.New("malformed user id")
)

const bearerPrefix = "bearer "

// Resolver verifies bearer tokens and parses identity headers.
type Resolver struct {
	secret []byte
	clock  clockwork.Clock
}

func NewResolver(secret string, clock clockwork.Clock) *Resolver {
	return &Resolver{secret: []byte(secret), clock: clock}
}

// Resolve returns the caller's user id from the Authorization header or,
// when no Authorization header is present, from the x-user-id header.
func (r *Resolver) Resolve(authorization, userIDHeader string) (uuid.UUID, error) {
	authorization = strings.TrimSpace(authorization)

	if authorization != "" {
		if !strings.HasPrefix(strings.ToLower(authorization), bearerPrefix) {
			return uuid.Nil, ErrInvalidToken
		}
		return r.resolveToken(strings.TrimSpace(authorization[len(bearerPrefix):]))
	}

	if userIDHeader == "" {
		return uuid.Nil, ErrNoIdentity
	}

	userID, err := uuid.Parse(userIDHeader)
	if err != nil {
		return uuid.Nil, ErrMalformedIdentity
	}
	return userID, nil
}

func (r *Resolver) resolveToken(token string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) { return r.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(r.clock.Now),
	)
	if err != nil || !parsed.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}

// Mint signs a token for a user. Used by seeding and user registration.
func (r *Resolver) Mint(userID uuid.UUID, ttl time.Duration) (string, error) {
	now := r.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

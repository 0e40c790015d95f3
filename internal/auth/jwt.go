package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/heartmarshall/zinote-backend/internal/domain"
	"github.com/heartmarshall/zinote-backend/pkg/ctxutil"
)

// ErrSigningDisabled is returned when no secret is configured. The server
// then accepts no tokens at all and every request is anonymous.
var ErrSigningDisabled = errors.New("token signing disabled: auth.jwt_secret is empty")

// JWTManager issues and validates HS256 access tokens. Tokens carry the
// actor ID as subject plus the email and guest flag as custom claims.
type JWTManager struct {
	secret    []byte
	issuer    string
	accessTTL time.Duration
	parser    *jwt.Parser
}

// NewJWTManager creates a new JWT manager. An empty secret disables both
// issuing and validation.
func NewJWTManager(secret string, issuer string, accessTTL time.Duration) *JWTManager {
	return &JWTManager{
		secret:    []byte(secret),
		issuer:    issuer,
		accessTTL: accessTTL,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
	}
}

type accessClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Guest bool   `json:"guest,omitempty"`
}

// GenerateAccessToken creates a signed token for the actor.
func (m *JWTManager) GenerateAccessToken(actor ctxutil.Actor) (string, error) {
	if len(m.secret) == 0 {
		return "", ErrSigningDisabled
	}
	if actor.ID == "" {
		return "", errors.New("actor id is empty")
	}

	now := time.Now()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   actor.ID,
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email: actor.Email,
		Guest: actor.Guest,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateAccessToken checks signature, issuer and expiry and returns the
// actor the token was issued for. Failures wrap domain.ErrUnauthorized.
func (m *JWTManager) ValidateAccessToken(tokenString string) (ctxutil.Actor, error) {
	if len(m.secret) == 0 {
		return ctxutil.Actor{}, fmt.Errorf("%w: %w", domain.ErrUnauthorized, ErrSigningDisabled)
	}
	if tokenString == "" {
		return ctxutil.Actor{}, fmt.Errorf("%w: token is empty", domain.ErrUnauthorized)
	}

	var claims accessClaims
	_, err := m.parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return ctxutil.Actor{}, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return ctxutil.Actor{}, fmt.Errorf("%w: token has no subject", domain.ErrUnauthorized)
	}

	return ctxutil.Actor{
		ID:    claims.Subject,
		Email: claims.Email,
		Guest: claims.Guest,
	}, nil
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Flarenzy/labcam/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = fmt.Errorf("%w: token expired", domain.ErrUnauthorized)
)

const defaultLeeway = 5 * time.Second

// TokenSource supplies the bearer token attached to NVR requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type staticTokenSource struct {
	raw       string
	principal Principal
	isJWT     bool
	leeway    time.Duration
	clock     clockwork.Clock
}

// NewTokenSource returns nil when no token is configured. Tokens that parse
// as JWTs get their exp claim enforced before every request; anything else
// is sent as an opaque bearer token.
func NewTokenSource(cfg Config) (TokenSource, error) {
	return newTokenSource(cfg, clockwork.NewRealClock())
}

func newTokenSource(cfg Config, clock clockwork.Clock) (TokenSource, error) {
	if cfg.Token == "" {
		return nil, nil
	}

	leeway := cfg.Leeway
	if leeway <= 0 {
		leeway = defaultLeeway
	}

	src := &staticTokenSource{
		raw:    cfg.Token,
		leeway: leeway,
		clock:  clock,
	}

	principal, err := ParseToken(cfg.Token)
	if err == nil {
		src.principal = principal
		src.isJWT = true
	}

	return src, nil
}

func (s *staticTokenSource) Token(_ context.Context) (string, error) {
	if s.isJWT && !s.principal.ExpiresAt.IsZero() && s.clock.Now().After(s.principal.ExpiresAt.Add(s.leeway)) {
		return "", ErrTokenExpired
	}
	return s.raw, nil
}

// PrincipalOf returns the parsed claims of a JWT token source.
func PrincipalOf(src TokenSource) (Principal, bool) {
	s, ok := src.(*staticTokenSource)
	if !ok || !s.isJWT {
		return Principal{}, false
	}
	return s.principal, true
}

// ParseToken decodes the claims of a JWT without verifying its signature.
func ParseToken(raw string) (Principal, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	principal := Principal{
		Issuer:  stringClaim(claims, "iss"),
		Subject: stringClaim(claims, "sub"),
		Claims:  claims,
	}
	if aud, err := claims.GetAudience(); err == nil {
		principal.Audience = aud
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		principal.ExpiresAt = exp.Time
	}

	return principal, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	value, ok := claims[key].(string)
	if !ok {
		return ""
	}
	return value
}

package auth

import (
	"crypto/subtle"
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nestapp/backend/internal/domain/shared"
	"github.com/nestapp/backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingSubject   = errors.New("missing subject in claims")
	ErrMissingSecret    = errors.New("jwt secret is not configured")
)

// Claims are the JWT claims accepted from the admin console.
// The subject becomes the audit actor.
type Claims struct {
	jwt.RegisteredClaims
	Name string `json:"name,omitempty"`
}

// Actor returns the audit actor carried by the token.
func (c *Claims) Actor() string {
	return c.Subject
}

// TokenService verifies the admin console's HS256 bearer tokens and checks the bot's
// static service token.
type TokenService struct {
	secret       []byte
	issuer       string
	serviceToken []byte
}

// NewTokenService creates a token service from auth configuration
func NewTokenService(cfg config.AuthConfig) *TokenService {
	return &TokenService{
		secret:       []byte(cfg.JWTSecret),
		issuer:       cfg.Issuer,
		serviceToken: []byte(cfg.ServiceToken),
	}
}

// Verify validates a bearer token and returns its claims
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	if len(s.secret) == 0 {
		return nil, ErrMissingSecret
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}
	return claims, nil
}

// IsServiceToken reports whether presented is the configured bot token.
// An unset service token never matches.
func (s *TokenService) IsServiceToken(presented string) bool {
	if len(s.serviceToken) == 0 || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare(s.serviceToken, []byte(presented)) == 1
}

// IdentityFor resolves the identity of a verified caller on channel.
func IdentityFor(claims *Claims, channel shared.Channel) shared.Identity {
	if claims == nil {
		return shared.NewIdentity("", channel)
	}
	return shared.NewIdentity(claims.Actor(), channel)
}

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/nestapp/backend/internal/domain/shared"
	"github.com/nestapp/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService() *TokenService {
	return NewTokenService(config.AuthConfig{
		Enabled:      true,
		JWTSecret:    testSecret,
		Issuer:       "nest-test",
		ServiceToken: "bot-token-123",
	})
}

// signToken mints an HS256 token the way the admin console does
func signToken(t *testing.T, secret, issuer, subject string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

const testSecret = "test-secret-key-at-least-32-chars"

func TestVerify(t *testing.T) {
	svc := newTestTokenService()
	token := signToken(t, testSecret, "nest-test", "sari@nest.id", time.Hour)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "sari@nest.id", claims.Actor())
	assert.Equal(t, "nest-test", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestVerify_Expired(t *testing.T) {
	svc := newTestTokenService()
	token := signToken(t, testSecret, "nest-test", "sari", -time.Minute)

	_, err := svc.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerify_Malformed(t *testing.T) {
	_, err := newTestTokenService().Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_DifferentSecret(t *testing.T) {
	token := signToken(t, "another-secret-key-of-32-chars!!", "nest-test", "sari", time.Hour)

	_, err := newTestTokenService().Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongIssuer(t *testing.T) {
	token := signToken(t, testSecret, "someone-else", "sari", time.Hour)

	_, err := newTestTokenService().Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "sari",
		Issuer:    "nest-test",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestTokenService().Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_MissingSubject(t *testing.T) {
	svc := newTestTokenService()
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    "nest-test",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.secret)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrMissingSubject)
}

func TestVerify_SecretNotConfigured(t *testing.T) {
	unset := NewTokenService(config.AuthConfig{})
	_, err := unset.Verify(signToken(t, testSecret, "", "sari", time.Hour))
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestIsServiceToken(t *testing.T) {
	svc := newTestTokenService()
	assert.True(t, svc.IsServiceToken("bot-token-123"))
	assert.False(t, svc.IsServiceToken("bot-token-124"))
	assert.False(t, svc.IsServiceToken(""))

	unset := NewTokenService(config.AuthConfig{})
	assert.False(t, unset.IsServiceToken(""))
	assert.False(t, unset.IsServiceToken("bot-token-123"))
}

func TestIdentityFor(t *testing.T) {
	id := IdentityFor(&Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "sari"}}, shared.ChannelWeb)
	assert.Equal(t, "sari", id.Actor)
	assert.Equal(t, shared.ExecutorWeb, id.Executor())

	id = IdentityFor(nil, shared.ChannelWhatsApp)
	assert.Equal(t, shared.DefaultActor, id.Actor)
	assert.Equal(t, shared.ExecutorClawdbot, id.Executor())
}

package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nestapp/backend/internal/domain/shared"
	"github.com/nestapp/backend/internal/infrastructure/auth"
	"github.com/nestapp/backend/internal/infrastructure/logger"
	"github.com/nestapp/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Identity context keys
const (
	IdentityKey   = "identity"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
	// ActorHeader lets the bot name the operator it relays for
	ActorHeader = "X-Actor"
)

// IdentityConfig holds configuration for the identity middleware
type IdentityConfig struct {
	Tokens *auth.TokenService
	// Required rejects requests without a valid bearer token
	Required bool
	Logger   *zap.Logger
}

// Identity resolves the caller of a request.
//
// A bearer equal to the bot service token yields a WHATSAPP identity. A bearer
// JWT yields its subject as actor on the channel named by X-Channel (WEB when
// absent). Without a token the caller is ADMIN on WEB, unless Required is set.
func Identity(cfg IdentityConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		token, hasToken, err := bearerToken(c)
		if err != nil {
			abortUnauthorized(c, log, err.Error())
			return
		}

		var identity shared.Identity
		switch {
		case hasToken && cfg.Tokens.IsServiceToken(token):
			identity = shared.NewIdentity(c.GetHeader(ActorHeader), shared.ChannelWhatsApp)
		case hasToken:
			claims, verr := cfg.Tokens.Verify(token)
			if verr != nil {
				abortUnauthorized(c, log, tokenErrorMessage(verr))
				return
			}
			channel, cerr := shared.ParseChannel(c.GetHeader(ChannelHeader))
			if cerr != nil {
				abortWithDomainError(c, cerr)
				return
			}
			identity = auth.IdentityFor(claims, channel)
		case cfg.Required:
			abortUnauthorized(c, log, "Missing authorization header")
			return
		default:
			channel, cerr := shared.ParseChannel(c.GetHeader(ChannelHeader))
			if cerr != nil {
				abortWithDomainError(c, cerr)
				return
			}
			identity = shared.NewIdentity("", channel)
		}

		setIdentity(c, identity)
		c.Next()
	}
}

// RequireServiceToken admits only the bot's service token and fixes the
// channel to WHATSAPP.
func RequireServiceToken(tokens *auth.TokenService, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		token, hasToken, err := bearerToken(c)
		if err != nil || !hasToken || !tokens.IsServiceToken(token) {
			abortUnauthorized(c, log, "Invalid service token")
			return
		}
		setIdentity(c, shared.NewIdentity(c.GetHeader(ActorHeader), shared.ChannelWhatsApp))
		c.Next()
	}
}

// GetIdentity returns the identity resolved for the request.
// Requests that bypassed the identity middleware run as ADMIN on WEB.
func GetIdentity(c *gin.Context) shared.Identity {
	if v, ok := c.Get(IdentityKey); ok {
		if identity, ok := v.(shared.Identity); ok {
			return identity
		}
	}
	return shared.NewIdentity("", shared.ChannelWeb)
}

func setIdentity(c *gin.Context, identity shared.Identity) {
	c.Set(IdentityKey, identity)
	ctx := logger.WithFields(c.Request.Context(),
		zap.String("actor", identity.Actor),
		zap.String("channel", string(identity.Channel)),
	)
	c.Request = c.Request.WithContext(ctx)
}

// bearerToken extracts the bearer token. hasToken is false when no
// Authorization header was sent at all.
func bearerToken(c *gin.Context) (token string, hasToken bool, err error) {
	header := c.GetHeader(AuthHeaderKey)
	if header == "" {
		return "", false, nil
	}
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", true, errors.New("invalid authorization header format")
	}
	token = strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	if token == "" {
		return "", true, errors.New("missing bearer token")
	}
	return token, true, nil
}

func tokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		return "Token is not yet valid"
	case errors.Is(err, auth.ErrMissingSecret):
		return "Token authentication is not configured"
	default:
		return "Invalid token"
	}
}

func abortUnauthorized(c *gin.Context, log *zap.Logger, message string) {
	log.Warn("Authentication failed",
		zap.String("reason", message),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", GetRequestID(c)),
	)
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, message, GetRequestID(c)))
}

func abortWithDomainError(c *gin.Context, err error) {
	code := dto.NormalizeErrorCode(shared.ErrorCode(err))
	message := err.Error()
	var de *shared.DomainError
	if errors.As(err, &de) {
		message = de.Message
	}
	c.AbortWithStatusJSON(dto.GetHTTPStatus(code),
		dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

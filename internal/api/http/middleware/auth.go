// Package middleware holds the gin middlewares: request authentication
// and request logging.
package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/routineapp/routine-server/internal/logger"
	"github.com/routineapp/routine-server/internal/model"
)

// Cookie names the tokens travel in. Shared with the auth handler, which
// sets and clears them.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// AuthType names a credential class a route accepts.
type AuthType int

const (
	// AuthNone admits the request without credentials.
	AuthNone AuthType = iota
	// AuthAccessToken requires a verifiable access token cookie.
	AuthAccessToken
	// AuthRefreshToken requires a verifiable refresh token cookie.
	AuthRefreshToken
)

func (t AuthType) String() string {
	switch t {
	case AuthNone:
		return "none"
	case AuthAccessToken:
		return "access_token"
	case AuthRefreshToken:
		return "refresh_token"
	default:
		return "unknown"
	}
}

var errUnknownAuthType = errors.New("unknown auth type")

// Dispatcher checks each route's accepted credential classes in order and
// admits the request on the first class that verifies. Verification here
// is signature and claims only; single-use enforcement stays with the
// services that redeem session entries.
type Dispatcher struct {
	codec          model.TokenCodec
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewDispatcher creates the authentication dispatcher.
func NewDispatcher(codec model.TokenCodec, contextManager model.ContextManager, logger *logger.Logger) *Dispatcher {
	return &Dispatcher{codec: codec, contextManager: contextManager, logger: logger}
}

// Authenticate returns a middleware admitting requests that satisfy any
// of the given credential classes, tried in order. With no classes given
// the route requires an access token. On success the verified claims are
// attached to the request context; on failure the response is a 401
// carrying the last class's error.
func (d *Dispatcher) Authenticate(types ...AuthType) gin.HandlerFunc {
	if len(types) == 0 {
		types = []AuthType{AuthAccessToken}
	}

	return func(c *gin.Context) {
		var lastErr error
		for _, authType := range types {
			claims, err := d.verify(c, authType)
			if err != nil {
				lastErr = err
				continue
			}

			if authType != AuthNone {
				ctx := d.contextManager.SetClaimsToContext(c.Request.Context(), claims)
				c.Request = c.Request.WithContext(ctx)
			}
			c.Next()
			return
		}

		// The rejection body is deliberately uniform: which class failed,
		// and why, stays in the log.
		d.logger.Info("request rejected",
			"path", c.FullPath(),
			"error", lastErr.Error())
		_ = c.Error(lastErr)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
	}
}

func (d *Dispatcher) verify(c *gin.Context, authType AuthType) (model.TokenClaims, error) {
	switch authType {
	case AuthNone:
		return model.TokenClaims{}, nil
	case AuthAccessToken:
		token, err := c.Cookie(AccessTokenCookie)
		if err != nil || token == "" {
			return model.TokenClaims{}, errors.New("missing access token")
		}
		return d.codec.ParseAccessToken(token)
	case AuthRefreshToken:
		token, err := c.Cookie(RefreshTokenCookie)
		if err != nil || token == "" {
			return model.TokenClaims{}, errors.New("missing refresh token")
		}
		return d.codec.ParseRefreshToken(token)
	default:
		return model.TokenClaims{}, errUnknownAuthType
	}
}

package utils

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"jwtpizza/apperror"
	"jwtpizza/auth"
	"jwtpizza/logger"
)

const identityKey = "identity"

// Authenticator resolves a bearer token into the acting identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.Identity, error)
}

// BearerToken extracts the token from an Authorization header, or "" when absent.
func BearerToken(authHeader string) string {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// IdentityMiddleware attaches the caller's identity to the context. Requests without a
// usable token continue anonymously; RequireAuth decides which routes need a session.
// Only failures to check the token at all abort the request.
func IdentityMiddleware(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(identityKey, auth.Anonymous)

		token := BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.Next()
			return
		}

		identity, err := authn.Authenticate(c.Request.Context(), token)
		switch {
		case err == nil:
			c.Set(identityKey, identity)
		case apperror.Is(err, apperror.Unauthorized):
			// stale or forged tokens count as no token
		default:
			abortWithError(c, err)
			return
		}
		c.Next()
	}
}

// RequireAuth rejects anonymous callers.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IdentityFrom(c).Authenticated() {
			abortWithError(c, apperror.New(apperror.Unauthorized, "unauthorized"))
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the identity set by IdentityMiddleware, or Anonymous.
func IdentityFrom(c *gin.Context) auth.Identity {
	v, exists := c.Get(identityKey)
	if !exists {
		return auth.Anonymous
	}
	identity, ok := v.(auth.Identity)
	if !ok {
		return auth.Anonymous
	}
	return identity
}

// ErrorBody is the JSON shape of every failed response.
func ErrorBody(err error) gin.H {
	return gin.H{
		"message": apperror.Message(err),
		"code":    apperror.KindOf(err).String(),
	}
}

func abortWithError(c *gin.Context, err error) {
	status := apperror.KindOf(err).Status()
	if status == http.StatusInternalServerError {
		c.Error(err)
	}
	c.AbortWithStatusJSON(status, ErrorBody(err))
}

// RequestLogger writes one structured line per request.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}
		if id := IdentityFrom(c); id.Authenticated() {
			fields["userId"] = id.UserID.String()
		}
		switch {
		case len(c.Errors) > 0:
			log.WithError(c.Errors.Last()).Error("request", fields)
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("request", fields)
		default:
			log.Info("request", fields)
		}
	}
}

package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"admin-console/internal/clients"
	"admin-console/internal/models"
	"admin-console/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	userKey   = "user"
	claimsKey = "session_claims"
)

// LoginPath is where browser navigation without a session is sent.
const LoginPath = "/login"

// RequireSession blocks requests without a valid session cookie. API
// callers get 401; browser navigation is redirected to the login page.
func RequireSession(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := manager.FromRequest(c.Request)
		if errors.Is(err, session.ErrUnavailable) {
			// The cookie may be fine; keep it and let the caller retry.
			c.Error(NewServiceUnavailableError("Session check is temporarily unavailable"))
			c.Abort()
			return
		}
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				manager.ClearCookie(c.Writer)
			}
			if wantsHTML(c.Request) {
				c.Redirect(http.StatusFound, LoginPath+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
				c.Abort()
				return
			}
			message := "Authentication required"
			if errors.Is(err, session.ErrRevoked) {
				message = "Session has been logged out"
			}
			c.Error(NewUnauthorizedError(message))
			c.Abort()
			return
		}

		c.Set(userKey, claims.User)
		c.Set(claimsKey, claims)
		c.Set("user_id", claims.User.ID)
		c.Request = c.Request.WithContext(clients.WithBearerToken(c.Request.Context(), claims.BackendToken))
		c.Next()
	}
}

// RequireRole lets through users holding role. super_admin holds every role.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return RequireAnyRole(requiredRole)
}

// RequireAnyRole lets through users holding any of roles.
func RequireAnyRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.Error(NewUnauthorizedError("Authentication required"))
			c.Abort()
			return
		}
		for _, role := range roles {
			if user.HasRole(role) {
				c.Next()
				return
			}
		}
		c.Error(NewForbiddenError(fmt.Sprintf("Required role: %s", strings.Join(roles, " or "))))
		c.Abort()
	}
}

// CurrentUser returns the operator of the request.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}

// CurrentClaims returns the verified session of the request.
func CurrentClaims(c *gin.Context) (*session.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*session.Claims)
	return claims, ok
}

func wantsHTML(r *http.Request) bool {
	return r.Method == http.MethodGet && strings.Contains(r.Header.Get("Accept"), "text/html")
}

// OptionalSession loads the session when one is present and never blocks.
func OptionalSession(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := manager.FromRequest(c.Request); err == nil {
			c.Set(userKey, claims.User)
			c.Set(claimsKey, claims)
			c.Set("user_id", claims.User.ID)
		}
		c.Next()
	}
}

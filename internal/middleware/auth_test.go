package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"admin-console/internal/clients"
	"admin-console/internal/models"
	"admin-console/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(manager *session.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	router := gin.New()
	router.Use(ErrorHandler(logger))
	admin := router.Group("/admin", RequireSession(manager), RequireRole(models.RoleAdmin))
	admin.GET("/orders", func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{
			"email": user.Email,
			"token": clients.BearerToken(c.Request.Context()),
		})
	})
	return router
}

func sessionCookie(t *testing.T, m *session.Manager, user models.User) *http.Cookie {
	t.Helper()
	token, claims, err := m.Issue(user, "backend-token")
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	m.SetCookie(rec, token, claims.ExpiresAt.Time)
	return rec.Result().Cookies()[0]
}

func TestRequireSession(t *testing.T) {
	manager := session.NewManager(session.Options{Secret: "test", TTL: time.Hour})
	router := setupRouter(manager)

	t.Run("api call without session is 401", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var body models.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, ErrCodeUnauthorized, body.Error.Code)
	})

	t.Run("browser navigation is redirected to login", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/orders?page=2", nil)
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login?next=%2Fadmin%2Forders%3Fpage%3D2", w.Header().Get("Location"))
	})

	t.Run("non-admin is 403", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
		req.AddCookie(sessionCookie(t, manager, models.User{ID: "2", Email: "c@example.com", Role: "customer"}))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin passes with backend token in context", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
		req.AddCookie(sessionCookie(t, manager, models.User{ID: "1", Email: "a@example.com", Role: models.RoleAdmin}))
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"email":"a@example.com","token":"backend-token"}`, w.Body.String())
	})

	t.Run("revoked session is 401", func(t *testing.T) {
		token, claims, err := manager.Issue(models.User{ID: "1", Role: models.RoleAdmin}, "")
		require.NoError(t, err)
		require.NoError(t, manager.Revoke(t.Context(), claims))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
		req.AddCookie(&http.Cookie{Name: manager.CookieName(), Value: token})
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "logged out")
	})
}

type failingRevocations struct{}

func (failingRevocations) Revoke(context.Context, string, time.Time) error { return errors.New("down") }
func (failingRevocations) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("down")
}

func TestRequireSession_RevocationStoreOutage(t *testing.T) {
	t.Run("redis down keeps the operator signed in", func(t *testing.T) {
		client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
		defer client.Close()
		manager := session.NewManager(session.Options{Secret: "test", Revocations: session.NewRedisRevocations(client, nil)})
		router := setupRouter(manager)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
		req.AddCookie(sessionCookie(t, manager, models.User{ID: "1", Email: "a@example.com", Role: models.RoleAdmin}))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Set-Cookie"))
	})

	t.Run("failing store answers 503 and keeps the cookie", func(t *testing.T) {
		manager := session.NewManager(session.Options{Secret: "test", Revocations: failingRevocations{}})
		router := setupRouter(manager)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
		req.AddCookie(sessionCookie(t, manager, models.User{ID: "1", Email: "a@example.com", Role: models.RoleAdmin}))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), ErrCodeServiceUnavailable)
		assert.Empty(t, w.Header().Get("Set-Cookie"))
	})
}

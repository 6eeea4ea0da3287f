package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"admin-console/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUser = models.User{ID: "7", Email: "ops@example.com", Role: models.RoleAdmin}

func newTestManager() *Manager {
	return NewManager(Options{Secret: "test-secret", TTL: time.Hour})
}

func TestManager_IssueAndParse(t *testing.T) {
	m := newTestManager()

	token, issued, err := m.Issue(testUser, "backend-token")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := m.Parse(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, testUser, claims.User)
	assert.Equal(t, "backend-token", claims.BackendToken)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestManager_RejectsBadTokens(t *testing.T) {
	m := newTestManager()
	token, _, err := m.Issue(testUser, "")
	require.NoError(t, err)

	_, err = m.Parse(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoSession)

	other := NewManager(Options{Secret: "other-secret"})
	_, err = other.Parse(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidSession)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{User: testUser})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Parse(context.Background(), unsigned)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestManager_Expiry(t *testing.T) {
	m := newTestManager()
	start := time.Now()
	m.now = func() time.Time { return start }

	token, _, err := m.Issue(testUser, "")
	require.NoError(t, err)

	m.now = func() time.Time { return start.Add(2 * time.Hour) }
	_, err = m.Parse(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestManager_Revoke(t *testing.T) {
	m := newTestManager()
	token, claims, err := m.Issue(testUser, "")
	require.NoError(t, err)

	require.NoError(t, m.Revoke(context.Background(), claims))
	_, err = m.Parse(context.Background(), token)
	assert.ErrorIs(t, err, ErrRevoked)
}

func TestManager_Cookies(t *testing.T) {
	m := NewManager(Options{Secret: "s", CookieName: "sid", Secure: true})
	token, claims, err := m.Issue(testUser, "")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	m.SetCookie(rec, token, claims.ExpiresAt.Time)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	parsed, err := m.FromRequest(req)
	require.NoError(t, err)
	assert.Equal(t, claims.ID, parsed.ID)

	_, err = m.FromRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, ErrNoSession)

	rec = httptest.NewRecorder()
	m.ClearCookie(rec)
	assert.Equal(t, -1, rec.Result().Cookies()[0].MaxAge)
}

func TestMemoryRevocations_ExpireWithToken(t *testing.T) {
	r := NewMemoryRevocations()
	now := time.Now()
	r.now = func() time.Time { return now }

	require.NoError(t, r.Revoke(context.Background(), "a", now.Add(time.Minute)))
	require.NoError(t, r.Revoke(context.Background(), "gone", now.Add(-time.Minute)))

	revoked, _ := r.IsRevoked(context.Background(), "a")
	assert.True(t, revoked)
	revoked, _ = r.IsRevoked(context.Background(), "gone")
	assert.False(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, _ = r.IsRevoked(context.Background(), "a")
	assert.False(t, revoked)
}

func TestRedisRevocations_FallBackWhenRedisDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	m := NewManager(Options{Secret: "s", Revocations: NewRedisRevocations(client, nil)})
	token, claims, err := m.Issue(testUser, "")
	require.NoError(t, err)

	parsed, err := m.Parse(context.Background(), token)
	require.NoError(t, err, "an unreachable Redis must not end the session")
	assert.Equal(t, claims.ID, parsed.ID)

	require.NoError(t, m.Revoke(context.Background(), claims))
	_, err = m.Parse(context.Background(), token)
	assert.ErrorIs(t, err, ErrRevoked, "logouts on this replica still hold")
}

type brokenRevocations struct{}

func (brokenRevocations) Revoke(context.Context, string, time.Time) error { return errors.New("down") }
func (brokenRevocations) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("down")
}

func TestManager_RevocationStoreError(t *testing.T) {
	m := NewManager(Options{Secret: "s", Revocations: brokenRevocations{}})
	token, _, err := m.Issue(testUser, "")
	require.NoError(t, err)

	_, err = m.Parse(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrInvalidSession)
}

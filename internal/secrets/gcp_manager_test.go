package secrets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionName(t *testing.T) {
	sm := newManager("shop-prod", nil)

	assert.Equal(t, "projects/shop-prod/secrets/session-key/versions/latest", sm.VersionName("session-key"))
	assert.Equal(t, "projects/other/secrets/k/versions/latest", sm.VersionName("projects/other/secrets/k"))
	assert.Equal(t, "projects/other/secrets/k/versions/3", sm.VersionName("projects/other/secrets/k/versions/3"))
}

func TestAccess_CachesUntilTTL(t *testing.T) {
	calls := 0
	sm := newManager("shop-prod", func(_ context.Context, name string) ([]byte, error) {
		calls++
		assert.Equal(t, "projects/shop-prod/secrets/session-key/versions/latest", name)
		return []byte("s3cret\n"), nil
	})
	now := time.Now()
	sm.now = func() time.Time { return now }

	value, err := sm.Access(context.Background(), "session-key")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", value)

	_, err = sm.Access(context.Background(), "session-key")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	now = now.Add(6 * time.Minute)
	_, err = sm.Access(context.Background(), "session-key")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestAccess_Errors(t *testing.T) {
	sm := newManager("p", func(context.Context, string) ([]byte, error) {
		return nil, errors.New("permission denied")
	})
	_, err := sm.Access(context.Background(), "k")
	assert.ErrorContains(t, err, "permission denied")

	sm = newManager("p", func(context.Context, string) ([]byte, error) { return []byte("  "), nil })
	_, err = sm.Access(context.Background(), "k")
	assert.ErrorContains(t, err, "empty")
}

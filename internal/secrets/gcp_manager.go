package secrets

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

type cacheEntry struct {
	value     string
	expiresAt time.Time
}

// GCPSecretManager reads console secrets from Google Cloud Secret Manager.
type GCPSecretManager struct {
	client    *secretmanager.Client
	projectID string
	fetch     func(ctx context.Context, name string) ([]byte, error)

	cacheMu  sync.RWMutex
	cache    map[string]cacheEntry
	cacheTTL time.Duration
	now      func() time.Time
}

// NewGCPSecretManager creates a Secret Manager client for projectID using
// the ambient Google credentials.
func NewGCPSecretManager(ctx context.Context, projectID string) (*GCPSecretManager, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create secret manager client: %w", err)
	}
	sm := newManager(projectID, func(ctx context.Context, name string) ([]byte, error) {
		result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
		if err != nil {
			return nil, err
		}
		return result.GetPayload().GetData(), nil
	})
	sm.client = client
	return sm, nil
}

func newManager(projectID string, fetch func(ctx context.Context, name string) ([]byte, error)) *GCPSecretManager {
	return &GCPSecretManager{
		projectID: projectID,
		fetch:     fetch,
		cache:     make(map[string]cacheEntry),
		cacheTTL:  5 * time.Minute,
		now:       time.Now,
	}
}

// Close closes the Secret Manager client
func (sm *GCPSecretManager) Close() error {
	if sm.client != nil {
		return sm.client.Close()
	}
	return nil
}

// VersionName expands a secret id to its latest version resource name.
// Full resource names pass through; a missing version means latest.
func (sm *GCPSecretManager) VersionName(secretID string) string {
	name := secretID
	if !strings.HasPrefix(name, "projects/") {
		name = fmt.Sprintf("projects/%s/secrets/%s", sm.projectID, secretID)
	}
	if !strings.Contains(name, "/versions/") {
		name += "/versions/latest"
	}
	return name
}

// Access returns the payload of secretID as trimmed text.
func (sm *GCPSecretManager) Access(ctx context.Context, secretID string) (string, error) {
	name := sm.VersionName(secretID)

	sm.cacheMu.RLock()
	if entry, ok := sm.cache[name]; ok && sm.now().Before(entry.expiresAt) {
		sm.cacheMu.RUnlock()
		return entry.value, nil
	}
	sm.cacheMu.RUnlock()

	data, err := sm.fetch(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to access secret %s: %w", secretID, err)
	}
	value := strings.TrimSpace(string(data))
	if value == "" {
		return "", fmt.Errorf("secret %s is empty", secretID)
	}

	sm.cacheMu.Lock()
	sm.cache[name] = cacheEntry{value: value, expiresAt: sm.now().Add(sm.cacheTTL)}
	sm.cacheMu.Unlock()
	return value, nil
}

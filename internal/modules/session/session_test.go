package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/integridad-lab/taller-core/internal/models"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryCache() *memoryCache { return &memoryCache{data: make(map[string]string)} }

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = string(value.([]byte))
	return nil
}

func TestRegistryCreateAndGet(t *testing.T) {
	reg := NewRegistry(nil, zap.NewNop())

	sess := reg.Create("2026-03-10")
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "2026-03-10", sess.Date)

	got, ok := reg.Get(context.Background(), sess.ID)
	require.True(t, ok)
	assert.Same(t, sess, got)

	_, ok = reg.Get(context.Background(), "unknown")
	assert.False(t, ok)
}

func TestRegistryRestoresFromSnapshotCache(t *testing.T) {
	cache := newMemoryCache()
	logger := zap.NewNop()

	reg := NewRegistry(cache, logger)
	sess := reg.Create("2026-03-10")
	sess.SetAnalysis(&models.ThemeAnalysis{DominantTheme: "robo", EmotionalTone: "miedo"})
	sess.SetArticles([]models.NewsArticle{{Frame: models.FrameNeutral, Text: "hola"}})
	reg.Persist(context.Background(), sess)

	// Simulate a restart: a fresh registry backed by the same cache.
	fresh := NewRegistry(cache, logger)
	restored, ok := fresh.Get(context.Background(), sess.ID)
	require.True(t, ok)
	assert.Equal(t, sess.Date, restored.Date)
	require.NotNil(t, restored.Analysis())
	assert.Equal(t, "robo", restored.Analysis().DominantTheme)
	require.Len(t, restored.Articles(), 1)
}

func TestSessionCacheAccessors(t *testing.T) {
	sess := &Session{ID: "s1", Date: "2026-03-10"}

	assert.Nil(t, sess.Analysis())
	assert.Empty(t, sess.Articles())
	assert.Empty(t, sess.Insights())

	sess.SetInsights("## Principales patrones emocionales")
	assert.Contains(t, sess.Insights(), "patrones")
}

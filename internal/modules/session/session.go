package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/integridad-lab/taller-core/internal/models"
)

const (
	cacheKeyPrefix = "taller:session:"
	cacheTTL       = 24 * time.Hour
)

// Session is the explicit per-workshop context object. It owns the cached
// analysis artifacts for its date; the session itself is immutable after
// creation.
type Session struct {
	ID        string
	Date      string
	CreatedAt time.Time

	mu       sync.Mutex
	analysis *models.ThemeAnalysis
	articles []models.NewsArticle
	insights string

	// opMu serializes compute operations so a double submit cannot fire
	// two external call chains for the same session.
	opMu sync.Mutex
}

// BeginOp takes the per-session operation lock.
func (s *Session) BeginOp() { s.opMu.Lock() }

// EndOp releases the per-session operation lock.
func (s *Session) EndOp() { s.opMu.Unlock() }

// Analysis returns the cached theme analysis, or nil.
func (s *Session) Analysis() *models.ThemeAnalysis {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analysis
}

func (s *Session) SetAnalysis(a *models.ThemeAnalysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analysis = a
}

// Articles returns the cached generated articles (nil when not generated yet).
func (s *Session) Articles() []models.NewsArticle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.articles
}

func (s *Session) SetArticles(articles []models.NewsArticle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles = articles
}

// Insights returns the cached final-report markdown, or "".
func (s *Session) Insights() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insights
}

func (s *Session) SetInsights(md string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insights = md
}

// View returns the serializable session descriptor.
func (s *Session) View() models.WorkshopSession {
	return models.WorkshopSession{ID: s.ID, Date: s.Date, CreatedAt: s.CreatedAt}
}

// snapshot is the redis representation of a session and its cache.
type snapshot struct {
	models.WorkshopSession
	Analysis *models.ThemeAnalysis `json:"analysis,omitempty"`
	Articles []models.NewsArticle  `json:"articles,omitempty"`
	Insights string                `json:"insights,omitempty"`
}

// Cache is the optional snapshot store; the redis wrapper satisfies it.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Registry tracks live sessions. Lookups fall back to the snapshot cache so
// a server restart mid-workshop does not lose the generated artifacts.
type Registry struct {
	mu     sync.RWMutex
	byID   map[string]*Session
	cache  Cache
	logger *zap.Logger
}

func NewRegistry(cache Cache, logger *zap.Logger) *Registry {
	return &Registry{byID: make(map[string]*Session), cache: cache, logger: logger}
}

// Create registers a new session for the given (already validated) date.
func (r *Registry) Create(date string) *Session {
	sess := &Session{
		ID:        uuid.NewString(),
		Date:      date,
		CreatedAt: time.Now().UTC(),
	}
	r.mu.Lock()
	r.byID[sess.ID] = sess
	r.mu.Unlock()
	return sess
}

// Get returns the session by ID, restoring it from the snapshot cache when
// it is not in memory.
func (r *Registry) Get(ctx context.Context, id string) (*Session, bool) {
	r.mu.RLock()
	sess, ok := r.byID[id]
	r.mu.RUnlock()
	if ok {
		return sess, true
	}
	if r.cache == nil {
		return nil, false
	}

	raw, err := r.cache.Get(ctx, cacheKeyPrefix+id)
	if err != nil || raw == "" {
		return nil, false
	}
	var snap snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		r.logger.Warn("discarding corrupt session snapshot", zap.String("id", id), zap.Error(err))
		return nil, false
	}

	sess = &Session{
		ID:        snap.ID,
		Date:      snap.Date,
		CreatedAt: snap.CreatedAt,
		analysis:  snap.Analysis,
		articles:  snap.Articles,
		insights:  snap.Insights,
	}
	r.mu.Lock()
	if existing, ok := r.byID[id]; ok {
		sess = existing
	} else {
		r.byID[id] = sess
	}
	r.mu.Unlock()
	return sess, true
}

// Persist writes the session snapshot to the cache. Best effort: a cache
// failure is logged, never surfaced.
func (r *Registry) Persist(ctx context.Context, sess *Session) {
	if r.cache == nil {
		return
	}
	sess.mu.Lock()
	snap := snapshot{
		WorkshopSession: models.WorkshopSession{ID: sess.ID, Date: sess.Date, CreatedAt: sess.CreatedAt},
		Analysis:        sess.analysis,
		Articles:        sess.articles,
		Insights:        sess.insights,
	}
	sess.mu.Unlock()

	raw, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, cacheKeyPrefix+sess.ID, raw, cacheTTL); err != nil {
		r.logger.Warn("session snapshot write failed", zap.String("id", sess.ID), zap.Error(err))
	}
}

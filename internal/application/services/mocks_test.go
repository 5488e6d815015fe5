package services_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/uslugo/backend/internal/domain/entities"
	"github.com/uslugo/backend/internal/domain/providers"
	"github.com/uslugo/backend/internal/domain/repositories"
)

// MockSearchRepo implements ListingSearchRepository
type MockSearchRepo struct {
	hybridResults  []entities.RankedResult
	hybridErr      error
	lexicalResults []entities.RankedResult
	lexicalErr     error

	hybridCalls   int
	lexicalCalls  int
	lastQuery     string
	lastEmbedding []float32
}

func (m *MockSearchRepo) SearchHybrid(ctx context.Context, query string, embedding []float32, limit int) ([]entities.RankedResult, error) {
	m.hybridCalls++
	m.lastQuery = query
	m.lastEmbedding = embedding
	return m.hybridResults, m.hybridErr
}

func (m *MockSearchRepo) SearchVector(ctx context.Context, embedding []float32, limit int, minSimilarity float64) ([]entities.RankedResult, error) {
	return nil, nil
}

func (m *MockSearchRepo) SearchLexical(ctx context.Context, query string, limit int) ([]entities.RankedResult, error) {
	m.lexicalCalls++
	return m.lexicalResults, m.lexicalErr
}

// MockListingRepo implements ListingRepository
type MockListingRepo struct {
	textResults []*entities.Listing
	textErr     error
	textCalls   int

	updatedEmbeddings map[string][]float32
	needing           []*entities.Listing
}

func (m *MockListingRepo) GetByID(ctx context.Context, id string) (*entities.Listing, error) {
	return nil, nil
}

func (m *MockListingRepo) List(ctx context.Context, filter repositories.ListingFilter) ([]*entities.Listing, error) {
	return nil, nil
}

func (m *MockListingRepo) SearchByText(ctx context.Context, query string, limit int) ([]*entities.Listing, error) {
	m.textCalls++
	return m.textResults, m.textErr
}

func (m *MockListingRepo) ListNeedingEmbedding(ctx context.Context, model string, limit int) ([]*entities.Listing, error) {
	return m.needing, nil
}

func (m *MockListingRepo) UpdateEmbedding(ctx context.Context, id string, embedding []float32, model string) error {
	if m.updatedEmbeddings == nil {
		m.updatedEmbeddings = make(map[string][]float32)
	}
	m.updatedEmbeddings[id] = embedding
	return nil
}

// MockLexicalEngine implements LexicalSearchEngine
type MockLexicalEngine struct {
	results []entities.RankedResult
	err     error
	calls   int

	indexed []string
	deleted []string
	failID  string // Index/Delete of this listing ID errors
}

func (m *MockLexicalEngine) Index(ctx context.Context, listing *entities.Listing) error {
	if listing.ID == m.failID {
		return errors.New("index rejected document")
	}
	m.indexed = append(m.indexed, listing.ID)
	return nil
}

func (m *MockLexicalEngine) Delete(ctx context.Context, id string) error {
	if id == m.failID {
		return errors.New("document not found")
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *MockLexicalEngine) Search(ctx context.Context, query string, limit int) ([]entities.RankedResult, error) {
	m.calls++
	return m.results, m.err
}

// MockEmbedder implements EmbeddingProvider
type MockEmbedder struct {
	embedding []float32
	err       error
	calls     int
}

func (m *MockEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	m.calls++
	return m.embedding, m.err
}

func (m *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.calls++
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if strings.TrimSpace(t) != "" {
			out[i] = m.embedding
		}
	}
	return out, m.err
}

func (m *MockEmbedder) EmbeddingModel() string { return "text-embedding-3-small" }

// MockRewriteProvider implements QueryRewriteProvider
type MockRewriteProvider struct {
	corrected string
	err       error
	calls     int
}

func (m *MockRewriteProvider) RewriteQuery(ctx context.Context, query string) (string, error) {
	m.calls++
	return m.corrected, m.err
}

// MockEventRepo implements SearchEventRepository
type MockEventRepo struct {
	mu       sync.Mutex
	logged   []*entities.SearchEvent
	trending []entities.QueryAggregate
	popular  []entities.QueryAggregate
	recent   []string
	zero     []*entities.SearchEvent

	topErr    error
	recentErr error
	topCalls  int
}

func (m *MockEventRepo) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logged = append(m.logged, event)
	return nil
}

func (m *MockEventRepo) loggedEvents() []*entities.SearchEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*entities.SearchEvent{}, m.logged...)
}

func (m *MockEventRepo) TopQueries(ctx context.Context, since time.Time, limit int) ([]entities.QueryAggregate, error) {
	m.topCalls++
	if m.topErr != nil {
		return nil, m.topErr
	}
	// the 7d window sits inside the 30d one; pick by recency of `since`
	if time.Since(since) < 15*24*time.Hour {
		return m.trending, nil
	}
	return m.popular, nil
}

func (m *MockEventRepo) RecentByUser(ctx context.Context, userID string, limit int) ([]string, error) {
	return m.recent, m.recentErr
}

func (m *MockEventRepo) ZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	return m.zero, nil
}

// MockPreferenceRepo implements PreferenceRepository
type MockPreferenceRepo struct {
	pref       *entities.UserSearchPreference
	getErr     error
	recomputed []string
	active     []string
	recompErr  error
}

func (m *MockPreferenceRepo) Get(ctx context.Context, userID string) (*entities.UserSearchPreference, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.pref, nil
}

func (m *MockPreferenceRepo) Recompute(ctx context.Context, userID string) error {
	if m.recompErr != nil {
		return m.recompErr
	}
	m.recomputed = append(m.recomputed, userID)
	return nil
}

func (m *MockPreferenceRepo) ActiveUserIDs(ctx context.Context, limit int) ([]string, error) {
	return m.active, nil
}

// MockCacheProvider implements CacheProvider
type MockCacheProvider struct {
	mu    sync.RWMutex
	data  map[string][]byte
	swept []string
}

func NewMockCacheProvider() *MockCacheProvider {
	return &MockCacheProvider{data: make(map[string][]byte)}
}

func (m *MockCacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if val, ok := m.data[key]; ok {
		return val, nil
	}
	return nil, errors.New("key not found: " + key)
}

func (m *MockCacheProvider) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCacheProvider) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MockCacheProvider) DeleteByPrefix(ctx context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.swept = append(m.swept, prefix)
	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			delete(m.data, key)
		}
	}
	return nil
}

func (m *MockCacheProvider) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[key]
	return ok, nil
}

func (m *MockCacheProvider) sweptPrefixes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string{}, m.swept...)
}

// MockRateLimitStore implements RateLimitStore
type MockRateLimitStore struct {
	err    error
	counts map[string]int64
}

func (m *MockRateLimitStore) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	if m.err != nil {
		return 0, time.Time{}, m.err
	}
	if m.counts == nil {
		m.counts = make(map[string]int64)
	}
	m.counts[key]++
	return m.counts[key], time.Now().Add(window), nil
}

// MockEventBus implements EventBus with in-process channels
type MockEventBus struct {
	mu          sync.Mutex
	published   []*entities.SearchActivityEvent
	subscribers []chan *entities.SearchActivityEvent
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.SearchActivityEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, event)
	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
		}
	}
	return nil
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.SearchActivityEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan *entities.SearchActivityEvent, 10)
	m.subscribers = append(m.subscribers, ch)
	return ch, nil
}

func (m *MockEventBus) Unsubscribe(ctx context.Context, channel string) error { return nil }
func (m *MockEventBus) Close() error                                          { return nil }

func (m *MockEventBus) publishedEvents() []*entities.SearchActivityEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*entities.SearchActivityEvent{}, m.published...)
}

var _ providers.EventBus = (*MockEventBus)(nil)
var _ providers.CacheProvider = (*MockCacheProvider)(nil)
var _ providers.RateLimitStore = (*MockRateLimitStore)(nil)
var _ providers.EmbeddingProvider = (*MockEmbedder)(nil)
var _ providers.QueryRewriteProvider = (*MockRewriteProvider)(nil)
var _ repositories.ListingSearchRepository = (*MockSearchRepo)(nil)
var _ repositories.ListingRepository = (*MockListingRepo)(nil)
var _ repositories.LexicalSearchEngine = (*MockLexicalEngine)(nil)
var _ repositories.SearchEventRepository = (*MockEventRepo)(nil)
var _ repositories.PreferenceRepository = (*MockPreferenceRepo)(nil)

package popularity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propmanagement/backend/kafka"
	"github.com/propmanagement/backend/pkg/middleware"
)

type memoryStore struct {
	mu     sync.Mutex
	counts map[uint]int64
	err    error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{counts: make(map[uint]int64)}
}

func (s *memoryStore) Increment(ctx context.Context, propertyID uint, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	s.counts[propertyID] += delta
	if s.counts[propertyID] <= 0 {
		delete(s.counts, propertyID)
		return 0, nil
	}
	return s.counts[propertyID], nil
}

func (s *memoryStore) Score(ctx context.Context, propertyID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[propertyID], s.err
}

func (s *memoryStore) Top(ctx context.Context, n int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	entries := make([]Entry, 0, len(s.counts))
	for id, count := range s.counts {
		entries = append(entries, Entry{PropertyID: id, Favorites: count})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Favorites > entries[j].Favorites })
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

type fakeSource map[string]kafka.EventHandler

func (f fakeSource) RegisterHandler(eventType string, handler kafka.EventHandler) {
	f[eventType] = handler
}

func TestProjector_AppliesEvents(t *testing.T) {
	store := newMemoryStore()
	reg := prometheus.NewRegistry()
	projector := NewProjector(store, reg)

	source := fakeSource{}
	projector.Register(source)
	require.Len(t, source, 2)

	ctx := context.Background()
	added := source[kafka.EventTypeFavoriteAdded]
	removed := source[kafka.EventTypeFavoriteRemoved]

	require.NoError(t, added(ctx, kafka.FavoriteEvent{EventType: kafka.EventTypeFavoriteAdded, UserID: 7, PropertyID: 3}))
	require.NoError(t, added(ctx, kafka.FavoriteEvent{EventType: kafka.EventTypeFavoriteAdded, UserID: 8, PropertyID: 3}))
	require.NoError(t, added(ctx, kafka.FavoriteEvent{EventType: kafka.EventTypeFavoriteAdded, UserID: 7, PropertyID: 5}))
	require.NoError(t, removed(ctx, kafka.FavoriteEvent{EventType: kafka.EventTypeFavoriteRemoved, UserID: 7, PropertyID: 5}))

	score, _ := store.Score(ctx, 3)
	assert.Equal(t, int64(2), score)
	score, _ = store.Score(ctx, 5)
	assert.Zero(t, score)

	assert.Equal(t, float64(3), testutil.ToFloat64(projector.processed.WithLabelValues(kafka.EventTypeFavoriteAdded, "applied")))
	assert.Equal(t, float64(1), testutil.ToFloat64(projector.processed.WithLabelValues(kafka.EventTypeFavoriteRemoved, "applied")))
}

func TestProjector_SkipsEventWithoutProperty(t *testing.T) {
	store := newMemoryStore()
	projector := NewProjector(store, prometheus.NewRegistry())

	require.NoError(t, projector.HandleAdded(context.Background(), kafka.FavoriteEvent{EventType: kafka.EventTypeFavoriteAdded}))
	assert.Empty(t, store.counts)
}

func TestProjector_StoreFailure(t *testing.T) {
	store := newMemoryStore()
	store.err = errors.New("redis down")
	projector := NewProjector(store, prometheus.NewRegistry())

	err := projector.HandleAdded(context.Background(), kafka.FavoriteEvent{EventType: kafka.EventTypeFavoriteAdded, PropertyID: 3})
	assert.Error(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(projector.processed.WithLabelValues(kafka.EventTypeFavoriteAdded, "error")))
}

func TestHandler_GetPopular(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()
	for _, id := range []uint{3, 3, 3, 5, 5, 9} {
		_, err := store.Increment(ctx, id, 1)
		require.NoError(t, err)
	}

	router := mux.NewRouter()
	NewHandler(store, middleware.NewMetrics(prometheus.NewRegistry(), "test")).RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/properties/popular?limit=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []Entry
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&entries))
	assert.Equal(t, []Entry{{PropertyID: 3, Favorites: 3}, {PropertyID: 5, Favorites: 2}}, entries)
}

func TestHandler_StoreFailure(t *testing.T) {
	store := newMemoryStore()
	store.err = errors.New("redis down")

	router := mux.NewRouter()
	NewHandler(store, middleware.NewMetrics(prometheus.NewRegistry(), "test")).RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/properties/popular", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "redis down")
}

func TestRedisStore_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	store := NewRedisStore(client, "")
	assert.Equal(t, DefaultKey, store.key)

	ctx := context.Background()
	_, err := store.Increment(ctx, 3, 1)
	assert.Error(t, err)

	_, err = store.Top(ctx, 5)
	assert.Error(t, err)

	entries, err := store.Top(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func newRedisStore(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisStore(client, "test:popularity")
}

func TestRedisStore_IncrementAndScore(t *testing.T) {
	mr, store := newRedisStore(t)
	ctx := context.Background()

	count, err := store.Increment(ctx, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = store.Increment(ctx, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	score, err := store.Score(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), score)

	score, err = store.Score(ctx, 42)
	require.NoError(t, err)
	assert.Zero(t, score)

	raw, err := mr.ZScore("test:popularity", "3")
	require.NoError(t, err)
	assert.Equal(t, float64(2), raw)
}

func TestRedisStore_DropsMemberAtZero(t *testing.T) {
	mr, store := newRedisStore(t)
	ctx := context.Background()

	_, err := store.Increment(ctx, 3, 1)
	require.NoError(t, err)

	count, err := store.Increment(ctx, 3, -1)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.False(t, mr.Exists("test:popularity"))

	count, err = store.Increment(ctx, 8, -1)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.False(t, mr.Exists("test:popularity"))
}

func TestRedisStore_Top(t *testing.T) {
	mr, store := newRedisStore(t)
	ctx := context.Background()

	for _, id := range []uint{5, 3, 3, 3, 9, 5} {
		_, err := store.Increment(ctx, id, 1)
		require.NoError(t, err)
	}
	_, err := mr.ZAdd("test:popularity", 100, "not-a-property")
	require.NoError(t, err)

	entries, err := store.Top(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{PropertyID: 3, Favorites: 3},
		{PropertyID: 5, Favorites: 2},
		{PropertyID: 9, Favorites: 1},
	}, entries)

	entries, err = store.Top(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, uint(3), entries[0].PropertyID)
}

func TestRedisStore_ConcurrentRemoveAndAddKeepCount(t *testing.T) {
	_, store := newRedisStore(t)
	ctx := context.Background()

	const workers = 20
	_, err := store.Increment(ctx, 3, workers)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				_, _ = store.Increment(ctx, 3, -1)
				_, _ = store.Increment(ctx, 3, 1)
			}
		}()
	}
	wg.Wait()

	score, err := store.Score(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(workers), score)
}

func TestProjector_WithRedisStore(t *testing.T) {
	_, store := newRedisStore(t)
	projector := NewProjector(store, prometheus.NewRegistry())
	ctx := context.Background()

	require.NoError(t, projector.HandleAdded(ctx, kafka.FavoriteEvent{EventType: kafka.EventTypeFavoriteAdded, UserID: 7, PropertyID: 3}))
	require.NoError(t, projector.HandleAdded(ctx, kafka.FavoriteEvent{EventType: kafka.EventTypeFavoriteAdded, UserID: 8, PropertyID: 3}))
	require.NoError(t, projector.HandleRemoved(ctx, kafka.FavoriteEvent{EventType: kafka.EventTypeFavoriteRemoved, UserID: 7, PropertyID: 3}))

	entries, err := store.Top(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{PropertyID: 3, Favorites: 1}}, entries)
}

package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	favoritedomain "github.com/propmanagement/backend/internal/favorite/domain"
	propertydomain "github.com/propmanagement/backend/internal/property/domain"
	userdomain "github.com/propmanagement/backend/internal/user/domain"
	"github.com/propmanagement/backend/kafka"
)

type favoriteKey struct {
	userID     uint
	propertyID uint
}

// MemoryFavoriteRepository is a mutex guarded FavoriteRepository
type MemoryFavoriteRepository struct {
	mu     sync.Mutex
	nextID uint
	rows   []favoritedomain.Favorite
	index  map[favoriteKey]int

	// SaveErr, when set, fails the next Save
	SaveErr error
	// BeforeSave runs before every Save, outside the lock
	BeforeSave func()
}

func NewMemoryFavoriteRepository() *MemoryFavoriteRepository {
	return &MemoryFavoriteRepository{index: make(map[favoriteKey]int)}
}

func (r *MemoryFavoriteRepository) FindByUser(ctx context.Context, userID uint) ([]favoritedomain.Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []favoritedomain.Favorite
	for _, f := range r.rows {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *MemoryFavoriteRepository) FindByUserAndProperty(ctx context.Context, userID, propertyID uint) (*favoritedomain.Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[favoriteKey{userID, propertyID}]
	if !ok {
		return nil, favoritedomain.ErrFavoriteNotFound
	}
	f := r.rows[i]
	return &f, nil
}

func (r *MemoryFavoriteRepository) ExistsByUserAndProperty(ctx context.Context, userID, propertyID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.index[favoriteKey{userID, propertyID}]
	return ok, nil
}

func (r *MemoryFavoriteRepository) DeleteByUserAndProperty(ctx context.Context, userID, propertyID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := favoriteKey{userID, propertyID}
	i, ok := r.index[key]
	if !ok {
		return 0, nil
	}
	r.rows = append(r.rows[:i], r.rows[i+1:]...)
	r.reindex()
	return 1, nil
}

func (r *MemoryFavoriteRepository) Save(ctx context.Context, favorite *favoritedomain.Favorite) error {
	if r.BeforeSave != nil {
		r.BeforeSave()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.SaveErr != nil {
		err := r.SaveErr
		r.SaveErr = nil
		return err
	}

	key := favoriteKey{favorite.UserID, favorite.PropertyID}
	if _, ok := r.index[key]; ok {
		return favoritedomain.ErrDuplicateFavorite
	}

	r.nextID++
	favorite.ID = r.nextID
	favorite.CreatedAt = time.Now()

	stored := *favorite
	r.rows = append(r.rows, stored)
	r.index[key] = len(r.rows) - 1
	return nil
}

func (r *MemoryFavoriteRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	favorites, _ := r.FindByUser(ctx, userID)
	return int64(len(favorites)), nil
}

func (r *MemoryFavoriteRepository) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

func (r *MemoryFavoriteRepository) reindex() {
	r.index = make(map[favoriteKey]int, len(r.rows))
	for i, f := range r.rows {
		r.index[favoriteKey{f.UserID, f.PropertyID}] = i
	}
}

// MockUserReader is a testify mock of the favorite UserReader
type MockUserReader struct {
	mock.Mock
}

func (m *MockUserReader) FindByID(ctx context.Context, id uint) (*userdomain.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*userdomain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockPropertyReader is a testify mock of the favorite PropertyReader
type MockPropertyReader struct {
	mock.Mock
}

func (m *MockPropertyReader) FindByID(ctx context.Context, id uint) (*propertydomain.Property, error) {
	args := m.Called(ctx, id)
	if property, ok := args.Get(0).(*propertydomain.Property); ok {
		return property, args.Error(1)
	}
	return nil, args.Error(1)
}

// RecordingPublisher keeps every published event
type RecordingPublisher struct {
	mu     sync.Mutex
	events []kafka.FavoriteEvent
	Err    error
}

func (p *RecordingPublisher) PublishFavoriteEvent(ctx context.Context, event kafka.FavoriteEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)
	return p.Err
}

func (p *RecordingPublisher) Events() []kafka.FavoriteEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]kafka.FavoriteEvent(nil), p.events...)
}

// ErrStoreDown simulates a broken store
var ErrStoreDown = errors.New("store unavailable")

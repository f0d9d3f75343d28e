package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propmanagement/backend/internal/favorite/domain"
	"github.com/propmanagement/backend/kafka"
	"github.com/propmanagement/backend/pkg/apperror"
)

func TestRemoveFavorite(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.repo.Save(ctx, &domain.Favorite{UserID: 7, PropertyID: 3}))

	handler := NewRemoveFavoriteHandler(f.repo, f.users, f.properties, f.events)
	require.NoError(t, handler.Handle(ctx, RemoveFavoriteCommand{UserID: 7, PropertyID: 3}))

	exists, _ := f.repo.ExistsByUserAndProperty(ctx, 7, 3)
	assert.False(t, exists)

	events := f.events.Events()
	require.Len(t, events, 1)
	assert.Equal(t, kafka.EventTypeFavoriteRemoved, events[0].EventType)
}

func TestRemoveFavorite_MissingIsNoop(t *testing.T) {
	f := newFixture()
	handler := NewRemoveFavoriteHandler(f.repo, f.users, f.properties, f.events)

	require.NoError(t, handler.Handle(context.Background(), RemoveFavoriteCommand{UserID: 7, PropertyID: 3}))
	require.NoError(t, handler.Handle(context.Background(), RemoveFavoriteCommand{UserID: 7, PropertyID: 3}))
	assert.Empty(t, f.events.Events())
}

func TestRemoveFavorite_NotFound(t *testing.T) {
	f := newFixture()
	handler := NewRemoveFavoriteHandler(f.repo, f.users, f.properties, f.events)

	err := handler.Handle(context.Background(), RemoveFavoriteCommand{UserID: 8, PropertyID: 3})
	assert.Equal(t, "User not found", apperror.MessageOf(err))

	err = handler.Handle(context.Background(), RemoveFavoriteCommand{UserID: 7, PropertyID: 99})
	assert.Equal(t, "Property not found", apperror.MessageOf(err))
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propmanagement/backend/internal/favorite/domain"
	"github.com/propmanagement/backend/internal/testutil"
	userdomain "github.com/propmanagement/backend/internal/user/domain"
)

func TestGormFavoriteRepository_SaveAndFind(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.SeedUser(t, db, 7, userdomain.RoleRenter)
	testutil.SeedProperty(t, db, 3)
	repo := NewGormFavoriteRepository(db)
	ctx := context.Background()

	favorite := &domain.Favorite{UserID: 7, PropertyID: 3}
	require.NoError(t, repo.Save(ctx, favorite))
	assert.NotZero(t, favorite.ID)
	assert.False(t, favorite.CreatedAt.IsZero())

	found, err := repo.FindByUserAndProperty(ctx, 7, 3)
	require.NoError(t, err)
	assert.Equal(t, favorite.ID, found.ID)
	require.NotNil(t, found.Property)
	assert.Equal(t, "Flat 3", found.Property.Title)

	exists, err := repo.ExistsByUserAndProperty(ctx, 7, 3)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.FindByUserAndProperty(ctx, 7, 4)
	assert.ErrorIs(t, err, domain.ErrFavoriteNotFound)
}

func TestGormFavoriteRepository_DuplicatePair(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.SeedUser(t, db, 7, userdomain.RoleRenter)
	testutil.SeedProperty(t, db, 3)
	repo := NewGormFavoriteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.Favorite{UserID: 7, PropertyID: 3}))

	err := repo.Save(ctx, &domain.Favorite{UserID: 7, PropertyID: 3})
	assert.ErrorIs(t, err, domain.ErrDuplicateFavorite)

	count, err := repo.CountByUser(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormFavoriteRepository_FindByUserOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.SeedUser(t, db, 7, userdomain.RoleRenter)
	testutil.SeedUser(t, db, 8, userdomain.RoleRenter)
	for _, id := range []uint{5, 3, 9} {
		testutil.SeedProperty(t, db, id)
	}
	repo := NewGormFavoriteRepository(db)
	ctx := context.Background()

	for _, id := range []uint{5, 3, 9} {
		require.NoError(t, repo.Save(ctx, &domain.Favorite{UserID: 7, PropertyID: id}))
	}
	require.NoError(t, repo.Save(ctx, &domain.Favorite{UserID: 8, PropertyID: 3}))

	favorites, err := repo.FindByUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, favorites, 3)

	var order []uint
	for _, f := range favorites {
		require.NotNil(t, f.Property)
		order = append(order, f.Property.ID)
	}
	assert.Equal(t, []uint{5, 3, 9}, order)

	empty, err := repo.FindByUser(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, empty)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
}

func TestGormFavoriteRepository_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.SeedUser(t, db, 7, userdomain.RoleRenter)
	testutil.SeedProperty(t, db, 3)
	repo := NewGormFavoriteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.Favorite{UserID: 7, PropertyID: 3}))

	removed, err := repo.DeleteByUserAndProperty(ctx, 7, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	removed, err = repo.DeleteByUserAndProperty(ctx, 7, 3)
	require.NoError(t, err)
	assert.Zero(t, removed)

	exists, err := repo.ExistsByUserAndProperty(ctx, 7, 3)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormFavoriteRepository_CascadeOnPropertyDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.SeedUser(t, db, 7, userdomain.RoleRenter)
	property := testutil.SeedProperty(t, db, 3)
	repo := NewGormFavoriteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.Favorite{UserID: 7, PropertyID: 3}))
	require.NoError(t, db.Delete(property).Error)

	count, err := repo.CountByUser(ctx, 7)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTracingFavoriteRepository_Delegates(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.SeedUser(t, db, 7, userdomain.RoleRenter)
	testutil.SeedProperty(t, db, 3)
	repo := NewTracingFavoriteRepository(NewGormFavoriteRepository(db))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.Favorite{UserID: 7, PropertyID: 3}))

	_, err := repo.FindByUserAndProperty(ctx, 7, 99)
	assert.ErrorIs(t, err, domain.ErrFavoriteNotFound)

	count, err := repo.CountByUser(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

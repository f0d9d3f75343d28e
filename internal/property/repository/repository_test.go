package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propmanagement/backend/internal/property/domain"
	"github.com/propmanagement/backend/internal/testutil"
)

func TestGormPropertyRepository_CreateAndFind(t *testing.T) {
	repo := NewGormPropertyRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	property := &domain.Property{
		OwnerID:   2,
		Title:     "Garden flat",
		Location:  "Koramangala, Bangalore",
		Rent:      32000,
		Amenities: []string{"gym", "lift"},
	}
	require.NoError(t, repo.Create(ctx, property))
	assert.NotZero(t, property.ID)

	found, err := repo.FindByID(ctx, property.ID)
	require.NoError(t, err)
	assert.Equal(t, "Garden flat", found.Title)
	assert.Equal(t, []string{"gym", "lift"}, found.Amenities)
	assert.False(t, found.Approved)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrPropertyNotFound)
}

func TestGormPropertyRepository_FindAllFilters(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGormPropertyRepository(db)
	ctx := context.Background()

	testutil.SeedProperty(t, db, 1)
	testutil.SeedProperty(t, db, 2)
	require.NoError(t, repo.Create(ctx, &domain.Property{Title: "Pending", Location: "Mumbai", Rent: 1}))
	flagged := &domain.Property{Title: "Flagged", Location: "Pune", Rent: 1, Approved: true, Flagged: true}
	require.NoError(t, repo.Create(ctx, flagged))

	visible, err := repo.FindAll(ctx, domain.ListFilter{ApprovedOnly: true})
	require.NoError(t, err)
	assert.Len(t, visible, 2)

	all, err := repo.FindAll(ctx, domain.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	mumbai, err := repo.FindAll(ctx, domain.ListFilter{Location: "mum"})
	require.NoError(t, err)
	require.Len(t, mumbai, 1)
	assert.Equal(t, "Pending", mumbai[0].Title)

	page, err := repo.FindAll(ctx, domain.ListFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Len(t, page, 1)

	count, err := repo.Count(ctx, domain.ListFilter{ApprovedOnly: true, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

package favorite

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/propmanagement/backend/internal/favorite/domain"
	"github.com/propmanagement/backend/internal/favorite/repository"
	"github.com/propmanagement/backend/internal/favorite/usecase/command"
	"github.com/propmanagement/backend/internal/favorite/usecase/query"
	propertyrepo "github.com/propmanagement/backend/internal/property/repository"
	userrepo "github.com/propmanagement/backend/internal/user/repository"
)

// ProvideFavoriteRepository provides the traced favorite repository
func ProvideFavoriteRepository(db *gorm.DB) domain.FavoriteRepository {
	return repository.NewTracingFavoriteRepository(repository.NewGormFavoriteRepository(db))
}

func ProvideUserReader(db *gorm.DB) domain.UserReader {
	return userrepo.NewGormUserRepository(db)
}

func ProvidePropertyReader(db *gorm.DB) domain.PropertyReader {
	return propertyrepo.NewGormPropertyRepository(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideFavoriteRepository,
	ProvideUserReader,
	ProvidePropertyReader,
)

var HandlerSet = wire.NewSet(
	command.NewAddFavoriteHandler,
	command.NewRemoveFavoriteHandler,
	query.NewListFavoritesHandler,
	query.NewCheckFavoriteHandler,
	query.NewCountFavoritesHandler,
)

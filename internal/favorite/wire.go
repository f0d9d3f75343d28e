//go:build wireinject
// +build wireinject

package favorite

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/propmanagement/backend/internal/favorite/delivery/http"
	"github.com/propmanagement/backend/internal/favorite/usecase"
	"github.com/propmanagement/backend/pkg/middleware"
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(
	db *gorm.DB,
	events usecase.EventPublisher,
	authn *middleware.Authenticator,
	metrics *middleware.Metrics,
	reg prometheus.Registerer,
) (*http.FavoriteHandler, error) {
	wire.Build(
		RepositorySet,
		HandlerSet,
		http.NewFavoriteHandler,
	)
	return nil, nil
}

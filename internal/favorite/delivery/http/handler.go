package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/propmanagement/backend/internal/favorite/domain"
	"github.com/propmanagement/backend/internal/favorite/usecase/command"
	"github.com/propmanagement/backend/internal/favorite/usecase/query"
	userdomain "github.com/propmanagement/backend/internal/user/domain"
	"github.com/propmanagement/backend/pkg/apperror"
	"github.com/propmanagement/backend/pkg/auth"
	"github.com/propmanagement/backend/pkg/middleware"
	"github.com/propmanagement/backend/pkg/response"
)

// Client facing messages
const (
	msgOnlyOwnFavorites = "You can only view your own favorites"
	msgOnlyRenters      = "Only renters can add favorites"
	msgFavoriteRemoved  = "Favorite removed"
)

// FavoriteHandler is the HTTP boundary of the favorites feature
type FavoriteHandler struct {
	addHandler    *command.AddFavoriteHandler
	removeHandler *command.RemoveFavoriteHandler

	listHandler  *query.ListFavoritesHandler
	checkHandler *query.CheckFavoriteHandler
	countHandler *query.CountFavoritesHandler

	users          domain.UserReader
	repo           domain.FavoriteRepository
	authn          *middleware.Authenticator
	metrics        *middleware.Metrics
	totalFavorites prometheus.Gauge
}

// NewFavoriteHandler creates the favorites HTTP handler
func NewFavoriteHandler(
	addHandler *command.AddFavoriteHandler,
	removeHandler *command.RemoveFavoriteHandler,
	listHandler *query.ListFavoritesHandler,
	checkHandler *query.CheckFavoriteHandler,
	countHandler *query.CountFavoritesHandler,
	users domain.UserReader,
	repo domain.FavoriteRepository,
	authn *middleware.Authenticator,
	metrics *middleware.Metrics,
	reg prometheus.Registerer,
) *FavoriteHandler {
	return &FavoriteHandler{
		addHandler:    addHandler,
		removeHandler: removeHandler,
		listHandler:   listHandler,
		checkHandler:  checkHandler,
		countHandler:  countHandler,
		users:         users,
		repo:          repo,
		authn:         authn,
		metrics:       metrics,
		totalFavorites: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "property_backend_favorites_total",
			Help: "Number of stored favorites",
		}),
	}
}

// requireCaller loads the authenticated caller's account. It writes the error
// response itself and reports false when the request must stop.
func (h *FavoriteHandler) requireCaller(w http.ResponseWriter, r *http.Request) (*userdomain.User, bool) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}

	user, err := h.users.FindByID(r.Context(), caller.UserID)
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) {
			response.FromError(r.Context(), w, apperror.NotFound("User not found"))
			return nil, false
		}
		response.FromError(r.Context(), w, apperror.Internal("failed to load caller", err))
		return nil, false
	}
	return user, true
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func propertyIDParam(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, ok := parseID(r.URL.Query().Get("propertyId"))
	if !ok {
		response.Error(w, http.StatusBadRequest, "propertyId must be a positive integer")
	}
	return id, ok
}

// GetFavoritesByUser godoc
// @Summary List a user's favorites
// @Description Callers may only list their own favorites
// @Tags Favorites
// @Produce json
// @Param userId path int true "User ID"
// @Param User-Id header int false "Caller id (trusted header mode)"
// @Security BearerAuth
// @Success 200 {array} domain.FavoriteResponse
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/favorites/user/{userId} [get]
func (h *FavoriteHandler) GetFavoritesByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseID(mux.Vars(r)["userId"])
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	caller, ok := h.requireCaller(w, r)
	if !ok {
		return
	}
	if caller.ID != userID {
		response.FromError(r.Context(), w, apperror.Forbidden(msgOnlyOwnFavorites))
		return
	}

	favorites, err := h.listHandler.Handle(r.Context(), query.ListFavoritesQuery{UserID: userID})
	if err != nil {
		response.FromError(r.Context(), w, err)
		return
	}

	response.JSON(w, http.StatusOK, favorites)
}

// CheckFavorite godoc
// @Summary Check whether the caller favorited a property
// @Tags Favorites
// @Produce json
// @Param propertyId query int true "Property ID"
// @Param User-Id header int false "Caller id (trusted header mode)"
// @Security BearerAuth
// @Success 200 {boolean} boolean
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/favorites/check [get]
func (h *FavoriteHandler) CheckFavorite(w http.ResponseWriter, r *http.Request) {
	propertyID, ok := propertyIDParam(w, r)
	if !ok {
		return
	}

	caller, ok := h.requireCaller(w, r)
	if !ok {
		return
	}

	favorited, err := h.checkHandler.Handle(r.Context(), query.CheckFavoriteQuery{
		UserID:     caller.ID,
		PropertyID: propertyID,
	})
	if err != nil {
		response.FromError(r.Context(), w, err)
		return
	}

	response.JSON(w, http.StatusOK, favorited)
}

// AddFavorite godoc
// @Summary Favorite a property
// @Description Idempotent: favoriting twice returns the existing favorite. Renters only.
// @Tags Favorites
// @Produce json
// @Param propertyId query int true "Property ID"
// @Param User-Id header int false "Caller id (trusted header mode)"
// @Security BearerAuth
// @Success 200 {object} domain.FavoriteResponse
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/favorites [post]
func (h *FavoriteHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	propertyID, ok := propertyIDParam(w, r)
	if !ok {
		return
	}

	caller, ok := h.requireCaller(w, r)
	if !ok {
		return
	}
	if !caller.IsRenter() {
		response.FromError(r.Context(), w, apperror.Forbidden(msgOnlyRenters))
		return
	}

	favorite, err := h.addHandler.Handle(r.Context(), command.AddFavoriteCommand{
		UserID:     caller.ID,
		PropertyID: propertyID,
	})
	if err != nil {
		response.FromError(r.Context(), w, err)
		return
	}

	h.updateFavoritesMetric(r.Context())
	response.JSON(w, http.StatusOK, favorite)
}

// RemoveFavorite godoc
// @Summary Remove a favorite
// @Description Idempotent: removing a favorite that does not exist succeeds
// @Tags Favorites
// @Produce plain
// @Param propertyId query int true "Property ID"
// @Param User-Id header int false "Caller id (trusted header mode)"
// @Security BearerAuth
// @Success 200 {string} string "Favorite removed"
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/favorites [delete]
func (h *FavoriteHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	propertyID, ok := propertyIDParam(w, r)
	if !ok {
		return
	}

	caller, ok := h.requireCaller(w, r)
	if !ok {
		return
	}

	err := h.removeHandler.Handle(r.Context(), command.RemoveFavoriteCommand{
		UserID:     caller.ID,
		PropertyID: propertyID,
	})
	if err != nil {
		response.FromError(r.Context(), w, err)
		return
	}

	h.updateFavoritesMetric(r.Context())
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(msgFavoriteRemoved))
}

// CountFavorites godoc
// @Summary Count the caller's favorites
// @Tags Favorites
// @Produce json
// @Param User-Id header int false "Caller id (trusted header mode)"
// @Security BearerAuth
// @Success 200 {object} object{count=int}
// @Failure 404 {object} object{error=string}
// @Router /api/favorites/count [get]
func (h *FavoriteHandler) CountFavorites(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.requireCaller(w, r)
	if !ok {
		return
	}

	count, err := h.countHandler.Handle(r.Context(), query.CountFavoritesQuery{UserID: caller.ID})
	if err != nil {
		response.FromError(r.Context(), w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]int64{"count": count})
}

func (h *FavoriteHandler) updateFavoritesMetric(ctx context.Context) {
	count, err := h.repo.Count(ctx)
	if err == nil {
		h.totalFavorites.Set(float64(count))
	}
}

// RegisterRoutes registers all favorite routes
func (h *FavoriteHandler) RegisterRoutes(router *mux.Router) {
	authenticated := h.authn.Authenticate

	router.HandleFunc("/api/favorites/user/{userId}", h.metrics.Wrap("/api/favorites/user/{userId}", authenticated(h.GetFavoritesByUser))).Methods("GET")
	router.HandleFunc("/api/favorites/check", h.metrics.Wrap("/api/favorites/check", authenticated(h.CheckFavorite))).Methods("GET")
	router.HandleFunc("/api/favorites/count", h.metrics.Wrap("/api/favorites/count", authenticated(h.CountFavorites))).Methods("GET")
	router.HandleFunc("/api/favorites", h.metrics.Wrap("/api/favorites", authenticated(h.AddFavorite))).Methods("POST")
	router.HandleFunc("/api/favorites", h.metrics.Wrap("/api/favorites", authenticated(h.RemoveFavorite))).Methods("DELETE")
}

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthCheck handles GET /health
func HealthCheck(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			response.JSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}

		response.JSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}
}

// RegisterHealthCheck registers health check endpoint
func RegisterHealthCheck(router *mux.Router, db Pinger) {
	router.HandleFunc("/health", HealthCheck(db)).Methods("GET")
}

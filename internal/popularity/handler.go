package popularity

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/propmanagement/backend/pkg/middleware"
	"github.com/propmanagement/backend/pkg/response"
)

const (
	defaultTop = 10
	maxTop     = 100
)

// Handler serves the popularity ranking
type Handler struct {
	store   Store
	metrics *middleware.Metrics
}

func NewHandler(store Store, metrics *middleware.Metrics) *Handler {
	return &Handler{store: store, metrics: metrics}
}

// GetPopular godoc
// @Summary Most favorited properties
// @Tags Properties
// @Produce json
// @Param limit query int false "Number of entries (default 10, max 100)"
// @Success 200 {array} popularity.Entry
// @Failure 500 {object} object{error=string}
// @Router /api/properties/popular [get]
func (h *Handler) GetPopular(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultTop
	}
	if limit > maxTop {
		limit = maxTop
	}

	entries, err := h.store.Top(r.Context(), limit)
	if err != nil {
		response.FromError(r.Context(), w, err)
		return
	}

	response.JSON(w, http.StatusOK, entries)
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/properties/popular", h.metrics.Wrap("/api/properties/popular", h.GetPopular)).Methods("GET")
}

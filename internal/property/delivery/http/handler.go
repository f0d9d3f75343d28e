package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/propmanagement/backend/internal/property/domain"
	"github.com/propmanagement/backend/internal/property/usecase/command"
	"github.com/propmanagement/backend/internal/property/usecase/query"
	userdomain "github.com/propmanagement/backend/internal/user/domain"
	"github.com/propmanagement/backend/pkg/apperror"
	"github.com/propmanagement/backend/pkg/auth"
	"github.com/propmanagement/backend/pkg/logger"
	"github.com/propmanagement/backend/pkg/middleware"
	"github.com/propmanagement/backend/pkg/response"
)

// OwnerLookup resolves the account publishing a listing
type OwnerLookup interface {
	FindByID(ctx context.Context, id uint) (*userdomain.User, error)
}

// PropertyHandler handles HTTP requests for property listings
type PropertyHandler struct {
	createHandler      *command.CreatePropertyHandler
	getPropertyHandler *query.GetPropertyHandler
	listHandler        *query.ListPropertiesHandler

	owners           OwnerLookup
	authn            *middleware.Authenticator
	metrics          *middleware.Metrics
	propertiesCreate prometheus.Counter
}

func NewPropertyHandler(
	repo domain.PropertyRepository,
	owners OwnerLookup,
	authn *middleware.Authenticator,
	metrics *middleware.Metrics,
	reg prometheus.Registerer,
) *PropertyHandler {
	return &PropertyHandler{
		createHandler:      command.NewCreatePropertyHandler(repo),
		getPropertyHandler: query.NewGetPropertyHandler(repo),
		listHandler:        query.NewListPropertiesHandler(repo),
		owners:             owners,
		authn:              authn,
		metrics:            metrics,
		propertiesCreate: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "property_backend_properties_created_total",
			Help: "Number of property listings created",
		}),
	}
}

// Response is the envelope used by the listing endpoints
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	kind := apperror.KindOf(err)
	if kind == apperror.KindInternal {
		logger.Error(ctx).Err(err).Msg("Property request failed")
	}
	response.JSON(w, apperror.HTTPStatus(kind), Response{
		Success: false,
		Error:   apperror.MessageOf(err),
	})
}

// callerIsAdmin reports whether the resolved caller is stored as an administrator
func (h *PropertyHandler) callerIsAdmin(r *http.Request) bool {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		return false
	}
	user, err := h.owners.FindByID(r.Context(), caller.UserID)
	return err == nil && user.IsAdmin()
}

// ListProperties godoc
// @Summary List properties
// @Description Approved listings for the public, every listing for administrators
// @Tags Properties
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Param location query string false "Location substring"
// @Success 200 {object} Response
// @Router /api/properties [get]
func (h *PropertyHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	page, err := h.listHandler.Handle(r.Context(), query.ListPropertiesQuery{
		Limit:         limit,
		Offset:        offset,
		Location:      r.URL.Query().Get("location"),
		IncludeHidden: h.callerIsAdmin(r),
	})
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	response.JSON(w, http.StatusOK, Response{Success: true, Data: page})
}

// GetProperty godoc
// @Summary Get a property
// @Tags Properties
// @Produce json
// @Param id path int true "Property ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /api/properties/{id} [get]
func (h *PropertyHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		response.JSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid property ID"})
		return
	}

	property, err := h.getPropertyHandler.Handle(r.Context(), query.GetPropertyQuery{
		ID:            uint(id),
		IncludeHidden: h.callerIsAdmin(r),
	})
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	response.JSON(w, http.StatusOK, Response{Success: true, Data: property})
}

type createPropertyRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Location     string   `json:"location"`
	PropertyType string   `json:"propertyType"`
	Rent         float64  `json:"rent"`
	BHK          int      `json:"bhk"`
	Bath         int      `json:"bath"`
	Size         float64  `json:"size"`
	Furnishing   string   `json:"furnishing"`
	Amenities    []string `json:"amenities"`
	ImageURLs    []string `json:"imageUrls"`
}

// CreateProperty godoc
// @Summary Publish a property
// @Description Owners publish listings pending approval; administrator listings are approved immediately
// @Tags Properties
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body createPropertyRequest true "Listing"
// @Success 201 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} object{error=string}
// @Failure 403 {object} Response
// @Failure 404 {object} Response
// @Router /api/properties [post]
func (h *PropertyHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CallerFromContext(r.Context())

	var req createPropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.JSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	owner, err := h.owners.FindByID(r.Context(), caller.UserID)
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) {
			respondError(r.Context(), w, apperror.NotFound("User not found"))
			return
		}
		respondError(r.Context(), w, apperror.Internal("failed to load owner", err))
		return
	}
	if !owner.IsOwner() && !owner.IsAdmin() {
		respondError(r.Context(), w, apperror.Forbidden("Only owners and administrators can publish properties"))
		return
	}

	property, err := h.createHandler.Handle(r.Context(), command.CreatePropertyCommand{
		OwnerID:      owner.ID,
		OwnerName:    owner.Name,
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		PropertyType: req.PropertyType,
		Rent:         req.Rent,
		BHK:          req.BHK,
		Bath:         req.Bath,
		Size:         req.Size,
		Furnishing:   req.Furnishing,
		Amenities:    req.Amenities,
		ImageURLs:    req.ImageURLs,
		AutoApprove:  owner.IsAdmin(),
	})
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	h.propertiesCreate.Inc()
	response.JSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Property created successfully",
		Data:    property,
	})
}

func (h *PropertyHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/properties", h.metrics.Wrap("/api/properties", h.authn.OptionalAuthenticate(h.ListProperties))).Methods("GET")
	router.HandleFunc("/api/properties/{id:[0-9]+}", h.metrics.Wrap("/api/properties/{id}", h.authn.OptionalAuthenticate(h.GetProperty))).Methods("GET")
	router.HandleFunc("/api/properties", h.metrics.Wrap("/api/properties", h.authn.Authenticate(h.CreateProperty))).Methods("POST")
}

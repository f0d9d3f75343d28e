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

	"github.com/propmanagement/backend/internal/user/domain"
	"github.com/propmanagement/backend/internal/user/usecase/command"
	"github.com/propmanagement/backend/internal/user/usecase/query"
	"github.com/propmanagement/backend/pkg/auth"
	"github.com/propmanagement/backend/pkg/middleware"
	"github.com/propmanagement/backend/pkg/response"
)

// UserHandler handles HTTP requests for accounts and sign in
type UserHandler struct {
	registerHandler *command.RegisterUserHandler
	loginHandler    *command.LoginUserHandler
	createHandler   *command.CreateUserHandler
	getUserHandler  *query.GetUserHandler

	repo            domain.UserRepository
	authn           *middleware.Authenticator
	metrics         *middleware.Metrics
	registeredUsers prometheus.Gauge
}

// NewUserHandler creates a new user handler
func NewUserHandler(
	repo domain.UserRepository,
	tokens command.TokenGenerator,
	authn *middleware.Authenticator,
	metrics *middleware.Metrics,
	reg prometheus.Registerer,
) *UserHandler {
	return &UserHandler{
		registerHandler: command.NewRegisterUserHandler(repo),
		loginHandler:    command.NewLoginUserHandler(repo, tokens),
		createHandler:   command.NewCreateUserHandler(repo),
		getUserHandler:  query.NewGetUserHandler(repo),
		repo:            repo,
		authn:           authn,
		metrics:         metrics,
		registeredUsers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "property_backend_registered_users",
			Help: "Number of registered users",
		}),
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Register godoc
// @Summary Register a new user
// @Description Create a RENTER or OWNER account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body registerRequest true "Registration data"
// @Success 201 {object} domain.User
// @Failure 400 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /api/auth/register [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.registerHandler.Handle(r.Context(), command.RegisterUserCommand{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		response.FromError(r.Context(), w, err)
		return
	}

	h.updateRegisteredUsersMetric(r)
	response.JSON(w, http.StatusCreated, user)
}

// Login godoc
// @Summary User login
// @Description Authenticate with email and password and get a JWT
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Login credentials"
// @Success 200 {object} command.LoginResponse
// @Failure 401 {object} object{error=string}
// @Router /api/auth/login [post]
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.loginHandler.Handle(r.Context(), command.LoginUserCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.FromError(r.Context(), w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// GetProfile godoc
// @Summary Get current user profile
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.User
// @Failure 401 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/users/me [get]
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.getUserHandler.Handle(r.Context(), query.GetUserQuery{ID: caller.UserID})
	if err != nil {
		response.FromError(r.Context(), w, err)
		return
	}

	response.JSON(w, http.StatusOK, user)
}

// GetUser godoc
// @Summary Get a user by id
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} domain.User
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := h.getUserHandler.Handle(r.Context(), query.GetUserQuery{ID: uint(id)})
	if err != nil {
		response.FromError(r.Context(), w, err)
		return
	}

	response.JSON(w, http.StatusOK, user)
}

// CreateUser godoc
// @Summary Create a user with any role
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body registerRequest true "User data"
// @Success 201 {object} domain.User
// @Failure 403 {object} object{error=string}
// @Router /api/admin/users [post]
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.createHandler.Handle(r.Context(), command.CreateUserCommand{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		response.FromError(r.Context(), w, err)
		return
	}

	h.updateRegisteredUsersMetric(r)
	response.JSON(w, http.StatusCreated, user)
}

func (h *UserHandler) updateRegisteredUsersMetric(r *http.Request) {
	count, err := h.repo.Count(r.Context())
	if err == nil {
		h.registeredUsers.Set(float64(count))
	}
}

func (h *UserHandler) storedRole(ctx context.Context, userID uint) (string, error) {
	user, err := h.repo.FindByID(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return user.Role, nil
}

// RegisterRoutes registers all user routes
func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/auth/register", h.metrics.Wrap("/api/auth/register", h.Register)).Methods("POST")
	router.HandleFunc("/api/auth/login", h.metrics.Wrap("/api/auth/login", h.Login)).Methods("POST")

	router.HandleFunc("/api/users/me", h.metrics.Wrap("/api/users/me", h.authn.Authenticate(h.GetProfile))).Methods("GET")
	router.HandleFunc("/api/users/{id:[0-9]+}", h.metrics.Wrap("/api/users/{id}", h.GetUser)).Methods("GET")

	adminOnly := h.authn.RequireRole(h.storedRole, domain.RoleAdmin)
	router.HandleFunc("/api/admin/users", h.metrics.Wrap("/api/admin/users", adminOnly(h.CreateUser))).Methods("POST")
}

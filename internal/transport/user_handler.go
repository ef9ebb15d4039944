package transport

import (
	"encoding/json"
	"fmt"
	"net/http"

	"product-catalog/internal/dto"
	"product-catalog/internal/middleware"
	"product-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserHandler handles HTTP requests for account management
type UserHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers all user routes. Account management is
// admin-only.
func (h *UserHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/users", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminMiddleware)
		r.Get("/", h.FindAll)
		r.Get("/{id}", h.FindByID)
		r.Post("/", h.Insert)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// FindAll returns one page of users with their roles.
func (h *UserHandler) FindAll(w http.ResponseWriter, r *http.Request) {
	page := parsePageRequest(r)

	result, err := h.userService.FindAllPaged(r.Context(), page)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// FindByID returns one user with the full role set.
func (h *UserHandler) FindByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userService.FindByID(r.Context(), id)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, user)
}

// Insert creates an account. The response never echoes the password.
func (h *UserHandler) Insert(w http.ResponseWriter, r *http.Request) {
	var req dto.UserInsertDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.Insert(r.Context(), req)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("User created", zap.Int64("user_id", user.ID))
	w.Header().Set("Location", fmt.Sprintf("/api/users/%d", user.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, user)
}

// Update replaces an account's fields and role set.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.UserUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.Update(r.Context(), id, req)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("User updated", zap.Int64("user_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, user)
}

// Delete removes an account.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.userService.Delete(r.Context(), id); err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("User deleted", zap.Int64("user_id", id))
	w.WriteHeader(http.StatusNoContent)
}

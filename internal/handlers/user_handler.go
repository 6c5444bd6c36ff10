package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/beautyai/beautyai-api/internal/audit"
	"github.com/beautyai/beautyai-api/internal/auth"
	"github.com/beautyai/beautyai-api/internal/dto"
	"github.com/beautyai/beautyai-api/internal/httperr"
	"github.com/beautyai/beautyai-api/internal/httpresp"
	infraRepo "github.com/beautyai/beautyai-api/internal/infra/repository"
	"github.com/beautyai/beautyai-api/internal/middleware"
	"github.com/beautyai/beautyai-api/internal/models"
	"github.com/beautyai/beautyai-api/internal/validators"
)

var (
	errUserNotFound = httperr.ErrNotFound("user_not_found", "User not found")
	errEmailTaken   = httperr.ErrConflict("email_taken", "Email already registered")
	errInvalidEmail = httperr.ErrBadRequest("invalid_email", "Email address is not valid")
	errInvalidRole  = httperr.ErrBadRequest("invalid_role", "Unknown role")
)

// Auditor is satisfied by *audit.Dispatcher.
type Auditor interface {
	Dispatch(ev audit.Event)
}

// ======================================================
// HANDLER (superadmin)
// ======================================================

type UserHandler struct {
	users  *infraRepo.UserGormRepository
	emails validators.EmailChecker
	audit  Auditor
}

func NewUserHandler(users *infraRepo.UserGormRepository, emails validators.EmailChecker, audit Auditor) *UserHandler {
	return &UserHandler{users: users, emails: emails, audit: audit}
}

func (h *UserHandler) Create(c *gin.Context) {
	var req dto.UserCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	email := validators.NormalizeEmail(req.Email)
	if !h.emails.Valid(email) {
		httperr.FromError(c, errInvalidEmail)
		return
	}
	if !models.IsValidRole(req.Role) {
		httperr.FromError(c, errInvalidRole)
		return
	}

	if err := h.ensureEmailFree(c, email, 0); err != nil {
		httperr.FromError(c, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         req.Role,
		IsActive:     req.IsActive == nil || *req.IsActive,
	}

	if err := h.users.CreateUser(c.Request.Context(), &user); err != nil {
		if infraRepo.IsUniqueViolation(err) {
			err = errEmailTaken
		}
		httperr.FromError(c, err)
		return
	}

	caller := middleware.CurrentUser(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &caller.ID,
		Action:   audit.ActionUserCreated,
		Entity:   "user",
		EntityID: &user.ID,
		Metadata: map[string]any{"role": user.Role},
	})

	httpresp.OK(c, user)
}

func (h *UserHandler) List(c *gin.Context) {
	skip, limit := httpresp.Page(c, 100, 500)

	users, err := h.users.ListUsers(c.Request.Context(), skip, limit)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Items(c, users)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req dto.UserUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()

	user, err := h.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = errUserNotFound
		}
		httperr.FromError(c, err)
		return
	}

	if req.Email != nil {
		email := validators.NormalizeEmail(*req.Email)
		if !h.emails.Valid(email) {
			httperr.FromError(c, errInvalidEmail)
			return
		}
		if err := h.ensureEmailFree(c, email, user.ID); err != nil {
			httperr.FromError(c, err)
			return
		}
		user.Email = email
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			httperr.FromError(c, err)
			return
		}
		user.PasswordHash = hash
	}

	if err := h.users.SaveUser(ctx, user); err != nil {
		if infraRepo.IsUniqueViolation(err) {
			err = errEmailTaken
		}
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, user)
}

// ensureEmailFree allows the address when it belongs to selfID.
func (h *UserHandler) ensureEmailFree(c *gin.Context, email string, selfID uint) error {
	existing, err := h.users.GetUserByEmail(c.Request.Context(), email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return errEmailTaken
	}
	return nil
}

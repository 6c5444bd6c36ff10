package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/beautyai/beautyai-api/internal/audit"
	"github.com/beautyai/beautyai-api/internal/auth"
	"github.com/beautyai/beautyai-api/internal/authz"
	"github.com/beautyai/beautyai-api/internal/dto"
	"github.com/beautyai/beautyai-api/internal/httperr"
	"github.com/beautyai/beautyai-api/internal/httpresp"
	infraRepo "github.com/beautyai/beautyai-api/internal/infra/repository"
	"github.com/beautyai/beautyai-api/internal/middleware"
	"github.com/beautyai/beautyai-api/internal/models"
	"github.com/beautyai/beautyai-api/internal/validators"
)

var (
	errClientNotFound       = httperr.ErrNotFound("client_not_found", "Client not found")
	errNoClientPermission   = httperr.ErrForbidden("no_permission_for_client", "No permission for this client")
	errClientExists         = httperr.ErrConflict("client_profile_exists", "User already has a client profile")
	errNotClientAccount     = httperr.ErrBadRequest("not_a_client_account", "User must have the client role")
	errMissingAccountData   = httperr.ErrBadRequest("missing_account_data", "Provide user_id or email and password")
	errCosmetologistInvalid = httperr.ErrBadRequest("invalid_cosmetologist", "Cosmetologist must be an admin user")
)

type ClientHandler struct {
	db       *gorm.DB
	emails   validators.EmailChecker
	audit    Auditor
	timezone string
}

func NewClientHandler(db *gorm.DB, emails validators.EmailChecker, audit Auditor, timezone string) *ClientHandler {
	return &ClientHandler{db: db, emails: emails, audit: audit, timezone: timezone}
}

// ======================================================
// CREATE
// ======================================================

func (h *ClientHandler) Create(c *gin.Context) {
	caller := middleware.CurrentUser(c)
	if err := auth.RequireAdmin(caller); err != nil {
		httperr.FromError(c, err)
		return
	}

	var req dto.ClientCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	birth, err := parseOptionalDate(h.timezone, req.BirthDate)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	client := models.Client{
		Phone:     req.Phone,
		BirthDate: birth,
		Address:   req.Address,
		Notes:     req.Notes,
	}

	switch {
	case caller.Role == models.RoleAdmin:
		client.CosmetologistID = &caller.ID
	case req.CosmetologistID != nil:
		if err := h.checkCosmetologist(c, *req.CosmetologistID); err != nil {
			httperr.FromError(c, err)
			return
		}
		client.CosmetologistID = req.CosmetologistID
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		user, err := h.resolveAccount(tx, req)
		if err != nil {
			return err
		}
		client.UserID = user.ID

		if err := tx.Create(&client).Error; err != nil {
			if infraRepo.IsUniqueViolation(err) {
				return errClientExists
			}
			return err
		}
		client.User = user
		return nil
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &caller.ID,
		ClientID: &client.ID,
		Action:   audit.ActionClientCreated,
		Entity:   "client",
		EntityID: &client.ID,
	})

	httpresp.OK(c, client)
}

// resolveAccount loads the referenced client account or creates a new one.
func (h *ClientHandler) resolveAccount(tx *gorm.DB, req dto.ClientCreateRequest) (*models.User, error) {
	if req.UserID != nil {
		var user models.User
		if err := tx.First(&user, *req.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errUserNotFound
			}
			return nil, err
		}
		if user.Role != models.RoleClient {
			return nil, errNotClientAccount
		}
		return &user, nil
	}

	if req.Email == "" || req.Password == "" {
		return nil, errMissingAccountData
	}

	email := validators.NormalizeEmail(req.Email)
	if !h.emails.Valid(email) {
		return nil, errInvalidEmail
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         models.RoleClient,
		IsActive:     true,
	}
	if err := tx.Create(&user).Error; err != nil {
		if infraRepo.IsUniqueViolation(err) {
			return nil, errEmailTaken
		}
		return nil, err
	}
	return &user, nil
}

func (h *ClientHandler) checkCosmetologist(c *gin.Context, id uint) error {
	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errCosmetologistInvalid
		}
		return err
	}
	if user.Role != models.RoleAdmin {
		return errCosmetologistInvalid
	}
	return nil
}

// ======================================================
// LIST / GET
// ======================================================

func (h *ClientHandler) List(c *gin.Context) {
	caller := middleware.CurrentUser(c)
	if err := auth.RequireAdmin(caller); err != nil {
		httperr.FromError(c, err)
		return
	}

	skip, limit := httpresp.Page(c, 100, 500)

	q := h.db.WithContext(c.Request.Context()).Preload("User")
	if caller.Role == models.RoleAdmin {
		q = q.Where("cosmetologist_id = ?", caller.ID)
	}

	clients := []models.Client{}
	if err := q.
		Order("id ASC").
		Offset(skip).
		Limit(limit).
		Find(&clients).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Items(c, clients)
}

func (h *ClientHandler) Get(c *gin.Context) {
	client, ok := h.load(c, authz.Read)
	if !ok {
		return
	}
	httpresp.OK(c, client)
}

// ======================================================
// UPDATE
// ======================================================

func (h *ClientHandler) Update(c *gin.Context) {
	client, ok := h.load(c, authz.Manage)
	if !ok {
		return
	}

	var req dto.ClientUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.BirthDate != nil {
		birth, err := parseOptionalDate(h.timezone, req.BirthDate)
		if err != nil {
			httperr.FromError(c, err)
			return
		}
		client.BirthDate = birth
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if req.Notes != nil {
		client.Notes = *req.Notes
	}

	caller := middleware.CurrentUser(c)
	if req.CosmetologistID != nil && caller.Role == models.RoleSuperadmin {
		if err := h.checkCosmetologist(c, *req.CosmetologistID); err != nil {
			httperr.FromError(c, err)
			return
		}
		client.CosmetologistID = req.CosmetologistID
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(client).
		Omit(clause.Associations).
		Select("cosmetologist_id", "phone", "birth_date", "address", "notes").
		Updates(client).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, client)
}

// load applies the access policy after the existence check.
func (h *ClientHandler) load(c *gin.Context, access authz.Access) (*models.Client, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}

	var client models.Client
	if err := h.db.WithContext(c.Request.Context()).
		Preload("User").
		First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = errClientNotFound
		}
		httperr.FromError(c, err)
		return nil, false
	}

	if err := authz.Authorize(middleware.CurrentUser(c), &client, access); err != nil {
		httperr.FromError(c, errNoClientPermission)
		return nil, false
	}
	return &client, true
}

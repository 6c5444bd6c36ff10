package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/beautyai/beautyai-api/internal/auth"
	"github.com/beautyai/beautyai-api/internal/dto"
	"github.com/beautyai/beautyai-api/internal/httperr"
	"github.com/beautyai/beautyai-api/internal/httpresp"
	infraRepo "github.com/beautyai/beautyai-api/internal/infra/repository"
	"github.com/beautyai/beautyai-api/internal/middleware"
	"github.com/beautyai/beautyai-api/internal/models"
)

var (
	errProductNotFound = httperr.ErrNotFound("product_not_found", "Product not found")
	errProductInUse    = httperr.ErrConflict("product_in_use", "Product is referenced by a care plan or analysis")
)

type ProductHandler struct {
	db *gorm.DB
}

func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{db: db}
}

// --------- Handlers ---------

func (h *ProductHandler) List(c *gin.Context) {
	category := strings.ToLower(strings.TrimSpace(c.Query("category")))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))
	skip, limit := httpresp.Page(c, 100, 500)

	q := h.db.WithContext(c.Request.Context()).Model(&models.Product{})

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(description) LIKE ?", like, like, like)
	}

	products := []models.Product{}
	if err := q.
		Order("id ASC").
		Offset(skip).
		Limit(limit).
		Find(&products).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Items(c, products)
}

func (h *ProductHandler) Get(c *gin.Context) {
	product, ok := h.load(c)
	if !ok {
		return
	}
	httpresp.OK(c, product)
}

func (h *ProductHandler) Create(c *gin.Context) {
	if err := auth.RequireAdmin(middleware.CurrentUser(c)); err != nil {
		httperr.FromError(c, err)
		return
	}

	var req dto.ProductCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	product := models.Product{
		Name:        strings.TrimSpace(req.Name),
		Brand:       req.Brand,
		Category:    strings.ToLower(req.Category),
		Description: req.Description,
		Ingredients: req.Ingredients,
		ImageURL:    req.ImageURL,
		Price:       req.Price,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&product).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	if err := auth.RequireAdmin(middleware.CurrentUser(c)); err != nil {
		httperr.FromError(c, err)
		return
	}

	product, ok := h.load(c)
	if !ok {
		return
	}

	var req dto.ProductUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Brand != nil {
		product.Brand = *req.Brand
	}
	if req.Category != nil {
		product.Category = strings.ToLower(*req.Category)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Ingredients != nil {
		product.Ingredients = *req.Ingredients
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.Price != nil {
		product.Price = req.Price
	}

	if err := h.db.WithContext(c.Request.Context()).Save(product).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := auth.RequireAdmin(middleware.CurrentUser(c)); err != nil {
		httperr.FromError(c, err)
		return
	}

	product, ok := h.load(c)
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(product).Error; err != nil {
		if infraRepo.IsForeignKeyViolation(err) {
			err = errProductInUse
		}
		httperr.FromError(c, err)
		return
	}

	httpresp.NoContent(c)
}

func (h *ProductHandler) load(c *gin.Context) (*models.Product, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}

	var product models.Product
	if err := h.db.WithContext(c.Request.Context()).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = errProductNotFound
		}
		httperr.FromError(c, err)
		return nil, false
	}
	return &product, true
}

package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/beautyai/beautyai-api/internal/domain/analysis"
	"github.com/beautyai/beautyai-api/internal/models"
)

type AnalysisGormRepository struct {
	clientLookup
	db *gorm.DB
}

var _ domain.Repository = (*AnalysisGormRepository)(nil)

func NewAnalysisGormRepository(db *gorm.DB) *AnalysisGormRepository {
	return &AnalysisGormRepository{clientLookup: clientLookup{db: db}, db: db}
}

func (r *AnalysisGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewAnalysisGormRepository(tx))
	})
}

func (r *AnalysisGormRepository) GetProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	products := []models.Product{}
	if len(ids) == 0 {
		return products, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *AnalysisGormRepository) CreateAnalysis(ctx context.Context, a *models.Analysis) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error
}

func (r *AnalysisGormRepository) UpdateAnalysis(ctx context.Context, a *models.Analysis) error {
	return r.db.WithContext(ctx).
		Model(a).
		Omit(clause.Associations).
		Select(
			"skin_type", "hydration_level", "sebum_level", "pigmentation",
			"wrinkles", "pores", "sensitivity", "notes", "ai_recommendations",
		).
		Updates(a).Error
}

func (r *AnalysisGormRepository) GetAnalysis(ctx context.Context, id uint) (*models.Analysis, error) {
	var a models.Analysis
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("RecommendedProducts").
		First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AnalysisGormRepository) ListAnalyses(ctx context.Context, f domain.ListFilter) ([]models.Analysis, error) {
	out := []models.Analysis{}

	q := r.db.WithContext(ctx).Model(&models.Analysis{})
	if f.ClientIDs != nil {
		if len(f.ClientIDs) == 0 {
			return out, nil
		}
		q = q.Where("client_id IN ?", f.ClientIDs)
	}

	if err := q.
		Order("performed_at DESC, id DESC").
		Offset(f.Skip).
		Limit(f.Limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AnalysisGormRepository) ReplaceRecommendedProducts(
	ctx context.Context,
	a *models.Analysis,
	products []models.Product,
) error {
	assoc := r.db.WithContext(ctx).Model(a).Association("RecommendedProducts")
	if len(products) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(products)
}

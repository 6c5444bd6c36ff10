package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/beautyai/beautyai-api/internal/domain/careplan"
	"github.com/beautyai/beautyai-api/internal/models"
)

type CarePlanGormRepository struct {
	clientLookup
	db *gorm.DB
}

var _ domain.Repository = (*CarePlanGormRepository)(nil)

func NewCarePlanGormRepository(db *gorm.DB) *CarePlanGormRepository {
	return &CarePlanGormRepository{clientLookup: clientLookup{db: db}, db: db}
}

func (r *CarePlanGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewCarePlanGormRepository(tx))
	})
}

// --------------------------------------------------
// Analysis / Product
// --------------------------------------------------

func (r *CarePlanGormRepository) GetAnalysisForClient(
	ctx context.Context,
	analysisID uint,
	clientID uint,
) (*models.Analysis, error) {

	var a models.Analysis
	if err := r.db.WithContext(ctx).
		Where("id = ? AND client_id = ?", analysisID, clientID).
		First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *CarePlanGormRepository) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// --------------------------------------------------
// Care plan
// --------------------------------------------------

func (r *CarePlanGormRepository) CreateCarePlan(ctx context.Context, plan *models.CarePlan) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(plan).Error
}

func (r *CarePlanGormRepository) UpdateCarePlan(ctx context.Context, plan *models.CarePlan) error {
	return r.db.WithContext(ctx).
		Model(plan).
		Omit(clause.Associations).
		Select("title", "description", "valid_until").
		Updates(plan).Error
}

func (r *CarePlanGormRepository) DeleteCarePlan(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.CarePlan{}, id).Error
}

func (r *CarePlanGormRepository) GetCarePlan(ctx context.Context, id uint) (*models.CarePlan, error) {
	var plan models.CarePlan
	if err := r.db.WithContext(ctx).First(&plan, id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *CarePlanGormRepository) GetCarePlanDetail(ctx context.Context, id uint) (*models.CarePlan, error) {
	var plan models.CarePlan
	if err := r.db.WithContext(ctx).
		Preload("Client.User").
		Preload("Analysis").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Preload("Items.Product").
		First(&plan, id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *CarePlanGormRepository) ListCarePlans(ctx context.Context, f domain.ListFilter) ([]models.CarePlan, error) {
	plans := []models.CarePlan{}

	q := r.db.WithContext(ctx).Model(&models.CarePlan{})
	if f.ClientIDs != nil {
		if len(f.ClientIDs) == 0 {
			return plans, nil
		}
		q = q.Where("client_id IN ?", f.ClientIDs)
	}

	if err := q.
		Order("created_at DESC, id DESC").
		Offset(f.Skip).
		Limit(f.Limit).
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// --------------------------------------------------
// Items
// --------------------------------------------------

func (r *CarePlanGormRepository) CreateItems(ctx context.Context, items []models.CarePlanItem) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&items).Error
}

func (r *CarePlanGormRepository) DeleteItems(ctx context.Context, carePlanID uint) error {
	return r.db.WithContext(ctx).
		Where("care_plan_id = ?", carePlanID).
		Delete(&models.CarePlanItem{}).Error
}

package careplan

import (
	"context"

	"github.com/beautyai/beautyai-api/internal/models"
)

// ListFilter scopes a plan listing. A nil ClientIDs means unscoped.
type ListFilter struct {
	ClientIDs []uint
	Skip      int
	Limit     int
}

// Repository returns gorm.ErrRecordNotFound for missing rows.
type Repository interface {
	// Transaction runs fn against a repository bound to one database transaction.
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	// -------- Client / Analysis / Product --------
	GetClient(ctx context.Context, id uint) (*models.Client, error)
	GetClientByUserID(ctx context.Context, userID uint) (*models.Client, error)
	ListClientIDsForCosmetologist(ctx context.Context, cosmetologistID uint) ([]uint, error)

	GetAnalysisForClient(
		ctx context.Context,
		analysisID uint,
		clientID uint,
	) (*models.Analysis, error)

	GetProduct(ctx context.Context, id uint) (*models.Product, error)

	// -------- Care plan --------
	CreateCarePlan(ctx context.Context, plan *models.CarePlan) error
	UpdateCarePlan(ctx context.Context, plan *models.CarePlan) error
	DeleteCarePlan(ctx context.Context, id uint) error

	GetCarePlan(ctx context.Context, id uint) (*models.CarePlan, error)

	// GetCarePlanDetail loads client (with user), analysis and items with products, items by order.
	GetCarePlanDetail(ctx context.Context, id uint) (*models.CarePlan, error)

	ListCarePlans(ctx context.Context, f ListFilter) ([]models.CarePlan, error)

	// -------- Items --------
	CreateItems(ctx context.Context, items []models.CarePlanItem) error
	DeleteItems(ctx context.Context, carePlanID uint) error
}

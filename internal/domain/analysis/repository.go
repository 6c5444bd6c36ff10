package analysis

import (
	"context"

	"github.com/beautyai/beautyai-api/internal/models"
)

type ListFilter struct {
	ClientIDs []uint
	Skip      int
	Limit     int
}

// Repository returns gorm.ErrRecordNotFound for missing rows.
type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	GetClient(ctx context.Context, id uint) (*models.Client, error)
	GetClientByUserID(ctx context.Context, userID uint) (*models.Client, error)
	ListClientIDsForCosmetologist(ctx context.Context, cosmetologistID uint) ([]uint, error)

	// GetProductsByIDs returns the existing subset, in no particular order.
	GetProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error)

	CreateAnalysis(ctx context.Context, a *models.Analysis) error
	UpdateAnalysis(ctx context.Context, a *models.Analysis) error

	// GetAnalysis loads the analysis with its client and recommended products.
	GetAnalysis(ctx context.Context, id uint) (*models.Analysis, error)
	ListAnalyses(ctx context.Context, f ListFilter) ([]models.Analysis, error)

	ReplaceRecommendedProducts(ctx context.Context, a *models.Analysis, products []models.Product) error
}

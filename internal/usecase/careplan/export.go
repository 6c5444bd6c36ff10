package careplan

import (
	"context"

	"github.com/beautyai/beautyai-api/internal/document"
	domain "github.com/beautyai/beautyai-api/internal/domain/careplan"
	"github.com/beautyai/beautyai-api/internal/models"
)

type ExportCarePlan struct {
	repo     domain.Repository
	timezone string
}

func NewExportCarePlan(repo domain.Repository, timezone string) *ExportCarePlan {
	return &ExportCarePlan{repo: repo, timezone: timezone}
}

func (uc *ExportCarePlan) Execute(
	ctx context.Context,
	caller *models.User,
	planID uint,
) (document.Document, error) {

	plan, err := loadReadable(ctx, uc.repo, caller, planID)
	if err != nil {
		return document.Document{}, err
	}

	return document.Compose(plan, uc.timezone), nil
}

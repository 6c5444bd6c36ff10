package careplan

import (
	"context"

	"github.com/beautyai/beautyai-api/internal/authz"
	domain "github.com/beautyai/beautyai-api/internal/domain/careplan"
	"github.com/beautyai/beautyai-api/internal/models"
)

type GetCarePlan struct {
	repo domain.Repository
}

func NewGetCarePlan(repo domain.Repository) *GetCarePlan {
	return &GetCarePlan{repo: repo}
}

func (uc *GetCarePlan) Execute(
	ctx context.Context,
	caller *models.User,
	planID uint,
) (*models.CarePlan, error) {
	return loadReadable(ctx, uc.repo, caller, planID)
}

// loadReadable checks existence first, then read access.
func loadReadable(
	ctx context.Context,
	repo domain.Repository,
	caller *models.User,
	planID uint,
) (*models.CarePlan, error) {

	plan, err := repo.GetCarePlanDetail(ctx, planID)
	if err != nil {
		return nil, notFoundAs(err, ErrCarePlanNotFound)
	}

	if plan.Client == nil {
		return nil, ErrNoCarePlanPermission
	}
	if err := authz.Authorize(caller, plan.Client, authz.Read); err != nil {
		return nil, ErrNoCarePlanPermission
	}

	domain.SortItems(plan.Items)
	return plan, nil
}

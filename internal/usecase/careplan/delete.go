package careplan

import (
	"context"

	"github.com/beautyai/beautyai-api/internal/audit"
	"github.com/beautyai/beautyai-api/internal/auth"
	domain "github.com/beautyai/beautyai-api/internal/domain/careplan"
	"github.com/beautyai/beautyai-api/internal/models"
)

type DeleteCarePlan struct {
	repo  domain.Repository
	audit Auditor
}

func NewDeleteCarePlan(repo domain.Repository, audit Auditor) *DeleteCarePlan {
	return &DeleteCarePlan{repo: repo, audit: audit}
}

func (uc *DeleteCarePlan) Execute(
	ctx context.Context,
	caller *models.User,
	planID uint,
) error {

	if err := auth.RequireAdmin(caller); err != nil {
		return err
	}

	plan, err := loadManageable(ctx, uc.repo, caller, planID)
	if err != nil {
		return err
	}

	// items first, then the plan row
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.DeleteItems(ctx, plan.ID); err != nil {
			return err
		}
		return tx.DeleteCarePlan(ctx, plan.ID)
	})
	if err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &caller.ID,
		ClientID: &plan.ClientID,
		Action:   audit.ActionCarePlanDeleted,
		Entity:   "care_plan",
		EntityID: &plan.ID,
	})

	return nil
}

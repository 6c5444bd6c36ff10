package careplan

import (
	"context"
	"time"

	"github.com/beautyai/beautyai-api/internal/audit"
	"github.com/beautyai/beautyai-api/internal/auth"
	"github.com/beautyai/beautyai-api/internal/authz"
	domain "github.com/beautyai/beautyai-api/internal/domain/careplan"
	"github.com/beautyai/beautyai-api/internal/models"
)

type UpdateInput struct {
	Title       string
	Description string
	ValidUntil  *time.Time
	Items       []domain.ItemInput
}

type UpdateCarePlan struct {
	repo  domain.Repository
	audit Auditor
}

func NewUpdateCarePlan(repo domain.Repository, audit Auditor) *UpdateCarePlan {
	return &UpdateCarePlan{repo: repo, audit: audit}
}

// Execute replaces the scalar fields and the whole item list.
// client_id and analysis_id are fixed at creation.
func (uc *UpdateCarePlan) Execute(
	ctx context.Context,
	caller *models.User,
	planID uint,
	in UpdateInput,
) (*models.CarePlan, error) {

	if err := auth.RequireAdmin(caller); err != nil {
		return nil, err
	}

	plan, err := loadManageable(ctx, uc.repo, caller, planID)
	if err != nil {
		return nil, err
	}

	plan.Title = in.Title
	plan.Description = in.Description
	plan.ValidUntil = in.ValidUntil

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.UpdateCarePlan(ctx, plan); err != nil {
			return err
		}
		if err := tx.DeleteItems(ctx, plan.ID); err != nil {
			return err
		}
		return insertItems(ctx, tx, plan.ID, in.Items)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &caller.ID,
		ClientID: &plan.ClientID,
		Action:   audit.ActionCarePlanUpdated,
		Entity:   "care_plan",
		EntityID: &plan.ID,
		Metadata: map[string]any{"items": len(in.Items)},
	})

	return plan, nil
}

// loadManageable checks existence, then that the caller manages the plan's client.
func loadManageable(
	ctx context.Context,
	repo domain.Repository,
	caller *models.User,
	planID uint,
) (*models.CarePlan, error) {

	plan, err := repo.GetCarePlan(ctx, planID)
	if err != nil {
		return nil, notFoundAs(err, ErrCarePlanNotFound)
	}

	client, err := repo.GetClient(ctx, plan.ClientID)
	if err != nil {
		return nil, notFoundAs(err, ErrNoCarePlanPermission)
	}
	if err := authz.Authorize(caller, client, authz.Manage); err != nil {
		return nil, ErrNoCarePlanPermission
	}

	return plan, nil
}

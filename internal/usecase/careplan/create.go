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

// ======================================================
// INPUT
// ======================================================

type CreateInput struct {
	ClientID    uint
	AnalysisID  uint
	Title       string
	Description string
	ValidUntil  *time.Time
	Items       []domain.ItemInput
}

// ======================================================
// USE CASE
// ======================================================

type CreateCarePlan struct {
	repo  domain.Repository
	audit Auditor
}

func NewCreateCarePlan(repo domain.Repository, audit Auditor) *CreateCarePlan {
	return &CreateCarePlan{repo: repo, audit: audit}
}

func (uc *CreateCarePlan) Execute(
	ctx context.Context,
	caller *models.User,
	in CreateInput,
) (*models.CarePlan, error) {

	if err := auth.RequireAdmin(caller); err != nil {
		return nil, err
	}

	client, err := uc.repo.GetClient(ctx, in.ClientID)
	if err != nil {
		return nil, notFoundAs(err, ErrClientNotFound)
	}

	if err := authz.Authorize(caller, client, authz.Manage); err != nil {
		return nil, ErrNoClientPermission
	}

	if _, err := uc.repo.GetAnalysisForClient(ctx, in.AnalysisID, client.ID); err != nil {
		return nil, notFoundAs(err, ErrAnalysisNotFound)
	}

	plan := &models.CarePlan{
		ClientID:    client.ID,
		AnalysisID:  in.AnalysisID,
		CreatedBy:   caller.ID,
		Title:       in.Title,
		Description: in.Description,
		ValidUntil:  in.ValidUntil,
	}

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.CreateCarePlan(ctx, plan); err != nil {
			return err
		}
		return insertItems(ctx, tx, plan.ID, in.Items)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &caller.ID,
		ClientID: &client.ID,
		Action:   audit.ActionCarePlanCreated,
		Entity:   "care_plan",
		EntityID: &plan.ID,
		Metadata: map[string]any{"items": len(in.Items)},
	})

	created, err := uc.repo.GetCarePlanDetail(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	domain.SortItems(created.Items)
	return created, nil
}

// insertItems checks every product before writing any item row.
func insertItems(ctx context.Context, tx domain.Repository, planID uint, in []domain.ItemInput) error {
	for _, it := range in {
		if _, err := tx.GetProduct(ctx, it.ProductID); err != nil {
			return notFoundAs(err, productNotFound(it.ProductID))
		}
	}

	items := domain.BuildItems(planID, in)
	if len(items) == 0 {
		return nil
	}
	return tx.CreateItems(ctx, items)
}

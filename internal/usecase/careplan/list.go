package careplan

import (
	"context"

	domain "github.com/beautyai/beautyai-api/internal/domain/careplan"
	"github.com/beautyai/beautyai-api/internal/models"
)

type ListInput struct {
	ClientID *uint
	Skip     int
	Limit    int
}

type ListCarePlans struct {
	repo domain.Repository
}

func NewListCarePlans(repo domain.Repository) *ListCarePlans {
	return &ListCarePlans{repo: repo}
}

// Execute lists plans newest first, scoped to what the caller may see.
func (uc *ListCarePlans) Execute(
	ctx context.Context,
	caller *models.User,
	in ListInput,
) ([]models.CarePlan, error) {

	skip, limit := clampPage(in.Skip, in.Limit)
	f := domain.ListFilter{Skip: skip, Limit: limit}

	switch caller.Role {
	case models.RoleSuperadmin:
		if in.ClientID != nil {
			f.ClientIDs = []uint{*in.ClientID}
		}

	case models.RoleAdmin:
		if in.ClientID != nil {
			client, err := uc.repo.GetClient(ctx, *in.ClientID)
			if err != nil {
				// an unknown filter is treated like a foreign one
				return nil, notFoundAs(err, ErrNoClientPermission)
			}
			if !client.AssignedTo(caller.ID) {
				return nil, ErrNoClientPermission
			}
			f.ClientIDs = []uint{client.ID}
			break
		}

		ids, err := uc.repo.ListClientIDsForCosmetologist(ctx, caller.ID)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return []models.CarePlan{}, nil
		}
		f.ClientIDs = ids

	default:
		client, err := uc.repo.GetClientByUserID(ctx, caller.ID)
		if err != nil {
			return nil, notFoundAs(err, ErrClientProfileNotFound)
		}
		f.ClientIDs = []uint{client.ID}
	}

	return uc.repo.ListCarePlans(ctx, f)
}

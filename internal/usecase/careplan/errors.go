package careplan

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/beautyai/beautyai-api/internal/audit"
	"github.com/beautyai/beautyai-api/internal/httperr"
)

var (
	ErrClientNotFound        = httperr.ErrNotFound("client_not_found", "Client not found")
	ErrClientProfileNotFound = httperr.ErrNotFound("client_profile_not_found", "Client profile not found")
	ErrAnalysisNotFound      = httperr.ErrNotFound("analysis_not_found", "Analysis not found or doesn't belong to this client")
	ErrCarePlanNotFound      = httperr.ErrNotFound("care_plan_not_found", "Care plan not found")

	ErrNoClientPermission   = httperr.ErrForbidden("no_permission_for_client", "No permission for this client")
	ErrNoCarePlanPermission = httperr.ErrForbidden("no_permission_for_care_plan", "No permission for this care plan")
)

func productNotFound(id uint) error {
	return httperr.ErrNotFound("product_not_found", fmt.Sprintf("Product with id %d not found", id))
}

// notFoundAs swaps a missing-row error for the given business error.
func notFoundAs(err error, nf error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nf
	}
	return err
}

type Auditor interface {
	Dispatch(ev audit.Event)
}

const (
	defaultLimit = 100
	maxLimit     = 500
)

func clampPage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return skip, limit
}

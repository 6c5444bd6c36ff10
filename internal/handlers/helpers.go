package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/beautyai/beautyai-api/internal/httperr"
	"github.com/beautyai/beautyai-api/internal/timezone"
)

var (
	errInvalidID      = httperr.ErrBusiness("invalid_id")
	errInvalidRequest = httperr.ErrBadRequest("invalid_request", "Invalid request body")
	errInvalidDate    = httperr.ErrBadRequest("invalid_date", "Dates must use YYYY-MM-DD")
)

// --------------------------------------------------
// Path / query params
// --------------------------------------------------

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.FromError(c, errInvalidID)
		return 0, false
	}
	return uint(id), true
}

// optionalQueryID returns nil when the parameter is absent.
func optionalQueryID(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httperr.FromError(c, errInvalidID)
		return nil, false
	}
	v := uint(id)
	return &v, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		c.Abort()
		return false
	}
	return true
}

// --------------------------------------------------
// Dates in the practice timezone
// --------------------------------------------------

func parseDateIn(tz, s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, timezone.Location(tz))
}

// parseOptionalDate treats nil and "" as no date.
func parseOptionalDate(tz string, s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseDateIn(tz, *s)
	if err != nil {
		return nil, errInvalidDate
	}
	return &t, nil
}

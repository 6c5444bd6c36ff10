package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/beautyai/beautyai-api/internal/dto"
	"github.com/beautyai/beautyai-api/internal/httperr"
	"github.com/beautyai/beautyai-api/internal/httpresp"
	"github.com/beautyai/beautyai-api/internal/middleware"
	ucAnalysis "github.com/beautyai/beautyai-api/internal/usecase/analysis"
)

var errMissingClient = httperr.ErrBadRequest("missing_client_id", "client_id is required")

type AnalysisHandler struct {
	svc      *ucAnalysis.Service
	maxBytes int64
}

func NewAnalysisHandler(svc *ucAnalysis.Service, maxBytes int64) *AnalysisHandler {
	return &AnalysisHandler{svc: svc, maxBytes: maxBytes}
}

// ======================================================
// CREATE (multipart)
// ======================================================

func (h *AnalysisHandler) Create(c *gin.Context) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}

	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httperr.Write(c, http.StatusRequestEntityTooLarge, "upload_too_large", "Upload exceeds the size limit")
			c.Abort()
			return
		}
		httperr.FromError(c, errInvalidRequest)
		return
	}

	clientID, err := strconv.ParseUint(c.PostForm("client_id"), 10, 64)
	if err != nil || clientID == 0 {
		httperr.FromError(c, errMissingClient)
		return
	}

	in := ucAnalysis.CreateInput{
		ClientID: uint(clientID),
		SkinType: c.PostForm("skin_type"),
		Notes:    c.PostForm("notes"),
	}

	fh, err := c.FormFile("image")
	switch {
	case err == nil:
		f, err := fh.Open()
		if err != nil {
			httperr.FromError(c, errInvalidRequest)
			return
		}
		defer f.Close()
		in.Image = f
	case !errors.Is(err, http.ErrMissingFile):
		httperr.FromError(c, errInvalidRequest)
		return
	}

	a, err := h.svc.Create(c.Request.Context(), middleware.CurrentUser(c), in)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, a)
}

// ======================================================
// READ
// ======================================================

func (h *AnalysisHandler) List(c *gin.Context) {
	clientID, ok := optionalQueryID(c, "client_id")
	if !ok {
		return
	}
	skip, limit := httpresp.Page(c, 100, 500)

	out, err := h.svc.List(c.Request.Context(), middleware.CurrentUser(c), ucAnalysis.ListInput{
		ClientID: clientID,
		Skip:     skip,
		Limit:    limit,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Items(c, out)
}

func (h *AnalysisHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	a, err := h.svc.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, a)
}

func (h *AnalysisHandler) Image(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	rc, contentType, err := h.svc.OpenImage(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, -1, contentType, rc, map[string]string{
		"Cache-Control": "private, max-age=3600",
	})
}

// ======================================================
// UPDATE
// ======================================================

func (h *AnalysisHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req dto.AnalysisUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.svc.Update(c.Request.Context(), middleware.CurrentUser(c), id, req.Patch())
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, a)
}

func (h *AnalysisHandler) ReplaceProducts(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req dto.RecommendedProductsRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.svc.ReplaceProducts(c.Request.Context(), middleware.CurrentUser(c), id, req.ProductIDs)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, a)
}

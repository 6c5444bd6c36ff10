package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beautyai/beautyai-api/internal/document"
	"github.com/beautyai/beautyai-api/internal/dto"
	"github.com/beautyai/beautyai-api/internal/httperr"
	"github.com/beautyai/beautyai-api/internal/httpresp"
	"github.com/beautyai/beautyai-api/internal/middleware"
	ucCarePlan "github.com/beautyai/beautyai-api/internal/usecase/careplan"
)

// ======================================================
// HANDLER
// ======================================================

type CarePlanHandler struct {
	createUC *ucCarePlan.CreateCarePlan
	listUC   *ucCarePlan.ListCarePlans
	getUC    *ucCarePlan.GetCarePlan
	updateUC *ucCarePlan.UpdateCarePlan
	deleteUC *ucCarePlan.DeleteCarePlan
	exportUC *ucCarePlan.ExportCarePlan
}

func NewCarePlanHandler(
	createUC *ucCarePlan.CreateCarePlan,
	listUC *ucCarePlan.ListCarePlans,
	getUC *ucCarePlan.GetCarePlan,
	updateUC *ucCarePlan.UpdateCarePlan,
	deleteUC *ucCarePlan.DeleteCarePlan,
	exportUC *ucCarePlan.ExportCarePlan,
) *CarePlanHandler {
	return &CarePlanHandler{
		createUC: createUC,
		listUC:   listUC,
		getUC:    getUC,
		updateUC: updateUC,
		deleteUC: deleteUC,
		exportUC: exportUC,
	}
}

// ======================================================
// CREATE
// ======================================================

func (h *CarePlanHandler) Create(c *gin.Context) {
	var req dto.CarePlanCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	plan, err := h.createUC.Execute(c.Request.Context(), middleware.CurrentUser(c), ucCarePlan.CreateInput{
		ClientID:    req.ClientID,
		AnalysisID:  req.AnalysisID,
		Title:       req.Title,
		Description: req.Description,
		ValidUntil:  req.ValidUntil,
		Items:       dto.ItemInputs(req.Items),
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, plan)
}

// ======================================================
// LIST / GET
// ======================================================

func (h *CarePlanHandler) List(c *gin.Context) {
	clientID, ok := optionalQueryID(c, "client_id")
	if !ok {
		return
	}
	skip, limit := httpresp.Page(c, 100, 500)

	plans, err := h.listUC.Execute(c.Request.Context(), middleware.CurrentUser(c), ucCarePlan.ListInput{
		ClientID: clientID,
		Skip:     skip,
		Limit:    limit,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Items(c, plans)
}

func (h *CarePlanHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	plan, err := h.getUC.Execute(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, plan)
}

// ======================================================
// UPDATE / DELETE
// ======================================================

func (h *CarePlanHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req dto.CarePlanUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	plan, err := h.updateUC.Execute(c.Request.Context(), middleware.CurrentUser(c), id, ucCarePlan.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		ValidUntil:  req.ValidUntil,
		Items:       dto.ItemInputs(req.Items),
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, plan)
}

func (h *CarePlanHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.NoContent(c)
}

// ======================================================
// EXPORT
// ======================================================

// Export renders the plan as an attachment; ?format=xlsx selects the spreadsheet.
func (h *CarePlanHandler) Export(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	doc, err := h.exportUC.Execute(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	renderer := document.ForFormat(c.Query("format"))

	var buf bytes.Buffer
	if err := renderer.Render(&buf, doc); err != nil {
		httperr.FromError(c, err)
		return
	}

	c.DataFromReader(http.StatusOK, int64(buf.Len()), renderer.ContentType(), &buf, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=care_plan_%d.%s", id, renderer.Extension()),
	})
}

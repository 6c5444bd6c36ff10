package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/beautyai/beautyai-api/internal/httpresp"
	"github.com/beautyai/beautyai-api/internal/middleware"
)

type MeHandler struct{}

func NewMeHandler() *MeHandler {
	return &MeHandler{}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	httpresp.OK(c, middleware.CurrentUser(c))
}

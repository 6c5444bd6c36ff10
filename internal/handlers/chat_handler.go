package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/beautyai/beautyai-api/internal/dto"
	"github.com/beautyai/beautyai-api/internal/httperr"
	"github.com/beautyai/beautyai-api/internal/httpresp"
	"github.com/beautyai/beautyai-api/internal/middleware"
	ucChat "github.com/beautyai/beautyai-api/internal/usecase/chat"
)

type ChatHandler struct {
	sendUC     *ucChat.SendMessage
	listUC     *ucChat.ListMessages
	markReadUC *ucChat.MarkRead
}

func NewChatHandler(
	sendUC *ucChat.SendMessage,
	listUC *ucChat.ListMessages,
	markReadUC *ucChat.MarkRead,
) *ChatHandler {
	return &ChatHandler{sendUC: sendUC, listUC: listUC, markReadUC: markReadUC}
}

func (h *ChatHandler) Send(c *gin.Context) {
	var req dto.SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	msg, err := h.sendUC.Execute(c.Request.Context(), middleware.CurrentUser(c), ucChat.SendInput{
		ClientID:     req.ClientID,
		Message:      req.Message,
		IsFromClient: req.IsFromClient,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, msg)
}

// List returns a page of the thread, oldest first.
func (h *ChatHandler) List(c *gin.Context) {
	clientID, ok := paramID(c, "client_id")
	if !ok {
		return
	}
	skip, limit := httpresp.Page(c, 50, 200)

	msgs, err := h.listUC.Execute(c.Request.Context(), middleware.CurrentUser(c), clientID, skip, limit)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Items(c, msgs)
}

func (h *ChatHandler) MarkRead(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	msg, err := h.markReadUC.Execute(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, msg)
}

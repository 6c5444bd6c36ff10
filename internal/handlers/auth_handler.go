package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/beautyai/beautyai-api/internal/auth"
	"github.com/beautyai/beautyai-api/internal/dto"
	"github.com/beautyai/beautyai-api/internal/httperr"
	"github.com/beautyai/beautyai-api/internal/httpresp"
)

type AuthHandler struct {
	auth *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{auth: svc}
}

// Login accepts an OAuth2 password form (username, password) or a JSON body
// (email, password).
func (h *AuthHandler) Login(c *gin.Context) {
	var email, password string

	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req dto.LoginRequest
		if !bindJSON(c, &req) {
			return
		}
		email, password = req.Email, req.Password
	} else {
		email, password = c.PostForm("username"), c.PostForm("password")
		if email == "" || password == "" {
			httperr.FromError(c, errInvalidRequest)
			return
		}
	}

	token, err := h.auth.IssueToken(c.Request.Context(), email, password)
	if err != nil {
		if httperr.IsBusiness(err, "invalid_credentials") {
			c.Header("WWW-Authenticate", "Bearer")
		}
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, token)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "aura-creatures.backend/internal/domain/errors"
	"aura-creatures.backend/internal/interfaces/http/response"
	"aura-creatures.backend/internal/usecases"
)

// OAuthHandler handles the X login endpoints
type OAuthHandler struct {
	oauthUsecase *usecases.OAuthUsecase
}

// NewOAuthHandler creates a new oauth handler
func NewOAuthHandler(oauthUsecase *usecases.OAuthUsecase) *OAuthHandler {
	return &OAuthHandler{oauthUsecase: oauthUsecase}
}

// Authorize starts the OAuth flow
// GET /api/v1/auth/x/authorize
func (h *OAuthHandler) Authorize(c *gin.Context) {
	intent, err := h.oauthUsecase.BeginAuthorization(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, intent)
}

// Callback finishes the OAuth flow
// GET /api/v1/auth/x/callback?code=...&state=...
func (h *OAuthHandler) Callback(c *gin.Context) {
	if provErr := c.Query("error"); provErr != "" {
		response.Error(c, domainerrors.BadRequest("OAUTH_DENIED", "authorization denied: "+provErr))
		return
	}

	grant, err := h.oauthUsecase.CompleteAuthorization(c.Request.Context(), c.Query("code"), c.Query("state"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, grant)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "aura-creatures.backend/internal/domain/errors"
	"aura-creatures.backend/internal/interfaces/http/response"
	"aura-creatures.backend/internal/usecases"
)

// GenerateHandler handles creature generation endpoints
type GenerateHandler struct {
	generateUsecase *usecases.GenerateUsecase
}

// NewGenerateHandler creates a new generate handler
func NewGenerateHandler(generateUsecase *usecases.GenerateUsecase) *GenerateHandler {
	return &GenerateHandler{generateUsecase: generateUsecase}
}

type generateRequest struct {
	WalletAddress string `json:"walletAddress"`
}

// Generate generates (or returns the existing) creature for a wallet
// POST /api/v1/generate
func (h *GenerateHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest("INVALID_BODY", "invalid request body"))
		return
	}
	if req.WalletAddress == "" {
		response.Error(c, domainerrors.BadRequest("MISSING_WALLET", "walletAddress is required"))
		return
	}

	result, err := h.generateUsecase.Generate(c.Request.Context(), req.WalletAddress)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

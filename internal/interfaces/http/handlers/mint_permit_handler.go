package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "aura-creatures.backend/internal/domain/errors"
	"aura-creatures.backend/internal/interfaces/http/middleware"
	"aura-creatures.backend/internal/interfaces/http/response"
	"aura-creatures.backend/internal/usecases"
)

// MintPermitHandler handles mint authorization endpoints
type MintPermitHandler struct {
	mintPermitUsecase *usecases.MintPermitUsecase
}

// NewMintPermitHandler creates a new mint permit handler
func NewMintPermitHandler(mintPermitUsecase *usecases.MintPermitUsecase) *MintPermitHandler {
	return &MintPermitHandler{mintPermitUsecase: mintPermitUsecase}
}

type mintPermitRequest struct {
	Wallet string `json:"wallet"`
}

// IssuePermit issues a signed mint authorization for a paying wallet
// POST /api/v1/mint-permit (behind the payment middleware)
func (h *MintPermitHandler) IssuePermit(c *gin.Context) {
	var req mintPermitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest("INVALID_BODY", "invalid request body"))
		return
	}
	if req.Wallet == "" {
		response.Error(c, domainerrors.BadRequest("MISSING_WALLET", "wallet is required"))
		return
	}

	proof, ok := middleware.PaymentProofFrom(c)
	if !ok {
		// The route is registered behind the payment gate; a missing proof
		// means a wiring bug, not a client error.
		response.Error(c, domainerrors.InternalError(domainerrors.ErrPaymentUnverified))
		return
	}

	permit, err := h.mintPermitUsecase.IssuePermit(c.Request.Context(), req.Wallet, proof.Payer)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, permit)
}

package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"aura-creatures.backend/internal/domain/entities"
	"aura-creatures.backend/pkg/logger"
)

const (
	// PaymentProofKey is the gin context key holding the verified payment.
	PaymentProofKey = "payment_proof"

	paymentHeader = "X-PAYMENT"
	x402Version   = 1
)

// PaymentVerifier checks a raw X-PAYMENT header value with a facilitator.
type PaymentVerifier interface {
	Verify(ctx context.Context, paymentHeader string) (*entities.PaymentProof, error)
}

// PaymentConfig describes the single payment option this service accepts.
type PaymentConfig struct {
	Asset     string
	Amount    string // atomic units
	ChainID   int64
	Recipient string
}

// Network returns the x402 network name for the configured chain.
func (p PaymentConfig) Network() string {
	if p.ChainID == 8453 {
		return "base"
	}
	return "base-sepolia"
}

// PaymentMiddleware gates a route behind an x402 payment. Requests without a
// verifiable payment get a 402 challenge describing how to pay; they never
// reach the handler. Verified requests carry the canonical payment proof in
// the gin context.
func PaymentMiddleware(verifier PaymentVerifier, cfg PaymentConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(paymentHeader)
		if header == "" {
			challenge(c, cfg, "")
			return
		}

		proof, err := verifier.Verify(c.Request.Context(), header)
		if err != nil {
			logger.Warn(c.Request.Context(), "payment verification failed", zap.Error(err))
			challenge(c, cfg, "payment verification failed")
			return
		}

		c.Set(PaymentProofKey, proof)
		c.Next()
	}
}

// PaymentProofFrom retrieves the verified payment set by PaymentMiddleware.
func PaymentProofFrom(c *gin.Context) (*entities.PaymentProof, bool) {
	val, ok := c.Get(PaymentProofKey)
	if !ok {
		return nil, false
	}
	proof, ok := val.(*entities.PaymentProof)
	return proof, ok
}

func challenge(c *gin.Context, cfg PaymentConfig, errMsg string) {
	c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{
		"x402Version": x402Version,
		"accepts": []gin.H{
			{
				"asset":     cfg.Asset,
				"amount":    cfg.Amount,
				"network":   cfg.Network(),
				"recipient": cfg.Recipient,
			},
		},
		"error": errMsg,
	})
}

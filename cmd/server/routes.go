package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aura-creatures.backend/internal/interfaces/http/handlers"
)

const serviceVersion = "0.1.0"

type routeDeps struct {
	generateHandler   *handlers.GenerateHandler
	mintPermitHandler *handlers.MintPermitHandler
	oauthHandler      *handlers.OAuthHandler
	paymentGate       gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Generation (free, rate limited per wallet)
		v1.POST("/generate", d.generateHandler.Generate)

		// Mint authorization (paid, behind the x402 gate)
		v1.POST("/mint-permit", d.paymentGate, d.mintPermitHandler.IssuePermit)

		// X login
		auth := v1.Group("/auth/x")
		{
			auth.GET("/authorize", d.oauthHandler.Authorize)
			auth.GET("/callback", d.oauthHandler.Callback)
		}
	}
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID, X-PAYMENT")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "aura-creatures-backend",
			"version": serviceVersion,
		})
	})
}

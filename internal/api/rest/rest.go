package rest

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler) {
	// Health check endpoint (no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Cap table endpoints
		v1.GET("/cap-table", handler.GetCapTable)
		v1.GET("/cap-table/blocks/:block", handler.GetCapTableAtBlock)
		v1.GET("/cap-table/snapshots", handler.GetSnapshots)

		// Ledger endpoints
		v1.GET("/transfers", handler.ListTransfers)
		v1.GET("/corporate-actions", handler.ListCorporateActions)

		v1.GET("/wallets/:address", handler.GetWallet)
	}
}

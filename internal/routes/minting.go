package routes

import (
	"stakecontrol/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupMintingRoutes sets up routes for minting records
func SetupMintingRoutes(r *gin.Engine) {
	minting := r.Group("/minting-records")
	{
		minting.GET("", handlers.ListMintingRecords)
		minting.GET("/:id", handlers.GetMintingRecord)
		minting.POST("/:id/claim", handlers.ClaimMintingRecord)
	}
}

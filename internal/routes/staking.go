package routes

import (
	"stakecontrol/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupStakingRoutes sets up routes for stake deposits and records
func SetupStakingRoutes(r *gin.Engine, writeLimiter gin.HandlerFunc) {
	staking := r.Group("/staking")
	{
		staking.POST("/deposit", writeLimiter, handlers.DepositStake)
		staking.GET("/records", handlers.ListStakeRecords)
		staking.GET("/records/:id", handlers.GetStakeRecord)
	}
}

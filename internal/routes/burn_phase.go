package routes

import (
	"stakecontrol/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupBurnPhaseRoutes sets up routes for burn phase settings and participation
func SetupBurnPhaseRoutes(r *gin.Engine) {
	phases := r.Group("/burn-phases")
	{
		phases.GET("", handlers.ListBurnPhases)
		phases.GET("/active", handlers.GetActiveBurnPhase)
		phases.POST("", handlers.CreateBurnPhase)
		phases.PUT("/:id", handlers.UpdateBurnPhase)
		phases.POST("/join", handlers.JoinBurnPhase)
	}
}

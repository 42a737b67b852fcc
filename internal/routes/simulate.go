package routes

import (
	"stakecontrol/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupSimulateRoutes sets up the reward simulation preview route
func SetupSimulateRoutes(r *gin.Engine) {
	r.POST("/simulate/rewards", handlers.SimulateMachineRewards)
}

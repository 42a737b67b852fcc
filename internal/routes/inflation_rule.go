package routes

import (
	"stakecontrol/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupInflationRuleRoutes sets up routes for inflation rule versions
func SetupInflationRuleRoutes(r *gin.Engine) {
	rules := r.Group("/inflation-rules")
	{
		rules.GET("", handlers.ListInflationRules)
		rules.GET("/:id", handlers.GetInflationRule)
		rules.POST("", handlers.CreateInflationRule)
		rules.POST("/:id/activate", handlers.ActivateInflationRule)
	}
}

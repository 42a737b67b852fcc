package routes

import (
	"stakecontrol/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupMachineRoutes sets up routes for machines and the product catalog
func SetupMachineRoutes(r *gin.Engine, writeLimiter gin.HandlerFunc) {
	machines := r.Group("/machines")
	{
		machines.GET("", handlers.ListMachines)
		machines.GET("/:id", handlers.GetMachine)
		machines.GET("/:id/overview", handlers.GetMachineOverview)
		machines.POST("", writeLimiter, handlers.PurchaseMachine)
		machines.PUT("/:id", handlers.UpdateMachine)
		machines.DELETE("/:id", handlers.TerminateMachine)
	}

	products := r.Group("/machine-products")
	{
		products.GET("", handlers.ListMachineProducts)
		products.POST("", handlers.CreateMachineProduct)
	}
}

package routes

import (
	"stakecontrol/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupSystemConfigRoutes sets up routes for system logs and system params
func SetupSystemConfigRoutes(r *gin.Engine) {
	logs := r.Group("/system-logs")
	{
		logs.GET("", handlers.ListSystemLogs)
		logs.GET("/:id", handlers.GetSystemLog)
		logs.POST("", handlers.CreateSystemLog)
		logs.DELETE("/:id", handlers.DeleteSystemLog)
	}

	params := r.Group("/system-params")
	{
		params.GET("", handlers.ListSystemParams)
		params.GET("/:key", handlers.GetSystemParamByKey)
		params.POST("", handlers.UpsertSystemParam)
		params.DELETE("/:key", handlers.DeleteSystemParam)
	}
}

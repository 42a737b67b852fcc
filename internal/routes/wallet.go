package routes

import (
	"stakecontrol/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupWalletRoutes sets up routes for wallets and ledger queries
func SetupWalletRoutes(r *gin.Engine) {
	wallets := r.Group("/wallets")
	{
		wallets.GET("/owner/:owner_id", handlers.ListOwnerWallets)
		wallets.GET("/:wallet_id/transactions", handlers.ListWalletTransactions)
		wallets.POST("", handlers.CreateWallet)
		wallets.POST("/airdrop", handlers.AirdropWallet)
	}

	// 行情查询
	r.GET("/price", handlers.GetPairPrice)
}

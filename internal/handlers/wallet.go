package handlers

import (
	"net/http"
	"strconv"

	"stakecontrol/internal/handlers/business"
	"stakecontrol/internal/models"
	dbconfig "stakecontrol/pkg/config"

	"github.com/gin-gonic/gin"
)

// WalletBalanceResp 钱包余额响应
type WalletBalanceResp struct {
	ID      uint    `json:"id"`
	Kind    string  `json:"kind"`
	Token   string  `json:"token"`
	Balance float64 `json:"balance"`
}

// ListOwnerWallets returns all wallets of an owner with derived balances
func ListOwnerWallets(c *gin.Context) {
	ownerID, err := strconv.Atoi(c.Param("owner_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid owner_id format"})
		return
	}

	var wallets []models.Wallet
	if err := dbconfig.DB.Where("owner_id = ? AND is_active = ?", ownerID, true).
		Find(&wallets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]WalletBalanceResp, 0, len(wallets))
	for _, wallet := range wallets {
		balance, err := business.WalletBalance(dbconfig.DB, wallet.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		resp = append(resp, WalletBalanceResp{
			ID:      wallet.ID,
			Kind:    wallet.Kind,
			Token:   wallet.Token,
			Balance: balance,
		})
	}

	c.JSON(http.StatusOK, resp)
}

// ListWalletTransactions returns paginated ledger entries for a wallet
func ListWalletTransactions(c *gin.Context) {
	walletID, err := strconv.Atoi(c.Param("wallet_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wallet_id format"})
		return
	}

	page, pageSize := parsePagination(c)
	order := parseOrder(c, map[string]bool{
		"id": true, "amount": true, "kind": true, "created_at": true,
	})

	var query = dbconfig.DB.Model(&models.WalletTransaction{}).Where("wallet_id = ?", walletID)
	if kind := c.Query("kind"); kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if direction := c.Query("direction"); direction != "" {
		query = query.Where("direction = ?", direction)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	offset := (page - 1) * pageSize
	var transactions []models.WalletTransaction
	if err := query.Order(order).Offset(offset).Limit(pageSize).Find(&transactions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	paginatedResponse(c, transactions, page, pageSize, total)
}

// CreateWalletRequest represents the request payload for creating a wallet
type CreateWalletRequest struct {
	OwnerID uint   `json:"owner_id" binding:"required"`
	Token   string `json:"token" binding:"required"`
	Kind    string `json:"kind" binding:"required"`
}

// CreateWallet creates a wallet for an owner
func CreateWallet(c *gin.Context) {
	var req CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	valid := map[string]bool{
		models.WalletKindStake:   true,
		models.WalletKindBurn:    true,
		models.WalletKindVoucher: true,
	}
	if !valid[req.Kind] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wallet kind"})
		return
	}

	wallet := models.Wallet{
		OwnerID:  req.OwnerID,
		Token:    req.Token,
		Kind:     req.Kind,
		IsActive: true,
	}
	if err := dbconfig.DB.Create(&wallet).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, wallet)
}

// AirdropRequest represents an administrative wallet credit
type AirdropRequest struct {
	OwnerID uint    `json:"owner_id" binding:"required"`
	Kind    string  `json:"kind" binding:"required"`
	Amount  float64 `json:"amount" binding:"required"`
	Note    string  `json:"note"`
}

// AirdropWallet credits an owner's wallet, administrative use only
func AirdropWallet(c *gin.Context) {
	var req AirdropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	wallet, err := business.GetWallet(req.OwnerID, req.Kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if wallet == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
		return
	}

	note := req.Note
	if note == "" {
		note = "administrative airdrop"
	}

	tx := dbconfig.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": tx.Error.Error()})
		return
	}
	record, err := business.CreditWallet(tx, wallet, req.Amount, models.TxKindAirdrop, note)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, record)
}

package handlers

import (
	"net/http"
	"strconv"
	"time"

	"stakecontrol/internal/models"
	dbconfig "stakecontrol/pkg/config"

	"github.com/gin-gonic/gin"
)

// ListMintingRecords returns paginated minting records with optional filters
func ListMintingRecords(c *gin.Context) {
	page, pageSize := parsePagination(c)
	order := parseOrder(c, map[string]bool{
		"id": true, "machine_id": true, "owner_id": true, "total_price": true, "created_at": true,
	})

	var query = dbconfig.DB.Model(&models.MintingRecord{})
	// Filters
	if machineID := c.Query("machine_id"); machineID != "" {
		if parsed, err := strconv.Atoi(machineID); err == nil {
			query = query.Where("machine_id = ?", parsed)
		}
	}
	if ownerID := c.Query("owner_id"); ownerID != "" {
		if parsed, err := strconv.Atoi(ownerID); err == nil {
			query = query.Where("owner_id = ?", parsed)
		}
	}
	if claimed := c.Query("claimed"); claimed != "" {
		if parsed, err := strconv.ParseBool(claimed); err == nil {
			query = query.Where("claimed = ?", parsed)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	offset := (page - 1) * pageSize
	var records []models.MintingRecord
	if err := query.Order(order).Offset(offset).Limit(pageSize).Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	paginatedResponse(c, records, page, pageSize, total)
}

// GetMintingRecord returns a specific minting record by ID
func GetMintingRecord(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var record models.MintingRecord
	if err := dbconfig.DB.First(&record, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	c.JSON(http.StatusOK, record)
}

// ClaimMintingRecord marks a minting record as claimed and credits the
// owner's stake wallet with the minted tokens, in one transaction.
func ClaimMintingRecord(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var record models.MintingRecord
	if err := dbconfig.DB.First(&record, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	if record.Claimed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Record already claimed"})
		return
	}

	var wallet models.Wallet
	if err := dbconfig.DB.Where("owner_id = ? AND kind = ?", record.OwnerID, models.WalletKindStake).
		First(&wallet).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stake wallet not found"})
		return
	}

	tx := dbconfig.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": tx.Error.Error()})
		return
	}

	now := time.Now()
	if err := tx.Model(&models.MintingRecord{}).
		Where("id = ? AND claimed = ?", record.ID, false).
		Updates(map[string]interface{}{"claimed": true, "claimed_at": &now}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if record.TokenAmount > 0 {
		credit := models.WalletTransaction{
			WalletID:  wallet.ID,
			OwnerID:   record.OwnerID,
			Amount:    record.TokenAmount,
			Direction: models.TxDirectionIn,
			Kind:      models.TxKindReward,
			Note:      "minting reward claim",
		}
		if err := tx.Create(&credit).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	record.Claimed = true
	record.ClaimedAt = &now
	c.JSON(http.StatusOK, record)
}

package handlers

import (
	"net/http"
	"strconv"

	"stakecontrol/internal/handlers/business"
	"stakecontrol/internal/models"
	dbconfig "stakecontrol/pkg/config"

	"github.com/gin-gonic/gin"
)

// DepositStakeRequest represents the request payload for a stake deposit
type DepositStakeRequest struct {
	OwnerID      uint    `json:"owner_id" binding:"required"`
	MachineID    uint    `json:"machine_id" binding:"required"`
	TokenAmount  float64 `json:"token_amount" binding:"required"`
	PhaseEnabled bool    `json:"phase_enabled"`
}

// DepositStake adds stake to a machine, optionally under the burn phase discount
func DepositStake(c *gin.Context) {
	var req DepositStakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := business.DepositStake(req.OwnerID, req.MachineID, req.TokenAmount, req.PhaseEnabled)
	if err != nil {
		respondBusinessError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// ListStakeRecords returns paginated stake records with optional filters
func ListStakeRecords(c *gin.Context) {
	page, pageSize := parsePagination(c)
	order := parseOrder(c, map[string]bool{
		"id": true, "machine_id": true, "owner_id": true, "token_amount": true, "created_at": true,
	})

	var query = dbconfig.DB.Model(&models.StakeRecord{})
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
	if origin := c.Query("origin"); origin != "" {
		query = query.Where("origin = ?", origin)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	offset := (page - 1) * pageSize
	var records []models.StakeRecord
	if err := query.Order(order).Offset(offset).Limit(pageSize).Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	paginatedResponse(c, records, page, pageSize, total)
}

// GetStakeRecord returns a specific stake record with its ledger relations
func GetStakeRecord(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var record models.StakeRecord
	if err := dbconfig.DB.First(&record, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}

	var relations []models.StakeTransactionRelation
	if err := dbconfig.DB.Where("stake_record_id = ?", record.ID).Find(&relations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"record":    record,
		"relations": relations,
	})
}

package handlers

import (
	"net/http"
	"strconv"

	"stakecontrol/internal/handlers/business"
	"stakecontrol/internal/models"
	dbconfig "stakecontrol/pkg/config"

	"github.com/gin-gonic/gin"
)

// PurchaseMachineRequest represents the request payload for purchasing a machine
type PurchaseMachineRequest struct {
	OwnerID      uint `json:"owner_id" binding:"required"`
	ProductID    uint `json:"product_id" binding:"required"`
	AutoCompound bool `json:"auto_compound"`
}

// UpdateMachineRequest represents the request payload for updating a machine
type UpdateMachineRequest struct {
	AutoCompound *bool   `json:"auto_compound"`
	Status       *string `json:"status"`
}

// ListMachines returns paginated machines with optional filters
func ListMachines(c *gin.Context) {
	page, pageSize := parsePagination(c)
	order := parseOrder(c, map[string]bool{
		"id": true, "owner_id": true, "status": true, "collateral_value": true, "created_at": true,
	})

	var query = dbconfig.DB.Model(&models.Machine{})
	// Filters
	if ownerID := c.Query("owner_id"); ownerID != "" {
		if parsed, err := strconv.Atoi(ownerID); err == nil {
			query = query.Where("owner_id = ?", parsed)
		}
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	offset := (page - 1) * pageSize
	var machines []models.Machine
	if err := query.Preload("Product").Order(order).
		Offset(offset).Limit(pageSize).Find(&machines).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	paginatedResponse(c, machines, page, pageSize, total)
}

// GetMachine returns a specific machine by ID
func GetMachine(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var machine models.Machine
	if err := dbconfig.DB.Preload("Product").First(&machine, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	c.JSON(http.StatusOK, machine)
}

// GetMachineOverview returns a machine with aggregated minting totals
func GetMachineOverview(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var machine models.Machine
	if err := dbconfig.DB.Preload("Product").First(&machine, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}

	type mintTotals struct {
		Tokens    float64
		USD       float64
		Unclaimed float64
	}
	var totals mintTotals
	if err := dbconfig.DB.Model(&models.MintingRecord{}).
		Select("COALESCE(SUM(token_amount), 0) AS tokens, COALESCE(SUM(total_price), 0) AS usd, COALESCE(SUM(CASE WHEN claimed THEN 0 ELSE token_amount END), 0) AS unclaimed").
		Where("machine_id = ?", machine.ID).
		Scan(&totals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, BuildMachineOverviewResp(&machine, totals.Tokens, totals.USD, totals.Unclaimed))
}

// PurchaseMachine buys a new machine for the owner
func PurchaseMachine(c *gin.Context) {
	var req PurchaseMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	machine, err := business.PurchaseMachine(req.OwnerID, req.ProductID, req.AutoCompound)
	if err != nil {
		respondBusinessError(c, err)
		return
	}

	c.JSON(http.StatusCreated, machine)
}

// UpdateMachine updates machine flags (auto-compound toggle, pause/resume)
func UpdateMachine(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var req UpdateMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var machine models.Machine
	if err := dbconfig.DB.First(&machine, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}

	if req.AutoCompound != nil {
		machine.AutoCompound = *req.AutoCompound
	}
	if req.Status != nil {
		// 管理端只允许在运行/暂停之间切换, 终止走 DELETE
		if *req.Status != models.MachineStatusActive && *req.Status != models.MachineStatusPaused {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be ACTIVE or PAUSED"})
			return
		}
		machine.Status = *req.Status
	}

	if err := dbconfig.DB.Save(&machine).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, machine)
}

// TerminateMachine soft-deletes a machine by ID
func TerminateMachine(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	if err := business.TerminateMachine(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Machine terminated successfully"})
}

// ListMachineProducts returns the machine product catalog
func ListMachineProducts(c *gin.Context) {
	var query = dbconfig.DB.Model(&models.MachineProduct{})
	if isActive := c.Query("is_active"); isActive != "" {
		if parsed, err := strconv.ParseBool(isActive); err == nil {
			query = query.Where("is_active = ?", parsed)
		}
	}

	var products []models.MachineProduct
	if err := query.Order("id asc").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, products)
}

// CreateMachineProductRequest represents the request payload for creating a machine product
type CreateMachineProductRequest struct {
	Name             string   `json:"name" binding:"required"`
	Price            float64  `json:"price" binding:"required"`
	MintingPowerRate float64  `json:"minting_power_rate" binding:"required"`
	BoostRate        float64  `json:"boost_rate"`
	StakeLimit       *float64 `json:"stake_limit"`
	DurationDays     int      `json:"duration_days"`
	GlobalPoolPoints float64  `json:"global_pool_points"`
}

// CreateMachineProduct creates a new machine product
func CreateMachineProduct(c *gin.Context) {
	var req CreateMachineProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	durationDays := req.DurationDays
	if durationDays <= 0 {
		durationDays = 365
	}

	product := models.MachineProduct{
		Name:             req.Name,
		Price:            req.Price,
		MintingPowerRate: req.MintingPowerRate,
		BoostRate:        req.BoostRate,
		StakeLimit:       req.StakeLimit,
		DurationDays:     durationDays,
		GlobalPoolPoints: req.GlobalPoolPoints,
		IsActive:         true,
	}

	if err := dbconfig.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, product)
}

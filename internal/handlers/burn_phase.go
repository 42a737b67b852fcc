package handlers

import (
	"net/http"
	"strconv"
	"time"

	"stakecontrol/internal/models"
	dbconfig "stakecontrol/pkg/config"

	"github.com/gin-gonic/gin"
)

// CreateBurnPhaseRequest represents the request payload for creating a burn phase
type CreateBurnPhaseRequest struct {
	Name          string    `json:"name" binding:"required"`
	NormalPercent float64   `json:"normal_percent" binding:"required"`
	BoostPercent  float64   `json:"boost_percent" binding:"required"`
	StartDate     time.Time `json:"start_date" binding:"required"`
	EndDate       time.Time `json:"end_date" binding:"required"`
	IsActive      *bool     `json:"is_active"`
}

// UpdateBurnPhaseRequest represents the request payload for updating a burn phase
type UpdateBurnPhaseRequest struct {
	NormalPercent *float64   `json:"normal_percent"`
	BoostPercent  *float64   `json:"boost_percent"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	IsActive      *bool      `json:"is_active"`
}

// ListBurnPhases returns all burn phase settings, newest first
func ListBurnPhases(c *gin.Context) {
	var phases []models.BurnPhaseSetting
	if err := dbconfig.DB.Order("id desc").Find(&phases).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, phases)
}

// GetActiveBurnPhase returns the currently running burn phase, if any
func GetActiveBurnPhase(c *gin.Context) {
	now := time.Now()
	var phase models.BurnPhaseSetting
	if err := dbconfig.DB.Where("is_active = ? AND start_date <= ? AND end_date >= ?", true, now, now).
		First(&phase).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active burn phase"})
		return
	}
	c.JSON(http.StatusOK, phase)
}

// CreateBurnPhase creates a new burn phase setting
func CreateBurnPhase(c *gin.Context) {
	var req CreateBurnPhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.EndDate.After(req.StartDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be after start_date"})
		return
	}

	isActive := false
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	phase := models.BurnPhaseSetting{
		Name:          req.Name,
		NormalPercent: req.NormalPercent,
		BoostPercent:  req.BoostPercent,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		IsActive:      isActive,
	}

	if err := dbconfig.DB.Create(&phase).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, phase)
}

// UpdateBurnPhase updates an existing burn phase setting
func UpdateBurnPhase(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var req UpdateBurnPhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var phase models.BurnPhaseSetting
	if err := dbconfig.DB.First(&phase, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}

	if req.NormalPercent != nil {
		phase.NormalPercent = *req.NormalPercent
	}
	if req.BoostPercent != nil {
		phase.BoostPercent = *req.BoostPercent
	}
	if req.StartDate != nil {
		phase.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		phase.EndDate = *req.EndDate
	}
	if req.IsActive != nil {
		phase.IsActive = *req.IsActive
	}

	if err := dbconfig.DB.Save(&phase).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, phase)
}

// JoinBurnPhaseRequest represents the request payload for joining a burn phase
type JoinBurnPhaseRequest struct {
	OwnerID uint `json:"owner_id" binding:"required"`
	PhaseID uint `json:"phase_id" binding:"required"`
}

// JoinBurnPhase records a user's participation in a burn phase
func JoinBurnPhase(c *gin.Context) {
	var req JoinBurnPhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	var phase models.BurnPhaseSetting
	if err := dbconfig.DB.Where("id = ? AND is_active = ? AND start_date <= ? AND end_date >= ?",
		req.PhaseID, true, now, now).First(&phase).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Burn phase is not active"})
		return
	}

	// 重复参加直接返回已有记录
	var existing models.PhaseParticipation
	if err := dbconfig.DB.Where("owner_id = ? AND phase_id = ?", req.OwnerID, req.PhaseID).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusOK, existing)
		return
	}

	participation := models.PhaseParticipation{
		OwnerID:  req.OwnerID,
		PhaseID:  req.PhaseID,
		JoinedAt: now,
	}
	if err := dbconfig.DB.Create(&participation).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, participation)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stakecontrol/internal/models"
	dbconfig "stakecontrol/pkg/config"
)

// CreateSystemLogRequest represents the request payload for creating a system log
type CreateSystemLogRequest struct {
	MachineID  *uint           `json:"machine_id"`
	Level      string          `json:"level" binding:"required"`   // DEBUG, INFO, WARN, ERROR, FATAL
	Message    string          `json:"message" binding:"required"` // log body
	Module     string          `json:"module"`                     // e.g. "minting", "staking"
	ErrorStack string          `json:"error_stack"`
	Meta       json.RawMessage `json:"meta"` // optional json payload
}

// ListSystemLogs returns paginated system logs with optional filters
func ListSystemLogs(c *gin.Context) {
	page, pageSize := parsePagination(c)
	order := parseOrder(c, map[string]bool{
		"id": true, "machine_id": true, "level": true, "created_at": true,
	})

	var query = dbconfig.DB.Model(&models.SystemLog{})
	// Filters
	if level := c.Query("level"); level != "" {
		query = query.Where("level = ?", level)
	}
	if module := c.Query("module"); module != "" {
		query = query.Where("module = ?", module)
	}
	if machineID := c.Query("machine_id"); machineID != "" {
		if parsed, err := strconv.Atoi(machineID); err == nil {
			query = query.Where("machine_id = ?", parsed)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	offset := (page - 1) * pageSize
	var logs []models.SystemLog
	if err := query.Order(order).Offset(offset).Limit(pageSize).Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	paginatedResponse(c, logs, page, pageSize, total)
}

// GetSystemLog returns a specific system log by ID
func GetSystemLog(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var log models.SystemLog
	if err := dbconfig.DB.First(&log, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	c.JSON(http.StatusOK, log)
}

// CreateSystemLog creates a new system log
func CreateSystemLog(c *gin.Context) {
	var req CreateSystemLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var metaMap map[string]interface{}
	if len(req.Meta) > 0 {
		_ = json.Unmarshal(req.Meta, &metaMap)
	}

	machineID := uint(0)
	if req.MachineID != nil {
		machineID = *req.MachineID
	}

	log := models.SystemLog{
		MachineID:  machineID,
		Level:      req.Level,
		Message:    req.Message,
		Module:     req.Module,
		ErrorStack: req.ErrorStack,
		Meta:       models.JSONMap(metaMap),
	}

	if err := dbconfig.DB.Create(&log).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, log)
}

// DeleteSystemLog deletes a system log by ID
func DeleteSystemLog(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	if err := dbconfig.DB.Delete(&models.SystemLog{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "System log deleted successfully"})
}

// UpsertSystemParamRequest represents the request payload for setting a system param
type UpsertSystemParamRequest struct {
	Key         string `json:"key" binding:"required"`
	Value       string `json:"value" binding:"required"`
	Description string `json:"description"`
}

// ListSystemParams returns all system params
func ListSystemParams(c *gin.Context) {
	var params []models.SystemParams
	if err := dbconfig.DB.Order("key asc").Find(&params).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, params)
}

// GetSystemParamByKey returns a system param by key
func GetSystemParamByKey(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Key parameter is required"})
		return
	}

	var param models.SystemParams
	if err := dbconfig.DB.Where("key = ?", key).First(&param).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	c.JSON(http.StatusOK, param)
}

// UpsertSystemParam creates or updates a system param by key
func UpsertSystemParam(c *gin.Context) {
	var req UpsertSystemParamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var param models.SystemParams
	err := dbconfig.DB.Where("key = ?", req.Key).First(&param).Error
	if err != nil {
		param = models.SystemParams{
			Key:         req.Key,
			Value:       req.Value,
			Description: req.Description,
		}
		if err := dbconfig.DB.Create(&param).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, param)
		return
	}

	param.Value = req.Value
	if req.Description != "" {
		param.Description = req.Description
	}
	if err := dbconfig.DB.Save(&param).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, param)
}

// DeleteSystemParam deletes a system param by key
func DeleteSystemParam(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Key parameter is required"})
		return
	}
	if err := dbconfig.DB.Where("key = ?", key).Delete(&models.SystemParams{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "System param deleted successfully"})
}

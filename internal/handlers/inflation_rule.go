package handlers

import (
	"errors"
	"net/http"
	"sort"
	"strconv"

	"stakecontrol/internal/models"
	dbconfig "stakecontrol/pkg/config"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BandPayload represents one band within a rule creation request
type BandPayload struct {
	FromDropPercent           float64 `json:"from_drop_percent"`
	ToDropPercent             float64 `json:"to_drop_percent"`
	ProductionDecreasePercent float64 `json:"production_decrease_percent"`
	IncreaseDLPPercent        float64 `json:"increase_dlp_percent"`
	MintingBoost              float64 `json:"minting_boost"`
}

// CreateInflationRuleRequest represents the request payload for creating a rule version
type CreateInflationRuleRequest struct {
	Name     string        `json:"name"`
	Activate bool          `json:"activate"`
	Bands    []BandPayload `json:"bands" binding:"required"`
}

// ListInflationRules returns all rule versions, newest first
func ListInflationRules(c *gin.Context) {
	var rules []models.InflationRule
	if err := dbconfig.DB.Preload("Bands").Order("version desc").Find(&rules).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rules)
}

// GetInflationRule returns a specific rule version with its bands
func GetInflationRule(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var rule models.InflationRule
	if err := dbconfig.DB.Preload("Bands").First(&rule, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	c.JSON(http.StatusOK, rule)
}

// CreateInflationRule creates a new rule version. Bands are immutable once a
// machine references the rule, so changes always go through a new version.
func CreateInflationRule(c *gin.Context) {
	var req CreateInflationRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Bands) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one band is required"})
		return
	}

	name := req.Name
	if name == "" {
		name = "inflation"
	}

	// 档位必须连续不重叠
	sort.Slice(req.Bands, func(i, j int) bool {
		return req.Bands[i].FromDropPercent < req.Bands[j].FromDropPercent
	})
	for i, band := range req.Bands {
		if band.ToDropPercent <= band.FromDropPercent {
			c.JSON(http.StatusBadRequest, gin.H{"error": "band range must be ascending"})
			return
		}
		if i > 0 && band.FromDropPercent != req.Bands[i-1].ToDropPercent {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bands must be contiguous"})
			return
		}
	}

	// 版本号 = 同名规则最大版本 + 1
	var maxVersion int
	if err := dbconfig.DB.Model(&models.InflationRule{}).
		Where("name = ?", name).
		Select("COALESCE(MAX(version), 0)").
		Scan(&maxVersion).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	rule := models.InflationRule{
		Name:    name,
		Version: maxVersion + 1,
	}

	tx := dbconfig.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": tx.Error.Error()})
		return
	}

	if err := tx.Create(&rule).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	for _, payload := range req.Bands {
		band := models.InflationBand{
			RuleID:                    rule.ID,
			FromDropPercent:           payload.FromDropPercent,
			ToDropPercent:             payload.ToDropPercent,
			ProductionDecreasePercent: payload.ProductionDecreasePercent,
			IncreaseDLPPercent:        payload.IncreaseDLPPercent,
			MintingBoost:              payload.MintingBoost,
		}
		if err := tx.Create(&band).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	if req.Activate {
		if err := activateRule(tx, &rule); err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var created models.InflationRule
	if err := dbconfig.DB.Preload("Bands").First(&created, rule.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ActivateInflationRule makes a rule version the active one for new machines
func ActivateInflationRule(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var rule models.InflationRule
	if err := dbconfig.DB.First(&rule, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}

	tx := dbconfig.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": tx.Error.Error()})
		return
	}
	if err := activateRule(tx, &rule); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Inflation rule activated", "rule_id": rule.ID})
}

func activateRule(tx *gorm.DB, rule *models.InflationRule) error {
	if err := tx.Model(&models.InflationRule{}).
		Where("name = ?", rule.Name).
		Update("is_active", false).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.InflationRule{}).
		Where("id = ?", rule.ID).
		Update("is_active", true).Error; err != nil {
		return err
	}

	// 同步系统参数, 购机读这里
	param := models.SystemParams{
		Key:         models.ParamActiveInflationRuleID,
		Value:       strconv.FormatUint(uint64(rule.ID), 10),
		Description: "currently active inflation rule version",
	}
	var existing models.SystemParams
	err := tx.Where("key = ?", models.ParamActiveInflationRuleID).First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&param).Error
	}
	existing.Value = param.Value
	return tx.Save(&existing).Error
}

package business

import (
	"errors"
	"strconv"

	"stakecontrol/internal/models"
	dbconfig "stakecontrol/pkg/config"
	"stakecontrol/pkg/utils"

	"gorm.io/gorm"
)

// GetParamString 读取系统参数, 不存在时返回默认值
func GetParamString(key string, fallback string) string {
	var param models.SystemParams
	if err := dbconfig.DB.Where("key = ?", key).First(&param).Error; err != nil {
		return fallback
	}
	if param.Value == "" {
		return fallback
	}
	return param.Value
}

// GetParamFloat 读取数值型系统参数
func GetParamFloat(key string, fallback float64) float64 {
	raw := GetParamString(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

// GetParamBool 读取开关型系统参数 ("true"/"1" 为开)
func GetParamBool(key string, fallback bool) bool {
	raw := GetParamString(key, "")
	if raw == "" {
		return fallback
	}
	return raw == "true" || raw == "1"
}

// LoadRuleBands 加载指定通胀规则版本的全部区间, 按 from_drop_percent 升序
func LoadRuleBands(ruleID uint) ([]utils.RuleBand, error) {
	var rows []models.InflationBand
	if err := dbconfig.DB.Where("rule_id = ?", ruleID).
		Order("from_drop_percent asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("inflation rule has no bands")
	}

	bands := make([]utils.RuleBand, 0, len(rows))
	for _, row := range rows {
		bands = append(bands, utils.RuleBand{
			ID:                        row.ID,
			FromDropPercent:           row.FromDropPercent,
			ToDropPercent:             row.ToDropPercent,
			ProductionDecreasePercent: row.ProductionDecreasePercent,
			IncreaseDLPPercent:        row.IncreaseDLPPercent,
			MintingBoost:              row.MintingBoost,
		})
	}
	return bands, nil
}

// ActiveRuleID 返回当前生效的通胀规则版本 id
func ActiveRuleID() (uint, error) {
	if id := GetParamFloat(models.ParamActiveInflationRuleID, 0); id > 0 {
		return uint(id), nil
	}

	// 参数未配置时回退到 is_active 标记
	var rule models.InflationRule
	if err := dbconfig.DB.Where("is_active = ?", true).
		Order("version desc").First(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errors.New("no active inflation rule configured")
		}
		return 0, err
	}
	return rule.ID, nil
}

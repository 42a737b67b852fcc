package models

import (
	"time"
)

// InflationRule 通胀规则版本。机器记录自己评估时使用的版本 ID，
// 调整规则时创建新版本而不是修改旧版本的档位。
type InflationRule struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"size:32;not null;default:'inflation'" json:"name"`
	Version   int       `gorm:"not null" json:"version"`
	IsActive  bool      `gorm:"default:false" json:"is_active"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Bands []InflationBand `gorm:"foreignKey:RuleID" json:"bands,omitempty"`
}

func (InflationRule) TableName() string {
	return "inflation_rule"
}

// InflationBand 价格跌幅档位。档位按 from_drop_percent 升序、连续不重叠。
type InflationBand struct {
	ID                        uint    `gorm:"primarykey" json:"id"`
	RuleID                    uint    `gorm:"not null;index" json:"rule_id"`
	FromDropPercent           float64 `gorm:"not null" json:"from_drop_percent"`
	ToDropPercent             float64 `gorm:"not null" json:"to_drop_percent"`
	ProductionDecreasePercent float64 `gorm:"not null;default:0" json:"production_decrease_percent"`
	IncreaseDLPPercent        float64 `gorm:"column:increase_dlp_percent;not null;default:0" json:"increase_dlp_percent"`
	MintingBoost              float64 `gorm:"not null;default:0" json:"minting_boost"`
	CreatedAt                 time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (InflationBand) TableName() string {
	return "inflation_band"
}

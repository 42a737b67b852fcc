package models

import (
	"time"
)

// MintingRecord 每台机器每个评估周期一条，记录奖励计算的全部输入与输出。
// 只追加，创建后除 claimed 标记外不再修改。
type MintingRecord struct {
	ID        uint `gorm:"primarykey" json:"id"`
	MachineID uint `gorm:"not null;index" json:"machine_id"`
	OwnerID   uint `gorm:"not null;index" json:"owner_id"`

	// inputs
	CollateralValue  float64 `gorm:"not null" json:"collateral_value"`
	TokenPrice       float64 `gorm:"not null" json:"token_price"`
	DLP              float64 `gorm:"column:dlp;not null" json:"dlp"`
	AllTimeHigh      float64 `gorm:"not null" json:"all_time_high"`
	PriceDropPercent float64 `gorm:"not null" json:"price_drop_percent"`
	BandID           *uint   `json:"band_id"`

	// outputs
	TokenAmount         float64 `gorm:"not null" json:"token_amount"`
	TotalPrice          float64 `gorm:"not null" json:"total_price"` // USD
	ProductionPenalty   float64 `gorm:"not null;default:0" json:"production_penalty"`
	AutoCompoundPenalty float64 `gorm:"not null;default:0" json:"auto_compound_penalty"`
	CapPrice            float64 `gorm:"not null;default:0" json:"cap_price"`

	Claimed   bool      `gorm:"default:false" json:"claimed"`
	ClaimedAt *time.Time `json:"claimed_at"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (MintingRecord) TableName() string {
	return "minting_record"
}

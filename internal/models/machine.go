package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultPair 默认质押交易对
const DefaultPair = "XT/USDT"

// Machine status values
const (
	MachineStatusActive     = "ACTIVE"
	MachineStatusInactive   = "INACTIVE"
	MachineStatusCompleted  = "COMPLETED"
	MachineStatusTerminated = "TERMINATED"
	MachineStatusPaused     = "PAUSED"
)

// Machine 质押机器（staking position）
type Machine struct {
	ID                uint     `gorm:"primarykey" json:"id"`
	OwnerID           uint     `gorm:"not null;index" json:"owner_id"`
	ProductID         uint     `gorm:"not null" json:"product_id"`
	Pair              string   `gorm:"size:32;not null;default:'XT/USDT'" json:"pair"`
	CollateralValue   float64  `gorm:"not null;default:0" json:"collateral_value"`    // USD
	StakedTokenAmount float64  `gorm:"not null;default:0" json:"staked_token_amount"` // token units
	LockedPrice       float64  `gorm:"not null;default:0" json:"locked_price"`        // price at purchase
	AllTimeHigh       float64  `gorm:"not null;default:0" json:"all_time_high"`
	DLP               float64  `gorm:"column:dlp;not null;default:0" json:"dlp"` // floor price, never below locked price
	ActiveBandID      *uint    `json:"active_band_id"`
	InflationRuleID   uint     `gorm:"not null" json:"inflation_rule_id"` // rule version this machine evaluates against
	MintingPowerRate  float64  `gorm:"not null;default:0" json:"minting_power_rate"`
	BoostRate         float64  `gorm:"not null;default:0" json:"boost_rate"`
	StakeLimit        *float64 `json:"stake_limit"` // nil = unlimited
	Status            string   `gorm:"size:16;not null;default:'ACTIVE'" json:"status"`
	AutoCompound      bool     `gorm:"default:false" json:"auto_compound"`
	LastRewardValue   float64  `gorm:"not null;default:0" json:"last_reward_value"` // previous tick's reward USD, for stickiness
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
	CreatedAt         time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	Product *MachineProduct `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (Machine) TableName() string {
	return "staking_machine"
}

// MachineProduct 机器产品目录
type MachineProduct struct {
	ID               uint     `gorm:"primarykey" json:"id"`
	Name             string   `gorm:"size:64;not null" json:"name"`
	Price            float64  `gorm:"not null" json:"price"` // USD
	MintingPowerRate float64  `gorm:"not null" json:"minting_power_rate"`
	BoostRate        float64  `gorm:"not null;default:0" json:"boost_rate"`
	StakeLimit       *float64 `json:"stake_limit"`
	DurationDays     int      `gorm:"not null;default:365" json:"duration_days"`
	GlobalPoolPoints float64  `gorm:"not null;default:0" json:"global_pool_points"`
	IsActive         bool     `gorm:"default:true" json:"is_active"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (MachineProduct) TableName() string {
	return "machine_product"
}

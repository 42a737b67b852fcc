package models

import (
	"time"
)

// StakeRecord types
const (
	StakeTypeStake   = "STAKE"
	StakeTypeUnstake = "UNSTAKE"
)

// StakeRecord origins
const (
	StakeOriginMachinePurchase = "MACHINE_PURCHASE"
	StakeOriginMoreStake       = "MORE_STAKE"
	StakeOriginPhaseDeposit    = "PHASE_DEPOSIT"
	StakeOriginAirdrop         = "AIRDROP"
	StakeOriginRewardCompound  = "REWARD_COMPOUND"
)

// StakeRecord 每次入金或奖励复投一条，只追加。
type StakeRecord struct {
	ID            uint    `gorm:"primarykey" json:"id"`
	MachineID     uint    `gorm:"not null;index" json:"machine_id"`
	OwnerID       uint    `gorm:"not null;index" json:"owner_id"`
	TokenAmount   float64 `gorm:"not null" json:"token_amount"`
	TotalPrice    float64 `gorm:"not null" json:"total_price"` // USD
	PricePerToken float64 `gorm:"not null" json:"price_per_token"`
	Type          string  `gorm:"size:16;not null;default:'STAKE'" json:"type"`
	Origin        string  `gorm:"size:32;not null" json:"origin"`
	BurnValue     float64 `gorm:"not null;default:0" json:"burn_value"`   // promotional burn, token units
	ActualValue   float64 `gorm:"not null;default:0" json:"actual_value"` // user-paid portion, token units
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (StakeRecord) TableName() string {
	return "stake_record"
}

// StakeTransactionRelation 入金记录与钱包流水的关联，一次扣款一行。
type StakeTransactionRelation struct {
	ID                  uint      `gorm:"primarykey" json:"id"`
	StakeRecordID       uint      `gorm:"not null;index" json:"stake_record_id"`
	WalletTransactionID uint      `gorm:"not null;index" json:"wallet_transaction_id"`
	CreatedAt           time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (StakeTransactionRelation) TableName() string {
	return "stake_transaction_relation"
}

package models

import (
	"time"
)

// Wallet kinds
const (
	WalletKindStake   = "STAKE"   // the stake token wallet
	WalletKindBurn    = "BURN"    // promotional burn token wallet (stake currency)
	WalletKindVoucher = "VOUCHER" // secondary USD-denominated promotional wallet
)

// WalletTransaction directions
const (
	TxDirectionIn  = "IN"
	TxDirectionOut = "OUT"
)

// WalletTransaction kinds
const (
	TxKindStake        = "STAKE"
	TxKindBurn         = "BURN"
	TxKindSwap         = "SWAP"
	TxKindStakeAndBurn = "STAKE_AND_BURN"
	TxKindReward       = "REWARD"
	TxKindPurchase     = "PURCHASE"
	TxKindAirdrop      = "AIRDROP"
)

// Wallet 用户钱包。余额不落表，用流水的有符号和推导。
type Wallet struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	OwnerID   uint      `gorm:"not null;index:idx_wallet_owner_kind,unique" json:"owner_id"`
	Token     string    `gorm:"size:16;not null" json:"token"`
	Kind      string    `gorm:"size:16;not null;index:idx_wallet_owner_kind,unique" json:"kind"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Wallet) TableName() string {
	return "wallet"
}

// WalletTransaction 钱包流水（ledger entry）。只追加，正常运行下绝不修改或删除。
type WalletTransaction struct {
	ID        uint    `gorm:"primarykey" json:"id"`
	WalletID  uint    `gorm:"not null;index" json:"wallet_id"`
	OwnerID   uint    `gorm:"not null;index" json:"owner_id"`
	Amount    float64 `gorm:"not null" json:"amount"` // always positive; direction carries the sign
	Direction string  `gorm:"size:4;not null" json:"direction"`
	Kind      string  `gorm:"size:24;not null" json:"kind"`
	Note      string  `gorm:"size:255;default:''" json:"note"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transaction"
}

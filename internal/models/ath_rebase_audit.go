package models

import (
	"time"
)

// AthRebaseAudit 记录一次加权 ATH 重算，便于排查加权平均公式的问题。
type AthRebaseAudit struct {
	ID             uint    `gorm:"primarykey" json:"id"`
	MachineID      uint    `gorm:"not null;index" json:"machine_id"`
	OldATH         float64 `gorm:"column:old_ath;not null" json:"old_ath"`
	NewATH         float64 `gorm:"column:new_ath;not null" json:"new_ath"`
	OldStakeTokens float64 `gorm:"not null" json:"old_stake_tokens"`
	NewStakeTokens float64 `gorm:"not null" json:"new_stake_tokens"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (AthRebaseAudit) TableName() string {
	return "ath_rebase_audit"
}

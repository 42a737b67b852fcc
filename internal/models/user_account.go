package models

import (
	"time"
)

// UserAccount 机器所有者账户。direct_active / team_active 两个标记由
// 推荐关系子系统在入金后重算。
type UserAccount struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"size:64;not null;uniqueIndex" json:"username"`
	ReferrerID   *uint     `gorm:"index" json:"referrer_id"`
	DirectActive bool      `gorm:"default:false" json:"direct_active"`
	TeamActive   bool      `gorm:"default:false" json:"team_active"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (UserAccount) TableName() string {
	return "user_account"
}

// GlobalPoolRecord 购机时向全球分红池派发的积分，一台机器一条。
type GlobalPoolRecord struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	OwnerID   uint      `gorm:"not null;index" json:"owner_id"`
	MachineID uint      `gorm:"not null;uniqueIndex" json:"machine_id"`
	Points    float64   `gorm:"not null" json:"points"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (GlobalPoolRecord) TableName() string {
	return "global_pool_record"
}

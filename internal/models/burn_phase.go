package models

import (
	"time"
)

// BurnPhaseSetting 限时加注烧伤活动配置。
type BurnPhaseSetting struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Name          string    `gorm:"size:64;not null" json:"name"`
	NormalPercent float64   `gorm:"not null" json:"normal_percent"` // burn tier below product price
	BoostPercent  float64   `gorm:"not null" json:"boost_percent"`  // burn tier at/above product price
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	IsActive      bool      `gorm:"default:false" json:"is_active"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (BurnPhaseSetting) TableName() string {
	return "burn_phase_setting"
}

// PhaseParticipation 用户参加活动的记录，参加后才能享受烧伤折扣。
type PhaseParticipation struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	OwnerID   uint      `gorm:"not null;index:idx_phase_owner,unique" json:"owner_id"`
	PhaseID   uint      `gorm:"not null;index:idx_phase_owner,unique" json:"phase_id"`
	JoinedAt  time.Time `json:"joined_at"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (PhaseParticipation) TableName() string {
	return "phase_participation"
}

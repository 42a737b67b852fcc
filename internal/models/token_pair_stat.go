package models

import (
	"time"
)

// TokenPairStat 交易对最新行情，由价格任务和 websocket 行情源更新。
// 奖励引擎和入金流程从这里读取 {price, day_high}。
type TokenPairStat struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Pair      string    `gorm:"size:32;not null;uniqueIndex" json:"pair"`
	Price     float64   `gorm:"not null" json:"price"`
	DayHigh   float64   `gorm:"not null" json:"day_high"`
	Source    string    `gorm:"size:32;default:''" json:"source"` // "http" or "websocket"
	BlockTime time.Time `json:"block_time"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (TokenPairStat) TableName() string {
	return "token_pair_stat"
}

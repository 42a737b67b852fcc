package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// System param keys
const (
	ParamStakingEnabled           = "staking_enabled"
	ParamPhaseEnabled             = "phase_enabled"
	ParamAutoCompoundPenaltyPct   = "auto_compound_penalty_percent"
	ParamActiveInflationRuleID    = "active_inflation_rule_id"
	ParamGlobalPoolDistribution   = "global_pool_distribution_enabled"
)

// SystemLog represents a record in system_logs table
type SystemLog struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	MachineID  uint      `gorm:"column:machine_id;default:0" json:"machine_id"`
	Level      string    `gorm:"column:level;size:10;not null" json:"level"` // DEBUG, INFO, WARN, ERROR, FATAL
	Message    string    `gorm:"column:message;type:text;not null" json:"message"`
	Module     string    `gorm:"column:module;size:100" json:"module"` // e.g. "minting", "staking"
	ErrorStack string    `gorm:"column:error_stack;type:text" json:"error_stack"`
	Meta       JSONMap   `gorm:"column:meta;type:jsonb" json:"meta"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (SystemLog) TableName() string {
	return "system_logs"
}

// SystemParams 系统级运行参数（开关、惩罚比例、当前规则版本）。
type SystemParams struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Key         string    `gorm:"size:64;not null;uniqueIndex" json:"key"`
	Value       string    `gorm:"size:255;not null" json:"value"`
	Description string    `gorm:"size:255;default:''" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SystemParams) TableName() string {
	return "system_params"
}

// JSONMap 是一个自定义类型，用于处理 JSONB 数据
type JSONMap map[string]interface{}

// Value 实现 driver.Valuer 接口
func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan 实现 sql.Scanner 接口
func (j *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("类型断言失败：无法将数据转换为字节切片")
	}

	return json.Unmarshal(bytes, j)
}

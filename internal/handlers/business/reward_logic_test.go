package business

import (
	"math"
	"testing"

	"stakecontrol/internal/models"
	"stakecontrol/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rewardBands() []utils.RuleBand {
	return []utils.RuleBand{
		{ID: 1, FromDropPercent: 0, ToDropPercent: 10, IncreaseDLPPercent: 0, ProductionDecreasePercent: 0},
		{ID: 2, FromDropPercent: 10, ToDropPercent: 20, IncreaseDLPPercent: 5, ProductionDecreasePercent: 5},
		{ID: 3, FromDropPercent: 20, ToDropPercent: 35, IncreaseDLPPercent: 10, ProductionDecreasePercent: 10},
	}
}

func rewardMachine() *models.Machine {
	return &models.Machine{
		ID:               1,
		CollateralValue:  1000,
		MintingPowerRate: 0.0016,
		BoostRate:        0,
		DLP:              1.0,
		AllTimeHigh:      1.0,
		AutoCompound:     true,
	}
}

func TestComputeMachineReward(t *testing.T) {
	bands := rewardBands()

	t.Run("Stable Price Full Reward", func(t *testing.T) {
		machine := rewardMachine()
		result := ComputeMachineReward(machine, bands, 1.0, 1.0, 10)

		assert.InDelta(t, 1.6, result.CapPrice, 1e-9)
		assert.InDelta(t, 1.6, result.TotalPrice, 1e-9)
		assert.InDelta(t, 1.6, result.TokenAmount, 1e-9)
		assert.Equal(t, 0.0, result.AutoCompoundPenalty)
		assert.Equal(t, 0.0, result.ProductionPenalty)
		assert.False(t, result.Degenerate)
	})

	t.Run("Auto Compound Off Cuts Reward", func(t *testing.T) {
		machine := rewardMachine()
		machine.AutoCompound = false
		result := ComputeMachineReward(machine, bands, 1.0, 1.0, 10)

		// 关闭复投扣 10%
		assert.InDelta(t, 1.44, result.TotalPrice, 1e-9)
		assert.InDelta(t, 0.16, result.AutoCompoundPenalty, 1e-9)
	})

	t.Run("Reward Capped By Collateral Power", func(t *testing.T) {
		machine := rewardMachine()
		machine.LastRewardValue = 100
		result := ComputeMachineReward(machine, bands, 1.0, 1.0, 10)

		assert.LessOrEqual(t, result.TotalPrice, result.CapPrice)
	})

	t.Run("Drop Applies Production Penalty", func(t *testing.T) {
		machine := rewardMachine()
		machine.LastRewardValue = 1.6
		// 跌 15%: 命中第二档, 产量扣 5%
		result := ComputeMachineReward(machine, bands, 0.85, 1.0, 10)

		assert.Equal(t, 15.0, result.PriceDropPercent)
		require.NotNil(t, result.Band)
		assert.Equal(t, uint(2), result.Band.ID)
		assert.InDelta(t, 1.6*0.95, result.TotalPrice, 1e-9)
		assert.InDelta(t, 1.6*0.05, result.ProductionPenalty, 1e-9)
		// 底价按档位上调
		assert.InDelta(t, 1.05, result.DLP, 1e-9)
	})

	t.Run("Recovery Below Floor Freezes Reward", func(t *testing.T) {
		machine := rewardMachine()
		machine.DLP = 1.05
		machine.LastRewardValue = 1.3
		// 从 0.85 回升到 0.9, 仍低于底价 1.05, 冻结在上一次的奖励值
		result := ComputeMachineReward(machine, bands, 0.9, 0.85, 10)

		assert.InDelta(t, 1.3, result.TotalPrice, 1e-9)
	})

	t.Run("No Reward History Means Zero While Below Floor", func(t *testing.T) {
		machine := rewardMachine()
		machine.DLP = 1.05
		machine.LastRewardValue = 0
		result := ComputeMachineReward(machine, bands, 0.9, 0.95, 10)

		assert.Equal(t, 0.0, result.TotalPrice)
		assert.Equal(t, 0.0, result.TokenAmount)
	})

	t.Run("Still Falling Below Floor Uses Computed Value", func(t *testing.T) {
		machine := rewardMachine()
		machine.DLP = 1.05
		machine.LastRewardValue = 1.6
		result := ComputeMachineReward(machine, bands, 0.85, 0.9, 10)

		// 不冻结, 用本次带衰减的计算值
		assert.Greater(t, result.TotalPrice, 0.0)
		assert.NotEqual(t, 1.6, result.TotalPrice)
	})

	t.Run("Zero Price Mints No Tokens", func(t *testing.T) {
		machine := rewardMachine()
		result := ComputeMachineReward(machine, bands, 0, 1.0, 10)

		assert.Equal(t, 0.0, result.TokenAmount)
	})

	t.Run("NaN Input Clamps To Last Known Good", func(t *testing.T) {
		machine := rewardMachine()
		machine.LastRewardValue = 1.2
		machine.CollateralValue = math.NaN()
		result := ComputeMachineReward(machine, bands, 1.0, 1.0, 10)

		assert.True(t, result.Degenerate)
		assert.Equal(t, 1.2, result.TotalPrice)
		assert.False(t, math.IsNaN(result.TokenAmount))
		assert.Equal(t, 0.0, result.ProductionPenalty)
	})
}

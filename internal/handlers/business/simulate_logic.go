package business

import (
	"stakecontrol/internal/models"
	dbconfig "stakecontrol/pkg/config"
)

// SimulationTick 模拟序列中一天的评估结果
type SimulationTick struct {
	Day             int     `json:"day"`
	Price           float64 `json:"price"`
	CollateralValue float64 `json:"collateral_value"`
	RewardComputation
}

// SimulateMachineRewards 用给定的价格序列预演一台机器的逐日奖励。
// 整个过程在事务内只读执行并无条件回滚, 不留任何持久化副作用;
// 机器状态 (dlp/ath/粘滞值/复投抵押) 在内存副本上演进。
func SimulateMachineRewards(machineID uint, prices []float64) ([]SimulationTick, error) {
	tx := dbconfig.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer tx.Rollback()

	var machine models.Machine
	if err := tx.First(&machine, machineID).Error; err != nil {
		return nil, err
	}

	bands, err := LoadRuleBands(machine.InflationRuleID)
	if err != nil {
		return nil, err
	}
	acPenaltyPercent := GetParamFloat(models.ParamAutoCompoundPenaltyPct, 0)

	sim := machine
	ticks := make([]SimulationTick, 0, len(prices))

	for i, price := range prices {
		previousPrice := price
		if i > 0 {
			previousPrice = prices[i-1]
		}

		result := ComputeMachineReward(&sim, bands, price, previousPrice, acPenaltyPercent)

		ticks = append(ticks, SimulationTick{
			Day:               i + 1,
			Price:             price,
			CollateralValue:   sim.CollateralValue,
			RewardComputation: result,
		})

		// 在副本上推进状态, 下一天以此为基础
		sim.DLP = result.DLP
		sim.AllTimeHigh = result.ATH
		sim.LastRewardValue = result.TotalPrice
		if result.Band != nil {
			id := result.Band.ID
			sim.ActiveBandID = &id
		}
		if sim.AutoCompound {
			sim.CollateralValue += result.TotalPrice
			sim.StakedTokenAmount += result.TokenAmount
		}
	}

	return ticks, nil
}

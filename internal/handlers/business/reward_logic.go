package business

import (
	"math"

	"stakecontrol/internal/models"
	dbconfig "stakecontrol/pkg/config"
	apperrors "stakecontrol/pkg/errors"
	"stakecontrol/pkg/utils"

	"github.com/sirupsen/logrus"
)

// RewardComputation 单次奖励评估的完整输入输出快照
type RewardComputation struct {
	DLP                 float64 `json:"dlp"`
	ATH                 float64 `json:"ath"`
	PriceDropPercent    float64 `json:"price_drop_percent"`
	Band                *utils.RuleBand `json:"band"`
	CapPrice            float64 `json:"cap_price"`
	TotalPrice          float64 `json:"total_price"` // reward in USD
	TokenAmount         float64 `json:"token_amount"`
	ProductionPenalty   float64 `json:"production_penalty"`
	AutoCompoundPenalty float64 `json:"auto_compound_penalty"`
	Degenerate          bool    `json:"degenerate"` // NaN/Inf clamped to last known-good value
}

// ComputeMachineReward 计算一台机器在当前价格下的每日奖励。
// 纯函数: 不读库不写库, 模拟和定时任务共用同一份实现。
func ComputeMachineReward(machine *models.Machine, bands []utils.RuleBand, currentPrice, previousPrice, autoCompoundPenaltyPercent float64) RewardComputation {
	// 1. 非复投机器先扣自动复投罚金 (是的, 方向就是这样: 关闭复投才扣)
	penaltyCut := 1.0
	if !machine.AutoCompound {
		penaltyCut = 1 - autoCompoundPenaltyPercent/100
	}

	// 2. 更新底价/历史最高价并定位当前跌幅区间
	floor := utils.EvaluateFloorPrice(utils.FloorState{
		DLP:          machine.DLP,
		ATH:          machine.AllTimeHigh,
		ActiveBandID: machine.ActiveBandID,
	}, bands, currentPrice, previousPrice)

	// 3. 奖励上限: 抵押价值 * (算力 + 加成)
	capPrice := machine.CollateralValue * (machine.MintingPowerRate + machine.BoostRate)

	// 4. 期望奖励
	expected := machine.CollateralValue * (machine.MintingPowerRate + machine.BoostRate) * penaltyCut
	autoCompoundPenalty := machine.CollateralValue*(machine.MintingPowerRate+machine.BoostRate) - expected

	// 5. 按区间累计扣减产量
	reduced, totalPenalty := utils.ApplyProductionPenalty(expected, floor.PriceDropPercent, bands)
	expected = reduced

	// 6. 粘滞规则: 价格跌破底价后回升时冻结在上一次的奖励值
	if currentPrice >= floor.DLP {
		// 价格不低于底价, 正常发放
	} else if currentPrice > previousPrice && machine.LastRewardValue != 0 {
		if currentPrice > floor.DLP {
			// keep expected
		} else {
			expected = machine.LastRewardValue
		}
	} else if machine.LastRewardValue == 0 {
		expected = machine.LastRewardValue
	}
	// 仍在下跌且价格低于底价: 使用本次计算值

	// 7. 封顶
	rewardUSD := math.Min(expected, capPrice)

	// 8. 零价格不产出, 避免除零
	var rewardTokens float64 = 0
	if currentPrice > 0 {
		rewardTokens = rewardUSD / currentPrice
	}

	// 9. 检查并处理 NaN 值: 回退到上一次的已知好值
	degenerate := false
	if math.IsNaN(rewardUSD) || math.IsInf(rewardUSD, 0) {
		degenerate = true
		rewardUSD = machine.LastRewardValue
		if currentPrice > 0 {
			rewardTokens = rewardUSD / currentPrice
		} else {
			rewardTokens = 0
		}
	}
	if math.IsNaN(rewardTokens) || math.IsInf(rewardTokens, 0) {
		degenerate = true
		rewardTokens = 0
	}

	// production_penalty 恰好等于 1 说明区间数据退化, 存 0
	if totalPenalty == 1 {
		totalPenalty = 0
	}
	if math.IsNaN(totalPenalty) || math.IsInf(totalPenalty, 0) {
		degenerate = true
		totalPenalty = 0
	}

	return RewardComputation{
		DLP:                 floor.DLP,
		ATH:                 floor.ATH,
		PriceDropPercent:    floor.PriceDropPercent,
		Band:                floor.Band,
		CapPrice:            capPrice,
		TotalPrice:          rewardUSD,
		TokenAmount:         rewardTokens,
		ProductionPenalty:   totalPenalty,
		AutoCompoundPenalty: autoCompoundPenalty,
		Degenerate:          degenerate,
	}
}

// EvaluateMachineReward 评估一台机器的每日奖励并落库。
// 在同一个事务内写入铸造记录并更新机器的 dlp/ath/active_band_id/last_reward_value。
func EvaluateMachineReward(machine *models.Machine, currentPrice, previousPrice float64) (*models.MintingRecord, error) {
	// 1. 加载机器绑定的通胀规则区间
	bands, err := LoadRuleBands(machine.InflationRuleID)
	if err != nil {
		return nil, err
	}

	acPenaltyPercent := GetParamFloat(models.ParamAutoCompoundPenaltyPct, 0)

	// 2. 计算奖励
	result := ComputeMachineReward(machine, bands, currentPrice, previousPrice, acPenaltyPercent)

	if result.Degenerate {
		logrus.Warnf("Reward computation degenerate for machine %d (price=%f), clamped to last known-good value", machine.ID, currentPrice)
		entry := models.SystemLog{
			MachineID: machine.ID,
			Level:     "WARN",
			Message:   "reward computation clamped to last known-good value",
			Module:    "minting",
			Meta: models.JSONMap{
				"code":         apperrors.ErrNumericDegeneracy,
				"token_price":  currentPrice,
				"reward_value": result.TotalPrice,
				"drop_percent": result.PriceDropPercent,
			},
		}
		if logErr := dbconfig.DB.Create(&entry).Error; logErr != nil {
			logrus.Warnf("Failed to write degeneracy log for machine %d: %v", machine.ID, logErr)
		}
	}

	var bandID *uint
	if result.Band != nil {
		id := result.Band.ID
		bandID = &id
	}

	record := models.MintingRecord{
		MachineID:           machine.ID,
		OwnerID:             machine.OwnerID,
		CollateralValue:     machine.CollateralValue,
		TokenPrice:          currentPrice,
		DLP:                 result.DLP,
		AllTimeHigh:         result.ATH,
		PriceDropPercent:    result.PriceDropPercent,
		BandID:              bandID,
		TokenAmount:         result.TokenAmount,
		TotalPrice:          result.TotalPrice,
		ProductionPenalty:   result.ProductionPenalty,
		AutoCompoundPenalty: result.AutoCompoundPenalty,
		CapPrice:            result.CapPrice,
	}

	// 3. 开启事务: 铸造记录 + 机器状态必须同时落库
	tx := dbconfig.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	if err := tx.Create(&record).Error; err != nil {
		tx.Rollback()
		return nil, apperrors.New(apperrors.ErrTxAborted, "failed to create minting record", err)
	}

	updates := map[string]interface{}{
		"dlp":               result.DLP,
		"all_time_high":     result.ATH,
		"active_band_id":    bandID,
		"last_reward_value": result.TotalPrice,
	}

	// 4. 复投机器把奖励滚入抵押价值
	if machine.AutoCompound && result.TotalPrice > 0 {
		updates["collateral_value"] = machine.CollateralValue + result.TotalPrice
		if currentPrice > 0 {
			updates["staked_token_amount"] = machine.StakedTokenAmount + result.TokenAmount
		}

		compound := models.StakeRecord{
			MachineID:     machine.ID,
			OwnerID:       machine.OwnerID,
			TokenAmount:   result.TokenAmount,
			TotalPrice:    result.TotalPrice,
			PricePerToken: currentPrice,
			Type:          models.StakeTypeStake,
			Origin:        models.StakeOriginRewardCompound,
		}
		if err := tx.Create(&compound).Error; err != nil {
			tx.Rollback()
			return nil, apperrors.New(apperrors.ErrTxAborted, "failed to create compound stake record", err)
		}
	}

	if err := tx.Model(&models.Machine{}).Where("id = ?", machine.ID).Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, apperrors.New(apperrors.ErrTxAborted, "failed to update machine state", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.New(apperrors.ErrTxAborted, "failed to commit reward evaluation", err)
	}

	// 5. 同步内存中的机器状态, 便于批量任务连续使用
	machine.DLP = result.DLP
	machine.AllTimeHigh = result.ATH
	machine.ActiveBandID = bandID
	machine.LastRewardValue = result.TotalPrice
	if machine.AutoCompound && result.TotalPrice > 0 {
		machine.CollateralValue += result.TotalPrice
		machine.StakedTokenAmount += result.TokenAmount
	}

	return &record, nil
}

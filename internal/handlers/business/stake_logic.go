package business

import (
	"math"
	"time"

	"stakecontrol/internal/models"
	dbconfig "stakecontrol/pkg/config"
	apperrors "stakecontrol/pkg/errors"
	"stakecontrol/pkg/utils"

	"github.com/sirupsen/logrus"
)

// DepositStake 向机器加注。烧伤活动期间先用烧伤钱包凑折扣额度，
// 差额按现价折算 USD 从抵扣券钱包补。钱包扣款、入金记录、机器聚合
// 字段、加权 ATH 重算在同一个事务内提交，任何一步失败全部回滚。
func DepositStake(ownerID, machineID uint, amountTokens float64, phaseEnabled bool) (*models.StakeRecord, error) {
	// 1. 全局开关
	if !GetParamBool(models.ParamStakingEnabled, true) {
		return nil, apperrors.New(apperrors.ErrStakingDisabled, "staking is currently disabled", nil)
	}
	if amountTokens <= 0 {
		return nil, apperrors.New(apperrors.ErrInsufficientBalance, "deposit amount must be positive", nil)
	}

	// 2. 加载机器和产品
	var machine models.Machine
	if err := dbconfig.DB.Preload("Product").
		Where("id = ? AND owner_id = ?", machineID, ownerID).First(&machine).Error; err != nil {
		return nil, err
	}
	if machine.EndDate.Before(time.Now()) {
		return nil, apperrors.New(apperrors.ErrMachineExpired, "machine has expired", nil)
	}
	if machine.Product == nil {
		return nil, apperrors.New(apperrors.ErrSettingsMissing, "machine product configuration missing", nil)
	}

	// 3. 获取现价, 拿不到就不评估, 绝不虚构价格
	quote, _, err := utils.GetPairQuote(machine.Pair)
	if err != nil || quote.Price <= 0 {
		return nil, apperrors.New(apperrors.ErrPriceUnavailable, "unable to fetch current price", err)
	}
	currentPrice := quote.Price

	// 4. 质押钱包与余额校验 (5 位小数比较, 规避浮点噪声)
	stakeWallet, err := GetWallet(ownerID, models.WalletKindStake)
	if err != nil {
		return nil, err
	}
	if stakeWallet == nil {
		return nil, apperrors.New(apperrors.ErrWalletMissing, "stake wallet not found", nil)
	}
	balance, err := WalletBalance(dbconfig.DB, stakeWallet.ID)
	if err != nil {
		return nil, err
	}
	if utils.RoundTo(balance, 5) < utils.RoundTo(amountTokens, 5) {
		return nil, apperrors.New(apperrors.ErrInsufficientBalance, "stake wallet balance insufficient", nil)
	}

	// 5. 不含烧伤的额度预检
	if machine.StakeLimit != nil {
		if machine.StakedTokenAmount+amountTokens > *machine.StakeLimit {
			return nil, apperrors.New(apperrors.ErrStakeLimitExceeded, "stake limit exceeded", nil)
		}
	}

	// 6. 烧伤活动级联扣款
	var split utils.BurnSplit
	var burnWallet, voucherWallet *models.Wallet
	if phaseEnabled {
		now := time.Now()
		var phase models.BurnPhaseSetting
		if err := dbconfig.DB.Where("is_active = ? AND start_date <= ? AND end_date >= ?", true, now, now).
			First(&phase).Error; err != nil {
			return nil, apperrors.New(apperrors.ErrPhaseNotActive, "no active burn phase", err)
		}
		var participation models.PhaseParticipation
		if err := dbconfig.DB.Where("owner_id = ? AND phase_id = ?", ownerID, phase.ID).
			First(&participation).Error; err != nil {
			return nil, apperrors.New(apperrors.ErrPhaseNotJoined, "user has not joined the burn phase", err)
		}

		// 抵押价值加上本次入金达到产品价用 boost 档, 否则 normal 档
		tier := phase.NormalPercent
		if machine.CollateralValue+amountTokens*currentPrice >= machine.Product.Price {
			tier = phase.BoostPercent
		}
		needTokens := tier / 100 * amountTokens

		burnWallet, err = GetWallet(ownerID, models.WalletKindBurn)
		if err != nil {
			return nil, err
		}
		voucherWallet, err = GetWallet(ownerID, models.WalletKindVoucher)
		if err != nil {
			return nil, err
		}
		if burnWallet == nil || voucherWallet == nil {
			return nil, apperrors.New(apperrors.ErrWalletMissing, "burn phase wallets not found", nil)
		}

		burnBalance, err := WalletBalance(dbconfig.DB, burnWallet.ID)
		if err != nil {
			return nil, err
		}
		voucherBalance, err := WalletBalance(dbconfig.DB, voucherWallet.ID)
		if err != nil {
			return nil, err
		}

		split = utils.ComputeBurnSplit(needTokens, burnBalance, voucherBalance, currentPrice)

		// 7. 含烧伤的额度复检, 单独报错让调用方可以建议不带活动重试
		if machine.StakeLimit != nil {
			if machine.StakedTokenAmount+amountTokens+split.BurnAmount > *machine.StakeLimit {
				return nil, apperrors.New(apperrors.ErrStakeLimitExceededWithBurn,
					"stake limit exceeded when including promotional burn", nil)
			}
		}
	}

	totalTokens := amountTokens + split.BurnAmount
	origin := models.StakeOriginMoreStake
	if phaseEnabled {
		origin = models.StakeOriginPhaseDeposit
	}

	// 8. 开启事务, 全部成功或全部回滚
	tx := dbconfig.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	abort := func(step string, cause error) error {
		tx.Rollback()
		return apperrors.New(apperrors.ErrTxAborted, step, cause)
	}

	// 8.1 质押钱包出账
	stakeTx, err := DebitWallet(tx, stakeWallet, amountTokens, models.TxKindStake, "stake deposit")
	if err != nil {
		return nil, abort("failed to debit stake wallet", err)
	}
	debits := []*models.WalletTransaction{stakeTx}

	// 8.2 烧伤钱包出账
	if phaseEnabled {
		if split.BurnFromLocal > 0 {
			burnTx, err := DebitWallet(tx, burnWallet, split.BurnFromLocal, models.TxKindBurn, "phase burn")
			if err != nil {
				return nil, abort("failed to debit burn wallet", err)
			}
			debits = append(debits, burnTx)
		}
		if split.BurnFromUSD > 0 {
			voucherTx, err := DebitWallet(tx, voucherWallet, split.BurnFromUSD, models.TxKindBurn, "phase burn overflow")
			if err != nil {
				return nil, abort("failed to debit voucher wallet", err)
			}
			debits = append(debits, voucherTx)

			// 抵扣券换币再烧掉, 两笔流水对冲, 只留审计痕迹
			swappedTokens := split.BurnFromUSD / currentPrice
			if _, err := CreditWallet(tx, burnWallet, swappedTokens, models.TxKindSwap, "voucher swapped to token"); err != nil {
				return nil, abort("failed to create swap record", err)
			}
			if _, err := DebitWallet(tx, burnWallet, swappedTokens, models.TxKindStakeAndBurn, "swapped token burned"); err != nil {
				return nil, abort("failed to create stake-and-burn record", err)
			}
		}
	}

	// 8.3 入金记录
	record := models.StakeRecord{
		MachineID:     machine.ID,
		OwnerID:       ownerID,
		TokenAmount:   totalTokens,
		TotalPrice:    currentPrice * totalTokens,
		PricePerToken: currentPrice,
		Type:          models.StakeTypeStake,
		Origin:        origin,
		BurnValue:     split.BurnAmount,
		ActualValue:   amountTokens,
	}
	if err := tx.Create(&record).Error; err != nil {
		return nil, abort("failed to create stake record", err)
	}

	// 8.4 每笔扣款一条关联
	for _, debit := range debits {
		relation := models.StakeTransactionRelation{
			StakeRecordID:       record.ID,
			WalletTransactionID: debit.ID,
		}
		if err := tx.Create(&relation).Error; err != nil {
			return nil, abort("failed to create stake transaction relation", err)
		}
	}

	// 8.5 机器聚合字段
	newCollateral := machine.CollateralValue + currentPrice*totalTokens
	newStaked := machine.StakedTokenAmount + totalTokens
	updates := map[string]interface{}{
		"collateral_value":    newCollateral,
		"staked_token_amount": newStaked,
		"status":              models.MachineStatusActive,
	}

	// 8.6 加权 ATH 重算 (只在现价不高于 ATH 时)
	if currentPrice <= machine.AllTimeHigh {
		var totalHistoric float64
		if err := tx.Model(&models.StakeRecord{}).
			Select("COALESCE(SUM(token_amount), 0)").
			Where("machine_id = ? AND type = ?", machine.ID, models.StakeTypeStake).
			Scan(&totalHistoric).Error; err != nil {
			return nil, abort("failed to sum staked tokens", err)
		}
		previousTokens := totalHistoric - totalTokens

		newATH := (currentPrice*totalTokens + machine.AllTimeHigh*previousTokens) / (totalTokens + previousTokens)
		// 检查并处理 NaN 值: 两边 token 数都为零时保持 ATH 不变
		if !math.IsNaN(newATH) && !math.IsInf(newATH, 0) {
			updates["all_time_high"] = newATH
			audit := models.AthRebaseAudit{
				MachineID:      machine.ID,
				OldATH:         machine.AllTimeHigh,
				NewATH:         newATH,
				OldStakeTokens: previousTokens,
				NewStakeTokens: totalTokens,
			}
			if err := tx.Create(&audit).Error; err != nil {
				return nil, abort("failed to create ath rebase audit", err)
			}
		}
	}

	if err := tx.Model(&models.Machine{}).Where("id = ?", machine.ID).Updates(updates).Error; err != nil {
		return nil, abort("failed to update machine aggregates", err)
	}

	// 8.7 重算推荐激活标记, 仍在同一事务内
	if err := RecomputeReferralActivation(tx, ownerID); err != nil {
		return nil, abort("failed to recompute referral activation", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.New(apperrors.ErrTxAborted, "failed to commit stake deposit", err)
	}

	// 9. 事务外投递事件, 失败只记日志
	publishStakingEvent(dbconfig.StakingEvent{
		Kind:        origin,
		MachineID:   machine.ID,
		OwnerID:     ownerID,
		TokenAmount: totalTokens,
		BurnValue:   split.BurnAmount,
		TotalPrice:  record.TotalPrice,
	})

	return &record, nil
}

func publishStakingEvent(event dbconfig.StakingEvent) {
	if dbconfig.RabbitMQ == nil {
		return
	}
	publisher, err := dbconfig.NewPublisher()
	if err != nil {
		logrus.Warnf("Failed to create staking event publisher: %v", err)
		return
	}
	defer publisher.Close()

	if err := publisher.Publish(dbconfig.QueueStakingEvents, event); err != nil {
		logrus.Warnf("Failed to publish staking event: %v", err)
	}
}

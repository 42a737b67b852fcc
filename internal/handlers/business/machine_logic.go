package business

import (
	"fmt"
	"time"

	"stakecontrol/internal/models"
	dbconfig "stakecontrol/pkg/config"
	apperrors "stakecontrol/pkg/errors"
	"stakecontrol/pkg/utils"
)

// PurchaseMachine 购买一台机器。钱包扣款、机器创建、入金记录、
// 全球分红池派发、推荐标记重算在同一个事务内完成。
func PurchaseMachine(ownerID, productID uint, autoCompound bool) (*models.Machine, error) {
	// 1. 全局开关
	if !GetParamBool(models.ParamStakingEnabled, true) {
		return nil, apperrors.New(apperrors.ErrStakingDisabled, "staking is currently disabled", nil)
	}

	// 2. 加载产品
	var product models.MachineProduct
	if err := dbconfig.DB.Where("id = ? AND is_active = ?", productID, true).
		First(&product).Error; err != nil {
		return nil, apperrors.New(apperrors.ErrSettingsMissing, "machine product not found", err)
	}

	// 3. 当前生效的通胀规则版本, 机器创建后固定指向它
	ruleID, err := ActiveRuleID()
	if err != nil {
		return nil, apperrors.New(apperrors.ErrSettingsMissing, "no active inflation rule", err)
	}

	// 4. 获取现价并折算购机所需代币
	quote, _, err := utils.GetPairQuote(models.DefaultPair)
	if err != nil || quote.Price <= 0 {
		return nil, apperrors.New(apperrors.ErrPriceUnavailable, "unable to fetch current price", err)
	}
	currentPrice := quote.Price
	costTokens := product.Price / currentPrice

	// 5. 钱包与余额校验
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
	if utils.RoundTo(balance, 5) < utils.RoundTo(costTokens, 5) {
		return nil, apperrors.New(apperrors.ErrInsufficientBalance, "stake wallet balance insufficient", nil)
	}

	now := time.Now()
	machine := models.Machine{
		OwnerID:           ownerID,
		ProductID:         product.ID,
		Pair:              models.DefaultPair,
		CollateralValue:   product.Price,
		StakedTokenAmount: costTokens,
		LockedPrice:       currentPrice,
		AllTimeHigh:       currentPrice,
		DLP:               currentPrice,
		InflationRuleID:   ruleID,
		MintingPowerRate:  product.MintingPowerRate,
		BoostRate:         product.BoostRate,
		StakeLimit:        product.StakeLimit,
		Status:            models.MachineStatusActive,
		AutoCompound:      autoCompound,
		StartDate:         now,
		EndDate:           now.AddDate(0, 0, product.DurationDays),
	}

	// 6. 开启事务
	tx := dbconfig.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	abort := func(step string, cause error) error {
		tx.Rollback()
		return apperrors.New(apperrors.ErrTxAborted, step, cause)
	}

	if err := tx.Create(&machine).Error; err != nil {
		return nil, abort("failed to create machine", err)
	}

	debit, err := DebitWallet(tx, stakeWallet, costTokens, models.TxKindPurchase,
		fmt.Sprintf("machine purchase #%d", machine.ID))
	if err != nil {
		return nil, abort("failed to debit stake wallet", err)
	}

	record := models.StakeRecord{
		MachineID:     machine.ID,
		OwnerID:       ownerID,
		TokenAmount:   costTokens,
		TotalPrice:    product.Price,
		PricePerToken: currentPrice,
		Type:          models.StakeTypeStake,
		Origin:        models.StakeOriginMachinePurchase,
		ActualValue:   costTokens,
	}
	if err := tx.Create(&record).Error; err != nil {
		return nil, abort("failed to create stake record", err)
	}

	relation := models.StakeTransactionRelation{
		StakeRecordID:       record.ID,
		WalletTransactionID: debit.ID,
	}
	if err := tx.Create(&relation).Error; err != nil {
		return nil, abort("failed to create stake transaction relation", err)
	}

	// 7. 全球分红池派发, 一台机器只发一次
	if err := DistributeGlobalPool(tx, &machine, &product); err != nil {
		return nil, abort("failed to distribute global pool points", err)
	}

	// 8. 重算推荐激活标记
	if err := RecomputeReferralActivation(tx, ownerID); err != nil {
		return nil, abort("failed to recompute referral activation", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.New(apperrors.ErrTxAborted, "failed to commit machine purchase", err)
	}

	publishStakingEvent(dbconfig.StakingEvent{
		Kind:        models.StakeOriginMachinePurchase,
		MachineID:   machine.ID,
		OwnerID:     ownerID,
		TokenAmount: costTokens,
		TotalPrice:  product.Price,
	})

	return &machine, nil
}

// TerminateMachine 管理端下架机器, 软删除并标记 TERMINATED
func TerminateMachine(machineID uint) error {
	tx := dbconfig.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := tx.Model(&models.Machine{}).Where("id = ?", machineID).
		Update("status", models.MachineStatusTerminated).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&models.Machine{}, machineID).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

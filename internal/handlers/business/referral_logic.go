package business

import (
	"stakecontrol/internal/models"

	"gorm.io/gorm"
)

// RecomputeReferralActivation 重算账户上的两个激活标记并落库。
// direct_active: 本人名下有运行中的机器。
// team_active: 直推用户中有人名下有运行中的机器。
// 必须在调用方事务内执行, 随入金一起提交或回滚。
func RecomputeReferralActivation(tx *gorm.DB, ownerID uint) error {
	var directCount int64
	if err := tx.Model(&models.Machine{}).
		Where("owner_id = ? AND status = ?", ownerID, models.MachineStatusActive).
		Count(&directCount).Error; err != nil {
		return err
	}

	var teamCount int64
	if err := tx.Model(&models.Machine{}).
		Joins("JOIN user_account ON user_account.id = staking_machine.owner_id").
		Where("user_account.referrer_id = ? AND staking_machine.status = ?", ownerID, models.MachineStatusActive).
		Count(&teamCount).Error; err != nil {
		return err
	}

	return tx.Model(&models.UserAccount{}).
		Where("id = ?", ownerID).
		Updates(map[string]interface{}{
			"direct_active": directCount > 0,
			"team_active":   teamCount > 0,
		}).Error
}

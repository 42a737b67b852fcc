package business

import (
	"stakecontrol/internal/models"

	"gorm.io/gorm"
)

// DistributeGlobalPool 购机时向全球分红池派发积分。机器维度幂等:
// 已有记录时直接跳过, 事务重试不会重复派发。
func DistributeGlobalPool(tx *gorm.DB, machine *models.Machine, product *models.MachineProduct) error {
	if !GetParamBool(models.ParamGlobalPoolDistribution, true) {
		return nil
	}
	if product.GlobalPoolPoints <= 0 {
		return nil
	}

	var count int64
	if err := tx.Model(&models.GlobalPoolRecord{}).
		Where("machine_id = ?", machine.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	record := models.GlobalPoolRecord{
		OwnerID:   machine.OwnerID,
		MachineID: machine.ID,
		Points:    product.GlobalPoolPoints,
	}
	return tx.Create(&record).Error
}

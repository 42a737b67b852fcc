package business

import (
	"errors"

	"stakecontrol/internal/models"
	dbconfig "stakecontrol/pkg/config"

	"gorm.io/gorm"
)

// GetWallet 查找用户指定类型的钱包
func GetWallet(ownerID uint, kind string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := dbconfig.DB.Where("owner_id = ? AND kind = ? AND is_active = ?", ownerID, kind, true).
		First(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &wallet, nil
}

// WalletBalance 钱包余额 = 流水的有符号和 (IN 为正, OUT 为负)
func WalletBalance(db *gorm.DB, walletID uint) (float64, error) {
	var balance float64
	err := db.Model(&models.WalletTransaction{}).
		Select("COALESCE(SUM(CASE WHEN direction = 'IN' THEN amount ELSE -amount END), 0)").
		Where("wallet_id = ?", walletID).
		Scan(&balance).Error
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// DebitWallet 在调用方事务内记一笔出账流水, amount 必须为正
func DebitWallet(tx *gorm.DB, wallet *models.Wallet, amount float64, kind, note string) (*models.WalletTransaction, error) {
	if amount <= 0 {
		return nil, errors.New("debit amount must be positive")
	}
	record := models.WalletTransaction{
		WalletID:  wallet.ID,
		OwnerID:   wallet.OwnerID,
		Amount:    amount,
		Direction: models.TxDirectionOut,
		Kind:      kind,
		Note:      note,
	}
	if err := tx.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// CreditWallet 在调用方事务内记一笔入账流水
func CreditWallet(tx *gorm.DB, wallet *models.Wallet, amount float64, kind, note string) (*models.WalletTransaction, error) {
	if amount <= 0 {
		return nil, errors.New("credit amount must be positive")
	}
	record := models.WalletTransaction{
		WalletID:  wallet.ID,
		OwnerID:   wallet.OwnerID,
		Amount:    amount,
		Direction: models.TxDirectionIn,
		Kind:      kind,
		Note:      note,
	}
	if err := tx.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

package handlers

import (
	"stakecontrol/internal/models"
)

// MachineOverviewResp 机器概览响应结构体
type MachineOverviewResp struct {
	ID                uint    `json:"id"`
	OwnerID           uint    `json:"owner_id"`
	Pair              string  `json:"pair"`
	Status            string  `json:"status"`
	CollateralValue   float64 `json:"collateral_value"`
	StakedTokenAmount float64 `json:"staked_token_amount"`
	LockedPrice       float64 `json:"locked_price"`
	AllTimeHigh       float64 `json:"all_time_high"`
	DLP               float64 `json:"dlp"`
	AutoCompound      bool    `json:"auto_compound"`
	LastRewardValue   float64 `json:"last_reward_value"`
	StartDate         int64   `json:"start_date"`
	EndDate           int64   `json:"end_date"`

	TotalMintedTokens float64 `json:"total_minted_tokens"`
	TotalMintedUSD    float64 `json:"total_minted_usd"`
	UnclaimedTokens   float64 `json:"unclaimed_tokens"`

	Product *MachineProductResp `json:"product"`
}

// MachineProductResp 产品响应结构体
type MachineProductResp struct {
	ID               uint     `json:"id"`
	Name             string   `json:"name"`
	Price            float64  `json:"price"`
	MintingPowerRate float64  `json:"minting_power_rate"`
	BoostRate        float64  `json:"boost_rate"`
	StakeLimit       *float64 `json:"stake_limit"`
	DurationDays     int      `json:"duration_days"`
}

// BuildMachineProductResp 构建产品响应
func BuildMachineProductResp(product *models.MachineProduct) *MachineProductResp {
	if product == nil {
		return nil
	}
	return &MachineProductResp{
		ID:               product.ID,
		Name:             product.Name,
		Price:            product.Price,
		MintingPowerRate: product.MintingPowerRate,
		BoostRate:        product.BoostRate,
		StakeLimit:       product.StakeLimit,
		DurationDays:     product.DurationDays,
	}
}

// BuildMachineOverviewResp 构建机器概览响应
func BuildMachineOverviewResp(machine *models.Machine, totalTokens, totalUSD, unclaimedTokens float64) *MachineOverviewResp {
	if machine == nil {
		return nil
	}
	return &MachineOverviewResp{
		ID:                machine.ID,
		OwnerID:           machine.OwnerID,
		Pair:              machine.Pair,
		Status:            machine.Status,
		CollateralValue:   machine.CollateralValue,
		StakedTokenAmount: machine.StakedTokenAmount,
		LockedPrice:       machine.LockedPrice,
		AllTimeHigh:       machine.AllTimeHigh,
		DLP:               machine.DLP,
		AutoCompound:      machine.AutoCompound,
		LastRewardValue:   machine.LastRewardValue,
		StartDate:         machine.StartDate.UnixMilli(),
		EndDate:           machine.EndDate.UnixMilli(),
		TotalMintedTokens: totalTokens,
		TotalMintedUSD:    totalUSD,
		UnclaimedTokens:   unclaimedTokens,
		Product:           BuildMachineProductResp(machine.Product),
	}
}

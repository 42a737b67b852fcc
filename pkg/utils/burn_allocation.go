package utils

import "math"

// BurnSource 烧伤扣款来源。Rate 表示一单位来源资产折合多少个质押代币，
// 本币烧伤钱包 Rate = 1，USD 抵扣券钱包 Rate = 1/price。
type BurnSource struct {
	Name    string
	Balance float64
	Rate    float64
}

// AllocateCascade 按顺序从各来源凑足 need 个代币，返回每个来源
// 实际扣款金额（以来源自身的币种计）。余额不足时取全部余额，
// 凑不齐也不报错，调用方用实际凑到的数量重算烧伤额。
func AllocateCascade(need float64, sources []BurnSource) []float64 {
	contributions := make([]float64, len(sources))
	remaining := need
	for i, source := range sources {
		if remaining <= 0 {
			break
		}
		if source.Rate <= 0 || source.Balance <= 0 {
			continue
		}
		capacityTokens := source.Balance * source.Rate
		takeTokens := math.Min(remaining, capacityTokens)
		contributions[i] = takeTokens / source.Rate
		remaining -= takeTokens
	}
	return contributions
}

// BurnSplit 两个烧伤钱包的级联扣款结果
type BurnSplit struct {
	BurnFromLocal float64 // 本币烧伤钱包扣款，token 单位
	BurnFromUSD   float64 // USD 抵扣券钱包扣款，USD 单位
	BurnAmount    float64 // 实际凑到的烧伤总量，token 单位
}

// ComputeBurnSplit 先用本币烧伤钱包凑 needTokens，差额按现价折算成 USD
// 从抵扣券钱包补足，两个钱包都不够就全部取完。
func ComputeBurnSplit(needTokens, localBalance, voucherBalanceUSD, price float64) BurnSplit {
	if price <= 0 {
		return BurnSplit{}
	}
	contributions := AllocateCascade(needTokens, []BurnSource{
		{Name: "burn", Balance: localBalance, Rate: 1},
		{Name: "voucher", Balance: voucherBalanceUSD, Rate: 1 / price},
	})
	split := BurnSplit{
		BurnFromLocal: contributions[0],
		BurnFromUSD:   contributions[1],
	}
	split.BurnAmount = split.BurnFromLocal + split.BurnFromUSD/price
	return split
}

package utils

import (
	"math"
	"sort"
)

// RuleBand 通胀规则档位，按价格跌幅百分比划分区间
type RuleBand struct {
	ID                        uint
	FromDropPercent           float64
	ToDropPercent             float64
	ProductionDecreasePercent float64
	IncreaseDLPPercent        float64
	MintingBoost              float64
}

// FloorState 机器当前的底价状态
type FloorState struct {
	DLP          float64
	ATH          float64
	ActiveBandID *uint
}

// FloorResult DLP/ATH 评估结果
type FloorResult struct {
	DLP              float64
	ATH              float64
	PriceDropPercent float64 // percent units, rounded to 2 decimals
	Band             *RuleBand
	LastIncrease     float64
	FellFromPrevDay  bool
}

// RoundTo 四舍五入到指定小数位
func RoundTo(x float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(x*pow) / pow
}

// sortBands 返回按 FromDropPercent 升序的副本
func sortBands(bands []RuleBand) []RuleBand {
	sorted := make([]RuleBand, len(bands))
	copy(sorted, bands)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].FromDropPercent < sorted[j].FromDropPercent
	})
	return sorted
}

// MatchBand 查找包含 dropPercent 的档位（percent 单位）。
// 区间边界同时命中两个档位时取 FromDropPercent 更高的那个。
func MatchBand(bands []RuleBand, dropPercent float64) *RuleBand {
	sorted := sortBands(bands)
	var matched *RuleBand
	for i := range sorted {
		band := sorted[i]
		if dropPercent >= band.FromDropPercent && dropPercent <= band.ToDropPercent {
			matched = &sorted[i]
		}
	}
	return matched
}

// EvaluateFloorPrice 根据最新价格评估一台机器的 DLP/ATH 和当前档位。
//
// DLP 只在"较前一日下跌"且命中新档位时按最后一档的增量上调，
// 价格回升时 DLP 保持不变。同一档位内重复评估不会重复上调（防止
// 同档位多次叠加增量）。
func EvaluateFloorPrice(state FloorState, bands []RuleBand, currentPrice, previousPrice float64) FloorResult {
	ath := math.Max(state.ATH, currentPrice)
	// DLP 不会低于现价
	dlp := math.Max(state.DLP, currentPrice)

	fellFromPrevDay := currentPrice < previousPrice

	var fromATH, fromDLP, fromToken float64
	if ath > 0 {
		fromATH = (ath - currentPrice) / ath
	}
	if dlp > 0 {
		fromDLP = (dlp - currentPrice) / dlp
	}
	fromToken = fromATH

	var dropRatio float64
	if fellFromPrevDay {
		dropRatio = fromATH
	} else if previousPrice < currentPrice {
		// 没有下跌、正在回升，按 DLP 口径计算跌幅
		dropRatio = fromDLP
	} else {
		dropRatio = fromToken
	}

	dropPercent := RoundTo(dropRatio*100, 2)
	if math.IsNaN(dropPercent) || math.IsInf(dropPercent, 0) {
		dropPercent = 0
	}

	matched := MatchBand(bands, dropPercent)

	// 从零档开始逐档叠加 DLP 增量，记住最后一次应用的增量
	runningDLP := dlp
	var lastIncrease float64
	for _, band := range sortBands(bands) {
		if band.FromDropPercent > dropPercent {
			break
		}
		increase := runningDLP * band.IncreaseDLPPercent / 100
		runningDLP += increase
		lastIncrease = increase
	}

	newDLP := dlp
	if fellFromPrevDay && matched != nil {
		// 同档位重复评估不再上调
		sameBand := state.ActiveBandID != nil && *state.ActiveBandID == matched.ID
		if !sameBand {
			newDLP = dlp + lastIncrease
		}
	}

	if math.IsNaN(newDLP) || math.IsInf(newDLP, 0) {
		newDLP = dlp
	}

	return FloorResult{
		DLP:              newDLP,
		ATH:              ath,
		PriceDropPercent: dropPercent,
		Band:             matched,
		LastIncrease:     lastIncrease,
		FellFromPrevDay:  fellFromPrevDay,
	}
}

// ApplyProductionPenalty 从零档开始逐档叠加产量衰减。
// 每一档都在上一档衰减后的余额上继续按档位比例扣减，
// 始终以未衰减的 baseValue 作为起点（与 DLP 的叠加相互独立）。
func ApplyProductionPenalty(baseValue, dropPercent float64, bands []RuleBand) (finalValue, totalPenalty float64) {
	running := baseValue
	for _, band := range sortBands(bands) {
		if band.FromDropPercent > dropPercent {
			break
		}
		penalty := running * band.ProductionDecreasePercent / 100
		running -= penalty
		totalPenalty += penalty
	}
	if math.IsNaN(running) || math.IsInf(running, 0) {
		return baseValue, 0
	}
	return running, totalPenalty
}

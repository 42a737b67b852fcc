package schedule

import (
	"errors"
	"time"

	"stakecontrol/internal/models"
	"stakecontrol/pkg/config"
	"stakecontrol/pkg/utils"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RunPriceStat 定时拉取所有在用交易对的行情并落库。
// websocket 行情源正常时这份数据只是兜底。
func RunPriceStat() {
	log.Infof("> 开始更新交易对行情")

	pairs, err := activePairs()
	if err != nil {
		log.Errorf("> 查询在用交易对失败: %v", err)
		return
	}

	var updated int
	for _, pair := range pairs {
		quote, cached, err := utils.GetPairQuote(pair)
		if err != nil {
			log.Errorf("> 获取交易对 %s 行情失败: %v", pair, err)
			continue
		}
		if cached {
			// 缓存数据不回写, 避免把旧价盖到新价上
			log.Warnf("> 交易对 %s 返回缓存行情, 跳过落库", pair)
			continue
		}
		if err := upsertPairStat(pair, quote); err != nil {
			log.Errorf("> 更新交易对 %s 行情失败: %v", pair, err)
			continue
		}
		updated++
		time.Sleep(200 * time.Millisecond)
	}

	log.Infof("> 交易对行情更新完成: %d/%d", updated, len(pairs))
}

// activePairs 运行中机器涉及的交易对, 外加默认交易对
func activePairs() ([]string, error) {
	var pairs []string
	if err := config.DB.Model(&models.Machine{}).
		Where("status = ?", models.MachineStatusActive).
		Distinct("pair").Pluck("pair", &pairs).Error; err != nil {
		return nil, err
	}

	hasDefault := false
	for _, p := range pairs {
		if p == models.DefaultPair {
			hasDefault = true
			break
		}
	}
	if !hasDefault {
		pairs = append(pairs, models.DefaultPair)
	}
	return pairs, nil
}

func upsertPairStat(pair string, quote utils.PairQuote) error {
	now := time.Now()
	var stat models.TokenPairStat
	err := config.DB.Where("pair = ?", pair).First(&stat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			stat = models.TokenPairStat{
				Pair:      pair,
				Price:     quote.Price,
				DayHigh:   quote.DayHigh,
				Source:    "http",
				BlockTime: now,
			}
			return config.DB.Create(&stat).Error
		}
		return err
	}

	stat.Price = quote.Price
	stat.DayHigh = quote.DayHigh
	stat.Source = "http"
	stat.BlockTime = now
	return config.DB.Save(&stat).Error
}

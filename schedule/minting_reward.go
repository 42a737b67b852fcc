package schedule

import (
	"errors"
	"sync"
	"time"

	"stakecontrol/internal/handlers/business"
	"stakecontrol/internal/models"
	"stakecontrol/pkg/config"
	"stakecontrol/pkg/utils"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const MACHINE_MAX_CONCURRENT = 4

// RunDailyMinting 每日奖励铸造任务。逐台评估所有运行中的机器,
// 单台失败只记日志不阻塞整批。
func RunDailyMinting() {
	log.Infof("> 开始每日奖励铸造任务")

	now := time.Now()
	var machines []models.Machine
	if err := config.DB.Where("status = ? AND end_date >= ?", models.MachineStatusActive, now).
		Find(&machines).Error; err != nil {
		log.Errorf("> 查询运行中机器失败: %v", err)
		return
	}
	log.Infof("> 找到 %d 台运行中的机器", len(machines))

	if len(machines) == 0 {
		log.Warnf("> 没有运行中的机器, 跳过本轮铸造")
		return
	}

	// 按交易对取一次现价, 同一批机器用同一个价格
	prices := make(map[string]float64)
	for _, machine := range machines {
		if _, ok := prices[machine.Pair]; ok {
			continue
		}
		quote, cached, err := utils.GetPairQuote(machine.Pair)
		if err != nil {
			log.Errorf("> 获取交易对 %s 行情失败: %v", machine.Pair, err)
			continue
		}
		if cached {
			log.Warnf("> 交易对 %s 使用缓存行情", machine.Pair)
		}
		prices[machine.Pair] = quote.Price
	}

	// 使用信号量控制并发
	sem := make(chan struct{}, MACHINE_MAX_CONCURRENT)
	var wg sync.WaitGroup

	var minted, skipped, failed int64
	var counterMu sync.Mutex

	for _, machine := range machines {
		currentPrice, ok := prices[machine.Pair]
		if !ok {
			// 行情拿不到就不评估, 绝不虚构价格
			counterMu.Lock()
			skipped++
			counterMu.Unlock()
			continue
		}

		wg.Add(1)
		sem <- struct{}{} // acquire

		go func(m models.Machine, price float64) {
			defer wg.Done()
			defer func() { <-sem }() // release

			if evaluatedToday(m.ID) {
				log.Infof("> 机器 %d 今日已评估, 跳过", m.ID)
				counterMu.Lock()
				skipped++
				counterMu.Unlock()
				return
			}

			record, err := business.EvaluateMachineReward(&m, price, previousPrice(&m))
			if err != nil {
				log.Errorf("> 机器 %d 奖励评估失败: %v", m.ID, err)
				writeMintingFailureLog(&m, err)
				counterMu.Lock()
				failed++
				counterMu.Unlock()
				return
			}

			log.Infof("> 机器 %d 铸造完成: %f tokens (%f USD)", m.ID, record.TokenAmount, record.TotalPrice)
			publishRewardMinted(record)
			counterMu.Lock()
			minted++
			counterMu.Unlock()
		}(machine, currentPrice)
	}

	wg.Wait()
	log.Infof("> 每日奖励铸造任务完成: 铸造 %d, 跳过 %d, 失败 %d", minted, skipped, failed)
}

// evaluatedToday 机器今天是否已有铸造记录
func evaluatedToday(machineID uint) bool {
	dayStart := time.Now().Truncate(24 * time.Hour)
	var count int64
	if err := config.DB.Model(&models.MintingRecord{}).
		Where("machine_id = ? AND created_at >= ?", machineID, dayStart).
		Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}

// previousPrice 上一次评估时的价格, 没有记录时退回锁定价
func previousPrice(machine *models.Machine) float64 {
	var last models.MintingRecord
	err := config.DB.Where("machine_id = ?", machine.ID).
		Order("id desc").First(&last).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warnf("> 查询机器 %d 上次铸造记录失败: %v", machine.ID, err)
		}
		return machine.LockedPrice
	}
	return last.TokenPrice
}

func writeMintingFailureLog(machine *models.Machine, cause error) {
	entry := models.SystemLog{
		MachineID: machine.ID,
		Level:     "ERROR",
		Message:   cause.Error(),
		Module:    "minting",
		Meta: models.JSONMap{
			"owner_id": machine.OwnerID,
			"pair":     machine.Pair,
		},
	}
	if err := config.DB.Create(&entry).Error; err != nil {
		log.Errorf("> 写入铸造失败日志出错: %v", err)
	}
}

func publishRewardMinted(record *models.MintingRecord) {
	if config.RabbitMQ == nil {
		return
	}
	publisher, err := config.NewPublisher()
	if err != nil {
		log.Warnf("> 创建奖励事件发布器失败: %v", err)
		return
	}
	defer publisher.Close()

	event := config.RewardMintedEvent{
		MachineID:   record.MachineID,
		OwnerID:     record.OwnerID,
		TokenAmount: record.TokenAmount,
		TotalPrice:  record.TotalPrice,
		MintedAt:    record.CreatedAt.Format(time.RFC3339),
	}
	if err := publisher.Publish(config.QueueRewardMinted, event); err != nil {
		log.Warnf("> 发布奖励事件失败: %v", err)
	}
}

package main

import (
	"os"

	"stakecontrol/internal/models"
	"stakecontrol/pkg/config"

	log "github.com/sirupsen/logrus"
)

// 初始化默认通胀规则和系统参数。幂等, 重复执行不会重复插入。
func main() {
	// 日志输出到文件
	os.MkdirAll("logs", 0755)
	file, err := os.OpenFile("logs/seed_inflation_rules.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)

	if err == nil {
		log.SetOutput(file)
	} else {
		log.Warn("无法打开日志文件，日志将输出到标准输出")
	}

	config.InitDB()
	log.Infof("> 初始化程序完成")

	seedDefaultRule()
	seedSystemParams()

	log.Infof("> 初始化数据完成")
}

func seedDefaultRule() {
	var count int64
	if err := config.DB.Model(&models.InflationRule{}).
		Where("name = ?", "default").Count(&count).Error; err != nil {
		log.Fatalf("> 查询通胀规则失败: %v", err)
	}
	if count > 0 {
		log.Infof("> 默认通胀规则已存在, 跳过")
		return
	}

	rule := models.InflationRule{
		Name:     "default",
		Version:  1,
		IsActive: true,
		Bands: []models.InflationBand{
			{FromDropPercent: 0, ToDropPercent: 10, IncreaseDLPPercent: 0, ProductionDecreasePercent: 0, MintingBoost: 0},
			{FromDropPercent: 10, ToDropPercent: 20, IncreaseDLPPercent: 5, ProductionDecreasePercent: 5, MintingBoost: 0},
			{FromDropPercent: 20, ToDropPercent: 35, IncreaseDLPPercent: 10, ProductionDecreasePercent: 10, MintingBoost: 0},
			{FromDropPercent: 35, ToDropPercent: 50, IncreaseDLPPercent: 20, ProductionDecreasePercent: 20, MintingBoost: 0.05},
			{FromDropPercent: 50, ToDropPercent: 100, IncreaseDLPPercent: 35, ProductionDecreasePercent: 30, MintingBoost: 0.1},
		},
	}
	if err := config.DB.Create(&rule).Error; err != nil {
		log.Fatalf("> 创建默认通胀规则失败: %v", err)
	}
	log.Infof("> 默认通胀规则已创建: id=%d", rule.ID)
}

func seedSystemParams() {
	defaults := map[string]string{
		models.ParamStakingEnabled:         "true",
		models.ParamPhaseEnabled:           "false",
		models.ParamAutoCompoundPenaltyPct: "10",
		models.ParamGlobalPoolDistribution: "true",
	}

	for key, value := range defaults {
		var param models.SystemParams
		err := config.DB.Where("key = ?", key).First(&param).Error
		if err == nil {
			continue
		}
		param = models.SystemParams{Key: key, Value: value}
		if err := config.DB.Create(&param).Error; err != nil {
			log.Fatalf("> 写入系统参数 %s 失败: %v", key, err)
		}
		log.Infof("> 系统参数已写入: %s=%s", key, value)
	}
}

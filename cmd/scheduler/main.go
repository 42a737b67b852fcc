package main

import (
	"os"

	dbconfig "stakecontrol/pkg/config"
	"stakecontrol/schedule"

	"github.com/robfig/cron/v3"
	logger "github.com/sirupsen/logrus"
)

func main() {
	// 配置日志输出到文件
	os.MkdirAll("logs", 0755)
	file, err := os.OpenFile("logs/scheduler.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err == nil {
		logger.SetOutput(file)
	} else {
		logger.Warn("无法打开日志文件，日志将输出到标准输出")
	}

	// 配置日志格式
	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetLevel(logger.InfoLevel)
	logger.Info("> 开始初始化程序...")

	// 初始化数据库连接
	dbconfig.InitDB()
	logger.Info("> 数据库连接初始化完成")

	// RabbitMQ 可选, 没配置就不发事件
	if os.Getenv("RABBITMQ_HOST") != "" {
		dbconfig.InitRabbitMQ()
		defer func() {
			if dbconfig.RabbitMQ != nil {
				dbconfig.RabbitMQ.Close()
			}
		}()
		logger.Info("> RabbitMQ 初始化完成")
	}

	// 创建定时任务
	c := cron.New(cron.WithSeconds())

	// 每天 00:05 执行奖励铸造
	mintingSpec := os.Getenv("MINTING_CRON")
	if mintingSpec == "" {
		mintingSpec = "0 5 0 * * *"
	}
	_, err = c.AddFunc(mintingSpec, schedule.RunDailyMinting)
	if err != nil {
		logger.Fatalf("> 添加奖励铸造任务失败: %v", err)
	}

	// 每5分钟刷新一次交易对行情
	_, err = c.AddFunc("0 */5 * * * *", schedule.RunPriceStat)
	if err != nil {
		logger.Fatalf("> 添加行情任务失败: %v", err)
	}

	logger.Info("> 定时任务已启动")

	// 启动定时任务
	c.Start()

	// 保持程序运行
	select {}
}

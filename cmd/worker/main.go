package main

import (
	"encoding/json"
	"log"
	"os"
	"strings"

	"stakecontrol/internal/models"
	"stakecontrol/pkg/config"
	"stakecontrol/pkg/pricefeed"

	logrus "github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	// Initialize database
	config.InitDB()

	// Initialize RabbitMQ
	config.InitRabbitMQ()
	defer config.RabbitMQ.Close()

	// Create ticker feed manager
	manager, err := pricefeed.NewTickerFeedManager()
	if err != nil {
		logrus.Fatal("Failed to create ticker feed manager: ", err)
	}

	// 默认交易对开机即订阅, 其余通过队列消息按需增减
	startPairs := os.Getenv("FEED_PAIRS")
	if startPairs == "" {
		startPairs = models.DefaultPair
	}
	for _, pair := range strings.Split(startPairs, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		if err := manager.StartFeed(pair, onTickerUpdate); err != nil {
			logrus.Errorf("Failed to start feed for %s: %v", pair, err)
		}
	}

	// Consume staking events for audit logging
	go consumeStakingEvents()

	// Create consumer for feed control queue
	msgConsumer, err := config.NewConsumer("pair_feed_control")
	if err != nil {
		logrus.Fatal("Failed to create consumer: ", err)
	}
	defer msgConsumer.Close()

	logrus.Info("Price Feed Worker started, waiting for messages...")

	// Start consuming messages
	err = msgConsumer.Consume(func(msg []byte) error {
		var feedMsg pricefeed.FeedMessage
		if err := json.Unmarshal(msg, &feedMsg); err != nil {
			logrus.Errorf("Failed to unmarshal message: %v", err)
			return err
		}

		logrus.Infof("Received feed control request: %+v", feedMsg)

		switch feedMsg.Action {
		case "start_feed":
			if feedMsg.Pair == "" {
				logrus.Warn("start_feed message without pair, ignoring")
				return nil
			}
			if err := manager.StartFeed(feedMsg.Pair, onTickerUpdate); err != nil {
				logrus.Errorf("Failed to start feed for %s: %v", feedMsg.Pair, err)
				return err
			}
		case "stop_feed":
			if feedMsg.Pair == "" {
				logrus.Warn("stop_feed message without pair, ignoring")
				return nil
			}
			if err := manager.StopFeed(feedMsg.Pair); err != nil {
				logrus.Errorf("Failed to stop feed for %s: %v", feedMsg.Pair, err)
			}
		default:
			logrus.Warnf("Unknown feed action: %s", feedMsg.Action)
		}

		return nil
	})

	if err != nil {
		log.Fatal("Failed to start consumer: ", err)
	}
}

// onTickerUpdate persists every ticker push into token_pair_stat
func onTickerUpdate(update *pricefeed.TickerUpdate) {
	if err := pricefeed.SaveTickerUpdate(update); err != nil {
		logrus.Errorf("Failed to save ticker update for %s: %v", update.Pair, err)
		return
	}
	logrus.Debugf("Ticker update saved: %s = %f", update.Pair, update.Price)
}

// consumeStakingEvents writes staking events into system_logs for audit
func consumeStakingEvents() {
	consumer, err := config.NewConsumer(config.QueueStakingEvents)
	if err != nil {
		logrus.Errorf("Failed to create staking events consumer: %v", err)
		return
	}
	defer consumer.Close()

	err = consumer.Consume(func(msg []byte) error {
		var event config.StakingEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			logrus.Errorf("Failed to unmarshal staking event: %v", err)
			return err
		}

		entry := models.SystemLog{
			MachineID: event.MachineID,
			Level:     "INFO",
			Message:   "staking event: " + event.Kind,
			Module:    "staking",
			Meta: models.JSONMap{
				"owner_id":     event.OwnerID,
				"token_amount": event.TokenAmount,
				"burn_value":   event.BurnValue,
				"total_price":  event.TotalPrice,
			},
		}
		if err := config.DB.Create(&entry).Error; err != nil {
			logrus.Errorf("Failed to write staking event log: %v", err)
			return err
		}
		return nil
	})
	if err != nil {
		logrus.Errorf("Staking events consumer stopped: %v", err)
	}
}

package pricefeed

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"stakecontrol/internal/models"
	dbconfig "stakecontrol/pkg/config"
)

const (
	// Connection states
	StateDisconnected = "disconnected"
	StateConnecting   = "connecting"
	StateConnected    = "connected"

	// Reconnect settings
	maxReconnectAttempts = 10
	reconnectDelay       = 5 * time.Second

	// Error threshold
	maxErrorCount = 6 // Maximum consecutive errors before stopping the feed
)

// FeedMessage represents a message for starting or stopping a pair feed
type FeedMessage struct {
	Action string `json:"action"` // "start_feed" | "stop_feed"
	Pair   string `json:"pair,omitempty"`
}

// TickerUpdate represents a parsed ticker push from the exchange
type TickerUpdate struct {
	Pair      string  `json:"pair"`
	Price     float64 `json:"price"`
	DayHigh   float64 `json:"day_high"`
	Timestamp int64   `json:"timestamp"`
}

// TickerCallback is a function type for handling ticker updates
type TickerCallback func(update *TickerUpdate)

// PairConnection represents a WebSocket connection for one trading pair
type PairConnection struct {
	Pair           string
	Conn           *websocket.Conn
	Status         string
	LastMessage    time.Time
	ReconnectCh    chan bool
	StopCh         chan bool
	SubscriptionID interface{}
	Callback       TickerCallback
	mu             sync.RWMutex
	wsEndpoint     string
	errorCount     int
}

// TickerFeedManager manages WebSocket connections for pair price feeds
type TickerFeedManager struct {
	connections sync.Map // map[string]*PairConnection
	wsEndpoint  string
}

// NewTickerFeedManager creates a new ticker feed manager
func NewTickerFeedManager() (*TickerFeedManager, error) {
	wsEndpoint := os.Getenv("PRICE_WSS_URL")
	if wsEndpoint == "" {
		wsEndpoint = "wss://quote.example-exchange.com/ws/v1/ticker"
	}

	return &TickerFeedManager{
		wsEndpoint: wsEndpoint,
	}, nil
}

// StartFeed starts streaming ticker updates for a trading pair
func (m *TickerFeedManager) StartFeed(pair string, callback TickerCallback) error {
	if _, exists := m.connections.Load(pair); exists {
		log.WithFields(log.Fields{
			"pair": pair,
		}).Info("Connection already exists, skipping")
		return nil
	}

	if pair == "" {
		return fmt.Errorf("pair is required for a ticker feed")
	}

	conn := &PairConnection{
		Pair:        pair,
		Status:      StateDisconnected,
		ReconnectCh: make(chan bool, 1),
		StopCh:      make(chan bool, 1),
		Callback:    callback,
		wsEndpoint:  m.wsEndpoint,
		errorCount:  0,
	}

	m.connections.Store(pair, conn)

	go m.connectAndStream(conn)

	log.WithFields(log.Fields{
		"pair": pair,
	}).Info("行情订阅已创建")
	return nil
}

// StopFeed stops streaming ticker updates for a trading pair
func (m *TickerFeedManager) StopFeed(pair string) error {
	value, exists := m.connections.Load(pair)
	if !exists {
		return fmt.Errorf("connection for pair %s not found", pair)
	}

	conn := value.(*PairConnection)
	close(conn.StopCh)
	m.connections.Delete(pair)
	log.WithFields(log.Fields{
		"pair": pair,
	}).Info("行情订阅已停止")

	return nil
}

// incrementErrorCount increments the error count and checks if threshold is reached
// Returns true if error count exceeds threshold and the feed should be stopped
func (m *TickerFeedManager) incrementErrorCount(conn *PairConnection) bool {
	conn.mu.Lock()
	defer conn.mu.Unlock()

	conn.errorCount++
	log.WithFields(log.Fields{
		"pair":        conn.Pair,
		"error_count": conn.errorCount,
		"max_errors":  maxErrorCount,
	}).Warn("Error count increased")

	if conn.errorCount >= maxErrorCount {
		log.WithFields(log.Fields{
			"pair":        conn.Pair,
			"error_count": conn.errorCount,
			"max_errors":  maxErrorCount,
		}).Error("Error count exceeded threshold, stopping feed")
		return true
	}

	return false
}

// resetErrorCount resets the error count (called on successful operations)
func (m *TickerFeedManager) resetErrorCount(conn *PairConnection) {
	conn.mu.Lock()
	defer conn.mu.Unlock()

	if conn.errorCount > 0 {
		log.WithFields(log.Fields{
			"pair":        conn.Pair,
			"error_count": conn.errorCount,
		}).Debug("Resetting error count")
		conn.errorCount = 0
	}
}

// connectAndStream handles the WebSocket connection and reconnect loop
func (m *TickerFeedManager) connectAndStream(conn *PairConnection) {
	reconnectAttempts := 0

	for {
		select {
		case <-conn.StopCh:
			log.WithFields(log.Fields{
				"pair": conn.Pair,
			}).Info("Stopping feed")
			if conn.Conn != nil {
				conn.Conn.Close()
			}
			return
		default:
			conn.mu.Lock()
			conn.Status = StateConnecting
			conn.mu.Unlock()

			c, _, err := websocket.DefaultDialer.Dial(conn.wsEndpoint, nil)
			if err != nil {
				log.WithFields(log.Fields{
					"pair":  conn.Pair,
					"error": err.Error(),
				}).Error("Failed to connect to quote WebSocket")
				reconnectAttempts++

				if m.incrementErrorCount(conn) {
					m.StopFeed(conn.Pair)
					return
				}

				if reconnectAttempts >= maxReconnectAttempts {
					log.WithFields(log.Fields{
						"pair":                   conn.Pair,
						"reconnect_attempts":     reconnectAttempts,
						"max_reconnect_attempts": maxReconnectAttempts,
					}).Error("Max reconnect attempts reached, stopping")
					m.StopFeed(conn.Pair)
					return
				}
				time.Sleep(reconnectDelay)
				continue
			}

			conn.mu.Lock()
			conn.Conn = c
			conn.Status = StateConnected
			conn.mu.Unlock()

			reconnectAttempts = 0
			m.resetErrorCount(conn)
			log.WithFields(log.Fields{
				"pair": conn.Pair,
			}).Info("Connected to quote WebSocket")

			subscribeMsg := map[string]interface{}{
				"id":     1,
				"method": "subscribe",
				"params": map[string]interface{}{
					"channel": "ticker",
					"pair":    conn.Pair,
				},
			}

			if err := c.WriteJSON(subscribeMsg); err != nil {
				log.WithFields(log.Fields{
					"pair":  conn.Pair,
					"error": err.Error(),
				}).Error("Failed to send subscription message")
				c.Close()
				if m.incrementErrorCount(conn) {
					m.StopFeed(conn.Pair)
					return
				}
				time.Sleep(reconnectDelay)
				continue
			}

			log.WithFields(log.Fields{
				"pair": conn.Pair,
			}).Info("开始接收行情推送...")

			go m.readMessages(conn)

			// Wait for reconnect signal or stop signal
			select {
			case <-conn.ReconnectCh:
				log.WithFields(log.Fields{
					"pair": conn.Pair,
				}).Info("Reconnect requested")
				c.Close()
				time.Sleep(reconnectDelay)
			case <-conn.StopCh:
				c.Close()
				return
			}
		}
	}
}

// readMessages reads messages from the WebSocket connection
func (m *TickerFeedManager) readMessages(conn *PairConnection) {
	defer func() {
		conn.mu.Lock()
		if conn.Conn != nil {
			conn.Conn.Close()
		}
		conn.Status = StateDisconnected
		conn.mu.Unlock()

		// Trigger reconnect
		select {
		case conn.ReconnectCh <- true:
		default:
		}
	}()

	for {
		conn.mu.RLock()
		c := conn.Conn
		conn.mu.RUnlock()

		if c == nil {
			return
		}

		_, message, err := c.ReadMessage()
		if err != nil {
			log.WithFields(log.Fields{
				"pair":  conn.Pair,
				"error": err.Error(),
			}).Error("Error reading message")
			if m.incrementErrorCount(conn) {
				m.StopFeed(conn.Pair)
			}
			return
		}

		m.resetErrorCount(conn)

		conn.mu.Lock()
		conn.LastMessage = time.Now()
		conn.mu.Unlock()

		var msg map[string]interface{}
		if err := json.Unmarshal(message, &msg); err != nil {
			log.WithFields(log.Fields{
				"pair":  conn.Pair,
				"error": err.Error(),
			}).Error("Failed to unmarshal message")
			if m.incrementErrorCount(conn) {
				m.StopFeed(conn.Pair)
				return
			}
			continue
		}

		// Subscription confirmation: {"id":1,"result":<subscription_id>}
		if id, hasID := msg["id"]; hasID {
			if result, ok := msg["result"].(float64); ok {
				conn.mu.Lock()
				conn.SubscriptionID = result
				conn.mu.Unlock()
				log.WithFields(log.Fields{
					"pair":            conn.Pair,
					"subscription_id": result,
					"request_id":      id,
				}).Info("Subscription confirmed")
				log.WithFields(log.Fields{
					"pair": conn.Pair,
				}).Info("行情推送已启动")
				continue
			}
		}

		update, err := parseTickerMessage(conn.Pair, msg)
		if err != nil {
			log.WithFields(log.Fields{
				"pair":  conn.Pair,
				"error": err.Error(),
			}).Debug("Skipping non-ticker message")
			continue
		}

		if conn.Callback != nil {
			conn.Callback(update)
		}
	}
}

// parseTickerMessage extracts a ticker update from a push message.
// Push format: {"channel":"ticker","data":{"pair":...,"price":...,"day_high":...,"ts":...}}
func parseTickerMessage(pair string, msg map[string]interface{}) (*TickerUpdate, error) {
	channel, _ := msg["channel"].(string)
	if channel != "ticker" {
		return nil, fmt.Errorf("unexpected channel %q", channel)
	}

	data, ok := msg["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("ticker message has no data field")
	}

	price, ok := data["price"].(float64)
	if !ok || price <= 0 {
		return nil, fmt.Errorf("ticker message has invalid price")
	}

	update := &TickerUpdate{
		Pair:  pair,
		Price: price,
	}
	if p, ok := data["pair"].(string); ok && p != "" {
		update.Pair = p
	}
	if high, ok := data["day_high"].(float64); ok {
		update.DayHigh = high
	}
	if ts, ok := data["ts"].(float64); ok {
		update.Timestamp = int64(ts)
	}
	return update, nil
}

// SaveTickerUpdate persists a ticker update into token_pair_stat.
// 同一交易对只保留一行最新行情。
func SaveTickerUpdate(update *TickerUpdate) error {
	blockTime := time.Now()
	if update.Timestamp > 0 {
		blockTime = time.UnixMilli(update.Timestamp)
	}

	var stat models.TokenPairStat
	err := dbconfig.DB.Where("pair = ?", update.Pair).First(&stat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			stat = models.TokenPairStat{
				Pair:      update.Pair,
				Price:     update.Price,
				DayHigh:   update.DayHigh,
				Source:    "websocket",
				BlockTime: blockTime,
			}
			return dbconfig.DB.Create(&stat).Error
		}
		return err
	}

	stat.Price = update.Price
	if update.DayHigh > stat.DayHigh {
		stat.DayHigh = update.DayHigh
	}
	stat.Source = "websocket"
	stat.BlockTime = blockTime
	return dbconfig.DB.Save(&stat).Error
}

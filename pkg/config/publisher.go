package config

import (
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RewardMintedEvent is emitted after a daily minting record is committed
type RewardMintedEvent struct {
	MachineID   uint    `json:"machine_id"`
	OwnerID     uint    `json:"owner_id"`
	TokenAmount float64 `json:"token_amount"`
	TotalPrice  float64 `json:"total_price"`
	MintedAt    string  `json:"minted_at"`
}

// StakingEvent is emitted after a stake deposit or machine purchase commits
type StakingEvent struct {
	Kind        string  `json:"kind"` // MACHINE_PURCHASE / MORE_STAKE / PHASE_DEPOSIT
	MachineID   uint    `json:"machine_id"`
	OwnerID     uint    `json:"owner_id"`
	TokenAmount float64 `json:"token_amount"`
	BurnValue   float64 `json:"burn_value"`
	TotalPrice  float64 `json:"total_price"`
}

// Publisher represents a RabbitMQ publisher
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewPublisher creates a new RabbitMQ publisher
func NewPublisher() (*Publisher, error) {
	if RabbitMQ == nil {
		return nil, fmt.Errorf("RabbitMQ connection not initialized")
	}

	ch, err := RabbitMQ.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	return &Publisher{
		conn:    RabbitMQ,
		channel: ch,
	}, nil
}

// Publish publishes a message to the specified queue
func (p *Publisher) Publish(queueName string, message interface{}) error {
	// Declare queue
	_, err := p.channel.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	// Marshal message to JSON
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	// Publish message
	err = p.channel.Publish(
		"",        // exchange
		queueName, // routing key
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // Make message persistent
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	log.Printf("Published message to queue %s: %s", queueName, string(body))
	return nil
}

// Close closes the publisher
func (p *Publisher) Close() error {
	if p.channel != nil {
		return p.channel.Close()
	}
	return nil
}

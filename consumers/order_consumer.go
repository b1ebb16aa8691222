package consumers

import (
	"context"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"tindibandi/config"
	"tindibandi/rabbitmq"
	"tindibandi/services"
)

// StartOrderConsumer consumes the order queue and the dead letter queue in
// background goroutines. The advance_status events it handles are what
// walk a fresh order from Preparing to Delivered.
func StartOrderConsumer(rmq *rabbitmq.RabbitMQ, cfg *config.Config, orders *services.OrderService) {
	msgs, err := rmq.Channel.Consume(
		cfg.OrderQueue,
		"tindibandi", // consumer tag
		false,        // auto-ack
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,
	)
	if err != nil {
		log.Fatalf("Failed to register consumer: %v", err)
	}

	go func() {
		for msg := range msgs {
			processOrderMessage(msg, rmq, cfg, orders)
		}
	}()

	dlqMsgs, err := rmq.Channel.Consume(
		cfg.DeadLetterQueue,
		"tindibandi-dlq", // consumer tag
		false,            // auto-ack
		false,            // exclusive
		false,            // no-local
		false,            // no-wait
		nil,
	)
	if err != nil {
		log.Printf("Failed to register DLQ consumer: %v", err)
		return
	}

	go func() {
		for msg := range dlqMsgs {
			processDeadLetterMessage(msg)
		}
	}()
}

func processOrderMessage(msg amqp.Delivery, rmq *rabbitmq.RabbitMQ, cfg *config.Config, orders *services.OrderService) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic in message processing: %v", r)
		}
	}()

	orderID, eventType, err := rabbitmq.DecodeEvent(msg.Body)
	if err != nil {
		log.Printf("Dropping malformed message: %v", err)
		if nerr := msg.Nack(false, false); nerr != nil {
			return
		}
		return
	}

	log.Printf("Processing order event: ID=%d, Type=%s", orderID, eventType)

	switch eventType {
	case "created":
		handleOrderCreated(orderID)
	case "status_updated":
		handleStatusUpdated(orderID)
	case "advance_status":
		handleAdvanceStatus(orderID, rmq, cfg, orders)
	default:
		log.Printf("Unknown event type: %s", eventType)
	}

	if err := msg.Ack(false); err != nil {
		return
	}
}

func processDeadLetterMessage(msg amqp.Delivery) {
	log.Printf("Received dead letter: %s", msg.Body)
	if err := msg.Ack(false); err != nil {
		return
	}
}

func handleOrderCreated(orderID int64) {
	log.Printf("Handling order created: %d", orderID)
}

func handleStatusUpdated(orderID int64) {
	log.Printf("Handling status update for order %d", orderID)
}

// handleAdvanceStatus moves the order one step and re-arms the delayed
// event until it reaches a terminal status.
func handleAdvanceStatus(orderID int64, rmq *rabbitmq.RabbitMQ, cfg *config.Config, orders *services.OrderService) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	more, err := orders.AdvanceStatus(ctx, orderID)
	if err != nil {
		log.Printf("Failed to advance status for order %d: %v", orderID, err)
		return
	}
	if !more {
		return
	}

	delay := time.Duration(cfg.StatusAdvanceMS) * time.Millisecond
	if err := rmq.PublishDelayedEvent(orderID, delay, "advance_status"); err != nil {
		log.Printf("Failed to schedule next status advance for order %d: %v", orderID, err)
	}
}

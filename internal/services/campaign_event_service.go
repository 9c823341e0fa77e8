package services

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/adpilot/ad-campaign-services-backend/internal/models"
)

const campaignEventsQueue = "campaign_events"

// CampaignEventService publishes lifecycle events to RabbitMQ so
// downstream consumers (billing, notifications, analytics) can react to
// status changes without polling.
type CampaignEventService struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewCampaignEventService() (*CampaignEventService, error) {
	host := getEnv("RABBITMQ_HOST", "localhost")
	port := getEnv("RABBITMQ_PORT", "5672")
	user := getEnv("RABBITMQ_USER", "guest")
	pass := getEnv("RABBITMQ_PASS", "guest")

	url := fmt.Sprintf("amqp://%s:%s@%s:%s/", user, pass, host, port)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = channel.QueueDeclare(
		campaignEventsQueue, // name
		true,                // durable
		false,               // delete when unused
		false,               // exclusive
		false,               // no-wait
		nil,                 // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	logrus.Info("Campaign event service initialized successfully")
	return &CampaignEventService{conn: conn, channel: channel}, nil
}

// PublishCampaignEvent publishes a single lifecycle event for a campaign
func (s *CampaignEventService) PublishCampaignEvent(event string, campaign *models.Campaign) error {
	payload := map[string]interface{}{
		"event":       event,
		"campaign_id": campaign.ID,
		"user_id":     campaign.UserID,
		"status":      string(campaign.Status),
		"occurred_at": time.Now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = s.channel.Publish(
		"",                  // exchange
		campaignEventsQueue, // routing key
		false,               // mandatory
		false,               // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"event":       event,
		"campaign_id": campaign.ID,
	}).Debug("Published campaign event")
	return nil
}

// Close closes the RabbitMQ connection
func (s *CampaignEventService) Close() error {
	if s.channel != nil {
		if err := s.channel.Close(); err != nil {
			logrus.Errorf("Error closing channel: %v", err)
		}
	}
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			logrus.Errorf("Error closing connection: %v", err)
		}
	}
	return nil
}

// getEnv gets environment variable with fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

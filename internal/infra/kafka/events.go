package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arklim/estate-platform-auth/internal/core/domain"
	"github.com/arklim/estate-platform-auth/internal/core/port"
	"github.com/arklim/estate-platform-auth/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type eventEnvelope struct {
	EventID   string            `json:"event_id"`
	EventType string            `json:"event_type"`
	UserID    string            `json:"user_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Payload   any               `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, userID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		UserID:    userID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata: map[string]string{
			"service":     p.appCfg.Name,
			"environment": p.appCfg.Env,
		},
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishUserRegistered publishes estate.user.registered events.
func (p *EventPublisher) PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error {
	payload := struct {
		UserID       string    `json:"user_id"`
		Email        string    `json:"email"`
		Role         string    `json:"role"`
		RegisteredAt time.Time `json:"registered_at"`
	}{
		UserID:       event.UserID,
		Email:        event.Email,
		Role:         string(event.Role),
		RegisteredAt: event.RegisteredAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "estate.user.registered", event.UserID, event.RegisteredAt, payload)
}

// PublishAccountLocked publishes estate.auth.account.locked events.
func (p *EventPublisher) PublishAccountLocked(ctx context.Context, event domain.AccountLockedEvent) error {
	payload := struct {
		UserID         string    `json:"user_id"`
		FailedAttempts int       `json:"failed_attempts"`
		LockedUntil    time.Time `json:"locked_until"`
		IP             string    `json:"ip,omitempty"`
	}{
		UserID:         event.UserID,
		FailedAttempts: event.FailedAttempts,
		LockedUntil:    event.LockedUntil.UTC(),
		IP:             event.IP,
	}

	return p.publish(ctx, event.EventID, "estate.auth.account.locked", event.UserID, event.OccurredAt, payload)
}

// PublishEntityBlocked publishes estate.moderation.entity.blocked events.
func (p *EventPublisher) PublishEntityBlocked(ctx context.Context, event domain.EntityBlockedEvent) error {
	payload := struct {
		AdminID    string `json:"admin_id"`
		TargetType string `json:"target_type"`
		TargetID   string `json:"target_id"`
		Blocked    bool   `json:"blocked"`
		Reason     string `json:"reason,omitempty"`
	}{
		AdminID:    event.AdminID,
		TargetType: string(event.TargetType),
		TargetID:   event.TargetID,
		Blocked:    event.Blocked,
		Reason:     event.Reason,
	}

	return p.publish(ctx, event.EventID, "estate.moderation.entity.blocked", "", event.OccurredAt, payload)
}

// PublishSuspiciousLogin publishes estate.auth.suspicious.login events.
func (p *EventPublisher) PublishSuspiciousLogin(ctx context.Context, event domain.SuspiciousLoginEvent) error {
	payload := struct {
		Email       string `json:"email"`
		DistinctIPs int    `json:"distinct_ips"`
		Attempts    int    `json:"attempts"`
		IP          string `json:"ip,omitempty"`
	}{
		Email:       event.Email,
		DistinctIPs: event.DistinctIPs,
		Attempts:    event.Attempts,
		IP:          event.IP,
	}

	return p.publish(ctx, event.EventID, "estate.auth.suspicious.login", "", event.OccurredAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)

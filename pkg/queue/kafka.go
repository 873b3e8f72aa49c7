package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Publisher sends a keyed event to the social events topic.
type Publisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
}

type KafkaProducer struct {
	writer *kafka.Writer
}

func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		Async:                  false,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}

	return &KafkaProducer{writer: writer}
}

func (p *KafkaProducer) Publish(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	return p.writer.WriteMessages(ctx, message)
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event. Used when kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }

type EventType string

const (
	EventUserCreated   EventType = "user_created"
	EventUserDeleted   EventType = "user_deleted"
	EventRoleChanged   EventType = "role_changed"
	EventPostCreated   EventType = "post_created"
	EventPostDeleted   EventType = "post_deleted"
	EventFollowCreated EventType = "follow_created"
	EventFollowDeleted EventType = "follow_deleted"
	EventBlockCreated  EventType = "block_created"
	EventBlockDeleted  EventType = "block_deleted"
	EventLikeCreated   EventType = "like_created"
	EventLikeDeleted   EventType = "like_deleted"
)

type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

func NewEvent(t EventType, data interface{}) Event {
	return Event{Type: t, Timestamp: time.Now().UTC(), Data: data}
}

type UserEventData struct {
	UserID  string `json:"user_id"`
	Role    string `json:"role,omitempty"`
	ActorID string `json:"actor_id,omitempty"`
}

type PostEventData struct {
	PostID   string `json:"post_id"`
	AuthorID string `json:"author_id"`
	ActorID  string `json:"actor_id,omitempty"`
}

// EdgeEventData describes a follow or block edge.
type EdgeEventData struct {
	FromID string `json:"from_id"`
	ToID   string `json:"to_id"`
}

type LikeEventData struct {
	UserID string `json:"user_id"`
	PostID string `json:"post_id"`
}

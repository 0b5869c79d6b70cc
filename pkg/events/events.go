// Package events 将培训相关事件发布到 Kafka，供通知等下游服务消费
package events

import (
	"context"
	"encoding/json"
	"time"
	"workplace_training_backend/internal/config"
	"workplace_training_backend/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	TestSubmitted     = "test.submitted"
	CourseCompleted   = "course.completed"
	CertificateIssued = "certificate.issued"
	PasswordReset     = "password_reset.approved"
)

// Event 事件消息体，Key 为事件类型
type Event struct {
	Type       string    `json:"event"`
	UserID     uint      `json:"user_id"`
	CourseID   uint      `json:"course_id,omitempty"`
	Email      string    `json:"email,omitempty"`
	Course     string    `json:"course,omitempty"`
	Score      *int      `json:"score,omitempty"`
	Passed     *bool     `json:"passed,omitempty"`
	Number     string    `json:"certificate_number,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher 未启用 Kafka 时使用
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, e Event) error { return nil }
func (NopPublisher) Close() error                               { return nil }

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			BatchTimeout:           50 * time.Millisecond,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	value, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.Type),
		Value: value,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func NewPublisher(cfg *config.KafkaConfig) Publisher {
	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		return NopPublisher{}
	}
	logger.Log.Info("Kafka publisher enabled", zap.Strings("brokers", cfg.Brokers), zap.String("topic", cfg.Topic))
	return NewKafkaPublisher(cfg.Brokers, cfg.Topic)
}

// PublishAsync 事件发布失败只记录日志，不影响主流程
func PublishAsync(p Publisher, e Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.Publish(ctx, e); err != nil {
			logger.Log.Warn("publish event failed", zap.String("event", e.Type), zap.Error(err))
		}
	}()
}

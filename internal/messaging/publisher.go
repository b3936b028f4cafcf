package messaging

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/metrics"

	"github.com/segmentio/kafka-go"
)

// Publisher 领域事件发布接口
type Publisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
	Close() error
}

// NewPublisher 根据配置创建发布器，未启用时返回只记录日志的实现
func NewPublisher(cfg *config.EventsConfig) Publisher {
	if cfg == nil || !cfg.Enabled || len(cfg.Brokers) == 0 {
		return NoopPublisher{}
	}
	return NewKafkaPublisher(cfg.Brokers, cfg.BatchTimeoutMS, cfg.WriteTimeoutSecs)
}

// KafkaPublisher 基于 kafka-go 的发布器，单个 writer 按消息指定 topic
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher 创建 Kafka 发布器
func NewKafkaPublisher(brokers []string, batchTimeoutMS, writeTimeoutSecs int) *KafkaPublisher {
	batchTimeout := 100 * time.Millisecond
	if batchTimeoutMS > 0 {
		batchTimeout = time.Duration(batchTimeoutMS) * time.Millisecond
	}
	writeTimeout := 10 * time.Second
	if writeTimeoutSecs > 0 {
		writeTimeout = time.Duration(writeTimeoutSecs) * time.Second
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           batchTimeout,
			WriteTimeout:           writeTimeout,
			RequiredAcks:           kafka.RequireOne,
		},
	}
}

// Publish 发布事件，key 决定分区以保证同一订单事件有序
func (p *KafkaPublisher) Publish(ctx context.Context, topic, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Topic: strings.TrimSpace(topic),
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}
	err = p.writer.WriteMessages(ctx, msg)
	metrics.ObserveEventPublish(msg.Topic, err)
	return err
}

// Close 关闭 writer 并刷新未发送消息
func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// NoopPublisher 未配置事件总线时使用
type NoopPublisher struct{}

// Publish 仅记录 debug 日志
func (NoopPublisher) Publish(_ context.Context, topic, key string, _ any) error {
	logger.Debugw("event_publish_skipped", "topic", topic, "key", key)
	return nil
}

// Close 无操作
func (NoopPublisher) Close() error { return nil }

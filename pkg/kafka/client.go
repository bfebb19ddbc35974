// Package kafka 提供了与 Kafka 消息队列交互的功能。
package kafka

import (
	"context"
	"encoding/json"

	"support-flow-go/internal/config"
	"support-flow-go/pkg/events"
	"support-flow-go/pkg/log"

	"github.com/segmentio/kafka-go"
)

var producer *kafka.Writer

// InitProducer 初始化 Kafka 生产者。
func InitProducer(cfg config.KafkaConfig) {
	producer = &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Info("Kafka 生产者初始化成功")
}

// ProduceResolutionEvent 发送一个会话决议事件到 Kafka。
// 事件发送失败只影响下游报表，不影响对话流程，由调用方决定是否忽略。
func ProduceResolutionEvent(ctx context.Context, event events.ResolutionEvent) error {
	if producer == nil {
		// 未初始化（例如测试环境）时静默跳过
		return nil
	}
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return producer.WriteMessages(ctx,
		kafka.Message{
			Key:   []byte(event.SessionID),
			Value: eventBytes,
		},
	)
}

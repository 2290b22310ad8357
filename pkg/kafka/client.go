// Package kafka 提供了与 Kafka 消息队列交互的功能。
//
// 埋点事件写入存储后会异步发布到 Kafka，供下游分析使用；发布失败只记录日志。
package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"neuvera-go/internal/config"
	"neuvera-go/internal/model"
	"neuvera-go/pkg/log"
)

// Publisher 发布已存储的埋点事件。
type Publisher interface {
	PublishTrackingEvent(ctx context.Context, event *model.TrackingEvent) error
	Close() error
}

// messageWriter 是 *kafka.Writer 中用到的部分，便于测试替换。
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type producer struct {
	writer messageWriter
}

// NewPublisher 根据配置创建生产者。未配置 broker 时返回一个什么也不做的 Publisher。
func NewPublisher(cfg config.KafkaConfig) Publisher {
	brokers := cfg.BrokerList()
	if len(brokers) == 0 {
		log.Info("Kafka 未配置，埋点事件不会被发布")
		return nopPublisher{}
	}
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    cfg.Topic,
		Balancer: &kafka.Hash{},
		// 异步写入，请求路径不等待 broker 确认
		Async: true,
		Completion: func(msgs []kafka.Message, err error) {
			if err != nil {
				log.Errorw("发布埋点事件到 Kafka 失败", "count", len(msgs), "error", err)
			}
		},
	}
	log.Infof("Kafka 生产者初始化成功, topic=%s", cfg.Topic)
	return &producer{writer: w}
}

// PublishTrackingEvent 以事件 ID 作为 key 发送 JSON 编码的事件。
func (p *producer) PublishTrackingEvent(ctx context.Context, event *model.TrackingEvent) error {
	msg, err := buildMessage(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *producer) Close() error {
	return p.writer.Close()
}

func buildMessage(event *model.TrackingEvent) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(event.ID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}, nil
}

type nopPublisher struct{}

func (nopPublisher) PublishTrackingEvent(context.Context, *model.TrackingEvent) error { return nil }
func (nopPublisher) Close() error                                                     { return nil }

package kafka

import (
	"context"
	"time"

	"inviteflow/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
)

// Kafka 生产者服务
// 定义接口，方便测试和替换
type ProducerService interface {
	Produce(ctx context.Context, topic string, key []byte, msg interface{}) error
	Close() error
}

type kafkaProducer struct {
	writer *kafka.Writer
}

// NewKafkaProducer brokerURL为空时返回不发送任何消息的实现
func NewKafkaProducer(brokerURL string) ProducerService {
	if brokerURL == "" {
		return NopProducer{}
	}
	// topic 由每条消息指定
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokerURL),
		Balancer:               &kafka.Hash{}, // 相同key进入同一个Partition
		RequiredAcks:           kafka.RequireOne,
		MaxAttempts:            3,
		WriteTimeout:           5 * time.Second,
		BatchTimeout:           10 * time.Millisecond, // 同步写入，不等待攒批
		AllowAutoTopicCreation: true,
	}
	return &kafkaProducer{writer: writer}
}

// Produce 通用方法：JSON序列化消息并写入 Kafka
func (p *kafkaProducer) Produce(ctx context.Context, topic string, key []byte, msg interface{}) error {
	value, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   key,
		Value: value,
	})
}

func (p *kafkaProducer) Close() error {
	if err := p.writer.Close(); err != nil {
		logger.Errorf("Error closing kafka writer: %v", err)
		return err
	}
	return nil
}

// NopProducer 未配置broker时使用，丢弃所有消息
type NopProducer struct{}

func (NopProducer) Produce(context.Context, string, []byte, interface{}) error {
	return nil
}

func (NopProducer) Close() error {
	return nil
}

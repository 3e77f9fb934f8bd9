package kafka

import (
	"context"
	"time"

	"inviteflow/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// ConsumerService 定义了消费 Kafka 消息的通用接口
type ConsumerService interface {
	// Consume 启动一个协程消费指定主题，将消息发送到返回的通道
	Consume(ctx context.Context, topic string, groupID string) (<-chan kafka.Message, error)
}

type kafkaConsumer struct {
	brokerURL string
}

func NewKafkaConsumer(brokerURL string) ConsumerService {
	return &kafkaConsumer{
		brokerURL: brokerURL,
	}
}

func (c *kafkaConsumer) Consume(ctx context.Context, topic string, groupID string) (<-chan kafka.Message, error) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{c.brokerURL},
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second, // 自动提交
		MaxAttempts:    3,
	})
	outputCh := make(chan kafka.Message, 100)

	go func() {
		defer close(outputCh)
		defer r.Close()
		for {
			m, err := r.FetchMessage(ctx)
			if err != nil {
				// Context 被取消时正常退出
				if ctx.Err() != nil {
					logger.Infof("Kafka Consumer for topic %s finished.", topic)
					return
				}
				logger.Errorf("Kafka read error on topic %s: %v", topic, err)
				time.Sleep(time.Second)
				continue
			}
			select {
			case outputCh <- m:
			case <-ctx.Done():
				return
			}
		}
	}()

	return outputCh, nil
}

package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/grocery-inventory-api/internal/application/ports"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/entity"
)

var _ ports.AlertSink = (*KafkaNotifier)(nil)

// KafkaNotifier escribe cada aviso en un tópico, con el ID del producto como clave.
type KafkaNotifier struct {
	writer *kafka.Writer
}

// NewKafkaNotifier construye el writer para brokers y topic.
func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return &KafkaNotifier{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	}}
}

func (n *KafkaNotifier) Send(ctx context.Context, alert entity.LowStockAlert) error {
	msg, err := alertMessage(alert)
	if err != nil {
		return err
	}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write %s: %w", n.writer.Topic, err)
	}
	return nil
}

func (n *KafkaNotifier) Close() error { return n.writer.Close() }

func alertMessage(alert entity.LowStockAlert) (kafka.Message, error) {
	payload, err := json.Marshal(alert)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal alert: %w", err)
	}
	return kafka.Message{
		Key:   []byte(alert.ProductID),
		Value: payload,
		Time:  alert.At,
	}, nil
}

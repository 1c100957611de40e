package alerts

import (
	"context"

	"github.com/jhoicas/grocery-inventory-api/internal/application/ports"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/entity"
	"github.com/jhoicas/grocery-inventory-api/pkg/logger"
)

var _ ports.AlertSink = (*LogNotifier)(nil)

// LogNotifier escribe el aviso en el log con nivel warn. Es el sink por defecto.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Send(_ context.Context, alert entity.LowStockAlert) error {
	n.log.Warn().
		Str("product_id", alert.ProductID).
		Str("sku", alert.SKU).
		Str("name", alert.Name).
		Int("quantity", alert.Quantity).
		Int("threshold", alert.Threshold).
		Time("at", alert.At).
		Msg("aviso de stock bajo")
	return nil
}

func (n *LogNotifier) Close() error { return nil }

package ports

import (
	"context"

	"github.com/jhoicas/grocery-inventory-api/internal/domain/entity"
)

// LowStockNotifier recibe avisos de stock bajo después de confirmar una salida.
// Notify no debe bloquear ni fallar: el resultado de la operación no depende del aviso.
type LowStockNotifier interface {
	Notify(alert entity.LowStockAlert)
}

// AlertSink entrega un aviso a un destino concreto (log, Redis, Kafka).
type AlertSink interface {
	Send(ctx context.Context, alert entity.LowStockAlert) error
	Close() error
}

// Package alerts entrega avisos de stock bajo fuera del camino de la petición.
package alerts

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jhoicas/grocery-inventory-api/internal/application/ports"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/entity"
	"github.com/jhoicas/grocery-inventory-api/pkg/logger"
)

var _ ports.LowStockNotifier = (*Dispatcher)(nil)

const (
	// DefaultBuffer capacidad de la cola cuando no se configura otra.
	DefaultBuffer = 256
	sendTimeout   = 5 * time.Second
)

// Dispatcher encola avisos y los entrega al sink desde un único worker.
// Notify nunca bloquea: con la cola llena el aviso se descarta y se registra.
type Dispatcher struct {
	sink    ports.AlertSink
	queue   chan entity.LowStockAlert
	log     *logger.Logger
	mu      sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
	dropped atomic.Int64
}

// NewDispatcher construye el despachador y arranca su worker.
func NewDispatcher(sink ports.AlertSink, buffer int, log *logger.Logger) *Dispatcher {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	d := &Dispatcher{
		sink:  sink,
		queue: make(chan entity.LowStockAlert, buffer),
		log:   log.Component("alerts"),
	}
	d.wg.Add(1)
	go d.run()
	return d
}

// Notify encola el aviso sin esperar.
func (d *Dispatcher) Notify(alert entity.LowStockAlert) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(alert, "despachador cerrado")
		return
	}
	select {
	case d.queue <- alert:
	default:
		d.drop(alert, "cola de avisos llena")
	}
}

// Dropped cantidad de avisos descartados desde el arranque.
func (d *Dispatcher) Dropped() int64 { return d.dropped.Load() }

// Close deja de aceptar avisos, entrega los que quedan en cola y cierra el sink.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	return d.sink.Close()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for alert := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		if err := d.sink.Send(ctx, alert); err != nil {
			d.log.Error().Err(err).Str("product_id", alert.ProductID).Msg("no se pudo entregar el aviso de stock bajo")
		}
		cancel()
	}
}

func (d *Dispatcher) drop(alert entity.LowStockAlert, reason string) {
	d.dropped.Add(1)
	d.log.Warn().
		Str("product_id", alert.ProductID).
		Int("quantity", alert.Quantity).
		Str("reason", reason).
		Msg("aviso de stock bajo descartado")
}

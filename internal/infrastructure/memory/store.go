// Package memory implementa los puertos de persistencia en memoria de proceso.
// Reproduce las garantías del adaptador PostgreSQL: bloqueo por producto durante una
// transacción y escrituras que solo se aplican al confirmar.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/grocery-inventory-api/internal/domain/entity"
)

type productRecord struct {
	product  entity.Product
	quantity int
}

func (r productRecord) toEntity() *entity.Product {
	p := r.product
	p.ExpiryDate = cloneTime(p.ExpiryDate)
	p.ArchivedAt = cloneTime(p.ArchivedAt)
	return entity.RestoreProduct(p, r.quantity)
}

func recordOf(p *entity.Product) productRecord {
	cp := *p
	cp.ExpiryDate = cloneTime(p.ExpiryDate)
	cp.ArchivedAt = cloneTime(p.ArchivedAt)
	return productRecord{product: cp, quantity: p.Quantity()}
}

// Store datos compartidos por todos los repositorios en memoria.
type Store struct {
	mu         sync.RWMutex
	products   map[string]*productRecord
	ledger     []entity.StockTransaction
	users      map[string]entity.User
	categories map[string]entity.Category
	suppliers  map[string]entity.Supplier

	lockMu   sync.Mutex
	rowLocks map[string]chan struct{}

	faultMu     sync.Mutex
	ledgerFault error
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{
		products:   make(map[string]*productRecord),
		users:      make(map[string]entity.User),
		categories: make(map[string]entity.Category),
		suppliers:  make(map[string]entity.Supplier),
		rowLocks:   make(map[string]chan struct{}),
	}
}

// FailLedgerWrites hace que toda escritura en el libro falle con err. nil restablece.
func (s *Store) FailLedgerWrites(err error) {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	s.ledgerFault = err
}

func (s *Store) ledgerWriteFault() error {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	return s.ledgerFault
}

// Ping siempre responde; existe para el health check.
func (s *Store) Ping(context.Context) error { return nil }

// lockRow toma el candado del producto o espera a que se libere (respeta ctx).
func (s *Store) lockRow(ctx context.Context, productID string) (chan struct{}, error) {
	s.lockMu.Lock()
	l, ok := s.rowLocks[productID]
	if !ok {
		l = make(chan struct{}, 1)
		s.rowLocks[productID] = l
	}
	s.lockMu.Unlock()

	select {
	case l <- struct{}{}:
		return l, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

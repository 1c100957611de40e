package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jhoicas/grocery-inventory-api/internal/application/ports"
	"github.com/jhoicas/grocery-inventory-api/internal/domain"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/entity"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/repository"
	"github.com/jhoicas/grocery-inventory-api/pkg/logger"
)


const maxNoteLength = 500

// StockInCommand entrada para registrar una entrada de stock.
type StockInCommand struct {
	ProductID string
	Quantity  int
	ActorID   string
	Note      string
}

// StockOutCommand entrada para registrar una salida de stock.
type StockOutCommand struct {
	ProductID string
	Quantity  int
	ActorID   string
	Note      string
}

// MovementResult resultado de un movimiento confirmado.
type MovementResult struct {
	Transaction     *entity.StockTransaction
	NewQuantity     int
	LowStockWarning bool // solo en salidas: NewQuantity <= umbral
}

// StockMovementUseCase registra entradas y salidas de stock. Cada movimiento cambia la
// cantidad del producto y agrega su entrada al libro en la misma transacción, con la fila
// del producto bloqueada (SELECT FOR UPDATE).
type StockMovementUseCase struct {
	txRunner  TxRunner
	userRepo  repository.UserRepository
	notifier  ports.LowStockNotifier
	threshold int
	log       *logger.Logger
	now       func() time.Time
}

// NewStockMovementUseCase construye el caso de uso. notifier puede ser nil.
// threshold llega validado desde config (>= 0).
func NewStockMovementUseCase(
	txRunner TxRunner,
	userRepo repository.UserRepository,
	notifier ports.LowStockNotifier,
	threshold int,
	log *logger.Logger,
) *StockMovementUseCase {
	return &StockMovementUseCase{
		txRunner:  txRunner,
		userRepo:  userRepo,
		notifier:  notifier,
		threshold: threshold,
		log:       log,
		now:       time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *StockMovementUseCase) WithClock(now func() time.Time) *StockMovementUseCase {
	uc.now = now
	return uc
}

// LowStockThreshold devuelve el umbral configurado.
func (uc *StockMovementUseCase) LowStockThreshold() int { return uc.threshold }

// RecordStockIn suma cmd.Quantity a la existencia y registra la entrada IN.
func (uc *StockMovementUseCase) RecordStockIn(ctx context.Context, cmd StockInCommand) (*MovementResult, error) {
	if cmd.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	var res *MovementResult
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		txRepo repository.StockTransactionRepository,
		_ repository.ProductRepository,
	) error {
		var err error
		res, err = uc.RecordStockInTx(ctx, stockRepo, txRepo, cmd)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.logMovement(res)
	return res, nil
}

// RecordStockInTx registra una entrada usando repositorios de una transacción ya abierta por el caller.
// Lo usa el alta de productos para dejar el stock inicial en el libro dentro de la misma tx.
func (uc *StockMovementUseCase) RecordStockInTx(
	ctx context.Context,
	stockRepo repository.StockRepository,
	txRepo repository.StockTransactionRepository,
	cmd StockInCommand,
) (*MovementResult, error) {
	res, _, err := uc.apply(ctx, stockRepo, txRepo, entity.TransactionTypeIn, cmd.ProductID, cmd.Quantity, cmd.ActorID, cmd.Note)
	return res, err
}

// RecordStockOut resta cmd.Quantity de la existencia y registra la salida OUT.
// Si la existencia no alcanza devuelve *domain.InsufficientStockError sin modificar nada.
// Tras confirmar, si la nueva cantidad queda en o bajo el umbral se emite un aviso de stock bajo.
func (uc *StockMovementUseCase) RecordStockOut(ctx context.Context, cmd StockOutCommand) (*MovementResult, error) {
	if cmd.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	var (
		res     *MovementResult
		product *entity.Product
	)
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		txRepo repository.StockTransactionRepository,
		_ repository.ProductRepository,
	) error {
		var err error
		res, product, err = uc.apply(ctx, stockRepo, txRepo, entity.TransactionTypeOut, cmd.ProductID, cmd.Quantity, cmd.ActorID, cmd.Note)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.logMovement(res)

	if res.LowStockWarning {
		uc.log.Warn().
			Str("product_id", product.ID).
			Str("sku", product.SKU).
			Int("quantity", res.NewQuantity).
			Int("threshold", uc.threshold).
			Msg("stock bajo")
		if uc.notifier != nil {
			uc.notifier.Notify(entity.LowStockAlert{
				ProductID: product.ID,
				Name:      product.Name,
				SKU:       product.SKU,
				Quantity:  res.NewQuantity,
				Threshold: uc.threshold,
				At:        res.Transaction.Date,
			})
		}
	}
	return res, nil
}

// apply valida, bloquea el producto, aplica el movimiento y persiste cantidad y entrada.
func (uc *StockMovementUseCase) apply(
	ctx context.Context,
	stockRepo repository.StockRepository,
	txRepo repository.StockTransactionRepository,
	kind entity.TransactionType,
	productID string,
	qty int,
	actorID, note string,
) (*MovementResult, *entity.Product, error) {
	if qty <= 0 {
		return nil, nil, domain.ErrInvalidQuantity
	}
	note = strings.TrimSpace(note)
	if utf8.RuneCountInString(note) > maxNoteLength {
		return nil, nil, fmt.Errorf("%w: la nota supera %d caracteres", domain.ErrInvalidInput, maxNoteLength)
	}
	if err := uc.ensureActor(ctx, actorID); err != nil {
		return nil, nil, err
	}

	product, err := stockRepo.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, domain.ErrItemNotFound
	}

	var entry *entity.StockTransaction
	switch kind {
	case entity.TransactionTypeIn:
		entry, err = product.StockIn(qty, actorID, note, uc.now())
	case entity.TransactionTypeOut:
		entry, err = product.StockOut(qty, actorID, note, uc.now())
	default:
		err = domain.ErrInvalidInput
	}
	if err != nil {
		return nil, nil, err
	}

	if err := stockRepo.SaveQuantity(ctx, product); err != nil {
		return nil, nil, err
	}
	if err := txRepo.Create(ctx, entry); err != nil {
		return nil, nil, err
	}

	return &MovementResult{
		Transaction:     entry,
		NewQuantity:     product.Quantity(),
		LowStockWarning: kind == entity.TransactionTypeOut && product.IsLowStock(uc.threshold),
	}, product, nil
}

func (uc *StockMovementUseCase) logMovement(res *MovementResult) {
	tx := res.Transaction
	before := res.NewQuantity - tx.Quantity
	if tx.Type == entity.TransactionTypeOut {
		before = res.NewQuantity + tx.Quantity
	}
	uc.log.Info().
		Str("product_id", tx.ProductID).
		Str("type", string(tx.Type)).
		Int("qty", tx.Quantity).
		Int("before", before).
		Int("after", res.NewQuantity).
		Str("user_id", tx.UserID).
		Msg("movimiento de stock registrado")
}

func (uc *StockMovementUseCase) ensureActor(ctx context.Context, actorID string) error {
	if strings.TrimSpace(actorID) == "" {
		return domain.ErrActorNotFound
	}
	user, err := uc.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrActorNotFound
	}
	return nil
}

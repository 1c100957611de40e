package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/grocery-inventory-api/internal/application/dto"
	"github.com/jhoicas/grocery-inventory-api/internal/application/inventory"
	"github.com/jhoicas/grocery-inventory-api/internal/domain"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/entity"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/repository"
	"github.com/jhoicas/grocery-inventory-api/pkg/logger"
)

// TransactionHandler entradas y salidas de stock y consultas del libro (protegido).
type TransactionHandler struct {
	stock  *inventory.StockMovementUseCase
	report *inventory.MovementReportUseCase
	log    *logger.Logger
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(stock *inventory.StockMovementUseCase, report *inventory.MovementReportUseCase, log *logger.Logger) *TransactionHandler {
	return &TransactionHandler{stock: stock, report: report, log: log}
}

// StockIn godoc
// @Summary      Registrar entrada de stock
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockMovementRequest  true  "product_id, quantity > 0, notes"
// @Success      201   {object}  dto.StockMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transactions/stock-in [post]
func (h *TransactionHandler) StockIn(c *fiber.Ctx) error {
	var in dto.StockMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res, err := h.stock.RecordStockIn(c.UserContext(), inventory.StockInCommand{
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		ActorID:   GetUserID(c),
		Note:      in.Notes,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(res))
}

// StockOut godoc
// @Summary      Registrar salida de stock
// @Description  Con existencia insuficiente responde 409 con details.requested y details.available.
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockMovementRequest  true  "product_id, quantity > 0, notes"
// @Success      201   {object}  dto.StockMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transactions/stock-out [post]
func (h *TransactionHandler) StockOut(c *fiber.Ctx) error {
	var in dto.StockMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res, err := h.stock.RecordStockOut(c.UserContext(), inventory.StockOutCommand{
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		ActorID:   GetUserID(c),
		Note:      in.Notes,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(res))
}

// List godoc
// @Summary      Consultar el libro de movimientos
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        type        query  string  false  "IN | OUT"
// @Param        product_id  query  string  false  "Producto"
// @Param        user_id     query  string  false  "Usuario"
// @Param        from        query  string  false  "Desde (YYYY-MM-DD o RFC3339)"
// @Param        to          query  string  false  "Hasta (YYYY-MM-DD o RFC3339, inclusive)"
// @Param        limit       query  int     false  "Límite"  default(10)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.TransactionListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	var q dto.TransactionListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	from, to, err := parseRange(q.From, q.To)
	if err != nil {
		return respondError(c, h.log, err)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	offset := max(q.Offset, 0)
	list, total, err := h.report.ListTransactions(c.UserContext(), repository.TransactionFilter{
		Type:      entity.TransactionType(strings.ToUpper(q.Type)),
		ProductID: q.ProductID,
		UserID:    q.UserID,
		From:      from,
		To:        to,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	items := make([]dto.TransactionResponse, 0, len(list))
	for _, tx := range list {
		items = append(items, toTransactionResponse(tx))
	}
	return c.JSON(dto.TransactionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	})
}

// GetByID godoc
// @Summary      Obtener un movimiento
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [get]
func (h *TransactionHandler) GetByID(c *fiber.Ctx) error {
	tx, err := h.report.GetTransaction(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(toTransactionResponse(tx))
}

// Stats godoc
// @Summary      Totales de entradas y salidas
// @Description  Por defecto los últimos 30 días. Una fecha sin hora en "to" cubre el día completo.
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde (YYYY-MM-DD o RFC3339)"
// @Param        to    query  string  false  "Hasta (YYYY-MM-DD o RFC3339)"
// @Success      200  {object}  dto.MovementStatsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transactions/stats [get]
func (h *TransactionHandler) Stats(c *fiber.Ctx) error {
	from, to, err := parseRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	stats, err := h.report.AggregateMovements(c.UserContext(), from, to)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.MovementStatsResponse{
		From:       stats.From,
		To:         stats.To,
		TotalCount: stats.TotalCount,
		StockIn:    dto.MovementTotalsResponse{Count: stats.In.Count, Quantity: stats.In.Quantity},
		StockOut:   dto.MovementTotalsResponse{Count: stats.Out.Count, Quantity: stats.Out.Quantity},
	})
}

func parseRange(rawFrom, rawTo string) (*time.Time, *time.Time, error) {
	from, err := parseDateParam(rawFrom, false)
	if err != nil {
		return nil, nil, err
	}
	to, err := parseDateParam(rawTo, true)
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

// parseDateParam acepta RFC3339 o YYYY-MM-DD. Una fecha sola es el inicio del día, o su último
// instante cuando endOfDay es true.
func parseDateParam(raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha inválida %q (use YYYY-MM-DD o RFC3339)", domain.ErrInvalidInput, raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func toMovementResponse(res *inventory.MovementResult) dto.StockMovementResponse {
	return dto.StockMovementResponse{
		Transaction:     toTransactionResponse(res.Transaction),
		NewQuantity:     res.NewQuantity,
		LowStockWarning: res.LowStockWarning,
	}
}

func toTransactionResponse(tx *entity.StockTransaction) dto.TransactionResponse {
	out := dto.TransactionResponse{
		ID:        tx.ID,
		ProductID: tx.ProductID,
		UserID:    tx.UserID,
		Type:      string(tx.Type),
		Quantity:  tx.Quantity,
		Date:      tx.Date,
	}
	if tx.Notes != "" {
		notes := tx.Notes
		out.Notes = &notes
	}
	return out
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/grocery-inventory-api/internal/application/usecase"
	"github.com/jhoicas/grocery-inventory-api/pkg/logger"
)

// BarcodeHandler búsqueda por código de barras, imágenes y etiquetas (protegido).
type BarcodeHandler struct {
	uc  *usecase.BarcodeUseCase
	log *logger.Logger
}

func NewBarcodeHandler(uc *usecase.BarcodeUseCase, log *logger.Logger) *BarcodeHandler {
	return &BarcodeHandler{uc: uc, log: log}
}

// Search godoc
// @Summary      Buscar producto por código de barras
// @Tags         barcode
// @Security     Bearer
// @Produce      json
// @Param        barcode  path  string  true  "EAN de 12 o 13 dígitos"
// @Success      200  {object}  dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/barcode/search/{barcode} [get]
func (h *BarcodeHandler) Search(c *fiber.Ctx) error {
	out, err := h.uc.Search(c.UserContext(), c.Params("barcode"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Image godoc
// @Summary      URL de la imagen del código de barras
// @Tags         barcode
// @Security     Bearer
// @Produce      json
// @Param        product_id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.BarcodeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/barcode/image/{product_id} [get]
func (h *BarcodeHandler) Image(c *fiber.Ctx) error {
	out, err := h.uc.Image(c.UserContext(), c.Params("product_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Generate godoc
// @Summary      Generar o regenerar el código de barras
// @Tags         barcode
// @Security     Bearer
// @Produce      json
// @Param        product_id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.BarcodeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/barcode/generate/{product_id} [post]
func (h *BarcodeHandler) Generate(c *fiber.Ctx) error {
	out, err := h.uc.Generate(c.UserContext(), c.Params("product_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Label godoc
// @Summary      Descargar etiqueta PDF
// @Tags         barcode
// @Security     Bearer
// @Produce      application/pdf
// @Param        product_id  path  string  true  "ID del producto"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/barcode/label/{product_id} [get]
func (h *BarcodeHandler) Label(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.Label(c.UserContext(), c.Params("product_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}

package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/grocery-inventory-api/internal/application/auth"
	"github.com/jhoicas/grocery-inventory-api/internal/application/dto"
	"github.com/jhoicas/grocery-inventory-api/internal/application/inventory"
	"github.com/jhoicas/grocery-inventory-api/internal/application/usecase"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/entity"
	"github.com/jhoicas/grocery-inventory-api/internal/infrastructure/barcode"
	"github.com/jhoicas/grocery-inventory-api/internal/infrastructure/memory"
	"github.com/jhoicas/grocery-inventory-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/grocery-inventory-api/internal/interfaces/http"
	"github.com/jhoicas/grocery-inventory-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// API completa sobre el almacén en memoria
// ──────────────────────────────────────────────────────────────────────────────

type api struct {
	t     *testing.T
	app   *fiber.App
	admin string
	staff string
}

func newAPI(t *testing.T) *api {
	t.Helper()
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	txRunner := memory.NewTxRunner(store)
	categoryRepo := memory.NewCategoryRepository(store)
	supplierRepo := memory.NewSupplierRepository(store)
	productRepo := memory.NewProductRepository(store)

	fs := afero.NewMemMapFs()
	renderer := barcode.NewPNGRenderer()
	images := barcode.NewImageStore(fs, "http://test.local", renderer)

	authUC := auth.NewAuthUseCase(users, auth.JWTConfig{
		Secret: testJWTSecret, ExpMinutes: 15, RefreshExpMinutes: 60, Issuer: testIssuer,
	}).WithBcryptCost(bcrypt.MinCost)
	stockUC := inventory.NewStockMovementUseCase(txRunner, users, nil, 10, log)
	productUC := usecase.NewProductUseCase(productRepo, categoryRepo, supplierRepo, txRunner, stockUC,
		barcode.NewGenerator(images, log), images, usecase.DefaultExpiringDays, log)

	app := apphttp.NewApp(apphttp.RouterDeps{
		AuthUC:         authUC,
		ProductUC:      productUC,
		CategoryUC:     usecase.NewCategoryUseCase(categoryRepo, txRunner, log),
		SupplierUC:     usecase.NewSupplierUseCase(supplierRepo, txRunner, log),
		StockUC:        stockUC,
		ReportUC:       inventory.NewMovementReportUseCase(memory.NewStockTransactionRepository(store)),
		BarcodeUC:      usecase.NewBarcodeUseCase(productUC, barcode.NewGenerator(images, log), images, pdf.NewLabelGenerator(renderer), log),
		StaticFs:       fs,
		Health:         store,
		Log:            log,
		JWTSecret:      testJWTSecret,
		AppName:        "grocery-inventory-test",
		AllowedOrigins: "*",
	})

	a := &api{t: t, app: app}
	ctx := context.Background()
	for _, u := range []dto.RegisterRequest{
		{Username: "admin", Email: "admin@tienda.co", Password: "secreto1", Role: "admin"},
		{Username: "cajero", Email: "cajero@tienda.co", Password: "secreto1"},
	} {
		_, err := authUC.Register(ctx, u)
		require.NoError(t, err)
	}
	a.admin = a.login("admin").AccessToken
	a.staff = a.login("cajero").AccessToken
	return a
}

func (a *api) login(username string) dto.LoginResponse {
	var out dto.LoginResponse
	resp := a.call(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: username, Password: "secreto1"})
	require.Equal(a.t, http.StatusOK, resp.StatusCode)
	decode(a.t, resp, &out)
	return out
}

func (a *api) call(method, path, token string, body any) *http.Response {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// catalog crea categoría, proveedor y un producto con stock inicial.
func (a *api) catalog(initial int) dto.ProductResponse {
	a.t.Helper()
	var cat dto.CategoryResponse
	resp := a.call(http.MethodPost, "/api/categories", a.staff, dto.CategoryRequest{Name: "Granos"})
	require.Equal(a.t, http.StatusCreated, resp.StatusCode)
	decode(a.t, resp, &cat)

	var sup dto.SupplierResponse
	resp = a.call(http.MethodPost, "/api/suppliers", a.staff, dto.SupplierRequest{Name: "Diana", Contact: "6015551234"})
	require.Equal(a.t, http.StatusCreated, resp.StatusCode)
	decode(a.t, resp, &sup)

	var p dto.ProductResponse
	resp = a.call(http.MethodPost, "/api/products", a.staff, map[string]any{
		"name": "Arroz 500g", "sku": "arr-500", "price": "3200", "category_id": cat.ID,
		"supplier_id": sup.ID, "initial_quantity": initial,
	})
	require.Equal(a.t, http.StatusCreated, resp.StatusCode)
	decode(a.t, resp, &p)
	return p
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_CrearProductoConStockInicialYCodigo(t *testing.T) {
	a := newAPI(t)
	p := a.catalog(5)

	assert.Equal(t, "ARR-500", p.SKU)
	assert.Equal(t, 5, p.Quantity)
	assert.True(t, p.IsLowStock)
	require.NotNil(t, p.Barcode, "sin código informado se genera uno")
	assert.Len(t, *p.Barcode, 13)

	var list dto.TransactionListResponse
	resp := a.call(http.MethodGet, "/api/transactions?product_id="+p.ID, a.staff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &list)
	require.Equal(t, 1, list.Page.Total)
	assert.Equal(t, "IN", list.Items[0].Type)
	assert.Equal(t, 5, list.Items[0].Quantity)
}

func TestAPI_SalidaInsuficienteYSalidaValida(t *testing.T) {
	a := newAPI(t)
	p := a.catalog(5)

	var errBody dto.ErrorResponse
	resp := a.call(http.MethodPost, "/api/transactions/stock-out", a.staff, dto.StockMovementRequest{ProductID: p.ID, Quantity: 10})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	decode(t, resp, &errBody)
	assert.Equal(t, "INSUFFICIENT_STOCK", errBody.Code)
	assert.EqualValues(t, 10, errBody.Details["requested"])
	assert.EqualValues(t, 5, errBody.Details["available"])

	var out dto.StockMovementResponse
	resp = a.call(http.MethodPost, "/api/transactions/stock-out", a.staff, dto.StockMovementRequest{ProductID: p.ID, Quantity: 5, Notes: "venta"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decode(t, resp, &out)
	assert.Equal(t, 0, out.NewQuantity)
	assert.True(t, out.LowStockWarning)
	assert.Equal(t, "OUT", out.Transaction.Type)
	require.NotNil(t, out.Transaction.Notes)
	assert.Equal(t, "venta", *out.Transaction.Notes)

	var stats dto.MovementStatsResponse
	resp = a.call(http.MethodGet, "/api/transactions/stats", a.staff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &stats)
	assert.Equal(t, 2, stats.TotalCount)
	assert.Equal(t, dto.MovementTotalsResponse{Count: 1, Quantity: 5}, stats.StockIn)
	assert.Equal(t, dto.MovementTotalsResponse{Count: 1, Quantity: 5}, stats.StockOut)
}

func TestAPI_ErroresDeMovimiento(t *testing.T) {
	a := newAPI(t)
	p := a.catalog(0)

	cases := []struct {
		name   string
		path   string
		body   dto.StockMovementRequest
		status int
		code   string
	}{
		{"cantidad cero", "/api/transactions/stock-in", dto.StockMovementRequest{ProductID: p.ID}, http.StatusBadRequest, "INVALID_QUANTITY"},
		{"cantidad negativa", "/api/transactions/stock-out", dto.StockMovementRequest{ProductID: p.ID, Quantity: -2}, http.StatusBadRequest, "INVALID_QUANTITY"},
		{"supera la existencia máxima", "/api/transactions/stock-in", dto.StockMovementRequest{ProductID: p.ID, Quantity: entity.MaxQuantity + 1}, http.StatusBadRequest, "VALIDATION"},
		{"producto inexistente", "/api/transactions/stock-in", dto.StockMovementRequest{ProductID: "no-existe", Quantity: 1}, http.StatusNotFound, "ITEM_NOT_FOUND"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var body dto.ErrorResponse
			resp := a.call(http.MethodPost, tc.path, a.staff, tc.body)
			require.Equal(t, tc.status, resp.StatusCode)
			decode(t, resp, &body)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestAPI_ProductosDelProveedor(t *testing.T) {
	a := newAPI(t)
	p := a.catalog(3)

	var out dto.SupplierProductsResponse
	resp := a.call(http.MethodGet, "/api/suppliers/"+p.SupplierID+"/products", a.staff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &out)
	assert.Equal(t, "Diana", out.Supplier.Name)
	require.Len(t, out.Products.Items, 1)
	assert.Equal(t, p.ID, out.Products.Items[0].ID)
	assert.Equal(t, 3, out.Products.Items[0].Quantity)

	var body dto.ErrorResponse
	resp = a.call(http.MethodGet, "/api/suppliers/00000000-0000-0000-0000-0000000000ff/products", a.staff, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	decode(t, resp, &body)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

func TestAPI_ListadoDeMovimientos_FechaInvalida(t *testing.T) {
	a := newAPI(t)
	resp := a.call(http.MethodGet, "/api/transactions?from=ayer", a.staff, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = a.call(http.MethodGet, "/api/transactions?from=2026-05-04&to=2026-05-04", a.staff, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "una fecha sola cubre el día completo")
}

func TestAPI_BorrarSoloAdmin(t *testing.T) {
	a := newAPI(t)
	p := a.catalog(1)

	resp := a.call(http.MethodDelete, "/api/products/"+p.ID, a.staff, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = a.call(http.MethodDelete, "/api/products/"+p.ID, a.admin, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = a.call(http.MethodGet, "/api/products/"+p.ID, a.staff, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = a.call(http.MethodGet, "/api/auth/users", a.staff, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAPI_CodigoDeBarras_ImagenEstaticaYEtiqueta(t *testing.T) {
	a := newAPI(t)
	p := a.catalog(3)

	var found dto.ProductResponse
	resp := a.call(http.MethodGet, "/api/barcode/search/"+*p.Barcode, a.staff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &found)
	assert.Equal(t, p.ID, found.ID)

	resp = a.call(http.MethodGet, "/api/barcode/search/12ab", a.staff, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var img dto.BarcodeResponse
	resp = a.call(http.MethodGet, "/api/barcode/image/"+p.ID, a.staff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &img)
	expected := "/static/barcodes/barcode_" + *p.Barcode + ".png"
	assert.Equal(t, "http://test.local"+expected, img.ImageURL)

	// la imagen se sirve sin token
	resp = a.call(http.MethodGet, expected, "", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("\x89PNG")))

	resp = a.call(http.MethodGet, "/api/barcode/label/"+p.ID, a.staff, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "label_ARR-500.pdf")
}

func TestAPI_RefreshYPerfil(t *testing.T) {
	a := newAPI(t)
	tokens := a.login("cajero")

	var ref dto.RefreshResponse
	resp := a.call(http.MethodPost, "/api/auth/refresh", "", dto.RefreshRequest{RefreshToken: tokens.RefreshToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &ref)

	var me dto.UserResponse
	resp = a.call(http.MethodGet, "/api/auth/profile", ref.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &me)
	assert.Equal(t, "cajero", me.Username)
	assert.Equal(t, "staff", me.Role)

	resp = a.call(http.MethodGet, "/api/auth/profile", tokens.RefreshToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "el refresh token no da acceso")
}

func TestAPI_HealthYRutaInexistente(t *testing.T) {
	a := newAPI(t)

	var body map[string]string
	resp := a.call(http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &body)
	assert.Equal(t, "ok", body["status"])

	var errBody dto.ErrorResponse
	resp = a.call(http.MethodGet, "/no-existe", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	decode(t, resp, &errBody)
	assert.Equal(t, "ROUTE_NOT_FOUND", errBody.Code)
}

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
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bodegaje-api/internal/application/audit"
	"github.com/jhoicas/Bodegaje-api/internal/application/auth"
	"github.com/jhoicas/Bodegaje-api/internal/application/catalog"
	"github.com/jhoicas/Bodegaje-api/internal/application/inventory"
	"github.com/jhoicas/Bodegaje-api/internal/application/usecase"
	"github.com/jhoicas/Bodegaje-api/internal/infrastructure/export"
	"github.com/jhoicas/Bodegaje-api/internal/infrastructure/memory"
	"github.com/jhoicas/Bodegaje-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Bodegaje-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Bodegaje-api/pkg/jwt"
	"github.com/jhoicas/Bodegaje-api/pkg/logger"
)

// newServer monta la API completa sobre el store en memoria con un administrador inicial.
func newServer(t *testing.T) *fiber.App {
	t.Helper()
	s := memory.NewStore()
	log := logger.Nop()

	products := memory.NewProductRepository(s)
	locations := memory.NewLocationRepository(s)
	companies := memory.NewCompanyRepository(s)
	users := memory.NewUserRepository(s)
	movements := memory.NewMovementRepository(s)

	recorder := audit.NewRecorder(log, nil)
	publisher := audit.NewPublisher(log)
	listeners := catalog.NewListeners()
	listeners.Register(audit.NewCatalogNotifier(recorder, movements, publisher))

	deps := inventory.Deps{
		Tx:        memory.NewTxRunner(s),
		Refs:      inventory.References{Products: products, Locations: locations, Companies: companies},
		Recorder:  recorder,
		Publisher: publisher,
		Log:       log,
	}
	authUC := auth.NewAuthUseCase(users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})
	_, _, err := authUC.EnsureAdmin(context.Background(), auth.AdminInput{
		Email: "admin@bodegaje.co", DocumentID: "1020304050", Password: "S3guro!!", Name: "Administrador",
	})
	require.NoError(t, err)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      authUC,
		CompanyUC:   usecase.NewCompanyUseCase(companies),
		ProductUC:   catalog.NewProductUseCase(products, listeners, log),
		LocationUC:  catalog.NewLocationUseCase(locations, listeners, log),
		StockUC:     inventory.NewStockUseCase(deps, memory.NewStockRowRepository(s), export.NewExcelExporter()),
		Adjustments: inventory.NewAdjustmentUseCase(deps),
		HistoryUC:   inventory.NewHistoryUseCase(movements, pdf.NewMovementReportGenerator("Bodegaje")),
		JWTSecret:   testJWTSecret,
	})
	return app
}

func bearer(t *testing.T, role, companyID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, uuid.NewString(), companyID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// call lanza la petición y decodifica el cuerpo JSON si lo hay.
func call(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

type seeded struct {
	admin      string
	productID  string
	locationID string
	companyID  string
}

// seed crea producto, ubicación y empresa por la API.
func seed(t *testing.T, app *fiber.App) seeded {
	t.Helper()
	s := seeded{admin: bearer(t, "admin", "")}

	resp, body := call(t, app, http.MethodPost, "/api/products", s.admin, map[string]any{"sku": "TOR-001", "name": "Tornillo"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "alta de producto: %v", body)
	s.productID = body["id"].(string)

	resp, body = call(t, app, http.MethodPost, "/api/locations", s.admin, map[string]any{"name": "Bodega A"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "alta de ubicación: %v", body)
	s.locationID = body["id"].(string)

	resp, body = call(t, app, http.MethodPost, "/api/companies", s.admin, map[string]any{"name": "Acme", "nit": "900123456"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "alta de empresa: %v", body)
	s.companyID = body["id"].(string)
	return s
}

func (s seeded) adjustment(cantidad int) map[string]any {
	return map[string]any{
		"product_id":  s.productID,
		"location_id": s.locationID,
		"company_id":  s.companyID,
		"cantidad":    cantidad,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_PorEmailOCedula(t *testing.T) {
	app := newServer(t)

	for _, login := range []string{"admin@bodegaje.co", "1020304050"} {
		resp, body := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]any{"login": login, "password": "S3guro!!"})
		require.Equal(t, http.StatusOK, resp.StatusCode, "login con %s", login)
		assert.NotEmpty(t, body["token"])
	}

	resp, body := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]any{"login": "admin@bodegaje.co", "password": "otra"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", body["code"])
}

func TestRutasProtegidas_SinToken(t *testing.T) {
	app := newServer(t)
	resp, _ := call(t, app, http.MethodGet, "/api/inventory", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Inventario
// ──────────────────────────────────────────────────────────────────────────────

func TestInventario_EntradaYSalida(t *testing.T) {
	app := newServer(t)
	s := seed(t, app)

	resp, body := call(t, app, http.MethodPost, "/api/inventory/entrada", s.admin, s.adjustment(5))
	require.Equal(t, http.StatusOK, resp.StatusCode, "%v", body)
	row := body["inventario"].(map[string]any)
	assert.Equal(t, float64(5), row["cantidad"])
	assert.Equal(t, "Acme", row["company_name"])
	assert.Equal(t, "POSITIVE_ADJUSTMENT", body["movimiento"].(map[string]any)["tipo_movimiento"])

	resp, body = call(t, app, http.MethodPost, "/api/inventory/salida", s.admin, s.adjustment(8))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	assert.Equal(t, "stock insuficiente: disponible 5, solicitado 8", body["message"])

	resp, body = call(t, app, http.MethodPost, "/api/inventory/salida", s.admin, s.adjustment(5))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["eliminado"])
}

func TestInventario_ReferenciaInexistenteEs404ConCampos(t *testing.T) {
	app := newServer(t)
	s := seed(t, app)
	in := s.adjustment(1)
	in["product_id"] = uuid.NewString()

	resp, body := call(t, app, http.MethodPost, "/api/inventory/entrada", s.admin, in)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])
	fields := body["fields"].([]any)
	require.Len(t, fields, 1)
	assert.Equal(t, "product_id", fields[0].(map[string]any)["field"])
}

func TestInventario_ValidacionYCuerpoInvalido(t *testing.T) {
	app := newServer(t)
	s := seed(t, app)

	resp, body := call(t, app, http.MethodPost, "/api/inventory/entrada", s.admin, s.adjustment(-3))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["code"])

	req := httptest.NewRequest(http.MethodPost, "/api/inventory/entrada", bytes.NewBufferString("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", s.admin)
	raw, err := app.Test(req, -1)
	require.NoError(t, err)
	defer raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
}

func TestInventario_AltaDuplicadaEs409(t *testing.T) {
	app := newServer(t)
	s := seed(t, app)
	in := map[string]any{"product_id": s.productID, "location_id": s.locationID, "company_id": s.companyID, "cantidad": 3}

	resp, body := call(t, app, http.MethodPost, "/api/inventory", s.admin, in)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "%v", body)
	id := body["inventario"].(map[string]any)["id"].(string)

	resp, body = call(t, app, http.MethodPost, "/api/inventory", s.admin, in)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE_STOCK_ROW", body["code"])
	assert.Contains(t, body["message"], "Use editar")

	resp, body = call(t, app, http.MethodPut, "/api/inventory/"+id, s.admin, map[string]any{"cantidad": 10})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(7), body["movimiento"].(map[string]any)["cantidad_cambio"])

	resp, body = call(t, app, http.MethodPut, "/api/inventory/"+id, s.admin, map[string]any{"company_id": nil})
	require.Equal(t, http.StatusOK, resp.StatusCode, "%v", body)
	assert.Nil(t, body["inventario"].(map[string]any)["company_id"], "company_id null pasa el registro a global")

	resp, _ = call(t, app, http.MethodDelete, "/api/inventory/"+id, s.admin, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = call(t, app, http.MethodGet, "/api/inventory/"+id, s.admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInventario_ClienteSoloVeSuEmpresaYNoAjusta(t *testing.T) {
	app := newServer(t)
	s := seed(t, app)
	resp, _ := call(t, app, http.MethodPost, "/api/inventory/entrada", s.admin, s.adjustment(4))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = call(t, app, http.MethodPost, "/api/inventory", s.admin,
		map[string]any{"product_id": s.productID, "location_id": s.locationID, "cantidad": 9})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := call(t, app, http.MethodGet, "/api/inventory", s.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["page"].(map[string]any)["total"])

	cliente := bearer(t, "cliente", s.companyID)
	resp, body = call(t, app, http.MethodGet, "/api/inventory?empresa="+uuid.NewString(), cliente, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := body["items"].([]any)
	require.Len(t, items, 1, "el registro global y el filtro ajeno no cuentan para el cliente")
	assert.Equal(t, float64(4), items[0].(map[string]any)["cantidad"])

	resp, body = call(t, app, http.MethodPost, "/api/inventory/entrada", cliente, s.adjustment(1))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", body["code"])

	resp, _ = call(t, app, http.MethodGet, "/api/inventory/history", cliente, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestInventario_ExportYReportePDF(t *testing.T) {
	app := newServer(t)
	s := seed(t, app)
	resp, _ := call(t, app, http.MethodPost, "/api/inventory/entrada", s.admin, s.adjustment(4))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/api/inventory/export", nil)
	req.Header.Set("Authorization", s.admin)
	xlsx, err := app.Test(req, -1)
	require.NoError(t, err)
	defer xlsx.Body.Close()
	assert.Equal(t, http.StatusOK, xlsx.StatusCode)
	assert.Contains(t, xlsx.Header.Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, xlsx.Header.Get("Content-Disposition"), ".xlsx")

	req = httptest.NewRequest(http.MethodGet, "/api/inventory/history/pdf?kind=POSITIVE_ADJUSTMENT", nil)
	req.Header.Set("Authorization", s.admin)
	report, err := app.Test(req, -1)
	require.NoError(t, err)
	defer report.Body.Close()
	assert.Equal(t, http.StatusOK, report.StatusCode)
	data, err := io.ReadAll(report.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "el cuerpo debe ser un PDF")
}

func TestHistorial_IncluyeCatalogoYAjustes(t *testing.T) {
	app := newServer(t)
	s := seed(t, app)
	resp, _ := call(t, app, http.MethodPost, "/api/inventory/entrada", s.admin, s.adjustment(2))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := call(t, app, http.MethodGet, "/api/inventory/history?limit=1", s.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := body["page"].(map[string]any)
	assert.Equal(t, float64(3), page["total"], "alta de producto, alta de ubicación y la entrada")
	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "POSITIVE_ADJUSTMENT", items[0].(map[string]any)["tipo_movimiento"])

	resp, body = call(t, app, http.MethodGet, "/api/inventory/history?kind=PRODUCT_CREATED&year=abc", s.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["page"].(map[string]any)["total"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo y empresas
// ──────────────────────────────────────────────────────────────────────────────

func TestCatalogo_BajaDeProducto(t *testing.T) {
	app := newServer(t)
	s := seed(t, app)

	resp, body := call(t, app, http.MethodDelete, "/api/products/"+s.productID, s.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["eliminado"])

	resp, body = call(t, app, http.MethodGet, "/api/products/"+s.productID, s.admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestEmpresas_PermisosYDuplicado(t *testing.T) {
	app := newServer(t)
	s := seed(t, app)

	resp, body := call(t, app, http.MethodPost, "/api/companies", s.admin, map[string]any{"name": "Otra", "nit": "900.123.456-8"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "el NIT con o sin dígito de verificación es el mismo")
	assert.Equal(t, "DUPLICATE", body["code"])

	resp, body = call(t, app, http.MethodPost, "/api/companies", s.admin, map[string]any{"name": "Otra", "nit": "900123456-1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["code"])

	resp, _ = call(t, app, http.MethodGet, "/api/companies", bearer(t, "jefe_inventario", ""), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = call(t, app, http.MethodGet, "/api/companies/"+s.companyID, bearer(t, "cliente", s.companyID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Acme", body["name"])
	assert.Equal(t, "900123456-8", body["nit"])

	resp, _ = call(t, app, http.MethodGet, "/api/companies/"+s.companyID, bearer(t, "cliente", uuid.NewString()), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bodegaje-api/internal/application/audit"
	"github.com/jhoicas/Bodegaje-api/internal/application/catalog"
	"github.com/jhoicas/Bodegaje-api/internal/application/dto"
	"github.com/jhoicas/Bodegaje-api/internal/domain"
	"github.com/jhoicas/Bodegaje-api/internal/domain/access"
	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
	"github.com/jhoicas/Bodegaje-api/internal/domain/repository"
	"github.com/jhoicas/Bodegaje-api/internal/infrastructure/memory"
	"github.com/jhoicas/Bodegaje-api/pkg/logger"
)

var admin = access.Actor{UserID: "00000000-0000-0000-0000-0000000000a1", Role: access.RoleAdmin}

type catalogFixture struct {
	store     *memory.Store
	products  *catalog.ProductUseCase
	locations *catalog.LocationUseCase
	events    []catalog.Event
}

// newCatalog registra el notificador de auditoría y un observador que guarda los eventos,
// en ese orden.
func newCatalog(t *testing.T, movements repository.MovementRepository) *catalogFixture {
	t.Helper()
	s := memory.NewStore()
	if movements == nil {
		movements = memory.NewMovementRepository(s)
	}
	log := logger.Nop()
	f := &catalogFixture{store: s}
	listeners := catalog.NewListeners()
	listeners.Register(audit.NewCatalogNotifier(audit.NewRecorder(log, nil), movements, nil))
	listeners.Register(catalog.ListenerFunc(func(_ context.Context, ev catalog.Event) error {
		f.events = append(f.events, ev)
		return nil
	}))
	f.products = catalog.NewProductUseCase(memory.NewProductRepository(s), listeners, log)
	f.locations = catalog.NewLocationUseCase(memory.NewLocationRepository(s), listeners, log)
	return f
}

func (f *catalogFixture) history(t *testing.T) []*entity.MovementView {
	t.Helper()
	list, _, err := memory.NewMovementRepository(f.store).List(context.Background(), repository.MovementFilter{})
	require.NoError(t, err)
	return list
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProducto_CicloDeVidaQuedaEnElHistorial(t *testing.T) {
	f := newCatalog(t, nil)
	ctx := context.Background()

	p, err := f.products.Create(ctx, admin, dto.CreateProductRequest{SKU: " TOR-001 ", Name: "Tornillo"})
	require.NoError(t, err)
	assert.Equal(t, "TOR-001", p.SKU, "el SKU se normaliza")
	assert.Empty(t, p.AuditWarning)

	name := "Tornillo 1/4"
	_, err = f.products.Update(ctx, admin, p.ID, dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)

	warning, err := f.products.Delete(ctx, admin, p.ID)
	require.NoError(t, err)
	assert.Empty(t, warning)

	movs := f.history(t)
	require.Len(t, movs, 3)
	assert.Equal(t, entity.MovementProductDeleted, movs[0].Kind)
	assert.Nil(t, movs[0].ProductID, "la baja no referencia al producto eliminado")
	assert.Equal(t, "Producto ID "+p.ID+" ('Tornillo 1/4', SKU: TOR-001) eliminado.", movs[0].Reason)
	assert.Equal(t, entity.MovementProductModified, movs[1].Kind)
	assert.Nil(t, movs[1].ProductID, "las referencias previas quedan en nulo al borrar")
	assert.Equal(t, entity.MovementProductCreated, movs[2].Kind)
	assert.Equal(t, "Producto 'Tornillo' (SKU: TOR-001) creado.", movs[2].Reason)

	require.Len(t, f.events, 3, "el segundo observador recibe todos los eventos")
	assert.Equal(t, catalog.EventDeleted, f.events[2].Kind)
}

func TestProducto_SKUDuplicado(t *testing.T) {
	f := newCatalog(t, nil)
	ctx := context.Background()
	_, err := f.products.Create(ctx, admin, dto.CreateProductRequest{SKU: "A-1", Name: "Uno"})
	require.NoError(t, err)

	_, err = f.products.Create(ctx, admin, dto.CreateProductRequest{SKU: "A-1", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Len(t, f.history(t), 1, "un alta rechazada no notifica")
}

func TestProducto_PermisosYNoEncontrado(t *testing.T) {
	f := newCatalog(t, nil)
	ctx := context.Background()
	cliente := access.Actor{Role: access.RoleCliente}

	_, err := f.products.Create(ctx, cliente, dto.CreateProductRequest{SKU: "A-1", Name: "Uno"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.products.GetByID(ctx, cliente, "no-es-un-id")
	var nferr *domain.NotFoundError
	require.ErrorAs(t, err, &nferr)
	assert.Equal(t, "producto", nferr.Resource)

	list, err := f.products.List(ctx, cliente, "", 20, 0)
	require.NoError(t, err, "el cliente puede consultar el catálogo")
	assert.Empty(t, list.Items)
}

func TestProducto_ListBuscaPorNombreOSKU(t *testing.T) {
	f := newCatalog(t, nil)
	ctx := context.Background()
	for _, in := range []dto.CreateProductRequest{
		{SKU: "TOR-001", Name: "Tornillo"},
		{SKU: "TUE-001", Name: "Tuerca"},
		{SKU: "ARA-001", Name: "Arandela tornillo"},
	} {
		_, err := f.products.Create(ctx, admin, in)
		require.NoError(t, err)
	}

	out, err := f.products.List(ctx, admin, "tornillo", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Page.Total)

	out, err = f.products.List(ctx, admin, "TUE", 20, 0)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Tuerca", out.Items[0].Name)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ubicaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestUbicacion_BajaEnCascadaDelInventario(t *testing.T) {
	f := newCatalog(t, nil)
	ctx := context.Background()
	l, err := f.locations.Create(ctx, admin, dto.CreateLocationRequest{Name: "Bodega Norte"})
	require.NoError(t, err)
	p, err := f.products.Create(ctx, admin, dto.CreateProductRequest{SKU: "X-1", Name: "Caja"})
	require.NoError(t, err)

	rows := memory.NewStockRowRepository(f.store)
	_, _, err = rows.GetOrCreateForUpdate(ctx, entity.StockKey{ProductID: p.ID, LocationID: l.ID}, p.CreatedAt)
	require.NoError(t, err)

	_, err = f.locations.Delete(ctx, admin, l.ID)
	require.NoError(t, err)

	list, total, err := rows.List(ctx, repository.StockRowFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)

	movs := f.history(t)
	assert.Equal(t, entity.MovementLocationDeleted, movs[0].Kind)
	assert.Equal(t, "Ubicación ID "+l.ID+" ('Bodega Norte') eliminada.", movs[0].Reason)
}

// ──────────────────────────────────────────────────────────────────────────────
// Historial de mejor esfuerzo
// ──────────────────────────────────────────────────────────────────────────────

type failingMovements struct {
	repository.MovementRepository
}

func (failingMovements) Append(context.Context, *entity.MovementRecord) error {
	return errors.New("conexión cerrada")
}

func TestCatalogo_FallaDelHistorialSeInformaComoAdvertencia(t *testing.T) {
	f := newCatalog(t, failingMovements{})
	ctx := context.Background()

	l, err := f.locations.Create(ctx, admin, dto.CreateLocationRequest{Name: "Patio"})
	require.NoError(t, err, "la ubicación se crea igual")
	assert.Equal(t, domain.ErrAuditWrite.Error(), l.AuditWarning)
	require.Len(t, f.events, 1, "los observadores siguientes se invocan aunque uno falle")

	got, err := f.locations.GetByID(ctx, admin, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "Patio", got.Name)
}

package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/Bodegaje-api/internal/domain"
	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
	"github.com/jhoicas/Bodegaje-api/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, s *Store) (entity.Product, entity.Location, entity.Company) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	p := entity.Product{ID: "p1", SKU: "SKU-1", Name: "Tornillo", CreatedAt: now, UpdatedAt: now}
	l := entity.Location{ID: "l1", Name: "Bodega A", CreatedAt: now, UpdatedAt: now}
	c := entity.Company{ID: "c1", Name: "Acme", Status: "active", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, NewProductRepository(s).Create(ctx, &p))
	require.NoError(t, NewLocationRepository(s).Create(ctx, &l))
	require.NoError(t, NewCompanyRepository(s).Create(ctx, &c))
	return p, l, c
}

// ──────────────────────────────────────────────────────────────────────────────
// Clave única del inventario
// ──────────────────────────────────────────────────────────────────────────────

func TestStockRowRepo_GetOrCreate_ClaveGlobalYDeEmpresaSonDistintas(t *testing.T) {
	s := NewStore()
	p, l, c := seed(t, s)
	repo := NewStockRowRepository(s)
	ctx := context.Background()
	now := time.Now()

	global, created, err := repo.GetOrCreateForUpdate(ctx, entity.StockKey{ProductID: p.ID, LocationID: l.ID}, now)
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := repo.GetOrCreateForUpdate(ctx, entity.StockKey{ProductID: p.ID, LocationID: l.ID}, now)
	require.NoError(t, err)
	assert.False(t, created, "la clave global (sin empresa) debe reutilizarse")
	assert.Equal(t, global.ID, again.ID)

	scoped, created, err := repo.GetOrCreateForUpdate(ctx, entity.StockKey{ProductID: p.ID, LocationID: l.ID, CompanyID: &c.ID}, now)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, global.ID, scoped.ID)
}

func TestStockRowRepo_Create_Duplicado(t *testing.T) {
	s := NewStore()
	p, l, _ := seed(t, s)
	repo := NewStockRowRepository(s)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.StockRow{ID: "r1", ProductID: p.ID, LocationID: l.ID, Quantity: 3}))
	err := repo.Create(ctx, &entity.StockRow{ID: "r2", ProductID: p.ID, LocationID: l.ID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestStockRowRepo_Create_ReferenciaInexistente(t *testing.T) {
	s := NewStore()
	_, l, _ := seed(t, s)
	err := NewStockRowRepository(s).Create(context.Background(), &entity.StockRow{ID: "r1", ProductID: "nope", LocationID: l.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cascadas y referencias del historial
// ──────────────────────────────────────────────────────────────────────────────

func TestProductRepo_Delete_CascadaInventarioYAnulaHistorial(t *testing.T) {
	s := NewStore()
	p, l, _ := seed(t, s)
	ctx := context.Background()
	rows := NewStockRowRepository(s)
	movs := NewMovementRepository(s)

	require.NoError(t, rows.Create(ctx, &entity.StockRow{ID: "r1", ProductID: p.ID, LocationID: l.ID, Quantity: 3}))
	require.NoError(t, movs.Append(ctx, &entity.MovementRecord{
		ID: "m1", Kind: entity.MovementCreation, StockRowID: entity.Ptr("r1"),
		ProductID: entity.Ptr(p.ID), LocationID: entity.Ptr(l.ID), CreatedAt: time.Now(),
	}))

	require.NoError(t, NewProductRepository(s).Delete(ctx, p.ID))

	row, err := rows.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Nil(t, row, "el inventario del producto debe eliminarse en cascada")

	list, total, err := movs.List(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Nil(t, list[0].ProductID)
	assert.Nil(t, list[0].StockRowID)
	require.NotNil(t, list[0].LocationID)
	assert.Equal(t, l.ID, *list[0].LocationID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Historial
// ──────────────────────────────────────────────────────────────────────────────

func TestMovementRepo_List_OrdenYFiltros(t *testing.T) {
	s := NewStore()
	movs := NewMovementRepository(s)
	ctx := context.Background()
	same := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, movs.Append(ctx, &entity.MovementRecord{ID: "a", Kind: entity.MovementCreation, CreatedAt: same}))
	require.NoError(t, movs.Append(ctx, &entity.MovementRecord{ID: "b", Kind: entity.MovementUpdate, CreatedAt: same}))
	require.NoError(t, movs.Append(ctx, &entity.MovementRecord{ID: "c", Kind: entity.MovementCreation, CreatedAt: same.AddDate(1, 0, 0)}))

	list, total, err := movs.List(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	ids := []string{list[0].ID, list[1].ID, list[2].ID}
	assert.Equal(t, []string{"c", "b", "a"}, ids, "más reciente primero; empates por orden de inserción inverso")

	list, total, err = movs.List(ctx, repository.MovementFilter{Year: 2024, Kind: entity.MovementCreation})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "a", list[0].ID)

	list, _, err = movs.List(ctx, repository.MovementFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transacciones
// ──────────────────────────────────────────────────────────────────────────────

func TestTxRunner_Run_RevierteSiFalla(t *testing.T) {
	s := NewStore()
	p, l, _ := seed(t, s)
	ctx := context.Background()
	boom := errors.New("boom")

	err := NewTxRunner(s).Run(ctx, func(rows repository.StockRowRepository, movs repository.MovementRepository) error {
		row, _, err := rows.GetOrCreateForUpdate(ctx, entity.StockKey{ProductID: p.ID, LocationID: l.ID}, time.Now())
		require.NoError(t, err)
		row.Quantity = 10
		require.NoError(t, rows.Save(ctx, row))
		require.NoError(t, movs.Append(ctx, &entity.MovementRecord{ID: "m", Kind: entity.MovementPositiveAdjustment}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	list, total, err := NewStockRowRepository(s).List(ctx, repository.StockRowFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
	_, total, err = NewMovementRepository(s).List(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Zero(t, total, "el historial también se revierte")
}

func TestTxRunner_Run_ConservaMovimientosAjenosAlRevertir(t *testing.T) {
	s := NewStore()
	p, l, _ := seed(t, s)
	ctx := context.Background()
	rows := NewStockRowRepository(s)
	movs := NewMovementRepository(s)

	row, _, err := rows.GetOrCreateForUpdate(ctx, entity.StockKey{ProductID: p.ID, LocationID: l.ID}, time.Now())
	require.NoError(t, err)
	require.NoError(t, movs.Append(ctx, &entity.MovementRecord{ID: "previo", Kind: entity.MovementCreation, StockRowID: &row.ID}))

	boom := errors.New("boom")
	err = NewTxRunner(s).Run(ctx, func(txRows repository.StockRowRepository, txMovs repository.MovementRepository) error {
		require.NoError(t, txRows.Delete(ctx, row.ID))
		require.NoError(t, txMovs.Append(ctx, &entity.MovementRecord{ID: "salida", Kind: entity.MovementNegativeAdjustment}))
		// Otro request registra un alta del catálogo mientras la transacción sigue abierta.
		require.NoError(t, movs.Append(ctx, &entity.MovementRecord{ID: "alta", Kind: entity.MovementProductCreated, ProductID: &p.ID}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	list, total, err := movs.List(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	require.Equal(t, 2, total, "sólo se deshace el movimiento de la transacción fallida")
	ids := map[string]*entity.MovementView{}
	for _, m := range list {
		ids[m.ID] = m
	}
	assert.Contains(t, ids, "alta", "el alta del catálogo confirmada fuera de la transacción se conserva")
	assert.NotContains(t, ids, "salida")
	require.Contains(t, ids, "previo")
	require.NotNil(t, ids["previo"].StockRowID, "la referencia al inventario restaurado vuelve a su valor")
	assert.Equal(t, row.ID, *ids["previo"].StockRowID)

	restored, err := rows.GetByID(ctx, row.ID)
	require.NoError(t, err)
	assert.NotNil(t, restored)
}

func TestUserRepo_FindByLogin(t *testing.T) {
	s := NewStore()
	repo := NewUserRepository(s)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &entity.User{ID: "u1", Email: "Admin@Bodega.co", DocumentID: "1020", Role: "admin"}))

	u, err := repo.FindByLogin(ctx, "admin@bodega.co")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "u1", u.ID)

	u, err = repo.FindByLogin(ctx, "1020")
	require.NoError(t, err)
	require.NotNil(t, u)

	u, err = repo.FindByLogin(ctx, "otro")
	require.NoError(t, err)
	assert.Nil(t, u)

	assert.ErrorIs(t, repo.Create(ctx, &entity.User{ID: "u2", Email: "x@y.z", DocumentID: "1020"}), domain.ErrDuplicate)
}

// Package memory implementa los puertos de persistencia en memoria del proceso. Se usa en
// desarrollo (APP_STORAGE=memory) y en las pruebas de los flujos de inventario.
package memory

import (
	"sync"

	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
)

// Store datos compartidos por todos los repositorios en memoria.
// mu protege los mapas; txMu serializa las transacciones (equivale a bloquear todas las filas).
type Store struct {
	mu        sync.RWMutex
	txMu      sync.Mutex
	products  map[string]entity.Product
	locations map[string]entity.Location
	companies map[string]entity.Company
	users     map[string]entity.User
	stock     map[string]entity.StockRow
	movements []entity.MovementRecord
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products:  make(map[string]entity.Product),
		locations: make(map[string]entity.Location),
		companies: make(map[string]entity.Company),
		users:     make(map[string]entity.User),
		stock:     make(map[string]entity.StockRow),
	}
}

type snapshot struct {
	stock     map[string]entity.StockRow
	stockRefs map[string]*string
}

// snapshot copia el inventario y la referencia a inventario de cada movimiento: es lo que una
// transacción puede cambiar del historial además de agregar registros.
func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := snapshot{
		stock:     make(map[string]entity.StockRow, len(s.stock)),
		stockRefs: make(map[string]*string, len(s.movements)),
	}
	for k, v := range s.stock {
		snap.stock[k] = v
	}
	for _, m := range s.movements {
		snap.stockRefs[m.ID] = cloneString(m.StockRowID)
	}
	return snap
}

// rollback deshace una transacción fallida. Sólo quita los movimientos que agregó esa
// transacción: los escritos fuera de ella (observadores del catálogo) se conservan.
func (s *Store) rollback(snap snapshot, appended []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock = snap.stock
	drop := make(map[string]struct{}, len(appended))
	for _, id := range appended {
		drop[id] = struct{}{}
	}
	kept := s.movements[:0]
	for _, m := range s.movements {
		if _, ok := drop[m.ID]; ok {
			continue
		}
		if ref, ok := snap.stockRefs[m.ID]; ok {
			m.StockRowID = ref
		}
		kept = append(kept, m)
	}
	s.movements = kept
}

// deleteStockWhere borra los registros que cumplen match y anula su referencia en el historial.
// Se llama con mu tomado.
func (s *Store) deleteStockWhere(match func(entity.StockRow) bool) {
	for id, row := range s.stock {
		if match(row) {
			delete(s.stock, id)
			s.nullMovementRefs(func(m *entity.MovementRecord) {
				if m.StockRowID != nil && *m.StockRowID == id {
					m.StockRowID = nil
				}
			})
		}
	}
}

func (s *Store) nullMovementRefs(fn func(*entity.MovementRecord)) {
	for i := range s.movements {
		fn(&s.movements[i])
	}
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

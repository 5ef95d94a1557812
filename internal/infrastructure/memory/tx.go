package memory

import (
	"context"

	"github.com/jhoicas/Bodegaje-api/internal/application/inventory"
	"github.com/jhoicas/Bodegaje-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner transacciones en memoria: una a la vez. Si fn falla se restaura el inventario y se
// quitan los movimientos que fn agregó.
type TxRunner struct {
	s     *Store
	stock *StockRowRepo
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s, stock: NewStockRowRepository(s)}
}

func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRowRepository,
	movRepo repository.MovementRepository,
) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	snap := r.s.snapshot()
	movements := &MovementRepo{s: r.s, journal: &[]string{}}
	if err := fn(r.stock, movements); err != nil {
		r.s.rollback(snap, *movements.journal)
		return err
	}
	return nil
}

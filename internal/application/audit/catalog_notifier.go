package audit

import (
	"context"
	"fmt"

	"github.com/jhoicas/Bodegaje-api/internal/application/catalog"
	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
	"github.com/jhoicas/Bodegaje-api/internal/domain/repository"
)

// CatalogNotifier observador del catálogo que deja un movimiento por cada alta, cambio o baja
// de producto o ubicación.
type CatalogNotifier struct {
	recorder  *Recorder
	movements repository.MovementRepository
	publisher *Publisher
}

var _ catalog.Listener = (*CatalogNotifier)(nil)

// NewCatalogNotifier construye el observador.
func NewCatalogNotifier(recorder *Recorder, movements repository.MovementRepository, publisher *Publisher) *CatalogNotifier {
	return &CatalogNotifier{recorder: recorder, movements: movements, publisher: publisher}
}

// OnCatalogChange implementa catalog.Listener.
func (n *CatalogNotifier) OnCatalogChange(ctx context.Context, ev catalog.Event) error {
	entry, ok := catalogEntry(ev)
	if !ok {
		return nil
	}
	rec, err := n.recorder.Record(ctx, n.movements, entry)
	if err != nil {
		return err
	}
	n.publisher.Publish(ctx, rec)
	return nil
}

// catalogEntry arma el movimiento. En las bajas la referencia queda nula: el id y el nombre
// anteriores se conservan en el motivo.
func catalogEntry(ev catalog.Event) (Entry, bool) {
	e := Entry{Actor: ev.Actor}
	switch {
	case ev.Product != nil:
		p := ev.Product
		switch ev.Kind {
		case catalog.EventCreated:
			e.Kind = entity.MovementProductCreated
			e.ProductID = entity.Ptr(p.ID)
			e.Reason = fmt.Sprintf("Producto '%s' (SKU: %s) creado.", p.Name, p.SKU)
		case catalog.EventModified:
			e.Kind = entity.MovementProductModified
			e.ProductID = entity.Ptr(p.ID)
			e.Reason = fmt.Sprintf("Producto '%s' (SKU: %s) modificado.", p.Name, p.SKU)
		case catalog.EventDeleted:
			e.Kind = entity.MovementProductDeleted
			e.Reason = fmt.Sprintf("Producto ID %s ('%s', SKU: %s) eliminado.", p.ID, p.Name, p.SKU)
		default:
			return Entry{}, false
		}
	case ev.Location != nil:
		l := ev.Location
		switch ev.Kind {
		case catalog.EventCreated:
			e.Kind = entity.MovementLocationCreated
			e.LocationID = entity.Ptr(l.ID)
			e.Reason = fmt.Sprintf("Ubicación '%s' creada.", l.Name)
		case catalog.EventModified:
			e.Kind = entity.MovementLocationModified
			e.LocationID = entity.Ptr(l.ID)
			e.Reason = fmt.Sprintf("Ubicación '%s' modificada.", l.Name)
		case catalog.EventDeleted:
			e.Kind = entity.MovementLocationDeleted
			e.Reason = fmt.Sprintf("Ubicación ID %s ('%s') eliminada.", l.ID, l.Name)
		default:
			return Entry{}, false
		}
	default:
		return Entry{}, false
	}
	return e, true
}

// Package catalog gestiona productos y ubicaciones y notifica cada cambio confirmado a los observadores registrados.
package catalog

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/Bodegaje-api/internal/domain/access"
	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
)

// EventKind operación del catálogo.
type EventKind int

const (
	EventCreated EventKind = iota + 1
	EventModified
	EventDeleted
)

func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventModified:
		return "modified"
	case EventDeleted:
		return "deleted"
	}
	return "unknown"
}

// Event cambio ya confirmado sobre un producto o una ubicación (sólo uno de los dos viene informado).
// En EventDeleted la entidad lleva el estado previo al borrado.
type Event struct {
	Kind     EventKind
	Actor    access.Actor
	Product  *entity.Product
	Location *entity.Location
}

// Listener observador del ciclo de vida del catálogo. Se invoca de forma síncrona después del cambio.
type Listener interface {
	OnCatalogChange(ctx context.Context, ev Event) error
}

// ListenerFunc adapta una función a Listener.
type ListenerFunc func(ctx context.Context, ev Event) error

func (f ListenerFunc) OnCatalogChange(ctx context.Context, ev Event) error { return f(ctx, ev) }

// Listeners registro compartido por los casos de uso de producto y ubicación.
type Listeners struct {
	mu        sync.RWMutex
	listeners []Listener
}

// NewListeners crea un registro vacío.
func NewListeners() *Listeners { return &Listeners{} }

// Register agrega un observador; se llama una vez al arrancar el proceso.
func (l *Listeners) Register(listener Listener) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, listener)
}

// Notify invoca a todos los observadores en orden de registro. Un fallo no impide avisar a los siguientes.
func (l *Listeners) Notify(ctx context.Context, ev Event) error {
	if l == nil {
		return nil
	}
	l.mu.RLock()
	listeners := append([]Listener(nil), l.listeners...)
	l.mu.RUnlock()

	var errs []error
	for _, listener := range listeners {
		if err := listener.OnCatalogChange(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Package ws difunde los movimientos confirmados a los clientes websocket conectados.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/jhoicas/Bodegaje-api/internal/application/audit"
	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
	"github.com/jhoicas/Bodegaje-api/pkg/logger"
)

var _ audit.Sink = (*Hub)(nil)

// ErrHubBusy el buffer de difusión está lleno; el mensaje se descarta.
var ErrHubBusy = errors.New("ws: hub saturado, mensaje descartado")

const broadcastBuffer = 256

// Conn lo que el hub necesita de una conexión (*websocket.Conn lo cumple).
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Message sobre enviado a los clientes.
type Message struct {
	Type string       `json:"type"`
	Data movementData `json:"data"`
}

type movementData struct {
	ID             string    `json:"id"`
	Kind           string    `json:"tipo_movimiento"`
	KindLabel      string    `json:"tipo_movimiento_display"`
	StockRowID     *string   `json:"inventario_id"`
	ProductID      *string   `json:"product_id"`
	LocationID     *string   `json:"location_id"`
	CompanyID      *string   `json:"company_id"`
	QuantityBefore *int64    `json:"cantidad_anterior"`
	QuantityAfter  *int64    `json:"cantidad_nueva"`
	QuantityDelta  int64     `json:"cantidad_cambio"`
	Reason         string    `json:"motivo"`
	CreatedAt      time.Time `json:"timestamp"`
}

// Hub mantiene los clientes y les reenvía cada movimiento. Run debe estar corriendo.
type Hub struct {
	clients    map[Conn]bool
	register   chan Conn
	unregister chan Conn
	broadcast  chan []byte
	done       chan struct{}
	mutex      sync.Mutex
	log        *logger.Logger
}

// NewHub construye el hub.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[Conn]bool),
		register:   make(chan Conn),
		unregister: make(chan Conn),
		broadcast:  make(chan []byte, broadcastBuffer),
		done:       make(chan struct{}),
		log:        log.Component("ws"),
	}
}

// Run atiende altas, bajas y difusiones hasta que ctx termine; al salir cierra todas las conexiones.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		h.mutex.Lock()
		for conn := range h.clients {
			_ = conn.Close()
			delete(h.clients, conn)
		}
		h.mutex.Unlock()
		close(h.done)
	}()
	for {
		select {
		case <-ctx.Done():
			return

		case conn := <-h.register:
			h.mutex.Lock()
			h.clients[conn] = true
			h.mutex.Unlock()
			h.log.Debug().Msg("cliente websocket conectado")

		case conn := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				_ = conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.broadcast:
			h.mutex.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					_ = conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Register agrega un cliente. No bloquea si el hub ya se detuvo.
func (h *Hub) Register(conn Conn) {
	select {
	case h.register <- conn:
	case <-h.done:
		_ = conn.Close()
	}
}

// Unregister quita un cliente y cierra su conexión.
func (h *Hub) Unregister(conn Conn) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Clients número de clientes conectados.
func (h *Hub) Clients() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// PublishMovement implementa audit.Sink. Nunca bloquea la petición que originó el movimiento.
func (h *Hub) PublishMovement(_ context.Context, rec *entity.MovementRecord) error {
	data, err := json.Marshal(Message{Type: "movement", Data: movementData{
		ID:             rec.ID,
		Kind:           string(rec.Kind),
		KindLabel:      rec.Kind.Label(),
		StockRowID:     rec.StockRowID,
		ProductID:      rec.ProductID,
		LocationID:     rec.LocationID,
		CompanyID:      rec.CompanyID,
		QuantityBefore: rec.QuantityBefore,
		QuantityAfter:  rec.QuantityAfter,
		QuantityDelta:  rec.QuantityDelta,
		Reason:         rec.Reason,
		CreatedAt:      rec.CreatedAt,
	}})
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- data:
		return nil
	default:
		return ErrHubBusy
	}
}

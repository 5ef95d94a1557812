package audit

import (
	"context"

	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
	"github.com/jhoicas/Bodegaje-api/pkg/logger"
)

// Sink destino del stream de movimientos (Kafka, websocket, métricas).
type Sink interface {
	PublishMovement(ctx context.Context, rec *entity.MovementRecord) error
}

// Publisher difunde movimientos ya confirmados a todos los sinks. Los fallos se registran y no se propagan.
type Publisher struct {
	sinks []Sink
	log   *logger.Logger
}

// NewPublisher construye el publisher; los sinks nil se descartan.
func NewPublisher(log *logger.Logger, sinks ...Sink) *Publisher {
	p := &Publisher{log: log.Component("audit.publisher")}
	for _, s := range sinks {
		if s != nil {
			p.sinks = append(p.sinks, s)
		}
	}
	return p
}

// Publish envía los registros en orden. Acepta registros nil (movimientos que no se pudieron registrar).
func (p *Publisher) Publish(ctx context.Context, records ...*entity.MovementRecord) {
	if p == nil {
		return
	}
	for _, rec := range records {
		if rec == nil {
			continue
		}
		for _, s := range p.sinks {
			if err := s.PublishMovement(ctx, rec); err != nil {
				p.log.Warn().Err(err).
					Str("movement_id", rec.ID).
					Str("kind", string(rec.Kind)).
					Msg("no se pudo publicar el movimiento")
			}
		}
	}
}

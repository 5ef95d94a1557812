// Package kafka publica los movimientos confirmados en un tópico Kafka (IBM/sarama).
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/jhoicas/Bodegaje-api/internal/application/audit"
	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
	"github.com/jhoicas/Bodegaje-api/pkg/logger"
)

var _ audit.Sink = (*Producer)(nil)

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
	// enqueueTimeout espera máxima por espacio en la cola del productor; el request no espera al broker.
	enqueueTimeout = 100 * time.Millisecond
)

// MovementEvent mensaje publicado por cada movimiento.
type MovementEvent struct {
	ID             string    `json:"id"`
	Kind           string    `json:"kind"`
	KindLabel      string    `json:"kind_label"`
	StockRowID     *string   `json:"stock_row_id"`
	ProductID      *string   `json:"product_id"`
	LocationID     *string   `json:"location_id"`
	CompanyID      *string   `json:"company_id"`
	QuantityBefore *int64    `json:"quantity_before"`
	QuantityAfter  *int64    `json:"quantity_after"`
	QuantityDelta  int64     `json:"quantity_delta"`
	UserID         *string   `json:"user_id"`
	Reason         string    `json:"reason"`
	CreatedAt      time.Time `json:"created_at"`
}

// Producer implementa audit.Sink sobre un sarama.AsyncProducer. Publicar sólo encola: las
// respuestas del broker llegan por Errors() y se registran en el log.
type Producer struct {
	producer sarama.AsyncProducer
	topic    string
	log      *logger.Logger
	done     chan struct{}
}

// NewProducer conecta con los brokers reintentando unos segundos (el broker suele arrancar después que la API).
func NewProducer(brokers []string, topic string, log *logger.Logger) (*Producer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = false
	cfg.Producer.Return.Errors = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3

	var err error
	for i := 1; i <= connectAttempts; i++ {
		var p sarama.AsyncProducer
		p, err = sarama.NewAsyncProducer(brokers, cfg)
		if err == nil {
			log.Info().Strs("brokers", brokers).Str("topic", topic).Msg("productor Kafka listo")
			return NewProducerWith(p, topic, log), nil
		}
		log.Warn().Err(err).Int("intento", i).Msg("esperando a Kafka")
		time.Sleep(connectBackoff)
	}
	return nil, fmt.Errorf("kafka: conectar productor: %w", err)
}

// NewProducerWith envuelve un productor ya construido (pruebas, configuración propia) y arranca
// la goroutine que drena sus errores.
func NewProducerWith(p sarama.AsyncProducer, topic string, log *logger.Logger) *Producer {
	pr := &Producer{producer: p, topic: topic, log: log.Component("kafka"), done: make(chan struct{})}
	go pr.drainErrors()
	return pr
}

func (p *Producer) drainErrors() {
	defer close(p.done)
	for perr := range p.producer.Errors() {
		ev := p.log.Error().Err(perr.Err).Str("topic", p.topic)
		if perr.Msg != nil {
			if id, ok := perr.Msg.Metadata.(string); ok {
				ev = ev.Str("movement_id", id)
			}
		}
		ev.Msg("no se pudo publicar el movimiento en Kafka")
	}
}

// PublishMovement encola el movimiento. La llave es la clave de inventario (producto/ubicación/empresa)
// para que los movimientos de un mismo registro caigan en la misma partición y conserven el orden.
// Si la cola sigue llena tras enqueueTimeout el movimiento se descarta con error.
func (p *Producer) PublishMovement(ctx context.Context, rec *entity.MovementRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(toEvent(rec))
	if err != nil {
		return fmt.Errorf("kafka: serializar movimiento: %w", err)
	}
	msg := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(messageKey(rec)),
		Value:     sarama.ByteEncoder(data),
		Timestamp: rec.CreatedAt,
		Headers: []sarama.RecordHeader{
			{Key: []byte("kind"), Value: []byte(rec.Kind)},
		},
		Metadata: rec.ID,
	}
	timer := time.NewTimer(enqueueTimeout)
	defer timer.Stop()
	select {
	case p.producer.Input() <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("kafka: cola del productor llena, movimiento %s descartado", rec.ID)
	}
}

// Close vacía la cola, cierra el productor y espera a que se registren los últimos errores.
func (p *Producer) Close() error {
	p.producer.AsyncClose()
	<-p.done
	return nil
}

func messageKey(rec *entity.MovementRecord) string {
	deref := func(s *string) string {
		if s == nil {
			return "-"
		}
		return *s
	}
	return deref(rec.ProductID) + "/" + deref(rec.LocationID) + "/" + deref(rec.CompanyID)
}

func toEvent(rec *entity.MovementRecord) MovementEvent {
	return MovementEvent{
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
		UserID:         rec.UserID,
		Reason:         rec.Reason,
		CreatedAt:      rec.CreatedAt,
	}
}

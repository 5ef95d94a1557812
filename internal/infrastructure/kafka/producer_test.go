package kafka

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
	"github.com/jhoicas/Bodegaje-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Publicación
// ──────────────────────────────────────────────────────────────────────────────

func TestProducer_PublishMovement(t *testing.T) {
	mock := mocks.NewAsyncProducer(t, nil)
	mock.ExpectInputWithCheckerFunctionAndSucceed(func(val []byte) error {
		var ev MovementEvent
		if err := json.Unmarshal(val, &ev); err != nil {
			return err
		}
		if ev.Kind != "POSITIVE_ADJUSTMENT" || ev.QuantityDelta != 5 || ev.KindLabel != "Ajuste Positivo Inventario" {
			return errors.New("evento inesperado")
		}
		return nil
	})

	p := NewProducerWith(mock, "inventory.movements", logger.Nop())
	err := p.PublishMovement(context.Background(), &entity.MovementRecord{
		ID: "m1", Kind: entity.MovementPositiveAdjustment, QuantityDelta: 5,
		ProductID: entity.Ptr("p1"), LocationID: entity.Ptr("l1"), CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestProducer_PublishMovement_ErrorDelBrokerNoBloqueaNiFalla(t *testing.T) {
	mock := mocks.NewAsyncProducer(t, nil)
	mock.ExpectInputAndFail(sarama.ErrOutOfBrokers)

	var buf bytes.Buffer
	p := NewProducerWith(mock, "inventory.movements", logger.FromWriter(&buf))
	err := p.PublishMovement(context.Background(), &entity.MovementRecord{ID: "m-caido", Kind: entity.MovementCreation})
	require.NoError(t, err, "publicar sólo encola; el fallo del broker no llega al request")

	// Close espera a que la goroutine de errores termine de registrar.
	require.NoError(t, p.Close())
	out := buf.String()
	assert.Contains(t, out, "no se pudo publicar el movimiento en Kafka")
	assert.Contains(t, out, "m-caido", "el log identifica el movimiento descartado")
}

func TestProducer_PublishMovement_ContextoCancelado(t *testing.T) {
	mock := mocks.NewAsyncProducer(t, nil)
	p := NewProducerWith(mock, "inventory.movements", logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.PublishMovement(ctx, &entity.MovementRecord{ID: "m1", Kind: entity.MovementCreation})
	assert.ErrorIs(t, err, context.Canceled)
	require.NoError(t, p.Close())
}

func TestMessageKey(t *testing.T) {
	assert.Equal(t, "p/l/-", messageKey(&entity.MovementRecord{ProductID: entity.Ptr("p"), LocationID: entity.Ptr("l")}))
	assert.Equal(t, "p/l/c", messageKey(&entity.MovementRecord{
		ProductID: entity.Ptr("p"), LocationID: entity.Ptr("l"), CompanyID: entity.Ptr("c"),
	}))
}

package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovementReport_GeneraPDF(t *testing.T) {
	at := time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)
	views := []*entity.MovementView{
		{
			MovementRecord: entity.MovementRecord{
				ID: "m1", Kind: entity.MovementPositiveAdjustment,
				ProductID: entity.Ptr("p1"), LocationID: entity.Ptr("l1"),
				QuantityBefore: entity.Ptr(int64(0)), QuantityAfter: entity.Ptr(int64(1500)),
				QuantityDelta: 1500, CreatedAt: at, Reason: "Entrada de stock vía API.",
			},
			ProductName: "Tornillo", ProductSKU: "T-1", LocationName: "Bodega A", UserName: "Ana",
		},
		{
			MovementRecord: entity.MovementRecord{ID: "m2", Kind: entity.MovementProductDeleted, CreatedAt: at},
		},
	}

	out, err := NewMovementReportGenerator("Bodegaje").MovementReport(context.Background(), "Historial", views, at)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "el documento debe ser un PDF")
}

func TestMovementReport_SinMovimientos(t *testing.T) {
	out, err := NewMovementReportGenerator("").MovementReport(context.Background(), "Historial", nil, time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "0", formatQuantity(0))
	assert.Equal(t, "999", formatQuantity(999))
	assert.Equal(t, "25.000", formatQuantity(25000))
	assert.Equal(t, "-1.000.000", formatQuantity(-1000000))
	assert.Equal(t, "+5", signedQuantity(5))
	assert.Equal(t, "-", optionalQuantity(nil))
}

package metrics

import (
	"context"
	"testing"

	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Contadores(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.AuditWriteFailed(entity.MovementNegativeAdjustment)
	m.AuditWriteFailed(entity.MovementNegativeAdjustment)
	require.NoError(t, m.PublishMovement(context.Background(), &entity.MovementRecord{Kind: entity.MovementCreation}))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AuditFailures().WithLabelValues("NEGATIVE_ADJUSTMENT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Movements().WithLabelValues("CREATION")))

	n, err := testutil.GatherAndCount(reg, "bodegaje_audit_write_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMetrics_NilNoFalla(t *testing.T) {
	var m *Metrics
	m.AuditWriteFailed(entity.MovementCreation)
	assert.NoError(t, m.PublishMovement(context.Background(), &entity.MovementRecord{}))
}

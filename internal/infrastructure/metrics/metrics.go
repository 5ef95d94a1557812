// Package metrics expone contadores Prometheus del inventario.
package metrics

import (
	"context"

	"github.com/jhoicas/Bodegaje-api/internal/application/audit"
	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	_ audit.FailureCounter = (*Metrics)(nil)
	_ audit.Sink           = (*Metrics)(nil)
)

// Metrics contadores del historial. Un *Metrics nil no registra nada.
type Metrics struct {
	auditFailures *prometheus.CounterVec
	movements     *prometheus.CounterVec
}

// New crea los contadores y los registra en reg (si reg es nil no se registran).
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		auditFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bodegaje",
			Name:      "audit_write_failures_total",
			Help:      "Movimientos que no se pudieron escribir en el historial.",
		}, []string{"kind"}),
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bodegaje",
			Name:      "movements_total",
			Help:      "Movimientos confirmados, por tipo.",
		}, []string{"kind"}),
	}
	if reg != nil {
		reg.MustRegister(m.auditFailures, m.movements)
	}
	return m
}

// AuditWriteFailed implementa audit.FailureCounter.
func (m *Metrics) AuditWriteFailed(kind entity.MovementKind) {
	if m == nil {
		return
	}
	m.auditFailures.WithLabelValues(string(kind)).Inc()
}

// PublishMovement implementa audit.Sink contando los movimientos confirmados.
func (m *Metrics) PublishMovement(_ context.Context, rec *entity.MovementRecord) error {
	if m == nil || rec == nil {
		return nil
	}
	m.movements.WithLabelValues(string(rec.Kind)).Inc()
	return nil
}

// AuditFailures contador expuesto para pruebas.
func (m *Metrics) AuditFailures() *prometheus.CounterVec { return m.auditFailures }

// Movements contador expuesto para pruebas.
func (m *Metrics) Movements() *prometheus.CounterVec { return m.movements }

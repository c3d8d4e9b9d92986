package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the homologation workflow.
type Metrics struct {
	// Stage latency and outcome ("ok" or the failing error code)
	StageDuration *prometheus.HistogramVec
	StageOutcome  *prometheus.CounterVec

	// Status writes by from/to
	Transitions *prometheus.CounterVec

	// Collaborator failures by collaborator and category
	CollaboratorFailures *prometheus.CounterVec

	DocumentsUploaded *prometheus.CounterVec

	// Current homologations per status, refreshed by the snapshot job
	StatusCurrent *prometheus.GaugeVec

	CircuitOpen *prometheus.GaugeVec
}

func New() *Metrics {
	return &Metrics{
		StageDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "homologation_stage_duration_seconds",
			Help:    "Duration of workflow stages including collaborator calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		}, []string{"stage"}),
		StageOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "homologation_stage_outcomes_total",
			Help: "Workflow stage outcomes by stage and result code",
		}, []string{"stage", "outcome"}),
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "homologation_status_transitions_total",
			Help: "Status transitions written by the workflow",
		}, []string{"from", "to"}),
		CollaboratorFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "homologation_collaborator_failures_total",
			Help: "Failed calls to external collaborators by category",
		}, []string{"collaborator", "category"}),
		DocumentsUploaded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "homologation_documents_uploaded_total",
			Help: "Documents stored by type",
		}, []string{"document_type"}),
		StatusCurrent: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "homologation_status_current",
			Help: "Homologations currently in each status",
		}, []string{"status"}),
		CircuitOpen: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "homologation_circuit_open",
			Help: "1 when the named collaborator circuit is open",
		}, []string{"name"}),
	}
}

func (m *Metrics) ObserveStage(stage, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
	m.StageOutcome.WithLabelValues(stage, outcome).Inc()
}

func (m *Metrics) IncTransition(from, to string) {
	if m != nil {
		m.Transitions.WithLabelValues(from, to).Inc()
	}
}

func (m *Metrics) IncCollaboratorFailure(collaborator, category string) {
	if m != nil {
		m.CollaboratorFailures.WithLabelValues(collaborator, category).Inc()
	}
}

func (m *Metrics) IncDocumentUploaded(documentType string) {
	if m != nil {
		m.DocumentsUploaded.WithLabelValues(documentType).Inc()
	}
}

// SetStatusCounts replaces the per-status gauge values.
func (m *Metrics) SetStatusCounts(counts map[string]int) {
	if m == nil {
		return
	}
	for status, n := range counts {
		m.StatusCurrent.WithLabelValues(status).Set(float64(n))
	}
}

// SetCircuitOpen satisfies the ticketing client's circuit observer.
func (m *Metrics) SetCircuitOpen(name string, open bool) {
	if m == nil {
		return
	}
	v := 0.0
	if open {
		v = 1
	}
	m.CircuitOpen.WithLabelValues(name).Set(v)
}

package infrastructure

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/magasin-labs/checkout-system/saga-service/domain"
)

// PrometheusMetrics implements domain.MetricsCollector on an explicit
// registerer, so no package-level registry state leaks between services
// or tests.
type PrometheusMetrics struct {
	sagaTotal         *prometheus.CounterVec
	sagaEtapes        *prometheus.CounterVec
	sagaDuree         *prometheus.HistogramVec
	sagaEchecs        *prometheus.CounterVec
	sagaCompensations *prometheus.CounterVec
	externalCalls     *prometheus.CounterVec
	externalDuree     *prometheus.HistogramVec
}

// NewPrometheusMetrics registers the saga metric vectors. A nil
// registerer falls back to the default one.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &PrometheusMetrics{
		sagaTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "saga_total",
			Help: "Nombre total de sagas demarrees.",
		}, []string{"magasin"}),
		sagaEtapes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "saga_etapes_total",
			Help: "Nombre d'etapes atteintes par les sagas.",
		}, []string{"etape", "statut", "magasin"}),
		sagaDuree: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "saga_duree_seconds",
			Help:    "Duree d'execution des sagas en secondes.",
			Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
		}, []string{"etat_final", "magasin"}),
		sagaEchecs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "saga_echecs_total",
			Help: "Nombre total d'echecs de sagas.",
		}, []string{"type_echec", "etape_echec", "magasin"}),
		sagaCompensations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "saga_compensations_total",
			Help: "Nombre de compensations executees.",
		}, []string{"type_compensation", "magasin"}),
		externalCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "services_externes_calls_total",
			Help: "Nombre d'appels aux services externes.",
		}, []string{"service", "endpoint", "status_code"}),
		externalDuree: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "services_externes_duree_seconds",
			Help:    "Duree des appels aux services externes.",
			Buckets: []float64{0.1, 0.2, 0.5, 1.0, 2.0, 5.0},
		}, []string{"service", "endpoint"}),
	}

	reg.MustRegister(
		m.sagaTotal, m.sagaEtapes, m.sagaDuree, m.sagaEchecs,
		m.sagaCompensations, m.externalCalls, m.externalDuree,
	)
	return m
}

func (m *PrometheusMetrics) RecordSagaStarted(saga *domain.SagaCommande) {
	m.sagaTotal.WithLabelValues(saga.MagasinID.String()).Inc()
	m.sagaEtapes.WithLabelValues("DEMARRAGE", "SUCCESS", saga.MagasinID.String()).Inc()
}

func (m *PrometheusMetrics) RecordSagaStep(saga *domain.SagaCommande, etape, statut string) {
	m.sagaEtapes.WithLabelValues(etape, statut, saga.MagasinID.String()).Inc()
}

func (m *PrometheusMetrics) RecordSagaCompleted(saga *domain.SagaCommande, duree time.Duration) {
	m.sagaDuree.WithLabelValues(string(saga.EtatActuel), saga.MagasinID.String()).Observe(duree.Seconds())
	m.sagaEtapes.WithLabelValues("COMPLETION", "SUCCESS", saga.MagasinID.String()).Inc()
}

func (m *PrometheusMetrics) RecordSagaFailed(saga *domain.SagaCommande, typeEchec, etapeEchec string, duree time.Duration) {
	m.sagaEchecs.WithLabelValues(typeEchec, etapeEchec, saga.MagasinID.String()).Inc()
	m.sagaDuree.WithLabelValues(string(saga.EtatActuel), saga.MagasinID.String()).Observe(duree.Seconds())
}

func (m *PrometheusMetrics) RecordCompensation(saga *domain.SagaCommande, typeCompensation string) {
	m.sagaCompensations.WithLabelValues(typeCompensation, saga.MagasinID.String()).Inc()
}

func (m *PrometheusMetrics) RecordExternalServiceCall(service, endpoint string, statusCode int, duree time.Duration) {
	m.externalCalls.WithLabelValues(service, endpoint, strconv.Itoa(statusCode)).Inc()
	m.externalDuree.WithLabelValues(service, endpoint).Observe(duree.Seconds())
}

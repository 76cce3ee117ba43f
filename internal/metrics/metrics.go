// Package metrics define los collectors Prometheus del servicio. Los
// contadores son globales del paquete, como en client_golang; Register los
// engancha a un registry.
package metrics

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SubscriptionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hellolist_subscriptions_total",
		Help: "Registros de suscriptores por resultado",
	}, []string{"result"}) // ok|invalid|storage_error|delivery_error

	ConfirmationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hellolist_confirmations_total",
		Help: "Confirmaciones por resultado",
	}, []string{"result"}) // ok|unknown_token|storage_error

	NewsletterDeliveriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hellolist_newsletter_deliveries_total",
		Help: "Envíos de newsletter por destinatario",
	}, []string{"result"}) // sent|skipped|failed

	PasswordVerifySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "hellolist_password_verify_seconds",
		Help:    "Duración de la verificación de password (incluye hash dummy)",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
	})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Número total de requests procesadas",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latencia de los requests HTTP",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	HTTPInflight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "http_inflight_requests",
		Help: "Requests en vuelo por método",
	}, []string{"method"})
)

// Sources son lecturas opcionales que se exponen como gauges.
type Sources struct {
	DBStats      func() sql.DBStats
	HashInFlight func() int64
	HashWorkers  int
}

// Register registra todas las métricas en reg (DefaultRegisterer si es nil)
// y devuelve el handler para /metrics.
func Register(reg prometheus.Registerer, src Sources) (http.Handler, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	collectors := []prometheus.Collector{
		SubscriptionsTotal,
		ConfirmationsTotal,
		NewsletterDeliveriesTotal,
		PasswordVerifySeconds,
		HTTPRequestsTotal,
		HTTPRequestDuration,
		HTTPInflight,
	}
	if src.DBStats != nil {
		collectors = append(collectors, newDBStatsCollector(src.DBStats))
	}
	if src.HashInFlight != nil {
		collectors = append(collectors,
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Name: "hellolist_hash_workers_inflight",
				Help: "Verificaciones de password en curso",
			}, func() float64 { return float64(src.HashInFlight()) }),
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Name: "hellolist_hash_workers",
				Help: "Tamaño del pool de verificación",
			}, func() float64 { return float64(src.HashWorkers) }),
		)
	}
	for _, c := range collectors {
		if err := registerCollector(reg, c); err != nil {
			return nil, err
		}
	}

	if g, ok := reg.(prometheus.Gatherer); ok {
		return promhttp.HandlerFor(g, promhttp.HandlerOpts{}), nil
	}
	return promhttp.Handler(), nil
}

// registerCollector registra el collector, ignorando duplicados.
func registerCollector(reg prometheus.Registerer, collector prometheus.Collector) error {
	if err := reg.Register(collector); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}

func RecordSubscription(result string) { SubscriptionsTotal.WithLabelValues(result).Inc() }
func RecordConfirmation(result string) { ConfirmationsTotal.WithLabelValues(result).Inc() }
func RecordDelivery(result string)     { NewsletterDeliveriesTotal.WithLabelValues(result).Inc() }

func ObservePasswordVerify(d time.Duration) { PasswordVerifySeconds.Observe(d.Seconds()) }

// dbStatsCollector expone sql.DBStats del pool principal.
type dbStatsCollector struct {
	stats func() sql.DBStats

	openDesc    *prometheus.Desc
	inUseDesc   *prometheus.Desc
	idleDesc    *prometheus.Desc
	waitDesc    *prometheus.Desc
	waitDurDesc *prometheus.Desc
}

func newDBStatsCollector(stats func() sql.DBStats) *dbStatsCollector {
	return &dbStatsCollector{
		stats:       stats,
		openDesc:    prometheus.NewDesc("hellolist_db_open_connections", "Conexiones abiertas", nil, nil),
		inUseDesc:   prometheus.NewDesc("hellolist_db_in_use_connections", "Conexiones en uso", nil, nil),
		idleDesc:    prometheus.NewDesc("hellolist_db_idle_connections", "Conexiones inactivas", nil, nil),
		waitDesc:    prometheus.NewDesc("hellolist_db_wait_count_total", "Esperas por conexión", nil, nil),
		waitDurDesc: prometheus.NewDesc("hellolist_db_wait_seconds_total", "Tiempo total esperando conexión", nil, nil),
	}
}

func (c *dbStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.openDesc
	ch <- c.inUseDesc
	ch <- c.idleDesc
	ch <- c.waitDesc
	ch <- c.waitDurDesc
}

func (c *dbStatsCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()
	ch <- prometheus.MustNewConstMetric(c.openDesc, prometheus.GaugeValue, float64(s.OpenConnections))
	ch <- prometheus.MustNewConstMetric(c.inUseDesc, prometheus.GaugeValue, float64(s.InUse))
	ch <- prometheus.MustNewConstMetric(c.idleDesc, prometheus.GaugeValue, float64(s.Idle))
	ch <- prometheus.MustNewConstMetric(c.waitDesc, prometheus.CounterValue, float64(s.WaitCount))
	ch <- prometheus.MustNewConstMetric(c.waitDurDesc, prometheus.CounterValue, s.WaitDuration.Seconds())
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	productsUpsertedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_products_upserted_total",
			Help: "Products written to the store by ingest runs.",
		},
	)
	productsFailedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_products_failed_total",
			Help: "Products rejected or failed during ingest runs.",
		},
	)
	ingestRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_runs_total",
			Help: "Ingest runs by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(productsUpsertedTotal)
	prometheus.MustRegister(productsFailedTotal)
	prometheus.MustRegister(ingestRunsTotal)
}

// RecordIngestRun records per-run totals once an ingest run finishes.
func RecordIngestRun(upserted, failed int, err error) {
	productsUpsertedTotal.Add(float64(upserted))
	productsFailedTotal.Add(float64(failed))

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	ingestRunsTotal.WithLabelValues(outcome).Inc()
}

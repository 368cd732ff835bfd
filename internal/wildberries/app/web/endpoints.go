package web

import (
	"net/http"

	"wbsearch_api/internal/wildberries/app/web/handlers"
	"wbsearch_api/metrics"
	"wbsearch_api/pkg/middleware"
)

// SetupRoutes wires the product API and the metrics endpoint behind the
// Prometheus middleware.
func SetupRoutes(productHandler *handlers.ProductHandler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/products/", productHandler.ProductsHandler)
	mux.Handle("/metrics", metrics.MetricsHandler())

	return middleware.PrometheusMiddleware(mux)
}

package handler

import (
	"fmt"
	"net/http"

	"github.com/foundly/foundly/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "foundly_users_registered_total %d\n", snap.UsersRegistered)
	writeMetric(w, "foundly_logins_total{status=\"success\"} %d\n", snap.LoginsSucceeded)
	writeMetric(w, "foundly_logins_total{status=\"failure\"} %d\n", snap.LoginsFailed)
	writeMetric(w, "foundly_tokens_refreshed_total %d\n", snap.TokensRefreshed)

	writeMetric(w, "foundly_items_created_total %d\n", snap.ItemsCreated)
	writeMetric(w, "foundly_items_deleted_total %d\n", snap.ItemsDeleted)
	writeMetric(w, "foundly_items_returned_total %d\n", snap.ItemsReturned)

	writeMetric(w, "foundly_searches_total{mode=\"keywords\"} %d\n", snap.SearchesByKeywords)
	writeMetric(w, "foundly_searches_total{mode=\"message\"} %d\n", snap.SearchesByMessage)
	writeMetric(w, "foundly_keyword_cache_hits_total %d\n", snap.KeywordCacheHits)
	writeMetric(w, "foundly_keyword_cache_misses_total %d\n", snap.KeywordCacheMisses)
	writeMetric(w, "foundly_keyword_extraction_duration_seconds_count %d\n", snap.ExtractionCount)
	writeMetric(w, "foundly_keyword_extraction_duration_seconds_sum %.6f\n", float64(snap.ExtractionTotalNs)/1e9)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}

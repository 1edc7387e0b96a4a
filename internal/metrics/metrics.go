package metrics

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rpeek_fetches_total",
			Help: "Total number of chunk fetches by kind and result",
		},
		[]string{"kind", "result"}, // byte-window, line-batch; ok, error
	)

	BytesRead = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rpeek_bytes_read_total",
		Help: "Total bytes read from previewed files",
	})

	FetchLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rpeek_fetch_latency_seconds",
			Help:    "Latency of a single open/read/close chunk fetch",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	FetchesInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rpeek_fetches_in_flight",
		Help: "Fetches issued by the scheduler and not yet applied",
	})

	DuplicateFetchesSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rpeek_duplicate_fetches_skipped_total",
		Help: "Fetches not issued because the same window was already pending",
	})

	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rpeek_cache_lookups_total",
			Help: "Row/line cache lookups by cache and outcome",
		},
		[]string{"cache", "outcome"}, // rows, lines; hit, miss
	)

	CacheEvictions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rpeek_cache_evictions_total",
			Help: "Entries evicted from the bounded row/line caches",
		},
		[]string{"cache"},
	)
)

var registerOnce sync.Once

// Register adds the collectors to the default registry once per process.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			FetchesTotal,
			BytesRead,
			FetchLatency,
			FetchesInFlight,
			DuplicateFetchesSkipped,
			CacheLookups,
			CacheEvictions,
		)
	})
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string) error {
	Register()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

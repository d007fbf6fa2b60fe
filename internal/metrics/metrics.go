// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics records fetch run metrics in a private Prometheus registry
// and exports them in the node_exporter textfile format. A short-lived CLI
// has nothing to scrape, so the registry is written to disk once per run.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fedi_archive"

// Recorder holds the metrics of one run. It satisfies mastodon.RequestObserver.
type Recorder struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	statusesFetched prometheus.Gauge
	statusesStored  prometheus.Gauge
	duplicates      prometheus.Gauge
	lastSuccess     prometheus.Gauge
}

// NewRecorder creates a Recorder backed by a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total API requests by endpoint and HTTP status code (0 when no response)",
		}, []string{"endpoint", "code"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "API request duration in seconds by endpoint",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"endpoint"}),
		statusesFetched: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "statuses_fetched",
			Help:      "Statuses returned by the server in the last run",
		}),
		statusesStored: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "statuses_archived",
			Help:      "Statuses held by the archive after the last run",
		}),
		duplicates: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "duplicates_dropped",
			Help:      "Repeated status ids dropped while merging in the last run",
		}),
		lastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run",
		}),
	}
}

// ObserveRequest records one API request.
func (r *Recorder) ObserveRequest(endpoint string, statusCode int, duration time.Duration) {
	r.requestsTotal.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
	r.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// SetFetched records how many statuses the server returned.
func (r *Recorder) SetFetched(n int) {
	r.statusesFetched.Set(float64(n))
}

// SetArchived records the archive size after merging.
func (r *Recorder) SetArchived(n int) {
	r.statusesStored.Set(float64(n))
}

// SetDropped records how many duplicates were dropped.
func (r *Recorder) SetDropped(n int) {
	r.duplicates.Set(float64(n))
}

// MarkSuccess stamps the run as successful at t.
func (r *Recorder) MarkSuccess(t time.Time) {
	r.lastSuccess.Set(float64(t.Unix()))
}

// Gatherer exposes the underlying registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes every metric to path in the text exposition format.
// The write is atomic so a collector never reads a partial file.
func (r *Recorder) WriteTextfile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create metrics directory: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

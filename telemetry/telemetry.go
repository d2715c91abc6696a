package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/armon/go-metrics"
	prometheusMetrics "github.com/armon/go-metrics/prometheus"
	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
	"gopkg.in/DataDog/dd-trace-go.v1/profiler"
)

// TelemetryConfig wires the two supported metric backends. An empty address
// disables that backend, so a zero config turns telemetry off entirely.
type TelemetryConfig struct {
	PrometheusAddr string        `json:"prometheusAddr"` // scrape endpoint listen address, e.g. 0.0.0.0:5001
	DataDogAddr    string        `json:"dataDogAddr"`    // datadog agent address, e.g. localhost:8126
	PullTime       time.Duration `json:"pullTime"`       // state gauge refresh period
}

func (config TelemetryConfig) IsEnabled() bool {
	return config.PrometheusAddr != "" || config.DataDogAddr != ""
}

// Telemetry runs the configured metric backends: a Prometheus scrape server
// and the DataDog profiler/tracer pair. Counters and gauges reach them
// through the global go-metrics fanout sink registered on Start.
type Telemetry struct {
	config           TelemetryConfig
	prometheusServer *http.Server
	logger           hclog.Logger
}

func NewTelemetry(config TelemetryConfig, logger hclog.Logger) *Telemetry {
	return &Telemetry{
		config: config,
		logger: logger,
	}
}

func (t *Telemetry) IsEnabled() bool {
	return t.config.IsEnabled()
}

func (t *Telemetry) Start() error {
	if !t.config.IsEnabled() {
		return nil
	}

	if err := registerMetricsSink(); err != nil {
		return fmt.Errorf("failed to register metrics sink: %w", err)
	}

	if t.config.DataDogAddr != "" {
		if err := t.startDataDog(); err != nil {
			return err
		}
	}

	if t.config.PrometheusAddr != "" {
		t.prometheusServer = &http.Server{
			Addr: t.config.PrometheusAddr,
			Handler: promhttp.InstrumentMetricHandler(
				prometheus.DefaultRegisterer,
				promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{}),
			),
			ReadHeaderTimeout: 60 * time.Second,
		}

		go t.servePrometheus()
	}

	return nil
}

func (t *Telemetry) Close(ctx context.Context) error {
	if t.prometheusServer != nil {
		t.logger.Info("prometheus server stopping", "addr", t.prometheusServer.Addr)

		if err := t.prometheusServer.Shutdown(ctx); err != nil {
			return err
		}
	}

	if t.config.DataDogAddr != "" {
		profiler.Stop()
		tracer.Stop()
	}

	return nil
}

func (t *Telemetry) servePrometheus() {
	t.logger.Info("prometheus server started", "addr", t.config.PrometheusAddr)

	if err := t.prometheusServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		t.logger.Error("prometheus server error", "err", err)
	}
}

func (t *Telemetry) startDataDog() error {
	err := profiler.Start(
		profiler.WithProfileTypes(
			profiler.CPUProfile,
			profiler.HeapProfile,
			profiler.BlockProfile,
			profiler.MutexProfile,
			profiler.GoroutineProfile,
			profiler.MetricsProfile,
		),
		profiler.WithAgentAddr(t.config.DataDogAddr),
	)
	if err != nil {
		return fmt.Errorf("failed to start datadog profiler: %w", err)
	}

	tracer.Start()

	t.logger.Info("datadog profiler started", "addr", t.config.DataDogAddr)

	return nil
}

// registerMetricsSink installs the global fanout sink feeding both an in
// memory snapshot (dumpable via the go-metrics signal handler) and the
// default prometheus registry.
func registerMetricsSink() error {
	inm := metrics.NewInmemSink(10*time.Second, time.Minute)
	metrics.DefaultInmemSignal(inm)

	promSink, err := prometheusMetrics.NewPrometheusSinkFrom(prometheusMetrics.PrometheusOpts{
		Name: "move_bridge_prometheus_sink",
	})
	if err != nil {
		return err
	}

	metricsConf := metrics.DefaultConfig("move_bridge")
	metricsConf.EnableHostname = false

	_, err = metrics.NewGlobal(metricsConf, metrics.FanoutSink{inm, promSink})

	return err
}

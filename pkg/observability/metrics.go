package observability

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Metrics holds the process-wide instruments. A zero-value Metrics (or nil)
// records nothing, so callers never need to branch on whether metrics are
// enabled.
type Metrics struct {
	runDuration   metric.Float64Histogram
	runs          metric.Int64Counter
	runIterations metric.Int64Histogram
	toolDuration  metric.Float64Histogram
	toolCalls     metric.Int64Counter
	toolErrors    metric.Int64Counter
	llmRequests   metric.Int64Counter
	llmErrors     metric.Int64Counter
}

var (
	globalMetrics   *Metrics
	globalMetricsMu sync.RWMutex
)

// InitMetrics wires the OpenTelemetry meter to a Prometheus exporter and
// installs the global Metrics recorder.
func InitMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		return &Metrics{}, nil
	}

	promExporter, err := otelprom.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(promExporter),
	)
	meter := meterProvider.Meter(DefaultServiceName)

	m := &Metrics{}

	if m.runDuration, err = meter.Float64Histogram(
		"auditor_agent_run_duration_seconds",
		metric.WithDescription("Agent run duration in seconds"),
	); err != nil {
		return nil, fmt.Errorf("failed to create run duration histogram: %w", err)
	}

	if m.runs, err = meter.Int64Counter(
		"auditor_agent_runs_total",
		metric.WithDescription("Total agent runs by final status"),
	); err != nil {
		return nil, fmt.Errorf("failed to create runs counter: %w", err)
	}

	if m.runIterations, err = meter.Int64Histogram(
		"auditor_agent_run_iterations",
		metric.WithDescription("Reasoning iterations per run"),
	); err != nil {
		return nil, fmt.Errorf("failed to create iterations histogram: %w", err)
	}

	if m.toolDuration, err = meter.Float64Histogram(
		"auditor_tool_execution_duration_seconds",
		metric.WithDescription("Tool execution duration in seconds"),
	); err != nil {
		return nil, fmt.Errorf("failed to create tool duration histogram: %w", err)
	}

	if m.toolCalls, err = meter.Int64Counter(
		"auditor_tool_calls_total",
		metric.WithDescription("Total tool calls"),
	); err != nil {
		return nil, fmt.Errorf("failed to create tool calls counter: %w", err)
	}

	if m.toolErrors, err = meter.Int64Counter(
		"auditor_tool_errors_total",
		metric.WithDescription("Total failed tool calls"),
	); err != nil {
		return nil, fmt.Errorf("failed to create tool errors counter: %w", err)
	}

	if m.llmRequests, err = meter.Int64Counter(
		"auditor_llm_requests_total",
		metric.WithDescription("Total completion requests"),
	); err != nil {
		return nil, fmt.Errorf("failed to create llm requests counter: %w", err)
	}

	if m.llmErrors, err = meter.Int64Counter(
		"auditor_llm_errors_total",
		metric.WithDescription("Total failed completion requests"),
	); err != nil {
		return nil, fmt.Errorf("failed to create llm errors counter: %w", err)
	}

	SetGlobalMetrics(m)
	return m, nil
}

func SetGlobalMetrics(m *Metrics) {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	globalMetrics = m
}

func GetGlobalMetrics() *Metrics {
	globalMetricsMu.RLock()
	defer globalMetricsMu.RUnlock()
	return globalMetrics
}

// RecordToolExecution records one tool invocation.
func (m *Metrics) RecordToolExecution(ctx context.Context, toolName string, duration time.Duration, err error) {
	if m == nil || m.toolCalls == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(AttrToolName, toolName))
	m.toolCalls.Add(ctx, 1, attrs)
	m.toolDuration.Record(ctx, duration.Seconds(), attrs)
	if err != nil {
		m.toolErrors.Add(ctx, 1, attrs)
	}
}

// RecordAgentRun records one completed reasoning run.
func (m *Metrics) RecordAgentRun(ctx context.Context, status string, iterations int, duration time.Duration) {
	if m == nil || m.runs == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(AttrRunStatus, status))
	m.runs.Add(ctx, 1, attrs)
	m.runDuration.Record(ctx, duration.Seconds(), attrs)
	m.runIterations.Record(ctx, int64(iterations), attrs)
}

// RecordLLMRequest records one completion request.
func (m *Metrics) RecordLLMRequest(ctx context.Context, model string, err error) {
	if m == nil || m.llmRequests == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(AttrLLMModel, model))
	m.llmRequests.Add(ctx, 1, attrs)
	if err != nil {
		m.llmErrors.Add(ctx, 1, attrs)
	}
}

// ServeMetrics exposes the Prometheus scrape endpoint. It blocks, so run it
// in a goroutine.
func ServeMetrics(cfg MetricsConfig) {
	if !cfg.Enabled {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("Serving Prometheus metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("Metrics server failed", "error", err)
	}
}

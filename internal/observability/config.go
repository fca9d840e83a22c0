package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"thracker/internal/ai"
	"thracker/internal/config"
)

// GetObservabilityConfig creates observability config from provided config
func GetObservabilityConfig(cfg *config.Config, version string) ObservabilityConfig {
	if cfg == nil {
		// Fallback to defaults if config not available
		return ObservabilityConfig{
			ServiceName:    "thracker",
			ServiceVersion: version,
			Enabled:        true,
			ConsoleOutput:  true,
			PrettyPrint:    true,
			SampleRate:     1.0,
			Prometheus:     GetPrometheusConfig(cfg),
		}
	}

	obsConfig := cfg.Observability

	// Use app version if service version not specified
	serviceVersion := obsConfig.ServiceVersion
	if serviceVersion == "" {
		serviceVersion = version
	}

	return ObservabilityConfig{
		ServiceName:    obsConfig.ServiceName,
		ServiceVersion: serviceVersion,
		Enabled:        obsConfig.Enabled,
		ConsoleOutput:  obsConfig.ConsoleOutput,
		PrettyPrint:    obsConfig.Console.PrettyPrint,
		SampleRate:     obsConfig.SampleRate,
		Prometheus: PrometheusConfig{
			Enabled:  obsConfig.Prometheus.Enabled,
			Endpoint: obsConfig.Prometheus.Endpoint,
			Port:     obsConfig.Prometheus.Port,
		},
	}
}

// PipelineObserver adapts the observability manager to the copilot runner's
// stage observer contract, recording AI and business metrics per stage.
type PipelineObserver struct {
	manager *ObservabilityManager
}

// NewPipelineObserver creates an observer backed by the given manager
func NewPipelineObserver(manager *ObservabilityManager) *PipelineObserver {
	return &PipelineObserver{manager: manager}
}

// ObserveStage records metrics for one completed pipeline stage
func (po *PipelineObserver) ObserveStage(stage string, duration time.Duration, usage *ai.TokenUsage, errMsg string) {
	if po == nil || po.manager == nil {
		return
	}

	ctx := context.Background()
	metrics := po.manager.GetMetrics()
	failed := errMsg != ""

	var tokenUsage *TokenUsage
	if usage != nil {
		tokenUsage = &TokenUsage{
			InputTokens:  usage.InputTokens,
			OutputTokens: usage.OutputTokens,
			TotalTokens:  usage.TotalTokens,
		}
	}

	metrics.RecordStageMetrics(ctx, stage, duration, tokenUsage, failed, po.manager)

	if failed {
		metrics.RecordBusinessMetric(ctx, "stage_failure", false, po.manager,
			attribute.String("stage", stage))
	}
}

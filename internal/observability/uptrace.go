package observability

import (
	"context"
	"strings"
	"time"

	"github.com/uptrace/uptrace-go/uptrace"

	"github.com/yfantasy-go/yfantasy/internal/config"
	"github.com/yfantasy-go/yfantasy/internal/platform/logging"
)

// InitUptrace configures the OpenTelemetry exporters when a DSN is present.
// The returned shutdown func is safe to call even when tracing is disabled.
func InitUptrace(ctx context.Context, cfg *config.Config, logger *logging.Logger) func(context.Context) {
	if cfg == nil || !cfg.UptraceEnabled || strings.TrimSpace(cfg.UptraceDSN) == "" {
		logger.InfoContext(ctx, "uptrace disabled, traces stay local")
		return func(context.Context) {}
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
	)
	logger.InfoContext(ctx, "uptrace configured",
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
		"env", cfg.AppEnv,
	)

	return func(shutdownCtx context.Context) {
		ctx, cancel := context.WithTimeout(shutdownCtx, 5*time.Second)
		defer cancel()
		if err := uptrace.Shutdown(ctx); err != nil {
			logger.Warn("uptrace shutdown failed", "error", err)
		}
	}
}

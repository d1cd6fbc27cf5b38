package observability

import (
	"strings"

	pyroscope "github.com/grafana/pyroscope-go"

	"github.com/yfantasy-go/yfantasy/internal/config"
	"github.com/yfantasy-go/yfantasy/internal/platform/logging"
)

// InitPyroscope starts the continuous profiler when enabled. The returned
// stop func is always non-nil.
func InitPyroscope(cfg *config.Config, logger *logging.Logger) func() {
	if cfg == nil || !cfg.PyroscopeEnabled || strings.TrimSpace(cfg.PyroscopeServerAddress) == "" {
		logger.Info("pyroscope disabled")
		return func() {}
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.ServiceName,
		ServerAddress:   cfg.PyroscopeServerAddress,
		Tags: map[string]string{
			"env":     cfg.AppEnv,
			"version": cfg.ServiceVersion,
		},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	if err != nil {
		logger.Warn("pyroscope start failed", "error", err)
		return func() {}
	}

	logger.Info("pyroscope profiling started", "server", cfg.PyroscopeServerAddress)
	return func() {
		if err := profiler.Stop(); err != nil {
			logger.Warn("pyroscope stop failed", "error", err)
		}
	}
}

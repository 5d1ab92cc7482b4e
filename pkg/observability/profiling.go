package observability

import (
	"os"
	"runtime"

	pyroscope "github.com/grafana/pyroscope-go"

	"clipstream-service/pkg/config"
	"clipstream-service/pkg/logger"
)

// StartProfiling attaches the process to a pyroscope server when enabled.
// Returns a stop function safe to call on shutdown.
func StartProfiling(cfg *config.Config) func() {
	if cfg == nil || !cfg.Observability.ProfilingEnabled {
		return func() {}
	}

	runtime.SetMutexProfileFraction(5)
	runtime.SetBlockProfileRate(5)

	hostname, _ := os.Hostname()
	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.Observability.ApplicationName,
		ServerAddress:   cfg.Observability.ServerAddress,
		Tags:            map[string]string{"hostname": hostname},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
			pyroscope.ProfileMutexCount,
			pyroscope.ProfileMutexDuration,
			pyroscope.ProfileBlockCount,
			pyroscope.ProfileBlockDuration,
		},
	})
	if err != nil {
		logger.Warnf("Failed to start profiling error=%v", err)
		return func() {}
	}

	logger.Infof("Profiling started server=%s app=%s", cfg.Observability.ServerAddress, cfg.Observability.ApplicationName)
	return func() {
		_ = profiler.Stop()
	}
}

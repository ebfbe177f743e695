package protected

import "time"

// ShareLogEvent describes a registration attempt for logging.
type ShareLogEvent struct {
	Class    string
	Owner    string
	Members  int
	Duration time.Duration
	Err      error
}

// RegistryLogger records registration events.
type RegistryLogger interface {
	LogShare(ShareLogEvent)
}

// RegistryLoggerFunc adapts a function to RegistryLogger.
type RegistryLoggerFunc func(ShareLogEvent)

// LogShare implements RegistryLogger.
func (f RegistryLoggerFunc) LogShare(event ShareLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopRegistryLogger struct{}

func (noopRegistryLogger) LogShare(ShareLogEvent) {}

// WithRegistryLogger attaches a registration logger to the registry.
func WithRegistryLogger(logger RegistryLogger) RegistryOption {
	return func(cfg *registryConfig) {
		if logger == nil {
			cfg.logger = noopRegistryLogger{}
			return
		}
		cfg.logger = logger
	}
}

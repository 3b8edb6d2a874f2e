package display

import (
	"fmt"
	"log/slog"
)

// New creates and initializes the backend named by cfg.Backend. A pinned
// backend that fails to initialize is an error; use Select for the
// fall-through behavior.
func New(cfg Config, logger *slog.Logger) (Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Backend {
	case KindAuto:
		return Select(cfg, logger), nil
	case KindSPI:
		return initialized(newHardwareBackend(logger), cfg)
	case KindFramebuffer:
		return initialized(newFramebufferBackend(logger), cfg)
	case KindSimulated:
		return initialized(NewSimulated(logger), cfg)
	default:
		return nil, fmt.Errorf("unsupported backend: %s", cfg.Backend)
	}
}

func initialized(b Backend, cfg Config) (Backend, error) {
	if err := b.Initialize(cfg); err != nil {
		return nil, err
	}
	return b, nil
}

// Select probes the backends in priority order (SPI, framebuffer,
// simulated) and returns the first one that initializes. Failed attempts
// are logged and skipped. The simulated backend cannot fail, so Select
// always returns a usable backend.
func Select(cfg Config, logger *slog.Logger) Backend {
	if logger == nil {
		logger = slog.Default()
	}

	candidates := []Backend{
		newHardwareBackend(logger),
		newFramebufferBackend(logger),
	}
	for _, b := range candidates {
		if err := b.Initialize(cfg); err != nil {
			logger.Warn("display backend unavailable",
				"backend", b.Kind(),
				"error", err,
			)
			continue
		}
		logger.Info("display backend selected", "backend", b.Kind())
		return b
	}

	sim := NewSimulated(logger)
	_ = sim.Initialize(cfg) // the simulated backend accepts any config
	logger.Info("display backend selected", "backend", sim.Kind())
	return sim
}

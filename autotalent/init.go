package autotalent

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	initMu        sync.Mutex
	initialized   bool
	defaultLogger *log.Logger
)

// InitOption configures process-wide initialization.
type InitOption func(*initConfig)

type initConfig struct {
	logger *log.Logger
	level  log.Level
	set    bool
}

// WithDefaultLogger sets the logger new sessions derive theirs from.
func WithDefaultLogger(l *log.Logger) InitOption {
	return func(cfg *initConfig) {
		if l != nil {
			cfg.logger = l
		}
	}
}

// WithLogLevel sets the level of the default logger.
func WithLogLevel(level log.Level) InitOption {
	return func(cfg *initConfig) {
		cfg.level = level
		cfg.set = true
	}
}

// Init prepares the package for use. It must be called before the first
// New; later calls are no-ops and ignore their options.
func Init(opts ...InitOption) error {
	initMu.Lock()
	defer initMu.Unlock()

	if initialized {
		return nil
	}

	cfg := initConfig{level: log.WarnLevel}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.logger == nil {
		cfg.logger = log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "autotalent",
			Level:  cfg.level,
		})
	} else if cfg.set {
		cfg.logger.SetLevel(cfg.level)
	}

	defaultLogger = cfg.logger
	initialized = true
	defaultLogger.Debug("initialized")
	return nil
}

// Initialized reports whether Init has run.
func Initialized() bool {
	initMu.Lock()
	defer initMu.Unlock()
	return initialized
}

func packageLogger() (*log.Logger, bool) {
	initMu.Lock()
	defer initMu.Unlock()
	return defaultLogger, initialized
}

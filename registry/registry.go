// Package registry holds the contestant configuration registered for a
// benchmark run. Registration happens once; the list is read-only after.
package registry

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/weiihann/vdombench/contestant"
)

var (
	// ErrAlreadyRegistered is returned when a configuration was already
	// registered with the Registry.
	ErrAlreadyRegistered = errors.New("configuration already registered")
	// ErrNilConfig is returned when Register is called with nil.
	ErrNilConfig = errors.New("nil configuration")
)

// Registry stores the single configuration of a benchmark run.
type Registry struct {
	mu     sync.RWMutex
	cfg    *contestant.Config
	logger *slog.Logger
}

// New creates an empty Registry. A nil logger discards log output.
func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Registry{logger: logger}
}

// Register stores a copy of cfg. It does not validate cfg.
func (r *Registry) Register(cfg *contestant.Config) error {
	if cfg == nil {
		return ErrNilConfig
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cfg != nil {
		return ErrAlreadyRegistered
	}

	r.cfg = cfg.Clone()

	r.logger.Info("configuration registered",
		slog.String("tests", cfg.Tests),
		slog.Int("contestants", len(cfg.Contestants)),
	)

	return nil
}

// Config returns a copy of the registered configuration.
func (r *Registry) Config() (*contestant.Config, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.cfg == nil {
		return nil, false
	}

	return r.cfg.Clone(), true
}

// Contestants returns the registered contestants in display order.
func (r *Registry) Contestants() []contestant.Contestant {
	cfg, ok := r.Config()
	if !ok {
		return nil
	}

	return cfg.Contestants
}

// Tests returns the registered tests locator.
func (r *Registry) Tests() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.cfg == nil {
		return ""
	}

	return r.cfg.Tests
}

// Default is the process-wide registry targeted by Register.
var Default = New(nil)

// Register registers cfg with Default.
func Register(cfg *contestant.Config) error {
	return Default.Register(cfg)
}

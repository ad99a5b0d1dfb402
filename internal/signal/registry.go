package signal

import (
	"sync"

	"github.com/mantle-quant/mantle/internal/types"
	"github.com/mantle-quant/mantle/pkg/errors"
)

// Registry manages all available signals.
type Registry interface {
	RegisterSignal(signal Signal) error
	GetSignal(name types.SignalType) (Signal, error)
	ListSignals() []types.SignalType
	RemoveSignal(name types.SignalType) error
}

// RegistryV1 manages all available signals.
type RegistryV1 struct {
	signals map[types.SignalType]Signal
	mu      sync.RWMutex
}

// NewRegistry creates a new signal registry.
func NewRegistry() Registry {
	return &RegistryV1{
		signals: make(map[types.SignalType]Signal),
		mu:      sync.RWMutex{},
	}
}

// NewDefaultRegistry creates a registry pre-populated with every built-in
// signal at its default parameters.
func NewDefaultRegistry() Registry {
	registry := NewRegistry()

	// Registration of fresh built-ins cannot collide.
	_ = registry.RegisterSignal(NewMACrossover(DefaultMAFastPeriod, DefaultMASlowPeriod))
	_ = registry.RegisterSignal(NewMACD(DefaultMACDFastPeriod, DefaultMACDSlowPeriod, DefaultMACDSignalPeriod))
	_ = registry.RegisterSignal(NewDonchian(DefaultDonchianPeriod))
	_ = registry.RegisterSignal(NewADX(DefaultADXPeriod))

	return registry
}

// RegisterSignal adds a signal to the registry.
func (r *RegistryV1) RegisterSignal(signal Signal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := signal.Name()
	if _, exists := r.signals[name]; exists {
		return errors.Newf(errors.ErrCodeSignalAlreadyExists, "signal with name %s already registered", name)
	}

	r.signals[name] = signal

	return nil
}

// GetSignal retrieves a signal by name.
func (r *RegistryV1) GetSignal(name types.SignalType) (Signal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	signal, exists := r.signals[name]
	if !exists {
		return nil, errors.Newf(errors.ErrCodeSignalNotFound, "signal with name %s not found", name)
	}

	return signal, nil
}

// ListSignals returns a list of all registered signal names.
func (r *RegistryV1) ListSignals() []types.SignalType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]types.SignalType, 0, len(r.signals))
	for name := range r.signals {
		names = append(names, name)
	}

	return names
}

// RemoveSignal removes a signal from the registry.
func (r *RegistryV1) RemoveSignal(name types.SignalType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.signals[name]; !exists {
		return errors.Newf(errors.ErrCodeSignalNotFound, "signal with name %s not found", name)
	}

	delete(r.signals, name)

	return nil
}

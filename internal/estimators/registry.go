package estimators

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
)

var (
	// ErrNilFactory signals an attempt to register a nil factory.
	ErrNilFactory = errors.New("estimators: nil factory")
	// ErrEmptyKind indicates a registration with no kind value.
	ErrEmptyKind = errors.New("estimators: kind is required")
	// ErrDuplicateKind indicates a registration conflict.
	ErrDuplicateKind = errors.New("estimators: kind already registered")
	// ErrUnknownKind is returned by Build for unregistered kinds.
	ErrUnknownKind = errors.New("estimators: unknown kind")
)

// Factory builds a model from its decoded experiment parameters. The result is
// checked for Fit/Predict conformance by the caller, not here.
type Factory func(params map[string]any) (any, error)

// Registry stores factories keyed by estimator kind with concurrency safety.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

var defaultRegistry = NewRegistry()

func init() {
	defaultRegistry.MustRegister(KindDummyClassifier, NewDummyClassifier)
	defaultRegistry.MustRegister(KindDummyRegressor, NewDummyRegressor)
}

// DefaultRegistry returns the registry holding the built-in baseline kinds.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// NewRegistry constructs an empty estimator registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory for kind. Kinds are matched case-insensitively.
func (r *Registry) Register(kind string, factory Factory) error {
	if factory == nil {
		return ErrNilFactory
	}
	kind = normalizeKind(kind)
	if kind == "" {
		return ErrEmptyKind
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateKind, kind)
	}
	r.factories[kind] = factory
	return nil
}

// MustRegister wraps Register and panics on validation errors. Intended for init usage.
func (r *Registry) MustRegister(kind string, factory Factory) {
	if err := r.Register(kind, factory); err != nil {
		panic(err)
	}
}

// Build instantiates a model of the given kind.
func (r *Registry) Build(kind string, params map[string]any) (any, error) {
	r.mu.RLock()
	factory, ok := r.factories[normalizeKind(kind)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	model, err := factory(params)
	if err != nil {
		return nil, fmt.Errorf("estimators: build %s: %w", normalizeKind(kind), err)
	}
	return model, nil
}

// Kinds returns a sorted slice of all registered kinds.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// DecodeParams copies experiment parameters into out, rejecting unknown keys.
func DecodeParams(params map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(params)
}

func normalizeKind(kind string) string {
	return strings.ToLower(strings.TrimSpace(kind))
}

package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	lev "github.com/agnivade/levenshtein"
	"github.com/aretw0/fieldline/pkg/domain"
	"github.com/aretw0/fieldline/pkg/models"
	"github.com/aretw0/fieldline/pkg/ports"
)

// Factory builds a field evaluator from free-form parameters.
type Factory func(params map[string]any) (ports.FieldEvaluator, error)

// Registry maps model names to factories.
// New models are added here; the tracer never changes.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Default returns a registry with the built-in models: dipole, uniform, zero and scaled.
func Default() *Registry {
	r := NewRegistry()
	r.Register("dipole", models.NewDipole)
	r.Register("uniform", models.NewUniform)
	r.Register("zero", models.NewZero)
	r.Register("scaled", r.scaled)
	return r
}

// Register adds a model to the registry.
// If a model with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[strings.ToLower(name)] = fn
}

// Build looks up spec.Name and constructs the evaluator.
// Unknown names return domain.ErrUnknownModel, with a suggestion when one is close.
func (r *Registry) Build(spec domain.ModelSpec) (ports.FieldEvaluator, error) {
	name := strings.ToLower(strings.TrimSpace(spec.Name))

	r.mu.RLock()
	fn, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		if hint := r.suggest(name); hint != "" {
			return nil, fmt.Errorf("%w: %q (did you mean %q?)", domain.ErrUnknownModel, spec.Name, hint)
		}
		return nil, fmt.Errorf("%w: %q (available: %s)", domain.ErrUnknownModel, spec.Name, strings.Join(r.Names(), ", "))
	}

	ev, err := fn(spec.Params)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", name, err)
	}
	return ev, nil
}

// Names returns the registered model names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// suggest returns the closest registered name within an edit distance of 2.
func (r *Registry) suggest(name string) string {
	best, bestDist := "", 3
	for _, candidate := range r.Names() {
		if d := lev.ComputeDistance(name, candidate); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}

type scaledParams struct {
	Slot int              `mapstructure:"slot"`
	Base domain.ModelSpec `mapstructure:"base"`
}

// scaled builds models.Scaled around another registered model:
// {"slot": 0, "base": {"name": "uniform", "params": {...}}}.
func (r *Registry) scaled(params map[string]any) (ports.FieldEvaluator, error) {
	var p scaledParams
	if err := models.Decode(params, &p); err != nil {
		return nil, err
	}
	if p.Base.Name == "" {
		return nil, fmt.Errorf("scaled model requires a base model")
	}
	if p.Slot < 0 {
		return nil, fmt.Errorf("scale slot must be non-negative, got %d", p.Slot)
	}
	base, err := r.Build(p.Base)
	if err != nil {
		return nil, err
	}
	return models.Scaled{Base: base, Slot: p.Slot}, nil
}

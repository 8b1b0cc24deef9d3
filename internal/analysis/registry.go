package analysis

import (
	"fmt"
	"sort"
	"sync"

	"github.com/montanaflynn/stats"
)

// StatFunc is a pure statistic over one column's non-null values
type StatFunc func(values []float64) (float64, error)

// Registry maps statistic names to pure functions. New statistics are added
// by registering a function, not by extending the analyzer.
type Registry struct {
	mu    sync.RWMutex
	stats map[string]StatFunc
}

// NewRegistry creates a registry pre-loaded with the built-in statistics
func NewRegistry() *Registry {
	r := &Registry{stats: make(map[string]StatFunc)}
	r.Register("mean", func(v []float64) (float64, error) { return stats.Mean(v) })
	r.Register("median", func(v []float64) (float64, error) { return stats.Median(v) })
	r.Register("stddev", func(v []float64) (float64, error) { return stats.StandardDeviationSample(v) })
	r.Register("min", func(v []float64) (float64, error) { return stats.Min(v) })
	r.Register("max", func(v []float64) (float64, error) { return stats.Max(v) })
	r.Register("sum", func(v []float64) (float64, error) { return stats.Sum(v) })
	return r
}

// Register adds or replaces a named statistic
func (r *Registry) Register(name string, fn StatFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats[name] = fn
}

// Compute evaluates a named statistic
func (r *Registry) Compute(name string, values []float64) (float64, error) {
	r.mu.RLock()
	fn, ok := r.stats[name]
	r.mu.RUnlock()
	if !ok {
		return 0, fmt.Errorf("unknown statistic %q", name)
	}
	return fn(values)
}

// Names returns the registered statistic names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.stats))
	for name := range r.stats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

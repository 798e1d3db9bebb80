package source

import (
	"context"
	"fmt"

	"newsroom/internal/config"
	"newsroom/internal/domain"
)

// Request carries all parameters required to execute a fetch.
type Request struct {
	Category config.Category
	Limit    int
}

// Fetcher captures a single source implementation (Hacker News, Reddit, etc.).
// Implementations degrade to an empty item list on remote failure; the error
// is for the caller's log, never a reason to abort a run.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, req Request) ([]domain.NewsItem, error)
}

// Registry keeps a mapping from fetcher names to their implementations.
type Registry struct {
	fetchers map[string]Fetcher
	order    []string
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{fetchers: map[string]Fetcher{}}
}

// Register adds or replaces a fetcher implementation, preserving insertion order.
func (r *Registry) Register(f Fetcher) {
	if r.fetchers == nil {
		r.fetchers = map[string]Fetcher{}
	}
	if _, exists := r.fetchers[f.Name()]; !exists {
		r.order = append(r.order, f.Name())
	}
	r.fetchers[f.Name()] = f
}

// Resolve returns a fetcher by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Fetcher, error) {
	if f, ok := r.fetchers[name]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("fetcher %s is not registered", name)
}

// All returns the registered fetchers in registration order.
func (r *Registry) All() []Fetcher {
	all := make([]Fetcher, 0, len(r.order))
	for _, name := range r.order {
		all = append(all, r.fetchers[name])
	}
	return all
}

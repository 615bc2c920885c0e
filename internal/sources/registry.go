package sources

import (
	"github.com/openjobs/jobscout/internal/models"
	"github.com/samber/lo"
)

// Registry holds every registered adapter in a fixed order; search merge
// order follows registration order so results stay deterministic no
// matter which goroutine finishes first.
type Registry struct {
	adapters []Source
}

func NewRegistry(adapters ...Source) *Registry {
	return &Registry{adapters: adapters}
}

func (r *Registry) Register(adapter Source) {
	r.adapters = append(r.adapters, adapter)
}

// Resolve returns the adapters matching the requested tags, in registry
// order. An empty tag set means every registered adapter.
func (r *Registry) Resolve(tags []models.Source) []Source {
	if len(tags) == 0 {
		return r.adapters
	}

	return lo.Filter(r.adapters, func(adapter Source, _ int) bool {
		return lo.Contains(tags, adapter.Name())
	})
}

func (r *Registry) All() []Source {
	return r.adapters
}

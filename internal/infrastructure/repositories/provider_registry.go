package repositories

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	domainRepos "github.com/rios0rios0/automigrate/internal/domain/repositories"
)

// ErrUnknownProvider is returned by Get for a provider type nobody registered.
var ErrUnknownProvider = errors.New("unknown provider type")

// ProviderFactory builds a ProviderRepository authenticated with token.
type ProviderFactory func(token string) domainRepos.ProviderRepository

// ProviderRegistry maps provider types from the configuration ("github") to
// the factories that build them. It is safe for concurrent use.
type ProviderRegistry struct {
	mu        sync.RWMutex
	factories map[string]ProviderFactory
}

// NewProviderRegistry creates an empty provider registry.
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{factories: make(map[string]ProviderFactory)}
}

// Register binds a provider type to its factory, replacing any previous one.
func (r *ProviderRegistry) Register(providerType string, factory ProviderFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[providerType] = factory
}

// Get builds a provider of the given type authenticated with token.
func (r *ProviderRegistry) Get(providerType, token string) (domainRepos.ProviderRepository, error) {
	r.mu.RLock()
	factory, ok := r.factories[providerType]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownProvider, providerType, r.Names())
	}
	return factory(token), nil
}

// Names returns the registered provider types in lexical order.
func (r *ProviderRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

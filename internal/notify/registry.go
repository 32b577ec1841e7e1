package notify

import (
	"sort"
	"sync"
)

// Registry is a thread-safe MessengerRegistry.
type Registry struct {
	mu         sync.RWMutex
	messengers map[string]Messenger
}

func NewRegistry() *Registry {
	return &Registry{messengers: make(map[string]Messenger)}
}

func (r *Registry) Register(platform string, m Messenger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messengers[platform] = m
}

func (r *Registry) Get(platform string) (Messenger, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.messengers[platform]
	return m, ok
}

func (r *Registry) Platforms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	platforms := make([]string, 0, len(r.messengers))
	for p := range r.messengers {
		platforms = append(platforms, p)
	}
	sort.Strings(platforms)
	return platforms
}

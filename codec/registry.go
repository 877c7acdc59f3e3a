package codec

import "sync"

// Registry is a concurrency-safe codec table keyed by both name and
// Transfer Syntax UID.
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]Codec
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]Codec)}
}

var defaultRegistry = NewRegistry()

// Register adds a codec to the default registry.
func Register(c Codec) {
	defaultRegistry.Register(c)
}

// Get looks up a codec in the default registry by name or UID.
func Get(nameOrUID string) (Codec, error) {
	return defaultRegistry.Get(nameOrUID)
}

// List returns all codecs in the default registry.
func List() []Codec {
	return defaultRegistry.List()
}

// Register adds a codec under both its name and its UID.
func (r *Registry) Register(c Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codecs[c.Name()] = c
	r.codecs[c.UID()] = c
}

// Get looks up a codec by name or UID.
func (r *Registry) Get(nameOrUID string) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.codecs[nameOrUID]
	if !ok {
		return nil, ErrCodecNotFound
	}
	return c, nil
}

// List returns the registered codecs, deduplicated across the two
// keys each codec is stored under.
func (r *Registry) List() []Codec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[Codec]bool, len(r.codecs))
	codecs := make([]Codec, 0, len(r.codecs)/2)
	for _, c := range r.codecs {
		if !seen[c] {
			seen[c] = true
			codecs = append(codecs, c)
		}
	}
	return codecs
}

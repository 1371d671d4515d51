package engine

import (
	"path/filepath"
	"sync"
)

// NameRegistry remembers, for the lifetime of the process, the original file
// name behind every encrypted path this process produced.
//
// Decryption does not consult it: restored names come from stripping Suffix.
type NameRegistry struct {
	mu    sync.RWMutex
	names map[string]string
}

// NewNameRegistry returns an empty registry.
func NewNameRegistry() *NameRegistry {
	return &NameRegistry{names: make(map[string]string)}
}

// Record stores the original name for an encrypted path.
func (r *NameRegistry) Record(encryptedPath, originalName string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.names[filepath.Clean(encryptedPath)] = originalName
}

// Lookup returns the original name recorded for an encrypted path.
func (r *NameRegistry) Lookup(encryptedPath string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.names[filepath.Clean(encryptedPath)]

	return name, ok
}

// Len returns the number of recorded entries.
func (r *NameRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.names)
}

package sollib

import "sync"

// MemStore is an in-memory Store. It backs tests and acts as a
// last-resort fallback when no database path is available.
type MemStore struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{m: make(map[string]string)}
}

func (s *MemStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *MemStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *MemStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

// Update applies fn under the write lock. On error the previous
// contents are restored, so a failed mutation is never partially
// visible.
func (s *MemStore) Update(fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	backup := make(map[string]string, len(s.m))
	for k, v := range s.m {
		backup[k] = v
	}
	if err := fn(memTx{s}); err != nil {
		s.m = backup
		return err
	}
	return nil
}

func (s *MemStore) Close() error { return nil }

// memTx operates on the store map directly; the Update write lock is
// already held.
type memTx struct{ s *MemStore }

func (t memTx) Get(key string) (string, bool, error) {
	v, ok := t.s.m[key]
	return v, ok, nil
}

func (t memTx) Set(key, value string) error {
	t.s.m[key] = value
	return nil
}

func (t memTx) Delete(key string) error {
	delete(t.s.m, key)
	return nil
}

var _ Store = (*MemStore)(nil)

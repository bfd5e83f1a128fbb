// Package chunkstore implements the chunk registry: the owned-byte-buffer
// handle table used to ferry body bytes across the host/engine boundary
// without requiring pointer lifetime arguments in the command protocol.
package chunkstore

import "sync"

// Store maps chunk IDs to owned byte buffers. It is safe for concurrent use
// by multiple transactions.
type Store struct {
	mu      sync.Mutex
	nextID  uint32
	buffers map[uint32][]byte
}

// New creates an empty chunk store. IDs are allocated starting at 1; 0 is
// reserved as the "no such chunk" sentinel.
func New() *Store {
	return &Store{
		nextID:  1,
		buffers: make(map[uint32][]byte),
	}
}

// Intern copies data into an owned buffer and returns a freshly allocated,
// non-zero chunk ID. IDs are allocated monotonically and wrap past zero
// (skipping 0) rather than being reused while still live, so that test
// diagnostics referencing a chunk ID stay unambiguous.
func (s *Store) Intern(data []byte) uint32 {
	owned := make([]byte, len(data))
	copy(owned, data)

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	for {
		s.nextID++
		if s.nextID == 0 {
			s.nextID = 1
		}
		if _, live := s.buffers[id]; !live {
			break
		}
		id = s.nextID
	}
	s.buffers[id] = owned
	return id
}

// GetCopy returns a freshly allocated copy of the chunk's bytes, or nil if
// the ID is not live. The engine-side buffer is unaffected; callers must
// still call Release to drop it.
func (s *Store) GetCopy(id uint32) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned, ok := s.buffers[id]
	if !ok {
		return nil
	}
	out := make([]byte, len(owned))
	copy(out, owned)
	return out
}

// GetLength returns the length of the chunk's bytes, or 0 if the ID is not
// live.
func (s *Store) GetLength(id uint32) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned, ok := s.buffers[id]
	if !ok {
		return 0
	}
	return uint32(len(owned))
}

// Release drops the owned buffer for id. Releasing an unknown or already
// released ID is a no-op; double release beyond that is undefined per the
// chunk ownership contract and is not guarded against here.
func (s *Store) Release(id uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buffers, id)
}

// Len reports the number of chunks currently live. Used by tests asserting
// no chunk leaks remain after a transaction's lifecycle completes.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buffers)
}

package engine

import "sync"

// chunkTracker records chunk IDs a transaction has interned and pushed
// onto its command queue but that the host has not yet polled out. On
// Free, anything still tracked here was never handed to the host and
// must be released by the engine itself, per the "queued chunks are
// released" rule; anything already delivered becomes the host's to
// release via ReleaseChunk.
type chunkTracker struct {
	mu  sync.Mutex
	ids map[uint32]struct{}
}

func (t *chunkTracker) track(id uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ids == nil {
		t.ids = make(map[uint32]struct{})
	}
	t.ids[id] = struct{}{}
}

func (t *chunkTracker) delivered(id uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.ids, id)
}

// drain returns every still-undelivered chunk ID and forgets them.
func (t *chunkTracker) drain() []uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]uint32, 0, len(t.ids))
	for id := range t.ids {
		ids = append(ids, id)
	}
	t.ids = nil
	return ids
}

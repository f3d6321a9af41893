package lock

import (
	"context"
	"sync"
)

type localEntry struct {
	ch   chan struct{}
	refs int
}

// LocalLocker keeps keyed locks in process memory. It is enough for the
// desktop build where a single process owns the database.
type LocalLocker struct {
	mu      sync.Mutex
	entries map[string]*localEntry
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{entries: make(map[string]*localEntry)}
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	entry, ok := l.entries[key]
	if !ok {
		entry = &localEntry{ch: make(chan struct{}, 1)}
		l.entries[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	select {
	case entry.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, entry)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-entry.ch
			l.release(key, entry)
		})
	}, nil
}

// release drops a reference and forgets the key once nobody waits on it
func (l *LocalLocker) release(key string, entry *localEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, key)
	}
}

package stream

import "sync"

// KeyedLock serializes work per key. A second exchange on the same thread
// waits for the first to finish; exchanges on different threads proceed
// concurrently. Entries are reference counted so the map does not grow with
// the number of threads ever seen.
type KeyedLock struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedLock() *KeyedLock {
	return &KeyedLock{
		locks: make(map[string]*lockEntry),
	}
}

func (l *KeyedLock) Lock(key string) {
	l.mu.Lock()
	entry, ok := l.locks[key]
	if !ok {
		entry = &lockEntry{}
		l.locks[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
}

func (l *KeyedLock) Unlock(key string) {
	l.mu.Lock()
	entry, ok := l.locks[key]
	if !ok {
		l.mu.Unlock()
		panic("stream: unlock of unheld key " + key)
	}
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, key)
	}
	l.mu.Unlock()

	entry.mu.Unlock()
}

package stream

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestKeyedLockSerializesSameKey(t *testing.T) {
	l := NewKeyedLock()

	var active int32
	var peak int32
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Lock("thread-1")
			defer l.Unlock("thread-1")

			now := atomic.AddInt32(&active, 1)
			if now > atomic.LoadInt32(&peak) {
				atomic.StoreInt32(&peak, now)
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&active, -1)
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&peak); got != 1 {
		t.Errorf("peak concurrent holders = %d, want 1", got)
	}
}

func TestKeyedLockIndependentKeys(t *testing.T) {
	l := NewKeyedLock()
	l.Lock("thread-a")
	defer l.Unlock("thread-a")

	acquired := make(chan struct{})
	go func() {
		l.Lock("thread-b")
		close(acquired)
		l.Unlock("thread-b")
	}()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock on an independent key blocked")
	}
}

func TestKeyedLockReleasesEntries(t *testing.T) {
	l := NewKeyedLock()
	l.Lock("thread-1")
	l.Unlock("thread-1")

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.locks) != 0 {
		t.Errorf("lock map size = %d, want 0 after release", len(l.locks))
	}
}

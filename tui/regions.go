package tui

import "sync"

// busyIndicator counts open handler invocations. The view shows the
// spinner while any is open.
type busyIndicator struct {
	mu    sync.Mutex
	count int
}

func (b *busyIndicator) Open() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count++
}

func (b *busyIndicator) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.count > 0 {
		b.count--
	}
}

func (b *busyIndicator) Active() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count > 0
}

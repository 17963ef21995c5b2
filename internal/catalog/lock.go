package catalog

import "sync"

// productLocks serializes mutations of one product's locale and image sets.
// Bulk jobs and single-item requests touching the same product queue behind
// each other; different products proceed concurrently.
type productLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newProductLocks() *productLocks {
	return &productLocks{locks: make(map[int64]*sync.Mutex)}
}

// Acquire locks the given product and returns the release func.
func (p *productLocks) Acquire(productID int64) func() {
	p.mu.Lock()
	l, ok := p.locks[productID]
	if !ok {
		l = &sync.Mutex{}
		p.locks[productID] = l
	}
	p.mu.Unlock()
	l.Lock()
	return l.Unlock
}

package pinglog

import "sync"

// partitionLocks hands out one mutex per partition id. Entries are removed
// once no appender holds or waits for them.
type partitionLocks struct {
	mu sync.Mutex
	m  map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newPartitionLocks() *partitionLocks {
	return &partitionLocks{m: make(map[string]*refMutex)}
}

func (p *partitionLocks) lock(id string) (unlock func()) {
	p.mu.Lock()
	rm := p.m[id]
	if rm == nil {
		rm = &refMutex{}
		p.m[id] = rm
	}
	rm.refs++
	p.mu.Unlock()

	rm.Lock()
	return func() {
		rm.Unlock()
		p.mu.Lock()
		rm.refs--
		if rm.refs == 0 {
			delete(p.m, id)
		}
		p.mu.Unlock()
	}
}

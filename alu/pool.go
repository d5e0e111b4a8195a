package alu

import (
	"sync"
)

// bufferPool recycles buffers by size. Every ALU owns its own pool, so a buffer freed through one
// ALU is never handed out by another.
type bufferPool struct {
	sync.Mutex
	bySize map[int]*sync.Pool
}

func newBufferPool() *bufferPool {
	return &bufferPool{bySize: make(map[int]*sync.Pool)}
}

func (bp *bufferPool) poolFor(n int) *sync.Pool {
	bp.Lock()
	defer bp.Unlock()
	p, ok := bp.bySize[n]
	if !ok {
		p = &sync.Pool{
			New: func() interface{} {
				return make([]Real, n)
			},
		}
		bp.bySize[n] = p
	}
	return p
}

// borrow returns a zeroed buffer of n elements. A nil pool allocates.
func (bp *bufferPool) borrow(n int) []Real {
	if n <= 0 {
		return nil
	}
	if bp == nil {
		return make([]Real, n)
	}
	buf := bp.poolFor(n).Get().([]Real)
	for i := range buf {
		buf[i] = 0
	}
	return buf
}

func (bp *bufferPool) giveBack(buf []Real) {
	if bp == nil || cap(buf) == 0 {
		return
	}
	buf = buf[:cap(buf)]
	bp.poolFor(len(buf)).Put(buf)
}

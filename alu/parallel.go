package alu

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

type opcode uint8

const (
	opAdd opcode = iota
	opSub
	opMul
	opDiv
	opAddScalar
	opSubScalar
	opMulScalar
	opDivScalar
	opFMA
	opFMAScalars
	opFMAScalarAdd
	opFMAScalarMul
	opMin
	opMax
	opAbs
	opNegate
	opSigmoid
	opTanh
	opStep
	opReLU
	opFill
	opCopy
	opShuffle
	opReplaceIf
)

// chunk is one slice [lo, hi) of an elementwise operation. Only the buffers and scalars the
// operation uses are set.
type chunk struct {
	op         opcode
	a, b, c, o []Real
	s, t       Real
	lo, hi     int
	done       *sync.WaitGroup
}

// parallel splits elementwise operations into contiguous chunks. The caller runs the first chunk
// and long lived workers run the rest on the basic kernels. Reductions, comparisons and strided
// copies run on the caller's goroutine, so every result is bit for bit what basic would produce.
//
// Chunks travel by value and the wait groups are recycled, so a split operation does not allocate.
type parallel struct {
	basic
	workers  int
	minChunk int

	chunks  chan chunk
	waiters chan *sync.WaitGroup
	g       errgroup.Group
	closed  atomic.Bool
	once    sync.Once
}

func newParallel(conf config) *parallel {
	p := &parallel{
		basic:    basic{pool: newBufferPool()},
		workers:  conf.workers,
		minChunk: conf.minChunk,
		chunks:   make(chan chunk, conf.workers),
		waiters:  make(chan *sync.WaitGroup, conf.workers),
	}
	for i := 0; i < cap(p.waiters); i++ {
		p.waiters <- new(sync.WaitGroup)
	}
	for i := 1; i < conf.workers; i++ {
		p.g.Go(p.work)
	}
	return p
}

func (p *parallel) Backend() Backend { return Parallel }

func (p *parallel) work() error {
	for c := range p.chunks {
		p.exec(c)
		c.done.Done()
	}
	return nil
}

// Close stops the workers. Later operations run on the caller's goroutine.
func (p *parallel) Close() error {
	p.once.Do(func() {
		p.closed.Store(true)
		close(p.chunks)
	})
	return p.g.Wait()
}

// run executes c over [0, n) in chunks of at least minChunk elements.
func (p *parallel) run(c chunk, n int) {
	if n <= p.minChunk || p.workers < 2 || p.closed.Load() {
		c.lo, c.hi = 0, n
		p.exec(c)
		return
	}
	size := (n + p.workers - 1) / p.workers
	if size < p.minChunk {
		size = p.minChunk
	}

	wg := <-p.waiters
	for lo := size; lo < n; lo += size {
		sub := c
		sub.lo, sub.hi, sub.done = lo, min(lo+size, n), wg
		wg.Add(1)
		p.chunks <- sub
	}
	c.lo, c.hi = 0, min(size, n)
	p.exec(c)
	wg.Wait()
	p.waiters <- wg
}

func (p *parallel) exec(c chunk) {
	n, lo := c.hi-c.lo, c.lo
	k := p.basic
	switch c.op {
	case opAdd:
		k.Add(n, c.a[lo:], c.b[lo:], c.o[lo:])
	case opSub:
		k.Sub(n, c.a[lo:], c.b[lo:], c.o[lo:])
	case opMul:
		k.Mul(n, c.a[lo:], c.b[lo:], c.o[lo:])
	case opDiv:
		k.Div(n, c.a[lo:], c.b[lo:], c.o[lo:])
	case opAddScalar:
		k.AddScalar(n, c.a[lo:], c.s, c.o[lo:])
	case opSubScalar:
		k.SubScalar(n, c.a[lo:], c.s, c.o[lo:])
	case opMulScalar:
		k.MulScalar(n, c.a[lo:], c.s, c.o[lo:])
	case opDivScalar:
		k.DivScalar(n, c.a[lo:], c.s, c.o[lo:])
	case opFMA:
		k.FMA(n, c.a[lo:], c.b[lo:], c.c[lo:], c.o[lo:])
	case opFMAScalars:
		k.FMAScalars(n, c.a[lo:], c.s, c.t, c.o[lo:])
	case opFMAScalarAdd:
		k.FMAScalarAdd(n, c.a[lo:], c.b[lo:], c.s, c.o[lo:])
	case opFMAScalarMul:
		k.FMAScalarMul(n, c.a[lo:], c.s, c.c[lo:], c.o[lo:])
	case opMin:
		k.Min(n, c.a[lo:], c.s, c.o[lo:])
	case opMax:
		k.Max(n, c.a[lo:], c.s, c.o[lo:])
	case opAbs:
		k.Abs(n, c.a[lo:], c.o[lo:])
	case opNegate:
		k.Negate(n, c.a[lo:], c.o[lo:])
	case opSigmoid:
		k.Sigmoid(n, c.a[lo:], c.o[lo:])
	case opTanh:
		k.Tanh(n, c.a[lo:], c.o[lo:])
	case opStep:
		k.Step(n, c.a[lo:], c.s, c.o[lo:])
	case opReLU:
		k.ReLU(n, c.a[lo:], c.s, c.t, c.o[lo:])
	case opFill:
		k.Fill(n, c.s, c.o[lo:])
	case opCopy:
		k.Copy(n, c.a[lo:], c.o[lo:])
	case opShuffle:
		k.Shuffle(n, c.c[lo:], c.a[lo:], c.b[lo:], c.o[lo:])
	case opReplaceIf:
		k.ReplaceIf(n, c.c[lo:], c.a[lo:], c.s, c.o[lo:])
	}
}

func (p *parallel) Add(n int, a, b, o []Real) { p.run(chunk{op: opAdd, a: a, b: b, o: o}, n) }
func (p *parallel) Sub(n int, a, b, o []Real) { p.run(chunk{op: opSub, a: a, b: b, o: o}, n) }
func (p *parallel) Mul(n int, a, b, o []Real) { p.run(chunk{op: opMul, a: a, b: b, o: o}, n) }
func (p *parallel) Div(n int, a, b, o []Real) { p.run(chunk{op: opDiv, a: a, b: b, o: o}, n) }

func (p *parallel) AddScalar(n int, a []Real, b Real, o []Real) {
	p.run(chunk{op: opAddScalar, a: a, s: b, o: o}, n)
}

func (p *parallel) SubScalar(n int, a []Real, b Real, o []Real) {
	p.run(chunk{op: opSubScalar, a: a, s: b, o: o}, n)
}

func (p *parallel) MulScalar(n int, a []Real, b Real, o []Real) {
	p.run(chunk{op: opMulScalar, a: a, s: b, o: o}, n)
}

func (p *parallel) DivScalar(n int, a []Real, b Real, o []Real) {
	p.run(chunk{op: opDivScalar, a: a, s: b, o: o}, n)
}

func (p *parallel) FMA(n int, a, b, c, o []Real) {
	p.run(chunk{op: opFMA, a: a, b: b, c: c, o: o}, n)
}

func (p *parallel) FMAScalars(n int, a []Real, b, c Real, o []Real) {
	p.run(chunk{op: opFMAScalars, a: a, s: b, t: c, o: o}, n)
}

func (p *parallel) FMAScalarAdd(n int, a, b []Real, c Real, o []Real) {
	p.run(chunk{op: opFMAScalarAdd, a: a, b: b, s: c, o: o}, n)
}

func (p *parallel) FMAScalarMul(n int, a []Real, b Real, c, o []Real) {
	p.run(chunk{op: opFMAScalarMul, a: a, s: b, c: c, o: o}, n)
}

func (p *parallel) Min(n int, a []Real, test Real, o []Real) {
	p.run(chunk{op: opMin, a: a, s: test, o: o}, n)
}

func (p *parallel) Max(n int, a []Real, test Real, o []Real) {
	p.run(chunk{op: opMax, a: a, s: test, o: o}, n)
}

func (p *parallel) Abs(n int, a, o []Real)     { p.run(chunk{op: opAbs, a: a, o: o}, n) }
func (p *parallel) Negate(n int, a, o []Real)  { p.run(chunk{op: opNegate, a: a, o: o}, n) }
func (p *parallel) Sigmoid(n int, a, o []Real) { p.run(chunk{op: opSigmoid, a: a, o: o}, n) }
func (p *parallel) Tanh(n int, a, o []Real)    { p.run(chunk{op: opTanh, a: a, o: o}, n) }

func (p *parallel) Step(n int, a []Real, t Real, o []Real) {
	p.run(chunk{op: opStep, a: a, s: t, o: o}, n)
}

func (p *parallel) ReLU(n int, a []Real, t, lower Real, o []Real) {
	p.run(chunk{op: opReLU, a: a, s: t, t: lower, o: o}, n)
}

func (p *parallel) Fill(n int, v Real, o []Real) { p.run(chunk{op: opFill, s: v, o: o}, n) }
func (p *parallel) Copy(n int, a, o []Real)      { p.run(chunk{op: opCopy, a: a, o: o}, n) }

func (p *parallel) Shuffle(n int, mixer, a, b, o []Real) {
	p.run(chunk{op: opShuffle, c: mixer, a: a, b: b, o: o}, n)
}

func (p *parallel) ReplaceIf(n int, chooser, a []Real, with Real, o []Real) {
	p.run(chunk{op: opReplaceIf, c: chooser, a: a, s: with, o: o}, n)
}

// Package alu provides the bulk arithmetic backends used by the network engine.
//
// Every operation takes an element count n and buffers holding at least n elements. The output
// buffer may be the same buffer as one of the inputs. Elements are processed independently, which
// is what lets a backend split the work across goroutines without changing any result.
package alu

import (
	"runtime"

	"github.com/pkg/errors"
)

// Real is the scalar type every buffer holds.
type Real = float32

// Range is the result of a min/max reduction.
type Range struct {
	Min, Max Real
}

// Backend identifies an ALU implementation.
type Backend uint8

const (
	Basic Backend = iota
	Parallel
	MAXBACKEND
)

func (b Backend) String() string {
	switch b {
	case Basic:
		return "basic"
	case Parallel:
		return "parallel"
	}
	return "unknown"
}

// ALU is the operation set a network runs on.
type ALU interface {
	Backend() Backend

	// NewBuffer hands out a buffer of n elements. The caller owns it until it is given back with Free.
	NewBuffer(n int) []Real
	// Free gives a buffer back and clears the caller's reference to it.
	Free(buf *[]Real)
	// Close stops the goroutines a backend keeps. Operations still work afterwards, on the
	// caller's goroutine.
	Close() error

	Add(n int, a, b, o []Real)
	Sub(n int, a, b, o []Real)
	Mul(n int, a, b, o []Real)
	Div(n int, a, b, o []Real)

	AddScalar(n int, a []Real, b Real, o []Real)
	SubScalar(n int, a []Real, b Real, o []Real)
	MulScalar(n int, a []Real, b Real, o []Real)
	DivScalar(n int, a []Real, b Real, o []Real)

	// FMA computes o = a*b + c.
	FMA(n int, a, b, c, o []Real)
	// FMAScalars computes o = a*b + c with scalar b and c.
	FMAScalars(n int, a []Real, b, c Real, o []Real)
	// FMAScalarAdd computes o = a*b + c with scalar c.
	FMAScalarAdd(n int, a, b []Real, c Real, o []Real)
	// FMAScalarMul computes o = a*b + c with scalar b.
	FMAScalarMul(n int, a []Real, b Real, c, o []Real)

	HorizSum(n int, a []Real) Real

	Min(n int, a []Real, test Real, o []Real)
	Max(n int, a []Real, test Real, o []Real)
	Abs(n int, a, o []Real)
	Negate(n int, a, o []Real)
	Sigmoid(n int, a, o []Real)
	Tanh(n int, a, o []Real)

	// Step writes 1 where a > t, 0 elsewhere.
	Step(n int, a []Real, t Real, o []Real)
	// ReLU writes a where a >= t, lower elsewhere.
	ReLU(n int, a []Real, t, lower Real, o []Real)

	Fill(n int, v Real, o []Real)
	Copy(n int, a, o []Real)

	// Gather reads every stride-th element of a into n contiguous elements of o.
	Gather(n int, a []Real, stride int, o []Real)
	// Scatter writes n contiguous elements of a into every stride-th element of o.
	Scatter(n int, a []Real, stride int, o []Real)
	// ReplicateItems expands each of the n elements of a into r contiguous copies in o.
	ReplicateItems(n, r int, a, o []Real)

	// Shuffle picks b where mixer is non zero, a elsewhere.
	Shuffle(n int, mixer, a, b, o []Real)
	// ReplaceIf keeps a where chooser is (almost) 1 and writes with elsewhere.
	ReplaceIf(n int, chooser, a []Real, with Real, o []Real)

	Equal(n int, a, b []Real) bool
	NotEqual(n int, a, b []Real) bool
	AllGreater(n int, a, b []Real) bool
	AllLess(n int, a, b []Real) bool

	Norm1(n int, a []Real) Real
	Norm2(n int, a []Real) Real
	// Norm3 is the cube root of the sum of x⁴. It is not the cubic norm.
	Norm3(n int, a []Real) Real
	NormInf(n int, a []Real) Real
	MinMaxOf(n int, a []Real) Range
}

// Option configures a backend.
type Option func(*config)

type config struct {
	workers  int
	minChunk int
}

func defaultConfig() config {
	return config{
		workers:  runtime.GOMAXPROCS(0),
		minChunk: 4096,
	}
}

// WithWorkers sets how many goroutines, the caller's included, the Parallel backend splits work over.
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

// WithMinChunk sets the smallest number of elements the Parallel backend hands to one goroutine.
func WithMinChunk(n int) Option {
	return func(c *config) { c.minChunk = n }
}

func (c config) IsValid() bool {
	return c.workers >= 1 && c.minChunk >= 1
}

// New creates an ALU of the given backend.
func New(b Backend, opts ...Option) (ALU, error) {
	conf := defaultConfig()
	for _, opt := range opts {
		opt(&conf)
	}
	if !conf.IsValid() {
		return nil, errors.Errorf("invalid ALU configuration: %d workers, minimum chunk %d", conf.workers, conf.minChunk)
	}

	switch b {
	case Basic:
		return basic{pool: newBufferPool()}, nil
	case Parallel:
		return newParallel(conf), nil
	}
	return nil, errors.Errorf("unknown ALU backend %d", b)
}

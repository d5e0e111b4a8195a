// Package rng provides seedable uniform random sources for weight initialisation.
package rng

import (
	"math/rand"

	"github.com/pkg/errors"
)

const (
	DefaultMin float32 = -10
	DefaultMax float32 = 10
)

// Uniform draws float32s uniformly from [Min, Max). The same seed always yields the same sequence.
type Uniform struct {
	Min, Max float32

	r *rand.Rand
}

// New creates a source over [min, max).
func New(seed int64, min, max float32) (*Uniform, error) {
	if !(min < max) {
		return nil, errors.Errorf("empty range [%v, %v)", min, max)
	}
	return &Uniform{
		Min: min,
		Max: max,
		r:   rand.New(rand.NewSource(seed)),
	}, nil
}

// NewDefault creates a source over [-10, 10).
func NewDefault(seed int64) *Uniform {
	u, _ := New(seed, DefaultMin, DefaultMax)
	return u
}

// Uniform returns the next value.
func (u *Uniform) Uniform() float32 {
	// uniform distro: rnd() * (max-min) + min
	v := u.r.Float32()*(u.Max-u.Min) + u.Min
	if v >= u.Max {
		// rounding can land on the open end
		v = u.Min
	}
	return v
}

// Fill draws len(buf) values into buf.
func (u *Uniform) Fill(buf []float32) {
	for i := range buf {
		buf[i] = u.Uniform()
	}
}

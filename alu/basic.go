package alu

import (
	"github.com/chewxy/math32"
	"gorgonia.org/vecf32"
)

// basic runs every operation on the calling goroutine. The vecf32 kernels work in place on their
// first argument, so the output is seeded with one input before the kernel runs.
type basic struct {
	pool *bufferPool
}

func (basic) Backend() Backend { return Basic }

func (k basic) NewBuffer(n int) []Real { return k.pool.borrow(n) }

func (k basic) Free(buf *[]Real) {
	if buf == nil || *buf == nil {
		return
	}
	k.pool.giveBack(*buf)
	*buf = nil
}

func (basic) Close() error { return nil }

func (basic) Add(n int, a, b, o []Real) {
	a, b, o = a[:n], b[:n], o[:n]
	if same(o, b) {
		vecf32.Add(o, a)
		return
	}
	copy(o, a)
	vecf32.Add(o, b)
}

func (basic) Sub(n int, a, b, o []Real) {
	a, b, o = a[:n], b[:n], o[:n]
	if same(o, b) && !same(o, a) {
		for i := range o {
			o[i] = a[i] - b[i]
		}
		return
	}
	copy(o, a)
	vecf32.Sub(o, b)
}

func (basic) Mul(n int, a, b, o []Real) {
	a, b, o = a[:n], b[:n], o[:n]
	if same(o, b) {
		vecf32.Mul(o, a)
		return
	}
	copy(o, a)
	vecf32.Mul(o, b)
}

// Div does not go through vecf32.Div, which turns every division by zero into +Inf.
func (basic) Div(n int, a, b, o []Real) {
	a, b, o = a[:n], b[:n], o[:n]
	for i := range o {
		o[i] = a[i] / b[i]
	}
}

func (basic) AddScalar(n int, a []Real, b Real, o []Real) {
	o = o[:n]
	copy(o, a[:n])
	vecf32.Trans(o, b)
}

func (basic) SubScalar(n int, a []Real, b Real, o []Real) {
	o = o[:n]
	copy(o, a[:n])
	vecf32.Trans(o, -b)
}

func (basic) MulScalar(n int, a []Real, b Real, o []Real) {
	o = o[:n]
	copy(o, a[:n])
	vecf32.Scale(o, b)
}

func (basic) DivScalar(n int, a []Real, b Real, o []Real) {
	a, o = a[:n], o[:n]
	for i := range o {
		o[i] = a[i] / b
	}
}

func (basic) FMA(n int, a, b, c, o []Real) {
	a, b, c, o = a[:n], b[:n], c[:n], o[:n]
	if same(o, a) || same(o, b) {
		for i := range o {
			o[i] = a[i]*b[i] + c[i]
		}
		return
	}
	copy(o, c)
	vecf32.IncrMul(a, b, o)
}

func (basic) FMAScalars(n int, a []Real, b, c Real, o []Real) {
	o = o[:n]
	copy(o, a[:n])
	vecf32.Scale(o, b)
	vecf32.Trans(o, c)
}

func (basic) FMAScalarAdd(n int, a, b []Real, c Real, o []Real) {
	a, b, o = a[:n], b[:n], o[:n]
	if same(o, b) {
		vecf32.Mul(o, a)
	} else {
		copy(o, a)
		vecf32.Mul(o, b)
	}
	vecf32.Trans(o, c)
}

func (basic) FMAScalarMul(n int, a []Real, b Real, c, o []Real) {
	a, c, o = a[:n], c[:n], o[:n]
	switch {
	case same(o, a):
		for i := range o {
			o[i] = a[i]*b + c[i]
		}
	case same(o, c):
		vecf32.IncrScale(a, b, o)
	default:
		copy(o, c)
		vecf32.IncrScale(a, b, o)
	}
}

func (basic) HorizSum(n int, a []Real) Real {
	if n == 0 {
		return 0
	}
	return vecf32.Sum(a[:n])
}

func (basic) Min(n int, a []Real, test Real, o []Real) {
	a, o = a[:n], o[:n]
	for i, v := range a {
		o[i] = math32.Min(v, test)
	}
}

func (basic) Max(n int, a []Real, test Real, o []Real) {
	a, o = a[:n], o[:n]
	for i, v := range a {
		o[i] = math32.Max(v, test)
	}
}

func (basic) Abs(n int, a, o []Real) {
	a, o = a[:n], o[:n]
	for i, v := range a {
		o[i] = math32.Abs(v)
	}
}

func (basic) Negate(n int, a, o []Real) {
	a, o = a[:n], o[:n]
	for i, v := range a {
		o[i] = -v
	}
}

func (basic) Sigmoid(n int, a, o []Real) {
	a, o = a[:n], o[:n]
	for i, v := range a {
		o[i] = 1 / (1 + math32.Exp(-v))
	}
}

func (basic) Tanh(n int, a, o []Real) {
	a, o = a[:n], o[:n]
	for i, v := range a {
		o[i] = math32.Tanh(v)
	}
}

func (basic) Step(n int, a []Real, t Real, o []Real) {
	a, o = a[:n], o[:n]
	for i, v := range a {
		if v > t {
			o[i] = 1
		} else {
			o[i] = 0
		}
	}
}

func (basic) ReLU(n int, a []Real, t, lower Real, o []Real) {
	a, o = a[:n], o[:n]
	for i, v := range a {
		if v >= t {
			o[i] = v
		} else {
			o[i] = lower
		}
	}
}

func (basic) Fill(n int, v Real, o []Real) {
	o = o[:n]
	for i := range o {
		o[i] = v
	}
}

func (basic) Copy(n int, a, o []Real) { copy(o[:n], a[:n]) }

func (basic) Gather(n int, a []Real, stride int, o []Real) {
	o = o[:n]
	for i := range o {
		o[i] = a[i*stride]
	}
}

func (basic) Scatter(n int, a []Real, stride int, o []Real) {
	a = a[:n]
	for i, v := range a {
		o[i*stride] = v
	}
}

// ReplicateItems walks backwards so that o may start at the same element as a.
func (basic) ReplicateItems(n, r int, a, o []Real) {
	o = o[:n*r]
	for i := n - 1; i >= 0; i-- {
		v := a[i]
		row := o[i*r : (i+1)*r]
		for j := range row {
			row[j] = v
		}
	}
}

func (basic) Shuffle(n int, mixer, a, b, o []Real) {
	mixer, a, b, o = mixer[:n], a[:n], b[:n], o[:n]
	for i, m := range mixer {
		if m != 0 {
			o[i] = b[i]
		} else {
			o[i] = a[i]
		}
	}
}

func (basic) ReplaceIf(n int, chooser, a []Real, with Real, o []Real) {
	chooser, a, o = chooser[:n], a[:n], o[:n]
	for i, c := range chooser {
		if almostEqual(c, 1, 1) {
			o[i] = a[i]
		} else {
			o[i] = with
		}
	}
}

func (basic) Equal(n int, a, b []Real) bool {
	a, b = a[:n], b[:n]
	for i, v := range a {
		if v != b[i] {
			return false
		}
	}
	return true
}

func (k basic) NotEqual(n int, a, b []Real) bool { return !k.Equal(n, a, b) }

func (basic) AllGreater(n int, a, b []Real) bool {
	a, b = a[:n], b[:n]
	for i, v := range a {
		if !(v > b[i]) {
			return false
		}
	}
	return true
}

func (basic) AllLess(n int, a, b []Real) bool {
	a, b = a[:n], b[:n]
	for i, v := range a {
		if !(v < b[i]) {
			return false
		}
	}
	return true
}

func (basic) Norm1(n int, a []Real) Real {
	var sum Real
	for _, v := range a[:n] {
		sum += math32.Abs(v)
	}
	return sum
}

func (basic) Norm2(n int, a []Real) Real {
	var sum Real
	for _, v := range a[:n] {
		sum += v * v
	}
	return math32.Sqrt(sum)
}

func (basic) Norm3(n int, a []Real) Real {
	var sum Real
	for _, v := range a[:n] {
		sq := v * v
		sum += sq * sq
	}
	return math32.Cbrt(sum)
}

func (basic) NormInf(n int, a []Real) Real {
	var retVal Real
	for _, v := range a[:n] {
		retVal = math32.Max(retVal, math32.Abs(v))
	}
	return retVal
}

// MinMaxOf of an empty buffer is {MaxFloat32, -MaxFloat32}.
func (basic) MinMaxOf(n int, a []Real) Range {
	r := Range{Min: math32.MaxFloat32, Max: -math32.MaxFloat32}
	for _, v := range a[:n] {
		r.Min = math32.Min(r.Min, v)
		r.Max = math32.Max(r.Max, v)
	}
	return r
}

// same reports whether two buffers start at the same element.
func same(a, b []Real) bool {
	return len(a) > 0 && len(b) > 0 && &a[0] == &b[0]
}

// almostEqual compares within ulp units in the last place, scaled to the magnitude of the operands.
func almostEqual(x, y Real, ulp int) bool {
	const epsilon = 1.1920929e-07       // 2⁻²³
	const smallestNormal = 1.17549435e-38 // 2⁻¹²⁶
	diff := math32.Abs(x - y)
	if diff < epsilon*math32.Abs(x+y)*Real(ulp) {
		return true
	}
	return diff < smallestNormal
}

package alu

import (
	"fmt"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

type binaryCase struct {
	name    string
	op      func(ALU) func(n int, a, b, o []Real)
	a, b    []Real
	correct []Real
}

var binaryCases = []binaryCase{
	{"Add", func(a ALU) func(int, []Real, []Real, []Real) { return a.Add }, []Real{1, 2, 3}, []Real{4, 5, 6}, []Real{5, 7, 9}},
	{"Sub", func(a ALU) func(int, []Real, []Real, []Real) { return a.Sub }, []Real{1, 2, 3}, []Real{4, 5, 6}, []Real{-3, -3, -3}},
	{"Mul", func(a ALU) func(int, []Real, []Real, []Real) { return a.Mul }, []Real{1, 2, 3}, []Real{4, 5, 6}, []Real{4, 10, 18}},
	{"Div", func(a ALU) func(int, []Real, []Real, []Real) { return a.Div }, []Real{1, 10, -3}, []Real{4, 5, 2}, []Real{0.25, 2, -1.5}},
}

func TestBinary(t *testing.T) {
	for _, a := range backends(t) {
		for _, c := range binaryCases {
			o := make([]Real, len(c.correct))
			c.op(a)(len(o), c.a, c.b, o)
			assert.Equal(t, c.correct, o, "%v %s", a.Backend(), c.name)

			// in place on either side
			left := append([]Real(nil), c.a...)
			c.op(a)(len(o), left, c.b, left)
			assert.Equal(t, c.correct, left, "%v %s: o aliases a", a.Backend(), c.name)

			right := append([]Real(nil), c.b...)
			c.op(a)(len(o), c.a, right, right)
			assert.Equal(t, c.correct, right, "%v %s: o aliases b", a.Backend(), c.name)
		}
	}
}

func TestDivIEEE(t *testing.T) {
	for _, a := range backends(t) {
		o := make([]Real, 4)
		a.Div(4, []Real{1, 0, -1, 1}, []Real{2, 0, 0, 0}, o)
		assert.Equal(t, Real(0.5), o[0])
		assert.True(t, math32.IsNaN(o[1]), "%v: 0/0 should be NaN, got %v", a.Backend(), o[1])
		assert.True(t, math32.IsInf(o[2], -1), "%v: -1/0 should be -Inf, got %v", a.Backend(), o[2])
		assert.True(t, math32.IsInf(o[3], 1), "%v: 1/0 should be +Inf, got %v", a.Backend(), o[3])

		a.DivScalar(2, []Real{0, -2}, 0, o)
		assert.True(t, math32.IsNaN(o[0]))
		assert.True(t, math32.IsInf(o[1], -1))
	}
}

func TestScalar(t *testing.T) {
	in := []Real{1, 2, 4}
	for _, a := range backends(t) {
		o := make([]Real, 3)
		a.AddScalar(3, in, 2, o)
		assert.Equal(t, []Real{3, 4, 6}, o)
		a.SubScalar(3, in, 2, o)
		assert.Equal(t, []Real{-1, 0, 2}, o)
		a.MulScalar(3, in, 2, o)
		assert.Equal(t, []Real{2, 4, 8}, o)
		a.DivScalar(3, in, 2, o)
		assert.Equal(t, []Real{0.5, 1, 2}, o)

		x := append([]Real(nil), in...)
		a.MulScalar(3, x, -1, x)
		assert.Equal(t, []Real{-1, -2, -4}, x)
	}
}

func TestFMA(t *testing.T) {
	for _, a := range backends(t) {
		o := make([]Real, 2)
		a.FMA(2, []Real{1, 2}, []Real{3, 4}, []Real{5, 6}, o)
		assert.Equal(t, []Real{8, 14}, o)

		a.FMAScalars(2, []Real{1, 2}, 2, 1, o)
		assert.Equal(t, []Real{3, 5}, o)

		a.FMAScalarAdd(2, []Real{1, 2}, []Real{3, 4}, 1, o)
		assert.Equal(t, []Real{4, 9}, o)

		a.FMAScalarMul(2, []Real{1, 2}, 3, []Real{1, 1}, o)
		assert.Equal(t, []Real{4, 7}, o)

		// accumulate into c, the way a momentum update does
		acc := []Real{1, 1}
		a.FMAScalarMul(2, []Real{1, 2}, 3, acc, acc)
		assert.Equal(t, []Real{4, 7}, acc)

		x := []Real{1, 2}
		a.FMA(2, x, []Real{3, 4}, []Real{5, 6}, x)
		assert.Equal(t, []Real{8, 14}, x)

		y := []Real{3, 4}
		a.FMAScalarAdd(2, []Real{1, 2}, y, 1, y)
		assert.Equal(t, []Real{4, 9}, y)
	}
}

func TestUnary(t *testing.T) {
	for _, a := range backends(t) {
		o := make([]Real, 3)
		a.Min(3, []Real{1, 5, 3}, 2, o)
		assert.Equal(t, []Real{1, 2, 2}, o)
		a.Max(3, []Real{1, 5, 3}, 2, o)
		assert.Equal(t, []Real{2, 5, 3}, o)
		a.Abs(3, []Real{-1, 0, 2}, o)
		assert.Equal(t, []Real{1, 0, 2}, o)
		a.Negate(3, []Real{-1, 0, 2}, o)
		assert.Equal(t, []Real{1, 0, -2}, o)

		a.Step(3, []Real{0.4, 0.5, 0.6}, 0.5, o)
		assert.Equal(t, []Real{0, 0, 1}, o)
		a.ReLU(3, []Real{-1, 0, 2}, 0, 0, o)
		assert.Equal(t, []Real{0, 0, 2}, o)
		a.ReLU(3, []Real{-1, 0, 2}, 1, -0.5, o)
		assert.Equal(t, []Real{-0.5, -0.5, 2}, o)

		a.Sigmoid(3, []Real{0, 1, -1}, o)
		assert.InDelta(t, 0.5, o[0], 1e-7)
		assert.InDelta(t, 0.73105857, o[1], 1e-6)
		assert.InDelta(t, 0.26894142, o[2], 1e-6)

		a.Tanh(3, []Real{0, 1, -1}, o)
		assert.InDelta(t, 0, o[0], 1e-7)
		assert.InDelta(t, 0.76159416, o[1], 1e-6)
		assert.InDelta(t, -0.76159416, o[2], 1e-6)

		a.Fill(3, 7, o)
		assert.Equal(t, []Real{7, 7, 7}, o)
		a.Copy(2, []Real{1, 2, 3}, o)
		assert.Equal(t, []Real{1, 2, 7}, o)
	}
}

func TestHorizSum(t *testing.T) {
	for _, a := range backends(t) {
		assert.Equal(t, Real(10), a.HorizSum(4, []Real{1, 2, 3, 4}))
		assert.Equal(t, Real(3), a.HorizSum(2, []Real{1, 2, 3, 4}))
		assert.Equal(t, Real(0), a.HorizSum(0, nil))
	}
}

func TestStrided(t *testing.T) {
	for _, a := range backends(t) {
		o := make([]Real, 3)
		a.Gather(3, []Real{0, 1, 2, 3, 4, 5}, 2, o)
		assert.Equal(t, []Real{0, 2, 4}, o)

		s := make([]Real, 5)
		a.Scatter(3, []Real{7, 8, 9}, 2, s)
		assert.Equal(t, []Real{7, 0, 8, 0, 9}, s)

		r := make([]Real, 6)
		a.ReplicateItems(2, 3, []Real{1, 2}, r)
		assert.Equal(t, []Real{1, 1, 1, 2, 2, 2}, r)

		inPlace := []Real{1, 2, 3, 0, 0, 0}
		a.ReplicateItems(3, 2, inPlace, inPlace)
		assert.Equal(t, []Real{1, 1, 2, 2, 3, 3}, inPlace)
	}
}

func TestSelect(t *testing.T) {
	for _, a := range backends(t) {
		o := make([]Real, 3)
		a.Shuffle(3, []Real{0, 1, 0}, []Real{1, 2, 3}, []Real{4, 5, 6}, o)
		assert.Equal(t, []Real{1, 5, 3}, o)

		r := make([]Real, 4)
		a.ReplaceIf(4, []Real{1, 0, 1.0000001, 0.5}, []Real{1, 2, 3, 4}, 9, r)
		assert.Equal(t, []Real{1, 9, 3, 9}, r)
	}
}

func TestCompare(t *testing.T) {
	for _, a := range backends(t) {
		x, y := []Real{1, 2, 3}, []Real{1, 2, 4}
		assert.True(t, a.Equal(2, x, y))
		assert.False(t, a.Equal(3, x, y))
		assert.Equal(t, !a.Equal(3, x, y), a.NotEqual(3, x, y))
		assert.Equal(t, !a.Equal(2, x, y), a.NotEqual(2, x, y))

		assert.True(t, a.AllGreater(2, []Real{2, 3}, []Real{1, 2}))
		assert.False(t, a.AllGreater(2, []Real{2, 2}, []Real{1, 2}))
		assert.True(t, a.AllLess(2, []Real{1, 2}, []Real{2, 3}))
		assert.False(t, a.AllLess(2, []Real{1, 3}, []Real{2, 3}))

		nan := math32.NaN()
		assert.False(t, a.Equal(1, []Real{nan}, []Real{nan}))
		assert.True(t, a.NotEqual(1, []Real{nan}, []Real{nan}))
	}
}

func TestNorms(t *testing.T) {
	for _, a := range backends(t) {
		assert.Equal(t, Real(7), a.Norm1(2, []Real{-3, 4}))
		assert.Equal(t, Real(5), a.Norm2(2, []Real{3, 4}))
		assert.InDelta(t, 2.5712816, a.Norm3(2, []Real{1, 2}), 1e-6)
		assert.Equal(t, Real(7), a.NormInf(2, []Real{-7, 3}))

		assert.Equal(t, Range{Min: 1, Max: 5}, a.MinMaxOf(5, []Real{3, 1, 4, 1, 5}))
		assert.Equal(t, Range{Min: -2, Max: -2}, a.MinMaxOf(1, []Real{-2}))
		assert.Equal(t, Range{Min: math32.MaxFloat32, Max: -math32.MaxFloat32}, a.MinMaxOf(0, nil))
	}
}

func TestAlmostEqual(t *testing.T) {
	cases := []struct {
		x, y    Real
		correct bool
	}{
		{1, 1, true},
		{1, 1.0000001, true},
		{1, 1.0000003, false},
		{0, 0, true},
		{0, 1e-39, true},
		{0, 1e-30, false},
		{100, 100.00001, true},
		{100, 100.1, false},
	}
	for _, c := range cases {
		if got := almostEqual(c.x, c.y, 1); got != c.correct {
			t.Errorf("Expected almostEqual(%v, %v) to be %v. Got %v instead", c.x, c.y, c.correct, got)
		}
	}
}

func ExampleALU_FMAScalarMul() {
	a, _ := New(Basic)
	dw := []Real{0.1, 0.2}
	grad := []Real{1, -1}
	a.MulScalar(2, dw, 0.5, dw)
	a.FMAScalarMul(2, grad, 0.1, dw, dw)
	fmt.Printf("%.2f\n", dw)
	// Output: [0.15 0.00]
}

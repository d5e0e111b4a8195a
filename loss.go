package ffnet

import (
	"github.com/chewxy/math32"
	"github.com/gorgonia/ffnet/alu"
)

// SumOfSquares is Σ(target-output)². scratch needs n elements.
func SumOfSquares(k alu.ALU, n int, target, output, scratch []Real) Real {
	k.Sub(n, target, output, scratch)
	k.Mul(n, scratch, scratch, scratch)
	return k.HorizSum(n, scratch)
}

func MeanSquare(k alu.ALU, n int, target, output, scratch []Real) Real {
	if n == 0 {
		return 0
	}
	return SumOfSquares(k, n, target, output, scratch) / Real(n)
}

func RootMeanSquare(k alu.ALU, n int, target, output, scratch []Real) Real {
	return math32.Sqrt(MeanSquare(k, n, target, output, scratch))
}

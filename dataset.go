package ffnet

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
	"gorgonia.org/tensor/native"
)

// PairsFromTensors pairs row i of inputs with row i of targets. Both must be float32 matrices
// with the same number of rows. The pairs share their backing data with the tensors.
func PairsFromTensors(inputs, targets *tensor.Dense) ([]Pair, error) {
	xs, err := native.MatrixF32(inputs)
	if err != nil {
		return nil, errors.Wrapf(err, "inputs")
	}
	ys, err := native.MatrixF32(targets)
	if err != nil {
		return nil, errors.Wrapf(err, "targets")
	}
	if len(xs) != len(ys) {
		return nil, errors.Errorf("%d input rows but %d target rows", len(xs), len(ys))
	}
	retVal := make([]Pair, len(xs))
	for i := range xs {
		retVal[i] = Pair{Input: xs[i], Target: ys[i]}
	}
	return retVal, nil
}

// EvaluateBatch evaluates every row of inputs and returns the outputs as a rows×outputs matrix.
func (n *Network) EvaluateBatch(inputs *tensor.Dense) (*tensor.Dense, error) {
	if err := n.ready(); err != nil {
		return nil, err
	}
	xs, err := native.MatrixF32(inputs)
	if err != nil {
		return nil, errors.Wrapf(err, "inputs")
	}
	outN := n.outputLayer().Neurons
	backing := make([]Real, len(xs)*outN)
	for i, x := range xs {
		if err := n.Evaluate(x, backing[i*outN:(i+1)*outN]); err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
	}
	return tensor.New(tensor.WithShape(len(xs), outN), tensor.WithBacking(backing)), nil
}

package ffnet

import "github.com/pkg/errors"

// ComputeGradients back propagates the error of the last Evaluate against target into the node
// deltas.
//
// The output deltas are -f'(target - output), where f' is the derivative of the output
// activation. UpdateWeights relies on that sign. The derivative is taken at the error, not at the
// output sum, so a Linear output always gets a delta of -1 whatever the target. Every other layer
// gets f' of the weighted sum of the deltas it feeds. Evaluate must have run on the matching input
// first.
func (n *Network) ComputeGradients(target []Real) error {
	if err := n.trainable(); err != nil {
		return err
	}
	out := n.outputLayer()
	if len(target) != out.Neurons {
		return errors.Errorf("expected %d targets, got %d", out.Neurons, len(target))
	}

	k := n.alu
	deltas := n.nodeDeltas[out.offset:]
	k.Sub(out.Neurons, target, n.outputs[out.offset:], n.signal)
	out.Activation.Differentiate(k, out.Neurons, n.signal, deltas, n.deriv)
	k.Negate(out.Neurons, deltas, deltas)

	for i := len(n.conns) - 1; i >= 0; i-- {
		n.backward(n.conns[i])
	}
	return nil
}

// backward computes the deltas of the source layer of c from those of its destination. The signal
// of source neuron j is the dot product of weight row j with the deltas of the neurons it feeds.
func (n *Network) backward(c Connection) {
	k := n.alu
	src, dst := n.layers[c.From], n.layers[c.To]
	fan := c.fanOut
	dstDeltas := n.nodeDeltas[dst.offset : dst.offset+fan]

	for j := 0; j < src.Neurons; j++ {
		k.Mul(fan, n.weights[c.weightOffset+j*fan:], dstDeltas, n.column)
		n.signal[j] = k.HorizSum(fan, n.column)
	}
	src.Activation.Differentiate(k, src.Neurons, n.signal, n.nodeDeltas[src.offset:], n.deriv)
}

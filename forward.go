package ffnet

import "github.com/pkg/errors"

// Evaluate runs a forward pass over input. If result is not nil the outputs of the output layer
// are copied into it.
func (n *Network) Evaluate(input, result []Real) error {
	if err := n.ready(); err != nil {
		return err
	}
	in, out := n.inputLayer(), n.outputLayer()
	if len(input) != in.Neurons {
		return errors.Errorf("expected %d inputs, got %d", in.Neurons, len(input))
	}
	if result != nil && len(result) < out.Neurons {
		return errors.Errorf("result holds %d values, the output layer has %d neurons", len(result), out.Neurons)
	}

	k := n.alu
	k.Copy(in.Neurons, input, n.outputs[in.offset:])
	if in.Biased {
		n.outputs[in.offset+in.Neurons] = 1
	}
	for _, c := range n.conns {
		n.forward(c)
	}
	if result != nil {
		k.Copy(out.Neurons, n.outputs[out.offset:], result)
	}
	return nil
}

// forward computes the sums and outputs of the destination layer of c. Products are laid out like
// the weights, so the sum for destination neuron j is column j of a rows×fan matrix.
func (n *Network) forward(c Connection) {
	k := n.alu
	src, dst := n.layers[c.From], n.layers[c.To]
	rows, fan := src.Size(), c.fanOut
	sums := n.sums[dst.offset : dst.offset+dst.Neurons]

	k.ReplicateItems(rows, fan, n.outputs[src.offset:], n.replicated)
	k.Mul(c.weightCount, n.replicated, n.weights[c.weightOffset:], n.products)
	for j := 0; j < fan; j++ {
		k.Gather(rows, n.products[j:], fan, n.column)
		sums[j] = k.HorizSum(rows, n.column)
	}
	if fan < dst.Neurons {
		k.Fill(dst.Neurons-fan, 0, sums[fan:])
	}
	dst.Activation.Activate(k, dst.Neurons, sums, n.outputs[dst.offset:])
}

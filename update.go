package ffnet

// UpdateWeights applies one momentum step using the node deltas of the last ComputeGradients:
//
//	gradient = source output × destination delta
//	delta    = learningRate×gradient + momentum×previous delta
//	weights += delta
func (n *Network) UpdateWeights() error {
	if err := n.trainable(); err != nil {
		return err
	}
	k := n.alu
	for _, c := range n.conns {
		src, dst := n.layers[c.From], n.layers[c.To]
		rows, fan := src.Size(), c.fanOut

		k.ReplicateItems(rows, fan, n.outputs[src.offset:], n.replicated)
		for i := 0; i < rows; i++ {
			k.Copy(fan, n.nodeDeltas[dst.offset:], n.products[i*fan:])
		}
		k.Mul(c.weightCount, n.replicated, n.products, n.gradients[c.weightOffset:])
	}

	total := n.totalWeights
	k.MulScalar(total, n.deltaWeights, n.momentum, n.deltaWeights)
	k.FMAScalarMul(total, n.gradients, n.learningRate, n.deltaWeights, n.deltaWeights)
	k.Add(total, n.weights, n.deltaWeights, n.weights)
	return nil
}

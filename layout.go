package ffnet

// validator keeps the first structural violation and ignores every later check.
type validator struct {
	err error
}

func (v *validator) check(ok bool, format string, args ...interface{}) {
	if v.err != nil || ok {
		return
	}
	v.err = structuref(format, args...)
}

func (n *Network) validate() error {
	v := new(validator)
	v.check(len(n.layers) >= 2, "a network needs at least 2 layers, got %d", len(n.layers))
	v.check(len(n.conns) == len(n.layers)-1, "%d layers need %d connections, got %d", len(n.layers), len(n.layers)-1, len(n.conns))
	if v.err != nil {
		return v.err
	}

	last := len(n.layers) - 1
	for i, l := range n.layers {
		want := Hidden
		switch i {
		case 0:
			want = Input
		case last:
			want = Output
		}
		v.check(l.Kind == want, "layer %d is %v, expected %v", i, l.Kind, want)
		v.check(l.Neurons >= 1, "layer %d has %d neurons", i, l.Neurons)
		v.check(l.Activation.isValid(), "layer %d has an unknown activation %v", i, l.Activation.Kind)
	}
	v.check(!n.layers[last].Biased, "the output layer cannot be biased")

	for i, c := range n.conns {
		v.check(c.From == LayerID(i) && c.To == LayerID(i+1), "connection %d joins %v, expected %d→%d", i, c, i, i+1)
		if v.err != nil {
			break
		}
		dst := n.layers[c.To]
		v.check(c.FanOut >= 0 && c.FanOut <= dst.Neurons, "connection %d has fan-out %d, layer %d has %d neurons", i, c.FanOut, c.To, dst.Neurons)
	}
	return v.err
}

// Finalize validates the topology, assigns the neuron and weight offsets and allocates the
// buffers. willTrain also allocates what ComputeGradients and UpdateWeights need. The topology
// cannot change afterwards.
func (n *Network) Finalize(willTrain bool) error {
	if err := n.mutable(); err != nil {
		return err
	}
	if err := n.validate(); err != nil {
		return err
	}

	var neurons, weights, maxWeights, maxColumn int
	for i := range n.layers {
		n.layers[i].offset = neurons
		neurons += n.layers[i].Size()
	}
	for i := range n.conns {
		c := &n.conns[i]
		src, dst := n.layers[c.From], n.layers[c.To]
		c.fanOut = c.FanOut
		if c.fanOut == 0 {
			c.fanOut = dst.Neurons
		}
		c.weightOffset = weights
		c.weightCount = src.Size() * c.fanOut
		weights += c.weightCount

		maxWeights = max(maxWeights, c.weightCount)
		maxColumn = max(maxColumn, src.Size(), c.fanOut)
	}
	n.totalNeurons, n.totalWeights = neurons, weights

	k := n.alu
	n.sums = k.NewBuffer(neurons)
	n.outputs = k.NewBuffer(neurons)
	n.weights = k.NewBuffer(weights)
	n.replicated = k.NewBuffer(maxWeights)
	n.products = k.NewBuffer(maxWeights)
	n.column = k.NewBuffer(maxColumn)
	n.signal = k.NewBuffer(neurons)
	n.deriv = k.NewBuffer(neurons)
	n.result = k.NewBuffer(n.outputLayer().Neurons)
	if willTrain {
		n.gradients = k.NewBuffer(weights)
		n.deltaWeights = k.NewBuffer(weights)
		n.nodeDeltas = k.NewBuffer(neurons)
	}

	for _, l := range n.layers {
		if l.Biased {
			n.outputs[l.offset+l.Neurons] = 1
		}
	}

	n.finalized, n.training = true, willTrain
	n.logger.Printf("finalized %d layers, %d neurons, %d weights (training %t, %v backend)", len(n.layers), neurons, weights, willTrain, k.Backend())
	return nil
}

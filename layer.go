package ffnet

import (
	"fmt"
)

// LayerKind is the role a layer plays in the chain.
type LayerKind byte

const (
	Input LayerKind = iota
	Hidden
	Output
)

func (k LayerKind) String() string {
	switch k {
	case Input:
		return "input"
	case Hidden:
		return "hidden"
	case Output:
		return "output"
	}
	return fmt.Sprintf("LayerKind(%d)", byte(k))
}

// LayerID is the stable index of a layer inside its network.
type LayerID int

const nilLayer LayerID = -1

// IsValid reports whether the ID could refer to a layer.
func (id LayerID) IsValid() bool { return id >= 0 }

// Layer describes a group of neurons. Neurons does not count the bias neuron.
type Layer struct {
	Kind       LayerKind
	Neurons    int
	Biased     bool
	Activation Activation

	offset int // first neuron in the network buffers, set by Finalize
}

func InputLayer(neurons int) Layer {
	return Layer{Kind: Input, Neurons: neurons, Biased: true, Activation: Sigmoid()}
}

func HiddenLayer(neurons int) Layer {
	return Layer{Kind: Hidden, Neurons: neurons, Biased: true, Activation: Sigmoid()}
}

func OutputLayer(neurons int) Layer {
	return Layer{Kind: Output, Neurons: neurons, Activation: Sigmoid()}
}

// WithActivation returns a copy of the layer using a.
func (l Layer) WithActivation(a Activation) Layer {
	l.Activation = a
	return l
}

// Size is the number of neurons including the bias neuron.
func (l Layer) Size() int {
	if l.Biased {
		return l.Neurons + 1
	}
	return l.Neurons
}

// Offset is the index of the layer's first neuron in the network's neuron buffers.
func (l Layer) Offset() int { return l.offset }

func (l Layer) String() string {
	bias := ""
	if l.Biased {
		bias = "+bias"
	}
	return fmt.Sprintf("%v(%d%s, %v)", l.Kind, l.Neurons, bias, l.Activation)
}

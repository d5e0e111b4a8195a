// Package ffnet is a feed-forward neural network engine.
//
// A Network is built in two phases. During the topology phase layers are added and joined by
// connections into a single chain. Finalize then lays every neuron and weight out in flat buffers
// owned by the network, after which Evaluate, ComputeGradients and UpdateWeights work in place on
// those buffers through an injected alu.ALU.
package ffnet

import (
	"bytes"
	"log"

	"github.com/gorgonia/ffnet/alu"
	"github.com/pkg/errors"
)

// Real is the scalar type of every buffer.
type Real = alu.Real

const (
	DefaultLearningRate Real = 0.7
	DefaultMomentum     Real = 0.3
)

// Option configures a Network.
type Option func(*Network)

// WithLogger makes the network log to l instead of its internal buffer.
func WithLogger(l *log.Logger) Option {
	return func(n *Network) { n.logger = l }
}

func WithLearningRate(lr Real) Option {
	return func(n *Network) { n.learningRate = lr }
}

func WithMomentum(m Real) Option {
	return func(n *Network) { n.momentum = m }
}

func WithTrainConfig(conf TrainConfig) Option {
	return func(n *Network) { n.trainConf = conf }
}

// Network is a chain of layers. It is not safe for concurrent use.
type Network struct {
	alu alu.ALU

	layers []Layer
	conns  []Connection

	finalized bool
	training  bool
	released  bool

	totalNeurons int
	totalWeights int

	sums    []Real
	outputs []Real
	weights []Real

	// scratch
	replicated []Real // replicated source outputs, one connection at a time
	products   []Real // per weight products
	column     []Real // one gathered column or weight row
	signal     []Real // back propagated signal, also the output error
	deriv      []Real // scratch for activation derivatives
	result     []Real // output of the training driver's evaluations

	// training only
	gradients    []Real
	deltaWeights []Real
	nodeDeltas   []Real

	learningRate Real
	momentum     Real
	trainConf    TrainConfig

	buf    bytes.Buffer
	logger *log.Logger
}

// New creates an empty network computing on a. It panics if a is nil.
func New(a alu.ALU, opts ...Option) *Network {
	if a == nil {
		panic("ffnet: nil ALU")
	}
	n := &Network{
		alu:          a,
		learningRate: DefaultLearningRate,
		momentum:     DefaultMomentum,
		trainConf:    DefaultTrainConfig(),
	}
	n.logger = log.New(&n.buf, "", log.Ltime)
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// ALU returns the backend the network computes on.
func (n *Network) ALU() alu.ALU { return n.alu }

// ExecLog returns what the network logged to its internal buffer.
func (n *Network) ExecLog() string { return n.buf.String() }

// AddLayer appends a layer to the chain and returns its ID.
func (n *Network) AddLayer(l Layer) (LayerID, error) {
	if err := n.mutable(); err != nil {
		return nilLayer, err
	}
	l.offset = 0
	n.layers = append(n.layers, l)
	return LayerID(len(n.layers) - 1), nil
}

// ConnectLayers appends a connection. Whether it joins consecutive layers is checked by Finalize.
func (n *Network) ConnectLayers(c Connection) error {
	if err := n.mutable(); err != nil {
		return err
	}
	if !n.has(c.From) || !n.has(c.To) {
		return errors.Errorf("connection %v refers to a layer that does not exist (%d layers)", c, len(n.layers))
	}
	if c.FanOut < 0 {
		return errors.Errorf("connection %v has a negative fan-out", c)
	}
	c.fanOut, c.weightOffset, c.weightCount = 0, 0, 0
	n.conns = append(n.conns, c)
	return nil
}

// Layers returns a copy of the layers.
func (n *Network) Layers() []Layer {
	retVal := make([]Layer, len(n.layers))
	copy(retVal, n.layers)
	return retVal
}

// Connections returns a copy of the connections.
func (n *Network) Connections() []Connection {
	retVal := make([]Connection, len(n.conns))
	copy(retVal, n.conns)
	return retVal
}

// Layer returns the layer with the given ID.
func (n *Network) Layer(id LayerID) (Layer, error) {
	if !n.has(id) {
		return Layer{}, errors.Errorf("no layer %d", id)
	}
	return n.layers[id], nil
}

func (n *Network) IsFinalized() bool { return n.finalized && !n.released }
func (n *Network) IsTraining() bool  { return n.training && !n.released }

// TotalNeuronCount is the number of neurons, bias neurons included. It is 0 before Finalize.
func (n *Network) TotalNeuronCount() int { return n.totalNeurons }

// TotalWeightCount is 0 before Finalize.
func (n *Network) TotalWeightCount() int { return n.totalWeights }

func (n *Network) LearningRate() Real      { return n.learningRate }
func (n *Network) SetLearningRate(lr Real) { n.learningRate = lr }
func (n *Network) Momentum() Real          { return n.momentum }
func (n *Network) SetMomentum(m Real)      { n.momentum = m }

func (n *Network) TrainConfig() TrainConfig { return n.trainConf }

func (n *Network) SetTrainConfig(conf TrainConfig) error {
	if !conf.IsValid() {
		return errors.Errorf("invalid train config %+v", conf)
	}
	n.trainConf = conf
	return nil
}

// Weights returns the weight buffer. The slice aliases the network's storage.
func (n *Network) Weights() ([]Real, error) {
	if err := n.ready(); err != nil {
		return nil, err
	}
	return n.weights, nil
}

// SetWeights copies w into the weight buffer. w must hold exactly TotalWeightCount values.
func (n *Network) SetWeights(w []Real) error {
	if err := n.ready(); err != nil {
		return err
	}
	if len(w) != n.totalWeights {
		return errors.Errorf("expected %d weights, got %d", n.totalWeights, len(w))
	}
	n.alu.Copy(n.totalWeights, w, n.weights)
	return nil
}

// LayerOutputs returns the outputs of a layer, bias neuron included. The slice aliases the network's storage.
func (n *Network) LayerOutputs(id LayerID) ([]Real, error) { return n.neuronSlice(id, n.outputs) }

// LayerSums returns the pre-activation sums of a layer.
func (n *Network) LayerSums(id LayerID) ([]Real, error) { return n.neuronSlice(id, n.sums) }

// NodeDeltas returns the node deltas of a layer computed by the last ComputeGradients.
func (n *Network) NodeDeltas(id LayerID) ([]Real, error) {
	if err := n.trainable(); err != nil {
		return nil, err
	}
	return n.neuronSlice(id, n.nodeDeltas)
}

// Gradients returns the per weight gradients of the last UpdateWeights.
func (n *Network) Gradients() ([]Real, error) {
	if err := n.trainable(); err != nil {
		return nil, err
	}
	return n.gradients, nil
}

// DeltaWeights returns the last weight change, the momentum memory.
func (n *Network) DeltaWeights() ([]Real, error) {
	if err := n.trainable(); err != nil {
		return nil, err
	}
	return n.deltaWeights, nil
}

func (n *Network) neuronSlice(id LayerID, buf []Real) ([]Real, error) {
	if err := n.ready(); err != nil {
		return nil, err
	}
	if !n.has(id) {
		return nil, errors.Errorf("no layer %d", id)
	}
	l := n.layers[id]
	return buf[l.offset : l.offset+l.Size() : l.offset+l.Size()], nil
}

// Release gives every buffer back to the ALU. The network cannot be used afterwards, and slices
// previously returned by Weights, LayerOutputs, ConnectionWeights and the other buffer accessors
// become invalid: the ALU may hand them out again.
func (n *Network) Release() {
	if n.released {
		return
	}
	for _, b := range []*[]Real{
		&n.sums, &n.outputs, &n.weights,
		&n.replicated, &n.products, &n.column, &n.signal, &n.deriv, &n.result,
		&n.gradients, &n.deltaWeights, &n.nodeDeltas,
	} {
		n.alu.Free(b)
	}
	n.released = true
}

func (n *Network) has(id LayerID) bool { return id.IsValid() && int(id) < len(n.layers) }

func (n *Network) mutable() error {
	switch {
	case n.released:
		return ErrReleased
	case n.finalized:
		return ErrFinalized
	}
	return nil
}

func (n *Network) ready() error {
	switch {
	case n.released:
		return ErrReleased
	case !n.finalized:
		return ErrNotFinalized
	}
	return nil
}

func (n *Network) trainable() error {
	if err := n.ready(); err != nil {
		return err
	}
	if !n.training {
		return ErrNotTraining
	}
	return nil
}

func (n *Network) inputLayer() Layer  { return n.layers[0] }
func (n *Network) outputLayer() Layer { return n.layers[len(n.layers)-1] }

package ffnet

import "github.com/pkg/errors"

// RandomSource produces uniformly distributed values.
type RandomSource interface {
	Uniform() Real
}

// RandomizeWeights draws every weight from src and clears the momentum memory.
func (n *Network) RandomizeWeights(src RandomSource) error {
	if err := n.ready(); err != nil {
		return err
	}
	for i := range n.weights {
		n.weights[i] = src.Uniform()
	}
	if n.training {
		n.alu.Fill(n.totalWeights, 0, n.deltaWeights)
	}
	return nil
}

// ConnectionWeights returns the weights owned by the i-th connection. The slice aliases the
// network's storage.
func (n *Network) ConnectionWeights(i int) ([]Real, error) {
	if err := n.ready(); err != nil {
		return nil, err
	}
	if i < 0 || i >= len(n.conns) {
		return nil, errors.Errorf("no connection %d", i)
	}
	c := n.conns[i]
	end := c.weightOffset + c.weightCount
	return n.weights[c.weightOffset:end:end], nil
}

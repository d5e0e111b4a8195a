package ffnet

import "fmt"

// Connection joins two consecutive layers. Every source neuron, the bias included, feeds FanOut
// destination neurons: the first FanOut neurons of the destination layer. A zero FanOut connects
// every destination neuron.
//
// Weights are stored source-major: the weight from source row i to destination neuron k lives at
// WeightOffset() + i*fanOut + k.
type Connection struct {
	From, To LayerID
	FanOut   int

	fanOut       int
	weightOffset int
	weightCount  int
}

// Connect creates a fully connected Connection.
func Connect(from, to LayerID) Connection { return Connection{From: from, To: to} }

// ConnectPartial creates a Connection where every source neuron feeds only fanOut destinations.
func ConnectPartial(from, to LayerID, fanOut int) Connection {
	return Connection{From: from, To: to, FanOut: fanOut}
}

// Fan is the resolved fan-out. It is only meaningful after Finalize.
func (c Connection) Fan() int { return c.fanOut }

// WeightOffset is the index of the connection's first weight in the network's weight buffer.
func (c Connection) WeightOffset() int { return c.weightOffset }

// WeightCount is the number of weights the connection owns.
func (c Connection) WeightCount() int { return c.weightCount }

func (c Connection) String() string {
	if c.FanOut == 0 {
		return fmt.Sprintf("%d→%d", c.From, c.To)
	}
	return fmt.Sprintf("%d→%d/%d", c.From, c.To, c.FanOut)
}

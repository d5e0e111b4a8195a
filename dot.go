package ffnet

import (
	"fmt"

	"github.com/awalterschulze/gographviz"
	"github.com/pkg/errors"
)

// ToDot renders the topology in the DOT language: one node per layer and one edge per connection.
func (n *Network) ToDot() (string, error) {
	g := gographviz.NewGraph()
	if err := g.SetName("ffnet"); err != nil {
		return "", errors.WithStack(err)
	}
	g.SetDir(true)
	if err := g.AddAttr("ffnet", "rankdir", "LR"); err != nil {
		return "", errors.WithStack(err)
	}

	for i, l := range n.layers {
		attrs := map[string]string{
			"shape": "box",
			"label": fmt.Sprintf("%q", l.String()),
		}
		if err := g.AddNode("ffnet", layerNode(LayerID(i)), attrs); err != nil {
			return "", errors.Wrapf(err, "layer %d", i)
		}
	}
	for i, c := range n.conns {
		label := c.String()
		if n.finalized {
			label = fmt.Sprintf("%d weights @%d", c.weightCount, c.weightOffset)
		}
		attrs := map[string]string{"label": fmt.Sprintf("%q", label)}
		if err := g.AddEdge(layerNode(c.From), layerNode(c.To), true, attrs); err != nil {
			return "", errors.Wrapf(err, "connection %d", i)
		}
	}
	return g.String(), nil
}

func layerNode(id LayerID) string { return fmt.Sprintf("L%d", id) }

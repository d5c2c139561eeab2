package network

import (
	"github.com/pkg/errors"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// fcLayer implements a fully connected layer of a feed forward neural
// network. The layer owns the values of its parameters, which are bound
// to fresh nodes each time the layer is added to a computational graph.
type fcLayer struct {
	weights *tensor.Dense // inputs x outputs
	bias    *tensor.Dense // 1 x outputs
	act     *Activation
}

// newFCLayer returns a new fcLayer with weights initialized by init and
// biases initialized to 0
func newFCLayer(inputs, outputs int, act *Activation,
	init G.InitWFn) *fcLayer {
	return &fcLayer{
		weights: tensor.New(
			tensor.WithShape(inputs, outputs),
			tensor.WithBacking(init(tensor.Float64, inputs, outputs)),
		),
		bias: tensor.New(
			tensor.WithShape(1, outputs),
			tensor.Of(tensor.Float64),
		),
		act: act,
	}
}

// addTo adds the forward pass of the fcLayer on x to the computational
// graph of x. The returned learnables are the weight and bias nodes,
// in that order.
func (f *fcLayer) addTo(x *G.Node, name string) (*G.Node, G.Nodes, error) {
	g := x.Graph()
	weights := G.NewMatrix(g, tensor.Float64,
		G.WithShape(f.weights.Shape()...), G.WithValue(f.weights),
		G.WithName(name+"W"))
	bias := G.NewMatrix(g, tensor.Float64, G.WithShape(f.bias.Shape()...),
		G.WithValue(f.bias), G.WithName(name+"B"))

	out, err := G.Mul(x, weights)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "addto: layer %v", name)
	}

	// Broadcast the bias weights to all samples along the batch
	// dimension
	out, err = G.BroadcastAdd(out, bias, nil, []byte{0})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "addto: layer %v", name)
	}

	out, err = f.act.fwd(out)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "addto: layer %v", name)
	}
	return out, G.Nodes{weights, bias}, nil
}

// params returns the parameter values of the layer in the order of
// the learnables returned by addTo
func (f *fcLayer) params() []*tensor.Dense {
	return []*tensor.Dense{f.weights, f.bias}
}

// clone returns a deep copy of the layer
func (f *fcLayer) clone() *fcLayer {
	return &fcLayer{
		weights: f.weights.Clone().(*tensor.Dense),
		bias:    f.bias.Clone().(*tensor.Dense),
		act:     f.act,
	}
}

// Package network implements the neural network action-value function
// approximator: a multi-layered perceptron with a single hidden layer.
package network

import (
	"bytes"
	"encoding/gob"
	"os"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/snakeq/utils/floatutils"
)

// Names of the parameters of an MLP, as used by Weights and SetWeights
const (
	HiddenWeights = "w1"
	HiddenBias    = "b1"
	OutputWeights = "w2"
	OutputBias    = "b2"
)

// MLP implements a multi-layered perceptron with one hidden layer and
// one output per action. The hidden layer uses a configurable
// activation and the output layer has no activation.
//
// The MLP owns its parameter values. A new computational graph is built
// for each batch of inputs, so the same MLP predicts on a single input
// and on batches of any size. The parameters are changed only by Fit,
// SetWeights, and Load.
type MLP struct {
	features int
	hidden   int
	outputs  int

	hiddenLayer *fcLayer
	outputLayer *fcLayer
}

// NewMLP returns a new MLP with features inputs, hidden units in the
// hidden layer, and outputs outputs. Weights are initialized with init
// and biases with 0.
func NewMLP(features, hidden, outputs int, activation *Activation,
	init G.InitWFn) (*MLP, error) {
	if features < 1 || hidden < 1 || outputs < 1 {
		return nil, errors.Errorf("newMLP: layer sizes must be positive "+
			"\n\thave(%v, %v, %v)", features, hidden, outputs)
	}
	if activation == nil {
		return nil, errors.New("newMLP: nil activation")
	}
	if init == nil {
		return nil, errors.New("newMLP: nil weight initializer")
	}

	return &MLP{
		features:    features,
		hidden:      hidden,
		outputs:     outputs,
		hiddenLayer: newFCLayer(features, hidden, activation, init),
		outputLayer: newFCLayer(hidden, outputs, Identity(), init),
	}, nil
}

// Features returns the number of features in a single input
func (m *MLP) Features() int {
	return m.features
}

// Hidden returns the number of units in the hidden layer
func (m *MLP) Hidden() int {
	return m.hidden
}

// Outputs returns the number of outputs from the network
func (m *MLP) Outputs() int {
	return m.outputs
}

// Activation returns the activation of the hidden layer
func (m *MLP) Activation() *Activation {
	return m.hiddenLayer.act
}

// graph builds the computational graph of the forward pass on a batch
// of inputs stored in row-major order. The learnables are returned in
// the order of params.
func (m *MLP) graph(input []float64) (*G.ExprGraph, *G.Node, G.Nodes,
	error) {
	if len(input) == 0 || len(input)%m.features != 0 {
		return nil, nil, nil, errors.Errorf("fwd: invalid number of "+
			"inputs \n\twant(multiple of %v) \n\thave(%v)", m.features,
			len(input))
	}
	batch := len(input) / m.features

	g := G.NewGraph()
	x := G.NewMatrix(g, tensor.Float64, G.WithShape(batch, m.features),
		G.WithName("input"), G.WithValue(tensor.New(
			tensor.WithShape(batch, m.features),
			tensor.WithBacking(input),
		)))

	h, learnables, err := m.hiddenLayer.addTo(x, "hidden")
	if err != nil {
		return nil, nil, nil, err
	}
	pred, outLearnables, err := m.outputLayer.addTo(h, "output")
	if err != nil {
		return nil, nil, nil, err
	}

	return g, pred, append(learnables, outLearnables...), nil
}

// Forward returns the predicted action values for a batch of inputs
// stored in row-major order. Row i of the returned matrix holds the
// action values of input i. A single input is a batch of size 1.
func (m *MLP) Forward(input []float64) (*mat.Dense, error) {
	g, pred, _, err := m.graph(input)
	if err != nil {
		return nil, err
	}

	var predVal G.Value
	G.Read(pred, &predVal)

	vm := G.NewTapeMachine(g)
	defer vm.Close()
	if err := vm.RunAll(); err != nil {
		return nil, errors.Wrap(err, "forward: could not run forward pass")
	}

	return m.dense(predVal)
}

// Fit takes a single step with solver s to reduce the mean squared
// error between the predictions on input and target, over all elements
// of the batch. The loss before the step is returned.
func (m *MLP) Fit(input []float64, target *mat.Dense, s G.Solver) (float64,
	error) {
	g, pred, learnables, err := m.graph(input)
	if err != nil {
		return 0, err
	}

	batch := len(input) / m.features
	if r, c := target.Dims(); r != batch || c != m.outputs {
		return 0, errors.Errorf("fit: invalid target shape \n\twant(%v, %v)"+
			"\n\thave(%v, %v)", batch, m.outputs, r, c)
	}
	targetNode := G.NewMatrix(g, tensor.Float64,
		G.WithShape(batch, m.outputs), G.WithName("target"),
		G.WithValue(tensor.New(
			tensor.WithShape(batch, m.outputs),
			tensor.WithBacking(mat.DenseCopyOf(target).RawMatrix().Data),
		)))

	// Mean squared error
	cost := G.Must(G.Sub(pred, targetNode))
	cost = G.Must(G.Square(cost))
	cost = G.Must(G.Mean(cost))

	if _, err := G.Grad(cost, learnables...); err != nil {
		return 0, errors.Wrap(err, "fit: could not compute gradient")
	}

	var costVal G.Value
	G.Read(cost, &costVal)

	vm := G.NewTapeMachine(g, G.BindDualValues(learnables...))
	defer vm.Close()
	if err := vm.RunAll(); err != nil {
		return 0, errors.Wrap(err, "fit: could not run forward pass")
	}

	model := make([]G.ValueGrad, len(learnables))
	for i, node := range learnables {
		model[i] = node
	}
	if err := s.Step(model); err != nil {
		return 0, errors.Wrap(err, "fit: could not step solver")
	}

	// Store the stepped values back into the network parameters
	for i, param := range m.params() {
		copy(param.Data().([]float64),
			learnables[i].Value().Data().([]float64))
	}

	return scalar(costVal)
}

// dense converts the output of the network into a matrix with one row
// per input
func (m *MLP) dense(v G.Value) (*mat.Dense, error) {
	var data []float64
	switch d := v.Data().(type) {
	case []float64:
		data = make([]float64, len(d))
		copy(data, d)
	case float64:
		data = []float64{d}
	default:
		return nil, errors.Errorf("forward: unexpected output type %T", d)
	}

	return mat.NewDense(len(data)/m.outputs, m.outputs, data), nil
}

// scalar returns the single float64 stored in v
func scalar(v G.Value) (float64, error) {
	switch d := v.Data().(type) {
	case float64:
		return d, nil
	case []float64:
		if len(d) == 1 {
			return d[0], nil
		}
	}
	return 0, errors.Errorf("scalar: value is not a scalar \n\thave(%v)", v)
}

// params returns the parameter values of the MLP in graph order
func (m *MLP) params() []*tensor.Dense {
	return append(m.hiddenLayer.params(), m.outputLayer.params()...)
}

// paramNames returns the names of the parameters in the order of params
func paramNames() []string {
	return []string{HiddenWeights, HiddenBias, OutputWeights, OutputBias}
}

// Weights returns a copy of the parameters of the MLP, keyed by the
// parameter names. Biases are 1 x n row matrices.
func (m *MLP) Weights() map[string]*mat.Dense {
	weights := make(map[string]*mat.Dense, 4)
	for i, param := range m.params() {
		shape := param.Shape()
		data := make([]float64, shape.TotalSize())
		copy(data, param.Data().([]float64))
		weights[paramNames()[i]] = mat.NewDense(shape[0], shape[1], data)
	}
	return weights
}

// SetWeights sets the parameters of the MLP. Every parameter must be
// given with the shape it has in the MLP.
func (m *MLP) SetWeights(weights map[string]*mat.Dense) error {
	params := m.params()
	for i, name := range paramNames() {
		w, ok := weights[name]
		if !ok {
			return errors.Errorf("setWeights: missing parameter %v", name)
		}

		shape := params[i].Shape()
		if r, c := w.Dims(); r != shape[0] || c != shape[1] {
			return errors.Errorf("setWeights: invalid shape for %v "+
				"\n\twant(%v, %v) \n\thave(%v, %v)", name, shape[0],
				shape[1], r, c)
		}
	}

	for i, name := range paramNames() {
		copy(params[i].Data().([]float64),
			mat.DenseCopyOf(weights[name]).RawMatrix().Data)
	}
	return nil
}

// Finite returns whether all parameters of the MLP are finite
func (m *MLP) Finite() bool {
	for _, param := range m.params() {
		if !floatutils.Finite(param.Data().([]float64)...) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the MLP
func (m *MLP) Clone() *MLP {
	return &MLP{
		features:    m.features,
		hidden:      m.hidden,
		outputs:     m.outputs,
		hiddenLayer: m.hiddenLayer.clone(),
		outputLayer: m.outputLayer.clone(),
	}
}

// snapshot is the gob encoded form of an MLP
type snapshot struct {
	Features, Hidden, Outputs int
	Activation                *Activation
	Params                    [][]float64
}

// GobEncode implements the gob.GobEncoder interface
func (m *MLP) GobEncode() ([]byte, error) {
	s := snapshot{
		Features:   m.features,
		Hidden:     m.hidden,
		Outputs:    m.outputs,
		Activation: m.Activation(),
	}
	for _, param := range m.params() {
		s.Params = append(s.Params, param.Data().([]float64))
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, errors.Wrap(err, "gobencode: could not encode MLP")
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface
func (m *MLP) GobDecode(in []byte) error {
	var s snapshot
	if err := gob.NewDecoder(bytes.NewReader(in)).Decode(&s); err != nil {
		return errors.Wrap(err, "gobdecode: could not decode MLP")
	}
	if s.Activation == nil {
		return errors.New("gobdecode: missing activation")
	}

	decoded, err := NewMLP(s.Features, s.Hidden, s.Outputs, s.Activation,
		G.Zeroes())
	if err != nil {
		return errors.Wrap(err, "gobdecode: could not construct MLP")
	}

	params := decoded.params()
	if len(s.Params) != len(params) {
		return errors.Errorf("gobdecode: invalid number of parameters "+
			"\n\twant(%v) \n\thave(%v)", len(params), len(s.Params))
	}
	for i, param := range params {
		data := param.Data().([]float64)
		if len(s.Params[i]) != len(data) {
			return errors.Errorf("gobdecode: invalid size for parameter "+
				"%v \n\twant(%v) \n\thave(%v)", paramNames()[i], len(data),
				len(s.Params[i]))
		}
		copy(data, s.Params[i])
	}

	*m = *decoded
	return nil
}

// Save saves the MLP to path. The file is first written to a temporary
// file, then an existing file at path is kept as path + "~".
func (m *MLP) Save(path string) error {
	data, err := m.GobEncode()
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrapf(err, "save: could not write %v", tmp)
	}
	if _, err := os.Stat(path); err == nil {
		if err := os.Rename(path, path+"~"); err != nil {
			return errors.Wrapf(err, "save: could not back up %v", path)
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "save: could not rename %v to %v", tmp,
			path)
	}
	return nil
}

// Load sets the MLP to the one saved at path. The saved MLP must have
// the same layer sizes as m.
func (m *MLP) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "load: could not read %v", path)
	}

	var loaded MLP
	if err := loaded.GobDecode(data); err != nil {
		return errors.Wrapf(err, "load: %v", path)
	}
	if loaded.features != m.features || loaded.hidden != m.hidden ||
		loaded.outputs != m.outputs {
		return errors.Errorf("load: invalid layer sizes in %v \n\t"+
			"want(%v, %v, %v) \n\thave(%v, %v, %v)", path, m.features,
			m.hidden, m.outputs, loaded.features, loaded.hidden,
			loaded.outputs)
	}

	*m = loaded
	return nil
}

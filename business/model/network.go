package model

import (
	"fmt"
	"math"
	"math/rand"
)

const (
	hidden1Size = 64
	hidden2Size = 16
	dropoutRate = 0.3
)

// Network is a small feed-forward binary classifier:
// input -> 64 (dropout, relu) -> 16 (relu) -> 1 (sigmoid).
// Weight matrices are row-major [out][in].
type Network struct {
	InputSize int `json:"input_size"`
	Hidden1   int `json:"hidden1"`
	Hidden2   int `json:"hidden2"`

	W1 [][]float64 `json:"w1"`
	B1 []float64   `json:"b1"`
	W2 [][]float64 `json:"w2"`
	B2 []float64   `json:"b2"`
	W3 [][]float64 `json:"w3"`
	B3 []float64   `json:"b3"`
}

func NewNetwork(inputSize int, rng *rand.Rand) *Network {
	n := &Network{
		InputSize: inputSize,
		Hidden1:   hidden1Size,
		Hidden2:   hidden2Size,
	}

	n.W1, n.B1 = initLayer(hidden1Size, inputSize, rng)
	n.W2, n.B2 = initLayer(hidden2Size, hidden1Size, rng)
	n.W3, n.B3 = initLayer(1, hidden2Size, rng)

	return n
}

// initLayer draws weights and biases from U(-1/sqrt(in), 1/sqrt(in)).
func initLayer(out, in int, rng *rand.Rand) ([][]float64, []float64) {
	limit := 1.0 / math.Sqrt(float64(in))

	W := make([][]float64, out)
	for i := range W {
		W[i] = make([]float64, in)
		for j := range W[i] {
			W[i][j] = (rng.Float64()*2 - 1) * limit
		}
	}

	b := make([]float64, out)
	for i := range b {
		b[i] = (rng.Float64()*2 - 1) * limit
	}

	return W, b
}

func (n *Network) check() error {
	if n.InputSize <= 0 || n.Hidden1 <= 0 || n.Hidden2 <= 0 {
		return fmt.Errorf("network: invalid layer sizes %d/%d/%d", n.InputSize, n.Hidden1, n.Hidden2)
	}
	if len(n.W1) != n.Hidden1 || len(n.B1) != n.Hidden1 ||
		len(n.W2) != n.Hidden2 || len(n.B2) != n.Hidden2 ||
		len(n.W3) != 1 || len(n.B3) != 1 {
		return fmt.Errorf("network: weight shapes do not match layer sizes")
	}
	if len(n.W1[0]) != n.InputSize || len(n.W2[0]) != n.Hidden1 || len(n.W3[0]) != n.Hidden2 {
		return fmt.Errorf("network: weight widths do not match layer sizes")
	}
	return nil
}

// Predict runs the forward pass without dropout and returns one score in
// [0, 1] per input row.
func (n *Network) Predict(X [][]float64) ([]float64, error) {
	out := make([]float64, len(X))
	for i, x := range X {
		if len(x) != n.InputSize {
			return nil, fmt.Errorf("network: expected %d inputs, got %d", n.InputSize, len(x))
		}
		act := n.forward(x, nil)
		out[i] = act.a3
	}
	return out, nil
}

// activations keeps the per-sample intermediate values needed by backprop.
type activations struct {
	x    []float64
	z1   []float64 // post-dropout pre-activation of layer 1
	a1   []float64
	z2   []float64
	a2   []float64
	a3   float64
	mask []float64 // dropout keep mask, nil at inference time
}

// forward computes the pass. A non-nil mask applies inverted dropout after
// the first linear layer (training only).
func (n *Network) forward(x []float64, mask []float64) activations {
	z1 := linear(n.W1, n.B1, x)
	if mask != nil {
		for i := range z1 {
			z1[i] *= mask[i]
		}
	}
	a1 := relu(z1)

	z2 := linear(n.W2, n.B2, a1)
	a2 := relu(z2)

	z3 := linear(n.W3, n.B3, a2)
	a3 := sigmoid(z3[0])

	return activations{x: x, z1: z1, a1: a1, z2: z2, a2: a2, a3: a3, mask: mask}
}

func linear(W [][]float64, b []float64, x []float64) []float64 {
	out := make([]float64, len(W))
	for i, row := range W {
		sum := b[i]
		for j, w := range row {
			sum += w * x[j]
		}
		out[i] = sum
	}
	return out
}

func relu(z []float64) []float64 {
	out := make([]float64, len(z))
	for i, v := range z {
		if v > 0 {
			out[i] = v
		}
	}
	return out
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// dropoutMask draws an inverted-dropout keep mask: kept units are scaled by
// 1/(1-rate) so inference needs no rescaling.
func dropoutMask(size int, rate float64, rng *rand.Rand) []float64 {
	mask := make([]float64, size)
	keep := 1.0 - rate
	for i := range mask {
		if rng.Float64() < keep {
			mask[i] = 1.0 / keep
		}
	}
	return mask
}

// grads accumulates parameter gradients over one mini-batch.
type grads struct {
	W1 [][]float64
	B1 []float64
	W2 [][]float64
	B2 []float64
	W3 [][]float64
	B3 []float64
}

func newGrads(n *Network) *grads {
	g := &grads{
		B1: make([]float64, n.Hidden1),
		B2: make([]float64, n.Hidden2),
		B3: make([]float64, 1),
	}
	g.W1 = zeroMatrix(n.Hidden1, n.InputSize)
	g.W2 = zeroMatrix(n.Hidden2, n.Hidden1)
	g.W3 = zeroMatrix(1, n.Hidden2)
	return g
}

func zeroMatrix(rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}

// backward accumulates the gradient of the mean binary cross-entropy over the
// batch for one sample. scale is 1/batchSize.
func (n *Network) backward(act activations, y float64, scale float64, g *grads) {
	// sigmoid + BCE collapse to (a - y)
	d3 := (act.a3 - y) * scale

	for j := range n.W3[0] {
		g.W3[0][j] += d3 * act.a2[j]
	}
	g.B3[0] += d3

	d2 := make([]float64, n.Hidden2)
	for j := 0; j < n.Hidden2; j++ {
		if act.z2[j] > 0 {
			d2[j] = n.W3[0][j] * d3
		}
	}

	for i := 0; i < n.Hidden2; i++ {
		if d2[i] == 0 {
			continue
		}
		for j := 0; j < n.Hidden1; j++ {
			g.W2[i][j] += d2[i] * act.a1[j]
		}
		g.B2[i] += d2[i]
	}

	d1 := make([]float64, n.Hidden1)
	for j := 0; j < n.Hidden1; j++ {
		if act.z1[j] <= 0 {
			continue
		}
		var sum float64
		for i := 0; i < n.Hidden2; i++ {
			sum += n.W2[i][j] * d2[i]
		}
		if act.mask != nil {
			sum *= act.mask[j]
		}
		d1[j] = sum
	}

	for i := 0; i < n.Hidden1; i++ {
		if d1[i] == 0 {
			continue
		}
		for j := 0; j < n.InputSize; j++ {
			g.W1[i][j] += d1[i] * act.x[j]
		}
		g.B1[i] += d1[i]
	}
}

func bceLoss(pred, y float64) float64 {
	const eps = 1e-7
	p := math.Min(math.Max(pred, eps), 1-eps)
	return -(y*math.Log(p) + (1-y)*math.Log(1-p))
}

package model

import "math"

// adam implements the Adam optimizer with the usual defaults
// (lr=0.001, beta1=0.9, beta2=0.999, eps=1e-8).
type adam struct {
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64
	t     int

	m *grads
	v *grads
}

func newAdam(n *Network) *adam {
	return &adam{
		lr:    0.001,
		beta1: 0.9,
		beta2: 0.999,
		eps:   1e-8,
		m:     newGrads(n),
		v:     newGrads(n),
	}
}

func (o *adam) step(n *Network, g *grads) {
	o.t++

	o.updateMatrix(n.W1, g.W1, o.m.W1, o.v.W1)
	o.updateVector(n.B1, g.B1, o.m.B1, o.v.B1)
	o.updateMatrix(n.W2, g.W2, o.m.W2, o.v.W2)
	o.updateVector(n.B2, g.B2, o.m.B2, o.v.B2)
	o.updateMatrix(n.W3, g.W3, o.m.W3, o.v.W3)
	o.updateVector(n.B3, g.B3, o.m.B3, o.v.B3)
}

func (o *adam) updateMatrix(W, g, m, v [][]float64) {
	for i := range W {
		o.updateVector(W[i], g[i], m[i], v[i])
	}
}

func (o *adam) updateVector(w, g, m, v []float64) {
	c1 := 1 - math.Pow(o.beta1, float64(o.t))
	c2 := 1 - math.Pow(o.beta2, float64(o.t))

	for i := range w {
		m[i] = o.beta1*m[i] + (1-o.beta1)*g[i]
		v[i] = o.beta2*v[i] + (1-o.beta2)*g[i]*g[i]

		mHat := m[i] / c1
		vHat := v[i] / c2

		w[i] -= o.lr * mHat / (math.Sqrt(vHat) + o.eps)
	}
}

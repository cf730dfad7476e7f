package optim

import (
	"math"

	"github.com/chewxy/math32"

	"github.com/born-ml/scopt/internal/tensor"
)

// Element-wise update kernels. Each kernel is generic over the element
// type so float32 parameters are updated in float32 arithmetic; exp and
// sqrt come from math32 or math accordingly.

// scAdagradKernel:
//
//	v_new = v + g²
//	p_new = p - lr * g / (v_new + xi2 * exp(-xi1 * v_new))
func scAdagradKernel[T tensor.DType](pNew, p, g, v []T, lr, xi1, xi2 T, exp func(T) T) {
	for i := range p {
		gi := g[i]
		vi := v[i] + gi*gi
		v[i] = vi
		pNew[i] = p[i] - lr*gi/(vi+xi2*exp(-xi1*vi))
	}
}

// scRMSPropKernel:
//
//	v_new = (1 - gamma/t) * v + (gamma/t) * g²
//	p_new = p - lr * g / (t*v_new + xi2 * exp(-xi1 * t * v_new))
func scRMSPropKernel[T tensor.DType](pNew, p, g, v []T, lr, xi1, xi2, gamma, t T, exp func(T) T) {
	w := gamma / t
	for i := range p {
		gi := g[i]
		vi := (1-w)*v[i] + w*gi*gi
		v[i] = vi
		tv := t * vi
		pNew[i] = p[i] - lr*gi/(tv+xi2*exp(-xi1*tv))
	}
}

// rmspropVariantKernel:
//
//	v_new = (1 - gamma/t) * v + (gamma/t) * g²
//	p_new = p - lr * g / (sqrt(t * v_new) + delta)
func rmspropVariantKernel[T tensor.DType](pNew, p, g, v []T, lr, delta, gamma, t T, sqrt func(T) T) {
	w := gamma / t
	for i := range p {
		gi := g[i]
		vi := (1-w)*v[i] + w*gi*gi
		v[i] = vi
		pNew[i] = p[i] - lr*gi/(sqrt(t*vi)+delta)
	}
}

// sgdKernel keeps a velocity in v:
//
//	v_new = momentum * v + g
//	p_new = p - lr * v_new
func sgdKernel[T tensor.DType](pNew, p, g, v []T, lr, momentum T) {
	for i := range p {
		vi := momentum*v[i] + g[i]
		v[i] = vi
		pNew[i] = p[i] - lr*vi
	}
}

// adamKernel updates first moment m and second moment v:
//
//	m_t = beta1 * m + (1-beta1) * g
//	v_t = beta2 * v + (1-beta2) * g²
//	p_new = p - lr * (m_t/bc1) / (sqrt(v_t/bc2) + eps)
func adamKernel[T tensor.DType](pNew, p, g, m, v []T, lr, beta1, beta2, eps, bc1, bc2 T, sqrt func(T) T) {
	for i := range p {
		gi := g[i]
		m[i] = beta1*m[i] + (1-beta1)*gi
		v[i] = beta2*v[i] + (1-beta2)*gi*gi
		mHat := m[i] / bc1
		vHat := v[i] / bc2
		pNew[i] = p[i] - lr*mHat/(sqrt(vHat)+eps)
	}
}

var (
	exp32  = math32.Exp
	sqrt32 = math32.Sqrt
	exp64  = math.Exp
	sqrt64 = math.Sqrt
)

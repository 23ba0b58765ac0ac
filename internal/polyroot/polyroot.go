// Package polyroot provides polynomial root-finding utilities shared by the
// filter analysis code.
package polyroot

import (
	"errors"
	"math"
	"math/cmplx"
)

// ErrDegeneratePolynomial is returned when a polynomial has degenerate
// coefficients (all zero, convergence failure, etc.).
var ErrDegeneratePolynomial = errors.New("polyroot: degenerate polynomial")

// Roots returns the roots of a real polynomial whose coefficients are in
// descending power order: c[0]*z^n + c[1]*z^(n-1) + ... + c[n].
//
// Leading zero coefficients lower the degree. A nonzero constant has no
// roots and returns an empty slice. Degrees one and two are solved in
// closed form; higher degrees use [DurandKerner].
func Roots(c []float64) ([]complex128, error) {
	start := 0
	for start < len(c) && c[start] == 0 {
		start++
	}

	c = c[start:]

	switch len(c) {
	case 0:
		return nil, ErrDegeneratePolynomial
	case 1:
		return []complex128{}, nil
	case 2:
		return []complex128{complex(-c[1]/c[0], 0)}, nil
	case 3:
		r := QuadraticRoots(c[0], c[1], c[2])
		return r[:], nil
	}

	coeff := make([]complex128, len(c))
	for i, v := range c {
		coeff[i] = complex(v, 0)
	}

	return DurandKerner(coeff)
}

// QuadraticRoots returns both roots of a*z^2 + b*z + c. a must be nonzero.
func QuadraticRoots(a, b, c float64) [2]complex128 {
	sqrtDiscriminant := cmplx.Sqrt(complex(b*b-4*a*c, 0))
	den := complex(2*a, 0)

	return [2]complex128{
		(-complex(b, 0) + sqrtDiscriminant) / den,
		(-complex(b, 0) - sqrtDiscriminant) / den,
	}
}

// DurandKerner finds all roots of a polynomial using the Durand-Kerner
// (Weierstrass) simultaneous iteration method. Coefficients are in descending
// power order: coeff[0]*z^n + coeff[1]*z^(n-1) + ... + coeff[n].
//
//nolint:cyclop
func DurandKerner(coeff []complex128) ([]complex128, error) {
	if len(coeff) < 2 {
		return nil, ErrDegeneratePolynomial
	}

	lead := coeff[0]
	if lead == 0 {
		return nil, ErrDegeneratePolynomial
	}

	n := len(coeff) - 1

	norm := make([]complex128, len(coeff))
	for i := range coeff {
		norm[i] = coeff[i] / lead
	}

	radius := 0.0
	for i := 1; i <= n; i++ {
		if r := cmplx.Abs(norm[i]); r > radius {
			radius = r
		}
	}

	if radius < 1 {
		radius = 1
	}

	roots := make([]complex128, n)
	for i := range n {
		angle := 2*math.Pi*float64(i)/float64(n) + 0.3
		r := radius * (1 + 0.1*float64(i)/float64(n))
		roots[i] = complex(r*math.Cos(angle), r*math.Sin(angle))
	}

	const (
		maxIter = 500
		tol     = 1e-12
	)

	for range maxIter {
		maxDelta := 0.0

		for i := range n {
			den := complex(1, 0)

			for j := range n {
				if i == j {
					continue
				}

				den *= roots[i] - roots[j]
			}

			if cmplx.Abs(den) == 0 {
				roots[i] += complex(1e-10, 1e-10)
				continue
			}

			delta := PolyEval(norm, roots[i]) / den

			roots[i] -= delta
			if d := cmplx.Abs(delta); d > maxDelta {
				maxDelta = d
			}
		}

		if maxDelta < tol {
			return roots, nil
		}
	}

	maxResidual := 0.0

	for _, r := range roots {
		res := cmplx.Abs(PolyEval(norm, r))
		if res > maxResidual {
			maxResidual = res
		}
	}

	if maxResidual < 1e-6 {
		return roots, nil
	}

	return nil, ErrDegeneratePolynomial
}

// PolyEval evaluates a polynomial at x using Horner's method. Coefficients
// are in descending power order: coeff[0]*x^n + ... + coeff[n].
func PolyEval(coeff []complex128, x complex128) complex128 {
	v := coeff[0]
	for i := 1; i < len(coeff); i++ {
		v = v*x + coeff[i]
	}

	return v
}

// MaxAbs returns the largest magnitude among roots, or 0 for none.
func MaxAbs(roots []complex128) float64 {
	m := 0.0
	for _, r := range roots {
		if a := cmplx.Abs(r); a > m {
			m = a
		}
	}

	return m
}

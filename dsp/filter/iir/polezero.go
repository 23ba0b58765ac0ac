package iir

import (
	"fmt"

	"github.com/cwbudde/lpfsim/internal/polyroot"
)

// Poles returns the finite z-plane poles, the roots of
//
//	A[0]*z^N + A[1]*z^(N-1) + ... + A[N] = 0
func (c Coefficients) Poles() ([]complex128, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	p, err := polyroot.Roots(c.A)
	if err != nil {
		return nil, fmt.Errorf("iir: poles: %w", err)
	}

	return p, nil
}

// Zeros returns the finite z-plane zeros of the numerator.
func (c Coefficients) Zeros() ([]complex128, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	z, err := polyroot.Roots(c.B)
	if err != nil {
		return nil, fmt.Errorf("iir: zeros: %w", err)
	}

	return z, nil
}

// MaxPoleMagnitude returns the largest pole radius.
func (c Coefficients) MaxPoleMagnitude() (float64, error) {
	p, err := c.Poles()
	if err != nil {
		return 0, err
	}

	return polyroot.MaxAbs(p), nil
}

// Stable reports whether every pole lies strictly inside the unit circle.
// An unstable set still runs; its output grows without bound.
func (c Coefficients) Stable() (bool, error) {
	m, err := c.MaxPoleMagnitude()
	if err != nil {
		return false, err
	}

	return m < 1, nil
}

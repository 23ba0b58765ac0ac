// Package iir provides a fixed-coefficient Direct Form I IIR filter runtime.
//
// An [Engine] evaluates the difference equation
//
//	y[n] = sum(B[i]*x[n-i], i=0..N) - sum(A[i]*y[n-i], i=1..N)
//
// one sample at a time, keeping the N+1 most recent inputs and outputs in
// separate history buffers (index 0 is the newest entry). The coefficient
// set is supplied once at construction and never changes.
//
// A[0] is assumed to be 1. It is never applied as a divisor, so a
// coefficient set with A[0] != 1 is filtered without normalization.
//
// Coefficient analysis helpers ([Coefficients.Response],
// [Coefficients.Poles], [Coefficients.Stable]) inspect a coefficient set
// without running the filter.
package iir

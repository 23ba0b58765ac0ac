package iir_test

import (
	"fmt"

	"github.com/cwbudde/lpfsim/dsp/filter/iir"
)

func ExampleEngine_Step() {
	e, err := iir.NewEngine(iir.LowPass3k20k())
	if err != nil {
		panic(err)
	}

	// Process an impulse.
	for i := range 5 {
		var x float64
		if i == 0 {
			x = 1
		}

		y := e.Step(x)
		fmt.Printf("y[%d] = %.6f\n", i, y)
	}
	// Output:
	// y[0] = 0.000000
	// y[1] = 0.020198
	// y[2] = 0.036127
	// y[3] = 0.048279
	// y[4] = 0.057132
}

func ExampleCoefficients_Stable() {
	c := iir.LowPass3k20k()

	m, _ := c.MaxPoleMagnitude()
	stable, _ := c.Stable()

	fmt.Printf("order %d, max |p| = %.4f, stable = %v\n", c.Order(), m, stable)
	// Output:
	// order 2, max |p| = 0.8994, stable = true
}

func ExampleCoefficients_MagnitudeDB() {
	c := iir.LowPass3k20k()

	for _, freq := range []float64{0, 1000, 3000, 9000} {
		fmt.Printf("%5.0f Hz: %+.2f dB\n", freq, c.MagnitudeDB(freq, iir.PresetSampleRate))
	}
	// Output:
	//     0 Hz: -0.02 dB
	//  1000 Hz: -13.01 dB
	//  3000 Hz: -31.30 dB
	//  9000 Hz: -44.80 dB
}

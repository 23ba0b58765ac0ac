package signal_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/lpfsim/dsp/core"
	"github.com/cwbudde/lpfsim/dsp/signal"
)

func ExampleGenerator_Sine() {
	g := signal.NewGenerator(core.WithSampleRate(1000))
	x, err := g.Sine(250, 1, 5)
	if err != nil {
		panic(err)
	}
	if math.Abs(x[4]) < 1e-12 {
		x[4] = 0
	}

	fmt.Printf("%.0f %.0f %.0f %.0f %.0f\n", x[0], x[1], x[2], x[3], x[4])

	// Output:
	// 0 1 0 -1 0
}

func ExampleSineSource() {
	src := signal.NewSineSource(20000, 1000, 1)
	for range 3 {
		fmt.Printf("%.4f\n", src.Next())
	}

	// Output:
	// 0.0000
	// 0.3090
	// 0.5878
}

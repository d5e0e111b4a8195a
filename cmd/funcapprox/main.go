// funcapprox trains a small network to approximate sin(x) on [-5, 5).
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/gorgonia/ffnet"
	"github.com/gorgonia/ffnet/alu"
	"github.com/gorgonia/ffnet/rng"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

var (
	parallel = flag.Bool("parallel", false, "use the parallel ALU backend")
	hidden   = flag.Int("hidden", 16, "neurons in the hidden layer")
	epochs   = flag.Int("epochs", 10, "training epochs")
	seed     = flag.Int64("seed", 0xDEA0DEA0, "weight initialisation seed")
	step     = flag.Float64("step", 0.1, "distance between samples")
	dot      = flag.String("dot", "", "write the topology in DOT to this file")
	csvOut   = flag.String("csv", "", "write the per epoch errors as CSV to this file")
)

// samples tabulates sin over [lo, hi) as a column of inputs and a column of targets.
func samples(lo, hi, step float64) (xs, ys *tensor.Dense) {
	var in, out []float32
	for x := lo; x < hi; x += step {
		in = append(in, float32(x))
		out = append(out, float32(math.Sin(x)))
	}
	xs = tensor.New(tensor.WithShape(len(in), 1), tensor.WithBacking(in))
	ys = tensor.New(tensor.WithShape(len(out), 1), tensor.WithBacking(out))
	return
}

func build(a alu.ALU, logger *log.Logger) (*ffnet.Network, error) {
	n := ffnet.New(a, ffnet.WithLogger(logger), ffnet.WithTrainConfig(ffnet.TrainConfig{Epochs: *epochs, InitialBest: 1}))
	in, err := n.AddLayer(ffnet.InputLayer(1))
	if err != nil {
		return nil, err
	}
	h, err := n.AddLayer(ffnet.HiddenLayer(*hidden).WithActivation(ffnet.Tanh()))
	if err != nil {
		return nil, err
	}
	out, err := n.AddLayer(ffnet.OutputLayer(1).WithActivation(ffnet.Tanh()))
	if err != nil {
		return nil, err
	}
	if err = n.ConnectLayers(ffnet.Connect(in, h)); err != nil {
		return nil, err
	}
	if err = n.ConnectLayers(ffnet.Connect(h, out)); err != nil {
		return nil, err
	}
	if err = n.Finalize(true); err != nil {
		return nil, err
	}
	src, err := rng.New(*seed, -1, 1)
	if err != nil {
		return nil, err
	}
	if err = n.RandomizeWeights(src); err != nil {
		return nil, err
	}
	return n, nil
}

func run(logger *log.Logger) error {
	backend := alu.Basic
	if *parallel {
		backend = alu.Parallel
	}
	a, err := alu.New(backend)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := build(a, logger)
	if err != nil {
		return errors.Wrap(err, "building network")
	}
	defer n.Release()

	if *dot != "" {
		s, err := n.ToDot()
		if err != nil {
			return err
		}
		if err := os.WriteFile(*dot, []byte(s), 0644); err != nil {
			return errors.WithStack(err)
		}
	}

	training, err := ffnet.PairsFromTensors(samples(-5, 5, *step))
	if err != nil {
		return err
	}
	validation, err := ffnet.PairsFromTensors(samples(-5+*step/2, 5, *step))
	if err != nil {
		return err
	}

	report, err := n.SupervisedTrain(training, validation)
	if err != nil {
		return errors.Wrap(err, "training")
	}
	for i, e := range report.EpochErrors {
		fmt.Printf("epoch %d\t%v\n", i, e)
	}
	fmt.Printf("accepted %d of %d epochs, best %v, validation %v\n", report.Accepted, len(report.EpochErrors), report.BestError, report.ValidationError)

	if *csvOut != "" {
		f, err := os.Create(*csvOut)
		if err != nil {
			return errors.WithStack(err)
		}
		defer f.Close()
		return report.WriteCSV(f)
	}
	return nil
}

func main() {
	flag.Parse()
	logger := log.New(os.Stderr, "", log.Ltime)
	logger.Printf("funcapprox starting")
	if err := run(logger); err != nil {
		logger.Fatalf("%+v", err)
	}
	logger.Printf("funcapprox done")
}

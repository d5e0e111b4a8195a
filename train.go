package ffnet

import (
	"github.com/pkg/errors"
)

// Pair is one supervised example.
type Pair struct {
	Input  []Real
	Target []Real
}

// TrainConfig configures SupervisedTrain.
type TrainConfig struct {
	Epochs      int  // passes over the training set
	InitialBest Real // an epoch updates the weights only if its error is below the best so far, starting here
}

func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		Epochs:      10,
		InitialBest: 1,
	}
}

func (conf TrainConfig) IsValid() bool {
	return conf.Epochs >= 1 && conf.InitialBest > 0
}

// TrainReport summarises a SupervisedTrain run.
type TrainReport struct {
	EpochErrors     []Real // mean RMS error of every epoch
	Updated         []bool // whether the epoch's weight update was applied
	Accepted        int
	BestError       Real
	ValidationError Real // mean RMS error on the validation set after training
}

// SupervisedTrain trains on the training set for the configured number of epochs, then measures
// the validation set.
//
// Every pair of an epoch is evaluated and back propagated. The weights are updated once at the
// end of the epoch, from the deltas of its last pair, and only when the epoch's mean RMS error
// beats the best error seen so far. Epochs that do not improve leave the weights untouched.
func (n *Network) SupervisedTrain(training, validation []Pair) (report TrainReport, err error) {
	if err = n.trainable(); err != nil {
		return
	}
	if len(training) == 0 {
		return report, errors.New("empty training set")
	}
	if len(validation) == 0 {
		return report, errors.New("empty validation set")
	}
	if err = n.checkPairs(training); err != nil {
		return report, errors.Wrap(err, "training set")
	}
	if err = n.checkPairs(validation); err != nil {
		return report, errors.Wrap(err, "validation set")
	}

	conf := n.trainConf
	best := conf.InitialBest
	report.EpochErrors = make([]Real, 0, conf.Epochs)
	report.Updated = make([]bool, 0, conf.Epochs)
	for epoch := 0; epoch < conf.Epochs; epoch++ {
		var sum Real
		for _, p := range training {
			if err = n.Evaluate(p.Input, n.result); err != nil {
				return
			}
			if err = n.ComputeGradients(p.Target); err != nil {
				return
			}
			sum += n.rms(p.Target)
		}
		epochErr := sum / Real(len(training))
		report.EpochErrors = append(report.EpochErrors, epochErr)
		report.Updated = append(report.Updated, epochErr < best)

		if epochErr < best {
			if err = n.UpdateWeights(); err != nil {
				return
			}
			best = epochErr
			report.Accepted++
			n.logger.Printf("epoch %d: error %v, weights updated", epoch, epochErr)
		} else {
			n.logger.Printf("epoch %d: error %v, not better than %v, skipped", epoch, epochErr, best)
		}
	}
	report.BestError = best

	if report.ValidationError, err = n.MeanError(validation); err != nil {
		return
	}
	n.logger.Printf("validation error %v", report.ValidationError)
	return report, nil
}

// MeanError evaluates every pair and returns the mean RMS error. Weights are not touched.
func (n *Network) MeanError(pairs []Pair) (Real, error) {
	if err := n.ready(); err != nil {
		return 0, err
	}
	if len(pairs) == 0 {
		return 0, errors.New("no pairs to measure")
	}
	if err := n.checkPairs(pairs); err != nil {
		return 0, err
	}
	var sum Real
	for _, p := range pairs {
		if err := n.Evaluate(p.Input, n.result); err != nil {
			return 0, err
		}
		sum += n.rms(p.Target)
	}
	return sum / Real(len(pairs)), nil
}

func (n *Network) rms(target []Real) Real {
	return RootMeanSquare(n.alu, len(n.result), target, n.result, n.signal)
}

func (n *Network) checkPairs(pairs []Pair) error {
	in, out := n.inputLayer(), n.outputLayer()
	for i, p := range pairs {
		if len(p.Input) != in.Neurons || len(p.Target) != out.Neurons {
			return errors.Errorf("pair %d has %d inputs and %d targets, the network takes %d and produces %d", i, len(p.Input), len(p.Target), in.Neurons, out.Neurons)
		}
	}
	return nil
}

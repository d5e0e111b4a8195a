package ffnet

import (
	"testing"

	"github.com/gorgonia/ffnet/rng"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var xorPairs = []Pair{
	{Input: []Real{0, 0}, Target: []Real{0}},
	{Input: []Real{1, 0}, Target: []Real{1}},
	{Input: []Real{0, 1}, Target: []Real{1}},
	{Input: []Real{1, 1}, Target: []Real{0}},
}

func TestTrainConfigIsValid(t *testing.T) {
	cases := []struct {
		conf    TrainConfig
		correct bool
	}{
		{DefaultTrainConfig(), true},
		{TrainConfig{Epochs: 1, InitialBest: 0.1}, true},
		{TrainConfig{Epochs: 0, InitialBest: 1}, false},
		{TrainConfig{Epochs: 5, InitialBest: 0}, false},
	}
	for _, c := range cases {
		if c.conf.IsValid() != c.correct {
			t.Errorf("Expected %+v validity to be %v", c.conf, c.correct)
		}
	}
}

func TestSupervisedTrainAcceptIfImproved(t *testing.T) {
	n := chain(t, basicALU(t), 2, 3, 1)
	require.NoError(t, n.Finalize(true))
	require.NoError(t, n.RandomizeWeights(rng.NewDefault(0xDEA0DEA0)))

	report, err := n.SupervisedTrain(xorPairs, xorPairs)
	require.NoError(t, err)
	require.Len(t, report.EpochErrors, DefaultTrainConfig().Epochs)

	// replay the acceptance rule over the recorded errors
	best := DefaultTrainConfig().InitialBest
	accepted := 0
	for _, e := range report.EpochErrors {
		if e < best {
			best = e
			accepted++
		}
	}
	assert.Equal(t, accepted, report.Accepted)
	assert.Equal(t, best, report.BestError)

	validation, err := n.MeanError(xorPairs)
	require.NoError(t, err)
	assert.Equal(t, validation, report.ValidationError)

	assert.Contains(t, n.ExecLog(), "epoch 0")
	assert.Contains(t, n.ExecLog(), "validation error")
}

func TestSupervisedTrainNeverImproves(t *testing.T) {
	n := regressionNetwork(t, basicALU(t), true)
	require.NoError(t, n.SetTrainConfig(TrainConfig{Epochs: 4, InitialBest: 1e-9}))

	report, err := n.SupervisedTrain(xorPairs, xorPairs[:1])
	require.NoError(t, err)
	assert.Equal(t, 0, report.Accepted)
	assert.Len(t, report.EpochErrors, 4)
	assert.Equal(t, Real(1e-9), report.BestError)

	w, _ := n.Weights()
	assert.Equal(t, regressionWeights, w, "rejected epochs leave the weights alone")
	for _, e := range report.EpochErrors[1:] {
		assert.Equal(t, report.EpochErrors[0], e, "without updates every epoch measures the same error")
	}
}

func TestSupervisedTrainFirstEpochAccepted(t *testing.T) {
	n := regressionNetwork(t, basicALU(t), true)
	require.NoError(t, n.SetTrainConfig(TrainConfig{Epochs: 1, InitialBest: 1}))

	report, err := n.SupervisedTrain(xorPairs, xorPairs)
	require.NoError(t, err)
	// RMS of a sigmoid output against 0/1 targets is below 1
	assert.Equal(t, 1, report.Accepted)
	w, _ := n.Weights()
	assert.NotEqual(t, regressionWeights, w)
}

func TestSupervisedTrainErrors(t *testing.T) {
	n := regressionNetwork(t, basicALU(t), true)

	_, err := n.SupervisedTrain(nil, xorPairs)
	assert.Error(t, err)
	_, err = n.SupervisedTrain(xorPairs, nil)
	assert.Error(t, err)

	bad := []Pair{{Input: []Real{1}, Target: []Real{1}}}
	_, err = n.SupervisedTrain(bad, xorPairs)
	assert.Error(t, err)
	_, err = n.SupervisedTrain(xorPairs, bad)
	assert.Error(t, err)

	inference := regressionNetwork(t, basicALU(t), false)
	_, err = inference.SupervisedTrain(xorPairs, xorPairs)
	assert.Equal(t, ErrNotTraining, errors.Cause(err))

	// inference networks can still be measured
	e, err := inference.MeanError(xorPairs)
	require.NoError(t, err)
	assert.True(t, e > 0 && e < 1)
	_, err = inference.MeanError(nil)
	assert.Error(t, err)
}

func TestLoss(t *testing.T) {
	k := basicALU(t)
	scratch := make([]Real, 3)
	target := []Real{1, 2, 3}
	output := []Real{1, 0, 6}
	assert.Equal(t, Real(13), SumOfSquares(k, 3, target, output, scratch))
	assert.InDelta(t, 13.0/3, MeanSquare(k, 3, target, output, scratch), 1e-6)
	assert.InDelta(t, 2.081666, RootMeanSquare(k, 3, target, output, scratch), 1e-6)
	assert.Equal(t, Real(0), MeanSquare(k, 0, nil, nil, nil))
}

package ffnet

import (
	"fmt"

	"github.com/gorgonia/ffnet/alu"
)

// ActivationKind enumerates the supported activation functions.
type ActivationKind byte

const (
	LinearActivation ActivationKind = iota
	StepActivation
	SigmoidActivation
	TanhActivation
	ReLUActivation
	MAXACTIVATION
)

func (k ActivationKind) String() string {
	switch k {
	case LinearActivation:
		return "linear"
	case StepActivation:
		return "step"
	case SigmoidActivation:
		return "sigmoid"
	case TanhActivation:
		return "tanh"
	case ReLUActivation:
		return "relu"
	}
	return fmt.Sprintf("ActivationKind(%d)", byte(k))
}

// Activation is an activation function together with its parameters. Threshold is used by Step
// and ReLU, Floor only by ReLU.
type Activation struct {
	Kind      ActivationKind
	Threshold alu.Real
	Floor     alu.Real
}

func Linear() Activation  { return Activation{Kind: LinearActivation} }
func Sigmoid() Activation { return Activation{Kind: SigmoidActivation} }
func Tanh() Activation    { return Activation{Kind: TanhActivation} }

// Step outputs 1 above the threshold and 0 elsewhere.
func Step(threshold alu.Real) Activation {
	return Activation{Kind: StepActivation, Threshold: threshold}
}

// DefaultStep is a step at 0.5.
func DefaultStep() Activation { return Step(0.5) }

// ReLU passes values at or above the threshold through and clamps the rest to floor.
func ReLU(threshold, floor alu.Real) Activation {
	return Activation{Kind: ReLUActivation, Threshold: threshold, Floor: floor}
}

func (a Activation) String() string {
	switch a.Kind {
	case StepActivation:
		return fmt.Sprintf("step(%v)", a.Threshold)
	case ReLUActivation:
		return fmt.Sprintf("relu(%v, %v)", a.Threshold, a.Floor)
	}
	return a.Kind.String()
}

// HasDerivative reports whether Differentiate is defined. It is for every kind.
func (a Activation) HasDerivative() bool { return a.Kind < MAXACTIVATION }

func (a Activation) isValid() bool { return a.Kind < MAXACTIVATION }

// Activate writes f(in) into out.
func (a Activation) Activate(k alu.ALU, n int, in, out []alu.Real) {
	switch a.Kind {
	case LinearActivation:
		k.Copy(n, in, out)
	case StepActivation:
		k.Step(n, in, a.Threshold, out)
	case SigmoidActivation:
		k.Sigmoid(n, in, out)
	case TanhActivation:
		k.Tanh(n, in, out)
	case ReLUActivation:
		k.ReLU(n, in, a.Threshold, a.Floor, out)
	default:
		panic(fmt.Sprintf("unknown activation %v", a.Kind))
	}
}

// Differentiate writes f'(in) into out. Step and ReLU use the step function itself as their
// derivative. scratch needs n elements and is only touched by Sigmoid.
func (a Activation) Differentiate(k alu.ALU, n int, in, out, scratch []alu.Real) {
	switch a.Kind {
	case LinearActivation:
		k.Fill(n, 1, out)
	case SigmoidActivation:
		// s(1-s)
		k.Sigmoid(n, in, scratch)
		k.FMAScalars(n, scratch, -1, 1, out)
		k.Mul(n, scratch, out, out)
	case TanhActivation:
		// 1-tanh²
		k.Tanh(n, in, out)
		k.Mul(n, out, out, out)
		k.FMAScalars(n, out, -1, 1, out)
	case StepActivation, ReLUActivation:
		k.Step(n, in, a.Threshold, out)
	default:
		panic(fmt.Sprintf("unknown activation %v", a.Kind))
	}
}

package ffnet

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrFinalized is returned when the topology is changed, or Finalize called, after Finalize succeeded.
	ErrFinalized = errors.New("network is already finalized")
	// ErrNotFinalized is returned by operations that need the buffers Finalize allocates.
	ErrNotFinalized = errors.New("network is not finalized")
	// ErrNotTraining is returned by the training operations of a network finalized for inference only.
	ErrNotTraining = errors.New("network was not finalized for training")
	// ErrReleased is returned by every operation after Release.
	ErrReleased = errors.New("network has been released")
)

// StructureError reports a topology that cannot be laid out.
type StructureError struct {
	Reason string
}

func (e *StructureError) Error() string { return fmt.Sprintf("invalid network structure: %s", e.Reason) }

func structuref(format string, args ...interface{}) error {
	return errors.WithStack(&StructureError{Reason: fmt.Sprintf(format, args...)})
}

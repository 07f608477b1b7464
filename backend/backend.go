// Package backend adapts each ragged-array representation to a common
// trial/timing protocol.
package backend

import (
	"context"
	"errors"
	"fmt"

	"raggedbench/tensor"
)

// ErrBackendUnavailable is returned when a backend or device cannot be used
// in this build or on this machine.
var ErrBackendUnavailable = errors.New("backend unavailable")

// Params describes one benchmark invocation.
type Params struct {
	Trials int
	Rows   int
	Seed   uint64
}

// Validate rejects parameters that cannot produce samples.
func (p Params) Validate() error {
	if p.Trials <= 0 {
		return fmt.Errorf("trials must be positive, got %d", p.Trials)
	}
	if p.Rows <= 0 {
		return fmt.Errorf("rows must be positive, got %d", p.Rows)
	}
	return nil
}

// Outcome holds the per-trial samples in seconds and the last trial's result.
// Granular is nil for backends that only report a total.
type Outcome struct {
	Total    []float64
	Granular []float64
	Result   *tensor.Ragged
}

// Adapter runs the x*x*x*x workload on one representation.
type Adapter interface {
	// Name identifies the function for memoization.
	Name() string
	// Args lists the arguments that change the result, in order.
	Args() []string
	Run(ctx context.Context, p Params) (Outcome, error)
}

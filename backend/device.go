package backend

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Kind is a device class.
type Kind int

const (
	CPU Kind = iota
	GPU
)

func (k Kind) String() string {
	if k == GPU {
		return "GPU"
	}
	return "CPU"
}

// Device is a place where nested components live and kernels run.
type Device struct {
	Kind  Kind
	Index int
}

// String returns the canonical designator, e.g. /device:CPU:0.
func (d Device) String() string {
	return fmt.Sprintf("/device:%s:%d", d.Kind, d.Index)
}

// ParseDevice accepts short names (cpu, gpu, cuda, optionally with :N) and
// full designators such as /device:GPU:0. Matching is case-insensitive.
func ParseDevice(s string) (Device, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	spec = strings.TrimPrefix(spec, "/device:")
	spec = strings.TrimPrefix(spec, "/")

	name, idx, hasIdx := strings.Cut(spec, ":")
	d := Device{}
	switch name {
	case "cpu":
		d.Kind = CPU
	case "gpu", "cuda":
		d.Kind = GPU
	default:
		return Device{}, fmt.Errorf("unknown device %q", s)
	}
	if hasIdx {
		n, err := strconv.Atoi(idx)
		if err != nil || n < 0 {
			return Device{}, fmt.Errorf("invalid device index in %q", s)
		}
		d.Index = n
	}
	return d, nil
}

// executor launches row kernels on a device. Launch may return before the
// kernel has run; Synchronize blocks until every launched kernel is done.
type executor interface {
	Launch(n int, kernel func(lo, hi int) error)
	Synchronize() error
}

func newExecutor(d Device, workers int) (executor, error) {
	switch d.Kind {
	case CPU:
		if d.Index != 0 {
			return nil, fmt.Errorf("%w: %s does not exist", ErrBackendUnavailable, d)
		}
		return newCPUExecutor(workers), nil
	default:
		return nil, fmt.Errorf("%w: %s is not supported by this build", ErrBackendUnavailable, d)
	}
}

// cpuExecutor splits each launch into chunks run on a bounded worker pool.
type cpuExecutor struct {
	workers int
	group   *errgroup.Group
}

func newCPUExecutor(workers int) *cpuExecutor {
	if workers <= 0 {
		workers = 1
	}
	e := &cpuExecutor{workers: workers}
	e.reset()
	return e
}

func (e *cpuExecutor) reset() {
	e.group = &errgroup.Group{}
	e.group.SetLimit(e.workers)
}

func (e *cpuExecutor) Launch(n int, kernel func(lo, hi int) error) {
	// Several chunks per worker keep the triangular rows balanced.
	chunk := max(1, n/(e.workers*4))
	for lo := 0; lo < n; lo += chunk {
		lo, hi := lo, min(lo+chunk, n)
		e.group.Go(func() error {
			return kernel(lo, hi)
		})
	}
}

func (e *cpuExecutor) Synchronize() error {
	err := e.group.Wait()
	e.reset()
	return err
}

package mesh

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSelection means no mesh element matched a query
	ErrInvalidSelection = errors.New("no mesh element at selection")

	// ErrStaleReference means a FaceRef outlived the topology it was taken from
	ErrStaleReference = errors.New("stale face reference")

	// ErrTopologyPrecondition means an operator refused to run on the given topology
	ErrTopologyPrecondition = errors.New("topology precondition violated")
)

// TopologyError reports which operator refused to run and why.
// It matches ErrTopologyPrecondition with errors.Is.
type TopologyError struct {
	Op     string
	Reason string
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("%s: %v: %s", e.Op, ErrTopologyPrecondition, e.Reason)
}

// Is reports whether target is ErrTopologyPrecondition
func (e *TopologyError) Is(target error) bool {
	return target == ErrTopologyPrecondition
}

func topologyErrorf(op, format string, args ...any) error {
	return &TopologyError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// Package views loads page-level read models. Each view fans out its
// independent reads, joins them, and replaces the whole model at once;
// a page is never shown half-fetched.
package views

// Phase is the lifecycle of a view load.
type Phase int

const (
	Loading Phase = iota
	Failed
	Ready
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Failed:
		return "failed"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// State is the tri-state outcome of a view load. Data is meaningful
// only when Phase is Ready; Err only when Phase is Failed.
type State[T any] struct {
	Phase Phase
	Data  T
	Err   error
}

// NewLoading returns the initial state.
func NewLoading[T any]() State[T] {
	return State[T]{Phase: Loading}
}

// NewReady wraps a fully loaded model.
func NewReady[T any](data T) State[T] {
	return State[T]{Phase: Ready, Data: data}
}

// NewFailed wraps a load failure.
func NewFailed[T any](err error) State[T] {
	return State[T]{Phase: Failed, Err: err}
}

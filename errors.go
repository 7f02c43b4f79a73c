package grove

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned by Resolve when no candidate matched and the
	// dependency is not optional.
	ErrNotFound = errors.New("grove: dependency not found")

	// ErrAmbiguous is returned by Resolve when several candidates matched and
	// no search order was requested. The first candidate is still returned.
	ErrAmbiguous = errors.New("grove: ambiguous dependency")

	// ErrTimeout is delivered by WaitFor when the deadline elapsed.
	ErrTimeout = errors.New("grove: dependency wait timed out")

	// ErrCanceled is delivered by WaitFor when the wait was canceled.
	ErrCanceled = errors.New("grove: dependency wait canceled")

	// ErrCreation wraps failures of the node or component creation primitives
	// used by Ensure.
	ErrCreation = errors.New("grove: component creation failed")

	// ErrInvalidArgument reports a caller error such as a factory producing a
	// component that is not assignable to the requested type.
	ErrInvalidArgument = errors.New("grove: invalid argument")

	// ErrNodeDisposed is returned when a disposed node is used as a host.
	ErrNodeDisposed = errors.New("grove: node is disposed")

	// ErrSceneDisposed is returned when creating nodes in a disposed scene.
	ErrSceneDisposed = errors.New("grove: scene is disposed")
)

// ResolveError is the error returned by Resolve, Ensure and WaitFor for
// resolution failures. It unwraps to one of ErrNotFound, ErrAmbiguous,
// ErrTimeout.
type ResolveError struct {
	Err        error
	Diagnostic Diagnostic
}

func (e *ResolveError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v: %s from %q", e.Err, e.Diagnostic.Type, e.Diagnostic.Searcher)
	if e.Diagnostic.Filters != "" {
		fmt.Fprintf(&b, " (%s)", e.Diagnostic.Filters)
	}
	if len(e.Diagnostic.Candidates) > 0 {
		fmt.Fprintf(&b, " candidates: %s", strings.Join(e.Diagnostic.Candidates, ", "))
	}
	return b.String()
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

package grove

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// waiter is a pending wait polled by Scene.Tick.
type waiter interface {
	// poll attempts one resolve and advances the deadline by dt seconds.
	// It returns true once the wait has finished.
	poll(dt float32) bool
	cancel()
	Done() bool
}

// Pending is a dependency wait started by WaitFor. It finishes exactly once:
// with the resolved component, with ErrTimeout, or with ErrCanceled.
type Pending[T any] struct {
	origin *Node
	query  *Query[T]
	opts   ResolveOptions

	// deadline runs elapsed seconds linearly from 0 to the timeout.
	deadline *gween.Tween
	elapsed  float32
	timeout  float32

	value T
	err   error
	done  bool
	then  []func(T, error)
}

// WaitFor polls for a component of type T once per Scene.Tick until one is
// resolved or timeout has elapsed. opts.Optional is forced on while polling.
// A timeout is reported once as a diagnostic and never retried.
// Panics if origin is nil.
func WaitFor[T any](origin *Node, opts ResolveOptions, timeout time.Duration) *Pending[T] {
	if origin == nil {
		panic("grove: wait from nil node")
	}
	return waitFor(QueryFor[T](origin, opts), opts, timeout)
}

// WaitForQuery is WaitFor over a caller-built query, as with ResolveQuery.
func WaitForQuery[T any](q *Query[T], opts ResolveOptions, timeout time.Duration) *Pending[T] {
	if q == nil {
		panic("grove: wait on nil query")
	}
	return waitFor(q, opts, timeout)
}

func waitFor[T any](q *Query[T], opts ResolveOptions, timeout time.Duration) *Pending[T] {
	opts.Optional = true
	secs := float32(max(timeout, 0).Seconds())
	p := &Pending[T]{
		origin:   q.origin,
		query:    q,
		opts:     opts,
		deadline: gween.New(0, secs, secs, ease.Linear),
		timeout:  secs,
	}
	q.origin.scene.addWait(p)
	return p
}

// Done reports whether the wait has finished.
func (p *Pending[T]) Done() bool {
	return p.done
}

// Result returns the resolved component and the terminal error. Before the
// wait is done it returns the zero value and a nil error.
func (p *Pending[T]) Result() (T, error) {
	return p.value, p.err
}

// Elapsed returns how much of the timeout has been consumed, in seconds.
func (p *Pending[T]) Elapsed() float32 {
	return p.elapsed
}

// Progress returns the consumed fraction of the timeout, from 0 to 1. A zero
// timeout reports 1.
func (p *Pending[T]) Progress() float32 {
	if p.timeout <= 0 {
		return 1
	}
	return min(p.elapsed/p.timeout, 1)
}

// Then registers fn to run when the wait finishes. If it already has, fn runs
// immediately.
func (p *Pending[T]) Then(fn func(T, error)) *Pending[T] {
	if p.done {
		fn(p.value, p.err)
		return p
	}
	p.then = append(p.then, fn)
	return p
}

// Cancel finishes the wait with ErrCanceled. No-op once done.
func (p *Pending[T]) Cancel() {
	if p.done {
		return
	}
	p.origin.scene.removeWait(p)
	p.origin.scene.metrics.waited(outcomeCanceled)
	var zero T
	p.finish(zero, ErrCanceled)
}

func (p *Pending[T]) cancel() {
	p.Cancel()
}

func (p *Pending[T]) poll(dt float32) bool {
	if p.done {
		return true
	}
	if p.origin.disposed {
		p.Cancel()
		return true
	}
	if v, found, err := resolve(p.query, p.opts); found {
		p.origin.scene.metrics.waited(outcomeResolved)
		p.finish(v, err)
		return true
	}
	elapsed, expired := p.deadline.Update(dt)
	p.elapsed = elapsed
	if !expired {
		return false
	}

	d := Diagnostic{
		Kind:     DiagnosticTimeout,
		Searcher: p.origin.Path(),
		Type:     typeName[T](),
		Filters:  p.opts.describe(p.query.algorithm, sideNone),
	}
	p.origin.scene.report(d)
	p.origin.scene.metrics.waited(outcomeTimeout)
	var zero T
	p.finish(zero, &ResolveError{Err: ErrTimeout, Diagnostic: d})
	return true
}

func (p *Pending[T]) finish(v T, err error) {
	p.value, p.err, p.done = v, err, true
	callbacks := p.then
	p.then = nil
	for _, fn := range callbacks {
		fn(v, err)
	}
}

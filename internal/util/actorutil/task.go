package actorutil

import (
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/primetalk/goio/io"
)

// SafeBackgroundTask runs a blocking function off the actor goroutine and
// hands the result back as a message. Panics inside the function surface as
// errors, never crash the actor.
type SafeBackgroundTask[T any] struct {
	ctx       actor.Context
	fn        func() (*T, error)
	timeout   *time.Duration
	onError   func(error)
	recover   func(error) T
	onSuccess func(T)
}

func NewBackgroundTask[T any](ctx actor.Context, fn func() (*T, error)) *SafeBackgroundTask[T] {
	return &SafeBackgroundTask[T]{
		ctx: ctx,
		fn:  fn,
	}
}

func NewBackgroundTaskNoError[T any](ctx actor.Context, fn func() *T) *SafeBackgroundTask[T] {
	return &SafeBackgroundTask[T]{
		ctx: ctx,
		fn: func() (*T, error) {
			return fn(), nil
		},
	}
}

func (t *SafeBackgroundTask[T]) WithTimeout(timeout time.Duration) *SafeBackgroundTask[T] {
	t.timeout = &timeout
	return t
}

func (t *SafeBackgroundTask[T]) OnError(fn func(error)) *SafeBackgroundTask[T] {
	t.onError = fn
	return t
}

func (t *SafeBackgroundTask[T]) Recover(fn func(error) T) *SafeBackgroundTask[T] {
	t.recover = fn
	return t
}

func (t *SafeBackgroundTask[T]) OnSuccess(fn func(T)) *SafeBackgroundTask[T] {
	t.onSuccess = fn
	return t
}

// PipeTo runs the task on its own goroutine and sends the result to the
// given actor when it completes.
func (t *SafeBackgroundTask[T]) PipeTo(pid *actor.PID) {
	t.onSuccess = func(value T) {
		t.ctx.Send(pid, value)
	}
	t.RunAsync()
}

func (t *SafeBackgroundTask[T]) build() io.IO[T] {
	bgFn := io.Eval(t.fn)
	bg := io.Map(bgFn, func(a *T) T {
		if a == nil {
			var zero T
			return zero
		}
		return *a
	})
	if t.timeout != nil {
		bg = io.WithTimeout[T](*t.timeout)(bg)
	}
	return bg
}

// Run executes the task synchronously on the calling goroutine.
func (t *SafeBackgroundTask[T]) Run() {
	t.deliver(io.RunSync(t.build()))
}

// RunAsync executes the task on a background goroutine.
func (t *SafeBackgroundTask[T]) RunAsync() {
	bg := t.build()
	go func() {
		t.deliver(io.RunSync(bg))
	}()
}

func (t *SafeBackgroundTask[T]) deliver(result io.GoResult[T]) {
	value := result.Value
	if result.Error != nil {
		if t.recover != nil {
			value = t.recover(result.Error)
		} else {
			if t.onError != nil {
				t.onError(result.Error)
			}
			return
		}
	}
	if t.onSuccess != nil {
		t.onSuccess(value)
	}
}

func MapBackgroundTask[T, T2 any](bgt *SafeBackgroundTask[T], mapFn func(*T) *T2) *SafeBackgroundTask[T2] {
	newFn := func() (*T2, error) {
		r, err := bgt.fn()
		if err != nil {
			return nil, err
		}
		return mapFn(r), nil
	}
	return &SafeBackgroundTask[T2]{
		ctx: bgt.ctx,
		fn:  newFn,
	}
}

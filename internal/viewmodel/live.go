// Package viewmodel keeps the dashboard's realtime-bound views. Each view
// refetches its rows whenever the change feed signals its table/date and
// publishes a new snapshot.
package viewmodel

import (
	"context"
	"errors"
	"sync"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/feed"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/ports"
)

// FetchError names what could not be loaded.
type FetchError struct {
	Subject string
	Err     error
}

func (e *FetchError) Error() string {
	return "load " + e.Subject + ": " + e.Err.Error()
}

func (e *FetchError) Unwrap() error { return e.Err }

// Message is the text shown to the operator.
func (e *FetchError) Message() string {
	return "Failed to load " + e.Subject + ": " + e.Err.Error()
}

func fetchErr(subject string, err error) error {
	if err == nil {
		return nil
	}
	return &FetchError{Subject: subject, Err: err}
}

// Message renders any load error for display.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Message()
	}
	return err.Error()
}

// State is one view's published snapshot.
type State[T any] struct {
	Data    T      `json:"data"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
	// Ready is set once a load has succeeded.
	Ready bool `json:"ready"`
}

type Loader[T any] func(ctx context.Context) (T, error)

// Live binds one loader to one change-feed filter.
//
// Every Load takes the next sequence number when it is issued. A result is
// applied only if no later-issued load has already been applied, so a slow
// response can never overwrite a newer one.
type Live[T any] struct {
	name   string
	filter feed.Filter
	load   Loader[T]

	mu       sync.Mutex
	issued   uint64
	applied  uint64
	state    State[T]
	onChange func()
}

func NewLive[T any](name string, filter feed.Filter, load Loader[T]) *Live[T] {
	return &Live[T]{
		name:   name,
		filter: filter,
		load:   load,
		state:  State[T]{Loading: true},
	}
}

func (l *Live[T]) Name() string { return l.name }

func (l *Live[T]) Filter() feed.Filter { return l.filter }

// OnChange registers fn to run after every published state change. It must
// be set before Bind or Load are called.
func (l *Live[T]) OnChange(fn func()) {
	l.mu.Lock()
	l.onChange = fn
	l.mu.Unlock()
}

// Snapshot returns the current state.
func (l *Live[T]) Snapshot() State[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Load refetches and, unless superseded, publishes the result. A failed load
// keeps the previous data and records the message. The returned error is the
// loader's, whether or not the result was applied.
func (l *Live[T]) Load(ctx context.Context) error {
	l.mu.Lock()
	l.issued++
	seq := l.issued
	l.state.Loading = true
	l.mu.Unlock()

	data, err := l.load(ctx)

	l.mu.Lock()
	if seq <= l.applied {
		l.mu.Unlock()
		staleResults.WithLabelValues(l.name).Inc()
		return err
	}
	l.applied = seq
	l.state.Loading = l.applied < l.issued
	if err != nil {
		l.state.Error = Message(err)
	} else {
		l.state.Data = data
		l.state.Error = ""
		l.state.Ready = true
	}
	fn := l.onChange
	l.mu.Unlock()

	loads.WithLabelValues(l.name, result(err)).Inc()
	if fn != nil {
		fn()
	}
	return err
}

// Bind subscribes to the view's filter, loads once, then reloads on every
// invalidation until ctx is done. The subscription is closed on return.
func (l *Live[T]) Bind(ctx context.Context, changes ports.ChangeFeed) {
	sub := changes.Subscribe(l.filter)
	defer sub.Close()

	_ = l.Load(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.C():
			_ = l.Load(ctx)
		}
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

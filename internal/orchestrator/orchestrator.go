package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Dispatcher runs fn on the consumer's thread, e.g. fyne.Do or Loop.Dispatch
type Dispatcher func(fn func())

// State of a submitted task
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRunning:
		return "Running"
	case StateSucceeded:
		return "Succeeded"
	case StateFailed:
		return "Failed"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Result is what a deliver callback receives
type Result[T any] struct {
	Value  T
	Err    error
	Handle *Handle
}

// Handle identifies one submission
type Handle struct {
	ID   string
	Slot string
	Seq  uint64

	state      atomic.Int32
	superseded atomic.Bool
	done       chan struct{}
}

// State returns the worker state
func (h *Handle) State() State {
	return State(h.state.Load())
}

// Superseded reports whether the result was dropped because a newer
// submission to the same slot exists. Only meaningful after Done.
func (h *Handle) Superseded() bool {
	return h.superseded.Load()
}

// Done is closed once the result was delivered or dropped on the
// consumer thread
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Orchestrator starts one goroutine per submission and routes results
// through its Dispatcher
type Orchestrator struct {
	dispatch Dispatcher
	ctx      context.Context
	log      zerolog.Logger

	mu     sync.Mutex
	latest map[string]uint64
	wg     sync.WaitGroup
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// WithContext sets the context every worker runs under. Cancelling it
// aborts in-flight network operations, e.g. on shutdown.
func WithContext(ctx context.Context) Option {
	return func(o *Orchestrator) { o.ctx = ctx }
}

// New returns an Orchestrator delivering through dispatch
func New(dispatch Dispatcher, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		dispatch: dispatch,
		ctx:      context.Background(),
		log:      zerolog.Nop(),
		latest:   make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.log = o.log.With().Str("component", "orchestrator").Logger()
	return o
}

// Dispatch runs fn on the consumer's thread
func (o *Orchestrator) Dispatch(fn func()) {
	o.dispatch(fn)
}

// Latest returns the sequence number of the newest submission to slot
func (o *Orchestrator) Latest(slot string) uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.latest[slot]
}

// Wait blocks until every started worker returned. Results may still be
// queued on the Dispatcher afterwards.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Submit runs work on a new goroutine and delivers its outcome on the
// consumer thread, unless a newer submission to the same slot was made in
// the meantime. An empty slot is never superseded. deliver may be nil.
func Submit[T any](o *Orchestrator, slot string, work func(ctx context.Context) (T, error), deliver func(Result[T])) *Handle {
	o.mu.Lock()
	o.latest[slot]++
	seq := o.latest[slot]
	o.mu.Unlock()

	h := &Handle{
		ID:   uuid.NewString(),
		Slot: slot,
		Seq:  seq,
		done: make(chan struct{}),
	}
	h.state.Store(int32(StateRunning))

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()

		value, err := runWork(o.ctx, work)
		if err != nil {
			h.state.Store(int32(StateFailed))
			o.log.Debug().Err(err).Str("slot", slot).Uint64("seq", seq).Msg("task failed")
		} else {
			h.state.Store(int32(StateSucceeded))
		}

		o.dispatch(func() {
			defer close(h.done)
			if slot != "" && o.Latest(slot) != seq {
				h.superseded.Store(true)
				o.log.Debug().Str("slot", slot).Uint64("seq", seq).Msg("dropping superseded result")
				return
			}
			if deliver != nil {
				deliver(Result[T]{Value: value, Err: err, Handle: h})
			}
		})
	}()
	return h
}

// runWork turns a panicking worker into a failed task
func runWork[T any](ctx context.Context, work func(context.Context) (T, error)) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return work(ctx)
}

package meter

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/joseph-ayodele/ingredient-scanner/constants"
)

// ErrSuperseded is returned when a newer run (or a hide) replaced the one being driven.
var ErrSuperseded = errors.New("meter run superseded")

// RenderFunc receives every frame that becomes visible. It runs with the
// animator lock held and must not call back into the Animator.
type RenderFunc func(State)

// Run is a handle on one animation started by an Animator.
type Run struct {
	gen  uint64
	anim *Animation
}

// Animator serialises frames from successive runs onto one render target.
type Animator struct {
	mu     sync.Mutex
	gen    uint64
	render RenderFunc
	last   State
}

// NewAnimator returns an animator that starts hidden. render may be nil.
func NewAnimator(render RenderFunc) *Animator {
	if render == nil {
		render = func(State) {}
	}
	return &Animator{render: render, last: Hidden()}
}

// Begin starts a run and renders its first frame. Any earlier run is invalidated.
func (m *Animator) Begin(target int, flag constants.HealthFlag) *Run {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gen++
	run := &Run{gen: m.gen, anim: NewAnimation(target, flag)}
	if s, ok := run.anim.Next(); ok {
		m.emit(s)
	}
	return run
}

// Hide invalidates the current run and renders a hidden gauge.
func (m *Animator) Hide() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gen++
	m.emit(Hidden())
}

// Step advances run by one frame and renders it. A finished run returns its
// final state without rendering again.
func (m *Animator) Step(run *Run) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if run.gen != m.gen {
		return m.last, ErrSuperseded
	}
	s, ok := run.anim.Next()
	if !ok {
		return m.last, nil
	}
	m.emit(s)
	return s, nil
}

// Done reports whether run has rendered its final frame.
func (m *Animator) Done(run *Run) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if run.gen != m.gen {
		return false, ErrSuperseded
	}
	return run.anim.Done(), nil
}

// Current returns the most recently rendered state.
func (m *Animator) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// DriveOption configures a call to Drive.
type DriveOption func(*driveConfig)

type driveConfig struct {
	lock sync.Locker
}

// WithLock holds l around every check and step of the run. l is always
// acquired before the animator lock, so callers whose render func touches
// state guarded by l pass it here instead of locking per frame.
func WithLock(l sync.Locker) DriveOption {
	return func(c *driveConfig) { c.lock = l }
}

type nopLocker struct{}

func (nopLocker) Lock()   {}
func (nopLocker) Unlock() {}

// Drive steps run once per tick until it finishes, ctx ends, or it is superseded.
func (m *Animator) Drive(ctx context.Context, run *Run, ticks <-chan time.Time, opts ...DriveOption) error {
	cfg := driveConfig{lock: nopLocker{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	for {
		cfg.lock.Lock()
		done, err := m.Done(run)
		cfg.lock.Unlock()
		if err != nil || done {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticks:
		}
		cfg.lock.Lock()
		_, err = m.Step(run)
		cfg.lock.Unlock()
		if err != nil {
			return err
		}
	}
}

func (m *Animator) emit(s State) {
	m.last = s
	m.render(s)
}

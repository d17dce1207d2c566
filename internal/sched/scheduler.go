// Package sched owns the frame loop: it drains input, steps the
// navigation machine, renders and pushes frames at a fixed cadence.
package sched

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"github.com/mankin3n/cryptowallet-ST7789/internal/input"
	"github.com/mankin3n/cryptowallet-ST7789/internal/nav"
	"github.com/mankin3n/cryptowallet-ST7789/internal/render"
)

// Display is the sink for finished frames. Both the ST7789 panel and the
// simulated display satisfy it.
type Display interface {
	Push(frame *image.RGBA) error
	SetBacklight(brightness int) error
	Close() error
}

// Renderer turns a state snapshot into a frame. Satisfied by
// render.Renderer.
type Renderer interface {
	Render(st nav.State) (*image.RGBA, error)
	Theme() *render.Theme
}

// LoopState tracks the lifecycle of the frame loop.
type LoopState int32

const (
	LoopIdle LoopState = iota
	LoopRunning
	LoopShuttingDown
	LoopStopped
)

func (s LoopState) String() string {
	switch s {
	case LoopIdle:
		return "idle"
	case LoopRunning:
		return "running"
	case LoopShuttingDown:
		return "shutting-down"
	case LoopStopped:
		return "stopped"
	default:
		return fmt.Sprintf("LoopState(%d)", int32(s))
	}
}

const (
	// DefaultFramePeriod targets roughly 30 frames per second, which the
	// SPI link sustains for full-frame updates.
	DefaultFramePeriod = 33 * time.Millisecond

	// maxEventsPerTick bounds how much queued input one tick may apply so
	// a burst cannot starve rendering.
	maxEventsPerTick = 8

	// pushRetries is how many immediate retries a failed panel write gets
	// before the loop reports the failure on screen.
	pushRetries = 2

	// fadeStep is the backlight decrement applied per tick while easing
	// into idle.
	fadeStep = 10
)

// Scheduler wires the machine, renderer and display together.
type Scheduler struct {
	machine *nav.Machine
	rend    Renderer
	disp    Display
	events  <-chan input.Event
	period  time.Duration

	mu         sync.Mutex
	state      LoopState
	lastFrame  *image.RGBA
	lastPushed *image.RGBA
	lastState  nav.State
	lastIdle   bool

	appliedBacklight int
	pushFailing      bool
}

// New builds a scheduler. A zero period selects DefaultFramePeriod.
func New(machine *nav.Machine, rend Renderer, disp Display, events <-chan input.Event, period time.Duration) (*Scheduler, error) {
	if machine == nil || rend == nil || disp == nil {
		return nil, fmt.Errorf("sched: machine, renderer and display are required")
	}
	if events == nil {
		return nil, fmt.Errorf("sched: event channel is required")
	}
	if period <= 0 {
		period = DefaultFramePeriod
	}
	return &Scheduler{
		machine:          machine,
		rend:             rend,
		disp:             disp,
		events:           events,
		period:           period,
		state:            LoopIdle,
		appliedBacklight: -1,
	}, nil
}

// State returns the loop's lifecycle state.
func (s *Scheduler) State() LoopState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scheduler) setState(st LoopState) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// LastFrame returns a copy of the most recently rendered frame, or nil
// before the first render. The preview server reads it from its own
// goroutine.
func (s *Scheduler) LastFrame() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastFrame == nil {
		return nil
	}
	cp := image.NewRGBA(s.lastFrame.Bounds())
	copy(cp.Pix, s.lastFrame.Pix)
	return cp
}

// CurrentPageName, StackDepth and Idle report the machine state captured
// at the last tick. Safe from any goroutine; the preview server uses
// them.
func (s *Scheduler) CurrentPageName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastState.CurrentPage.String()
}

func (s *Scheduler) StackDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lastState.PageStack)
}

func (s *Scheduler) Idle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastIdle
}

// Run drives the loop until ctx is cancelled. The machine is only ever
// touched from this goroutine.
func (s *Scheduler) Run(ctx context.Context) error {
	s.setState(LoopRunning)
	defer s.setState(LoopStopped)

	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	// First frame goes out before the first tick so the splash shows
	// immediately.
	s.tick(time.Now())

	for {
		select {
		case <-ctx.Done():
			s.setState(LoopShuttingDown)
			s.shutdown()
			return ctx.Err()
		case now := <-ticker.C:
			s.tick(now)
		}
	}
}

func (s *Scheduler) tick(now time.Time) {
	s.drainEvents()

	res := s.machine.Advance(now)
	st := s.machine.Snapshot()

	s.applyBacklight(st, res)

	frame, err := s.rend.Render(st)
	if err != nil {
		log.Printf("sched: render %s failed: %v", st.CurrentPage, err)
		s.machine.SetError("Rendering failed", "RENDER")
		st = s.machine.Snapshot()
		frame, err = s.rend.Render(st)
		if err != nil {
			// Even the error page failed; fall back to the static canvas
			// so the panel never shows a stale frame as current.
			frame = render.ErrorCanvas(s.rend.Theme(), "RENDER")
		}
	}

	s.mu.Lock()
	s.lastFrame = frame
	unchanged := s.lastPushed != nil && bytes.Equal(frame.Pix, s.lastPushed.Pix)
	s.mu.Unlock()

	if !unchanged {
		s.push(frame)
	}

	// Publish after push so a push-failure error page is already visible
	// to the preview server's state endpoint.
	s.mu.Lock()
	s.lastState = s.machine.Snapshot()
	s.lastIdle = s.machine.Idle()
	s.mu.Unlock()
}

func (s *Scheduler) drainEvents() {
	for i := 0; i < maxEventsPerTick; i++ {
		select {
		case ev, ok := <-s.events:
			if !ok {
				return
			}
			if err := s.machine.Handle(ev); err != nil {
				log.Printf("sched: input %s rejected: %v", ev.Dir, err)
				s.machine.SetError("Navigation failed", "NAV")
			}
		default:
			return
		}
	}
}

// applyBacklight keeps the panel brightness in step with the state.
// Entering idle fades out over a few ticks; waking restores the
// configured level at once.
func (s *Scheduler) applyBacklight(st nav.State, res nav.TickResult) {
	target := st.Brightness
	if s.machine.Idle() {
		target = 0
	}

	next := target
	if s.machine.Idle() && s.appliedBacklight > target {
		next = s.appliedBacklight - fadeStep
		if next < target {
			next = target
		}
	}
	if res.Woke {
		next = st.Brightness
	}

	if next == s.appliedBacklight {
		return
	}
	if err := s.disp.SetBacklight(next); err != nil {
		log.Printf("sched: backlight: %v", err)
		return
	}
	s.appliedBacklight = next
}

func (s *Scheduler) push(frame *image.RGBA) {
	var err error
	for attempt := 0; attempt <= pushRetries; attempt++ {
		if err = s.disp.Push(frame); err == nil {
			s.mu.Lock()
			s.lastPushed = frame
			s.mu.Unlock()
			s.pushFailing = false
			return
		}
		log.Printf("sched: push attempt %d failed: %v", attempt+1, err)
	}

	if !s.pushFailing {
		s.pushFailing = true
		s.machine.SetError("Display write failed", "DISPLAY")
	}
}

// shutdown blanks the panel so a dead process does not leave wallet data
// on screen.
func (s *Scheduler) shutdown() {
	if err := s.disp.SetBacklight(0); err != nil {
		log.Printf("sched: shutdown backlight: %v", err)
	}
	blank := image.NewRGBA(image.Rect(0, 0, nav.CanvasWidth, nav.CanvasHeight))
	clear := s.rend.Theme().Black
	for i := 0; i < len(blank.Pix); i += 4 {
		blank.Pix[i] = clear.R
		blank.Pix[i+1] = clear.G
		blank.Pix[i+2] = clear.B
		blank.Pix[i+3] = 255
	}
	if err := s.disp.Push(blank); err != nil {
		log.Printf("sched: shutdown blank: %v", err)
	}
}

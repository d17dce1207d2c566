package input

import (
	"log"
	"sync"
	"time"
)

const (
	// DefaultQueueSize bounds the translated event queue. Producers never
	// block on a full queue: the newest event is dropped and logged.
	DefaultQueueSize = 32

	DefaultCenter    = 512
	DefaultThreshold = 300

	DefaultDirectionDebounce = 150 * time.Millisecond
	DefaultButtonDebounce    = 50 * time.Millisecond
)

// Translator converts continuously sampled analog joystick positions and a
// digital button level into a debounced stream of discrete events.
//
// Sample and Push may be called from multiple producer goroutines; the event
// queue is drained by the single scheduler loop.
type Translator struct {
	mu sync.Mutex

	center    int
	threshold int
	debounce  time.Duration
	btnDeb    time.Duration

	lastDirAt time.Time
	lastBtnAt time.Time
	btnDown   bool

	events  chan Event
	dropped uint64
}

// TranslatorConfig carries the analog calibration. Zero values fall back to
// the HW-504 defaults (10-bit ADC centered at 512).
type TranslatorConfig struct {
	Center    int
	Threshold int
	Debounce  time.Duration
	QueueSize int
}

func NewTranslator(cfg TranslatorConfig) *Translator {
	if cfg.Center == 0 {
		cfg.Center = DefaultCenter
	}
	if cfg.Threshold == 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.Debounce == 0 {
		cfg.Debounce = DefaultDirectionDebounce
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	return &Translator{
		center:    cfg.Center,
		threshold: cfg.Threshold,
		debounce:  cfg.Debounce,
		btnDeb:    DefaultButtonDebounce,
		events:    make(chan Event, cfg.QueueSize),
	}
}

// Events returns the translated event stream.
func (t *Translator) Events() <-chan Event { return t.events }

// Dropped reports how many events were discarded on a full queue.
func (t *Translator) Dropped() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dropped
}

// Sample feeds one raw joystick reading. x and y are raw ADC values,
// buttonPressed is the already inverted active-low level (true = pressed).
//
// The threshold comparison is inclusive (>=) so a value sitting exactly on
// the boundary triggers. At most one directional event is emitted per
// debounce window even while the stick stays deflected; there is no
// auto-repeat. The button is edge detected: one Press per press-and-release
// cycle, independent of directional state.
func (t *Translator) Sample(x, y int, buttonPressed bool, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if dir, ok := t.decodeAxes(x, y); ok {
		if now.Sub(t.lastDirAt) >= t.debounce {
			t.lastDirAt = now
			t.emit(Event{Dir: dir, At: now})
		}
	}

	if buttonPressed {
		if !t.btnDown && now.Sub(t.lastBtnAt) >= t.btnDeb {
			t.btnDown = true
			t.lastBtnAt = now
			t.emit(Event{Dir: DirPress, At: now})
		}
	} else {
		t.btnDown = false
	}
}

// Push injects an already discrete event (keyboard source, preview server)
// through the same debounce rules as analog input.
func (t *Translator) Push(dir Direction, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if dir == DirPress {
		if now.Sub(t.lastBtnAt) >= t.btnDeb {
			t.lastBtnAt = now
			t.emit(Event{Dir: dir, At: now})
		}
		return
	}
	if now.Sub(t.lastDirAt) >= t.debounce {
		t.lastDirAt = now
		t.emit(Event{Dir: dir, At: now})
	}
}

// decodeAxes maps the raw position to at most one direction, preferring the
// dominant axis when both are past the threshold.
func (t *Translator) decodeAxes(x, y int) (Direction, bool) {
	dx := x - t.center
	dy := y - t.center

	absX, absY := dx, dy
	if absX < 0 {
		absX = -absX
	}
	if absY < 0 {
		absY = -absY
	}

	if absX < t.threshold && absY < t.threshold {
		return 0, false
	}

	if absX >= absY {
		if dx >= t.threshold {
			return DirRight, true
		}
		return DirLeft, true
	}
	if dy >= t.threshold {
		return DirDown, true
	}
	return DirUp, true
}

// emit enqueues without blocking. Queue full drops the newest event.
func (t *Translator) emit(ev Event) {
	select {
	case t.events <- ev:
	default:
		t.dropped++
		log.Printf("input: queue full, dropping %s event (%d dropped total)", ev.Dir, t.dropped)
	}
}

// Package camera provides the preview frame source. Real capture
// hardware is optional; the simulated source keeps the preview page
// alive on development machines.
package camera

import (
	"context"
	"image"
	"image/color"
	"log"
	"sync"
	"time"

	"github.com/mankin3n/cryptowallet-ST7789/internal/nav"
)

const (
	frameWidth  = nav.CanvasWidth
	frameHeight = nav.ViewportHeight

	// queueSize bounds buffered frames. The renderer only ever wants the
	// latest one, so anything older is dropped.
	queueSize = 2

	defaultFrameInterval = 100 * time.Millisecond
)

// Simulated produces a moving test pattern. It can be stopped and
// restarted, mirroring a camera pipeline that is torn down whenever the
// preview page is left.
type Simulated struct {
	mu       sync.Mutex
	frames   chan *image.RGBA
	last     *image.RGBA
	running  bool
	cancel   context.CancelFunc
	interval time.Duration
	seq      int
}

func NewSimulated() *Simulated {
	return &Simulated{
		frames:   make(chan *image.RGBA, queueSize),
		interval: defaultFrameInterval,
	}
}

// Available reports whether the source can produce frames. The simulated
// source always can.
func (s *Simulated) Available() bool { return true }

// Start begins frame production. Starting an already running source is a
// no-op.
func (s *Simulated) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.running = true
	go s.produce(ctx)
	log.Println("camera: simulated source started")
}

// Stop halts frame production, drains the queue and forgets the retained
// frame.
func (s *Simulated) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.cancel()
	s.running = false
	s.last = nil
	for {
		select {
		case <-s.frames:
		default:
			log.Println("camera: simulated source stopped")
			return
		}
	}
}

// Frame returns the newest frame. The last delivered frame is retained, so
// callers polling faster than the producer keep seeing a live image instead
// of gaps between producer intervals. ok is false only before the first
// frame and after Stop.
func (s *Simulated) Frame() (*image.RGBA, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		select {
		case f := <-s.frames:
			s.last = f
		default:
			if !s.running {
				// A frame can race into the queue between Stop's drain
				// and the producer observing cancellation.
				s.last = nil
				return nil, false
			}
			return s.last, s.last != nil
		}
	}
}

func (s *Simulated) produce(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			s.seq++
			seq := s.seq
			s.mu.Unlock()

			f := testPattern(seq)
			select {
			case s.frames <- f:
			default:
				// Queue full; drop the oldest so the newest wins.
				select {
				case <-s.frames:
				default:
				}
				select {
				case s.frames <- f:
				default:
				}
			}
		}
	}
}

// testPattern draws vertical color bars with a sweeping marker column so
// motion is visible in the preview.
func testPattern(seq int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, frameWidth, frameHeight))
	bars := []color.RGBA{
		{R: 192, G: 192, B: 192, A: 255},
		{R: 192, G: 192, B: 0, A: 255},
		{R: 0, G: 192, B: 192, A: 255},
		{R: 0, G: 192, B: 0, A: 255},
		{R: 192, G: 0, B: 192, A: 255},
		{R: 192, G: 0, B: 0, A: 255},
		{R: 0, G: 0, B: 192, A: 255},
	}
	barWidth := frameWidth / len(bars)
	for x := 0; x < frameWidth; x++ {
		idx := x / barWidth
		if idx >= len(bars) {
			idx = len(bars) - 1
		}
		for y := 0; y < frameHeight; y++ {
			img.SetRGBA(x, y, bars[idx])
		}
	}

	marker := (seq * 4) % frameWidth
	for x := marker; x < marker+8 && x < frameWidth; x++ {
		for y := 0; y < frameHeight; y++ {
			img.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	return img
}

// Unavailable is a camera that never produces frames, for devices built
// without the camera module.
type Unavailable struct{}

func (Unavailable) Available() bool            { return false }
func (Unavailable) Frame() (*image.RGBA, bool) { return nil, false }
func (Unavailable) Start(context.Context)      {}
func (Unavailable) Stop()                      {}

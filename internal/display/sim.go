package display

import (
	"errors"
	"fmt"
	"image"
	"sync"
)

// Simulated stores pushed frames in memory instead of talking to SPI.
// It backs the --sim mode and the package tests. Failure injection lets
// tests exercise the scheduler's retry path.
type Simulated struct {
	mu         sync.Mutex
	frame      *image.RGBA
	brightness int
	pushes     int
	failNext   int
	closed     bool
}

func NewSimulated() *Simulated {
	return &Simulated{brightness: 100}
}

func (s *Simulated) Push(frame *image.RGBA) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New("display closed")
	}
	b := frame.Bounds()
	if b.Dx() != PanelWidth || b.Dy() != PanelHeight {
		return fmt.Errorf("frame is %dx%d, panel wants %dx%d", b.Dx(), b.Dy(), PanelWidth, PanelHeight)
	}
	if s.failNext > 0 {
		s.failNext--
		return errors.New("simulated push failure")
	}

	cp := image.NewRGBA(b)
	copy(cp.Pix, frame.Pix)
	s.frame = cp
	s.pushes++
	return nil
}

func (s *Simulated) SetBacklight(brightness int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New("display closed")
	}
	if brightness < 0 {
		brightness = 0
	}
	if brightness > 100 {
		brightness = 100
	}
	s.brightness = brightness
	return nil
}

func (s *Simulated) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Frame returns a copy of the most recently pushed frame, or nil if
// nothing has been pushed yet.
func (s *Simulated) Frame() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frame == nil {
		return nil
	}
	cp := image.NewRGBA(s.frame.Bounds())
	copy(cp.Pix, s.frame.Pix)
	return cp
}

func (s *Simulated) Brightness() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.brightness
}

func (s *Simulated) Pushes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pushes
}

// FailNext makes the following n Push calls return an error.
func (s *Simulated) FailNext(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = n
}

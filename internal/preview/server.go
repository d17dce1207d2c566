// Package preview exposes the current frame over HTTP so the UI can be
// inspected without the physical panel. Development tool; disabled by
// default.
package preview

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mankin3n/cryptowallet-ST7789/internal/input"
)

// FrameSource supplies the latest rendered frame.
type FrameSource interface {
	LastFrame() *image.RGBA
}

// InputSink accepts injected navigation events.
type InputSink interface {
	Push(dir input.Direction, now time.Time)
}

// StateSource reports navigation facts worth exposing for debugging.
type StateSource interface {
	CurrentPageName() string
	StackDepth() int
	Idle() bool
}

type Server struct {
	app    *fiber.App
	frames FrameSource
	inputs InputSink
	state  StateSource
	listen string
}

func NewServer(listen string, frames FrameSource, inputs InputSink, state StateSource) *Server {
	s := &Server{
		app:    fiber.New(fiber.Config{DisableStartupMessage: true}),
		frames: frames,
		inputs: inputs,
		state:  state,
		listen: listen,
	}

	s.app.Get("/frame", s.serveFrame)
	s.app.Post("/input", s.injectInput)
	s.app.Get("/state", s.serveState)
	return s
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Println("preview: listening on", s.listen)
		errCh <- s.app.Listen(s.listen)
	}()

	select {
	case <-ctx.Done():
		if err := s.app.Shutdown(); err != nil {
			log.Printf("preview: shutdown: %v", err)
		}
		<-errCh
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func (s *Server) serveFrame(c *fiber.Ctx) error {
	frame := s.frames.LastFrame()
	if frame == nil {
		return c.Status(fiber.StatusServiceUnavailable).SendString("No frame available")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, frame); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to encode image")
	}

	c.Set("Content-Type", "image/png")
	c.Set("Content-Length", strconv.Itoa(buf.Len()))
	return c.Send(buf.Bytes())
}

func (s *Server) injectInput(c *fiber.Ctx) error {
	var body struct {
		Direction string `json:"direction"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid JSON")
	}

	dir, ok := parseDirection(body.Direction)
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("Unknown direction: " + body.Direction)
	}

	s.inputs.Push(dir, time.Now())
	return c.SendString("Input queued")
}

func (s *Server) serveState(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"page":        s.state.CurrentPageName(),
		"stack_depth": s.state.StackDepth(),
		"idle":        s.state.Idle(),
	})
}

func parseDirection(name string) (input.Direction, bool) {
	switch name {
	case "up":
		return input.DirUp, true
	case "down":
		return input.DirDown, true
	case "left":
		return input.DirLeft, true
	case "right":
		return input.DirRight, true
	case "press":
		return input.DirPress, true
	default:
		return 0, false
	}
}

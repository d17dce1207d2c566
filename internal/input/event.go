package input

import "time"

// Direction is a discrete navigation input decoded from the joystick or a
// key source.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
	DirPress
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "UP"
	case DirDown:
		return "DOWN"
	case DirLeft:
		return "LEFT"
	case DirRight:
		return "RIGHT"
	case DirPress:
		return "PRESS"
	default:
		return "UNKNOWN"
	}
}

// Event is one translated input event.
type Event struct {
	Dir Direction
	At  time.Time
}

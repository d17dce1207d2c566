package input

import (
	"context"
	"log"
	"time"

	evdev "github.com/holoplot/go-evdev"
)

// KeySource reads arrow/enter keys from an evdev keyboard and pushes them
// through the translator. Used on the bench when no joystick is wired up.
type KeySource struct {
	translator *Translator
	deviceName string
}

func NewKeySource(deviceName string, tr *Translator) *KeySource {
	return &KeySource{translator: tr, deviceName: deviceName}
}

// Run attaches to the first matching keyboard device and forwards key-down
// events until the context is cancelled. A missing device is logged and
// treated as "no keyboard", not an error.
func (k *KeySource) Run(ctx context.Context) error {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		log.Printf("keys: ListDevicePaths error: %v", err)
		return nil
	}

	var devPath string
	for _, ip := range paths {
		if k.deviceName == "" || ip.Name == k.deviceName {
			devPath = ip.Path
			break
		}
	}
	if devPath == "" {
		log.Println("keys: no input device found, keyboard source disabled")
		return nil
	}

	dev, err := evdev.Open(devPath)
	if err != nil {
		log.Printf("keys: open %s: %v", devPath, err)
		return nil
	}
	defer dev.Ungrab()

	if err := dev.Grab(); err != nil {
		log.Printf("keys: warning: failed to grab device: %v", err)
	}

	name, _ := dev.Name()
	log.Printf("keys: using input device %s (%s)", devPath, name)

	return k.readLoop(ctx, dev)
}

// keyDevice is the slice of the evdev device the read loop needs.
type keyDevice interface {
	ReadOne() (*evdev.InputEvent, error)
	Close() error
}

// readLoop forwards key-down events until the context is cancelled.
// ReadOne blocks with no deadline, so cancellation closes the device to
// unblock it; the resulting read error is the expected wakeup.
func (k *KeySource) readLoop(ctx context.Context, dev keyDevice) error {
	go func() {
		<-ctx.Done()
		dev.Close()
	}()

	for {
		ev, err := dev.ReadOne()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			log.Printf("keys: read error: %v", err)
			time.Sleep(100 * time.Millisecond)
			continue
		}
		if ev.Type != evdev.EV_KEY || ev.Value != 1 {
			continue
		}

		now := time.Now()
		switch ev.Code {
		case evdev.KEY_UP:
			k.translator.Push(DirUp, now)
		case evdev.KEY_DOWN:
			k.translator.Push(DirDown, now)
		case evdev.KEY_LEFT:
			k.translator.Push(DirLeft, now)
		case evdev.KEY_RIGHT:
			k.translator.Push(DirRight, now)
		case evdev.KEY_ENTER, evdev.KEY_SPACE:
			k.translator.Push(DirPress, now)
		}
	}
}

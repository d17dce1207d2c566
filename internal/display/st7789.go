// Package display drives the ST7789 panel over SPI and provides a
// simulated stand-in for development off the device.
package display

import (
	"fmt"
	"image"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	st7789 "github.com/photonicat/periph.io-gc9307"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

const (
	PanelWidth  = 320
	PanelHeight = 240
)

// zeroBacklightDelay defers the physical-off write so that a quick wake
// does not race a pending shutdown of the backlight.
const zeroBacklightDelay = 2 * time.Second

// Config selects the SPI port and control pins for the panel.
type Config struct {
	SPIPort       string
	SPIHz         int64
	ResetPin      string
	DCPin         string
	CSPin         string
	BacklightPin  string
	BacklightPath string
}

// DefaultConfig matches the reference wiring on the Raspberry Pi header.
func DefaultConfig() Config {
	return Config{
		SPIPort:       "SPI0.0",
		SPIHz:         40_000_000,
		ResetPin:      "GPIO27",
		DCPin:         "GPIO25",
		CSPin:         "GPIO8",
		BacklightPin:  "GPIO18",
		BacklightPath: "/sys/class/backlight/backlight/brightness",
	}
}

// ST7789 owns the SPI connection and the sysfs backlight node.
type ST7789 struct {
	dev    st7789.Device
	port   spi.PortCloser
	blPath string

	mu          sync.Mutex
	lastLogical int
	offTimer    *time.Timer
}

// Open initializes the SPI link and configures the panel. The caller must
// have run host.Init first.
func Open(cfg Config) (*ST7789, error) {
	port, err := spireg.Open(cfg.SPIPort)
	if err != nil {
		return nil, fmt.Errorf("open spi %s: %w", cfg.SPIPort, err)
	}

	conn, err := port.Connect(physic.Frequency(cfg.SPIHz)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("connect spi: %w", err)
	}

	dev := st7789.New(conn,
		gpioreg.ByName(cfg.ResetPin),
		gpioreg.ByName(cfg.DCPin),
		gpioreg.ByName(cfg.CSPin),
		gpioreg.ByName(cfg.BacklightPin))

	dev.Configure(st7789.Config{
		Width:        PanelWidth,
		Height:       PanelHeight,
		Rotation:     st7789.ROTATION_180,
		RowOffset:    0,
		ColumnOffset: 0,
		FrameRate:    st7789.FRAMERATE_60,
		VSyncLines:   st7789.MAX_VSYNC_SCANLINES,
		UseCS:        false,
	})
	dev.EnableBacklight(true)

	d := &ST7789{
		dev:         dev,
		port:        port,
		blPath:      cfg.BacklightPath,
		lastLogical: -1,
	}
	return d, nil
}

// Push writes a full frame to the panel.
func (d *ST7789) Push(frame *image.RGBA) error {
	b := frame.Bounds()
	if b.Dx() != PanelWidth || b.Dy() != PanelHeight {
		return fmt.Errorf("frame is %dx%d, panel wants %dx%d", b.Dx(), b.Dy(), PanelWidth, PanelHeight)
	}
	return d.dev.FillRectangleWithImage(0, 0, PanelWidth, PanelHeight, frame)
}

// SetBacklight applies a logical brightness in [0,100]. Writes to the
// sysfs node are deduplicated; a logical zero first drops to the minimum
// level and only fully powers off once zeroBacklightDelay has elapsed
// without a wake.
func (d *ST7789) SetBacklight(brightness int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if brightness < 0 {
		brightness = 0
	}
	if brightness > 100 {
		brightness = 100
	}
	if brightness == d.lastLogical {
		return nil
	}
	d.lastLogical = brightness

	if brightness > 0 && d.offTimer != nil {
		d.offTimer.Stop()
		d.offTimer = nil
	}

	phys := brightness
	if brightness == 0 {
		phys = 1
	}
	if err := os.WriteFile(d.blPath, []byte(strconv.Itoa(phys)), 0644); err != nil {
		return fmt.Errorf("backlight write: %w", err)
	}

	if brightness == 0 {
		d.offTimer = time.AfterFunc(zeroBacklightDelay, func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			if d.lastLogical != 0 {
				return
			}
			if err := os.WriteFile(d.blPath, []byte("0"), 0644); err != nil {
				log.Printf("backlight final-off error: %v", err)
			}
		})
	}
	return nil
}

// Close releases the backlight and the SPI port.
func (d *ST7789) Close() error {
	d.mu.Lock()
	if d.offTimer != nil {
		d.offTimer.Stop()
		d.offTimer = nil
	}
	d.mu.Unlock()

	d.dev.EnableBacklight(false)
	return d.port.Close()
}

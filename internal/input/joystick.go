package input

import (
	"context"
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// JoystickConfig describes the HW-504 stick on an MCP3008 ADC plus the
// active-low digital button.
type JoystickConfig struct {
	SPIPort   string // e.g. "SPI1.0"
	XChannel  int
	YChannel  int
	ButtonPin string // e.g. "GPIO23"
	PollHz    int
}

// Joystick polls the MCP3008 over SPI and feeds raw samples into a
// Translator. It is the only joystick producer and runs on its own worker.
type Joystick struct {
	cfg        JoystickConfig
	translator *Translator

	conn   spi.Conn
	port   spi.PortCloser
	button gpio.PinIn
}

func NewJoystick(cfg JoystickConfig, tr *Translator) (*Joystick, error) {
	if cfg.PollHz <= 0 {
		cfg.PollHz = 100
	}

	port, err := spireg.Open(cfg.SPIPort)
	if err != nil {
		return nil, fmt.Errorf("joystick: open %s: %w", cfg.SPIPort, err)
	}
	conn, err := port.Connect(1000*physic.KiloHertz, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("joystick: connect: %w", err)
	}

	button := gpioreg.ByName(cfg.ButtonPin)
	if button == nil {
		port.Close()
		return nil, fmt.Errorf("joystick: button pin %s not found", cfg.ButtonPin)
	}
	if err := button.In(gpio.PullUp, gpio.NoEdge); err != nil {
		port.Close()
		return nil, fmt.Errorf("joystick: button setup: %w", err)
	}

	return &Joystick{cfg: cfg, translator: tr, conn: conn, port: port, button: button}, nil
}

// Run polls until the context is cancelled. Read failures are logged and the
// loop keeps going; a dead ADC must not take the UI down.
func (j *Joystick) Run(ctx context.Context) error {
	defer j.port.Close()

	interval := time.Second / time.Duration(j.cfg.PollHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("joystick: polling %s at %d Hz", j.cfg.SPIPort, j.cfg.PollHz)

	for {
		select {
		case <-ctx.Done():
			log.Println("joystick: stopping")
			return nil
		case now := <-ticker.C:
			x, errX := j.readChannel(j.cfg.XChannel)
			y, errY := j.readChannel(j.cfg.YChannel)
			if errX != nil || errY != nil {
				log.Printf("joystick: adc read error: x=%v y=%v", errX, errY)
				continue
			}
			// Button is active LOW.
			pressed := j.button.Read() == gpio.Low
			j.translator.Sample(x, y, pressed, now)
		}
	}
}

// readChannel performs one MCP3008 single-ended conversion (10-bit result).
func (j *Joystick) readChannel(ch int) (int, error) {
	if ch < 0 || ch > 7 {
		return 0, fmt.Errorf("joystick: channel %d out of range", ch)
	}
	tx := []byte{0x01, byte(0x08+ch) << 4, 0x00}
	rx := make([]byte, 3)
	if err := j.conn.Tx(tx, rx); err != nil {
		return 0, err
	}
	return int(rx[1]&0x03)<<8 | int(rx[2]), nil
}

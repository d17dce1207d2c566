package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"periph.io/x/host/v3"

	"github.com/mankin3n/cryptowallet-ST7789/internal/camera"
	"github.com/mankin3n/cryptowallet-ST7789/internal/config"
	"github.com/mankin3n/cryptowallet-ST7789/internal/display"
	"github.com/mankin3n/cryptowallet-ST7789/internal/input"
	"github.com/mankin3n/cryptowallet-ST7789/internal/nav"
	"github.com/mankin3n/cryptowallet-ST7789/internal/preview"
	"github.com/mankin3n/cryptowallet-ST7789/internal/qr"
	"github.com/mankin3n/cryptowallet-ST7789/internal/render"
	"github.com/mankin3n/cryptowallet-ST7789/internal/sched"
	"github.com/mankin3n/cryptowallet-ST7789/internal/wallet"
)

// demoSeed backs the UI when no seed file is provisioned. Display-only;
// anything derived from it is worthless by construction.
var demoSeed = []byte("cryptowallet-demo-seed-not-for-funds")

// shutdownGrace bounds how long workers get to wind down after a signal.
const shutdownGrace = time.Second

var (
	flagConfig  string
	flagSim     bool
	flagPreview bool
	flagVerbose bool
)

func main() {
	root := &cobra.Command{
		Use:          "cryptowallet",
		Short:        "Joystick-driven wallet UI for the ST7789 panel",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	root.Flags().StringVarP(&flagConfig, "config", "c", "", "config file path")
	root.Flags().BoolVar(&flagSim, "sim", false, "use the simulated display and input instead of hardware")
	root.Flags().BoolVar(&flagPreview, "preview", false, "force-enable the HTTP frame preview")
	root.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("dotenv: %v", err)
	}
	if !flagVerbose {
		log.SetFlags(log.LstdFlags)
	} else {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	theme, err := render.LoadTheme(cfg.UI.FontPath)
	if err != nil {
		return fmt.Errorf("theme: %w", err)
	}

	w, err := loadWallet(cfg.Wallet.SeedFile)
	if err != nil {
		return err
	}

	cam := camera.NewSimulated()
	decoder := qr.NewDecoder()
	msg := []byte("cryptowallet boot attestation")

	machine, err := nav.NewMachine(nav.Defaults{
		Brightness:     cfg.UI.Brightness,
		TimeoutSeconds: cfg.UI.TimeoutSeconds,
		Language:       cfg.UI.Language,
	}, time.Now(), nav.WithScanner(func() (string, bool, bool) {
		frame, ok := cam.Frame()
		if !ok {
			return "", false, false
		}
		data, found := decoder.Scan(frame)
		if !found {
			return "", false, false
		}
		return data, w.Verify(msg, data), true
	}))
	if err != nil {
		return err
	}
	machine.SetAddress(w.Address())

	// Seed the verify page with a self-signed sample so the flow is
	// demonstrable before a camera scan lands.
	sig := w.Sign(msg)
	machine.SetSignature(sig, w.Verify(msg, sig))

	rend, err := render.NewRenderer(theme, qr.NewEncoder(), cam)
	if err != nil {
		return err
	}

	translator := input.NewTranslator(input.TranslatorConfig{})

	disp, joystick, err := openDisplay(cfg, translator)
	if err != nil {
		return err
	}
	defer disp.Close()

	scheduler, err := sched.New(machine, rend, disp, translator.Events(), 0)
	if err != nil {
		return err
	}

	group, gctx := errgroup.WithContext(ctx)
	cam.Start(gctx)
	defer cam.Stop()

	group.Go(func() error { return scheduler.Run(gctx) })

	if joystick != nil {
		group.Go(func() error { return joystick.Run(gctx) })
	}
	keys := input.NewKeySource("", translator)
	group.Go(func() error { return keys.Run(gctx) })

	if cfg.Preview.Enabled || flagPreview {
		srv := preview.NewServer(cfg.Preview.Listen, scheduler, translator, scheduler)
		group.Go(func() error { return srv.Run(gctx) })
	}

	log.Println("cryptowallet: running")
	err = waitBounded(group, ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// waitBounded waits for the worker group, but once the root context is
// cancelled it only grants shutdownGrace before giving up on stragglers.
func waitBounded(group *errgroup.Group, ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- group.Wait() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
	}

	select {
	case err := <-done:
		return err
	case <-time.After(shutdownGrace):
		log.Println("cryptowallet: workers did not stop in time, exiting anyway")
		return ctx.Err()
	}
}

func loadWallet(seedFile string) (*wallet.Wallet, error) {
	seed := demoSeed
	if data, err := os.ReadFile(seedFile); err == nil && len(data) > 0 {
		seed = data
	} else if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("seed file: %w", err)
	} else {
		log.Printf("wallet: no seed at %s, using built-in demo seed", seedFile)
	}
	return wallet.New(seed)
}

// openDisplay returns the frame sink and, on hardware, the joystick
// worker. In --sim mode input arrives via evdev keys or the preview
// endpoint instead.
func openDisplay(cfg config.Config, tr *input.Translator) (sched.Display, *input.Joystick, error) {
	if flagSim {
		log.Println("display: simulated")
		return display.NewSimulated(), nil, nil
	}

	if _, err := host.Init(); err != nil {
		return nil, nil, fmt.Errorf("host init: %w", err)
	}

	disp, err := display.Open(display.Config{
		SPIPort:       cfg.Display.SPIPort,
		SPIHz:         cfg.Display.SPIHz,
		ResetPin:      cfg.Display.ResetPin,
		DCPin:         cfg.Display.DCPin,
		CSPin:         cfg.Display.CSPin,
		BacklightPin:  cfg.Display.BacklightPin,
		BacklightPath: cfg.Display.BacklightPath,
	})
	if err != nil {
		return nil, nil, err
	}

	joystick, err := input.NewJoystick(input.JoystickConfig{
		SPIPort:   cfg.Joystick.SPIPort,
		XChannel:  cfg.Joystick.XChannel,
		YChannel:  cfg.Joystick.YChannel,
		ButtonPin: cfg.Joystick.ButtonPin,
		PollHz:    cfg.Joystick.PollHz,
	}, tr)
	if err != nil {
		disp.Close()
		return nil, nil, err
	}
	return disp, joystick, nil
}

// Command engoctl talks to ENGO smart glasses over Bluetooth LE.
//
// Usage:
//
//	engoctl [--config path] <command> [args]
//
// Commands:
//
//	scan                 list nearby glasses
//	info                 print firmware and device information
//	battery              print the battery level
//	clear                clear the display
//	text [flags] <text>  draw text
//	layout <id> <text>   clear a layout and display text in it
//	configs              list stored configurations
//	watch                print notifications until interrupted
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/chaz8081/engoctl/internal/ble"
	"github.com/chaz8081/engoctl/internal/ble/gatt"
	"github.com/chaz8081/engoctl/internal/ble/protocol"
	"github.com/chaz8081/engoctl/internal/config"
	"github.com/chaz8081/engoctl/internal/glasses"
	"github.com/chaz8081/engoctl/internal/logging"
	"github.com/chaz8081/engoctl/internal/metrics"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "path to config file (default: ~/.config/engoctl/config.yaml)")
	address := flag.String("address", "", "device address, overrides device.address")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *address != "" {
		cfg.Device.Address = *address
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation: %v", err)
	}

	_, logCloser := logging.Setup(cfg.Log)
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	adapter := ble.NewTinyGoAdapter()
	adapter.WriteWithoutResponse = cfg.Session.WriteWithoutResponse
	a := &app{cfg: cfg, adapter: adapter}
	if cfg.Metrics.Listen != "" {
		shutdown := a.serveMetrics()
		defer shutdown()
	}

	if err := a.run(ctx, flag.Arg(0), flag.Args()[1:]); err != nil {
		log.Printf("ERROR: %v", err)
		stop()
		logCloser.Close()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <scan|info|battery|clear|text|layout|configs|watch> [args]\n\nFlags:\n", os.Args[0])
	flag.PrintDefaults()
}

type app struct {
	cfg     *config.Config
	adapter ble.Adapter
	metrics *metrics.SessionMetrics
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	if cmd == "scan" {
		return a.scan(ctx)
	}

	var fn func(context.Context, *ble.Session, *glasses.Client, []string) error
	switch cmd {
	case "info":
		fn = info
	case "battery":
		fn = battery
	case "clear":
		fn = func(ctx context.Context, _ *ble.Session, c *glasses.Client, _ []string) error {
			return c.Clear(ctx)
		}
	case "text":
		fn = text
	case "layout":
		fn = layout
	case "configs":
		fn = configs
	case "watch":
		fn = watch
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}

	session, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	client := glasses.New(session, glasses.Options{RequestTimeout: a.cfg.Session.RequestTimeout})
	return fn(ctx, session, client, args)
}

func (a *app) scan(ctx context.Context) error {
	log.Printf("Scanning for %s...", a.cfg.Device.ScanTimeout)
	devices, err := ble.Discover(ctx, a.adapter, a.cfg.Device.NamePrefix, a.cfg.Device.ScanTimeout)
	if err != nil {
		return err
	}
	for _, d := range devices {
		fmt.Printf("%-40s %-20s %4d dBm\n", d.Address, d.Name, d.RSSI)
	}
	return nil
}

// open connects to the configured device, or to the strongest one found
// by a scan when no address is configured.
func (a *app) open(ctx context.Context) (*ble.Session, error) {
	address := a.cfg.Device.Address
	if address == "" {
		devices, err := ble.Discover(ctx, a.adapter, a.cfg.Device.NamePrefix, a.cfg.Device.ScanTimeout)
		if err != nil {
			return nil, err
		}
		address = devices[0].Address
		log.Printf("Using %s (%s)", devices[0].Name, address)
	} else if err := a.adapter.Enable(); err != nil {
		return nil, fmt.Errorf("enable adapter: %w", err)
	}

	opts := ble.Options{
		MTU:         a.cfg.Session.MTU,
		WriteRate:   a.cfg.Session.WriteRate,
		WriteBurst:  a.cfg.Session.WriteBurst,
		EventBuffer: a.cfg.Session.EventBuffer,
	}
	if a.metrics != nil {
		opts.Observer = a.metrics
	}
	return ble.Open(ctx, a.adapter, address, opts)
}

// serveMetrics starts the Prometheus endpoint and returns its shutdown func.
func (a *app) serveMetrics() func() {
	reg := metrics.NewRegistry()
	a.metrics = metrics.NewSessionMetrics(reg)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	srv := &http.Server{
		Addr:              a.cfg.Metrics.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("ERROR: metrics server: %v", err)
		}
	}()
	log.Printf("Metrics on http://%s/metrics", a.cfg.Metrics.Listen)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func info(ctx context.Context, _ *ble.Session, c *glasses.Client, _ []string) error {
	v, err := c.Version(ctx)
	if err != nil {
		return err
	}
	di, err := c.DeviceInformation(ctx)
	if err != nil {
		return err
	}
	fmt.Println("=== engoctl ===")
	fmt.Printf("  Manufacturer: %s\n", di.Manufacturer)
	fmt.Printf("  Model:        %s\n", di.Model)
	fmt.Printf("  Hardware:     %s\n", di.HardwareVersion)
	fmt.Printf("  Firmware:     %s (%s)\n", v.FirmwareString(), di.FirmwareVersion)
	fmt.Printf("  Software:     %s\n", di.SoftwareVersion)
	fmt.Printf("  Serial:       %s\n", v.SerialString())
	fmt.Printf("  Made:         20%02d week %d\n", v.MfgYear, v.MfgWeek)
	fmt.Println("===============")
	return nil
}

func battery(ctx context.Context, _ *ble.Session, c *glasses.Client, _ []string) error {
	level, err := c.Battery(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%d%%\n", level)
	return nil
}

func text(ctx context.Context, _ *ble.Session, c *glasses.Client, args []string) error {
	fs := flag.NewFlagSet("text", flag.ContinueOnError)
	x := fs.Int("x", 255, "x coordinate")
	y := fs.Int("y", 128, "y coordinate")
	font := fs.Uint("font", 1, "font id")
	color := fs.Uint("color", 15, "grey level, 0-15")
	rotation := fs.Uint("rotation", 4, "text rotation")
	width := fs.Int("wrap", 24, "max bytes per line, 0 disables wrapping")
	lineHeight := fs.Int("line-height", 30, "pixels between lines")
	clearFirst := fs.Bool("clear", true, "clear the display first")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("text: missing text argument")
	}

	if *clearFirst {
		if err := c.Clear(ctx); err != nil {
			return err
		}
	}
	style := glasses.TextStyle{
		Rotation:     uint8(*rotation),
		Font:         uint8(*font),
		Color:        uint8(*color),
		LineHeight:   int16(*lineHeight),
		MaxLineBytes: *width,
	}
	return c.Text(ctx, protocol.Point{X: int16(*x), Y: int16(*y)}, style, strings.Join(fs.Args(), " "))
}

func layout(ctx context.Context, _ *ble.Session, c *glasses.Client, args []string) error {
	if len(args) < 2 {
		return errors.New("layout: usage: layout <id> <text>")
	}
	id, err := strconv.ParseUint(args[0], 10, 8)
	if err != nil {
		return fmt.Errorf("layout: bad id %q: %w", args[0], err)
	}
	return c.LayoutClearAndDisplay(ctx, uint8(id), strings.Join(args[1:], " "))
}

func configs(ctx context.Context, _ *ble.Session, c *glasses.Client, _ []string) error {
	list, err := c.Configs(ctx)
	if err != nil {
		return err
	}
	space, err := c.ConfigFreeSpace(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%-12s %10s %10s %6s %8s %6s\n", "NAME", "SIZE", "VERSION", "USAGE", "INSTALLS", "SYSTEM")
	for _, e := range list {
		fmt.Printf("%-12s %10d %10d %6d %8d %6t\n", e.Name, e.Size, e.Version, e.UsageCount, e.InstallCount, e.IsSystem)
	}
	fmt.Printf("\n%d of %d bytes free\n", space.Free, space.Total)
	return nil
}

func watch(ctx context.Context, s *ble.Session, _ *glasses.Client, _ []string) error {
	for _, name := range []string{gatt.CharGestureEvent, gatt.CharTouchEvent} {
		if err := s.SubscribeCharacteristic(gatt.ServiceCustom, name, func(v gatt.Value) {
			fmt.Printf("%s %s: %s\n", time.Now().Format(time.TimeOnly), name, v)
		}); err != nil {
			log.Printf("WARN: subscribe %s: %v", name, err)
		}
	}

	log.Println("Watching notifications. Ctrl+C to quit.")
	events := s.Events()
	for {
		select {
		case rec, ok := <-events:
			if !ok {
				return s.Err()
			}
			fmt.Printf("%s %s: %+v\n", time.Now().Format(time.TimeOnly), protocol.OpcodeName(rec.Opcode()), rec)
		case <-ctx.Done():
			log.Println("Goodbye!")
			return nil
		}
	}
}

// loadConfig loads the config from the specified path, or falls back to
// the default config path, writing it on first run.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	defaultPath := config.DefaultConfigPath()
	if _, err := os.Stat(defaultPath); err == nil {
		cfg, err := config.Load(defaultPath)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", defaultPath, err)
		}
		return cfg, nil
	}

	written, err := config.WriteDefault()
	if err != nil {
		log.Printf("Could not write default config: %v", err)
	} else if written != "" {
		log.Printf("Wrote default config to %s", written)
	}
	return config.Default(), nil
}

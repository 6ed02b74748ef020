package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"

	pixelring "github.com/coreman2200/funtimes-pixelring"
	"github.com/coreman2200/funtimes-pixelring/doa"
	"github.com/coreman2200/funtimes-pixelring/internal/config"
	"github.com/coreman2200/funtimes-pixelring/model"
	"github.com/coreman2200/funtimes-pixelring/pattern"
	"github.com/coreman2200/funtimes-pixelring/spi"
)

func main() {
	// ---- Flags (config.yaml fills in what they leave unset) ----
	var (
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		driver     = flag.String("driver", "", "driver: apa102 | nrzled | console | sim")
		port       = flag.String("port", "", "SPI port name (empty picks the first)")
		powerPin   = flag.String("power-pin", "", "GPIO enabling LED power, e.g. GPIO5")
		brightness = flag.Int("brightness", 0, "global brightness percent 1..100")
		kind       = flag.String("pattern", "", "pattern: custom | google")
		bearing    = flag.Float64("bearing", -1, "fixed direction of arrival in degrees")
		debug      = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; using defaults")
		cfg = config.Default()
	}

	// ---- Flags override config ----
	if *driver != "" {
		cfg.Driver = *driver
	}
	if *port != "" {
		cfg.SPI.Port = *port
	}
	if *powerPin != "" {
		cfg.PowerPin = *powerPin
	}
	if *brightness > 0 {
		cfg.Brightness = *brightness
	}
	if *kind != "" {
		cfg.Pattern.Kind = *kind
	}
	if *bearing >= 0 {
		cfg.DOA.Bearing = *bearing
	}

	primary, err := model.ParseRGB(cfg.Pattern.Primary)
	if err != nil {
		log.Warn().Err(err).Msg("primary colour; using default")
		primary = pattern.DefaultPrimary
	}
	secondary, err := model.ParseRGB(cfg.Pattern.Secondary)
	if err != nil {
		log.Warn().Err(err).Msg("secondary colour; using default")
		secondary = pattern.DefaultSecondary
	}

	// ---- Sink ----
	dev, err := spi.Open(spi.Options{
		Driver:   cfg.Driver,
		Port:     cfg.SPI.Port,
		Freq:     physic.Frequency(cfg.SPI.SpeedHz) * physic.Hertz,
		PowerPin: cfg.PowerPin,
	})
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Driver).Msg("open pixel sink")
	}
	log.Info().Str("sink", dev.String()).Bool("fallback", dev.Fallback).Msg("pixel ring ready")

	// ---- Direction of arrival ----
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fixed := cfg.DOA.Bearing
	sampler := doa.NewSampler(doa.EstimatorFunc(func(context.Context) (float64, error) {
		return fixed, nil
	}), time.Duration(cfg.DOA.IntervalMs)*time.Millisecond)
	sampler.Start(ctx)

	ring := pixelring.New(dev, sampler, pixelring.WithBrightness(cfg.Brightness))
	ring.SetPattern(pattern.ParseKind(cfg.Pattern.Kind), primary, secondary)

	// ---- Demo loop until interrupted ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	steps := []struct {
		name string
		run  func()
		hold time.Duration
	}{
		{"wakeup", ring.Wakeup, 3 * time.Second},
		{"think", func() { ring.Think(0) }, 3 * time.Second},
		{"speak", func() { ring.Speak(0) }, 6 * time.Second},
		{"off", ring.Off, 3 * time.Second},
	}

loop:
	for i := 0; ; i = (i + 1) % len(steps) {
		s := steps[i]
		log.Info().Str("state", s.name).Msg("demo")
		s.run()

		select {
		case <-time.After(s.hold):
		case v := <-sig:
			log.Info().Str("signal", v.String()).Msg("shutting down")
			break loop
		case <-ring.Done():
			log.Error().Err(ring.Err()).Msg("pixel ring halted")
			break loop
		}
	}

	ring.Off()
	time.Sleep(time.Second)
	if err := ring.Close(); err != nil {
		log.Error().Err(err).Msg("pixel ring")
	}
	sampler.Stop()
	if err := dev.Close(); err != nil {
		log.Warn().Err(err).Msg("close pixel sink")
	}
}

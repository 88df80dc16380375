package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ticktock/host/config"
	"ticktock/host/probe"
)

var (
	configPath = flag.String("config", "", "JSON configuration file")
	device     = flag.String("device", "", "Serial device path (overrides config)")
	baud       = flag.Int("baud", 0, "Baud rate (ignored for USB CDC)")
	samples    = flag.Int("samples", -1, "Reports to print, 0 = until interrupted (overrides config)")
	sim        = flag.Bool("sim", false, "Read from a simulated target instead of a serial port")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := connect(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer p.Close()

	printed := 0
	err = p.Run(ctx, func(s probe.Sample) error {
		printSample(s)
		printed++
		if cfg.Samples > 0 && printed >= cfg.Samples {
			stop()
		}
		return nil
	})
	if err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	frames, corrupt, lost := p.Stats()
	fmt.Printf("\n%d reports, %d frames, %d corrupt, %d lost, %d duplicated\n",
		printed, frames, corrupt, lost, p.Duplicates())
}

func loadConfig() (*config.ProbeConfig, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadFile(*configPath); err != nil {
			return nil, err
		}
	}

	if *device != "" {
		cfg.Serial.Device = *device
	}
	if *baud > 0 {
		cfg.Serial.Baud = *baud
	}
	if *samples >= 0 {
		cfg.Samples = *samples
	}
	if *sim {
		cfg.Sim.Enabled = true
	}
	return cfg, nil
}

func connect(cfg *config.ProbeConfig) (*probe.Probe, error) {
	if cfg.Sim.Enabled {
		if *verbose {
			fmt.Printf("Simulating a %d kHz counter, max %d, %d ticks per report\n",
				cfg.Sim.ClockKHz, cfg.Sim.Max, cfg.Sim.TicksPerSample)
		}
		// The simulated target ends by itself; the limit is enforced by Run.
		return probe.New(probe.NewSimPort(cfg.Sim, cfg.Samples)), nil
	}

	if *verbose {
		fmt.Printf("Connecting to %s at %d baud...\n", cfg.Serial.Device, cfg.Serial.Baud)
	}
	return probe.Connect(&cfg.Serial)
}

func printSample(s probe.Sample) {
	if s.Report.Wrapped {
		fmt.Printf("[%2d] counter wrapped, target restarted its timer\n", s.Seq)
		return
	}
	if *verbose {
		fmt.Printf("[%2d] %v (%d ticks at %v, target says %dus)\n",
			s.Seq, s.Elapsed, s.Report.Ticks, s.Clock, s.Report.ElapsedMicros)
		return
	}
	fmt.Printf("[%2d] %v\n", s.Seq, s.Elapsed)
}

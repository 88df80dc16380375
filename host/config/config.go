package config

import (
	"encoding/json"
	"fmt"
	"os"

	"ticktock/host/serial"
)

// ProbeConfig configures the tickprobe host tool
type ProbeConfig struct {
	Serial serial.Config `json:"serial"`

	// Samples to print before exiting, 0 = run until EOF
	Samples int `json:"samples"`

	// Sim drives an in-process simulated target instead of a serial port
	Sim SimConfig `json:"sim"`
}

// SimConfig describes the simulated counter
type SimConfig struct {
	Enabled bool `json:"enabled"`

	// ClockKHz is the counter clock
	ClockKHz uint32 `json:"clock_khz"`

	// CountUp selects a count-up counter, count-down otherwise
	CountUp bool `json:"count_up"`

	// Max is the reload value (24-bit SysTick by default)
	Max uint32 `json:"max"`

	// TicksPerSample advances the counter between samples
	TicksPerSample uint64 `json:"ticks_per_sample"`
}

// LoadConfig parses a JSON configuration and applies defaults
func LoadConfig(jsonData []byte) (*ProbeConfig, error) {
	var config ProbeConfig

	if err := json.Unmarshal(jsonData, &config); err != nil {
		return nil, err
	}

	applyDefaults(&config)

	return &config, nil
}

// LoadFile reads and parses a configuration file
func LoadFile(path string) (*ProbeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := LoadConfig(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the configuration used when no file is given
func Default() *ProbeConfig {
	var config ProbeConfig
	applyDefaults(&config)
	return &config
}

// applyDefaults fills in missing configuration values
func applyDefaults(config *ProbeConfig) {
	def := serial.DefaultConfig("/dev/ttyACM0")
	if config.Serial.Device == "" {
		config.Serial.Device = def.Device
	}
	if config.Serial.Baud == 0 {
		config.Serial.Baud = def.Baud
	}
	if config.Serial.ReadTimeout == 0 {
		config.Serial.ReadTimeout = def.ReadTimeout
	}

	if config.Sim.ClockKHz == 0 {
		config.Sim.ClockKHz = 1000 // 1MHz, the RP2040 timer rate
	}
	if config.Sim.Max == 0 {
		config.Sim.Max = 0x00FF_FFFF
	}
	if config.Sim.TicksPerSample == 0 {
		config.Sim.TicksPerSample = 1000
	}
}

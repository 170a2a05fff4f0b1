// SPDX-License-Identifier: MIT
// Package config loads and validates the application configuration from
// YAML, with environment variable overrides applied on top.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/TheAnsarya/ableton-snes-spc/pkg/bitint"

	"gopkg.in/yaml.v3"
)

// Boundaries and defaults for the capture and analysis pipeline.
const (
	DefaultSampleRate      = 44100
	DefaultFramesPerBuffer = 512
	DefaultChannels        = 2
	DefaultFFTSize         = 1024

	MinDeviceID   = -1 // -1 selects the system default device
	MinSampleRate = 8000
	MaxSampleRate = 192000
	MaxFFTSize    = 8192
)

// Config is the root application configuration, loaded from YAML.
type Config struct {
	Debug     bool            `yaml:"debug"`     // Verbose logging and debug features.
	LogLevel  string          `yaml:"log_level"` // "debug", "info", "warn", "error".
	Audio     AudioConfig     `yaml:"audio"`     // Capture settings.
	Spectrum  SpectrumConfig  `yaml:"spectrum"`  // Analysis engine settings.
	Recording RecordingConfig `yaml:"recording"` // Input recording settings.
	Transport TransportConfig `yaml:"transport"` // Frame publishing settings.
}

// AudioConfig holds capture settings for live analysis.
type AudioConfig struct {
	InputDevice     int     `yaml:"input_device"`      // PortAudio device index (-1 for default).
	SampleRate      float64 `yaml:"sample_rate"`       // Hz, e.g. 44100 or 48000.
	FramesPerBuffer int     `yaml:"frames_per_buffer"` // Frames per capture callback.
	InputChannels   int     `yaml:"input_channels"`    // 1 mono, 2 stereo.
	LowLatency      bool    `yaml:"low_latency"`       // Request low latency from the device.
	GateThreshold   float64 `yaml:"gate_threshold"`    // Noise gate threshold in [0,1]; 0 disables.
}

// SpectrumConfig holds the analysis engine settings. Out-of-range band,
// smoothing and decay values are clamped by the engine rather than rejected
// here; FFTSize and Window are validated because they are structural.
type SpectrumConfig struct {
	FFTSize   int     `yaml:"fft_size"`   // Transform size, power of 2.
	Bands     int     `yaml:"bands"`      // Output band count, clamped to 8..128.
	Smoothing float64 `yaml:"smoothing"`  // Exponential smoothing factor, clamped to 0..0.99.
	PeakDecay float64 `yaml:"peak_decay"` // Peak decay rate, clamped to 0.01..1.0.
	LogScale  bool    `yaml:"log_scale"`  // Logarithmic band distribution.
	ShowPeaks bool    `yaml:"show_peaks"` // Peak-hold indicators.
	Window    string  `yaml:"window"`     // Analysis window name, e.g. "hann".
}

// RecordingConfig holds settings for recording the captured input to WAV.
type RecordingConfig struct {
	Enabled   bool   `yaml:"enabled"`
	OutputDir string `yaml:"output_dir"`
	BitDepth  int    `yaml:"bit_depth"` // 16, 24 or 32.
}

// TransportConfig holds settings for publishing analysis frames to remote
// display consumers.
type TransportConfig struct {
	WebSocketEnabled bool          `yaml:"websocket_enabled"`
	WebSocketAddr    string        `yaml:"websocket_addr"` // e.g. ":8080".
	UDPEnabled       bool          `yaml:"udp_enabled"`
	UDPTargetAddress string        `yaml:"udp_target_address"` // e.g. "127.0.0.1:9090".
	SendInterval     time.Duration `yaml:"send_interval"`      // Interval between published frames.
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Debug:    false,
		LogLevel: "info",
		Audio: AudioConfig{
			InputDevice:     MinDeviceID,
			SampleRate:      DefaultSampleRate,
			FramesPerBuffer: DefaultFramesPerBuffer,
			InputChannels:   DefaultChannels,
			LowLatency:      false,
			GateThreshold:   0.001,
		},
		Spectrum: SpectrumConfig{
			FFTSize:   DefaultFFTSize,
			Bands:     32,
			Smoothing: 0.7,
			PeakDecay: 0.05,
			LogScale:  true,
			ShowPeaks: true,
			Window:    "hann",
		},
		Recording: RecordingConfig{
			Enabled:   false,
			OutputDir: ".",
			BitDepth:  32,
		},
		Transport: TransportConfig{
			WebSocketEnabled: false,
			WebSocketAddr:    ":8080",
			UDPEnabled:       false,
			UDPTargetAddress: "127.0.0.1:9090",
			SendInterval:     33 * time.Millisecond, // ~30 fps
		},
	}
}

// Load reads configuration from the YAML file at path. An empty path falls
// back to "config.yaml" in the working directory, or the built-in defaults
// if no file exists. Environment overrides apply after the file, and the
// result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		} else {
			cfg.applyEnvOverrides()
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("invalid default configuration: %w", err)
			}
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the structural settings. Band count, smoothing and decay
// are deliberately not validated here: the engine clamps them so a bad value
// still produces a plausible frame.
func (c *Config) Validate() error {
	if !bitint.IsPowerOfTwo(c.Spectrum.FFTSize) {
		return fmt.Errorf("spectrum.fft_size must be a power of 2, got %d", c.Spectrum.FFTSize)
	}
	if c.Spectrum.FFTSize > MaxFFTSize {
		return fmt.Errorf("spectrum.fft_size %d exceeds maximum %d", c.Spectrum.FFTSize, MaxFFTSize)
	}
	if c.Audio.SampleRate < MinSampleRate || c.Audio.SampleRate > MaxSampleRate {
		return fmt.Errorf("audio.sample_rate %.0f outside supported range %d-%d",
			c.Audio.SampleRate, MinSampleRate, MaxSampleRate)
	}
	if c.Audio.FramesPerBuffer <= 0 {
		return fmt.Errorf("audio.frames_per_buffer must be positive, got %d", c.Audio.FramesPerBuffer)
	}
	if c.Audio.InputChannels < 1 || c.Audio.InputChannels > 2 {
		return fmt.Errorf("audio.input_channels must be 1 or 2, got %d", c.Audio.InputChannels)
	}
	if c.Transport.UDPEnabled && c.Transport.UDPTargetAddress == "" {
		return fmt.Errorf("transport.udp_target_address must be set when UDP is enabled")
	}
	if c.Transport.SendInterval <= 0 {
		return fmt.Errorf("transport.send_interval must be positive")
	}
	switch c.Recording.BitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("recording.bit_depth must be 16, 24 or 32, got %d", c.Recording.BitDepth)
	}
	return nil
}

// applyEnvOverrides layers SPC_* environment variables over the loaded
// configuration. Only settings useful for deployment differences are
// overridable; analysis tuning stays in the file and CLI.
func (c *Config) applyEnvOverrides() {
	if val, ok := os.LookupEnv("SPC_DEBUG"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Debug = b
		}
	}
	if val, ok := os.LookupEnv("SPC_LOG_LEVEL"); ok {
		c.LogLevel = val
	}
	if val, ok := os.LookupEnv("SPC_WEBSOCKET_ADDR"); ok {
		c.Transport.WebSocketAddr = val
		c.Transport.WebSocketEnabled = true
	}
	if val, ok := os.LookupEnv("SPC_UDP_TARGET_ADDRESS"); ok {
		c.Transport.UDPTargetAddress = val
		c.Transport.UDPEnabled = true
	}
	if val, ok := os.LookupEnv("SPC_SEND_INTERVAL"); ok {
		if d, err := time.ParseDuration(val); err == nil {
			c.Transport.SendInterval = d
		}
	}
}

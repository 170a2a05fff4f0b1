// SPDX-License-Identifier: MIT
// Package cmd parses command line arguments into a run mode and a resolved
// configuration. Flags override whatever the YAML config file provides.
package cmd

import (
	"os"
	"path/filepath"
	"time"

	"github.com/TheAnsarya/ableton-snes-spc/internal/config"
	"github.com/TheAnsarya/ableton-snes-spc/pkg/build"

	"github.com/spf13/cobra"
)

// Run modes selected by the CLI.
const (
	ModeLive = "live" // capture from an input device and show the TUI
	ModePlay = "play" // play a file through the analyzer and show the TUI
	ModeList = "list" // print audio devices and exit
)

// Options is the parsed result handed to main.
type Options struct {
	Cfg        *config.Config
	Mode       string
	PlayFile   string // set in ModePlay
	OutputFile string // WAV path when recording is enabled
}

// ParseArgs builds the cobra command tree, executes it against os.Args and
// returns the selected mode with the final configuration. Mode is empty when
// cobra handled the invocation itself (help, version).
func ParseArgs() (*Options, error) {
	buildInfo := build.GetBuildFlags()
	opts := &Options{}

	var (
		cfgPath    string
		deviceID   int
		sampleRate float64
		frames     int
		channels   int
		lowLatency bool
		gate       float64
		bands      int
		smoothing  float64
		decay      float64
		linear     bool
		noPeaks    bool
		record     bool
		outputFile string
		verbose    bool
	)

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         "Real-time spectrum analyzer for SNES SPC soundtracks",
		Version:       buildInfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("device") {
				cfg.Audio.InputDevice = deviceID
			}
			if flags.Changed("sample-rate") {
				cfg.Audio.SampleRate = sampleRate
			}
			if flags.Changed("frames-per-buffer") {
				cfg.Audio.FramesPerBuffer = frames
			}
			if flags.Changed("channels") {
				cfg.Audio.InputChannels = channels
			}
			if flags.Changed("low-latency") {
				cfg.Audio.LowLatency = lowLatency
			}
			if flags.Changed("gate") {
				cfg.Audio.GateThreshold = gate
			}
			if flags.Changed("bands") {
				cfg.Spectrum.Bands = bands
			}
			if flags.Changed("smoothing") {
				cfg.Spectrum.Smoothing = smoothing
			}
			if flags.Changed("decay") {
				cfg.Spectrum.PeakDecay = decay
			}
			if flags.Changed("linear") {
				cfg.Spectrum.LogScale = !linear
			}
			if flags.Changed("no-peaks") {
				cfg.Spectrum.ShowPeaks = !noPeaks
			}
			if flags.Changed("record") {
				cfg.Recording.Enabled = record
			}
			if flags.Changed("verbose") {
				cfg.Debug = verbose
				cfg.LogLevel = "debug"
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			opts.Cfg = cfg
			opts.OutputFile = outputFile
			if opts.OutputFile == "" {
				opts.OutputFile = filepath.Join(cfg.Recording.OutputDir,
					"recording-"+time.Now().UTC().Format("02-01-2006-150405")+".wav")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Mode = ModeLive
			return nil
		},
	}

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	playCmd := &cobra.Command{
		Use:   "play <file>",
		Short: "Play a WAV/MP3/FLAC/OGG file through the analyzer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Mode = ModePlay
			opts.PlayFile = args[0]
			return nil
		},
	}
	rootCmd.AddCommand(playCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available audio devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Mode = ModeList
			return nil
		},
	}
	rootCmd.AddCommand(listCmd)

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "",
		"Path to the YAML config file (default config.yaml if present)")

	// Audio device configuration
	rootCmd.PersistentFlags().IntVarP(&deviceID, "device", "d", config.MinDeviceID,
		"Input device ID. Use 'list' to see available devices")
	rootCmd.PersistentFlags().Float64VarP(&sampleRate, "sample-rate", "s", config.DefaultSampleRate,
		"Sample rate in Hertz (Hz)")
	rootCmd.PersistentFlags().IntVarP(&frames, "frames-per-buffer", "f", config.DefaultFramesPerBuffer,
		"Frames per capture buffer (affects latency)")
	rootCmd.PersistentFlags().IntVarP(&channels, "channels", "c", config.DefaultChannels,
		"Input channels (1=mono, 2=stereo)")
	rootCmd.PersistentFlags().BoolVar(&lowLatency, "low-latency", false,
		"Request low latency from the capture device")
	rootCmd.PersistentFlags().Float64Var(&gate, "gate", 0.001,
		"Noise gate threshold in [0,1]; 0 disables the gate")

	// Analyzer configuration
	rootCmd.PersistentFlags().IntVarP(&bands, "bands", "b", 0,
		"Number of frequency bands (8-128)")
	rootCmd.PersistentFlags().Float64Var(&smoothing, "smoothing", 0,
		"Band smoothing factor in [0, 0.99]")
	rootCmd.PersistentFlags().Float64Var(&decay, "decay", 0,
		"Peak decay rate in [0.01, 1.0]")
	rootCmd.PersistentFlags().BoolVar(&linear, "linear", false,
		"Linear band mapping instead of logarithmic")
	rootCmd.PersistentFlags().BoolVar(&noPeaks, "no-peaks", false,
		"Disable peak hold markers")

	// Recording configuration
	rootCmd.PersistentFlags().BoolVarP(&record, "record", "r", false,
		"Record captured audio to a WAV file")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "",
		"Output file name. Default is recording-DD-MM-YYYY-HHMMSS.wav")

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Show verbose output")

	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}
	return opts, nil
}

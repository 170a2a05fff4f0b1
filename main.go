// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/TheAnsarya/ableton-snes-spc/cmd"
	"github.com/TheAnsarya/ableton-snes-spc/internal/audio"
	"github.com/TheAnsarya/ableton-snes-spc/internal/config"
	"github.com/TheAnsarya/ableton-snes-spc/internal/decode"
	applog "github.com/TheAnsarya/ableton-snes-spc/internal/log"
	"github.com/TheAnsarya/ableton-snes-spc/internal/playback"
	"github.com/TheAnsarya/ableton-snes-spc/internal/spectrum"
	"github.com/TheAnsarya/ableton-snes-spc/internal/transport"
	"github.com/TheAnsarya/ableton-snes-spc/internal/transport/udp"
	"github.com/TheAnsarya/ableton-snes-spc/internal/tui"
	"github.com/TheAnsarya/ableton-snes-spc/pkg/build"

	tea "github.com/charmbracelet/bubbletea"
)

// main runs in three phases:
//
// 1. Startup (cold path): build info, runtime tuning, argument parsing and
// one-off commands like device listing.
//
// 2. Concurrent (hot path): the capture callback or the playback tap feeds
// the analyzer while the TUI and the network publisher read snapshots.
//
// 3. Shutdown (cold path): stop recording, close the engine, flush
// transports.
func main() {
	build.Initialize()

	// One thread for the audio callback, one for UI and I/O.
	runtime.GOMAXPROCS(2)

	opts, err := cmd.ParseArgs()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if opts.Mode == "" {
		return // cobra handled help or version
	}

	if level, ok := applog.ParseLevel(opts.Cfg.LogLevel); ok {
		applog.SetLevel(level)
	}

	var runErr error
	switch opts.Mode {
	case cmd.ModeList:
		runErr = runList()
	case cmd.ModePlay:
		runErr = runPlay(opts)
	case cmd.ModeLive:
		runErr = runLive(opts)
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		os.Exit(1)
	}
}

func runList() error {
	if err := audio.Initialize(); err != nil {
		return err
	}
	defer audio.Terminate()
	return audio.ListDevices()
}

// newAnalyzer builds the analysis engine from the spectrum section of the
// config. sampleRate comes from the capture device or the decoded file.
func newAnalyzer(cfg *config.SpectrumConfig, sampleRate float64) (*spectrum.Analyzer, error) {
	window, err := spectrum.ParseWindowFunc(cfg.Window)
	if err != nil {
		return nil, err
	}

	analyzer, err := spectrum.New(cfg.FFTSize, sampleRate, window)
	if err != nil {
		return nil, err
	}
	analyzer.SetNumBands(cfg.Bands)
	analyzer.SetSmoothing(cfg.Smoothing)
	analyzer.SetDecayRate(cfg.PeakDecay)
	analyzer.SetLogScale(cfg.LogScale)
	analyzer.SetShowPeaks(cfg.ShowPeaks)
	return analyzer, nil
}

// startPublisher wires the configured network sinks and starts the frame
// publisher. Returns nil when no transport is enabled.
func startPublisher(cfg *config.TransportConfig, analyzer *spectrum.Analyzer) (*transport.Publisher, error) {
	var sinks []transport.Transport

	if cfg.WebSocketEnabled {
		sinks = append(sinks, transport.NewWebSocketTransport(cfg.WebSocketAddr))
	}
	if cfg.UDPEnabled {
		sender, err := udp.NewSender(cfg.UDPTargetAddress)
		if err != nil {
			return nil, err
		}
		udpTransport, err := udp.NewTransport(sender)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, udpTransport)
	}
	if len(sinks) == 0 {
		return nil, nil
	}

	publisher, err := transport.NewPublisher(cfg.SendInterval, analyzer, sinks...)
	if err != nil {
		return nil, err
	}
	publisher.Start()
	return publisher, nil
}

func runLive(opts *cmd.Options) error {
	cfg := opts.Cfg

	if err := audio.Initialize(); err != nil {
		return err
	}
	defer audio.Terminate()

	analyzer, err := newAnalyzer(&cfg.Spectrum, cfg.Audio.SampleRate)
	if err != nil {
		return err
	}

	engine, err := audio.NewEngine(cfg, analyzer)
	if err != nil {
		return err
	}

	// First callback fires here; the hot path is live from now on.
	if err := engine.StartInputStream(); err != nil {
		return err
	}
	defer engine.Close()

	if cfg.Recording.Enabled {
		if err := engine.StartRecording(opts.OutputFile); err != nil {
			return err
		}
	}

	publisher, err := startPublisher(&cfg.Transport, analyzer)
	if err != nil {
		return err
	}
	if publisher != nil {
		defer publisher.Stop()
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	program := tea.NewProgram(tui.New(analyzer, "live capture"), tea.WithAltScreen())
	go func() {
		<-done
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		return err
	}

	if cfg.Recording.Enabled {
		if err := engine.StopRecording(); err != nil {
			applog.Errorf("Error stopping recording: %v", err)
		} else {
			fmt.Printf("Recording saved to: %s\n", opts.OutputFile)
		}
	}
	return nil
}

func runPlay(opts *cmd.Options) error {
	cfg := opts.Cfg

	file, err := os.Open(opts.PlayFile)
	if err != nil {
		return err
	}
	defer file.Close()

	dec, err := decode.New(file)
	if err != nil {
		return err
	}

	analyzer, err := newAnalyzer(&cfg.Spectrum, float64(dec.SampleRate()))
	if err != nil {
		return err
	}

	player, err := playback.NewPlayer(dec, analyzer)
	if err != nil {
		return err
	}
	defer player.Close()

	publisher, err := startPublisher(&cfg.Transport, analyzer)
	if err != nil {
		return err
	}
	if publisher != nil {
		defer publisher.Stop()
	}

	program := tea.NewProgram(tui.New(analyzer, opts.PlayFile), tea.WithAltScreen())

	player.Play()

	playCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := player.Wait(playCtx); err == nil {
			program.Quit()
		}
	}()

	_, err = program.Run()
	return err
}

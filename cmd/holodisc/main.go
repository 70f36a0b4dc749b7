// Command holodisc runs the playback engine over an in-memory world and
// streams the resulting scene to websocket clients
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
	"syscall"
	"time"

	"github.com/lixenwraith/holodisc/app"
	"github.com/lixenwraith/holodisc/config"
	"github.com/lixenwraith/holodisc/core"
	"github.com/lixenwraith/holodisc/network"
)

var (
	configFlag = flag.String("config", "holodisc.toml", "Config file, written with defaults when missing")
	debugFlag  = flag.Bool("debug", false, "Write logs to logs/holodisc.log")
	framesFlag = flag.String("frames", "", "Frames directory, overrides files.frames_directory")
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	flag.Parse()

	if f := setupLogging(*debugFlag); f != nil {
		defer f.Close()
	}
	logger := log.Default()

	cfg, err := config.Load(*configFlag, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	a, err := app.New(cfg, app.Options{
		ConfigPath:      *configFlag,
		FramesDirectory: *framesFlag,
		Devices:         true,
	}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	hub := network.NewHub(a.Graph, network.ConfigFrom(cfg.Server), a.Metrics, logger)
	defer hub.Close()

	mux := http.NewServeMux()
	hub.Routes(mux)
	a.Routes(mux)

	srv := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	a.Loop.Start()

	serveErr := make(chan error, 1)
	core.Go(func() {
		serveErr <- srv.ListenAndServe()
	})
	fmt.Fprintf(os.Stderr, "holodisc listening on %s (%d frames)\n", cfg.Server.Listen, a.Frames.Current().Len())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sig:
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("shutdown: %v", err)
	}
}

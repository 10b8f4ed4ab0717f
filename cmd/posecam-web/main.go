// Posecam-web - headless pose overlay streamer
//
// Same capture loop as posecam, but instead of a desktop window the
// annotated frames and landmark events are served to browsers over
// websockets. Stop with Ctrl+C.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dcalleja/go-posecam/internal/config"
	"github.com/dcalleja/go-posecam/internal/log"
	"github.com/dcalleja/go-posecam/pkg/camera"
	"github.com/dcalleja/go-posecam/pkg/display"
	"github.com/dcalleja/go-posecam/pkg/overlay"
	"github.com/dcalleja/go-posecam/pkg/pose"
	"github.com/dcalleja/go-posecam/pkg/runner"
	"github.com/dcalleja/go-posecam/pkg/web"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML settings file (optional)")
	port := flag.String("port", "", "HTTP port (overrides settings)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid settings: %v\n", err)
		os.Exit(1)
	}
	if *port != "" {
		settings.WebPort = *port
	}
	if *debug {
		settings.LogLevel = "debug"
	}
	log.Init(settings.LogLevel)

	fmt.Println("🌐 Posecam Web")
	fmt.Printf("   Device: %s (%dx%d)\n", settings.Device, settings.Width, settings.Height)
	fmt.Printf("   Viewer: http://localhost:%s\n", settings.WebPort)
	fmt.Println()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n👋 Shutting down...")
		cancel()
	}()

	src, err := camera.Open(camera.Config{
		Device: settings.Device,
		Width:  settings.Width,
		Height: settings.Height,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not access the camera: %v\n", err)
		os.Exit(1)
	}

	det, err := pose.NewMoveNet(pose.Config{
		ModelPath:              settings.ModelPath,
		Complexity:             settings.Complexity,
		MinDetectionConfidence: settings.MinDetectionConfidence,
		MinTrackingConfidence:  settings.MinTrackingConfidence,
	})
	if err != nil {
		src.Close()
		fmt.Fprintf(os.Stderr, "could not load the pose model: %v\n", err)
		os.Exit(1)
	}
	defer det.Close()

	server := web.NewServer(settings.WebPort, settings.JPEGQuality)

	// Headless: a no-op sink keeps the loop's pacing without a window.
	loop := runner.New(src, det, overlay.New(), display.Noop{},
		runner.WithFrameFunc(server.FrameObserver()))
	server.StatsFunc = loop.Stats

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// When the loop ends, tear the rest down too
		defer cancel()
		return loop.Run(ctx)
	})
	g.Go(func() error {
		return server.Listen()
	})
	g.Go(func() error {
		// Take the HTTP server down once the loop exits (or vice versa)
		<-ctx.Done()
		return server.Shutdown()
	})

	if err := g.Wait(); err != nil {
		log.Error("stopped with error", "err", err)
		os.Exit(1)
	}
}

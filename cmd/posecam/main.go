// Posecam - webcam pose overlay viewer
//
// Opens the camera, runs pose detection on every frame, draws the
// skeleton, and shows the result in a window. Press ESC to quit.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dcalleja/go-posecam/internal/config"
	"github.com/dcalleja/go-posecam/internal/log"
	"github.com/dcalleja/go-posecam/pkg/camera"
	"github.com/dcalleja/go-posecam/pkg/display"
	"github.com/dcalleja/go-posecam/pkg/overlay"
	"github.com/dcalleja/go-posecam/pkg/pose"
	"github.com/dcalleja/go-posecam/pkg/runner"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML settings file (optional)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid settings: %v\n", err)
		os.Exit(1)
	}
	if *debug {
		settings.LogLevel = "debug"
	}
	log.Init(settings.LogLevel)

	fmt.Println("📷 Posecam")
	fmt.Printf("   Device: %s (%dx%d)\n", settings.Device, settings.Width, settings.Height)
	fmt.Printf("   Model:  %s (complexity %d)\n", settings.ModelPath, settings.Complexity)
	fmt.Println("   Press ESC to quit")
	fmt.Println()

	// Signal handling cancels the loop at its next iteration
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n👋 Shutting down...")
		cancel()
	}()

	// The camera is the single fatal failure point: no device, no loop.
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

	win := display.NewWindow(settings.WindowTitle)

	loop := runner.New(src, det, overlay.New(), win)
	if err := loop.Run(ctx); err != nil {
		log.Error("capture loop failed", "err", err)
		os.Exit(1)
	}

	stats := loop.Stats()
	fmt.Printf("✅ Done: %d frames, %d with a pose, %d skipped reads\n",
		stats.Frames, stats.Detections, stats.SkippedReads)
}

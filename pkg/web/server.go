// Package web serves the annotated frame and landmark feeds to browsers.
package web

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"gocv.io/x/gocv"

	"github.com/dcalleja/go-posecam/internal/log"
	"github.com/dcalleja/go-posecam/pkg/hub"
	"github.com/dcalleja/go-posecam/pkg/pose"
	"github.com/dcalleja/go-posecam/pkg/runner"
)

// Server exposes a running capture loop over HTTP: a viewer page, JPEG
// frames and landmark JSON over websockets, and a stats endpoint.
type Server struct {
	app  *fiber.App
	port string

	// Hubs for websocket broadcast
	poseHub  *hub.Hub
	frameHub *hub.Hub

	// StatsFunc supplies loop counters for /api/stats.
	StatsFunc func() runner.Stats

	jpegQuality int
}

// NewServer creates a web server listening on the given port.
func NewServer(port string, jpegQuality int) *Server {
	s := &Server{
		port:        port,
		poseHub:     hub.New("pose"),
		frameHub:    hub.New("frames"),
		jpegQuality: jpegQuality,
	}

	app := fiber.New(fiber.Config{
		AppName:               "Posecam",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	app.Get("/", s.handleIndex)

	api := app.Group("/api")
	api.Get("/stats", s.handleStats)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/pose", websocket.New(s.handlePoseWS))
	app.Get("/ws/frames", websocket.New(s.handleFramesWS))

	s.app = app
	return s
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts the hubs and serves until the listener fails or the
// server is shut down.
func (s *Server) Listen() error {
	go s.poseHub.Run()
	go s.frameHub.Run()

	log.Info("web viewer listening", "addr", "http://localhost:"+s.port)
	return s.app.Listen(":" + s.port)
}

// Shutdown gracefully shuts the server down.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// FrameObserver returns a runner.FrameFunc that publishes every displayed
// frame and its detection result to the websocket feeds.
func (s *Server) FrameObserver() runner.FrameFunc {
	var frameNo uint64
	return func(frame gocv.Mat, set *pose.LandmarkSet) {
		frameNo++

		ev := hub.PoseEvent{
			Time:     time.Now(),
			Frame:    frameNo,
			Detected: set != nil,
			Pose:     set,
		}
		if msg, err := hub.EncodePoseEvent(ev); err == nil {
			s.poseHub.Broadcast(msg)
		}

		// Skip the encode entirely when nobody is watching
		if s.frameHub.ClientCount() == 0 {
			return
		}
		buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, frame,
			[]int{gocv.IMWriteJpegQuality, s.jpegQuality})
		if err != nil {
			log.Debug("jpeg encode failed", "err", err)
			return
		}
		defer buf.Close()
		data := make([]byte, len(buf.GetBytes()))
		copy(data, buf.GetBytes())
		s.frameHub.Broadcast(hub.NewFrameMessage(data))
	}
}

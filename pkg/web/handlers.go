package web

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/dcalleja/go-posecam/pkg/hub"
	"github.com/dcalleja/go-posecam/pkg/runner"
)

// statsResponse is the /api/stats payload.
type statsResponse struct {
	Loop        runner.Stats `json:"loop"`
	PoseClients int          `json:"pose_clients"`
	ViewClients int          `json:"view_clients"`
	RSSBytes    uint64       `json:"rss_bytes"`
	CPUPercent  float64      `json:"cpu_percent"`
}

// handleStats reports loop counters plus process resource usage.
func (s *Server) handleStats(c *fiber.Ctx) error {
	resp := statsResponse{
		PoseClients: s.poseHub.ClientCount(),
		ViewClients: s.frameHub.ClientCount(),
	}
	if s.StatsFunc != nil {
		resp.Loop = s.StatsFunc()
	}

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mem, err := proc.MemoryInfo(); err == nil {
			resp.RSSBytes = mem.RSS
		}
		if cpu, err := proc.CPUPercent(); err == nil {
			resp.CPUPercent = cpu
		}
	}

	return c.JSON(resp)
}

// handlePoseWS streams landmark JSON to a client.
func (s *Server) handlePoseWS(c *websocket.Conn) {
	hub.NewClient(s.poseHub, c).Run()
}

// handleFramesWS streams annotated JPEG frames to a client.
func (s *Server) handleFramesWS(c *websocket.Conn) {
	hub.NewClient(s.frameHub, c).Run()
}

// handleIndex serves the built-in viewer page.
func (s *Server) handleIndex(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(viewerPage)
}

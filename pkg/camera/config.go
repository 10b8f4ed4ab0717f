// Package camera provides the frame capture source for posecam.
package camera

import "fmt"

// Config holds capture configuration, fixed once the source is opened.
type Config struct {
	// Device is a numeric capture index ("0") or a stream URL
	// (rtsp://..., http://...).
	Device string `json:"device"`

	// Requested capture resolution. Fixed upstream so every frame the loop
	// sees has the same shape.
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DefaultConfig returns the stock 640x480 configuration on device 0.
func DefaultConfig() Config {
	return Config{
		Device: "0",
		Width:  640,
		Height: 480,
	}
}

// Validate checks if the config values are within valid ranges.
func (c Config) Validate() error {
	if c.Device == "" {
		return fmt.Errorf("device must not be empty")
	}
	if c.Width < 160 || c.Width > 7680 {
		return fmt.Errorf("width %d out of range [160,7680]", c.Width)
	}
	if c.Height < 120 || c.Height > 4320 {
		return fmt.Errorf("height %d out of range [120,4320]", c.Height)
	}
	return nil
}

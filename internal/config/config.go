// Package config provides configuration for the posecam commands.
//
// Defaults are compiled in. A YAML settings file and POSECAM_* env vars can
// override them; env vars win over the file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Settings holds everything the commands need to wire up a capture loop.
type Settings struct {
	// Capture
	Device string `yaml:"device"` // device index ("0") or a stream URL
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`

	// Detector
	ModelPath              string  `yaml:"model_path"`
	Complexity             int     `yaml:"complexity"` // 0 = lightweight, 1-2 = heavier variants
	MinDetectionConfidence float64 `yaml:"min_detection_confidence"`
	MinTrackingConfidence  float64 `yaml:"min_tracking_confidence"`

	// Display
	WindowTitle string `yaml:"window_title"`

	// Web streaming (posecam-web only)
	WebPort     string `yaml:"web_port"`
	JPEGQuality int    `yaml:"jpeg_quality"`

	LogLevel string `yaml:"log_level"`
}

// Defaults returns the stock settings: device 0 at 640x480, both confidence
// thresholds at 0.5, lightweight model.
func Defaults() Settings {
	return Settings{
		Device:                 "0",
		Width:                  640,
		Height:                 480,
		ModelPath:              "models/movenet_singlepose_lightning.onnx",
		Complexity:             0,
		MinDetectionConfidence: 0.5,
		MinTrackingConfidence:  0.5,
		WindowTitle:            "Posecam",
		WebPort:                "8080",
		JPEGQuality:            85,
		LogLevel:               "info",
	}
}

// Load builds Settings from defaults, then the YAML file at path (if path is
// non-empty), then POSECAM_* env vars.
func Load(path string) (Settings, error) {
	s := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return s, fmt.Errorf("read settings file: %w", err)
		}
		if err := yaml.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("parse settings file %s: %w", path, err)
		}
	}

	s.applyEnv()

	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

func (s *Settings) applyEnv() {
	envStr("POSECAM_DEVICE", &s.Device)
	envInt("POSECAM_WIDTH", &s.Width)
	envInt("POSECAM_HEIGHT", &s.Height)
	envStr("POSECAM_MODEL", &s.ModelPath)
	envInt("POSECAM_COMPLEXITY", &s.Complexity)
	envFloat("POSECAM_MIN_DETECTION_CONFIDENCE", &s.MinDetectionConfidence)
	envFloat("POSECAM_MIN_TRACKING_CONFIDENCE", &s.MinTrackingConfidence)
	envStr("POSECAM_WINDOW_TITLE", &s.WindowTitle)
	envStr("POSECAM_WEB_PORT", &s.WebPort)
	envInt("POSECAM_JPEG_QUALITY", &s.JPEGQuality)
	envStr("POSECAM_LOG_LEVEL", &s.LogLevel)
}

// Validate checks value ranges.
func (s Settings) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("invalid resolution %dx%d", s.Width, s.Height)
	}
	if s.MinDetectionConfidence < 0 || s.MinDetectionConfidence > 1 {
		return fmt.Errorf("min_detection_confidence %v out of range [0,1]", s.MinDetectionConfidence)
	}
	if s.MinTrackingConfidence < 0 || s.MinTrackingConfidence > 1 {
		return fmt.Errorf("min_tracking_confidence %v out of range [0,1]", s.MinTrackingConfidence)
	}
	if s.Complexity < 0 || s.Complexity > 2 {
		return fmt.Errorf("complexity %d out of range [0,2]", s.Complexity)
	}
	if s.JPEGQuality < 1 || s.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality %d out of range [1,100]", s.JPEGQuality)
	}
	return nil
}

func envStr(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envFloat(key string, dst *float64) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

package config

import (
	"bytes"
	"fmt"
	"image/color"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/golangdaddy/roadster/pkg/camera"
	"github.com/golangdaddy/roadster/pkg/car"
	"github.com/golangdaddy/roadster/pkg/ride"
)

// Window is the size of the desktop window
type Window struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

// Frame is the size of the software rendered frame, scaled up to the window
type Frame struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Settings is the content of roadster.toml
type Settings struct {
	Window        Window        `toml:"window"`
	Frame         Frame         `toml:"frame"`
	LogLevel      string        `toml:"log_level"`
	Track         string        `toml:"track"`
	Assets        string        `toml:"assets"`
	HotReload     bool          `toml:"hot_reload"`
	HorizonScroll float64       `toml:"horizon_scroll"`
	Sky           [3]uint8      `toml:"sky"`
	CarColor      [3]uint8      `toml:"car_color"`
	Camera        camera.Camera `toml:"camera"`
	Car           car.Tuning    `toml:"car"`
}

// DefaultSettings returns settings that run the bundled track
func DefaultSettings() Settings {
	rs := ride.DefaultSettings()
	return Settings{
		Window: Window{
			Width:  960,
			Height: 720,
			Title:  "Roadster",
		},
		Frame: Frame{
			Width:  320,
			Height: 240,
		},
		LogLevel:      "info",
		Track:         "assets/tracks/default.track.toml",
		Assets:        "assets",
		HotReload:     true,
		HorizonScroll: rs.HorizonScroll,
		Sky:           [3]uint8{rs.Sky.R, rs.Sky.G, rs.Sky.B},
		CarColor:      [3]uint8{rs.CarColor.R, rs.CarColor.G, rs.CarColor.B},
		Camera:        rs.Camera,
		Car:           rs.Car,
	}
}

// LoadSettings reads a settings file over the defaults. Keys the file
// leaves out keep their default value; unknown keys are an error.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("failed to read settings: %w", err)
	}
	if err := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&s); err != nil {
		return s, fmt.Errorf("failed to decode settings %s: %w", path, err)
	}
	if err := s.Camera.Validate(); err != nil {
		return s, fmt.Errorf("settings %s: %w", path, err)
	}
	if s.Frame.Width <= 0 || s.Frame.Height <= 0 {
		return s, fmt.Errorf("settings %s: frame size %dx%d must be positive", path, s.Frame.Width, s.Frame.Height)
	}
	return s, nil
}

// Ride returns the ride part of the settings
func (s Settings) Ride() ride.Settings {
	return ride.Settings{
		Camera:        s.Camera,
		Car:           s.Car,
		CarColor:      rgb(s.CarColor),
		Sky:           rgb(s.Sky),
		HorizonScroll: s.HorizonScroll,
	}
}

func rgb(c [3]uint8) color.RGBA {
	return color.RGBA{c[0], c[1], c[2], 255}
}

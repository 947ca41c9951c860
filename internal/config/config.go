package config

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/image-pen-mcp/internal/imaging"
	"github.com/ironsheep/image-pen-mcp/internal/match"
	"github.com/ironsheep/image-pen-mcp/internal/pen"
	"github.com/ironsheep/image-pen-mcp/internal/runner"
	"github.com/ironsheep/image-pen-mcp/internal/vector"
)

// EnvPath names the environment variable holding the config file path.
const EnvPath = "IMAGE_PEN_CONFIG"

// Device drivers.
const (
	DriverXdotool   = "xdotool"
	DriverWebSocket = "websocket"
	DriverStream    = "stream"
)

// Region is a screen rectangle. A zero width or height leaves it unset.
type Region struct {
	X      int `yaml:"x" json:"x"`
	Y      int `yaml:"y" json:"y"`
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Rect converts r to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// IsSet reports whether r has an area.
func (r Region) IsSet() bool {
	return r.Width > 0 && r.Height > 0
}

// Point is a screen position.
type Point struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// Device selects the pointer adapter.
type Device struct {
	Driver  string `yaml:"driver"`
	Command string `yaml:"command"`
	URL     string `yaml:"url"`
}

// Sampler selects how the screen is captured. File, when set, is a fixed
// screenshot used instead of running Command.
type Sampler struct {
	Command string `yaml:"command"`
	File    string `yaml:"file"`
}

// Config is the full configuration.
type Config struct {
	Canvas      Region `yaml:"canvas"`
	ColorButton Region `yaml:"color_button"`
	Picker      Region `yaml:"picker"`
	PickerClose Region `yaml:"picker_close"`
	Park        Point  `yaml:"park"`

	Mode        vector.Mode          `yaml:"mode"`
	Filter      imaging.Filter       `yaml:"filter"`
	MatchMetric match.Metric         `yaml:"match_metric"`
	Speed       pen.Speed            `yaml:"speed"`
	Estimate    vector.EstimateModel `yaml:"estimate"`
	CancelPoll  time.Duration        `yaml:"cancel_poll"`

	Device  Device  `yaml:"device"`
	Sampler Sampler `yaml:"sampler"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Canvas:      Region{Width: 800, Height: 600},
		Mode:        vector.Binary,
		Filter:      imaging.FilterLinear,
		MatchMetric: match.MetricRGB,
		Speed:       pen.DefaultSpeed(),
		Estimate:    vector.DefaultEstimateModel(),
		CancelPoll:  runner.DefaultPollInterval,
		Device: Device{
			Driver:  DriverXdotool,
			Command: "xdotool",
		},
		Sampler: Sampler{
			Command: "import -window root png:-",
		},
	}
}

// Path returns flagPath if set, otherwise the value of IMAGE_PEN_CONFIG.
func Path(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	return os.Getenv(EnvPath)
}

// Load reads the file at path over Default and validates the result. An
// empty path returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	if !c.Canvas.IsSet() {
		return fmt.Errorf("%w: canvas must have a positive width and height", imaging.ErrInvalidRegion)
	}
	regions := map[string]Region{
		"color_button": c.ColorButton,
		"picker":       c.Picker,
		"picker_close": c.PickerClose,
	}
	for name, r := range regions {
		if r.Width < 0 || r.Height < 0 {
			return fmt.Errorf("%w: %s has a negative size", imaging.ErrInvalidRegion, name)
		}
	}

	if _, err := vector.ParseMode(c.Mode.String()); err != nil {
		return err
	}
	if _, err := imaging.ParseFilter(string(c.Filter)); err != nil {
		return err
	}
	if _, err := match.ParseMetric(string(c.MatchMetric)); err != nil {
		return err
	}
	if err := c.Speed.Validate(); err != nil {
		return fmt.Errorf("invalid speed: %w", err)
	}
	if c.Estimate.SecondsPerColor < 0 || c.Estimate.PixelsPerSecond < 0 {
		return errors.New("estimate coefficients must not be negative")
	}
	if c.CancelPoll <= 0 {
		return fmt.Errorf("cancel_poll must be positive, got %v", c.CancelPoll)
	}

	switch c.Device.Driver {
	case DriverXdotool, DriverStream:
	case DriverWebSocket:
		if c.Device.URL == "" {
			return errors.New("device.url is required for the websocket driver")
		}
	default:
		return fmt.Errorf("unknown device driver: %q", c.Device.Driver)
	}
	return nil
}

// Job builds a runner job for img from the configuration.
func (c *Config) Job(img image.Image) *runner.Job {
	return &runner.Job{
		Image:       img,
		Canvas:      c.Canvas.Rect(),
		ColorButton: c.ColorButton.Rect(),
		Picker:      c.Picker.Rect(),
		PickerClose: c.PickerClose.Rect(),
		Park:        image.Pt(c.Park.X, c.Park.Y),
		Mode:        c.Mode,
		Filter:      c.Filter,
		Speed:       c.Speed,
		Model:       c.Estimate,
		Metric:      c.MatchMetric,
	}
}

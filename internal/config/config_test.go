package config

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-pen-mcp/internal/device"
	"github.com/ironsheep/image-pen-mcp/internal/imaging"
	"github.com/ironsheep/image-pen-mcp/internal/match"
	"github.com/ironsheep/image-pen-mcp/internal/pen"
	"github.com/ironsheep/image-pen-mcp/internal/vector"
)

const fullConfig = `
canvas:       {x: 100, y: 200, width: 800, height: 600}
color_button: {x: 20, y: 20, width: 40, height: 40}
picker:       {x: 300, y: 100, width: 256, height: 256}
picker_close: {x: 560, y: 100, width: 30, height: 30}
park:         {x: 5, y: 6}
mode: blocks
filter: nearest
match_metric: lab
speed:    {step_size: 1.5, sleep_interval: 20}
estimate: {seconds_per_color: 3, pixels_per_second: 250}
cancel_poll: 25ms
device:
  driver: websocket
  url: ws://127.0.0.1:9222/pen
sampler:
  command: "grim -"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, pen.DefaultSpeed(), cfg.Speed)
	assert.Equal(t, vector.DefaultEstimateModel(), cfg.Estimate)
	assert.Equal(t, 50*time.Millisecond, cfg.CancelPoll)
	assert.Equal(t, DriverXdotool, cfg.Device.Driver)
}

func TestLoad_Full(t *testing.T) {
	cfg, err := Load(writeConfig(t, fullConfig))
	require.NoError(t, err)

	assert.Equal(t, image.Rect(100, 200, 900, 800), cfg.Canvas.Rect())
	assert.Equal(t, image.Rect(300, 100, 556, 356), cfg.Picker.Rect())
	assert.Equal(t, Point{X: 5, Y: 6}, cfg.Park)
	assert.Equal(t, vector.QuantizedBlocks, cfg.Mode)
	assert.Equal(t, imaging.FilterNearest, cfg.Filter)
	assert.Equal(t, match.MetricLab, cfg.MatchMetric)
	assert.Equal(t, pen.Speed{StepSize: 1.5, SleepInterval: 20}, cfg.Speed)
	assert.Equal(t, vector.EstimateModel{SecondsPerColor: 3, PixelsPerSecond: 250}, cfg.Estimate)
	assert.Equal(t, 25*time.Millisecond, cfg.CancelPoll)
	assert.Equal(t, "ws://127.0.0.1:9222/pen", cfg.Device.URL)
	assert.Equal(t, "grim -", cfg.Sampler.Command)
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "mode: edges\n"))
	require.NoError(t, err)
	assert.Equal(t, vector.RasterColoredEdges, cfg.Mode)
	assert.Equal(t, pen.DefaultSpeed(), cfg.Speed)
	assert.Equal(t, 800, cfg.Canvas.Width)
}

func TestLoad_EmptyFileAndPath(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]string{
		"unknown field":    "colour: red\n",
		"bad mode":         "mode: sketch\n",
		"bad filter":       "filter: bicubic\n",
		"bad metric":       "match_metric: hsv\n",
		"zero canvas":      "canvas: {x: 0, y: 0, width: 0, height: 10}\n",
		"negative picker":  "picker: {x: 0, y: 0, width: -5, height: 10}\n",
		"bad speed":        "speed: {step_size: 0, sleep_interval: 50}\n",
		"bad poll":         "cancel_poll: 0s\n",
		"bad driver":       "device: {driver: uinput}\n",
		"websocket no url": "device: {driver: websocket}\n",
		"negative model":   "estimate: {seconds_per_color: -1, pixels_per_second: 400}\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config")
}

func TestPath(t *testing.T) {
	t.Setenv(EnvPath, "/etc/image-pen.yaml")
	assert.Equal(t, "/etc/image-pen.yaml", Path(""))
	assert.Equal(t, "local.yaml", Path("local.yaml"))
}

func TestRegion(t *testing.T) {
	assert.False(t, Region{X: 5, Y: 5}.IsSet())
	assert.True(t, Region{Width: 1, Height: 1}.IsSet())
	assert.True(t, Region{X: 5, Y: 5}.Rect().Empty())
}

func TestJob(t *testing.T) {
	cfg, err := Parse([]byte(fullConfig))
	require.NoError(t, err)

	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	job := cfg.Job(img)
	assert.Same(t, img, job.Image)
	assert.Equal(t, image.Rect(100, 200, 900, 800), job.Canvas)
	assert.Equal(t, image.Rect(20, 20, 60, 60), job.ColorButton)
	assert.Equal(t, image.Rect(560, 100, 590, 130), job.PickerClose)
	assert.Equal(t, image.Pt(5, 6), job.Park)
	assert.True(t, job.SelectsColors())
	assert.Equal(t, match.MetricLab, job.Metric)

	cfg = Default()
	assert.False(t, cfg.Job(img).SelectsColors())
}

func TestOpenDevice_Stream(t *testing.T) {
	cfg := Default()
	cfg.Device.Driver = DriverStream
	cfg.Park = Point{X: 7, Y: 8}

	var buf bytes.Buffer
	dev, closeFn, err := cfg.OpenDevice(context.Background(), &buf)
	require.NoError(t, err)
	defer closeFn()

	pos, err := dev.Position()
	require.NoError(t, err)
	assert.Equal(t, image.Pt(7, 8), pos)

	require.NoError(t, dev.Press())
	assert.Equal(t, "{\"op\":\"press\"}\n", buf.String())
}

func TestOpenDevice_Xdotool(t *testing.T) {
	dev, _, err := Default().OpenDevice(context.Background(), nil)
	require.NoError(t, err)
	assert.IsType(t, &device.Xdotool{}, dev)
}

func TestOpenScreen(t *testing.T) {
	cfg := Default()
	screen, err := cfg.OpenScreen(imaging.NewImageCache())
	require.NoError(t, err)
	assert.IsType(t, &device.CommandSampler{}, screen)

	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	img.Set(3, 3, color.NRGBA{R: 255, A: 255})
	path := filepath.Join(t.TempDir(), "screen.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	cfg.Sampler.File = path
	screen, err = cfg.OpenScreen(imaging.NewImageCache())
	require.NoError(t, err)
	patch, err := screen.Sample(context.Background(), image.Rect(3, 3, 5, 5))
	require.NoError(t, err)
	assert.Equal(t, imaging.RGBColor{R: 255}, imaging.At(patch, 0, 0))
}

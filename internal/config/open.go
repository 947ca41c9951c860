package config

import (
	"context"
	"fmt"
	"image"
	"io"

	"github.com/ironsheep/image-pen-mcp/internal/device"
	"github.com/ironsheep/image-pen-mcp/internal/imaging"
	"github.com/ironsheep/image-pen-mcp/internal/pen"
)

// OpenDevice creates the configured pointer. The stream driver writes to
// out. The returned func releases the device's resources.
func (c *Config) OpenDevice(ctx context.Context, out io.Writer) (pen.Device, func() error, error) {
	nop := func() error { return nil }
	start := image.Pt(c.Park.X, c.Park.Y)

	switch c.Device.Driver {
	case DriverXdotool:
		d, err := device.NewXdotool(c.Device.Command, nil)
		if err != nil {
			return nil, nil, err
		}
		return d, nop, nil
	case DriverWebSocket:
		ws, err := device.DialWebSocket(ctx, c.Device.URL, start)
		if err != nil {
			return nil, nil, err
		}
		return ws, ws.Close, nil
	case DriverStream:
		return device.NewStream(out, start), nop, nil
	}
	return nil, nil, fmt.Errorf("unknown device driver: %q", c.Device.Driver)
}

// OpenScreen creates the configured screen sampler.
func (c *Config) OpenScreen(cache *imaging.ImageCache) (device.Screen, error) {
	if c.Sampler.File != "" {
		s, err := device.LoadImageSampler(cache, c.Sampler.File)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	s, err := device.NewCommandSampler(c.Sampler.Command, nil)
	if err != nil {
		return nil, err
	}
	return s, nil
}

package device

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	"github.com/ironsheep/image-pen-mcp/internal/imaging"
)

// Screen captures whole screenshots and regions of them.
type Screen interface {
	Capture(ctx context.Context) (image.Image, error)
	Sample(ctx context.Context, r image.Rectangle) (image.Image, error)
}

// CommandSampler captures the screen by running a command that writes an
// encoded image (PNG, JPEG or BMP) to stdout, e.g. "import -window root png:-"
// or "grim -".
type CommandSampler struct {
	argv []string
	run  CommandRunner
}

// NewCommandSampler parses command into a CommandSampler. A nil run uses
// ExecRunner.
func NewCommandSampler(command string, run CommandRunner) (*CommandSampler, error) {
	argv, err := ParseCommand(command)
	if err != nil {
		return nil, err
	}
	if run == nil {
		run = ExecRunner
	}
	return &CommandSampler{argv: argv, run: run}, nil
}

// Capture returns a full screenshot.
func (s *CommandSampler) Capture(ctx context.Context) (image.Image, error) {
	out, err := s.run(ctx, s.argv)
	if err != nil {
		return nil, fmt.Errorf("failed to capture screen: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("failed to decode screenshot: %w", err)
	}
	return img, nil
}

// Sample captures the screen and returns region r, anchored at (0,0).
func (s *CommandSampler) Sample(ctx context.Context, r image.Rectangle) (image.Image, error) {
	img, err := s.Capture(ctx)
	if err != nil {
		return nil, err
	}
	return imaging.CropPatch(img, r)
}

// ImageSampler serves regions of a fixed screenshot.
type ImageSampler struct {
	Image image.Image
}

// LoadImageSampler loads a screenshot file through cache.
func LoadImageSampler(cache *imaging.ImageCache, path string) (*ImageSampler, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	return &ImageSampler{Image: img}, nil
}

// Capture returns the screenshot.
func (s *ImageSampler) Capture(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Image, nil
}

// Sample returns region r of the screenshot, anchored at (0,0).
func (s *ImageSampler) Sample(ctx context.Context, r image.Rectangle) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return imaging.CropPatch(s.Image, r)
}

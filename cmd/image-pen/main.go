package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ironsheep/image-pen-mcp/internal/config"
	"github.com/ironsheep/image-pen-mcp/internal/device"
	"github.com/ironsheep/image-pen-mcp/internal/export"
	"github.com/ironsheep/image-pen-mcp/internal/imaging"
	"github.com/ironsheep/image-pen-mcp/internal/locate"
	"github.com/ironsheep/image-pen-mcp/internal/pen"
	"github.com/ironsheep/image-pen-mcp/internal/runner"
	"github.com/ironsheep/image-pen-mcp/internal/server"
	"github.com/ironsheep/image-pen-mcp/internal/vector"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// envLogLevel selects the log level (debug, info, warn, error).
const envLogLevel = "IMAGE_PEN_LOG_LEVEL"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("image-pen %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			usage(os.Stdout)
			return
		}
	}

	// Logs go to stderr; stdout carries the MCP protocol.
	logger := newLogger(os.Stderr, os.Getenv(envLogLevel))
	slog.SetDefault(logger)

	if err := run(os.Args[1:], logger); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		if errors.Is(err, pen.ErrCancelled) {
			logger.Warn("drawing cancelled")
			os.Exit(130)
		}
		logger.Error("image-pen failed", "error", err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "image-pen - trace images and draw them with the mouse pointer")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: image-pen [--config file] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve                  Run the MCP server on stdin/stdout (default)")
	fmt.Fprintln(w, "  draw <image>           Draw an image on the configured canvas")
	fmt.Fprintln(w, "  estimate <image>       Print the drawing time estimate")
	fmt.Fprintln(w, "  preview <image> <out>  Render the strokes to a .png or .pdf file")
	fmt.Fprintln(w, "  locate <text>          Find a label on screen with OCR")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --config FILE    YAML configuration (or IMAGE_PEN_CONFIG)")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  IMAGE_PEN_LOG_LEVEL=debug    Log level (debug, info, warn, error)")
	fmt.Fprintln(w, "  IMAGE_PEN_CONFIG=FILE        Configuration file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Press Ctrl+C during 'draw' to stop; the pen is always released.")
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil || level == "" {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func run(args []string, logger *slog.Logger) error {
	global := flag.NewFlagSet("image-pen", flag.ContinueOnError)
	cfgPath := global.String("config", "", "YAML configuration file")
	global.Usage = func() { usage(os.Stderr) }
	if err := global.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(config.Path(*cfgPath))
	if err != nil {
		return err
	}
	logger.Debug("configuration loaded", "path", config.Path(*cfgPath), "mode", cfg.Mode, "driver", cfg.Device.Driver)

	cmd, rest := "serve", global.Args()
	if len(rest) > 0 {
		cmd, rest = rest[0], rest[1:]
	}

	switch cmd {
	case "serve":
		return serve(cfg, logger)
	case "draw":
		return draw(cfg, rest, logger)
	case "estimate":
		return estimate(cfg, rest)
	case "preview":
		return preview(cfg, rest)
	case "locate":
		return locateText(cfg, rest)
	}
	usage(os.Stderr)
	return fmt.Errorf("unknown command: %s", cmd)
}

func serve(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Debug("image-pen MCP server", "version", Version, "built", BuildTime, "commit", GitCommit)

	cache := imaging.NewImageCache()
	opts := []server.Option{server.WithCache(cache), server.WithLogger(logger)}

	var sampler runner.Sampler
	screen, err := cfg.OpenScreen(cache)
	if err != nil {
		logger.Warn("screen sampling disabled", "error", err)
	} else {
		sampler = screen
		opts = append(opts, server.WithScreen(screen))
	}

	// The stream driver must not write to stdout while it carries the protocol.
	dev, closeDev, err := cfg.OpenDevice(ctx, os.Stderr)
	if err != nil {
		logger.Warn("drawing disabled", "error", err)
	} else {
		defer closeDev()
		r := runner.New(dev, sampler, runner.WithLogger(logger))
		opts = append(opts, server.WithRunner(r))
	}

	server.Version = Version
	srv := server.New(cfg, opts...)
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// traceFlags registers the per-command overrides of the configured mode and
// filter.
func traceFlags(fs *flag.FlagSet) (mode, filter *string) {
	mode = fs.String("mode", "", "vectorization mode: binary, edges or blocks")
	filter = fs.String("filter", "", "resampling filter: linear, nearest, lanczos or box")
	return mode, filter
}

func applyTrace(cfg *config.Config, mode, filter string) error {
	if mode != "" {
		m, err := vector.ParseMode(mode)
		if err != nil {
			return err
		}
		cfg.Mode = m
	}
	if filter != "" {
		f, err := imaging.ParseFilter(filter)
		if err != nil {
			return err
		}
		cfg.Filter = f
	}
	return nil
}

func loadJob(cfg *config.Config, path string) (*runner.Job, error) {
	img, err := imaging.NewImageCache().Load(path)
	if err != nil {
		return nil, err
	}
	return cfg.Job(img), nil
}

func draw(cfg *config.Config, args []string, logger *slog.Logger) error {
	fs := flag.NewFlagSet("draw", flag.ContinueOnError)
	mode, filter := traceFlags(fs)
	dryRun := fs.Bool("dry-run", false, "print pointer actions as JSON lines instead of moving the pointer")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: image-pen draw [options] <image>")
	}
	if err := applyTrace(cfg, *mode, *filter); err != nil {
		return err
	}
	if *dryRun {
		cfg.Device.Driver = config.DriverStream
	}

	job, err := loadJob(cfg, fs.Arg(0))
	if err != nil {
		return err
	}

	ctx := context.Background()
	dev, closeDev, err := cfg.OpenDevice(ctx, os.Stdout)
	if err != nil {
		return err
	}
	defer closeDev()

	var sampler runner.Sampler
	if job.SelectsColors() {
		screen, err := cfg.OpenScreen(imaging.NewImageCache())
		if err != nil {
			return err
		}
		sampler = screen
	}

	trigger := runner.NewSignalTrigger(os.Interrupt, syscall.SIGTERM)
	defer trigger.Stop()

	r := runner.New(dev, sampler,
		runner.WithLogger(logger),
		runner.WithTrigger(trigger, cfg.CancelPoll),
	)
	res, err := r.Run(ctx, job)
	if res != nil {
		fmt.Fprintf(os.Stderr, "%d of %d paths drawn, %d colors selected in %s (estimated %s)\n",
			res.Drawn, res.Paths, res.Colors, res.Elapsed().Round(time.Millisecond), res.Estimate)
	}
	return err
}

func estimate(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("estimate", flag.ContinueOnError)
	mode, filter := traceFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: image-pen estimate [options] <image>")
	}
	if err := applyTrace(cfg, *mode, *filter); err != nil {
		return err
	}

	job, err := loadJob(cfg, fs.Arg(0))
	if err != nil {
		return err
	}
	plan, err := runner.Prepare(job)
	if err != nil {
		return err
	}

	fmt.Println(plan.Estimate)
	fmt.Printf("  Mode:    %s\n", job.Mode)
	fmt.Printf("  Fitted:  %dx%d\n", plan.Fitted.X, plan.Fitted.Y)
	fmt.Printf("  Batches: %d\n", len(plan.Batches))
	fmt.Printf("  Paths:   %d\n", plan.Paths)
	return nil
}

func preview(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	mode, filter := traceFlags(fs)
	lineWidth := fs.Float64("line-width", 1, "PDF stroke width in points")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errors.New("usage: image-pen preview [options] <image> <out.png|out.pdf>")
	}
	if err := applyTrace(cfg, *mode, *filter); err != nil {
		return err
	}

	src, out := fs.Arg(0), fs.Arg(1)
	job, err := loadJob(cfg, src)
	if err != nil {
		return err
	}
	plan, err := runner.Prepare(job)
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer f.Close()

	w, h := plan.Fitted.X, plan.Fitted.Y
	if strings.EqualFold(filepath.Ext(out), ".pdf") {
		err = export.WritePDF(f, plan.Batches, w, h, export.PDFOptions{LineWidth: *lineWidth, Title: filepath.Base(src)})
	} else {
		err = export.WritePNG(f, plan.Batches, w, h)
	}
	if err != nil {
		return err
	}
	return f.Close()
}

func locateText(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("locate", flag.ContinueOnError)
	shot := fs.String("screenshot", "", "search this image instead of capturing the screen")
	upscale := fs.Int("upscale", 2, "enlarge the image before OCR")
	minConf := fs.Float64("min-confidence", 0.5, "minimum word confidence (0-1)")
	lang := fs.String("lang", "eng", "Tesseract language")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("usage: image-pen locate [options] <text>")
	}

	cache := imaging.NewImageCache()
	var screen device.Screen
	if *shot != "" {
		s, err := device.LoadImageSampler(cache, *shot)
		if err != nil {
			return err
		}
		screen = s
	} else {
		s, err := cfg.OpenScreen(cache)
		if err != nil {
			return err
		}
		screen = s
	}

	img, err := screen.Capture(context.Background())
	if err != nil {
		return err
	}
	matches, err := locate.Find(img, locate.Tesseract{Language: *lang}, strings.Join(fs.Args(), " "), locate.Options{
		Upscale:       *upscale,
		MinConfidence: *minConf,
	})
	if err != nil {
		return err
	}
	for _, m := range matches {
		fmt.Printf("%q at %v center (%d,%d) confidence %.2f\n", m.Text, m.Region, m.Center.X, m.Center.Y, m.Confidence)
	}
	return nil
}

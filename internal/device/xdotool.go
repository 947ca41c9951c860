package device

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-shellwords"
)

// CommandRunner executes argv and returns its standard output.
type CommandRunner func(ctx context.Context, argv []string) ([]byte, error)

// ExecRunner runs argv with os/exec.
func ExecRunner(ctx context.Context, argv []string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", argv[0], err, msg)
		}
		return nil, fmt.Errorf("%s: %w", argv[0], err)
	}
	return out, nil
}

// ParseCommand splits a shell-style command line into argv.
func ParseCommand(line string) ([]string, error) {
	argv, err := shellwords.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("failed to parse command %q: %w", line, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("command %q is empty", line)
	}
	return argv, nil
}

// Xdotool drives the X11 pointer through the xdotool command.
type Xdotool struct {
	base    []string
	run     CommandRunner
	timeout time.Duration
}

// NewXdotool creates an Xdotool adapter. command is the xdotool invocation,
// e.g. "xdotool" or "env DISPLAY=:1 xdotool". A nil run uses ExecRunner.
func NewXdotool(command string, run CommandRunner) (*Xdotool, error) {
	if command == "" {
		command = "xdotool"
	}
	base, err := ParseCommand(command)
	if err != nil {
		return nil, err
	}
	if run == nil {
		run = ExecRunner
	}
	return &Xdotool{base: base, run: run, timeout: 5 * time.Second}, nil
}

func (x *Xdotool) exec(args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), x.timeout)
	defer cancel()

	argv := make([]string, 0, len(x.base)+len(args))
	argv = append(argv, x.base...)
	argv = append(argv, args...)
	return x.run(ctx, argv)
}

// Move implements pen.Device.
func (x *Xdotool) Move(px, py int) error {
	_, err := x.exec("mousemove", strconv.Itoa(px), strconv.Itoa(py))
	return err
}

// Press implements pen.Device.
func (x *Xdotool) Press() error {
	_, err := x.exec("mousedown", "1")
	return err
}

// Release implements pen.Device.
func (x *Xdotool) Release() error {
	_, err := x.exec("mouseup", "1")
	return err
}

// Position implements pen.Device using "getmouselocation --shell".
func (x *Xdotool) Position() (image.Point, error) {
	out, err := x.exec("getmouselocation", "--shell")
	if err != nil {
		return image.Point{}, err
	}
	return parseMouseLocation(out)
}

// parseMouseLocation reads the X= and Y= lines of xdotool's shell output.
func parseMouseLocation(out []byte) (image.Point, error) {
	var pt image.Point
	var haveX, haveY bool

	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		key, val, ok := strings.Cut(strings.TrimSpace(sc.Text()), "=")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(val)
		switch key {
		case "X":
			if err != nil {
				return image.Point{}, fmt.Errorf("invalid X in mouse location: %q", val)
			}
			pt.X, haveX = n, true
		case "Y":
			if err != nil {
				return image.Point{}, fmt.Errorf("invalid Y in mouse location: %q", val)
			}
			pt.Y, haveY = n, true
		}
	}
	if !haveX || !haveY {
		return image.Point{}, fmt.Errorf("mouse location missing coordinates: %q", strings.TrimSpace(string(out)))
	}
	return pt, nil
}

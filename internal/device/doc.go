// Package device provides the pointer and screen adapters the pen and runner
// drive.
//
// Pointers:
//   - Xdotool injects real X11 input through the xdotool command.
//   - WebSocket forwards actions to a remote injector as JSON messages.
//   - Stream writes actions as JSON lines, for dry runs.
//   - Recorder keeps actions in memory, for tests.
//
// Screens:
//   - CommandSampler captures the screen with an external command that
//     writes an image to stdout.
//   - ImageSampler serves a fixed screenshot.
package device

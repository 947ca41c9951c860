// Package server implements the MCP (Model Context Protocol) server that
// lets an assistant trace images and draw them with the pointer.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Source images:
//   - pen_image_info: Dimensions and fitted canvas size
//   - pen_vectorize: Strokes per color batch plus a duration estimate
//   - pen_preview: Render the strokes as a PNG
//   - pen_export_pdf: Write the strokes to a PDF
//
// Screen:
//   - pen_match_color: Closest color in a picker region
//   - pen_locate_text: Find a UI label with OCR
//
// Drawing:
//   - pen_draw: Start a background run
//   - pen_cancel: Stop the active run
//   - pen_status: Progress and the last result
//
// Only one run is active at a time; pen_draw fails while another is in
// flight.
//
// # Error Handling
//
// Undecodable or invalid arguments return code -32602. Every other tool
// failure returns -32000 with the Go error string as data.
//
// # Usage
//
//	srv := server.New(cfg, server.WithRunner(r), server.WithScreen(screen))
//	if err := srv.Run(ctx); err != nil {
//	    slog.Error("server error", "error", err)
//	}
package server

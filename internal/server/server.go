package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ironsheep/image-pen-mcp/internal/config"
	"github.com/ironsheep/image-pen-mcp/internal/device"
	"github.com/ironsheep/image-pen-mcp/internal/imaging"
	"github.com/ironsheep/image-pen-mcp/internal/locate"
	"github.com/ironsheep/image-pen-mcp/internal/runner"
)

// Name and Version identify the server in the initialize handshake.
const Name = "image-pen-mcp"

var Version = "0.1.0"

// Server handles MCP protocol communication
type Server struct {
	cfg    *config.Config
	cache  *imaging.ImageCache
	runner *runner.Runner
	screen device.Screen
	ocr    locate.Recognizer
	log    *slog.Logger

	in  io.Reader
	out io.Writer
	ctx context.Context
}

// Option configures a Server.
type Option func(*Server)

// WithRunner lets the server draw. Without one pen_draw, pen_cancel and
// pen_status report that no device is configured.
func WithRunner(r *runner.Runner) Option {
	return func(s *Server) { s.runner = r }
}

// WithScreen sets the screen used by pen_match_color and pen_locate_text.
func WithScreen(sc device.Screen) Option {
	return func(s *Server) { s.screen = sc }
}

// WithRecognizer replaces the Tesseract recognizer.
func WithRecognizer(rec locate.Recognizer) Option {
	return func(s *Server) { s.ocr = rec }
}

// WithCache shares an image cache with the caller.
func WithCache(c *imaging.ImageCache) Option {
	return func(s *Server) { s.cache = c }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithIO replaces stdin and stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(s *Server) { s.in, s.out = in, out }
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// MCPNotification represents an outgoing notification (no ID)
type MCPNotification struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// New creates a new MCP server instance. A nil cfg uses config.Default().
func New(cfg *config.Config, opts ...Option) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Server{
		cfg:   cfg,
		cache: imaging.NewImageCache(),
		ocr:   locate.Tesseract{},
		log:   slog.Default(),
		in:    os.Stdin,
		out:   os.Stdout,
		ctx:   context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run serves requests until the input ends or ctx is done. Drawing runs
// started through pen_draw are tied to ctx.
func (s *Server) Run(ctx context.Context) error {
	s.ctx = ctx

	scanner := bufio.NewScanner(s.in)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(s.out)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.Warn("failed to parse request", "error", err)
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.log.Error("failed to encode response", "error", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	s.log.Debug("request", "method", req.Method, "id", req.ID)

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    Name,
				"version": Version,
			},
		},
	}
}

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/ironsheep/image-pen-mcp/internal/config"
	"github.com/ironsheep/image-pen-mcp/internal/export"
	"github.com/ironsheep/image-pen-mcp/internal/imaging"
	"github.com/ironsheep/image-pen-mcp/internal/locate"
	"github.com/ironsheep/image-pen-mcp/internal/match"
	"github.com/ironsheep/image-pen-mcp/internal/pen"
	"github.com/ironsheep/image-pen-mcp/internal/runner"
	"github.com/ironsheep/image-pen-mcp/internal/vector"
)

// errInvalidParams marks arguments that could not be decoded.
var errInvalidParams = errors.New("invalid params")

var (
	errNoRunner = errors.New("no pen device configured")
	errNoScreen = errors.New("no screen sampler configured")
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "pen_vectorize", "pen_draw").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Undecodable arguments return -32602; any other tool failure returns -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warn("tool failed", "tool", params.Name, "error", err)
		if errors.Is(err, errInvalidParams) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "pen_image_info":
		return s.handleImageInfo(args)
	case "pen_vectorize":
		return s.handleVectorize(args)
	case "pen_preview":
		return s.handlePreview(args)
	case "pen_export_pdf":
		return s.handleExportPDF(args)

	case "pen_match_color":
		return s.handleMatchColor(args)
	case "pen_locate_text":
		return s.handleLocateText(args)

	case "pen_draw":
		return s.handleDraw(args)
	case "pen_cancel":
		return s.handleCancel()
	case "pen_status":
		return s.handleStatus()

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments. Missing arguments decode as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidParams, err)
	}
	return nil
}

// === Source Image Handlers ===

type imageInfoArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a imageInfoArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("%w: path is required", errInvalidParams)
	}
	return imaging.LoadImageInfo(s.cache, a.Path, s.cfg.Canvas.Width, s.cfg.Canvas.Height)
}

// traceArgs are the arguments shared by every vectorizing tool.
type traceArgs struct {
	Path   string         `json:"path"`
	Mode   string         `json:"mode"`
	Filter string         `json:"filter"`
	Canvas *config.Region `json:"canvas"`
}

// job builds a runner job from the configuration and the overrides in a.
func (s *Server) job(a traceArgs) (*runner.Job, error) {
	if a.Path == "" {
		return nil, fmt.Errorf("%w: path is required", errInvalidParams)
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	job := s.cfg.Job(img)
	if a.Mode != "" {
		if job.Mode, err = vector.ParseMode(a.Mode); err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidParams, err)
		}
	}
	if a.Filter != "" {
		if job.Filter, err = imaging.ParseFilter(a.Filter); err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidParams, err)
		}
	}
	if a.Canvas != nil {
		if !a.Canvas.IsSet() {
			return nil, fmt.Errorf("%w: canvas must have a positive width and height", imaging.ErrInvalidRegion)
		}
		job.Canvas = a.Canvas.Rect()
	}
	return job, nil
}

func (s *Server) plan(a traceArgs) (*runner.Job, *runner.Plan, error) {
	job, err := s.job(a)
	if err != nil {
		return nil, nil, err
	}
	plan, err := runner.Prepare(job)
	if err != nil {
		return nil, nil, err
	}
	return job, plan, nil
}

type vectorizeArgs struct {
	traceArgs
	IncludePaths bool `json:"include_paths"`
}

// BatchSummary describes one color batch.
type BatchSummary struct {
	Color string        `json:"color"`
	Paths int           `json:"paths"`
	Span  float64       `json:"span"`
	Lines []vector.Path `json:"lines,omitempty"`
}

// VectorizeResult is the result of pen_vectorize.
type VectorizeResult struct {
	Mode         string          `json:"mode"`
	FittedWidth  int             `json:"fitted_width"`
	FittedHeight int             `json:"fitted_height"`
	Paths        int             `json:"paths"`
	Estimate     string          `json:"estimate"`
	Detail       vector.Estimate `json:"estimate_detail"`
	Batches      []BatchSummary  `json:"batches"`
}

func (s *Server) handleVectorize(args json.RawMessage) (interface{}, error) {
	var a vectorizeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	job, plan, err := s.plan(a.traceArgs)
	if err != nil {
		return nil, err
	}

	res := &VectorizeResult{
		Mode:         job.Mode.String(),
		FittedWidth:  plan.Fitted.X,
		FittedHeight: plan.Fitted.Y,
		Paths:        plan.Paths,
		Estimate:     plan.Estimate.String(),
		Detail:       plan.Estimate,
		Batches:      make([]BatchSummary, 0, len(plan.Batches)),
	}
	for _, b := range plan.Batches {
		sum := BatchSummary{Color: b.Label(), Paths: len(b.Paths)}
		for _, p := range b.Paths {
			sum.Span += p.Span()
		}
		if a.IncludePaths {
			sum.Lines = b.Paths
		}
		res.Batches = append(res.Batches, sum)
	}
	return res, nil
}

type previewArgs struct {
	traceArgs
	Scale int `json:"scale"`
}

func (s *Server) handlePreview(args json.RawMessage) (interface{}, error) {
	var a previewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1
	}
	_, plan, err := s.plan(a.traceArgs)
	if err != nil {
		return nil, err
	}
	return export.Preview(plan.Batches, plan.Fitted.X, plan.Fitted.Y, a.Scale)
}

type exportPDFArgs struct {
	traceArgs
	Output    string  `json:"output"`
	LineWidth float64 `json:"line_width"`
}

// ExportResult is the result of pen_export_pdf.
type ExportResult struct {
	Output string `json:"output"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Paths  int    `json:"paths"`
}

func (s *Server) handleExportPDF(args json.RawMessage) (interface{}, error) {
	var a exportPDFArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Output == "" {
		return nil, fmt.Errorf("%w: output is required", errInvalidParams)
	}
	_, plan, err := s.plan(a.traceArgs)
	if err != nil {
		return nil, err
	}

	f, err := os.Create(a.Output)
	if err != nil {
		return nil, fmt.Errorf("failed to create output: %w", err)
	}
	opts := export.PDFOptions{LineWidth: a.LineWidth, Title: filepath.Base(a.Path)}
	if err := export.WritePDF(f, plan.Batches, plan.Fitted.X, plan.Fitted.Y, opts); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to write output: %w", err)
	}

	return &ExportResult{
		Output: a.Output,
		Width:  plan.Fitted.X,
		Height: plan.Fitted.Y,
		Paths:  plan.Paths,
	}, nil
}

// === Screen Handlers ===

type matchColorArgs struct {
	Color  string         `json:"color"`
	Region *config.Region `json:"region"`
	Metric string         `json:"metric"`
}

// MatchColorResult is the result of pen_match_color.
type MatchColorResult struct {
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Color    string  `json:"color"`
	Distance float64 `json:"distance"`
	Metric   string  `json:"metric"`
}

func (s *Server) handleMatchColor(args json.RawMessage) (interface{}, error) {
	var a matchColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	target, err := imaging.ParseHex(a.Color)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidParams, err)
	}
	metric := s.cfg.MatchMetric
	if a.Metric != "" {
		if metric, err = match.ParseMetric(a.Metric); err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidParams, err)
		}
	}
	region := s.cfg.Picker
	if a.Region != nil {
		region = *a.Region
	}
	if !region.IsSet() {
		return nil, fmt.Errorf("%w: no region given and no picker configured", imaging.ErrInvalidRegion)
	}
	if s.screen == nil {
		return nil, errNoScreen
	}

	r := region.Rect()
	patch, err := s.screen.Sample(s.ctx, r)
	if err != nil {
		return nil, err
	}
	res, err := match.FindBestMatchFunc(target, patch, metric)
	if err != nil {
		return nil, err
	}

	at := r.Min.Add(res.Point)
	return &MatchColorResult{
		X:        at.X,
		Y:        at.Y,
		Color:    res.Color.Hex(),
		Distance: res.Distance,
		Metric:   string(metric),
	}, nil
}

type locateTextArgs struct {
	Text          string         `json:"text"`
	Path          string         `json:"path"`
	Region        *config.Region `json:"region"`
	Upscale       int            `json:"upscale"`
	MinConfidence *float64       `json:"min_confidence"`
}

// LocateResult is the result of pen_locate_text.
type LocateResult struct {
	Best    locate.Match   `json:"best"`
	Matches []locate.Match `json:"matches"`
}

func (s *Server) handleLocateText(args json.RawMessage) (interface{}, error) {
	var a locateTextArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Text == "" {
		return nil, fmt.Errorf("%w: text is required", errInvalidParams)
	}

	opts := locate.Options{Upscale: 2, MinConfidence: 0.5}
	if a.Upscale > 0 {
		opts.Upscale = a.Upscale
	}
	if a.MinConfidence != nil {
		opts.MinConfidence = *a.MinConfidence
	}
	if a.Region != nil {
		opts.Within = a.Region.Rect()
	}

	var (
		img image.Image
		err error
	)
	switch {
	case a.Path != "":
		img, err = s.cache.Load(a.Path)
	case s.screen != nil:
		img, err = s.screen.Capture(s.ctx)
	default:
		err = errNoScreen
	}
	if err != nil {
		return nil, err
	}

	matches, err := locate.Find(img, s.ocr, a.Text, opts)
	if err != nil {
		return nil, err
	}
	return &LocateResult{Best: matches[0], Matches: matches}, nil
}

// === Drawing Handlers ===

type drawArgs struct {
	traceArgs
	Speed *pen.Speed `json:"speed"`
}

// DrawResult is the result of pen_draw.
type DrawResult struct {
	RunID    string `json:"run_id"`
	Estimate string `json:"estimate"`
	Paths    int    `json:"paths"`
}

func (s *Server) handleDraw(args json.RawMessage) (interface{}, error) {
	var a drawArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if s.runner == nil {
		return nil, errNoRunner
	}
	job, err := s.job(a.traceArgs)
	if err != nil {
		return nil, err
	}
	if a.Speed != nil {
		if a.Speed.StepSize > 0 {
			job.Speed.StepSize = a.Speed.StepSize
		}
		if a.Speed.SleepInterval > 0 {
			job.Speed.SleepInterval = a.Speed.SleepInterval
		}
	}

	id, err := s.runner.Start(s.ctx, job, nil)
	if err != nil {
		return nil, err
	}
	st := s.runner.Status()
	return &DrawResult{RunID: id, Estimate: st.Estimate, Paths: st.Paths}, nil
}

func (s *Server) handleCancel() (interface{}, error) {
	if s.runner == nil {
		return nil, errNoRunner
	}
	return map[string]bool{"cancelled": s.runner.Cancel()}, nil
}

func (s *Server) handleStatus() (interface{}, error) {
	if s.runner == nil {
		return nil, errNoRunner
	}
	return s.runner.Status(), nil
}

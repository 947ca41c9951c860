package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// regionSchema describes a screen rectangle argument.
func regionSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": description,
		"properties": map[string]interface{}{
			"x":      map[string]interface{}{"type": "integer"},
			"y":      map[string]interface{}{"type": "integer"},
			"width":  map[string]interface{}{"type": "integer"},
			"height": map[string]interface{}{"type": "integer"},
		},
		"required": []string{"x", "y", "width", "height"},
	}
}

// traceProperties are shared by every tool that vectorizes an image.
func traceProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the source image",
		},
		"mode": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"binary", "edges", "blocks"},
			"description": "Vectorization mode. Defaults to the configured mode",
		},
		"filter": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"linear", "nearest", "lanczos", "box"},
			"description": "Resampling filter used to fit the image. Defaults to the configured filter",
		},
		"canvas": regionSchema("Canvas override in screen coordinates. Defaults to the configured canvas"),
	}
}

func withProperties(base map[string]interface{}, extra map[string]interface{}) map[string]interface{} {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Source images
		{
			Name:        "pen_image_info",
			Description: "Load an image file and report its dimensions and the size it will have once fitted into the drawing canvas.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "pen_vectorize",
			Description: "Fit an image into the canvas and convert it to horizontal pen strokes grouped by color. Returns the batches and a duration estimate without touching the pointer.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(traceProperties(), map[string]interface{}{
					"include_paths": map[string]interface{}{
						"type":        "boolean",
						"description": "Include every stroke's endpoints in the result. Default false",
						"default":     false,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "pen_preview",
			Description: "Render the strokes an image would produce as a base64-encoded PNG, so the result can be checked before drawing.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(traceProperties(), map[string]interface{}{
					"scale": map[string]interface{}{
						"type":        "integer",
						"description": "Integer enlargement factor (1-8). Default 1",
						"default":     1,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "pen_export_pdf",
			Description: "Write the strokes an image would produce to a single-page PDF.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(traceProperties(), map[string]interface{}{
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path of the PDF to write",
					},
					"line_width": map[string]interface{}{
						"type":        "number",
						"description": "Stroke width in points. Default 1.0",
						"default":     1.0,
					},
				}),
				"required": []string{"path", "output"},
			},
		},

		// Screen
		{
			Name:        "pen_match_color",
			Description: "Sample a screen region and return the position of the pixel closest to a target color. Only every 4th pixel in each direction is compared.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Target color as #rrggbb",
					},
					"region": regionSchema("Screen region to search. Defaults to the configured color picker"),
					"metric": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"rgb", "lab"},
						"description": "Color distance. Defaults to the configured metric",
					},
				},
				"required": []string{"color"},
			},
		},
		{
			Name:        "pen_locate_text",
			Description: "Find a text label on screen (or in a screenshot file) with OCR and return its bounding box and center, e.g. to locate the color button.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text": map[string]interface{}{
						"type":        "string",
						"description": "Label to find; consecutive words on one line may match",
					},
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Optional screenshot file. Defaults to a live screen capture",
					},
					"region": regionSchema("Optional area to search"),
					"upscale": map[string]interface{}{
						"type":        "integer",
						"description": "Enlarge the area before OCR. Default 2",
						"default":     2,
					},
					"min_confidence": map[string]interface{}{
						"type":        "number",
						"description": "Minimum word confidence (0.0-1.0). Default 0.5",
						"default":     0.5,
					},
				},
				"required": []string{"text"},
			},
		},

		// Drawing
		{
			Name:        "pen_draw",
			Description: "Start drawing an image on the configured canvas in the background. Returns the run ID and estimate; poll pen_status for progress.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(traceProperties(), map[string]interface{}{
					"speed": map[string]interface{}{
						"type":        "object",
						"description": "Pen speed override",
						"properties": map[string]interface{}{
							"step_size":      map[string]interface{}{"type": "number"},
							"sleep_interval": map[string]interface{}{"type": "integer"},
						},
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "pen_cancel",
			Description: "Cancel the active drawing run. The pen is always released.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "pen_status",
			Description: "Report whether a run is active, its progress and the result of the last run.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}

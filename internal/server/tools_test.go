package server

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"pen_image_info",
		"pen_vectorize",
		"pen_preview",
		"pen_export_pdf",
		"pen_match_color",
		"pen_locate_text",
		"pen_draw",
		"pen_cancel",
		"pen_status",
	}

	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("duplicate tool %s", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want object", tool.InputSchema["type"])
			}
			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema has no properties map")
			}

			required, _ := tool.InputSchema["required"].([]string)
			for _, name := range required {
				if _, ok := props[name]; !ok {
					t.Errorf("required property %s is not declared", name)
				}
			}
		})
	}
}

func TestToolDefinitions_TraceArguments(t *testing.T) {
	tracing := map[string]bool{
		"pen_vectorize":  true,
		"pen_preview":    true,
		"pen_export_pdf": true,
		"pen_draw":       true,
	}

	for _, tool := range GetToolDefinitions() {
		if !tracing[tool.Name] {
			continue
		}
		props := tool.InputSchema["properties"].(map[string]interface{})
		for _, name := range []string{"path", "mode", "filter", "canvas"} {
			if _, ok := props[name]; !ok {
				t.Errorf("%s: missing %s", tool.Name, name)
			}
		}

		mode := props["mode"].(map[string]interface{})
		enum := mode["enum"].([]string)
		if len(enum) != 3 {
			t.Errorf("%s: mode enum got %v", tool.Name, enum)
		}
	}
}

func TestHandleToolsList(t *testing.T) {
	s := newTestServer()
	resp := s.handleToolsList(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/list"})

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	result := resp.Result.(map[string]interface{})
	tools, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatalf("tools: got %T", result["tools"])
	}
	if len(tools) != len(GetToolDefinitions()) {
		t.Errorf("got %d tools", len(tools))
	}
}

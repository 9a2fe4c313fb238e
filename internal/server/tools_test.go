package server

import (
	"encoding/json"
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"fracture_load",
		"fracture_summary",
		"fracture_geometry",
		"fracture_rose",
		"fracture_render_map",
		"fracture_render_rose",
		"fracture_stress",
		"fracture_detect",
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
	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}
			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok || len(props) == 0 {
				t.Fatal("InputSchema properties missing")
			}
			for name, p := range props {
				prop, ok := p.(map[string]interface{})
				if !ok {
					t.Errorf("property %s is not an object", name)
					continue
				}
				if _, ok := prop["type"]; !ok {
					t.Errorf("property %s has no type", name)
				}
			}

			// The schema must survive the wire.
			if _, err := json.Marshal(tool); err != nil {
				t.Errorf("tool does not marshal: %v", err)
			}
		})
	}
}

func TestToolDefinitions_MapInput(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		if tool.Name == "fracture_detect" {
			required, ok := tool.InputSchema["required"].([]string)
			if !ok || len(required) != 1 || required[0] != "path" {
				t.Errorf("fracture_detect should require path, got %v", tool.InputSchema["required"])
			}
			continue
		}

		props := tool.InputSchema["properties"].(map[string]interface{})
		for _, key := range []string{"path", "segments", "polylines", "lenient"} {
			if _, ok := props[key]; !ok {
				t.Errorf("%s: missing map input property %s", tool.Name, key)
			}
		}
		if _, ok := tool.InputSchema["required"]; ok {
			t.Errorf("%s: path and segments are alternatives, neither is required", tool.Name)
		}
	}
}

package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// mapInputProperties are the schema properties selecting a trace map.
func mapInputProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Path to a trace file: one segment 'x1 y1 x2 y2' per line (or a polyline with 'polylines'). '#' starts a comment.",
		},
		"segments": map[string]interface{}{
			"type":        "array",
			"description": "Inline segments as [x1, y1, x2, y2] rows, used instead of path",
			"items": map[string]interface{}{
				"type":     "array",
				"items":    map[string]interface{}{"type": "number"},
				"minItems": 4,
			},
		},
		"name": map[string]interface{}{
			"type":        "string",
			"description": "Optional name for the trace map",
		},
		"polylines": map[string]interface{}{
			"type":        "boolean",
			"description": "Treat each line as a polyline trace 'x1 y1 x2 y2 ... xn yn'. Default false",
			"default":     false,
		},
		"lenient": map[string]interface{}{
			"type":        "boolean",
			"description": "Skip malformed lines and report them as warnings instead of failing. Default false",
			"default":     false,
		},
	}
}

// analysisProperties are the engine settings shared by analysis tools.
func analysisProperties() map[string]interface{} {
	return map[string]interface{}{
		"bins": map[string]interface{}{
			"type":        "integer",
			"description": "Number of rose histogram bins over 0-180 degrees. Default 18 (10 degree bins)",
			"default":     18,
			"minimum":     1,
		},
		"weighted": map[string]interface{}{
			"type":        "boolean",
			"description": "Weight histogram bins by segment length (true) or count segments (false). Default true",
			"default":     true,
		},
		"reference": referenceProperty(),
	}
}

func referenceProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"x", "north"},
		"description": "Angle reference: 'x' measures counter-clockwise from the +X axis, 'north' clockwise from +Y (azimuth). Default 'x'",
		"default":     "x",
	}
}

func renderProperties() map[string]interface{} {
	return map[string]interface{}{
		"output_path": map[string]interface{}{
			"type":        "string",
			"description": "Write the image here (format from extension) instead of returning base64",
		},
		"format": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"png", "jpeg", "svg", "gif", "tiff", "bmp"},
			"description": "Image format when returning base64. Default png",
			"default":     "png",
		},
	}
}

// schema builds an object schema from property sets, later sets winning.
func schema(required []string, sets ...map[string]interface{}) map[string]interface{} {
	props := make(map[string]interface{})
	for _, set := range sets {
		for k, v := range set {
			props[k] = v
		}
	}
	s := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "fracture_load",
			Description: "Load a trace map and report its segment, trace and node counts and coordinate limits. Use lenient to see which lines would be skipped.",
			InputSchema: schema(nil, mapInputProperties()),
		},
		{
			Name:        "fracture_summary",
			Description: "Summarise a trace map: segment count, degenerate count, total and mean length, length distribution, circular mean orientation with resultant length, node counts and the rose histogram.",
			InputSchema: schema(nil, mapInputProperties(), analysisProperties()),
		},
		{
			Name:        "fracture_geometry",
			Description: "Per-segment length and axial orientation in [0, 180) degrees. Degenerate (zero-length) segments have a null orientation.",
			InputSchema: schema(nil, mapInputProperties(), map[string]interface{}{
				"reference": referenceProperty(),
			}),
		},
		{
			Name:        "fracture_rose",
			Description: "Bin segment orientations into a rose histogram over [0, 180) degrees, length-weighted by default. Returns bin values, centres and fractions.",
			InputSchema: schema(nil, mapInputProperties(), analysisProperties()),
		},
		{
			Name:        "fracture_render_map",
			Description: "Draw the trace map at equal aspect ratio with axes. Optionally overlay nodes (endpoints, segment and trace midpoints) and colour segments by orientation.",
			InputSchema: schema(nil, mapInputProperties(), renderProperties(), map[string]interface{}{
				"width": map[string]interface{}{
					"type":        "integer",
					"description": "Image width in pixels. Default 800",
					"default":     800,
				},
				"height": map[string]interface{}{
					"type":        "integer",
					"description": "Image height in pixels. Default 800",
					"default":     800,
				},
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Plot title. Defaults to the map name",
				},
				"show_nodes": map[string]interface{}{
					"type":        "boolean",
					"description": "Overlay node markers. Default false",
					"default":     false,
				},
				"color_by_orientation": map[string]interface{}{
					"type":        "boolean",
					"description": "Colour each segment by its orientation. Default false",
					"default":     false,
				},
				"reference": referenceProperty(),
				"flip_x": map[string]interface{}{
					"type":        "boolean",
					"description": "Reverse the X axis. Default false",
					"default":     false,
				},
				"flip_y": map[string]interface{}{
					"type":        "boolean",
					"description": "Reverse the Y axis (Y down, as in image coordinates). Default false",
					"default":     false,
				},
				"trace_color": map[string]interface{}{
					"type":        "string",
					"description": "Segment colour as #RRGGBB",
				},
			}),
		},
		{
			Name:        "fracture_render_rose",
			Description: "Draw the rose diagram of segment orientations, each bin mirrored onto the opposite direction. 0 degrees is East (or North with reference 'north'), increasing clockwise.",
			InputSchema: schema(nil, mapInputProperties(), analysisProperties(), renderProperties(), map[string]interface{}{
				"size": map[string]interface{}{
					"type":        "integer",
					"description": "Image width and height in pixels. Default 600",
					"default":     600,
				},
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Plot title",
				},
				"equal_area": map[string]interface{}{
					"type":        "boolean",
					"description": "Scale bar radius by the square root of the bin value. Default false",
					"default":     false,
				},
				"fill_color": map[string]interface{}{
					"type":        "string",
					"description": "Bar colour as #RRGGBB",
				},
			}),
		},
		{
			Name:        "fracture_stress",
			Description: "Resolve a 2-D far-field stress state onto every segment: normal and shear stress, normalised slip tendency, dilation tendency, fracture susceptibility (the pore-pressure rise to failure, MPa) and whether the segment is critically stressed under Coulomb friction. Optionally plot one measure on the trace map, or the Mohr diagram.",
			InputSchema: schema(nil, mapInputProperties(), renderProperties(), map[string]interface{}{
				"sigma1": map[string]interface{}{
					"type":        "number",
					"description": "Maximum principal stress in MPa, compressive positive. Default 100",
					"default":     100,
				},
				"sigma2": map[string]interface{}{
					"type":        "number",
					"description": "Minimum principal stress in MPa, not above sigma1. Default 50",
					"default":     50,
				},
				"sigma1_azimuth": map[string]interface{}{
					"type":        "number",
					"description": "Direction of sigma1 in degrees clockwise from +Y. Default 0",
					"default":     0,
				},
				"friction": map[string]interface{}{
					"type":        "number",
					"description": "Coefficient of sliding friction, greater than 0. Default 0.6",
					"default":     0.6,
				},
				"cohesion": map[string]interface{}{
					"type":        "number",
					"description": "Cohesion C0 in MPa. Default 0",
					"default":     0,
				},
				"pore_pressure": map[string]interface{}{
					"type":        "number",
					"description": "Pore fluid pressure in MPa. Default 0",
					"default":     0,
				},
				"flip_x": map[string]interface{}{
					"type":        "boolean",
					"description": "Mirror azimuths and the plot as for a reversed X axis. Default false",
					"default":     false,
				},
				"flip_y": map[string]interface{}{
					"type":        "boolean",
					"description": "Mirror azimuths and the plot as for a reversed Y axis (image coordinates). Default false",
					"default":     false,
				},
				"plot": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"slip", "dilation", "susceptibility", "csf", "mohr"},
					"description": "Also render this measure as a colour-coded trace map, or the Mohr diagram",
				},
				"size": map[string]interface{}{
					"type":        "integer",
					"description": "Plot width and height in pixels. Default 800 for maps, 600 for the Mohr diagram",
				},
			}),
		},
		{
			Name:        "fracture_detect",
			Description: "Digitise straight fracture traces from an image of dark lines on a light background. Returns segments in pixel coordinates (Y down) and optionally writes them as a trace file.",
			InputSchema: schema([]string{"path"}, map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the image file",
				},
				"ink_level": map[string]interface{}{
					"type":        "integer",
					"description": "Gray level (1-255) below which pixels count as ink. Default 128",
					"default":     128,
				},
				"blur_radius": map[string]interface{}{
					"type":        "number",
					"description": "Gaussian blur radius before thresholding. Default 0 (off)",
					"default":     0,
				},
				"min_length": map[string]interface{}{
					"type":        "number",
					"description": "Shortest segment kept, in pixels. Default 20",
					"default":     20,
				},
				"max_lines": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of segments. Default 100",
					"default":     100,
				},
				"output_path": map[string]interface{}{
					"type":        "string",
					"description": "Write the detected segments to this trace file",
				},
			}),
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

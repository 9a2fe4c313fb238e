// Package server implements the MCP (Model Context Protocol) server for
// fracture trace analysis.
//
// The server exposes the analysis engine, the plotters and image
// digitisation as tools, so that an MCP client can load a fracture map,
// inspect its statistics and look at its rose diagram without leaving the
// conversation.
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
// Trace map input (all analysis and rendering tools):
//   - path: a trace file, or
//   - segments: inline [x1, y1, x2, y2] rows
//
// Analysis:
//   - fracture_load: Load a map and report counts and limits
//   - fracture_summary: Full statistics report
//   - fracture_geometry: Per-segment length and orientation
//   - fracture_rose: Rose histogram values
//   - fracture_stress: Slip and dilation tendency, susceptibility and
//     critically stressed segments under a 2-D stress state, with an
//     optional colour-coded map or Mohr diagram
//
// Rendering:
//   - fracture_render_map: Trace map image
//   - fracture_render_rose: Rose diagram image
//
// Rendered images are written to output_path when given, otherwise returned
// as base64 in the result.
//
// Digitisation:
//   - fracture_detect: Extract segments from a trace image
//
// # Image Caching
//
// Images passed to fracture_detect are cached by path for the lifetime of
// the server process, so repeated detection with different thresholds does
// not reload the file.
//
// # Error Handling
//
// Errors are returned as JSON-RPC error responses with:
//   - code: -32602 for invalid arguments (unknown reference, non-positive
//     bins, unknown format, malformed inline segments), -32000 for other
//     tool failures such as unreadable files, -32601 for unknown methods
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server

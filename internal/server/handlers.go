package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ironsheep/fracpaq-go/internal/analysis"
	"github.com/ironsheep/fracpaq-go/internal/detection"
	"github.com/ironsheep/fracpaq-go/internal/fracture"
	"github.com/ironsheep/fracpaq-go/internal/imaging"
	"github.com/ironsheep/fracpaq-go/internal/render"
	"github.com/ironsheep/fracpaq-go/internal/report"
	"github.com/ironsheep/fracpaq-go/internal/traceio"
)

// errInvalidArguments marks tool argument problems, reported as -32602.
var errInvalidArguments = errors.New("invalid arguments")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "fracture_summary").
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
// Argument errors return code -32602; other tool failures return -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if isArgumentError(err) {
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
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

func isArgumentError(err error) bool {
	return errors.Is(err, errInvalidArguments) ||
		errors.Is(err, analysis.ErrInvalidParameter) ||
		errors.Is(err, render.ErrUnknownFormat)
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "fracture_load":
		return s.handleFractureLoad(args)
	case "fracture_summary":
		return s.handleFractureSummary(args)
	case "fracture_geometry":
		return s.handleFractureGeometry(args)
	case "fracture_rose":
		return s.handleFractureRose(args)
	case "fracture_render_map":
		return s.handleFractureRenderMap(args)
	case "fracture_render_rose":
		return s.handleFractureRenderRose(args)
	case "fracture_stress":
		return s.handleFractureStress(args)
	case "fracture_detect":
		return s.handleFractureDetect(args)
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
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("Failed to marshal result: %v", err)
	}
	return string(b)
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArguments, err)
	}
	return nil
}

// === Trace map input ===

// mapArgs selects the trace map a tool works on: a file, or inline rows.
type mapArgs struct {
	Path      string      `json:"path"`
	Segments  [][]float64 `json:"segments"`
	Name      string      `json:"name"`
	Polylines bool        `json:"polylines"`
	Lenient   bool        `json:"lenient"`
}

// loadMap reads the trace map described by a. Inline rows go through the
// same parser as files so they get the same validation.
func (s *Server) loadMap(a mapArgs) (fracture.TraceMap, []string, error) {
	opts := traceio.Options{Lenient: a.Lenient, Polylines: a.Polylines}

	var (
		res *traceio.Result
		err error
	)
	switch {
	case a.Path != "" && a.Segments != nil:
		return fracture.TraceMap{}, nil, fmt.Errorf("%w: give either path or segments, not both", errInvalidArguments)
	case a.Path != "":
		res, err = traceio.ReadFile(a.Path, opts)
	case a.Segments != nil:
		name := a.Name
		if name == "" {
			name = "inline"
		}
		res, err = traceio.Read(name, strings.NewReader(rowsToText(a.Segments)), opts)
		if errors.Is(err, traceio.ErrMalformedLine) {
			err = fmt.Errorf("%w: %w", errInvalidArguments, err)
		}
	default:
		return fracture.TraceMap{}, nil, fmt.Errorf("%w: path or segments is required", errInvalidArguments)
	}
	if err != nil {
		return fracture.TraceMap{}, nil, err
	}

	tm := res.Map
	if a.Name != "" {
		tm = tm.WithName(a.Name)
	}
	warnings := make([]string, len(res.Warnings))
	for i, w := range res.Warnings {
		warnings[i] = w.Error()
	}
	return tm, warnings, nil
}

func rowsToText(rows [][]float64) string {
	var b strings.Builder
	for _, row := range rows {
		for i, v := range row {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// analysisArgs are the engine settings shared by the analysis tools.
type analysisArgs struct {
	Bins      int    `json:"bins"`
	Weighted  *bool  `json:"weighted"`
	Reference string `json:"reference"`
}

func (a analysisArgs) options() ([]analysis.Option, error) {
	ref, err := analysis.ParseReference(a.Reference)
	if err != nil {
		return nil, err
	}
	opts := []analysis.Option{analysis.WithReference(ref)}
	if a.Weighted != nil {
		opts = append(opts, analysis.WithLengthWeighting(*a.Weighted))
	}
	return opts, nil
}

func (a analysisArgs) bins() int {
	if a.Bins == 0 {
		return analysis.DefaultBinCount
	}
	return a.Bins
}

// === Analysis handlers ===

type fractureLoadArgs struct {
	mapArgs
}

// LoadResult describes a loaded trace map without analysing it.
type LoadResult struct {
	Name     string             `json:"name"`
	Nodes    analysis.NodeStats `json:"nodes"`
	Warnings []string           `json:"warnings,omitempty"`
}

func (s *Server) handleFractureLoad(args json.RawMessage) (interface{}, error) {
	var a fractureLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	tm, warnings, err := s.loadMap(a.mapArgs)
	if err != nil {
		return nil, err
	}
	return &LoadResult{Name: tm.Name(), Nodes: analysis.Nodes(tm), Warnings: warnings}, nil
}

type fractureAnalysisArgs struct {
	mapArgs
	analysisArgs
}

func (s *Server) handleFractureSummary(args json.RawMessage) (interface{}, error) {
	var a fractureAnalysisArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	opts, err := a.options()
	if err != nil {
		return nil, err
	}
	tm, warnings, err := s.loadMap(a.mapArgs)
	if err != nil {
		return nil, err
	}

	r, err := report.Build(tm, a.bins(), opts...)
	if err != nil {
		return nil, err
	}
	r.Source = a.Path
	r.Warnings = warnings
	return &r, nil
}

// SegmentRow is one entry of the fracture_geometry result.
type SegmentRow struct {
	Index   int              `json:"index"`
	Trace   int              `json:"trace"`
	Segment fracture.Segment `json:"segment"`
	analysis.SegmentGeometry
}

// GeometryResult lists per-segment geometry.
type GeometryResult struct {
	Name      string             `json:"name"`
	Reference analysis.Reference `json:"reference"`
	Segments  []SegmentRow       `json:"segments"`
	Warnings  []string           `json:"warnings,omitempty"`
}

func (s *Server) handleFractureGeometry(args json.RawMessage) (interface{}, error) {
	var a fractureAnalysisArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	ref, err := analysis.ParseReference(a.Reference)
	if err != nil {
		return nil, err
	}
	tm, warnings, err := s.loadMap(a.mapArgs)
	if err != nil {
		return nil, err
	}

	geoms := analysis.MapGeometry(tm, analysis.WithReference(ref))
	rows := make([]SegmentRow, len(geoms))
	for i, g := range geoms {
		rows[i] = SegmentRow{Index: i, Trace: tm.TraceOf(i), Segment: tm.Segment(i), SegmentGeometry: g}
	}
	return &GeometryResult{Name: tm.Name(), Reference: ref, Segments: rows, Warnings: warnings}, nil
}

// RoseResult is a histogram with its plotting helpers precomputed.
type RoseResult struct {
	analysis.OrientationHistogram
	Total     float64   `json:"total"`
	Centers   []float64 `json:"centers"`
	Fractions []float64 `json:"fractions"`
}

func (s *Server) handleFractureRose(args json.RawMessage) (interface{}, error) {
	var a fractureAnalysisArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	opts, err := a.options()
	if err != nil {
		return nil, err
	}
	tm, _, err := s.loadMap(a.mapArgs)
	if err != nil {
		return nil, err
	}

	h, err := analysis.RoseHistogram(tm, a.bins(), opts...)
	if err != nil {
		return nil, err
	}
	return &RoseResult{
		OrientationHistogram: h,
		Total:                h.Total(),
		Centers:              h.Centers(),
		Fractions:            h.Fractions(),
	}, nil
}

// === Rendering handlers ===

// RenderResult is a rendered plot, either written to OutputPath or returned
// inline as base64.
type RenderResult struct {
	Format      render.Format `json:"format"`
	MimeType    string        `json:"mime_type"`
	OutputPath  string        `json:"output_path,omitempty"`
	ImageBase64 string        `json:"image_base64,omitempty"`
	SizeBytes   int           `json:"size_bytes"`
}

type renderArgs struct {
	OutputPath string `json:"output_path"`
	Format     string `json:"format"`
}

// format resolves the output format: the output path's extension wins,
// then the format argument, then PNG.
func (a renderArgs) format() (render.Format, error) {
	if a.OutputPath != "" {
		return render.FormatFromPath(a.OutputPath)
	}
	if a.Format != "" {
		return render.ParseFormat(a.Format)
	}
	return render.PNG, nil
}

func (a renderArgs) finish(format render.Format, data []byte) (*RenderResult, error) {
	res := &RenderResult{Format: format, MimeType: format.MimeType(), SizeBytes: len(data)}
	if a.OutputPath != "" {
		if err := os.WriteFile(a.OutputPath, data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", a.OutputPath, err)
		}
		res.OutputPath = a.OutputPath
		return res, nil
	}
	res.ImageBase64 = base64.StdEncoding.EncodeToString(data)
	return res, nil
}

type fractureRenderMapArgs struct {
	mapArgs
	renderArgs
	Width              int    `json:"width"`
	Height             int    `json:"height"`
	Title              string `json:"title"`
	ShowNodes          bool   `json:"show_nodes"`
	ColorByOrientation bool   `json:"color_by_orientation"`
	Reference          string `json:"reference"`
	FlipX              bool   `json:"flip_x"`
	FlipY              bool   `json:"flip_y"`
	TraceColor         string `json:"trace_color"`
}

func (s *Server) handleFractureRenderMap(args json.RawMessage) (interface{}, error) {
	var a fractureRenderMapArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	format, err := a.format()
	if err != nil {
		return nil, err
	}
	ref, err := analysis.ParseReference(a.Reference)
	if err != nil {
		return nil, err
	}
	tm, _, err := s.loadMap(a.mapArgs)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = render.TraceMap(&buf, tm, render.MapOptions{
		Format:             format,
		Width:              a.Width,
		Height:             a.Height,
		Title:              a.Title,
		TraceColor:         a.TraceColor,
		ShowNodes:          a.ShowNodes,
		ColorByOrientation: a.ColorByOrientation,
		Reference:          ref,
		FlipX:              a.FlipX,
		FlipY:              a.FlipY,
	})
	if err != nil {
		return nil, err
	}
	return a.finish(format, buf.Bytes())
}

type fractureRenderRoseArgs struct {
	mapArgs
	analysisArgs
	renderArgs
	Size      int    `json:"size"`
	Title     string `json:"title"`
	EqualArea bool   `json:"equal_area"`
	FillColor string `json:"fill_color"`
}

func (s *Server) handleFractureRenderRose(args json.RawMessage) (interface{}, error) {
	var a fractureRenderRoseArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	format, err := a.format()
	if err != nil {
		return nil, err
	}
	opts, err := a.options()
	if err != nil {
		return nil, err
	}
	tm, _, err := s.loadMap(a.mapArgs)
	if err != nil {
		return nil, err
	}
	h, err := analysis.RoseHistogram(tm, a.bins(), opts...)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = render.Rose(&buf, h, render.RoseOptions{
		Format:    format,
		Size:      a.Size,
		Title:     a.Title,
		EqualArea: a.EqualArea,
		FillColor: a.FillColor,
	})
	if err != nil {
		return nil, err
	}
	return a.finish(format, buf.Bytes())
}

// === Stress handler ===

type fractureStressArgs struct {
	mapArgs
	renderArgs
	Sigma1        *float64 `json:"sigma1"`
	Sigma2        *float64 `json:"sigma2"`
	Sigma1Azimuth float64  `json:"sigma1_azimuth"`
	Friction      *float64 `json:"friction"`
	Cohesion      float64  `json:"cohesion"`
	PorePressure  float64  `json:"pore_pressure"`
	FlipX         bool     `json:"flip_x"`
	FlipY         bool     `json:"flip_y"`
	Plot          string   `json:"plot"`
	Size          int      `json:"size"`
}

func (a fractureStressArgs) stressOptions() analysis.StressOptions {
	o := analysis.DefaultStressOptions()
	if a.Sigma1 != nil {
		o.Sigma1 = *a.Sigma1
	}
	if a.Sigma2 != nil {
		o.Sigma2 = *a.Sigma2
	}
	if a.Friction != nil {
		o.Friction = *a.Friction
	}
	o.Sigma1Azimuth = a.Sigma1Azimuth
	o.Cohesion = a.Cohesion
	o.PorePressure = a.PorePressure
	o.FlipX = a.FlipX
	o.FlipY = a.FlipY
	return o
}

// StressResult is the stress state resolved onto every segment, with an
// optional plot.
type StressResult struct {
	Name string `json:"name"`
	analysis.StressAnalysis
	Summary  analysis.StressSummary `json:"summary"`
	Warnings []string               `json:"warnings,omitempty"`
	Plot     *RenderResult          `json:"plot,omitempty"`
}

func (s *Server) handleFractureStress(args json.RawMessage) (interface{}, error) {
	var a fractureStressArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Plot == "" && a.OutputPath != "" {
		return nil, fmt.Errorf("%w: output_path needs plot", errInvalidArguments)
	}
	var measure analysis.StressMeasure
	if a.Plot != "" && a.Plot != "mohr" {
		m, err := analysis.ParseStressMeasure(a.Plot)
		if err != nil {
			return nil, err
		}
		measure = m
	}
	tm, warnings, err := s.loadMap(a.mapArgs)
	if err != nil {
		return nil, err
	}

	sa, err := analysis.StressTendency(tm, a.stressOptions())
	if err != nil {
		return nil, err
	}
	res := &StressResult{Name: tm.Name(), StressAnalysis: sa, Summary: sa.Summary(), Warnings: warnings}
	if a.Plot == "" {
		return res, nil
	}

	format, err := a.format()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if measure == "" {
		err = render.Mohr(&buf, sa, render.MohrOptions{Format: format, Size: a.Size})
	} else {
		err = render.StressMap(&buf, tm, sa, measure, render.MapOptions{
			Format: format,
			Width:  a.Size,
			Height: a.Size,
			FlipX:  a.FlipX,
			FlipY:  a.FlipY,
		})
	}
	if err != nil {
		return nil, err
	}
	if res.Plot, err = a.finish(format, buf.Bytes()); err != nil {
		return nil, err
	}
	return res, nil
}

// === Detection handler ===

type fractureDetectArgs struct {
	Path       string  `json:"path"`
	InkLevel   int     `json:"ink_level"`
	BlurRadius float64 `json:"blur_radius"`
	MinLength  float64 `json:"min_length"`
	MaxLines   int     `json:"max_lines"`
	OutputPath string  `json:"output_path"`
}

// DetectResult holds segments digitised from an image.
type DetectResult struct {
	Image      *imaging.ImageInfo `json:"image"`
	Count      int                `json:"count"`
	Segments   []fracture.Segment `json:"segments"`
	OutputPath string             `json:"output_path,omitempty"`
}

func (s *Server) handleFractureDetect(args json.RawMessage) (interface{}, error) {
	var a fractureDetectArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("%w: path is required", errInvalidArguments)
	}
	if a.InkLevel < 0 || a.InkLevel > 255 {
		return nil, fmt.Errorf("%w: ink_level must be 0-255, got %d", errInvalidArguments, a.InkLevel)
	}

	info, err := imaging.LoadImageInfo(s.cache, a.Path)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	tm, err := detection.DetectSegments(img, detection.DetectOptions{
		Name:       filepath.Base(a.Path),
		InkLevel:   uint8(a.InkLevel),
		BlurRadius: a.BlurRadius,
		MinLength:  a.MinLength,
		MaxLines:   a.MaxLines,
	})
	if err != nil {
		return nil, err
	}

	if a.OutputPath != "" {
		if err := traceio.WriteFile(a.OutputPath, tm); err != nil {
			return nil, err
		}
	}
	return &DetectResult{
		Image:      info,
		Count:      tm.Len(),
		Segments:   tm.Segments(),
		OutputPath: a.OutputPath,
	}, nil
}

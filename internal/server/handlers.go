package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ironsheep/scene-graph-mcp/internal/compare"
	"github.com/ironsheep/scene-graph-mcp/internal/detection"
	"github.com/ironsheep/scene-graph-mcp/internal/imaging"
	"github.com/ironsheep/scene-graph-mcp/internal/scene"
)

// defaultCropMaxSize bounds crops returned by scene_object_crop.
const defaultCropMaxSize = 512

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "scene_graph_build").
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
// Invalid arguments map to -32602; every other tool failure maps to -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", zap.String("tool", params.Name), zap.Error(err))
		if errors.Is(err, scene.ErrInvalidInput) || errors.Is(err, scene.ErrConfiguration) {
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}
	s.logger.Debug("tool completed",
		zap.String("tool", params.Name),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("cached_images", s.cache.Len()),
		zap.Int64("cache_evictions", s.cache.Evictions()))

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
	// Scene graph construction
	case "scene_relationship":
		return s.handleRelationship(args)
	case "scene_detect_objects":
		return s.handleDetectObjects(args)
	case "scene_graph_build":
		return s.handleGraphBuild(args)

	// Scene comparison
	case "scene_graph_compare":
		return s.handleGraphCompare(args)
	case "scene_compare_objects":
		return s.handleCompareObjects(args)

	// Per-object pixel helpers
	case "scene_object_crop":
		return s.handleObjectCrop(args)
	case "scene_object_color":
		return s.handleObjectColor(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments. Missing arguments decode as {}.
func decodeArgs(tool string, args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return &scene.Error{Kind: scene.KindInvalidInput, Op: tool, Message: "malformed arguments", Cause: err}
	}
	return nil
}

// === Scene Graph Construction Handlers ===

type relationshipArgs struct {
	A      scene.Pixel `json:"a"`
	B      scene.Pixel `json:"b"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
}

type relationshipResult struct {
	Relationship       string  `json:"relationship"`
	Inverse            string  `json:"inverse"`
	Distance           float64 `json:"distance"`
	NormalizedDistance float64 `json:"normalized_distance"`
	Connected          bool    `json:"connected"`
}

func (s *Server) handleRelationship(args json.RawMessage) (interface{}, error) {
	var a relationshipArgs
	if err := decodeArgs("scene_relationship", args, &a); err != nil {
		return nil, err
	}

	rel, norm, err := scene.InferRelationship(a.A, a.B, a.Width, a.Height)
	if err != nil {
		return nil, err
	}
	dist := scene.PixelDistance(a.A, a.B)
	return &relationshipResult{
		Relationship:       rel,
		Inverse:            scene.InverseRelationship(rel),
		Distance:           dist,
		NormalizedDistance: norm,
		Connected:          dist <= s.cfg.Graph.DistanceThreshold,
	}, nil
}

type detectObjectsArgs struct {
	Path          string   `json:"path"`
	MinArea       *int     `json:"min_area"`
	Tolerance     *float64 `json:"tolerance"`
	EdgeThreshold *uint8   `json:"edge_threshold"`
	BlurRadius    *float64 `json:"blur_radius"`
}

func (a detectObjectsArgs) options(base detection.Options) detection.Options {
	if a.MinArea != nil {
		base.MinArea = *a.MinArea
	}
	if a.Tolerance != nil {
		base.Tolerance = *a.Tolerance
	}
	if a.EdgeThreshold != nil {
		base.EdgeThreshold = *a.EdgeThreshold
	}
	if a.BlurRadius != nil {
		base.BlurRadius = *a.BlurRadius
	}
	return base
}

func (s *Server) handleDetectObjects(args json.RawMessage) (interface{}, error) {
	var a detectObjectsArgs
	if err := decodeArgs("scene_detect_objects", args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	result, err := detection.DetectObjects(img, a.options(s.cfg.DetectionOptions()))
	if err != nil {
		return nil, err
	}
	s.logger.Info("objects detected", zap.String("path", a.Path), zap.Int("count", result.Count))
	return result, nil
}

// sceneArgs describes one scene: an object list, the image it came from, or
// both. Each missing dimension is read from the image. When objects are omitted
// entirely they are detected in the image.
type sceneArgs struct {
	Objects   []scene.SceneObject `json:"objects"`
	Width     int                 `json:"width"`
	Height    int                 `json:"height"`
	ImagePath string              `json:"image_path"`
}

// resolvedScene is a sceneArgs with dimensions and objects filled in.
type resolvedScene struct {
	objects  []scene.SceneObject
	width    int
	height   int
	detected bool
}

func (s *Server) resolveScene(op string, a sceneArgs) (*resolvedScene, error) {
	rs := &resolvedScene{objects: a.Objects, width: a.Width, height: a.Height}
	if a.ImagePath == "" {
		if a.Objects == nil {
			return nil, scene.InvalidInput(op, "either objects or image_path is required")
		}
		return rs, nil
	}

	dims, err := imaging.GetDimensions(s.cache, a.ImagePath)
	if err != nil {
		return nil, err
	}
	if rs.width == 0 {
		rs.width = dims.Width
	}
	if rs.height == 0 {
		rs.height = dims.Height
	}
	if rs.objects == nil {
		img, err := s.cache.Load(a.ImagePath)
		if err != nil {
			return nil, err
		}
		result, err := detection.DetectObjects(img, s.cfg.DetectionOptions())
		if err != nil {
			return nil, err
		}
		rs.objects = result.Objects
		rs.detected = true
	}
	return rs, nil
}

type buildOverrides struct {
	DistanceThreshold     *float64 `json:"distance_threshold"`
	RelationshipThreshold *float64 `json:"relationship_threshold"`
}

func (o buildOverrides) apply(opts scene.BuildOptions) scene.BuildOptions {
	if o.DistanceThreshold != nil {
		opts.DistanceThreshold = *o.DistanceThreshold
	}
	if o.RelationshipThreshold != nil {
		opts.RelationshipThreshold = *o.RelationshipThreshold
	}
	return opts
}

type graphBuildArgs struct {
	sceneArgs
	buildOverrides
}

type graphBuildResult struct {
	Graph          *scene.SceneGraph `json:"graph"`
	Detected       bool              `json:"detected"`
	SkippedUnknown int               `json:"skipped_unknown"`
}

func (s *Server) handleGraphBuild(args json.RawMessage) (interface{}, error) {
	const op = "scene_graph_build"
	var a graphBuildArgs
	if err := decodeArgs(op, args, &a); err != nil {
		return nil, err
	}

	rs, err := s.resolveScene(op, a.sceneArgs)
	if err != nil {
		return nil, err
	}
	g, err := scene.Build(rs.objects, a.apply(s.cfg.BuildOptions(rs.width, rs.height)))
	if err != nil {
		return nil, err
	}
	s.logger.Info("scene graph built",
		zap.Int("objects", len(rs.objects)),
		zap.Int("nodes", g.NodeCount()),
		zap.Int("edges", g.EdgeCount()))

	return &graphBuildResult{
		Graph:          g,
		Detected:       rs.detected,
		SkippedUnknown: len(rs.objects) - g.NodeCount(),
	}, nil
}

// === Scene Comparison Handlers ===

// matchOverrides replaces matcher and classifier defaults. When only one of
// the two weights is given the other becomes its complement.
type matchOverrides struct {
	SimilarityThreshold *float64 `json:"similarity_threshold"`
	PositionWeight      *float64 `json:"position_weight"`
	LabelWeight         *float64 `json:"label_weight"`
	MovementThreshold   *float64 `json:"movement_threshold"`
}

func (o matchOverrides) apply(opts compare.Options) compare.Options {
	if o.SimilarityThreshold != nil {
		opts.Match.SimilarityThreshold = *o.SimilarityThreshold
	}
	switch {
	case o.PositionWeight != nil && o.LabelWeight != nil:
		opts.Match.PositionWeight = *o.PositionWeight
		opts.Match.LabelWeight = *o.LabelWeight
	case o.PositionWeight != nil:
		opts.Match.PositionWeight = *o.PositionWeight
		opts.Match.LabelWeight = 1 - *o.PositionWeight
	case o.LabelWeight != nil:
		opts.Match.LabelWeight = *o.LabelWeight
		opts.Match.PositionWeight = 1 - *o.LabelWeight
	}
	if o.MovementThreshold != nil {
		opts.Classify.MovementThreshold = *o.MovementThreshold
	}
	return opts
}

type compareResult struct {
	ComparisonID string                `json:"comparison_id"`
	Summary      string                `json:"summary"`
	Report       *compare.ChangeReport `json:"report"`
}

func (s *Server) newCompareResult(report *compare.ChangeReport) *compareResult {
	id := uuid.NewString()
	s.logger.Info("scenes compared",
		zap.String("comparison_id", id),
		zap.Int("appeared", report.Metrics.AppearedCount),
		zap.Int("disappeared", report.Metrics.DisappearedCount),
		zap.Int("moved", report.Metrics.MovedCount),
		zap.Int("relationship_changes", report.Metrics.RelationshipChangeCount))
	return &compareResult{
		ComparisonID: id,
		Summary:      report.Summary(),
		Report:       report,
	}
}

type graphCompareArgs struct {
	Before json.RawMessage `json:"before"`
	After  json.RawMessage `json:"after"`
	matchOverrides
}

func (s *Server) handleGraphCompare(args json.RawMessage) (interface{}, error) {
	const op = "scene_graph_compare"
	var a graphCompareArgs
	if err := decodeArgs(op, args, &a); err != nil {
		return nil, err
	}
	if len(a.Before) == 0 || len(a.After) == 0 {
		return nil, scene.InvalidInput(op, "both before and after graph documents are required")
	}

	before, err := scene.ParseGraph(a.Before)
	if err != nil {
		return nil, fmt.Errorf("before: %w", err)
	}
	after, err := scene.ParseGraph(a.After)
	if err != nil {
		return nil, fmt.Errorf("after: %w", err)
	}

	report, err := compare.Compare(before, after, a.apply(s.cfg.CompareOptions()))
	if err != nil {
		return nil, err
	}
	return s.newCompareResult(report), nil
}

type compareObjectsArgs struct {
	Before sceneArgs `json:"before"`
	After  sceneArgs `json:"after"`
	buildOverrides
	matchOverrides
}

func (s *Server) handleCompareObjects(args json.RawMessage) (interface{}, error) {
	const op = "scene_compare_objects"
	var a compareObjectsArgs
	if err := decodeArgs(op, args, &a); err != nil {
		return nil, err
	}

	before, err := s.resolveScene(op, a.Before)
	if err != nil {
		return nil, fmt.Errorf("before: %w", err)
	}
	after, err := s.resolveScene(op, a.After)
	if err != nil {
		return nil, fmt.Errorf("after: %w", err)
	}

	report, err := compare.CompareObjects(before.objects, after.objects,
		a.buildOverrides.apply(s.cfg.BuildOptions(before.width, before.height)),
		a.buildOverrides.apply(s.cfg.BuildOptions(after.width, after.height)),
		a.matchOverrides.apply(s.cfg.CompareOptions()))
	if err != nil {
		return nil, err
	}
	return s.newCompareResult(report), nil
}

// === Per-Object Pixel Handlers ===

type objectCropArgs struct {
	Path    string            `json:"path"`
	BBox    scene.BoundingBox `json:"bbox"`
	MaxSize *int              `json:"max_size"`
}

func (s *Server) handleObjectCrop(args json.RawMessage) (interface{}, error) {
	var a objectCropArgs
	if err := decodeArgs("scene_object_crop", args, &a); err != nil {
		return nil, err
	}
	maxSize := defaultCropMaxSize
	if a.MaxSize != nil {
		maxSize = *a.MaxSize
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.CropObject(img, a.BBox, maxSize)
}

type objectColorArgs struct {
	Path string            `json:"path"`
	BBox scene.BoundingBox `json:"bbox"`
}

func (s *Server) handleObjectColor(args json.RawMessage) (interface{}, error) {
	var a objectColorArgs
	if err := decodeArgs("scene_object_color", args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.ObjectColor(img, a.BBox)
}

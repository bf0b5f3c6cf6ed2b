package server

import "github.com/ironsheep/scene-graph-mcp/internal/config"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{"type": typ, "description": description}
}

func propDefault(typ, description string, def interface{}) map[string]interface{} {
	p := prop(typ, description)
	p["default"] = def
	return p
}

func tuple(itemType string, n int, description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": itemType},
		"minItems":    n,
		"maxItems":    n,
		"description": description,
	}
}

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	s := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// sceneObjectSchema describes one detector output entry.
func sceneObjectSchema() map[string]interface{} {
	return objectSchema(map[string]interface{}{
		"label":      prop("string", "Object class. \"unknown\" objects are skipped."),
		"position":   tuple("number", 2, "Normalized [x, y] center, each in [0, 1]"),
		"center":     tuple("integer", 2, "Pixel [x, y] center"),
		"bbox":       tuple("integer", 4, "Pixel bounding box [x_min, y_min, x_max, y_max]"),
		"area":       prop("number", "Bounding-box area in square pixels"),
		"confidence": prop("number", "Detector confidence in [0, 1]"),
	}, "label", "position", "center", "bbox")
}

// sceneSchema describes one scene given as objects, an image, or both.
func sceneSchema(description string) map[string]interface{} {
	s := objectSchema(map[string]interface{}{
		"objects": map[string]interface{}{
			"type":        "array",
			"items":       sceneObjectSchema(),
			"description": "Detected objects. When omitted, objects are detected in image_path.",
		},
		"width":      prop("integer", "Image width in pixels. Read from image_path when omitted."),
		"height":     prop("integer", "Image height in pixels. Read from image_path when omitted."),
		"image_path": prop("string", "Absolute path to the source image"),
	})
	s["description"] = description
	return s
}

// GetToolDefinitions returns all available tools. Schema defaults come from cfg.
func GetToolDefinitions(cfg *config.Config) []Tool {
	if cfg == nil {
		cfg = config.Default()
	}

	sceneProps := func() map[string]interface{} {
		return sceneSchema("")["properties"].(map[string]interface{})
	}
	buildProps := func(props map[string]interface{}) map[string]interface{} {
		props["distance_threshold"] = propDefault("number",
			"Maximum pixel distance between connected objects", cfg.Graph.DistanceThreshold)
		props["relationship_threshold"] = propDefault("number",
			"Reserved relationship cutoff carried in graph metadata", cfg.Graph.RelationshipThreshold)
		return props
	}
	matchProps := func(props map[string]interface{}) map[string]interface{} {
		props["similarity_threshold"] = propDefault("number",
			"Minimum similarity for a match, in (0, 1]", cfg.Match.SimilarityThreshold)
		props["position_weight"] = propDefault("number",
			"Weight of position similarity. Position and label weights must sum to 1.", cfg.Match.PositionWeight)
		props["label_weight"] = propDefault("number",
			"Weight of label equality. Position and label weights must sum to 1.", cfg.Match.LabelWeight)
		props["movement_threshold"] = propDefault("number",
			"Normalized position change above which a matched object counts as moved", cfg.Classify.MovementThreshold)
		return props
	}
	bboxProps := func() map[string]interface{} {
		return map[string]interface{}{
			"path": prop("string", "Absolute path to the image file"),
			"bbox": tuple("integer", 4, "Object bounding box [x_min, y_min, x_max, y_max], corners inclusive"),
		}
	}

	cropProps := bboxProps()
	cropProps["max_size"] = propDefault("integer",
		"Scale the crop down to fit this many pixels per side. 0 disables scaling.", defaultCropMaxSize)

	return []Tool{
		// Scene graph construction
		{
			Name:        "scene_relationship",
			Description: "Infer the spatial relationship of point b relative to point a, such as \"left_of-above\", plus their distance normalized by the image diagonal.",
			InputSchema: objectSchema(map[string]interface{}{
				"a":      tuple("integer", 2, "Reference pixel [x, y]"),
				"b":      tuple("integer", 2, "Other pixel [x, y]"),
				"width":  prop("integer", "Image width in pixels"),
				"height": prop("integer", "Image height in pixels"),
			}, "a", "b", "width", "height"),
		},
		{
			Name:        "scene_detect_objects",
			Description: "Detect outlined rectangles and circles in an image and return them as scene objects ready for scene_graph_build.",
			InputSchema: objectSchema(map[string]interface{}{
				"path":           prop("string", "Absolute path to the image file"),
				"min_area":       propDefault("integer", "Minimum bounding-box area in square pixels", cfg.Detection.MinArea),
				"tolerance":      propDefault("number", "Minimum shape score for a rectangle or circle label", cfg.Detection.Tolerance),
				"edge_threshold": propDefault("integer", "Sobel response (0-255) that marks an edge", cfg.Detection.EdgeThreshold),
				"blur_radius":    propDefault("number", "Gaussian blur radius applied before edge detection", cfg.Detection.BlurRadius),
			}, "path"),
		},
		{
			Name:        "scene_graph_build",
			Description: "Build a scene graph from detected objects. Objects closer than distance_threshold pixels are connected by edges labeled with their spatial relationship. Nodes carry degree and betweenness centrality.",
			InputSchema: objectSchema(buildProps(sceneProps())),
		},

		// Scene comparison
		{
			Name:        "scene_graph_compare",
			Description: "Compare two scene graph documents produced by scene_graph_build. Reports appeared, disappeared and moved objects plus changed, lost and gained relationships.",
			InputSchema: objectSchema(matchProps(map[string]interface{}{
				"before": map[string]interface{}{"type": "object", "description": "Graph document of the earlier scene"},
				"after":  map[string]interface{}{"type": "object", "description": "Graph document of the later scene"},
			}), "before", "after"),
		},
		{
			Name:        "scene_compare_objects",
			Description: "Build scene graphs for two object lists (or images) and compare them in one call.",
			InputSchema: objectSchema(matchProps(buildProps(map[string]interface{}{
				"before": sceneSchema("The earlier scene"),
				"after":  sceneSchema("The later scene"),
			})), "before", "after"),
		},

		// Per-object pixel helpers
		{
			Name:        "scene_object_crop",
			Description: "Crop an object's bounding box from an image and return it as base64-encoded PNG.",
			InputSchema: objectSchema(cropProps, "path", "bbox"),
		},
		{
			Name:        "scene_object_color",
			Description: "Return the mean color of the pixels inside an object's bounding box as hex and HSL.",
			InputSchema: objectSchema(bboxProps(), "path", "bbox"),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(s.cfg),
		},
	}
}

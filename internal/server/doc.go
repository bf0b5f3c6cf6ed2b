// Package server implements the MCP (Model Context Protocol) server that
// exposes scene graph construction and comparison as tools.
//
// # Protocol
//
// The server speaks JSON-RPC 2.0, one message per line:
//   - Input: requests on stdin (or any io.Reader passed to Serve)
//   - Output: responses on stdout (or the io.Writer passed to Serve)
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Scene graph construction:
//   - scene_relationship: Spatial relationship between two pixels
//   - scene_detect_objects: Contour-based object detection on an image
//   - scene_graph_build: Objects (or an image) to a scene graph document
//
// Scene comparison:
//   - scene_graph_compare: Diff two graph documents
//   - scene_compare_objects: Build and diff two scenes in one call
//
// Per-object pixel helpers:
//   - scene_object_crop: Crop an object's bounding box as PNG
//   - scene_object_color: Mean color of an object's bounding box
//
// # Response Format
//
// Tool results are JSON documents wrapped in MCP's text content:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Comparison results carry a fresh comparison_id so clients can refer back
// to them in later turns.
//
// # Error Codes
//
//   - -32700: Parse error (request line is not JSON)
//   - -32601: Method not found
//   - -32602: Invalid params (malformed arguments, invalid input or configuration)
//   - -32000: Tool execution failed (I/O errors, unknown tool)
//
// # Defaults
//
// Thresholds and weights omitted from tool arguments fall back to the
// config.Config the server was created with. The same defaults appear in the
// tool schemas returned by tools/list.
//
// # Logging
//
// All logs go to the zap logger passed to New, which must not write to
// stdout while serving over stdio.
package server

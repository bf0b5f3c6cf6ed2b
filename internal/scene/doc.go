// Package scene builds scene graphs from lists of detected objects.
//
// A scene graph has one node per recognized object and one undirected edge per
// pair of objects whose pixel centers lie within a distance threshold. Each
// edge carries a coarse directional relationship label and the pair's
// distance; each node carries degree and betweenness centrality.
//
// # Coordinate System
//
// Pixel coordinates follow the image convention: (0,0) is the top-left corner,
// X increases rightward and Y increases downward. Positions are the same
// centers normalized to [0,1] by the image width and height.
//
// # Relationship Labels
//
// Labels have the form "{horizontal}-{vertical}" where horizontal is one of
// left_of, right_of, aligned_with and vertical is one of above, below,
// level_with. An edge's label is oriented from its lower node id to its higher
// node id; SceneGraph.Relation returns it for either direction.
//
// # Graph Documents
//
// SceneGraph implements json.Marshaler and json.Unmarshaler using a
// nodes/edges document. Positions, centers and bounding boxes are encoded as
// ordered arrays.
//
// # Errors
//
// Malformed objects and degenerate image dimensions fail with an error
// matching ErrInvalidInput; bad thresholds match ErrConfiguration. An empty
// object list is valid and produces an empty graph.
//
// All functions are pure and safe for concurrent use.
package scene

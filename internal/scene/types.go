package scene

// UnknownLabel is the label the detector assigns to unclassified segments.
// Objects carrying it never become graph nodes.
const UnknownLabel = "unknown"

// Position is a normalized (x, y) image coordinate in the range [0, 1].
// It serializes as a two-element JSON array.
type Position [2]float64

// X returns the horizontal component.
func (p Position) X() float64 { return p[0] }

// Y returns the vertical component.
func (p Position) Y() float64 { return p[1] }

// Pixel is an (x, y) pixel coordinate with (0,0) at the top-left corner.
type Pixel [2]int

// X returns the horizontal component.
func (p Pixel) X() int { return p[0] }

// Y returns the vertical component.
func (p Pixel) Y() int { return p[1] }

// BoundingBox is (xmin, ymin, xmax, ymax) in pixels.
// It serializes as a four-element JSON array, preserving element order.
type BoundingBox [4]int

// XMin returns the left edge.
func (b BoundingBox) XMin() int { return b[0] }

// YMin returns the top edge.
func (b BoundingBox) YMin() int { return b[1] }

// XMax returns the right edge.
func (b BoundingBox) XMax() int { return b[2] }

// YMax returns the bottom edge.
func (b BoundingBox) YMax() int { return b[3] }

// Width returns XMax - XMin.
func (b BoundingBox) Width() int { return b[2] - b[0] }

// Height returns YMax - YMin.
func (b BoundingBox) Height() int { return b[3] - b[1] }

// SceneObject is one detection as produced by an external detector/labeler.
//
// The object's original index is its position in the slice handed to Build.
type SceneObject struct {
	// Label is the class name, or "unknown" for unrecognized segments.
	Label string `json:"label" validate:"required"`

	// Position is the object center normalized by the image dimensions.
	Position Position `json:"position" validate:"dive,gte=0,lte=1"`

	// Center is the object center in pixels.
	Center Pixel `json:"center"`

	// BBox is the bounding box in pixels.
	BBox BoundingBox `json:"bbox"`

	// Area is the segment area in square pixels.
	Area int `json:"area" validate:"gte=0"`

	// Confidence is the detector's classification score (0.0 to 1.0).
	Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`
}

// SceneNode is a recognized object inside a SceneGraph.
type SceneNode struct {
	ID            int         `json:"id"`
	OriginalIndex int         `json:"original_index"`
	Label         string      `json:"label"`
	Score         float64     `json:"score"`
	Pos           Position    `json:"pos"`
	Center        Pixel       `json:"center"`
	Area          int         `json:"area"`
	BBox          BoundingBox `json:"bbox"`
	Centrality    float64     `json:"centrality"`
	Betweenness   float64     `json:"betweenness"`
}

// SceneEdge is an undirected spatial relationship between two nearby nodes.
//
// Edges are stored once per unordered pair with Source < Target. Relationship
// is oriented from Source to Target; see Relation for the other direction.
type SceneEdge struct {
	Source             int     `json:"source"`
	Target             int     `json:"target"`
	Relationship       string  `json:"relationship"`
	Distance           float64 `json:"distance"`
	NormalizedDistance float64 `json:"norm_distance"`
	Weight             float64 `json:"weight"`
}

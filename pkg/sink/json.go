package sink

import (
	"encoding/json"

	"github.com/matzehuels/stackdraw/pkg/canvas"
	"github.com/matzehuels/stackdraw/pkg/config"
	"github.com/matzehuels/stackdraw/pkg/geom"
	"github.com/matzehuels/stackdraw/pkg/graph"
	"github.com/matzehuels/stackdraw/pkg/plot"
	"github.com/matzehuels/stackdraw/pkg/scene"
	"github.com/matzehuels/stackdraw/pkg/shape"
	"github.com/matzehuels/stackdraw/pkg/style"
	"github.com/matzehuels/stackdraw/pkg/text"
)

type jsonOutput struct {
	Width      float64      `json:"width"`
	Height     float64      `json:"height"`
	Background style.Color  `json:"background,omitempty"`
	Entities   []jsonEntity `json:"entities"`
}

type jsonEntity struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Kind     string       `json:"kind,omitempty"`
	Parent   string       `json:"parent,omitempty"`
	Children []string     `json:"children,omitempty"`
	ZIndex   int          `json:"z_index"`
	BBox     *jsonBox     `json:"bbox,omitempty"`
	Points   [][2]float64 `json:"points,omitempty"`
	Closed   bool         `json:"closed,omitempty"`
	Style    *style.Style `json:"style,omitempty"`
	Text     *jsonText    `json:"text,omitempty"`
}

// jsonBox is in pixels with the origin at the top left.
type jsonBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type jsonText struct {
	Content  string   `json:"content"`
	Lines    []string `json:"lines"`
	FontSize float64  `json:"font_size"`
	Font     string   `json:"font"`
	Heading  float64  `json:"heading,omitempty"`
}

// RenderJSON describes every entity on the canvas in paint order: its
// place in the tree, its pixel bounding box and, for shapes, the pixel
// control points. Boxes of containers cover their whole family.
func RenderJSON(c *canvas.Canvas) ([]byte, error) {
	f := c.Frame()
	root := c.Root()
	entities := c.Entities()

	out := jsonOutput{
		Width:      f.PixelWidth(),
		Height:     f.PixelHeight,
		Background: f.Background,
		Entities:   make([]jsonEntity, 0, len(entities)),
	}
	for _, e := range entities {
		out.Entities = append(out.Entities, buildJSONEntity(f, root, e))
	}
	return json.MarshalIndent(out, "", "  ")
}

func buildJSONEntity(f config.Frame, root *scene.Group, e scene.Entity) jsonEntity {
	n := e.Base()
	je := jsonEntity{
		ID:     n.ID,
		Type:   entityType(e),
		ZIndex: n.ZIndex,
	}
	if p := root.ParentOf(e); p != nil && p != scene.Entity(root) {
		je.Parent = p.Base().ID
	}
	for _, child := range n.Children() {
		je.Children = append(je.Children, child.Base().ID)
	}

	own := e.BoundingPolygon()
	if len(own) == 0 {
		own = n.FamilyPolygon()
	}
	if len(own) > 0 {
		je.BBox = pixelBox(f, geom.BoundsOf(own))
	}

	var s *shape.Shape
	switch v := e.(type) {
	case *shape.Line:
		s = &v.Shape
	case *shape.Shape:
		s = v
	case *text.Text:
		st := v.Style
		je.Style = &st
		je.Text = &jsonText{
			Content:  v.Content(),
			Lines:    v.Lines(),
			FontSize: v.FontSize(),
			Font:     v.Face().CSSName(),
			Heading:  v.Heading(),
		}
	}
	if s != nil {
		st := s.Style
		je.Kind = s.Kind().String()
		je.Style = &st
		je.Closed = s.Closed()
		for _, p := range s.Points() {
			x, y := f.ToPixel(p)
			je.Points = append(je.Points, [2]float64{x, y})
		}
	}
	return je
}

func entityType(e scene.Entity) string {
	switch e.(type) {
	case *shape.Line:
		return "line"
	case *shape.Shape:
		return "shape"
	case *text.Text:
		return "text"
	case *graph.Graph:
		return "graph"
	case *plot.NumberLine:
		return "number_line"
	case *plot.Axes:
		return "axes"
	case *plot.Curve:
		return "curve"
	case *plot.Brace:
		return "brace"
	case *plot.BoxList:
		return "box_list"
	case *scene.Group:
		return "group"
	default:
		return "node"
	}
}

func pixelBox(f config.Frame, b geom.Bounds) *jsonBox {
	x0, y0 := f.ToPixel(geom.Pt(b.Min.X, b.Max.Y))
	x1, y1 := f.ToPixel(geom.Pt(b.Max.X, b.Min.Y))
	return &jsonBox{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

package diagram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/stackdraw/pkg/config"
	"github.com/matzehuels/stackdraw/pkg/errors"
	"github.com/matzehuels/stackdraw/pkg/graph"
	"github.com/matzehuels/stackdraw/pkg/style"
)

// Format is the encoding of a diagram document.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from a file extension. Anything that is
// not .json is read as TOML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatTOML
}

// Kind names an element type.
type Kind string

const (
	KindSquare         Kind = "square"
	KindRectangle      Kind = "rectangle"
	KindPolygon        Kind = "polygon"
	KindRegularPolygon Kind = "regular_polygon"
	KindTriangle       Kind = "triangle"
	KindCircle         Kind = "circle"
	KindDot            Kind = "dot"
	KindArc            Kind = "arc"
	KindLine           Kind = "line"
	KindArrow          Kind = "arrow"
	KindText           Kind = "text"
	KindGraph          Kind = "graph"
	KindNumberLine     Kind = "number_line"
	KindAxes           Kind = "axes"
	KindBrace          Kind = "brace"
)

// Kinds lists every element kind in documentation order.
var Kinds = []Kind{
	KindSquare, KindRectangle, KindPolygon, KindRegularPolygon, KindTriangle,
	KindCircle, KindDot, KindArc, KindLine, KindArrow, KindText, KindGraph,
	KindNumberLine, KindAxes, KindBrace,
}

// Canvas is the [canvas] table: the frame plus fitting.
type Canvas struct {
	config.Frame

	// Fit shrinks the finished drawing into the frame.
	Fit     bool    `toml:"fit" json:"fit,omitempty"`
	FitBuff float64 `toml:"fit_buff" json:"fit_buff,omitempty"`
}

// Document is a parsed diagram: a canvas and the elements drawn on it, in
// order. Placement directives may only reference earlier elements.
type Document struct {
	Canvas   Canvas    `toml:"canvas" json:"canvas"`
	Elements []Element `toml:"element" json:"elements"`
}

// Vec is a planar point or vector written as [x, y].
type Vec [2]float64

// Element is one [[element]] entry. Which fields apply depends on Kind;
// angles are in degrees.
type Element struct {
	ID   string `toml:"id" json:"id,omitempty"`
	Kind Kind   `toml:"kind" json:"kind"`

	Side       float64 `toml:"side" json:"side,omitempty"`
	Width      float64 `toml:"width" json:"width,omitempty"`
	Height     float64 `toml:"height" json:"height,omitempty"`
	Radius     float64 `toml:"radius" json:"radius,omitempty"`
	Sides      int     `toml:"sides" json:"sides,omitempty"`
	Angle      float64 `toml:"angle" json:"angle,omitempty"`
	StartAngle float64 `toml:"start_angle" json:"start_angle,omitempty"`
	Vertices   []Vec   `toml:"vertices" json:"vertices,omitempty"`
	At         *Vec    `toml:"at" json:"at,omitempty"`

	From *Ref    `toml:"from" json:"from,omitempty"`
	To   *Ref    `toml:"to" json:"to,omitempty"`
	Buff float64 `toml:"buff" json:"buff,omitempty"`
	Tip  float64 `toml:"tip" json:"tip,omitempty"`

	Text       string   `toml:"text" json:"text,omitempty"`
	Font       string   `toml:"font" json:"font,omitempty"`
	Bold       bool     `toml:"bold" json:"bold,omitempty"`
	Italic     bool     `toml:"italic" json:"italic,omitempty"`
	FontSize   float64  `toml:"font_size" json:"font_size,omitempty"`
	MaxWidth   float64  `toml:"max_width" json:"max_width,omitempty"`
	Decoration string   `toml:"decoration" json:"decoration,omitempty"`
	Padding    *Vec     `toml:"padding" json:"padding,omitempty"`
	Leading    *float64 `toml:"leading" json:"leading,omitempty"`

	Graph *Graph `toml:"graph" json:"graph,omitempty"`
	Plot  *Plot  `toml:"plot" json:"plot,omitempty"`
	Edge  string `toml:"edge" json:"edge,omitempty"` // brace side of a referenced element

	Paint
	Placement
}

// Paint holds the style fields of an element.
type Paint struct {
	Color         string   `toml:"color" json:"color,omitempty"`
	Fill          string   `toml:"fill" json:"fill,omitempty"`
	Stroke        string   `toml:"stroke" json:"stroke,omitempty"`
	FillOpacity   float64  `toml:"fill_opacity" json:"fill_opacity,omitempty"`
	StrokeOpacity float64  `toml:"stroke_opacity" json:"stroke_opacity,omitempty"`
	StrokeWidth   float64  `toml:"stroke_width" json:"stroke_width,omitempty"`
	Dashed        bool     `toml:"dashed" json:"dashed,omitempty"`
	Opacity       *float64 `toml:"opacity" json:"opacity,omitempty"`
}

// Placement holds the layout directives of an element. They run in field
// order after the element is built.
type Placement struct {
	Scale    float64   `toml:"scale" json:"scale,omitempty"`
	Rotate   float64   `toml:"rotate" json:"rotate,omitempty"`
	MoveTo   *Ref      `toml:"move_to" json:"move_to,omitempty"`
	NextTo   *Relation `toml:"next_to" json:"next_to,omitempty"`
	AlignTo  *Relation `toml:"align_to" json:"align_to,omitempty"`
	ToEdge   string    `toml:"to_edge" json:"to_edge,omitempty"`
	EdgeBuff *float64  `toml:"edge_buff" json:"edge_buff,omitempty"`
	Shift    *Vec      `toml:"shift" json:"shift,omitempty"`

	CornerRadius float64 `toml:"corner_radius" json:"corner_radius,omitempty"`
	ZIndex       *int    `toml:"z_index" json:"z_index,omitempty"`
}

// Relation places an element relative to an earlier one.
type Relation struct {
	Target      string   `toml:"target" json:"target"`
	Direction   string   `toml:"direction" json:"direction"`
	Buff        *float64 `toml:"buff" json:"buff,omitempty"`
	AlignedEdge string   `toml:"aligned_edge" json:"aligned_edge,omitempty"`
}

// Graph configures a graph element.
type Graph struct {
	Vertices   []string       `toml:"vertices" json:"vertices"`
	Edges      []graph.Edge   `toml:"edges" json:"edges"`
	Directed   bool           `toml:"directed" json:"directed,omitempty"`
	Layout     string         `toml:"layout" json:"layout,omitempty"` // graphviz, circular, tree or fixed
	Engine     string         `toml:"engine" json:"engine,omitempty"`
	Root       string         `toml:"root" json:"root,omitempty"`
	Up         bool           `toml:"up" json:"up,omitempty"`
	Positions  map[string]Vec `toml:"positions" json:"positions,omitempty"`
	Scale      float64        `toml:"scale" json:"scale,omitempty"`
	Labels     bool           `toml:"labels" json:"labels,omitempty"`
	EdgeLabels []EdgeLabel    `toml:"edge_labels" json:"edge_labels,omitempty"`
}

// Plot configures number_line and axes elements. Ranges are written as
// [min, max] or [min, max, step]; width and height of the element set the
// axis lengths.
type Plot struct {
	XRange     []float64 `toml:"x_range" json:"x_range,omitempty"`
	YRange     []float64 `toml:"y_range" json:"y_range,omitempty"`
	Vertical   bool      `toml:"vertical" json:"vertical,omitempty"`
	Numbers    *bool     `toml:"numbers" json:"numbers,omitempty"`
	Ticks      *bool     `toml:"ticks" json:"ticks,omitempty"`
	Tips       *bool     `toml:"tips" json:"tips,omitempty"`
	OriginTick *bool     `toml:"origin_tick" json:"origin_tick,omitempty"`
}

// EdgeLabel labels one graph edge.
type EdgeLabel struct {
	From  string `toml:"from" json:"from"`
	To    string `toml:"to" json:"to"`
	Label string `toml:"label" json:"label"`
}

// Ref is either the id of an earlier element or a fixed point. It is
// written as a string or as [x, y].
type Ref struct {
	ID    string
	Point Vec
}

// UnmarshalTOML implements toml.Unmarshaler.
func (r *Ref) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case string:
		r.ID = v
		return nil
	case []any:
		if len(v) != 2 {
			return fmt.Errorf("point needs 2 coordinates, got %d", len(v))
		}
		for i, c := range v {
			switch c := c.(type) {
			case int64:
				r.Point[i] = float64(c)
			case float64:
				r.Point[i] = c
			default:
				return fmt.Errorf("coordinate %v is not a number", c)
			}
		}
		return nil
	}
	return fmt.Errorf("reference must be an element id or [x, y], got %T", v)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Ref) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(`"`)) {
		return json.Unmarshal(data, &r.ID)
	}
	return json.Unmarshal(data, &r.Point)
}

// MarshalJSON implements json.Marshaler.
func (r Ref) MarshalJSON() ([]byte, error) {
	if r.ID != "" {
		return json.Marshal(r.ID)
	}
	return json.Marshal(r.Point)
}

// Parse decodes a document. Unknown keys are rejected so that typos in
// directive names do not go unnoticed.
func Parse(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode JSON diagram")
		}
	case FormatTOML, "":
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&doc)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode TOML diagram")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errors.New(errors.ErrCodeInvalidDiagram, "unknown keys: %s", strings.Join(keys, ", "))
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown diagram format %q", format)
	}

	if err := doc.normalize(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads and parses a document file, picking the format from its
// extension.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return Parse(data, FormatFromPath(path))
}

// normalize fills canvas defaults, names anonymous elements after their
// kind and position, and checks ids and kinds.
func (d *Document) normalize() error {
	d.Canvas.Frame = d.Canvas.Frame.WithDefaults()
	d.Canvas.Background = style.ParseColor(string(d.Canvas.Background))
	if err := d.Canvas.Frame.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDiagram, err, "canvas")
	}
	if d.Canvas.Fit && d.Canvas.FitBuff == 0 {
		d.Canvas.FitBuff = 0.1
	}

	seen := make(map[string]bool, len(d.Elements))
	for i := range d.Elements {
		el := &d.Elements[i]
		if !knownKind(el.Kind) {
			return errors.New(errors.ErrCodeInvalidDiagram, "element %d: unknown kind %q", i+1, el.Kind)
		}
		if el.ID == "" {
			el.ID = fmt.Sprintf("%s-%d", el.Kind, i+1)
		}
		if err := errors.ValidateElementID(el.ID); err != nil {
			return err
		}
		if seen[el.ID] {
			return errors.New(errors.ErrCodeInvalidDiagram, "duplicate element id %q", el.ID)
		}
		seen[el.ID] = true
	}
	return nil
}

func knownKind(k Kind) bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

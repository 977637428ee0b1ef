package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/stackdraw/pkg/canvas"
	"github.com/matzehuels/stackdraw/pkg/config"
	"github.com/matzehuels/stackdraw/pkg/fonts"
	"github.com/matzehuels/stackdraw/pkg/geom"
	"github.com/matzehuels/stackdraw/pkg/scene"
	"github.com/matzehuels/stackdraw/pkg/shape"
	"github.com/matzehuels/stackdraw/pkg/style"
	"github.com/matzehuels/stackdraw/pkg/text"
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background bool
	fonts      bool
	metadata   bool
}

// WithoutBackground leaves the frame transparent.
func WithoutBackground() SVGOption { return func(r *svgRenderer) { r.background = false } }

// WithoutFonts skips the @font-face rules. Text falls back to whatever the
// viewer has installed.
func WithoutFonts() SVGOption { return func(r *svgRenderer) { r.fonts = false } }

// WithMetadata embeds the [RenderJSON] description in a <metadata> element.
func WithMetadata() SVGOption { return func(r *svgRenderer) { r.metadata = true } }

// RenderSVG draws every entity on the canvas in paint order. Shapes become
// <path> elements and text boxes become <text> elements; containers such
// as groups and graphs draw nothing of their own.
func RenderSVG(c *canvas.Canvas, opts ...SVGOption) []byte {
	r := svgRenderer{background: true, fonts: true}
	for _, opt := range opts {
		opt(&r)
	}

	f := c.Frame()
	entities := c.Entities()
	w, h := f.PixelWidth(), f.PixelHeight

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)

	if r.metadata {
		if data, err := RenderJSON(c); err == nil {
			buf.WriteString("  <metadata>")
			xml.EscapeText(&buf, data)
			buf.WriteString("</metadata>\n")
		}
	}
	if r.fonts {
		renderFontFaces(&buf, entities)
	}
	if r.background && !f.Background.None() {
		fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n", w, h, f.Background)
	}

	for _, e := range entities {
		switch v := e.(type) {
		case *shape.Line:
			renderPath(&buf, f, &v.Shape)
		case *shape.Shape:
			renderPath(&buf, f, v)
		case *text.Text:
			renderText(&buf, f, v)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderFontFaces(buf *bytes.Buffer, entities []scene.Entity) {
	var faces []fonts.Face
	for _, e := range entities {
		t, ok := e.(*text.Text)
		if !ok {
			continue
		}
		if face := t.Face(); face.Embedded() && !slices.Contains(faces, face) {
			faces = append(faces, face)
		}
	}
	if len(faces) == 0 {
		return
	}
	buf.WriteString("  <defs>\n    <style>\n")
	for _, face := range faces {
		fmt.Fprintf(buf, "      @font-face { font-family: %q; src: url(%s) format(\"truetype\"); }\n",
			face.CSSName(), face.DataURL())
	}
	buf.WriteString("    </style>\n  </defs>\n")
}

// PathData returns the SVG path commands for pts in pixel space: one C per
// quad, a fresh M wherever a quad does not start where the last one ended,
// and Z for closed paths.
func PathData(f config.Frame, pts []geom.Point, closed bool) string {
	quads, err := geom.Quads(pts)
	if err != nil || len(quads) == 0 {
		return ""
	}
	var b strings.Builder
	var last geom.Point
	for i, q := range quads {
		if i == 0 || !q.Start().ApproxEqual(last, 1e-9) {
			if i > 0 {
				b.WriteByte(' ')
			}
			x, y := f.ToPixel(q.Start())
			fmt.Fprintf(&b, "M %s %s", num(x), num(y))
		}
		b.WriteString(" C")
		for _, p := range q[1:] {
			x, y := f.ToPixel(p)
			fmt.Fprintf(&b, " %s %s", num(x), num(y))
		}
		last = q.End()
	}
	if closed {
		b.WriteString(" Z")
	}
	return b.String()
}

func renderPath(buf *bytes.Buffer, f config.Frame, s *shape.Shape) {
	d := PathData(f, s.Points(), s.Closed())
	if d == "" {
		return
	}
	fmt.Fprintf(buf, `  <path id="%s" d="%s"%s/>`+"\n", escapeXML(s.ID), d, paintAttrs(s.Style))
}

func paintAttrs(st style.Style) string {
	var b strings.Builder
	if st.HasFill() {
		fmt.Fprintf(&b, ` fill="%s" fill-opacity="%s"`, escapeXML(string(st.Fill)), num(opacity(st.FillOpacity)))
	} else {
		b.WriteString(` fill="none"`)
	}
	if st.HasStroke() {
		stroke := st.Stroke
		if stroke.None() {
			stroke = style.White
		}
		width := st.StrokeWidth
		if width == 0 {
			width = style.DefaultStrokeWidth
		}
		fmt.Fprintf(&b, ` stroke="%s" stroke-opacity="%s" stroke-width="%s"`,
			escapeXML(string(stroke)), num(opacity(st.StrokeOpacity)), num(width))
		if st.Dashed {
			fmt.Fprintf(&b, ` stroke-dasharray="%s"`, st.DashArray())
		}
		b.WriteString(` stroke-linejoin="round" stroke-linecap="round"`)
	} else {
		b.WriteString(` stroke="none"`)
	}
	return b.String()
}

// opacity treats an unset opacity as opaque.
func opacity(o float64) float64 {
	if o == 0 {
		return 1
	}
	return o
}

func renderText(buf *bytes.Buffer, f config.Frame, t *text.Text) {
	ax, ay := f.ToPixel(t.Anchor())
	cx, cy := f.ToPixel(t.BoxCenter())
	padX, padY := t.PaddingPixels()
	m := t.Metrics()
	face := t.Face()

	fmt.Fprintf(buf, `  <text id="%s" x="%s" y="%s" font-family="%s" font-size="%spx"`,
		escapeXML(t.ID), num(ax), num(ay), escapeXML(fontFamily(face)), num(t.FontSize()))
	if face.Bold {
		buf.WriteString(` font-weight="bold"`)
	}
	if face.Italic {
		buf.WriteString(` font-style="italic"`)
	}
	if d := t.Decoration(); d != "" && d != text.DecorationNone {
		fmt.Fprintf(buf, ` text-decoration="%s"`, d)
	}
	fmt.Fprintf(buf, ` fill="%s" fill-opacity="%s"`, escapeXML(string(t.Color())), num(opacity(t.Style.FillOpacity)))
	if h := t.Heading(); h != 0 {
		fmt.Fprintf(buf, ` transform="rotate(%s %s %s)"`, num(-h*180/math.Pi), num(cx), num(cy))
	}
	buf.WriteString(">")

	step := m.LineHeight() + t.LeadingPixels()
	for i, line := range t.Lines() {
		dy := m.Ascent + padY
		if i > 0 {
			dy = step
		}
		fmt.Fprintf(buf, `<tspan x="%s" dy="%s">`, num(ax+padX), num(dy))
		buf.WriteString(escapeXML(line))
		buf.WriteString("</tspan>")
	}
	buf.WriteString("</text>\n")
}

func fontFamily(face fonts.Face) string {
	return fmt.Sprintf("'%s', %s", face.CSSName(), face.Fallback())
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// num formats a pixel value with at most two decimals.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}

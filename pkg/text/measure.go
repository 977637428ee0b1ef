package text

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/stackdraw/pkg/errors"
	"github.com/matzehuels/stackdraw/pkg/fonts"
)

// Metrics are the vertical extents of a face in pixels.
type Metrics struct {
	Ascent  float64
	Descent float64
}

// LineHeight returns Ascent + Descent.
func (m Metrics) LineHeight() float64 { return m.Ascent + m.Descent }

// Measurer reports text extents in pixels for a face at a font size.
type Measurer interface {
	Width(s string, face fonts.Face, size float64) (float64, error)
	Metrics(face fonts.Face, size float64) (Metrics, error)
}

// FontMeasurer measures text with the embedded fonts through
// golang.org/x/image/font/opentype. It is safe for concurrent use.
type FontMeasurer struct {
	mu     sync.Mutex
	parsed map[fonts.Face]*opentype.Font
	faces  map[faceKey]font.Face
}

type faceKey struct {
	face fonts.Face
	size float64
}

// NewFontMeasurer returns a measurer with empty caches.
func NewFontMeasurer() *FontMeasurer {
	return &FontMeasurer{
		parsed: make(map[fonts.Face]*opentype.Font),
		faces:  make(map[faceKey]font.Face),
	}
}

var (
	defaultMeasurer     *FontMeasurer
	defaultMeasurerOnce sync.Once
)

// DefaultMeasurer returns the shared [FontMeasurer].
func DefaultMeasurer() *FontMeasurer {
	defaultMeasurerOnce.Do(func() { defaultMeasurer = NewFontMeasurer() })
	return defaultMeasurer
}

// Width returns the advance width of s.
func (m *FontMeasurer) Width(s string, face fonts.Face, size float64) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, err := m.face(face, size)
	if err != nil {
		return 0, err
	}
	return toFloat(font.MeasureString(f, s)), nil
}

// Metrics derives ascent and descent from the ink bounds of sample glyphs
// rather than the font's declared metrics, which reserve room for accents
// and make single lines look loose.
func (m *FontMeasurer) Metrics(face fonts.Face, size float64) (Metrics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, err := m.face(face, size)
	if err != nil {
		return Metrics{}, err
	}
	upper, _ := font.BoundString(f, "aG")
	full, _ := font.BoundString(f, "aGg")
	ascent := toFloat(upper.Max.Y - upper.Min.Y)
	return Metrics{
		Ascent:  ascent,
		Descent: toFloat(full.Max.Y-full.Min.Y) - ascent,
	}, nil
}

// face returns the cached face for (face, size). m.mu must be held.
func (m *FontMeasurer) face(face fonts.Face, size float64) (font.Face, error) {
	if size <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "font size must be positive, got %g", size)
	}
	face = face.Normalize()
	key := faceKey{face, size}
	if f, ok := m.faces[key]; ok {
		return f, nil
	}
	parsed, ok := m.parsed[face]
	if !ok {
		var err error
		if parsed, err = opentype.Parse(face.TTF()); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse font %s", face.CSSName())
		}
		m.parsed[face] = parsed
	}
	f, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load font %s at %gpx", face.CSSName(), size)
	}
	m.faces[key] = f
	return f, nil
}

func toFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

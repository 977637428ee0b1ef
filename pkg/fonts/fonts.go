// Package fonts provides the embedded font files used for text measurement
// and for @font-face rules in SVG output.
//
// Three families are available: [Sans] and [Mono] are the Go fonts shipped
// with golang.org/x/image, [Hand] is the xkcd-script handwriting font from
// https://github.com/ipython/xkcd-font. The handwriting font is referenced by
// name only; it is measured with Go Regular metrics and falls back to the
// fonts in [FallbackFontFamily] when the viewer does not have it installed.
package fonts

import (
	"encoding/base64"
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/stackdraw/pkg/errors"
)

// Family names a font family.
type Family string

const (
	Sans Family = "sans"
	Mono Family = "mono"
	Hand Family = "hand"
)

// Families lists every supported family.
var Families = []Family{Sans, Mono, Hand}

// ParseFamily resolves a family name case-insensitively. The empty string
// selects [Sans].
func ParseFamily(s string) (Family, error) {
	switch Family(strings.ToLower(strings.TrimSpace(s))) {
	case "", Sans:
		return Sans, nil
	case Mono:
		return Mono, nil
	case Hand:
		return Hand, nil
	}
	return "", errors.New(errors.ErrCodeInvalidArgument, "unknown font family %q (want sans, mono or hand)", s)
}

// Face identifies one embedded font file.
type Face struct {
	Family Family
	Bold   bool
	Italic bool
}

// Normalize maps styles a family does not ship onto the regular file. The
// handwriting font has a single style.
func (f Face) Normalize() Face {
	if f.Family == "" {
		f.Family = Sans
	}
	if f.Family == Hand {
		f.Bold, f.Italic = false, false
	}
	return f
}

// Embedded reports whether the face ships its own font file.
func (f Face) Embedded() bool { return f.Normalize().Family != Hand }

// TTF returns the TrueType data used to measure the face.
func (f Face) TTF() []byte {
	f = f.Normalize()
	switch f.Family {
	case Mono:
		switch {
		case f.Bold && f.Italic:
			return gomonobolditalic.TTF
		case f.Bold:
			return gomonobold.TTF
		case f.Italic:
			return gomonoitalic.TTF
		}
		return gomono.TTF
	}
	switch {
	case f.Bold && f.Italic:
		return gobolditalic.TTF
	case f.Bold:
		return gobold.TTF
	case f.Italic:
		return goitalic.TTF
	}
	return goregular.TTF
}

// CSSName returns the font-family name declared for the face in SVG output.
// Each style gets its own name so the @font-face rules do not collide.
func (f Face) CSSName() string {
	f = f.Normalize()
	var name string
	switch f.Family {
	case Hand:
		return FontFamily
	case Mono:
		name = "Go Mono"
	default:
		name = "Go"
	}
	if f.Bold {
		name += " Bold"
	}
	if f.Italic {
		name += " Italic"
	}
	return name
}

// Fallback returns the CSS fallback list used after the embedded face.
func (f Face) Fallback() string {
	switch f.Normalize().Family {
	case Hand:
		return FallbackFontFamily
	case Mono:
		return "monospace"
	}
	return "sans-serif"
}

var (
	dataURLs   = map[Face]string{}
	dataURLsMu sync.Mutex
)

// DataURL returns the face as a base64 TrueType data URL, or "" for faces
// that are not embedded. The result is cached after first computation.
func (f Face) DataURL() string {
	f = f.Normalize()
	if !f.Embedded() {
		return ""
	}
	dataURLsMu.Lock()
	defer dataURLsMu.Unlock()
	if u, ok := dataURLs[f]; ok {
		return u
	}
	u := "data:font/ttf;base64," + base64.StdEncoding.EncodeToString(f.TTF())
	dataURLs[f] = u
	return u
}

// FontFamily is the CSS font-family name for the xkcd-script font.
const FontFamily = "xkcd Script"

// FallbackFontFamily provides fallback fonts for systems without the embedded font.
const FallbackFontFamily = `'xkcd Script', 'Comic Sans MS', 'Bradley Hand', 'Segoe Script', sans-serif`

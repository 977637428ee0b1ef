package config

import (
	"math"
	"testing"
	"time"

	"github.com/matzehuels/stackdraw/pkg/errors"
	"github.com/matzehuels/stackdraw/pkg/geom"
	"github.com/matzehuels/stackdraw/pkg/style"
)

func TestDefaultFrame(t *testing.T) {
	f := DefaultFrame()
	if got := f.PixelWidth(); got != 1600 {
		t.Errorf("PixelWidth = %v, want 1600", got)
	}
	if got := f.FrameWidth(); math.Abs(got-8*16.0/9.0) > 1e-12 {
		t.Errorf("FrameWidth = %v", got)
	}
	if err := f.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestToPixel(t *testing.T) {
	f := DefaultFrame()
	tests := []struct {
		name   string
		center geom.Point
		p      geom.Point
		x, y   float64
	}{
		{"origin", geom.Origin, geom.Origin, 800, 450},
		{"top left", geom.Origin, geom.Pt(-f.FrameWidth()/2, 4), 0, 0},
		{"bottom right", geom.Origin, geom.Pt(f.FrameWidth()/2, -4), 1600, 900},
		{"shifted center", geom.Pt(1, 1), geom.Pt(1, 1), 800, 450},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.Center = tt.center
			x, y := f.ToPixel(tt.p)
			if math.Abs(x-tt.x) > 1e-9 || math.Abs(y-tt.y) > 1e-9 {
				t.Errorf("ToPixel(%v) = (%v, %v), want (%v, %v)", tt.p, x, y, tt.x, tt.y)
			}
		})
	}
}

func TestLengthConversions(t *testing.T) {
	f := DefaultFrame()
	if got := f.ToPixelLen(1); got != 112.5 {
		t.Errorf("ToPixelLen(1) = %v, want 112.5", got)
	}
	if got := f.ToFrameLen(112.5); got != 1 {
		t.Errorf("ToFrameLen(112.5) = %v, want 1", got)
	}
}

func TestParseFrame(t *testing.T) {
	doc := []byte(`
[canvas]
pixel_height = 450
background = "#FFFFFF"

[canvas.center]
x = 1
`)
	f, err := ParseFrame(doc)
	if err != nil {
		t.Fatal(err)
	}
	want := Frame{
		PixelHeight: 450,
		Height:      DefaultFrameHeight,
		AspectRatio: DefaultAspectRatio,
		Center:      geom.Pt(1, 0),
		Background:  style.White,
	}
	if f != want {
		t.Errorf("ParseFrame = %+v, want %+v", f, want)
	}
}

func TestParseFrameErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code errors.Code
	}{
		{"bad toml", "[canvas\n", errors.ErrCodeInvalidFormat},
		{"negative height", "[canvas]\npixel_height = -1\n", errors.ErrCodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseFrame([]byte(tt.doc)); !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoadServer(t *testing.T) {
	t.Setenv("STACKDRAW_ADDR", ":9090")
	t.Setenv("STACKDRAW_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("STACKDRAW_CACHE_TTL", "1h")

	s, err := LoadServer()
	if err != nil {
		t.Fatal(err)
	}
	if s.Addr != ":9090" || s.RedisURL != "redis://localhost:6379/0" || s.CacheTTL != time.Hour {
		t.Errorf("LoadServer = %+v", s)
	}
	if s.MongoDatabase != "stackdraw" || s.MaxBodyBytes != 1<<20 {
		t.Errorf("defaults not applied: %+v", s)
	}
}

func TestLoadServerBadDuration(t *testing.T) {
	t.Setenv("STACKDRAW_CACHE_TTL", "soon")
	if _, err := LoadServer(); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("error = %v, want INVALID_ARGUMENT", err)
	}
}

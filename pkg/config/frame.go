// Package config holds the canvas frame settings shared by layout and the
// sinks, and the environment-driven settings of the HTTP service.
//
// A [Frame] is an explicit value: constructors that need frame dimensions
// take one as a parameter, there is no package-level instance.
package config

import (
	"bytes"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/stackdraw/pkg/errors"
	"github.com/matzehuels/stackdraw/pkg/geom"
	"github.com/matzehuels/stackdraw/pkg/style"
)

// Frame defaults.
const (
	DefaultPixelHeight = 900.0
	DefaultFrameHeight = 8.0
	DefaultAspectRatio = 16.0 / 9.0
)

// Frame maps diagram space onto the output image. Diagram space is y-up with
// the frame center in the middle of the image; pixel space is y-down with
// the origin at the top left.
type Frame struct {
	PixelHeight float64     `toml:"pixel_height" json:"pixel_height,omitempty"`
	Height      float64     `toml:"frame_height" json:"frame_height,omitempty"` // diagram units
	AspectRatio float64     `toml:"aspect_ratio" json:"aspect_ratio,omitempty"`
	Center      geom.Point  `toml:"center" json:"center"`
	Background  style.Color `toml:"background" json:"background,omitempty"`
}

// DefaultFrame returns a 1600x900 pixel, 16:9 frame eight units tall on a
// black background.
func DefaultFrame() Frame {
	return Frame{
		PixelHeight: DefaultPixelHeight,
		Height:      DefaultFrameHeight,
		AspectRatio: DefaultAspectRatio,
		Background:  style.Black,
	}
}

// WithDefaults fills zero fields from [DefaultFrame].
func (f Frame) WithDefaults() Frame {
	d := DefaultFrame()
	if f.PixelHeight == 0 {
		f.PixelHeight = d.PixelHeight
	}
	if f.Height == 0 {
		f.Height = d.Height
	}
	if f.AspectRatio == 0 {
		f.AspectRatio = d.AspectRatio
	}
	if f.Background == "" {
		f.Background = d.Background
	}
	return f
}

// Validate checks that every dimension is finite and positive.
func (f Frame) Validate() error {
	if err := errors.ValidateFinite("frame", f.PixelHeight, f.Height, f.AspectRatio, f.Center.X, f.Center.Y); err != nil {
		return err
	}
	if f.PixelHeight <= 0 || f.Height <= 0 || f.AspectRatio <= 0 {
		return errors.New(errors.ErrCodeInvalidArgument,
			"frame dimensions must be positive (pixel_height=%g frame_height=%g aspect_ratio=%g)",
			f.PixelHeight, f.Height, f.AspectRatio)
	}
	return nil
}

// PixelWidth returns the image width in pixels.
func (f Frame) PixelWidth() float64 { return f.PixelHeight * f.AspectRatio }

// FrameWidth returns the visible width in diagram units.
func (f Frame) FrameWidth() float64 { return f.Height * f.AspectRatio }

// FrameHeight returns the visible height in diagram units.
func (f Frame) FrameHeight() float64 { return f.Height }

// ToPixelLen converts a diagram length to pixels.
func (f Frame) ToPixelLen(l float64) float64 { return l * f.PixelHeight / f.Height }

// ToFrameLen converts a pixel length to diagram units.
func (f Frame) ToFrameLen(px float64) float64 { return px * f.Height / f.PixelHeight }

// ToPixel maps a diagram point to pixel coordinates.
func (f Frame) ToPixel(p geom.Point) (x, y float64) {
	s := f.PixelHeight / f.Height
	x = (p.X-f.Center.X)*s + f.PixelWidth()/2
	y = -(p.Y-f.Center.Y)*s + f.PixelHeight/2
	return x, y
}

// ParseFrame decodes the [canvas] table of a TOML document. Missing fields
// take their defaults.
func ParseFrame(data []byte) (Frame, error) {
	var doc struct {
		Canvas Frame `toml:"canvas"`
	}
	if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return Frame{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse canvas table")
	}
	f := doc.Canvas.WithDefaults()
	if err := f.Validate(); err != nil {
		return Frame{}, err
	}
	return f, nil
}

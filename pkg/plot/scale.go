package plot

import "github.com/matzehuels/stackdraw/pkg/errors"

// Scale maps range values of a number line to the coordinates it displays.
type Scale interface {
	Apply(v float64) float64
	Inverse(c float64) float64
}

// Linear multiplies range values by Factor.
type Linear struct {
	Factor float64
}

var _ Scale = Linear{}

// Apply implements [Scale].
func (l Linear) Apply(v float64) float64 { return v * l.Factor }

// Inverse implements [Scale].
func (l Linear) Inverse(c float64) float64 { return c / l.Factor }

func (l Linear) validate() error {
	if err := errors.ValidateFinite("scale factor", l.Factor); err != nil {
		return err
	}
	if l.Factor == 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "scale factor must not be 0")
	}
	return nil
}

package srs

import "github.com/cockroachdb/errors"

// Error categories. Detailed errors are marked with one of these so callers
// can test them with errors.Is.
var (
	ErrUnrecognizedCRS           = errors.New("unrecognized CRS")
	ErrInvalidCRSDefinition      = errors.New("invalid CRS definition")
	ErrMissingAuthorityCode      = errors.New("missing CRS authority code")
	ErrInvalidUTMZone            = errors.New("invalid UTM zone")
	ErrUnsupportedCRSForDistance = errors.New("unsupported CRS for distance")
	ErrUnsupportedTransform      = errors.New("unsupported CRS transform")
	ErrUnknownNotation           = errors.New("unknown CRS notation")
)

func invalidf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrInvalidCRSDefinition)
}

package layer

import (
	"errors"
	"fmt"
)

// ErrUnsupportedBackend is returned when a map declares a backend no layer
// variant exists for.
var ErrUnsupportedBackend = errors.New("layer: unsupported map backend")

// ErrNilMap is returned when a layer is attached to a nil map, including a
// typed nil pointer held in a MapTarget.
var ErrNilMap = errors.New("layer: nil map target")

// ArtifactNotFoundError reports that the location returned by the renderer
// does not exist or cannot be read.
type ArtifactNotFoundError struct {
	Name     string
	Location string
	Err      error
}

func (e *ArtifactNotFoundError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("layer: %s: artifact %q not readable: %v", e.Name, e.Location, e.Err)
}

func (e *ArtifactNotFoundError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ParseError reports that an artifact's content is not GeoJSON.
type ParseError struct {
	Name     string
	Location string
	Err      error
}

func (e *ParseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("layer: %s: parse %q: %v", e.Name, e.Location, e.Err)
}

func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ConfigurationError reports an invalid constructor argument or option.
type ConfigurationError struct {
	Option string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Value == nil {
		return fmt.Sprintf("layer: invalid %s: %s", e.Option, e.Reason)
	}
	return fmt.Sprintf("layer: invalid %s %v (%T): %s", e.Option, e.Value, e.Value, e.Reason)
}

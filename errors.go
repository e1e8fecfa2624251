package otter

import (
	"errors"
	"fmt"

	"github.com/voidshard/otter/internal/mask"
	"github.com/voidshard/otter/internal/raster"
)

var (
	// ErrNoFeatures is returned when there is nothing left to work on,
	// eg. a filter removed every row
	ErrNoFeatures = fmt.Errorf("no features")

	// ErrNoIntersection is used in warnings for features that miss the map
	ErrNoIntersection = mask.ErrOutside

	// ErrBadValue is used in warnings for rows with unusable values
	ErrBadValue = fmt.Errorf("invalid value")

	// ErrNoDirectory is returned when writing into a missing directory
	ErrNoDirectory = raster.ErrNoDirectory

	// ErrNotGeoreferenced is returned for an image with no GeoTIFF tags
	// & no world file where map coordinates are needed
	ErrNotGeoreferenced = raster.ErrNotGeoreferenced
)

// ConfigError is returned for bad arguments: unknown columns, missing
// required parameters, unsupported file extensions. These are always
// raised before any raster is read or any file written.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

func configError(field, format string, args ...interface{}) error {
	return &ConfigError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// IsConfigError returns if err (or anything it wraps) is a ConfigError
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

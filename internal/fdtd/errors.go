package fdtd

import (
	"errors"
	"fmt"
)

// Configuration errors. All of them are reported before the first step.
var (
	// ErrInvalidShape indicates a grid axis too small to hold a strict interior.
	ErrInvalidShape = errors.New("fdtd: invalid grid shape")

	// ErrInvalidPulse indicates a pulse width that is not positive.
	ErrInvalidPulse = errors.New("fdtd: pulse width must be positive")

	// ErrInvalidIndex indicates a refractive index below 1.
	ErrInvalidIndex = errors.New("fdtd: refractive index must be >= 1")

	// ErrSourceOutside indicates a source cell outside the strict grid interior.
	ErrSourceOutside = errors.New("fdtd: source outside grid interior")

	// ErrInvalidRegion indicates an empty material rectangle or one leaving the grid.
	ErrInvalidRegion = errors.New("fdtd: invalid material region")

	// ErrOverlappingRegions indicates two material rectangles sharing cells.
	ErrOverlappingRegions = errors.New("fdtd: material regions overlap")

	// ErrInvalidCoefficient indicates an update coefficient outside (0, S].
	ErrInvalidCoefficient = errors.New("fdtd: update coefficient out of range")

	// ErrInvalidBoundary indicates an unknown boundary policy name.
	ErrInvalidBoundary = errors.New("fdtd: unknown boundary policy")

	// ErrInvalidMode indicates an unknown source mode name.
	ErrInvalidMode = errors.New("fdtd: unknown source mode")
)

// ConfigError wraps a configuration error with the component that raised it.
type ConfigError struct {
	Component string
	Detail    string
	Wrapped   error
}

func (e *ConfigError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Component, e.Wrapped)
	}
	return fmt.Sprintf("%s: %v (%s)", e.Component, e.Wrapped, e.Detail)
}

func (e *ConfigError) Unwrap() error {
	return e.Wrapped
}

func configErr(component string, err error, format string, args ...any) error {
	return &ConfigError{Component: component, Detail: fmt.Sprintf(format, args...), Wrapped: err}
}

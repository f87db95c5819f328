package device

import (
	"errors"
	"fmt"
)

// Domain errors for the device package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, device.ErrDeviceNotFound) {
//	    // handle not found case
//	}
var (
	// ErrDeviceNotFound is returned when a device ID does not exist.
	ErrDeviceNotFound = errors.New("device: not found")

	// ErrDeviceExists is returned when adding a device with an ID that already exists.
	ErrDeviceExists = errors.New("device: already exists")

	// ErrUnknownKind is returned when a kind discriminator is not recognised.
	ErrUnknownKind = errors.New("device: unknown kind")

	// ErrInvalidName is returned when a device name is empty.
	ErrInvalidName = errors.New("device: invalid name")

	// ErrBrightnessRange is returned when a brightness value is outside [0,100].
	ErrBrightnessRange = errors.New("device: brightness out of range")

	// ErrTemperatureRange is returned when a temperature value is outside [10,30].
	ErrTemperatureRange = errors.New("device: temperature out of range")

	// ErrInvalidMode is returned when a thermostat mode is not HEAT, COOL or OFF.
	ErrInvalidMode = errors.New("device: invalid mode")

	// ErrNotSupported is returned when a mutator is applied to a variant
	// that does not implement it (e.g. SetBrightness on a thermostat).
	ErrNotSupported = errors.New("device: operation not supported")
)

// PersistenceError reports a snapshot load or save failure.
//
// It is deliberately distinct from the validation sentinels above so callers
// can tell "the store is broken" apart from "the value was rejected" or
// "no devices exist". The registry degrades rather than crashing: in-memory
// state stays valid even when the error is non-nil.
type PersistenceError struct {
	Op   string // "load" or "save"
	Path string // snapshot file path
	Err  error  // underlying I/O or decode error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("device: snapshot %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

package device

import (
	"context"
	"time"
)

// History source values.
const (
	HistorySourceCommand = "command" // registry mutators driven by the API
	HistorySourceStartup = "startup" // snapshot load at process start
)

// HistoryEntry represents a single device state change record.
//
// Each entry stores the full status details of the device at the time of
// the change, giving a local audit trail independent of the snapshot file.
type HistoryEntry struct {
	// ID is the auto-incremented primary key for the history row.
	ID int64 `json:"id"`

	// DeviceID is the unique identifier of the device.
	DeviceID string `json:"device_id"`

	// Details is the status details snapshot at the time of the change.
	Details Details `json:"details"`

	// Source identifies how the change was recorded (command, startup).
	Source string `json:"source"`

	// CreatedAt is the timestamp of the change (UTC).
	CreatedAt time.Time `json:"created_at"`
}

// HistoryRepository stores and retrieves device state change history.
//
// Implementations must be thread-safe and use UTC timestamps. Recording is
// best-effort: callers log failures but never let them block a device
// operation.
type HistoryRepository interface {
	// Record persists a state change for the device.
	Record(ctx context.Context, deviceID string, details Details, source string) error

	// History returns recent entries for the device, newest first.
	// The limit may be clamped by the implementation.
	History(ctx context.Context, deviceID string, limit int) ([]HistoryEntry, error)
}

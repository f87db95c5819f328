package device

import "time"

// TimestampLayout is the fixed format used for last_updated values in
// status details and the snapshot file.
const TimestampLayout = "2006-01-02 15:04:05"

// Kind identifies a concrete device variant.
type Kind string

// Kind constants. The set is closed: the registry rejects anything else.
const (
	KindLight      Kind = "light"
	KindThermostat Kind = "thermostat"
	KindLock       Kind = "lock"
)

// AllKinds returns all valid kind values.
func AllKinds() []Kind {
	return []Kind{KindLight, KindThermostat, KindLock}
}

// IsValidKind returns true if k is a recognised device kind.
func IsValidKind(k Kind) bool {
	switch k {
	case KindLight, KindThermostat, KindLock:
		return true
	default:
		return false
	}
}

// Mode represents a thermostat operating mode.
type Mode string

// Mode constants.
const (
	ModeHeat Mode = "HEAT"
	ModeCool Mode = "COOL"
	ModeOff  Mode = "OFF"
)

// IsValidMode returns true if m is a recognised thermostat mode.
func IsValidMode(m Mode) bool {
	switch m {
	case ModeHeat, ModeCool, ModeOff:
		return true
	default:
		return false
	}
}

// Details is a read-only snapshot of a device's attributes, with status
// rendered as a human-readable token ("ON"/"OFF", "LOCKED"/"UNLOCKED")
// and last_updated as a TimestampLayout string.
type Details map[string]any

// Device is the control contract shared by all variants.
//
// TurnOn and TurnOff always succeed and refresh the last-updated timestamp.
// Rejected mutations (variant-specific setters) leave both the value and the
// timestamp untouched.
//
// The interface is sealed to this package via the record method; the set of
// implementations is exactly Light, Thermostat and SmartLock.
type Device interface {
	ID() string
	Name() string
	Location() string
	Kind() Kind
	On() bool
	LastUpdated() time.Time

	TurnOn()
	TurnOff()

	// StatusDetails returns all attributes relevant to the variant.
	// Read-only; no side effects.
	StatusDetails() Details

	// record produces the flat persisted form. Unexported: seals the
	// interface and keeps the snapshot schema private to this package.
	record() Record

	// clone returns an independent copy. The registry hands out clones so
	// readers never share memory with its own mutators.
	clone() Device
}

// base holds the attributes common to all variants.
type base struct {
	id          string
	name        string
	location    string
	on          bool
	lastUpdated time.Time
}

func (b *base) ID() string             { return b.id }
func (b *base) Name() string           { return b.name }
func (b *base) Location() string       { return b.location }
func (b *base) On() bool               { return b.on }
func (b *base) LastUpdated() time.Time { return b.lastUpdated }

// touch refreshes the last-updated timestamp. Called only on accepted
// mutations so rejected values never advance it.
func (b *base) touch() {
	b.lastUpdated = time.Now()
}

func newBase(id, name, location string) base {
	return base{
		id:          id,
		name:        name,
		location:    location,
		lastUpdated: time.Now(),
	}
}

// statusToken renders an on/off status as its persisted token.
func statusToken(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

// lockToken renders a locked flag as its persisted token.
func lockToken(locked bool) string {
	if locked {
		return "LOCKED"
	}
	return "UNLOCKED"
}

package device

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Fields carries the optional variant-specific construction values for Add.
// Nil fields fall back to the variant's constructor default.
type Fields struct {
	Brightness  *int     // lights; clamped into [0,100]
	Temperature *float64 // thermostats; accepted as-is
}

// Registry owns all live devices for the process, keyed by ID in insertion
// order, and persists the full snapshot through its Store on every mutation.
//
// It is constructed explicitly and injected into consumers; there is no
// package-level instance. All methods are safe for concurrent use.
type Registry struct {
	store   Store
	mu      sync.RWMutex
	devices map[string]Device
	order   []string // insertion order of device IDs
	logger  Logger
}

// NewRegistry creates an empty registry backed by the given store.
// Call Load to populate it from the persisted snapshot.
func NewRegistry(store Store) *Registry {
	return &Registry{
		store:   store,
		devices: make(map[string]Device),
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// Load replaces the in-memory collection with the persisted snapshot.
//
// A missing snapshot file yields an empty registry and nil error. A broken
// one (unreadable, corrupt JSON) also yields an empty registry but returns
// the *PersistenceError, so the composition root can warn instead of
// silently treating corruption as "no devices". Records with unrecognised
// kind discriminators are skipped and logged.
func (r *Registry) Load(ctx context.Context) error {
	records, err := r.store.Load(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.devices = make(map[string]Device, len(records))
	r.order = r.order[:0]

	if err != nil {
		return err
	}

	for _, rec := range records {
		d, buildErr := fromRecord(rec)
		if buildErr != nil {
			r.logger.Warn("skipping snapshot record", "id", rec.DeviceID, "kind", rec.Type, "error", buildErr)
			continue
		}
		if _, dup := r.devices[d.ID()]; dup {
			r.logger.Warn("skipping duplicate snapshot record", "id", d.ID())
			continue
		}
		r.devices[d.ID()] = d
		r.order = append(r.order, d.ID())
	}

	r.logger.Info("device snapshot loaded", "count", len(r.devices))
	return nil
}

// Add constructs a device of the given kind, inserts it and persists the
// snapshot. An empty ID is generated.
//
// Returns ErrUnknownKind, ErrInvalidName or ErrDeviceExists without touching
// the collection. A save failure returns the new device together with a
// *PersistenceError: the device is live in memory but the snapshot on disk
// is stale.
func (r *Registry) Add(ctx context.Context, kind Kind, id, name, location string, fields Fields) (Device, error) {
	if !IsValidKind(kind) {
		return nil, ErrUnknownKind
	}
	if name == "" {
		return nil, ErrInvalidName
	}
	if id == "" {
		id = GenerateID()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.devices[id]; exists {
		return nil, ErrDeviceExists
	}

	var d Device
	switch kind {
	case KindLight:
		brightness := defaultBrightness
		if fields.Brightness != nil {
			brightness = *fields.Brightness
		}
		d = NewLight(id, name, location, brightness)
	case KindThermostat:
		temperature := defaultTemperature
		if fields.Temperature != nil {
			temperature = *fields.Temperature
		}
		d = NewThermostat(id, name, location, temperature)
	case KindLock:
		d = NewSmartLock(id, name, location)
	}

	r.devices[id] = d
	r.order = append(r.order, id)
	r.logger.Info("device added", "id", id, "kind", kind, "name", name)

	return d.clone(), r.saveLocked(ctx)
}

// Remove deletes a device and persists the snapshot.
// Returns ErrDeviceNotFound if the ID is absent; the absent case is a no-op.
func (r *Registry) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.devices[id]; !exists {
		return ErrDeviceNotFound
	}

	delete(r.devices, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.logger.Info("device removed", "id", id)

	return r.saveLocked(ctx)
}

// Get retrieves a device by ID. The returned device is an independent copy;
// reading it never races with the registry's mutators, and writing to it
// changes nothing. Mutate through the registry's typed mutators.
func (r *Registry) Get(id string) (Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.devices[id]
	if !ok {
		return nil, ErrDeviceNotFound
	}
	return d.clone(), nil
}

// All returns a copy of every device in insertion order.
func (r *Registry) All() []Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	devices := make([]Device, 0, len(r.order))
	for _, id := range r.order {
		devices = append(devices, r.devices[id].clone())
	}
	return devices
}

// ByKind returns copies of all devices of the given kind, in insertion order.
// An unrecognised kind yields an empty slice.
func (r *Registry) ByKind(kind Kind) []Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	devices := []Device{}
	for _, id := range r.order {
		if d := r.devices[id]; d.Kind() == kind {
			devices = append(devices, d.clone())
		}
	}
	return devices
}

// ByLocation returns copies of all devices whose location matches, in
// insertion order. The match is case-insensitive on the whole location string.
func (r *Registry) ByLocation(location string) []Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	devices := []Device{}
	for _, id := range r.order {
		if d := r.devices[id]; strings.EqualFold(d.Location(), location) {
			devices = append(devices, d.clone())
		}
	}
	return devices
}

// Count returns the number of live devices.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.devices)
}

// TurnOn switches a device on (locks a lock) and persists the snapshot.
// Returns the refreshed status details.
func (r *Registry) TurnOn(ctx context.Context, id string) (Details, error) {
	return r.mutate(ctx, id, func(d Device) error {
		d.TurnOn()
		return nil
	})
}

// TurnOff switches a device off (unlocks a lock) and persists the snapshot.
// Returns the refreshed status details.
func (r *Registry) TurnOff(ctx context.Context, id string) (Details, error) {
	return r.mutate(ctx, id, func(d Device) error {
		d.TurnOff()
		return nil
	})
}

// SetBrightness sets a light's brightness and persists the snapshot.
// Returns ErrNotSupported for non-lights and ErrBrightnessRange for values
// outside [0,100]; rejected values change nothing and persist nothing.
func (r *Registry) SetBrightness(ctx context.Context, id string, level int) (Details, error) {
	return r.mutate(ctx, id, func(d Device) error {
		light, ok := d.(*Light)
		if !ok {
			return ErrNotSupported
		}
		return light.SetBrightness(level)
	})
}

// SetTemperature sets a thermostat's target temperature and persists the
// snapshot. Returns ErrNotSupported for non-thermostats and
// ErrTemperatureRange for values outside [10,30].
func (r *Registry) SetTemperature(ctx context.Context, id string, temp float64) (Details, error) {
	return r.mutate(ctx, id, func(d Device) error {
		thermostat, ok := d.(*Thermostat)
		if !ok {
			return ErrNotSupported
		}
		return thermostat.SetTemperature(temp)
	})
}

// SetMode sets a thermostat's operating mode and persists the snapshot.
// Returns ErrNotSupported for non-thermostats and ErrInvalidMode for
// unrecognised modes.
func (r *Registry) SetMode(ctx context.Context, id string, mode Mode) (Details, error) {
	return r.mutate(ctx, id, func(d Device) error {
		thermostat, ok := d.(*Thermostat)
		if !ok {
			return ErrNotSupported
		}
		return thermostat.SetMode(mode)
	})
}

// Stats returns registry statistics for monitoring.
type Stats struct {
	TotalDevices int            `json:"total_devices"`
	ByKind       map[Kind]int   `json:"by_kind"`
	ByLocation   map[string]int `json:"by_location"`
}

// GetStats returns current registry statistics.
func (r *Registry) GetStats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Stats{
		TotalDevices: len(r.devices),
		ByKind:       make(map[Kind]int),
		ByLocation:   make(map[string]int),
	}
	for _, d := range r.devices {
		stats.ByKind[d.Kind()]++
		stats.ByLocation[strings.ToLower(d.Location())]++
	}
	return stats
}

// mutate applies fn to the device under the write lock, then persists.
// A rejection from fn propagates unchanged with nothing persisted; a save
// failure returns the refreshed details with the *PersistenceError.
func (r *Registry) mutate(ctx context.Context, id string, fn func(Device) error) (Details, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.devices[id]
	if !ok {
		return nil, ErrDeviceNotFound
	}

	if err := fn(d); err != nil {
		return nil, err
	}

	return d.StatusDetails(), r.saveLocked(ctx)
}

// saveLocked serialises every live device plus its discriminator and
// overwrites the snapshot file. Callers must hold the write lock.
func (r *Registry) saveLocked(ctx context.Context) error {
	records := make([]Record, 0, len(r.order))
	for _, id := range r.order {
		records = append(records, r.devices[id].record())
	}

	if err := r.store.Save(ctx, records); err != nil {
		// In-memory state is ahead of disk from here until the next
		// successful save.
		r.logger.Error("snapshot save failed", "error", err)
		return err
	}
	return nil
}

// GenerateID returns a new unique device identifier.
func GenerateID() string {
	return "dev-" + uuid.NewString()[:8]
}

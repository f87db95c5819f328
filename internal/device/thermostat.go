package device

// Accepted setpoint range for thermostats, inclusive.
const (
	minTemperature = 10.0
	maxTemperature = 30.0
)

// Thermostat is a smart thermostat with a target temperature and a mode.
type Thermostat struct {
	base
	temperature float64
	mode        Mode
}

// NewThermostat creates a thermostat in HEAT mode.
//
// The initial temperature is accepted as-is, even outside [10,30]. Only
// SetTemperature enforces the range; the asymmetry with Light's clamped
// constructor is deliberate.
func NewThermostat(id, name, location string, temperature float64) *Thermostat {
	return &Thermostat{
		base:        newBase(id, name, location),
		temperature: temperature,
		mode:        ModeHeat,
	}
}

// Kind implements Device.
func (t *Thermostat) Kind() Kind { return KindThermostat }

// Temperature returns the current target temperature.
func (t *Thermostat) Temperature() float64 { return t.temperature }

// Mode returns the current operating mode.
func (t *Thermostat) Mode() Mode { return t.mode }

// SetTemperature sets the target temperature. Values outside [10,30] are
// rejected with ErrTemperatureRange and leave the thermostat untouched.
func (t *Thermostat) SetTemperature(temp float64) error {
	if temp < minTemperature || temp > maxTemperature {
		return ErrTemperatureRange
	}
	t.temperature = temp
	t.touch()
	return nil
}

// SetMode sets the operating mode. Anything outside {HEAT, COOL, OFF} is
// rejected with ErrInvalidMode and leaves the thermostat untouched.
func (t *Thermostat) SetMode(mode Mode) error {
	if !IsValidMode(mode) {
		return ErrInvalidMode
	}
	t.mode = mode
	t.touch()
	return nil
}

// TurnOn implements Device. Turning on forces HEAT mode.
func (t *Thermostat) TurnOn() {
	t.on = true
	t.mode = ModeHeat
	t.touch()
}

// TurnOff implements Device. Turning off forces OFF mode.
func (t *Thermostat) TurnOff() {
	t.on = false
	t.mode = ModeOff
	t.touch()
}

// StatusDetails implements Device.
func (t *Thermostat) StatusDetails() Details {
	return Details{
		"device_id":    t.id,
		"name":         t.name,
		"location":     t.location,
		"status":       statusToken(t.on),
		"temperature":  t.temperature,
		"mode":         string(t.mode),
		"last_updated": t.lastUpdated.Format(TimestampLayout),
	}
}

func (t *Thermostat) clone() Device {
	c := *t
	return &c
}

func (t *Thermostat) record() Record {
	temp := t.temperature
	mode := string(t.mode)
	return Record{
		Type:        KindThermostat,
		DeviceID:    t.id,
		Name:        t.name,
		Location:    t.location,
		Status:      statusToken(t.on),
		Temperature: &temp,
		Mode:        &mode,
		LastUpdated: t.lastUpdated.Format(TimestampLayout),
	}
}

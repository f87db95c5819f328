package device

// Brightness bounds for lights.
const (
	minBrightness = 0
	maxBrightness = 100
)

// Light is a dimmable smart light.
type Light struct {
	base
	brightness int
}

// NewLight creates a light. The initial brightness is clamped into [0,100]
// rather than rejected, so construction never fails.
func NewLight(id, name, location string, brightness int) *Light {
	return &Light{
		base:       newBase(id, name, location),
		brightness: clampBrightness(brightness),
	}
}

// Kind implements Device.
func (l *Light) Kind() Kind { return KindLight }

// Brightness returns the current brightness level.
func (l *Light) Brightness() int { return l.brightness }

// SetBrightness sets the brightness level. Values outside [0,100] are
// rejected with ErrBrightnessRange and leave the light untouched.
func (l *Light) SetBrightness(level int) error {
	if level < minBrightness || level > maxBrightness {
		return ErrBrightnessRange
	}
	l.brightness = level
	l.touch()
	return nil
}

// TurnOn implements Device.
func (l *Light) TurnOn() {
	l.on = true
	l.touch()
}

// TurnOff implements Device.
func (l *Light) TurnOff() {
	l.on = false
	l.touch()
}

// StatusDetails implements Device.
func (l *Light) StatusDetails() Details {
	return Details{
		"device_id":    l.id,
		"name":         l.name,
		"location":     l.location,
		"status":       statusToken(l.on),
		"brightness":   l.brightness,
		"last_updated": l.lastUpdated.Format(TimestampLayout),
	}
}

func (l *Light) record() Record {
	b := l.brightness
	return Record{
		Type:        KindLight,
		DeviceID:    l.id,
		Name:        l.name,
		Location:    l.location,
		Status:      statusToken(l.on),
		Brightness:  &b,
		LastUpdated: l.lastUpdated.Format(TimestampLayout),
	}
}

func (l *Light) clone() Device {
	c := *l
	return &c
}

func clampBrightness(level int) int {
	if level < minBrightness {
		return minBrightness
	}
	if level > maxBrightness {
		return maxBrightness
	}
	return level
}

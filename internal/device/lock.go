package device

// SmartLock is a door lock. Locking state is driven entirely by
// TurnOn (lock) and TurnOff (unlock); there are no extra mutators.
type SmartLock struct {
	base
	locked bool
}

// NewSmartLock creates a lock. New locks start locked.
func NewSmartLock(id, name, location string) *SmartLock {
	return &SmartLock{
		base:   newBase(id, name, location),
		locked: true,
	}
}

// Kind implements Device.
func (s *SmartLock) Kind() Kind { return KindLock }

// Locked returns true if the lock is engaged.
func (s *SmartLock) Locked() bool { return s.locked }

// TurnOn implements Device: it locks the door.
func (s *SmartLock) TurnOn() {
	s.on = true
	s.locked = true
	s.touch()
}

// TurnOff implements Device: it unlocks the door.
func (s *SmartLock) TurnOff() {
	s.on = false
	s.locked = false
	s.touch()
}

// StatusDetails implements Device. The status token reflects the locked
// flag, not the on flag.
func (s *SmartLock) StatusDetails() Details {
	return Details{
		"device_id":    s.id,
		"name":         s.name,
		"location":     s.location,
		"status":       lockToken(s.locked),
		"last_updated": s.lastUpdated.Format(TimestampLayout),
	}
}

func (s *SmartLock) clone() Device {
	c := *s
	return &c
}

func (s *SmartLock) record() Record {
	return Record{
		Type:        KindLock,
		DeviceID:    s.id,
		Name:        s.name,
		Location:    s.location,
		Status:      lockToken(s.locked),
		LastUpdated: s.lastUpdated.Format(TimestampLayout),
	}
}

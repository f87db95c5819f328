package device

import (
	"errors"
	"testing"
	"time"
)

func TestLight_BrightnessClampedAtConstruction(t *testing.T) {
	tests := []struct {
		name  string
		input int
		want  int
	}{
		{"below range clamps to 0", -20, 0},
		{"zero stays", 0, 0},
		{"mid range stays", 60, 60},
		{"max stays", 100, 100},
		{"above range clamps to 100", 150, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLight("l1", "Desk Lamp", "Office", tt.input)
			if l.Brightness() != tt.want {
				t.Errorf("Brightness() = %d, want %d", l.Brightness(), tt.want)
			}
		})
	}
}

func TestLight_SetBrightness(t *testing.T) {
	tests := []struct {
		name    string
		level   int
		wantErr bool
	}{
		{"lower bound accepted", 0, false},
		{"mid value accepted", 42, false},
		{"upper bound accepted", 100, false},
		{"negative rejected", -1, true},
		{"above range rejected", 101, true},
		{"far above range rejected", 150, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLight("l1", "Desk Lamp", "Office", 75)
			before := l.Brightness()
			beforeTime := l.LastUpdated()

			err := l.SetBrightness(tt.level)
			if tt.wantErr {
				if !errors.Is(err, ErrBrightnessRange) {
					t.Fatalf("SetBrightness(%d) error = %v, want ErrBrightnessRange", tt.level, err)
				}
				if l.Brightness() != before {
					t.Errorf("Brightness() = %d after rejection, want unchanged %d", l.Brightness(), before)
				}
				if !l.LastUpdated().Equal(beforeTime) {
					t.Error("LastUpdated changed on rejected mutation")
				}
				return
			}

			if err != nil {
				t.Fatalf("SetBrightness(%d) error = %v", tt.level, err)
			}
			if l.Brightness() != tt.level {
				t.Errorf("Brightness() = %d, want %d", l.Brightness(), tt.level)
			}
			if l.LastUpdated().Before(beforeTime) {
				t.Error("LastUpdated went backwards on accepted mutation")
			}
		})
	}
}

func TestThermostat_SetTemperature(t *testing.T) {
	tests := []struct {
		name    string
		temp    float64
		wantErr bool
	}{
		{"lower bound accepted", 10, false},
		{"mid value accepted", 21.5, false},
		{"upper bound accepted", 30, false},
		{"below range rejected", 9.9, true},
		{"above range rejected", 30.1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := NewThermostat("t1", "Hall Stat", "Hallway", 22)
			before := th.Temperature()
			beforeTime := th.LastUpdated()

			err := th.SetTemperature(tt.temp)
			if tt.wantErr {
				if !errors.Is(err, ErrTemperatureRange) {
					t.Fatalf("SetTemperature(%v) error = %v, want ErrTemperatureRange", tt.temp, err)
				}
				if th.Temperature() != before {
					t.Errorf("Temperature() = %v after rejection, want unchanged %v", th.Temperature(), before)
				}
				if !th.LastUpdated().Equal(beforeTime) {
					t.Error("LastUpdated changed on rejected mutation")
				}
				return
			}

			if err != nil {
				t.Fatalf("SetTemperature(%v) error = %v", tt.temp, err)
			}
			if th.Temperature() != tt.temp {
				t.Errorf("Temperature() = %v, want %v", th.Temperature(), tt.temp)
			}
		})
	}
}

func TestThermostat_UnclampedConstruction(t *testing.T) {
	// Construction accepts out-of-range temperatures as-is; only the
	// setter enforces the range.
	th := NewThermostat("t1", "Hall Stat", "Hallway", 45)
	if th.Temperature() != 45 {
		t.Errorf("Temperature() = %v, want 45", th.Temperature())
	}
	if th.Mode() != ModeHeat {
		t.Errorf("Mode() = %v, want HEAT default", th.Mode())
	}
}

func TestThermostat_SetMode(t *testing.T) {
	tests := []struct {
		name    string
		mode    Mode
		wantErr bool
	}{
		{"heat accepted", ModeHeat, false},
		{"cool accepted", ModeCool, false},
		{"off accepted", ModeOff, false},
		{"lowercase rejected", Mode("heat"), true},
		{"garbage rejected", Mode("TOAST"), true},
		{"empty rejected", Mode(""), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := NewThermostat("t1", "Hall Stat", "Hallway", 22)
			before := th.Mode()

			err := th.SetMode(tt.mode)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMode) {
					t.Fatalf("SetMode(%q) error = %v, want ErrInvalidMode", tt.mode, err)
				}
				if th.Mode() != before {
					t.Errorf("Mode() = %v after rejection, want unchanged %v", th.Mode(), before)
				}
				return
			}

			if err != nil {
				t.Fatalf("SetMode(%q) error = %v", tt.mode, err)
			}
			if th.Mode() != tt.mode {
				t.Errorf("Mode() = %v, want %v", th.Mode(), tt.mode)
			}
		})
	}
}

func TestThermostat_TurnOnOffForcesMode(t *testing.T) {
	th := NewThermostat("t1", "Hall Stat", "Hallway", 22)

	if err := th.SetMode(ModeCool); err != nil {
		t.Fatalf("SetMode() error = %v", err)
	}

	th.TurnOn()
	if !th.On() {
		t.Error("On() = false after TurnOn")
	}
	if th.Mode() != ModeHeat {
		t.Errorf("Mode() = %v after TurnOn, want HEAT", th.Mode())
	}

	th.TurnOff()
	if th.On() {
		t.Error("On() = true after TurnOff")
	}
	if th.Mode() != ModeOff {
		t.Errorf("Mode() = %v after TurnOff, want OFF", th.Mode())
	}
}

func TestSmartLock_Lockstep(t *testing.T) {
	s := NewSmartLock("k1", "Front Door", "Entrance")

	// New locks start locked but not "on": the flags converge on the
	// first mutation.
	if !s.Locked() {
		t.Error("new lock should start locked")
	}

	s.TurnOn()
	if !s.On() || !s.Locked() {
		t.Errorf("after TurnOn: On()=%v Locked()=%v, want both true", s.On(), s.Locked())
	}

	s.TurnOff()
	if s.On() || s.Locked() {
		t.Errorf("after TurnOff: On()=%v Locked()=%v, want both false", s.On(), s.Locked())
	}
}

func TestDevice_TurnOnIdempotent(t *testing.T) {
	devices := []Device{
		NewLight("l1", "Lamp", "Office", 50),
		NewThermostat("t1", "Stat", "Hallway", 22),
		NewSmartLock("k1", "Door", "Entrance"),
	}

	for _, d := range devices {
		t.Run(string(d.Kind()), func(t *testing.T) {
			d.TurnOn()
			first := d.StatusDetails()
			d.TurnOn()
			second := d.StatusDetails()

			// Ignore the timestamp; every other field must be identical.
			delete(first, "last_updated")
			delete(second, "last_updated")
			if len(first) != len(second) {
				t.Fatalf("details changed shape: %v vs %v", first, second)
			}
			for k, v := range first {
				if second[k] != v {
					t.Errorf("details[%q] = %v after second TurnOn, want %v", k, second[k], v)
				}
			}
		})
	}
}

func TestDevice_StatusDetails(t *testing.T) {
	t.Run("light", func(t *testing.T) {
		l := NewLight("l1", "Desk Lamp", "Office", 80)
		l.TurnOn()
		details := l.StatusDetails()

		if details["device_id"] != "l1" || details["name"] != "Desk Lamp" || details["location"] != "Office" {
			t.Errorf("identity fields wrong: %v", details)
		}
		if details["status"] != "ON" {
			t.Errorf("status = %v, want ON", details["status"])
		}
		if details["brightness"] != 80 {
			t.Errorf("brightness = %v, want 80", details["brightness"])
		}
		if _, err := time.Parse(TimestampLayout, details["last_updated"].(string)); err != nil {
			t.Errorf("last_updated not in fixed format: %v", err)
		}
	})

	t.Run("lock uses locked tokens", func(t *testing.T) {
		s := NewSmartLock("k1", "Front Door", "Entrance")
		if got := s.StatusDetails()["status"]; got != "LOCKED" {
			t.Errorf("status = %v, want LOCKED", got)
		}
		s.TurnOff()
		if got := s.StatusDetails()["status"]; got != "UNLOCKED" {
			t.Errorf("status = %v, want UNLOCKED", got)
		}
	})
}

func TestKindAndModeValidation(t *testing.T) {
	for _, k := range AllKinds() {
		if !IsValidKind(k) {
			t.Errorf("IsValidKind(%q) = false for declared kind", k)
		}
	}
	if IsValidKind("toaster") {
		t.Error("IsValidKind accepted unknown kind")
	}
	if IsValidMode("AUTO") {
		t.Error("IsValidMode accepted unknown mode")
	}
}

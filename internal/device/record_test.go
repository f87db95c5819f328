package device

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestFromRecord_Defaults(t *testing.T) {
	t.Run("light without brightness", func(t *testing.T) {
		d, err := fromRecord(Record{Type: KindLight, DeviceID: "l1", Name: "Lamp", Status: "OFF"})
		if err != nil {
			t.Fatalf("fromRecord() error = %v", err)
		}
		if d.(*Light).Brightness() != 100 {
			t.Errorf("Brightness() = %d, want default 100", d.(*Light).Brightness())
		}
	})

	t.Run("thermostat without temperature or mode", func(t *testing.T) {
		d, err := fromRecord(Record{Type: KindThermostat, DeviceID: "t1", Name: "Stat", Status: "OFF"})
		if err != nil {
			t.Fatalf("fromRecord() error = %v", err)
		}
		th := d.(*Thermostat)
		if th.Temperature() != 22.0 {
			t.Errorf("Temperature() = %v, want default 22.0", th.Temperature())
		}
		if th.Mode() != ModeHeat {
			t.Errorf("Mode() = %v, want default HEAT", th.Mode())
		}
	})

	t.Run("thermostat with invalid mode keeps default", func(t *testing.T) {
		bad := "TOAST"
		d, err := fromRecord(Record{Type: KindThermostat, DeviceID: "t1", Name: "Stat", Status: "OFF", Mode: &bad})
		if err != nil {
			t.Fatalf("fromRecord() error = %v", err)
		}
		if d.(*Thermostat).Mode() != ModeHeat {
			t.Errorf("Mode() = %v, want HEAT for unrecognised persisted mode", d.(*Thermostat).Mode())
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		if _, err := fromRecord(Record{Type: Kind("toaster")}); !errors.Is(err, ErrUnknownKind) {
			t.Errorf("fromRecord() error = %v, want ErrUnknownKind", err)
		}
	})
}

// A registry saved through a real JSON store and reloaded into a fresh one
// must come back with identical identity, state and order.
func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "devices.json")

	first := NewRegistry(NewJSONStore(path))
	mustAdd(t, first, KindLight, "l1", "Lamp", "Office", Fields{Brightness: intPtr(35)})
	mustAdd(t, first, KindThermostat, "t1", "Stat", "Hallway", Fields{Temperature: floatPtr(19)})
	mustAdd(t, first, KindLock, "k1", "Door", "Entrance", Fields{})

	if _, err := first.TurnOn(ctx, "l1"); err != nil {
		t.Fatalf("TurnOn() error = %v", err)
	}
	if _, err := first.SetMode(ctx, "t1", ModeCool); err != nil {
		t.Fatalf("SetMode() error = %v", err)
	}
	if _, err := first.TurnOff(ctx, "k1"); err != nil {
		t.Fatalf("TurnOff() error = %v", err)
	}

	second := NewRegistry(NewJSONStore(path))
	if err := second.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if second.Count() != 3 {
		t.Fatalf("Count() = %d after reload, want 3", second.Count())
	}
	for i, d := range second.All() {
		want := []string{"l1", "t1", "k1"}[i]
		if d.ID() != want {
			t.Errorf("All()[%d] = %q, want %q", i, d.ID(), want)
		}
	}

	light, _ := second.Get("l1")
	if !light.On() || light.(*Light).Brightness() != 35 {
		t.Errorf("light reloaded as On=%v Brightness=%d", light.On(), light.(*Light).Brightness())
	}

	stat, _ := second.Get("t1")
	if stat.(*Thermostat).Mode() != ModeCool || stat.(*Thermostat).Temperature() != 19.0 {
		t.Errorf("thermostat reloaded as Mode=%v Temp=%v", stat.(*Thermostat).Mode(), stat.(*Thermostat).Temperature())
	}

	lock, _ := second.Get("k1")
	if lock.(*SmartLock).Locked() || lock.On() {
		t.Errorf("lock reloaded as Locked=%v On=%v, want both false", lock.(*SmartLock).Locked(), lock.On())
	}
}

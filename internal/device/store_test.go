package device

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestJSONStore_MissingFileIsEmpty(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "devices.json"))

	records, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v, want nil for missing file", err)
	}
	if len(records) != 0 {
		t.Errorf("Load() returned %d records, want 0", len(records))
	}
}

func TestJSONStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "devices.json")
	store := NewJSONStore(path)

	brightness := 60
	temperature := 21.5
	mode := "COOL"
	in := []Record{
		{Type: KindLight, DeviceID: "l1", Name: "Lamp", Location: "Office", Status: "ON", Brightness: &brightness, LastUpdated: "2026-01-15 09:30:00"},
		{Type: KindThermostat, DeviceID: "t1", Name: "Stat", Location: "Hallway", Status: "OFF", Temperature: &temperature, Mode: &mode},
		{Type: KindLock, DeviceID: "k1", Name: "Door", Location: "Entrance", Status: "LOCKED"},
	}

	if err := store.Save(ctx, in); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	out, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("Load() returned %d records, want %d", len(out), len(in))
	}

	if out[0].DeviceID != "l1" || out[0].Brightness == nil || *out[0].Brightness != 60 {
		t.Errorf("light record did not round-trip: %+v", out[0])
	}
	if out[0].LastUpdated != "2026-01-15 09:30:00" {
		t.Errorf("LastUpdated = %q, want verbatim timestamp string", out[0].LastUpdated)
	}
	if out[1].Temperature == nil || *out[1].Temperature != 21.5 || out[1].Mode == nil || *out[1].Mode != "COOL" {
		t.Errorf("thermostat record did not round-trip: %+v", out[1])
	}
	if out[2].Status != "LOCKED" {
		t.Errorf("lock status = %q, want LOCKED", out[2].Status)
	}
}

func TestJSONStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devices.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	store := NewJSONStore(path)

	_, err := store.Load(context.Background())
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("Load() error = %v, want *PersistenceError", err)
	}
	if perr.Op != "load" || perr.Path != path {
		t.Errorf("PersistenceError = {Op:%q Path:%q}, want load error for %q", perr.Op, perr.Path, path)
	}
}

func TestJSONStore_SaveCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "devices.json")
	store := NewJSONStore(path)

	if err := store.Save(context.Background(), []Record{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("snapshot file not created: %v", err)
	}
}

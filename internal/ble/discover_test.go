package ble

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDiscover(t *testing.T) {
	adapter := newMockAdapter([]Device{
		{Name: "ENGO 2 A1", Address: "AA:BB:CC:DD:EE:01", RSSI: -70},
		{Name: "Speaker", Address: "AA:BB:CC:DD:EE:02", RSSI: -30},
		{Name: "ENGO 2 B2", Address: "AA:BB:CC:DD:EE:03", RSSI: -45},
	})

	devices, err := Discover(context.Background(), adapter, DefaultNamePrefix, 5*time.Second)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("got %d devices, want 2", len(devices))
	}
	if devices[0].Name != "ENGO 2 B2" {
		t.Errorf("first device = %q, want the strongest signal %q", devices[0].Name, "ENGO 2 B2")
	}
	if devices[1].Address != "AA:BB:CC:DD:EE:01" {
		t.Errorf("second device address = %q, want %q", devices[1].Address, "AA:BB:CC:DD:EE:01")
	}
	if adapter.scanned != ServiceUUID {
		t.Errorf("scanned service = %q, want %q", adapter.scanned, ServiceUUID)
	}
}

func TestDiscoverEmptyPrefixMatchesAll(t *testing.T) {
	adapter := newMockAdapter([]Device{{Name: "Speaker", Address: "AA:BB:CC:DD:EE:02"}})

	devices, err := Discover(context.Background(), adapter, "", time.Second)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(devices) != 1 {
		t.Errorf("got %d devices, want 1", len(devices))
	}
}

func TestDiscoverNotFound(t *testing.T) {
	tests := []struct {
		name    string
		devices []Device
	}{
		{"no devices", nil},
		{"no matching name", []Device{{Name: "Speaker", Address: "AA:BB:CC:DD:EE:02"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Discover(context.Background(), newMockAdapter(tt.devices), DefaultNamePrefix, time.Second)
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestDiscoverEnableError(t *testing.T) {
	adapter := newMockAdapter(nil)
	adapter.enableErr = errors.New("powered off")

	_, err := Discover(context.Background(), adapter, DefaultNamePrefix, time.Second)
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want enable error", err)
	}
}

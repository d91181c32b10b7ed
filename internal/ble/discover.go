package ble

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
)

// DefaultNamePrefix is the advertised name prefix of the glasses.
const DefaultNamePrefix = "ENGO"

// ErrNotFound is returned when a scan finds no matching device.
var ErrNotFound = errors.New("ble: no matching device found")

// Discover scans for devices advertising the glasses service whose name
// starts with namePrefix. Results are ordered by signal strength, strongest
// first. An empty namePrefix matches every device.
func Discover(ctx context.Context, adapter Adapter, namePrefix string, timeout time.Duration) ([]Device, error) {
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("ble: enable adapter: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	devices, err := adapter.Scan(ctx, ServiceUUID)
	if err != nil {
		return nil, fmt.Errorf("ble: scan: %w", err)
	}

	var matched []Device
	for _, d := range devices {
		if strings.HasPrefix(d.Name, namePrefix) {
			matched = append(matched, d)
		}
	}
	if len(matched) == 0 {
		return nil, fmt.Errorf("%w: prefix %q among %d devices", ErrNotFound, namePrefix, len(devices))
	}

	slices.SortStableFunc(matched, func(a, b Device) int {
		return cmp.Compare(b.RSSI, a.RSSI)
	})
	slog.Debug("[BLE] discovery finished", "matched", len(matched), "seen", len(devices))
	return matched, nil
}

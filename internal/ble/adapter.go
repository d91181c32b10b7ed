// Package ble talks to ENGO smart glasses over Bluetooth Low Energy. It
// handles discovery, connection management and the request/response flow
// of framed commands on the custom service.
package ble

import (
	"context"

	"github.com/chaz8081/engoctl/internal/ble/gatt"
)

// Custom service UUIDs as strings, in the form the adapter expects.
var (
	ServiceUUID = gatt.CustomServiceUUID.String()
	RxCharUUID  = gatt.RxUUID.String()
	TxCharUUID  = gatt.TxUUID.String()
)

// Characteristic represents a BLE GATT characteristic.
type Characteristic interface {
	// Write sends data to the characteristic.
	Write(data []byte) error
	// Read returns the current value of the characteristic.
	Read() ([]byte, error)
	// Subscribe registers a callback for notifications on this characteristic.
	Subscribe(callback func(data []byte)) error
}

// Device represents a discovered BLE peripheral. Address is a MAC address
// on Linux and Windows and a CoreBluetooth UUID on macOS.
type Device struct {
	Name    string
	Address string
	RSSI    int
}

// Connection represents an active BLE connection to a peripheral.
type Connection interface {
	// DiscoverCharacteristic finds a characteristic by UUID within a service.
	DiscoverCharacteristic(serviceUUID, charUUID string) (Characteristic, error)
	// Disconnect terminates the connection.
	Disconnect() error
	// OnDisconnect registers a callback invoked when the connection drops.
	OnDisconnect(callback func())
}

// Adapter abstracts the BLE hardware adapter for testing.
type Adapter interface {
	// Enable powers on the BLE adapter.
	Enable() error
	// Scan discovers BLE peripherals advertising the given service UUID.
	// Returns discovered devices until ctx is cancelled or timeout.
	Scan(ctx context.Context, serviceUUID string) ([]Device, error)
	// Connect establishes a connection to the device with the given address.
	Connect(ctx context.Context, address string) (Connection, error)
}

package glasses

import (
	"context"
	"fmt"

	"github.com/chaz8081/engoctl/internal/ble/gatt"
	"github.com/chaz8081/engoctl/internal/ble/protocol"
)

// Battery returns the charge in percent, as reported by the protocol
// battery command.
func (c *Client) Battery(ctx context.Context) (uint8, error) {
	b, err := query[protocol.BatteryLevel](ctx, c, protocol.Battery())
	return b.Level, err
}

func (c *Client) Version(ctx context.Context) (protocol.VersionInfo, error) {
	return query[protocol.VersionInfo](ctx, c, protocol.Version())
}

func (c *Client) DeviceInfo(ctx context.Context, param protocol.DeviceInfoParam) (protocol.DeviceInfo, error) {
	return query[protocol.DeviceInfo](ctx, c, protocol.DeviceInfoRequest(param))
}

// Shutdown powers the glasses off. key is the firmware unlock key.
func (c *Client) Shutdown(ctx context.Context, key []byte) error {
	return c.send(ctx, protocol.Shutdown(key))
}

// Reset reboots the glasses. key is the firmware unlock key.
func (c *Client) Reset(ctx context.Context, key []byte) error {
	return c.send(ctx, protocol.Reset(key))
}

// BatteryLevel reads the standard GATT battery level characteristic.
func (c *Client) BatteryLevel(ctx context.Context) (uint8, error) {
	v, err := c.read(ctx, gatt.ServiceBattery, gatt.CharBatteryLevel)
	if err != nil {
		return 0, err
	}
	return uint8(v.Uint), nil
}

// DeviceInformation holds the strings of the GATT device information
// service.
type DeviceInformation struct {
	Manufacturer    string
	Model           string
	HardwareVersion string
	FirmwareVersion string
	SoftwareVersion string
}

// DeviceInformation reads every characteristic of the device information
// service.
func (c *Client) DeviceInformation(ctx context.Context) (DeviceInformation, error) {
	var info DeviceInformation
	fields := []struct {
		name string
		dst  *string
	}{
		{gatt.CharManufacturerName, &info.Manufacturer},
		{gatt.CharModelNumber, &info.Model},
		{gatt.CharHardwareVersion, &info.HardwareVersion},
		{gatt.CharFirmwareVersion, &info.FirmwareVersion},
		{gatt.CharSoftwareVersion, &info.SoftwareVersion},
	}
	for _, f := range fields {
		v, err := c.read(ctx, gatt.ServiceDeviceInformation, f.name)
		if err != nil {
			return DeviceInformation{}, err
		}
		*f.dst = v.Str
	}
	return info, nil
}

func (c *Client) read(ctx context.Context, service, name string) (gatt.Value, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	v, err := c.req.ReadCharacteristic(ctx, service, name)
	if err != nil {
		return gatt.Value{}, fmt.Errorf("glasses: read %s: %w", name, err)
	}
	return v, nil
}

// Package gatt describes the GATT services exposed by the glasses and decodes
// the simple values read from them.
package gatt

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a service or characteristic is not in the
// catalog, or does not support the requested property.
var ErrNotFound = errors.New("gatt: characteristic not found")

// Property is a set of GATT access properties.
type Property uint8

const (
	PropRead Property = 1 << iota
	PropWrite
	PropWriteWithoutResponse
	PropNotify
)

// Has reports whether p includes every property in q.
func (p Property) Has(q Property) bool { return p&q == q }

func (p Property) String() string {
	var parts []string
	if p.Has(PropRead) {
		parts = append(parts, "read")
	}
	if p.Has(PropWrite) {
		parts = append(parts, "write")
	}
	if p.Has(PropWriteWithoutResponse) {
		parts = append(parts, "write-without-response")
	}
	if p.Has(PropNotify) {
		parts = append(parts, "notify")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ValueType is the semantic type of a characteristic value.
type ValueType uint8

const (
	TypeOpaque ValueType = iota
	TypeString
	TypeUint8
	TypeUint16
	TypeUint32
)

func (t ValueType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeUint8:
		return "uint8"
	case TypeUint16:
		return "uint16"
	case TypeUint32:
		return "uint32"
	default:
		return "opaque"
	}
}

// CharacteristicSpec describes one characteristic.
type CharacteristicSpec struct {
	Name  string
	UUID  uuid.UUID
	Type  ValueType
	Props Property
}

// ServiceSpec describes one service and its characteristics.
type ServiceSpec struct {
	Name            string
	UUID            uuid.UUID
	Characteristics []CharacteristicSpec
}

// Service and characteristic names accepted by Lookup.
const (
	ServiceDeviceInformation = "device_information"
	ServiceCustom            = "custom"
	ServiceBattery           = "battery"

	CharManufacturerName = "manufacturer_name"
	CharModelNumber      = "model_number"
	CharHardwareVersion  = "hardware_version"
	CharFirmwareVersion  = "firmware_version"
	CharSoftwareVersion  = "software_version"
	CharTx               = "tx"
	CharRx               = "rx"
	CharControl          = "control"
	CharGestureEvent     = "gesture_event"
	CharTouchEvent       = "touch_event"
	CharBatteryLevel     = "battery_level"
)

// uuid16 expands a 16-bit assigned number onto the Bluetooth base UUID.
func uuid16(short uint16) uuid.UUID {
	u := uuid.MustParse("00000000-0000-1000-8000-00805f9b34fb")
	u[2] = byte(short >> 8)
	u[3] = byte(short)
	return u
}

// Well-known UUIDs of the glasses.
var (
	DeviceInformationUUID = uuid16(0x180A)
	BatteryServiceUUID    = uuid16(0x180F)
	CustomServiceUUID     = uuid.MustParse("0783b03e-8535-b5a0-7140-a304d2495cb7")
	TxUUID                = uuid.MustParse("0783b03e-8535-b5a0-7140-a304d2495cb8")
	ControlUUID           = uuid.MustParse("0783b03e-8535-b5a0-7140-a304d2495cb9")
	RxUUID                = uuid.MustParse("0783b03e-8535-b5a0-7140-a304d2495cba")
	GestureEventUUID      = uuid.MustParse("0783b03e-8535-b5a0-7140-a304d2495cbb")
	TouchEventUUID        = uuid.MustParse("0783b03e-8535-b5a0-7140-a304d2495cbc")
)

var catalog = []ServiceSpec{
	{
		Name: ServiceDeviceInformation,
		UUID: DeviceInformationUUID,
		Characteristics: []CharacteristicSpec{
			{Name: CharManufacturerName, UUID: uuid16(0x2A29), Type: TypeString, Props: PropRead},
			{Name: CharModelNumber, UUID: uuid16(0x2A24), Type: TypeString, Props: PropRead},
			{Name: CharHardwareVersion, UUID: uuid16(0x2A27), Type: TypeString, Props: PropRead},
			{Name: CharFirmwareVersion, UUID: uuid16(0x2A26), Type: TypeString, Props: PropRead},
			{Name: CharSoftwareVersion, UUID: uuid16(0x2A28), Type: TypeString, Props: PropRead},
		},
	},
	{
		Name: ServiceCustom,
		UUID: CustomServiceUUID,
		Characteristics: []CharacteristicSpec{
			{Name: CharTx, UUID: TxUUID, Type: TypeOpaque, Props: PropNotify},
			{Name: CharRx, UUID: RxUUID, Type: TypeOpaque, Props: PropWrite | PropWriteWithoutResponse},
			{Name: CharControl, UUID: ControlUUID, Type: TypeUint8, Props: PropNotify},
			{Name: CharGestureEvent, UUID: GestureEventUUID, Type: TypeUint8, Props: PropNotify},
			{Name: CharTouchEvent, UUID: TouchEventUUID, Type: TypeUint8, Props: PropNotify},
		},
	},
	{
		Name: ServiceBattery,
		UUID: BatteryServiceUUID,
		Characteristics: []CharacteristicSpec{
			{Name: CharBatteryLevel, UUID: uuid16(0x2A19), Type: TypeUint8, Props: PropRead | PropNotify},
		},
	},
}

// Services returns every service in the catalog.
func Services() []ServiceSpec {
	out := make([]ServiceSpec, len(catalog))
	copy(out, catalog)
	return out
}

// Service returns the service with the given name.
func Service(name string) (ServiceSpec, bool) {
	for _, s := range catalog {
		if s.Name == name {
			return s, true
		}
	}
	return ServiceSpec{}, false
}

// Lookup returns the characteristic of service that supports every property
// in prop. A miss reports false; callers that need an error wrap ErrNotFound.
func Lookup(service, characteristic string, prop Property) (CharacteristicSpec, bool) {
	s, ok := Service(service)
	if !ok {
		return CharacteristicSpec{}, false
	}
	for _, c := range s.Characteristics {
		if c.Name == characteristic && c.Props.Has(prop) {
			return c, true
		}
	}
	return CharacteristicSpec{}, false
}

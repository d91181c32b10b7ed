package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is a decoded notification. Every record knows the opcode it was
// decoded from.
type Record interface {
	Opcode() byte
}

// BatteryLevel is the battery charge in percent.
type BatteryLevel struct {
	Level uint8
}

func (BatteryLevel) Opcode() byte { return OpBattery }

// VersionInfo holds firmware and manufacturing details.
type VersionInfo struct {
	Firmware [4]uint8
	MfgYear  uint8
	MfgWeek  uint8
	Serial   [3]uint8
}

func (VersionInfo) Opcode() byte { return OpVersion }

// FirmwareString returns the firmware version as "a.b.c.d".
func (v VersionInfo) FirmwareString() string {
	parts := make([]string, len(v.Firmware))
	for i, b := range v.Firmware {
		parts[i] = strconv.Itoa(int(b))
	}
	return strings.Join(parts, ".")
}

// SerialString returns the serial bytes joined as decimal numbers,
// e.g. {10, 11, 12} becomes "101112".
func (v VersionInfo) SerialString() string {
	var sb strings.Builder
	for _, b := range v.Serial {
		sb.WriteString(strconv.Itoa(int(b)))
	}
	return sb.String()
}

// Settings is the user parameter block.
type Settings struct {
	XShift           uint8
	YShift           uint8
	Luminance        uint8
	AutoBrightness   bool
	GestureDetection bool
}

func (Settings) Opcode() byte { return OpSettings }

// ImageEntry describes one saved image.
type ImageEntry struct {
	ID     uint8
	Height uint16
	Width  uint16
}

// ImageList is the response to an image list request.
type ImageList []ImageEntry

func (ImageList) Opcode() byte { return OpImageList }

// FontEntry describes one saved font.
type FontEntry struct {
	ID     uint8
	Height uint8
}

// FontList is the response to a font list request.
type FontList []FontEntry

func (FontList) Opcode() byte { return OpFontList }

// LayoutList holds the ids of saved layouts.
type LayoutList []uint8

func (LayoutList) Opcode() byte { return OpLayoutList }

// Layout is a layout definition. It is both the argument of LayoutSave and
// the result of a layout get request. Size is the length of ExtraCommands.
type Layout struct {
	ID            uint8
	Size          uint8
	X             uint16
	Y             uint8
	Width         uint16
	Height        uint8
	ForeColor     uint8
	BackColor     uint8
	Font          uint8
	TextValid     bool
	TextX         uint16
	TextY         uint8
	TextRotation  uint8
	TextOpacity   bool
	ExtraCommands []byte
}

func (Layout) Opcode() byte { return OpLayoutGet }

// GaugeList holds the ids of saved gauges.
type GaugeList []uint8

func (GaugeList) Opcode() byte { return OpGaugeList }

// Gauge is a gauge definition.
type Gauge struct {
	X         uint16
	Y         uint16
	R         uint16
	RIn       uint16
	Start     uint8
	End       uint8
	Clockwise bool
}

func (Gauge) Opcode() byte { return OpGaugeGet }

// PageLayout places a layout on a page.
type PageLayout struct {
	LayoutID uint8
	X        uint16
	Y        uint8
}

// Page is the response to a page get request.
type Page struct {
	ID      uint8
	Layouts []PageLayout
}

func (Page) Opcode() byte { return OpPageGet }

// PageList holds the ids of saved pages.
type PageList []uint8

func (PageList) Opcode() byte { return OpPageList }

// AnimationList holds the ids of saved animations.
type AnimationList []uint8

func (AnimationList) Opcode() byte { return OpAnimationList }

// PixelCount is the number of lit pixels on the display.
type PixelCount struct {
	Count uint32
}

func (PixelCount) Opcode() byte { return OpPixelCount }

// ConfigInfo is the response to a configuration read request.
type ConfigInfo struct {
	Version uint32
	Images  uint8
	Layouts uint8
	Fonts   uint8
	Pages   uint8
	Gauges  uint8
}

func (ConfigInfo) Opcode() byte { return OpConfigRead }

// ConfigEntry describes one stored configuration.
type ConfigEntry struct {
	Name         string
	Size         uint32
	Version      uint32
	UsageCount   uint8
	InstallCount uint8
	IsSystem     bool
}

// ConfigList is the response to a configuration list request.
type ConfigList []ConfigEntry

func (ConfigList) Opcode() byte { return OpConfigList }

// ConfigFreeSpace reports configuration storage usage in bytes.
type ConfigFreeSpace struct {
	Total uint32
	Free  uint32
}

func (ConfigFreeSpace) Opcode() byte { return OpConfigFreeSpace }

// ConfigCount is the number of stored configurations.
type ConfigCount struct {
	Count uint8
}

func (ConfigCount) Opcode() byte { return OpConfigCount }

// ErrorInfo is an error notification raised by the device for a command.
type ErrorInfo struct {
	CmdID   uint8
	Code    uint8
	SubCode uint8
}

func (ErrorInfo) Opcode() byte { return OpError }

func (e ErrorInfo) String() string {
	return fmt.Sprintf("command %s failed: error 0x%02X sub-error 0x%02X", OpcodeName(e.CmdID), e.Code, e.SubCode)
}

// DeviceInfo is a device information response. The firmware gives the
// bytes no structure, so they are kept positionally.
type DeviceInfo struct {
	Values []byte
}

func (DeviceInfo) Opcode() byte { return OpDeviceInfo }

// Map labels each value by position: "parameter0", "parameter1", ...
func (d DeviceInfo) Map() map[string]uint8 {
	m := make(map[string]uint8, len(d.Values))
	for i, v := range d.Values {
		m["parameter"+strconv.Itoa(i)] = v
	}
	return m
}

// Unhandled is returned for notifications with no registered decoder.
type Unhandled struct {
	Op       byte
	Payload  []byte
	RawFrame []byte
}

func (u Unhandled) Opcode() byte { return u.Op }

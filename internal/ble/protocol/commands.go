package protocol

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Point is a display coordinate. Drawing coordinates are signed 16-bit.
type Point struct {
	X int16
	Y int16
}

// LEDState selects the behaviour of the status LED.
type LEDState uint8

const (
	LEDOff LEDState = iota
	LEDOn
	LEDToggle
	LEDBlink
)

// HoldFlush selects the graphic engine action for the hold/flush command.
type HoldFlush uint8

const (
	Hold  HoldFlush = 0
	Flush HoldFlush = 1
)

// DeviceInfoParam selects the parameter returned by the device info command.
type DeviceInfoParam uint8

const (
	InfoHardwarePlatform DeviceInfoParam = iota
	InfoManufacturer
	InfoAdvertisingManufacturerID
	InfoModel
	InfoSubModel
	InfoFirmwareVersion
	InfoSerialNumber
	InfoBatteryModel
	InfoLensModel
	InfoDisplayModel
	InfoDisplayOrientation
	InfoCertification1
	InfoCertification2
	InfoCertification3
	InfoCertification4
	InfoCertification5
	InfoCertification6
)

const (
	// ConfigNameSize is the fixed width of a configuration name.
	ConfigNameSize = 12
	// layoutHeaderSize is the fixed part of a layout definition.
	layoutHeaderSize = 17
	// MaxLayoutExtraCommands is the room left for extra commands in a layout.
	MaxLayoutExtraCommands = 126 - layoutHeaderSize
)

func newCommand(opcode byte, payload ...byte) Command {
	return Command{Opcode: opcode, LengthFormat: FormatLong, Payload: payload}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func appendU16(buf []byte, v uint16) []byte {
	return binary.BigEndian.AppendUint16(buf, v)
}

func appendI16(buf []byte, v int16) []byte {
	return binary.BigEndian.AppendUint16(buf, uint16(v))
}

func appendU32(buf []byte, v uint32) []byte {
	return binary.BigEndian.AppendUint32(buf, v)
}

// configName truncates name to ConfigNameSize bytes. Commands whose only
// field is the name send it unpadded.
func configName(name string) []byte {
	b := []byte(name)
	if len(b) > ConfigNameSize {
		b = b[:ConfigNameSize]
	}
	return b
}

// paddedConfigName returns name as a NUL-padded ConfigNameSize field, for
// commands with fields after the name.
func paddedConfigName(name string) []byte {
	b := make([]byte, ConfigNameSize)
	copy(b, configName(name))
	return b
}

// --- General ---

func DisplayPower(on bool) Command { return newCommand(OpDisplayPower, boolByte(on)) }

func ClearDisplay() Command { return newCommand(OpClearDisplay) }

// GreyLevel fills the display with level (0-15).
func GreyLevel(level uint8) Command { return newCommand(OpGreyLevel, level) }

func Demo(id uint8) Command { return newCommand(OpDemo, id) }

func Battery() Command { return newCommand(OpBattery) }

func Version() Command { return newCommand(OpVersion) }

func LED(state LEDState) Command { return newCommand(OpLED, byte(state)) }

// Shift moves the whole display by x, y pixels.
func Shift(x, y int16) Command {
	payload := appendI16(nil, x)
	payload = appendI16(payload, y)
	return newCommand(OpShift, payload...)
}

func GetSettings() Command { return newCommand(OpSettings) }

// Luminance sets the display luminance (0-15).
func Luminance(level uint8) Command { return newCommand(OpLuminance, level) }

func Sensor(on bool) Command { return newCommand(OpSensor, boolByte(on)) }

func Gesture(on bool) Command { return newCommand(OpGesture, boolByte(on)) }

func AutoBrightness(on bool) Command { return newCommand(OpAutoBrightness, boolByte(on)) }

// --- Graphics ---

func Color(color uint8) Command { return newCommand(OpColor, color) }

func DrawPoint(p Point) Command {
	return newCommand(OpPoint, appendPoints(nil, p)...)
}

func DrawLine(from, to Point) Command {
	return newCommand(OpLine, appendPoints(nil, from, to)...)
}

func DrawRect(from, to Point) Command {
	return newCommand(OpRect, appendPoints(nil, from, to)...)
}

func DrawRectFull(from, to Point) Command {
	return newCommand(OpRectFull, appendPoints(nil, from, to)...)
}

func DrawCircle(center Point, r uint8) Command {
	return newCommand(OpCircle, append(appendPoints(nil, center), r)...)
}

func DrawCircleFull(center Point, r uint8) Command {
	return newCommand(OpCircleFull, append(appendPoints(nil, center), r)...)
}

// DrawText writes UTF-8 text at p.
func DrawText(p Point, rotation, font, color uint8, text string) Command {
	payload := appendPoints(nil, p)
	payload = append(payload, rotation, font, color)
	payload = append(payload, text...)
	return newCommand(OpText, payload...)
}

// DrawPolyline draws connected lines through points.
func DrawPolyline(thickness uint8, points []Point) Command {
	payload := make([]byte, 0, 3+4*len(points))
	payload = append(payload, thickness, 0, 0)
	payload = appendPoints(payload, points...)
	return newCommand(OpPolyline, payload...)
}

func SetHoldFlush(action HoldFlush) Command { return newCommand(OpHoldFlush, byte(action)) }

func appendPoints(buf []byte, points ...Point) []byte {
	for _, p := range points {
		buf = appendI16(buf, p.X)
		buf = appendI16(buf, p.Y)
	}
	return buf
}

// --- Images ---

// ImageSave announces an image of size bytes; the image data follows in
// subsequent writes.
func ImageSave(id uint8, size uint32, width uint16, format uint8) Command {
	payload := []byte{id}
	payload = appendU32(payload, size)
	payload = appendU16(payload, width)
	payload = append(payload, format)
	return newCommand(OpImageSave, payload...)
}

func ImageDisplay(id uint8, p Point) Command {
	return newCommand(OpImageDisplay, appendPoints([]byte{id}, p)...)
}

func ImageStream(size uint32, width uint16, p Point, format uint8) Command {
	payload := appendU32(nil, size)
	payload = appendU16(payload, width)
	payload = appendPoints(payload, p)
	payload = append(payload, format)
	return newCommand(OpImageStream, payload...)
}

func ImageDelete(id uint8) Command { return newCommand(OpImageDelete, id) }

func ImageListRequest() Command { return newCommand(OpImageList) }

// --- Fonts ---

func FontListRequest() Command { return newCommand(OpFontList) }

// FontSave sends the first chunk of a font of size bytes.
func FontSave(id uint8, size uint16, data []byte) Command {
	payload := appendU16([]byte{id}, size)
	payload = append(payload, data...)
	return newCommand(OpFontSave, payload...)
}

func FontSelect(id uint8) Command { return newCommand(OpFontSelect, id) }

func FontDelete(id uint8) Command { return newCommand(OpFontDelete, id) }

// --- Layouts ---

// LayoutSave stores a layout. The size byte is always set to the length of
// l.ExtraCommands, which may not exceed MaxLayoutExtraCommands.
func LayoutSave(l Layout) (Command, error) {
	if len(l.ExtraCommands) > MaxLayoutExtraCommands {
		return Command{}, fmt.Errorf("%w: layout %d has %d bytes of extra commands, limit %d",
			ErrPayloadTooLarge, l.ID, len(l.ExtraCommands), MaxLayoutExtraCommands)
	}
	return newCommand(OpLayoutSave, encodeLayout(l)...), nil
}

func encodeLayout(l Layout) []byte {
	buf := make([]byte, 0, layoutHeaderSize+len(l.ExtraCommands))
	buf = append(buf, l.ID, byte(len(l.ExtraCommands)))
	buf = appendU16(buf, l.X)
	buf = append(buf, l.Y)
	buf = appendU16(buf, l.Width)
	buf = append(buf, l.Height, l.ForeColor, l.BackColor, l.Font, boolByte(l.TextValid))
	buf = appendU16(buf, l.TextX)
	buf = append(buf, l.TextY, l.TextRotation, boolByte(l.TextOpacity))
	return append(buf, l.ExtraCommands...)
}

func LayoutDelete(id uint8) Command { return newCommand(OpLayoutDelete, id) }

func LayoutDisplay(id uint8, text string) Command {
	return newCommand(OpLayoutDisplay, append([]byte{id}, text...)...)
}

func LayoutClear(id uint8) Command { return newCommand(OpLayoutClear, id) }

func LayoutListRequest() Command { return newCommand(OpLayoutList) }

// LayoutPosition moves a saved layout to x, y.
func LayoutPosition(id uint8, x uint16, y uint8) Command {
	return newCommand(OpLayoutPosition, layoutAt(id, x, y)...)
}

func LayoutDisplayExtended(id uint8, x uint16, y uint8, text string, extra []byte) Command {
	return newCommand(OpLayoutDisplayExtended, layoutTextAt(id, x, y, text, extra)...)
}

func LayoutGet(id uint8) Command { return newCommand(OpLayoutGet, id) }

func LayoutClearExtended(id uint8, x uint16, y uint8) Command {
	return newCommand(OpLayoutClearExtended, layoutAt(id, x, y)...)
}

func LayoutClearAndDisplay(id uint8, text string) Command {
	return newCommand(OpLayoutClearAndDisplay, append([]byte{id}, text...)...)
}

func LayoutClearAndDisplayExtended(id uint8, x uint16, y uint8, text string, extra []byte) Command {
	return newCommand(OpLayoutClearAndDisplayExtended, layoutTextAt(id, x, y, text, extra)...)
}

func layoutAt(id uint8, x uint16, y uint8) []byte {
	return append(appendU16([]byte{id}, x), y)
}

func layoutTextAt(id uint8, x uint16, y uint8, text string, extra []byte) []byte {
	buf := layoutAt(id, x, y)
	buf = append(buf, text...)
	return append(buf, extra...)
}

// --- Gauges ---

func GaugeDisplay(id, value uint8) Command { return newCommand(OpGaugeDisplay, id, value) }

// GaugeSave stores a gauge. This command uses the short length format.
func GaugeSave(id uint8, g Gauge) Command {
	payload := appendU16([]byte{id}, g.X)
	payload = appendU16(payload, g.Y)
	payload = appendU16(payload, g.R)
	payload = appendU16(payload, g.RIn)
	payload = append(payload, g.Start, g.End, boolByte(g.Clockwise))
	return Command{Opcode: OpGaugeSave, LengthFormat: FormatShort, Payload: payload}
}

func GaugeDelete(id uint8) Command { return newCommand(OpGaugeDelete, id) }

func GaugeListRequest() Command { return newCommand(OpGaugeList) }

func GaugeGet(id uint8) Command { return newCommand(OpGaugeGet, id) }

// --- Pages ---

func PageSave(id uint8, layouts []PageLayout) Command {
	payload := make([]byte, 0, 1+4*len(layouts))
	payload = append(payload, id)
	for _, l := range layouts {
		payload = append(payload, l.LayoutID)
		payload = appendU16(payload, l.X)
		payload = append(payload, l.Y)
	}
	return newCommand(OpPageSave, payload...)
}

func PageGet(id uint8) Command { return newCommand(OpPageGet, id) }

func PageDelete(id uint8) Command { return newCommand(OpPageDelete, id) }

// PageDisplay shows page id with one NUL-terminated string per layout. The
// page id travels as the query id.
func PageDisplay(id uint8, texts []string) Command {
	var payload []byte
	for _, t := range texts {
		payload = append(payload, t...)
		payload = append(payload, 0x00)
	}
	return Command{Opcode: OpPageDisplay, LengthFormat: FormatLong, QueryID: []byte{id}, Payload: payload}
}

// PageClear clears page id. The page id travels as the query id.
func PageClear(id uint8) Command {
	return Command{Opcode: OpPageClear, LengthFormat: FormatLong, QueryID: []byte{id}}
}

func PageListRequest() Command { return newCommand(OpPageList) }

// PageClearAndDisplay clears then shows page id, strings separated by NUL.
func PageClearAndDisplay(id uint8, texts []string) Command {
	payload := append([]byte{id}, strings.Join(texts, "\x00")...)
	return newCommand(OpPageClearAndDisplay, payload...)
}

// --- Animations ---

// AnimationSave announces an animation. Multi-byte fields are little-endian.
func AnimationSave(id uint8, totalSize, imgSize uint32, width uint16, format uint8, compressedSize uint32) Command {
	payload := []byte{id}
	payload = binary.LittleEndian.AppendUint32(payload, totalSize)
	payload = binary.LittleEndian.AppendUint32(payload, imgSize)
	payload = binary.LittleEndian.AppendUint16(payload, width)
	payload = append(payload, format)
	payload = binary.LittleEndian.AppendUint32(payload, compressedSize)
	return newCommand(OpAnimationSave, payload...)
}

func AnimationDelete(id uint8) Command { return newCommand(OpAnimationDelete, id) }

// AnimationDisplay plays animation id through handler. Multi-byte fields
// are little-endian.
func AnimationDisplay(handler, id uint8, delay uint16, repeat uint8, p Point) Command {
	payload := []byte{handler, id}
	payload = binary.LittleEndian.AppendUint16(payload, delay)
	payload = append(payload, repeat)
	payload = binary.LittleEndian.AppendUint16(payload, uint16(p.X))
	payload = binary.LittleEndian.AppendUint16(payload, uint16(p.Y))
	return newCommand(OpAnimationDisplay, payload...)
}

func AnimationClear(handler uint8) Command { return newCommand(OpAnimationClear, handler) }

func AnimationListRequest() Command { return newCommand(OpAnimationList) }

// --- Statistics ---

func PixelCountRequest() Command { return newCommand(OpPixelCount) }

// --- Configurations ---

// ConfigWrite starts writing configuration name. Version and password are
// little-endian.
func ConfigWrite(name string, version, password uint32) Command {
	payload := paddedConfigName(name)
	payload = binary.LittleEndian.AppendUint32(payload, version)
	payload = binary.LittleEndian.AppendUint32(payload, password)
	return newCommand(OpConfigWrite, payload...)
}

func ConfigRead(name string) Command { return newCommand(OpConfigRead, configName(name)...) }

func ConfigSet(name string) Command { return newCommand(OpConfigSet, configName(name)...) }

func ConfigListRequest() Command { return newCommand(OpConfigList) }

func ConfigRename(oldName, newName string, password uint32) Command {
	payload := paddedConfigName(oldName)
	payload = append(payload, paddedConfigName(newName)...)
	payload = binary.LittleEndian.AppendUint32(payload, password)
	return newCommand(OpConfigRename, payload...)
}

func ConfigDelete(name string) Command { return newCommand(OpConfigDelete, configName(name)...) }

func ConfigDeleteLessUsed() Command { return newCommand(OpConfigDeleteLessUsed) }

func ConfigFreeSpaceRequest() Command { return newCommand(OpConfigFreeSpace) }

func ConfigCountRequest() Command { return newCommand(OpConfigCount) }

// --- Device ---

// Shutdown powers the device off. key is the firmware unlock key.
func Shutdown(key []byte) Command { return newCommand(OpShutdown, key...) }

// Reset reboots the device. key is the firmware unlock key.
func Reset(key []byte) Command { return newCommand(OpReset, key...) }

func DeviceInfoRequest(param DeviceInfoParam) Command {
	return newCommand(OpDeviceInfo, byte(param))
}

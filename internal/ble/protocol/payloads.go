package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPayloadTooShort is returned when a payload is shorter than its layout.
	ErrPayloadTooShort = errors.New("payload too short")
	// ErrBadStride is returned when a list payload is not a whole number of records.
	ErrBadStride = errors.New("payload length is not a multiple of the record size")
)

// DecodeError describes a payload that could not be decoded. It wraps
// ErrPayloadTooShort or ErrBadStride.
type DecodeError struct {
	Opcode byte
	Len    int
	Want   int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("protocol: decode %s: %v (got %d bytes, want %d)", OpcodeName(e.Opcode), e.Err, e.Len, e.Want)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func tooShort(op byte, payload []byte, want int) error {
	if len(payload) >= want {
		return nil
	}
	return &DecodeError{Opcode: op, Len: len(payload), Want: want, Err: ErrPayloadTooShort}
}

func badStride(op byte, payload []byte, stride int) error {
	if len(payload)%stride == 0 {
		return nil
	}
	return &DecodeError{Opcode: op, Len: len(payload), Want: stride, Err: ErrBadStride}
}

func u16(b []byte) uint16 { return binary.BigEndian.Uint16(b) }

func u32(b []byte) uint32 { return binary.BigEndian.Uint32(b) }

// DecodeBattery parses a 1-byte battery payload.
func DecodeBattery(payload []byte) (Record, error) {
	if err := tooShort(OpBattery, payload, 1); err != nil {
		return nil, err
	}
	return BatteryLevel{Level: payload[0]}, nil
}

// DecodeVersion parses the 9-byte version payload: firmware (4), year,
// week, serial (3).
func DecodeVersion(payload []byte) (Record, error) {
	if err := tooShort(OpVersion, payload, 9); err != nil {
		return nil, err
	}
	var v VersionInfo
	copy(v.Firmware[:], payload[0:4])
	v.MfgYear = payload[4]
	v.MfgWeek = payload[5]
	copy(v.Serial[:], payload[6:9])
	return v, nil
}

func DecodeSettings(payload []byte) (Record, error) {
	if err := tooShort(OpSettings, payload, 5); err != nil {
		return nil, err
	}
	return Settings{
		XShift:           payload[0],
		YShift:           payload[1],
		Luminance:        payload[2],
		AutoBrightness:   payload[3] != 0,
		GestureDetection: payload[4] != 0,
	}, nil
}

// imageEntrySize: id, height, width and two reserved bytes.
const imageEntrySize = 7

func DecodeImageList(payload []byte) (Record, error) {
	if err := badStride(OpImageList, payload, imageEntrySize); err != nil {
		return nil, err
	}
	list := make(ImageList, 0, len(payload)/imageEntrySize)
	for i := 0; i < len(payload); i += imageEntrySize {
		list = append(list, ImageEntry{
			ID:     payload[i],
			Height: u16(payload[i+1:]),
			Width:  u16(payload[i+3:]),
		})
	}
	return list, nil
}

func DecodeFontList(payload []byte) (Record, error) {
	if err := badStride(OpFontList, payload, 2); err != nil {
		return nil, err
	}
	list := make(FontList, 0, len(payload)/2)
	for i := 0; i < len(payload); i += 2 {
		list = append(list, FontEntry{ID: payload[i], Height: payload[i+1]})
	}
	return list, nil
}

func DecodeLayoutList(payload []byte) (Record, error) {
	return LayoutList(bytes.Clone(payload)), nil
}

// DecodeLayout parses a layout definition: a 17-byte header followed by
// extra commands.
func DecodeLayout(payload []byte) (Record, error) {
	if err := tooShort(OpLayoutGet, payload, layoutHeaderSize); err != nil {
		return nil, err
	}
	return Layout{
		ID:            payload[0],
		Size:          payload[1],
		X:             u16(payload[2:]),
		Y:             payload[4],
		Width:         u16(payload[5:]),
		Height:        payload[7],
		ForeColor:     payload[8],
		BackColor:     payload[9],
		Font:          payload[10],
		TextValid:     payload[11] != 0,
		TextX:         u16(payload[12:]),
		TextY:         payload[14],
		TextRotation:  payload[15],
		TextOpacity:   payload[16] != 0,
		ExtraCommands: bytes.Clone(payload[layoutHeaderSize:]),
	}, nil
}

// DecodeGaugeList parses gauge ids. The device never answers with an empty
// list, so an empty payload is rejected.
func DecodeGaugeList(payload []byte) (Record, error) {
	if err := tooShort(OpGaugeList, payload, 1); err != nil {
		return nil, err
	}
	return GaugeList(bytes.Clone(payload)), nil
}

func DecodeGauge(payload []byte) (Record, error) {
	if err := tooShort(OpGaugeGet, payload, 11); err != nil {
		return nil, err
	}
	return Gauge{
		X:         u16(payload[0:]),
		Y:         u16(payload[2:]),
		R:         u16(payload[4:]),
		RIn:       u16(payload[6:]),
		Start:     payload[8],
		End:       payload[9],
		Clockwise: payload[10] != 0,
	}, nil
}

// DecodePage parses a page id followed by 4-byte layout placements.
func DecodePage(payload []byte) (Record, error) {
	if err := tooShort(OpPageGet, payload, 1); err != nil {
		return nil, err
	}
	entries := payload[1:]
	if err := badStride(OpPageGet, entries, 4); err != nil {
		return nil, err
	}
	page := Page{ID: payload[0], Layouts: make([]PageLayout, 0, len(entries)/4)}
	for i := 0; i < len(entries); i += 4 {
		page.Layouts = append(page.Layouts, PageLayout{
			LayoutID: entries[i],
			X:        u16(entries[i+1:]),
			Y:        entries[i+3],
		})
	}
	return page, nil
}

func DecodePageList(payload []byte) (Record, error) {
	if err := tooShort(OpPageList, payload, 1); err != nil {
		return nil, err
	}
	return PageList(bytes.Clone(payload)), nil
}

func DecodeAnimationList(payload []byte) (Record, error) {
	return AnimationList(bytes.Clone(payload)), nil
}

func DecodePixelCount(payload []byte) (Record, error) {
	if err := tooShort(OpPixelCount, payload, 4); err != nil {
		return nil, err
	}
	return PixelCount{Count: u32(payload)}, nil
}

func DecodeConfigInfo(payload []byte) (Record, error) {
	if err := tooShort(OpConfigRead, payload, 9); err != nil {
		return nil, err
	}
	return ConfigInfo{
		Version: u32(payload),
		Images:  payload[4],
		Layouts: payload[5],
		Fonts:   payload[6],
		Pages:   payload[7],
		Gauges:  payload[8],
	}, nil
}

// configEntrySize: name (12), size (4), version (4), usage, install,
// system flag and three reserved bytes.
const configEntrySize = 26

func DecodeConfigList(payload []byte) (Record, error) {
	if err := badStride(OpConfigList, payload, configEntrySize); err != nil {
		return nil, err
	}
	list := make(ConfigList, 0, len(payload)/configEntrySize)
	for i := 0; i < len(payload); i += configEntrySize {
		rec := payload[i : i+configEntrySize]
		list = append(list, ConfigEntry{
			Name:         trimName(rec[:ConfigNameSize]),
			Size:         u32(rec[12:]),
			Version:      u32(rec[16:]),
			UsageCount:   rec[20],
			InstallCount: rec[21],
			IsSystem:     rec[22] != 0,
		})
	}
	return list, nil
}

// trimName drops NUL padding and surrounding whitespace from a fixed-width name.
func trimName(b []byte) string {
	return strings.TrimSpace(strings.TrimRight(string(b), "\x00"))
}

func DecodeConfigFreeSpace(payload []byte) (Record, error) {
	if err := tooShort(OpConfigFreeSpace, payload, 8); err != nil {
		return nil, err
	}
	return ConfigFreeSpace{Total: u32(payload[0:]), Free: u32(payload[4:])}, nil
}

func DecodeConfigCount(payload []byte) (Record, error) {
	if err := tooShort(OpConfigCount, payload, 1); err != nil {
		return nil, err
	}
	return ConfigCount{Count: payload[0]}, nil
}

func DecodeErrorInfo(payload []byte) (Record, error) {
	if err := tooShort(OpError, payload, 3); err != nil {
		return nil, err
	}
	return ErrorInfo{CmdID: payload[0], Code: payload[1], SubCode: payload[2]}, nil
}

func DecodeDeviceInfo(payload []byte) (Record, error) {
	if err := tooShort(OpDeviceInfo, payload, 1); err != nil {
		return nil, err
	}
	return DeviceInfo{Values: bytes.Clone(payload)}, nil
}

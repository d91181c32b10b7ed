package protocol

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
)

func TestDecodeBatteryFrame(t *testing.T) {
	rec, err := Decode([]byte{0xFF, 0x05, 0x10, 0x00, 0x07, 0x59, 0xAA})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	b, ok := rec.(BatteryLevel)
	if !ok {
		t.Fatalf("record is %T, want BatteryLevel", rec)
	}
	if b.Level != 89 {
		t.Errorf("Level = %d, want 89", b.Level)
	}
	if rec.Opcode() != OpBattery {
		t.Errorf("Opcode() = 0x%02X, want 0x05", rec.Opcode())
	}
}

func TestDecodeImageListFrame(t *testing.T) {
	payload := []byte{1, 0, 10, 0, 20, 0, 0, 2, 0, 30, 0, 40, 0, 0}
	frame, err := BuildFrame(OpImageList, FormatLong, nil, payload)
	if err != nil {
		t.Fatalf("BuildFrame() error = %v", err)
	}
	rec, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if n := len(rec.(ImageList)); n != 2 {
		t.Errorf("got %d images, want 2", n)
	}

	frame, _ = BuildFrame(OpImageList, FormatLong, nil, payload[:13])
	_, err = Decode(frame)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("err = %v, want *DecodeError", err)
	}
	if de.Opcode != OpImageList {
		t.Errorf("DecodeError.Opcode = 0x%02X, want 0x47", de.Opcode)
	}
}

func TestDecodeConfigListFrame(t *testing.T) {
	payload := append([]byte("CFG1"), make([]byte, 22)...)
	frame, err := BuildFrame(OpConfigList, FormatLong, nil, payload)
	if err != nil {
		t.Fatalf("BuildFrame() error = %v", err)
	}
	rec, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	list := rec.(ConfigList)
	if len(list) != 1 || list[0].Name != "CFG1" {
		t.Errorf("ConfigList = %+v, want one entry named CFG1", list)
	}
}

func TestDecodeUnknownOpcode(t *testing.T) {
	frame := []byte{0xFF, 0x7E, 0x10, 0x00, 0x08, 0x01, 0x02, 0xAA}
	rec, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	u, ok := rec.(Unhandled)
	if !ok {
		t.Fatalf("record is %T, want Unhandled", rec)
	}
	if u.Op != 0x7E || !bytes.Equal(u.Payload, []byte{1, 2}) || !bytes.Equal(u.RawFrame, frame) {
		t.Errorf("Unhandled = %+v", u)
	}

	// The record must not alias the caller's buffer.
	frame[5] = 0xEE
	if u.Payload[0] != 0x01 {
		t.Error("Unhandled payload aliases the input buffer")
	}
}

func TestDecodeMalformedFrame(t *testing.T) {
	_, err := Decode([]byte{0x00, 0x05, 0x10, 0x00, 0x07, 0x59, 0xAA})
	if !errors.Is(err, ErrMalformedFrame) {
		t.Errorf("err = %v, want ErrMalformedFrame", err)
	}
}

func TestRegistryRegister(t *testing.T) {
	r := &Registry{}
	if _, ok := r.Lookup(OpBattery); ok {
		t.Fatal("empty registry has a battery decoder")
	}

	r.Register(0x7E, func(payload []byte) (Record, error) {
		return PixelCount{Count: uint32(len(payload))}, nil
	})
	rec, err := r.Decode([]byte{0xFF, 0x7E, 0x10, 0x00, 0x08, 0x01, 0x02, 0xAA})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got := rec.(PixelCount).Count; got != 2 {
		t.Errorf("custom decoder saw %d bytes, want 2", got)
	}

	// Battery is unknown to this registry.
	rec, err = r.Decode([]byte{0xFF, 0x05, 0x10, 0x00, 0x07, 0x59, 0xAA})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if _, ok := rec.(Unhandled); !ok {
		t.Errorf("record is %T, want Unhandled", rec)
	}
}

func TestDefaultRegistryCoversResponses(t *testing.T) {
	ops := []byte{
		OpBattery, OpVersion, OpSettings, OpImageList, OpFontList, OpLayoutList,
		OpLayoutGet, OpGaugeList, OpGaugeGet, OpPageGet, OpPageList, OpAnimationList,
		OpPixelCount, OpConfigRead, OpConfigList, OpConfigFreeSpace, OpConfigCount,
		OpError, OpDeviceInfo,
	}
	for _, op := range ops {
		if _, ok := DefaultRegistry().Lookup(op); !ok {
			t.Errorf("no decoder for %s", OpcodeName(op))
		}
	}
}

func TestDecodePayloadUnknown(t *testing.T) {
	rec, err := DecodePayload(0x7E, []byte{9})
	if err != nil {
		t.Fatalf("DecodePayload() error = %v", err)
	}
	if u, ok := rec.(Unhandled); !ok || u.Op != 0x7E {
		t.Errorf("record = %#v, want Unhandled for 0x7E", rec)
	}
}

func TestDecodeShortFormatFrames(t *testing.T) {
	g := Gauge{X: 300, Y: 200, R: 80, RIn: 60, Start: 1, End: 15}
	page := []PageLayout{{LayoutID: 1, X: 0x0102, Y: 3}}

	tests := []struct {
		name    string
		opcode  byte
		payload []byte
		want    Record
	}{
		{"battery", OpBattery, []byte{0x59}, BatteryLevel{Level: 89}},
		{"gauge", OpGaugeGet, GaugeSave(4, g).Payload[1:], g},
		{"page", OpPageGet, PageSave(9, page).Payload, Page{ID: 9, Layouts: page}},
		{"error", OpError, []byte{OpLayoutGet, 3, 1}, ErrorInfo{CmdID: OpLayoutGet, Code: 3, SubCode: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := BuildFrame(tt.opcode, FormatShort, nil, tt.payload)
			if err != nil {
				t.Fatalf("BuildFrame() error = %v", err)
			}
			if frame[3] != byte(len(frame)) {
				t.Fatalf("length byte = %d, frame is %d bytes", frame[3], len(frame))
			}
			rec, err := Decode(frame)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !reflect.DeepEqual(rec, tt.want) {
				t.Errorf("Decode() = %+v, want %+v", rec, tt.want)
			}
		})
	}
}

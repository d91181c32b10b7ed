package protocol

import (
	"errors"
	"reflect"
	"testing"
)

func TestDecodeBattery(t *testing.T) {
	rec, err := DecodeBattery([]byte{0x59})
	if err != nil {
		t.Fatalf("DecodeBattery() error = %v", err)
	}
	if got := rec.(BatteryLevel).Level; got != 89 {
		t.Errorf("Level = %d, want 89", got)
	}
}

func TestDecodeVersion(t *testing.T) {
	rec, err := DecodeVersion([]byte{1, 2, 3, 4, 24, 3, 10, 11, 12})
	if err != nil {
		t.Fatalf("DecodeVersion() error = %v", err)
	}
	v := rec.(VersionInfo)
	if got := v.FirmwareString(); got != "1.2.3.4" {
		t.Errorf("FirmwareString() = %q, want %q", got, "1.2.3.4")
	}
	if v.MfgYear != 24 || v.MfgWeek != 3 {
		t.Errorf("manufactured year=%d week=%d, want 24/3", v.MfgYear, v.MfgWeek)
	}
	if got := v.SerialString(); got != "101112" {
		t.Errorf("SerialString() = %q, want %q", got, "101112")
	}
}

func TestDecodeSettings(t *testing.T) {
	rec, err := DecodeSettings([]byte{1, 2, 12, 1, 0})
	if err != nil {
		t.Fatalf("DecodeSettings() error = %v", err)
	}
	want := Settings{XShift: 1, YShift: 2, Luminance: 12, AutoBrightness: true}
	if rec.(Settings) != want {
		t.Errorf("Settings = %+v, want %+v", rec, want)
	}
}

func TestDecodeImageList(t *testing.T) {
	payload := []byte{
		1, 0x00, 0x20, 0x01, 0x30, 0, 0,
		2, 0x00, 0x10, 0x00, 0x40, 0, 0,
	}
	rec, err := DecodeImageList(payload)
	if err != nil {
		t.Fatalf("DecodeImageList() error = %v", err)
	}
	want := ImageList{{ID: 1, Height: 32, Width: 304}, {ID: 2, Height: 16, Width: 64}}
	if !reflect.DeepEqual(rec, want) {
		t.Errorf("ImageList = %+v, want %+v", rec, want)
	}
}

func TestDecodeFontList(t *testing.T) {
	rec, err := DecodeFontList([]byte{1, 24, 2, 35})
	if err != nil {
		t.Fatalf("DecodeFontList() error = %v", err)
	}
	want := FontList{{ID: 1, Height: 24}, {ID: 2, Height: 35}}
	if !reflect.DeepEqual(rec, want) {
		t.Errorf("FontList = %+v, want %+v", rec, want)
	}
}

func TestDecodeGauge(t *testing.T) {
	rec, err := DecodeGauge([]byte{0, 100, 0, 120, 0, 50, 0, 40, 2, 14, 1})
	if err != nil {
		t.Fatalf("DecodeGauge() error = %v", err)
	}
	want := Gauge{X: 100, Y: 120, R: 50, RIn: 40, Start: 2, End: 14, Clockwise: true}
	if rec.(Gauge) != want {
		t.Errorf("Gauge = %+v, want %+v", rec, want)
	}
}

func TestDecodePage(t *testing.T) {
	rec, err := DecodePage([]byte{5, 10, 0x01, 0x02, 30, 11, 0, 5, 60})
	if err != nil {
		t.Fatalf("DecodePage() error = %v", err)
	}
	want := Page{ID: 5, Layouts: []PageLayout{
		{LayoutID: 10, X: 0x0102, Y: 30},
		{LayoutID: 11, X: 5, Y: 60},
	}}
	if !reflect.DeepEqual(rec, want) {
		t.Errorf("Page = %+v, want %+v", rec, want)
	}
}

func TestDecodePixelCount(t *testing.T) {
	rec, err := DecodePixelCount([]byte{0x00, 0x01, 0x00, 0x00})
	if err != nil {
		t.Fatalf("DecodePixelCount() error = %v", err)
	}
	if got := rec.(PixelCount).Count; got != 65536 {
		t.Errorf("Count = %d, want 65536", got)
	}
}

func TestDecodeConfigInfo(t *testing.T) {
	rec, err := DecodeConfigInfo([]byte{0, 0, 0, 7, 1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("DecodeConfigInfo() error = %v", err)
	}
	want := ConfigInfo{Version: 7, Images: 1, Layouts: 2, Fonts: 3, Pages: 4, Gauges: 5}
	if rec.(ConfigInfo) != want {
		t.Errorf("ConfigInfo = %+v, want %+v", rec, want)
	}
}

func configRecord(name string, size, version uint32, usage, install uint8, system bool) []byte {
	rec := paddedConfigName(name)
	rec = appendU32(rec, size)
	rec = appendU32(rec, version)
	rec = append(rec, usage, install, boolByte(system), 0, 0, 0)
	return rec
}

func TestDecodeConfigList(t *testing.T) {
	payload := configRecord("CFG1", 1024, 3, 9, 1, false)
	payload = append(payload, configRecord("system", 2048, 1, 0, 0, true)...)

	rec, err := DecodeConfigList(payload)
	if err != nil {
		t.Fatalf("DecodeConfigList() error = %v", err)
	}
	want := ConfigList{
		{Name: "CFG1", Size: 1024, Version: 3, UsageCount: 9, InstallCount: 1},
		{Name: "system", Size: 2048, Version: 1, IsSystem: true},
	}
	if !reflect.DeepEqual(rec, want) {
		t.Errorf("ConfigList = %+v, want %+v", rec, want)
	}
}

func TestDecodeConfigFreeSpace(t *testing.T) {
	rec, err := DecodeConfigFreeSpace([]byte{0, 0, 0x10, 0, 0, 0, 0x08, 0})
	if err != nil {
		t.Fatalf("DecodeConfigFreeSpace() error = %v", err)
	}
	want := ConfigFreeSpace{Total: 4096, Free: 2048}
	if rec.(ConfigFreeSpace) != want {
		t.Errorf("ConfigFreeSpace = %+v, want %+v", rec, want)
	}
}

func TestDecodeErrorInfo(t *testing.T) {
	rec, err := DecodeErrorInfo([]byte{OpLayoutDisplay, 0x02, 0x01})
	if err != nil {
		t.Fatalf("DecodeErrorInfo() error = %v", err)
	}
	info := rec.(ErrorInfo)
	want := ErrorInfo{CmdID: OpLayoutDisplay, Code: 2, SubCode: 1}
	if info != want {
		t.Errorf("ErrorInfo = %+v, want %+v", info, want)
	}
	if got := info.String(); got != "command layout_display failed: error 0x02 sub-error 0x01" {
		t.Errorf("String() = %q", got)
	}
}

func TestDecodeDeviceInfo(t *testing.T) {
	rec, err := DecodeDeviceInfo([]byte{4, 2})
	if err != nil {
		t.Fatalf("DecodeDeviceInfo() error = %v", err)
	}
	got := rec.(DeviceInfo).Map()
	want := map[string]uint8{"parameter0": 4, "parameter1": 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Map() = %v, want %v", got, want)
	}
}

func TestDecodeListsAcceptEmpty(t *testing.T) {
	for name, fn := range map[string]DecodeFunc{
		"image":     DecodeImageList,
		"font":      DecodeFontList,
		"layout":    DecodeLayoutList,
		"animation": DecodeAnimationList,
		"config":    DecodeConfigList,
	} {
		rec, err := fn(nil)
		if err != nil {
			t.Errorf("%s list: error = %v", name, err)
			continue
		}
		if n := reflect.ValueOf(rec).Len(); n != 0 {
			t.Errorf("%s list: len = %d, want 0", name, n)
		}
	}
}

func TestDecodeTooShort(t *testing.T) {
	tests := []struct {
		name    string
		fn      DecodeFunc
		payload []byte
		want    int
	}{
		{"battery", DecodeBattery, nil, 1},
		{"version", DecodeVersion, []byte{1, 2, 3, 4, 24, 3, 10, 11}, 9},
		{"settings", DecodeSettings, []byte{1, 2, 3, 4}, 5},
		{"layout", DecodeLayout, make([]byte, 16), 17},
		{"gauge list", DecodeGaugeList, nil, 1},
		{"gauge", DecodeGauge, make([]byte, 10), 11},
		{"page", DecodePage, nil, 1},
		{"page list", DecodePageList, nil, 1},
		{"pixel count", DecodePixelCount, []byte{1, 2, 3}, 4},
		{"config info", DecodeConfigInfo, make([]byte, 8), 9},
		{"config free space", DecodeConfigFreeSpace, make([]byte, 7), 8},
		{"config count", DecodeConfigCount, nil, 1},
		{"error", DecodeErrorInfo, []byte{1, 2}, 3},
		{"device info", DecodeDeviceInfo, nil, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.fn(tt.payload)
			if !errors.Is(err, ErrPayloadTooShort) {
				t.Fatalf("err = %v, want ErrPayloadTooShort", err)
			}
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("err is %T, want *DecodeError", err)
			}
			if de.Len != len(tt.payload) || de.Want != tt.want {
				t.Errorf("DecodeError len=%d want=%d, expected len=%d want=%d", de.Len, de.Want, len(tt.payload), tt.want)
			}
		})
	}
}

func TestDecodeBadStride(t *testing.T) {
	tests := []struct {
		name    string
		fn      DecodeFunc
		payload []byte
	}{
		{"image list", DecodeImageList, make([]byte, 13)},
		{"font list", DecodeFontList, make([]byte, 3)},
		{"page", DecodePage, make([]byte, 4)},
		{"config list", DecodeConfigList, make([]byte, 27)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.fn(tt.payload)
			if !errors.Is(err, ErrBadStride) {
				t.Errorf("err = %v, want ErrBadStride", err)
			}
		})
	}
}

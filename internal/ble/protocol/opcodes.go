package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// Command ids understood by the glasses firmware.
const (
	// General
	OpDisplayPower   byte = 0x00
	OpClearDisplay   byte = 0x01
	OpGreyLevel      byte = 0x02
	OpDemo           byte = 0x03
	OpBattery        byte = 0x05
	OpVersion        byte = 0x06
	OpLED            byte = 0x08
	OpShift          byte = 0x09
	OpSettings       byte = 0x0A
	OpLuminance      byte = 0x10
	OpSensor         byte = 0x20
	OpGesture        byte = 0x21
	OpAutoBrightness byte = 0x22

	// Graphics
	OpColor      byte = 0x30
	OpPoint      byte = 0x31
	OpLine       byte = 0x32
	OpRect       byte = 0x33
	OpRectFull   byte = 0x34
	OpCircle     byte = 0x35
	OpCircleFull byte = 0x36
	OpText       byte = 0x37
	OpPolyline   byte = 0x38
	OpHoldFlush  byte = 0x39

	// Images
	OpImageSave    byte = 0x41
	OpImageDisplay byte = 0x42
	OpImageStream  byte = 0x44
	OpImageDelete  byte = 0x46
	OpImageList    byte = 0x47

	// Fonts
	OpFontList   byte = 0x50
	OpFontSave   byte = 0x51
	OpFontSelect byte = 0x52
	OpFontDelete byte = 0x53

	// Layouts
	OpLayoutSave                    byte = 0x60
	OpLayoutDelete                  byte = 0x61
	OpLayoutDisplay                 byte = 0x62
	OpLayoutClear                   byte = 0x63
	OpLayoutList                    byte = 0x64
	OpLayoutPosition                byte = 0x65
	OpLayoutDisplayExtended         byte = 0x66
	OpLayoutGet                     byte = 0x67
	OpLayoutClearExtended           byte = 0x68
	OpLayoutClearAndDisplay         byte = 0x69
	OpLayoutClearAndDisplayExtended byte = 0x6A

	// Gauges
	OpGaugeDisplay byte = 0x70
	OpGaugeSave    byte = 0x71
	OpGaugeDelete  byte = 0x72
	OpGaugeList    byte = 0x73
	OpGaugeGet     byte = 0x74

	// Pages
	OpPageSave            byte = 0x80
	OpPageGet             byte = 0x81
	OpPageDelete          byte = 0x82
	OpPageDisplay         byte = 0x83
	OpPageClear           byte = 0x84
	OpPageList            byte = 0x85
	OpPageClearAndDisplay byte = 0x86

	// Animations
	OpAnimationSave    byte = 0x95
	OpAnimationDelete  byte = 0x96
	OpAnimationDisplay byte = 0x97
	OpAnimationClear   byte = 0x98
	OpAnimationList    byte = 0x99

	// Statistics
	OpPixelCount byte = 0xA5

	// Configurations
	OpConfigWrite          byte = 0xD0
	OpConfigRead           byte = 0xD1
	OpConfigSet            byte = 0xD2
	OpConfigList           byte = 0xD3
	OpConfigRename         byte = 0xD4
	OpConfigDelete         byte = 0xD5
	OpConfigDeleteLessUsed byte = 0xD6
	OpConfigFreeSpace      byte = 0xD7
	OpConfigCount          byte = 0xD8

	// Device
	OpShutdown   byte = 0xE0
	OpReset      byte = 0xE1
	OpError      byte = 0xE2
	OpDeviceInfo byte = 0xE3
)

var opcodeNames = map[byte]string{
	OpDisplayPower:                  "display_power",
	OpClearDisplay:                  "clear_display",
	OpGreyLevel:                     "grey_level",
	OpDemo:                          "demo",
	OpBattery:                       "battery",
	OpVersion:                       "version",
	OpLED:                           "led",
	OpShift:                         "shift",
	OpSettings:                      "settings",
	OpLuminance:                     "luminance",
	OpSensor:                        "sensor",
	OpGesture:                       "gesture",
	OpAutoBrightness:                "auto_brightness",
	OpColor:                         "color",
	OpPoint:                         "point",
	OpLine:                          "line",
	OpRect:                          "rect",
	OpRectFull:                      "rect_full",
	OpCircle:                        "circle",
	OpCircleFull:                    "circle_full",
	OpText:                          "text",
	OpPolyline:                      "polyline",
	OpHoldFlush:                     "hold_flush",
	OpImageSave:                     "image_save",
	OpImageDisplay:                  "image_display",
	OpImageStream:                   "image_stream",
	OpImageDelete:                   "image_delete",
	OpImageList:                     "image_list",
	OpFontList:                      "font_list",
	OpFontSave:                      "font_save",
	OpFontSelect:                    "font_select",
	OpFontDelete:                    "font_delete",
	OpLayoutSave:                    "layout_save",
	OpLayoutDelete:                  "layout_delete",
	OpLayoutDisplay:                 "layout_display",
	OpLayoutClear:                   "layout_clear",
	OpLayoutList:                    "layout_list",
	OpLayoutPosition:                "layout_position",
	OpLayoutDisplayExtended:         "layout_display_extended",
	OpLayoutGet:                     "layout_get",
	OpLayoutClearExtended:           "layout_clear_extended",
	OpLayoutClearAndDisplay:         "layout_clear_and_display",
	OpLayoutClearAndDisplayExtended: "layout_clear_and_display_extended",
	OpGaugeDisplay:                  "gauge_display",
	OpGaugeSave:                     "gauge_save",
	OpGaugeDelete:                   "gauge_delete",
	OpGaugeList:                     "gauge_list",
	OpGaugeGet:                      "gauge_get",
	OpPageSave:                      "page_save",
	OpPageGet:                       "page_get",
	OpPageDelete:                    "page_delete",
	OpPageDisplay:                   "page_display",
	OpPageClear:                     "page_clear",
	OpPageList:                      "page_list",
	OpPageClearAndDisplay:           "page_clear_and_display",
	OpAnimationSave:                 "animation_save",
	OpAnimationDelete:               "animation_delete",
	OpAnimationDisplay:              "animation_display",
	OpAnimationClear:                "animation_clear",
	OpAnimationList:                 "animation_list",
	OpPixelCount:                    "pixel_count",
	OpConfigWrite:                   "config_write",
	OpConfigRead:                    "config_read",
	OpConfigSet:                     "config_set",
	OpConfigList:                    "config_list",
	OpConfigRename:                  "config_rename",
	OpConfigDelete:                  "config_delete",
	OpConfigDeleteLessUsed:          "config_delete_less_used",
	OpConfigFreeSpace:               "config_free_space",
	OpConfigCount:                   "config_count",
	OpShutdown:                      "shutdown",
	OpReset:                         "reset",
	OpError:                         "error",
	OpDeviceInfo:                    "device_info",
}

// OpcodeName returns a short name for op, or its hex value if unknown.
func OpcodeName(op byte) string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("0x%02X", op)
}

// ParseOpcode accepts a short name such as "battery" or a hex value such
// as "0x05".
func ParseOpcode(s string) (byte, bool) {
	for op, name := range opcodeNames {
		if name == s {
			return op, true
		}
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 8)
	if err != nil {
		return 0, false
	}
	return byte(v), true
}

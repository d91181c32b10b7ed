// Package protocol implements the command framing and notification decoding
// for the ENGO smart-glasses BLE protocol. Everything in this package is a pure
// transform over byte slices and is safe for concurrent use.
package protocol

import (
	"errors"
	"fmt"
)

// Frame delimiters and length formats.
const (
	FrameStart byte = 0xFF
	FrameEnd   byte = 0xAA

	// FormatLong selects a 2-byte big-endian length field. Any other
	// format byte selects a 1-byte length field.
	FormatLong byte = 0x10
	// FormatShort is the legacy format used by a few commands.
	FormatShort byte = 0x00
)

// Maximum values of the frame length field.
const (
	maxShortLength = 0xFF
	maxLongLength  = 0xFFFF
)

var (
	// ErrPayloadTooLarge is returned when a frame does not fit its length field.
	ErrPayloadTooLarge = errors.New("protocol: payload too large for length field")
	// ErrMalformedFrame is returned when an inbound buffer is not a valid frame.
	ErrMalformedFrame = errors.New("protocol: malformed frame")
)

// Command is a fully specified request ready to be framed.
type Command struct {
	Opcode       byte
	LengthFormat byte
	QueryID      []byte
	Payload      []byte
}

// Frame returns the on-wire bytes for c.
func (c Command) Frame() ([]byte, error) {
	return BuildFrame(c.Opcode, c.LengthFormat, c.QueryID, c.Payload)
}

// String returns the command name, e.g. "battery".
func (c Command) String() string {
	return OpcodeName(c.Opcode)
}

// overhead is the number of non-payload bytes for a length format:
// start, opcode, format, length field and end.
func overhead(lengthFormat byte) int {
	if lengthFormat == FormatLong {
		return 6
	}
	return 5
}

// BuildFrame assembles a frame:
//
//	0xFF | opcode | format | length (1 or 2 bytes, big-endian) | queryID | payload | 0xAA
//
// The length field holds the total frame size, queryID included. A frame
// whose size does not fit the selected length field returns ErrPayloadTooLarge.
func BuildFrame(opcode, lengthFormat byte, queryID, payload []byte) ([]byte, error) {
	length := len(payload) + len(queryID) + overhead(lengthFormat)

	limit := maxShortLength
	if lengthFormat == FormatLong {
		limit = maxLongLength
	}
	if length > limit {
		return nil, fmt.Errorf("%w: opcode 0x%02X frame is %d bytes, limit %d", ErrPayloadTooLarge, opcode, length, limit)
	}

	frame := make([]byte, 0, length)
	frame = append(frame, FrameStart, opcode, lengthFormat)
	if lengthFormat == FormatLong {
		frame = append(frame, byte(length>>8), byte(length))
	} else {
		frame = append(frame, byte(length))
	}
	frame = append(frame, queryID...)
	frame = append(frame, payload...)
	frame = append(frame, FrameEnd)
	return frame, nil
}

// Frame is a parsed inbound notification.
type Frame struct {
	Opcode       byte
	LengthFormat byte
	Payload      []byte
	Raw          []byte
}

// FrameLength reports the total length declared by the frame header at the
// start of data. It returns false while too few bytes are present to read
// the header, or when data does not start with FrameStart.
func FrameLength(data []byte) (int, bool) {
	if len(data) < 4 || data[0] != FrameStart {
		return 0, false
	}
	if data[2] == FormatLong {
		if len(data) < 5 {
			return 0, false
		}
		return int(data[3])<<8 | int(data[4]), true
	}
	return int(data[3]), true
}

// ParseFrame validates a notification buffer and slices out its payload.
// The header is read with the same length-format rule BuildFrame uses, and
// the declared length bounds the frame. Inbound frames carry no query id.
// Bytes past the declared length are ignored.
func ParseFrame(data []byte) (Frame, error) {
	if len(data) < 5 {
		return Frame{}, fmt.Errorf("%w: %d bytes is shorter than a header", ErrMalformedFrame, len(data))
	}
	if data[0] != FrameStart {
		return Frame{}, fmt.Errorf("%w: start byte 0x%02X", ErrMalformedFrame, data[0])
	}

	opcode := data[1]
	format := data[2]

	var length, header int
	if format == FormatLong {
		length = int(data[3])<<8 | int(data[4])
		header = 5
	} else {
		length = int(data[3])
		header = 4
	}

	if length < header+1 {
		return Frame{}, fmt.Errorf("%w: declared length %d below header size", ErrMalformedFrame, length)
	}
	if len(data) < length {
		return Frame{}, fmt.Errorf("%w: declared length %d, buffer has %d bytes", ErrMalformedFrame, length, len(data))
	}
	if data[length-1] != FrameEnd {
		return Frame{}, fmt.Errorf("%w: end byte 0x%02X", ErrMalformedFrame, data[length-1])
	}

	raw := data[:length]
	return Frame{
		Opcode:       opcode,
		LengthFormat: format,
		Payload:      raw[header : length-1],
		Raw:          raw,
	}, nil
}

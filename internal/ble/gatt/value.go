package gatt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrValueTooShort is returned when a value has fewer bytes than its type.
	ErrValueTooShort = errors.New("gatt: value too short")
	// ErrUnsupportedType is returned for types DecodeValue cannot interpret.
	ErrUnsupportedType = errors.New("gatt: unsupported value type")
)

// Value is a decoded characteristic value. Str is set for TypeString and
// Uint for the integer types.
type Value struct {
	Type ValueType
	Str  string
	Uint uint32
}

func (v Value) String() string {
	if v.Type == TypeString {
		return v.Str
	}
	return strconv.FormatUint(uint64(v.Uint), 10)
}

// DecodeValue interprets b as type t. Strings are UTF-8 with trailing NUL
// padding removed; integers are big-endian.
func DecodeValue(b []byte, t ValueType) (Value, error) {
	switch t {
	case TypeString:
		return Value{Type: t, Str: strings.TrimRight(string(b), "\x00")}, nil
	case TypeUint8:
		if len(b) < 1 {
			return Value{}, fmt.Errorf("%w: %s needs 1 byte, got %d", ErrValueTooShort, t, len(b))
		}
		return Value{Type: t, Uint: uint32(b[0])}, nil
	case TypeUint16:
		if len(b) < 2 {
			return Value{}, fmt.Errorf("%w: %s needs 2 bytes, got %d", ErrValueTooShort, t, len(b))
		}
		return Value{Type: t, Uint: uint32(binary.BigEndian.Uint16(b))}, nil
	case TypeUint32:
		if len(b) < 4 {
			return Value{}, fmt.Errorf("%w: %s needs 4 bytes, got %d", ErrValueTooShort, t, len(b))
		}
		return Value{Type: t, Uint: binary.BigEndian.Uint32(b)}, nil
	default:
		return Value{}, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
}

package protocol

import (
	"bytes"
	"sync"
)

// DecodeFunc turns a notification payload into a typed record.
type DecodeFunc func(payload []byte) (Record, error)

// Registry maps response opcodes to decoders. The zero value is empty and
// ready to use. A Registry is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	decoders map[byte]DecodeFunc
}

// NewRegistry returns a registry populated with every known response decoder.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(OpBattery, DecodeBattery)
	r.Register(OpVersion, DecodeVersion)
	r.Register(OpSettings, DecodeSettings)
	r.Register(OpImageList, DecodeImageList)
	r.Register(OpFontList, DecodeFontList)
	r.Register(OpLayoutList, DecodeLayoutList)
	r.Register(OpLayoutGet, DecodeLayout)
	r.Register(OpGaugeList, DecodeGaugeList)
	r.Register(OpGaugeGet, DecodeGauge)
	r.Register(OpPageGet, DecodePage)
	r.Register(OpPageList, DecodePageList)
	r.Register(OpAnimationList, DecodeAnimationList)
	r.Register(OpPixelCount, DecodePixelCount)
	r.Register(OpConfigRead, DecodeConfigInfo)
	r.Register(OpConfigList, DecodeConfigList)
	r.Register(OpConfigFreeSpace, DecodeConfigFreeSpace)
	r.Register(OpConfigCount, DecodeConfigCount)
	r.Register(OpError, DecodeErrorInfo)
	r.Register(OpDeviceInfo, DecodeDeviceInfo)
	return r
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the shared registry built at package init.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register installs fn as the decoder for op, replacing any existing one.
func (r *Registry) Register(op byte, fn DecodeFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.decoders == nil {
		r.decoders = make(map[byte]DecodeFunc)
	}
	r.decoders[op] = fn
}

// Lookup returns the decoder for op.
func (r *Registry) Lookup(op byte) (DecodeFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.decoders[op]
	return fn, ok
}

// Decode parses a notification buffer and dispatches its payload to the
// registered decoder. Notifications with no decoder come back as Unhandled
// with a nil error. Framing errors wrap ErrMalformedFrame and payload errors
// are *DecodeError.
func (r *Registry) Decode(buf []byte) (Record, error) {
	f, err := ParseFrame(buf)
	if err != nil {
		return nil, err
	}
	fn, ok := r.Lookup(f.Opcode)
	if !ok {
		return Unhandled{
			Op:       f.Opcode,
			Payload:  bytes.Clone(f.Payload),
			RawFrame: bytes.Clone(f.Raw),
		}, nil
	}
	return fn(f.Payload)
}

// Decode decodes buf with the default registry.
func Decode(buf []byte) (Record, error) {
	return defaultRegistry.Decode(buf)
}

// DecodePayload decodes an already unframed payload for op with the default
// registry. Unknown opcodes come back as Unhandled.
func DecodePayload(op byte, payload []byte) (Record, error) {
	fn, ok := defaultRegistry.Lookup(op)
	if !ok {
		return Unhandled{Op: op, Payload: bytes.Clone(payload)}, nil
	}
	return fn(payload)
}

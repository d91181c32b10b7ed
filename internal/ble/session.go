package ble

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/chaz8081/engoctl/internal/ble/gatt"
	"github.com/chaz8081/engoctl/internal/ble/protocol"
)

var (
	// ErrDisconnected is returned for requests on a session whose link dropped.
	ErrDisconnected = errors.New("ble: disconnected")
	// ErrClosed is returned for requests on a session after Close.
	ErrClosed = errors.New("ble: session closed")
)

// CommandError is returned by Query when the device answers the request
// with an error notification.
type CommandError struct {
	Info protocol.ErrorInfo
}

func (e *CommandError) Error() string {
	return "ble: " + e.Info.String()
}

// Notification results reported to the Observer.
const (
	ResultMatched     = "matched"
	ResultEvent       = "event"
	ResultUnhandled   = "unhandled"
	ResultMalformed   = "malformed"
	ResultDecodeError = "decode_error"
)

// Observer receives session activity for instrumentation. Implementations
// must be safe for concurrent use and must not block.
type Observer interface {
	FrameSent(opcode byte)
	NotificationReceived(result string)
	DecodeFailed(opcode byte)
	QueryCompleted(opcode byte, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) FrameSent(byte)                     {}
func (nopObserver) NotificationReceived(string)        {}
func (nopObserver) DecodeFailed(byte)                  {}
func (nopObserver) QueryCompleted(byte, time.Duration) {}

// Options configures a Session.
type Options struct {
	MTU         int     // max bytes per write; longer frames are split
	WriteRate   float64 // writes per second, <= 0 disables pacing
	WriteBurst  int     // writes allowed back to back before pacing applies
	EventBuffer int     // unsolicited notifications kept before dropping the oldest

	Registry *protocol.Registry // nil uses protocol.DefaultRegistry()
	Observer Observer           // nil disables instrumentation
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		MTU:         protocol.DefaultMTU,
		WriteRate:   50,
		WriteBurst:  1,
		EventBuffer: 32,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MTU <= 0 {
		o.MTU = d.MTU
	}
	if o.WriteBurst <= 0 {
		o.WriteBurst = d.WriteBurst
	}
	if o.EventBuffer <= 0 {
		o.EventBuffer = d.EventBuffer
	}
	if o.Registry == nil {
		o.Registry = protocol.DefaultRegistry()
	}
	if o.Observer == nil {
		o.Observer = nopObserver{}
	}
	return o
}

type queryResult struct {
	rec protocol.Record
	err error
}

type pendingQuery struct {
	opcode byte
	ch     chan queryResult
}

// Session is an open connection to a pair of glasses. Requests are
// single-flight: Send and Query hold the session for the whole exchange and
// callers queue in order. A Session is safe for concurrent use.
type Session struct {
	id      string
	address string
	conn    Connection
	rx      Characteristic
	opts    Options
	limiter *rate.Limiter

	sem chan struct{}

	mu      sync.Mutex
	pending *pendingQuery
	partial []byte
	events  chan protocol.Record
	err     error
	done    chan struct{}
}

// Open connects to the glasses at address, discovers the command
// characteristics and subscribes to notifications.
func Open(ctx context.Context, adapter Adapter, address string, opts Options) (*Session, error) {
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("ble: enable adapter: %w", err)
	}

	conn, err := adapter.Connect(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("ble: connect to %s: %w", address, err)
	}

	rx, err := conn.DiscoverCharacteristic(ServiceUUID, RxCharUUID)
	if err != nil {
		_ = conn.Disconnect()
		return nil, fmt.Errorf("ble: discover rx characteristic: %w", err)
	}
	tx, err := conn.DiscoverCharacteristic(ServiceUUID, TxCharUUID)
	if err != nil {
		_ = conn.Disconnect()
		return nil, fmt.Errorf("ble: discover tx characteristic: %w", err)
	}

	s := newSession(conn, rx, address, opts)
	conn.OnDisconnect(s.handleDisconnect)
	if err := tx.Subscribe(s.handleNotification); err != nil {
		_ = conn.Disconnect()
		return nil, fmt.Errorf("ble: subscribe to tx: %w", err)
	}

	slog.Info("[BLE] connected", "session", s.id, "address", address)
	return s, nil
}

func newSession(conn Connection, rx Characteristic, address string, opts Options) *Session {
	opts = opts.withDefaults()
	limit := rate.Inf
	if opts.WriteRate > 0 {
		limit = rate.Limit(opts.WriteRate)
	}
	return &Session{
		id:      uuid.NewString(),
		address: address,
		conn:    conn,
		rx:      rx,
		opts:    opts,
		limiter: rate.NewLimiter(limit, opts.WriteBurst),
		sem:     make(chan struct{}, 1),
		events:  make(chan protocol.Record, opts.EventBuffer),
		done:    make(chan struct{}),
	}
}

// ID returns the session id attached to log lines.
func (s *Session) ID() string { return s.id }

// Address returns the device address.
func (s *Session) Address() string { return s.address }

// Events returns unsolicited notifications. The channel is closed when the
// session ends.
func (s *Session) Events() <-chan protocol.Record { return s.events }

// Done is closed when the session ends.
func (s *Session) Done() <-chan struct{} { return s.done }

// Err returns ErrDisconnected or ErrClosed once the session has ended, and
// nil before.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Send writes cmd without waiting for a response.
func (s *Session) Send(ctx context.Context, cmd protocol.Command) error {
	frame, err := cmd.Frame()
	if err != nil {
		return err
	}
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()
	return s.write(ctx, cmd, frame)
}

// Query writes cmd and waits for the notification answering it: the next
// notification with the same opcode, or an error notification for that
// opcode, which is returned as *CommandError.
func (s *Session) Query(ctx context.Context, cmd protocol.Command) (protocol.Record, error) {
	frame, err := cmd.Frame()
	if err != nil {
		return nil, err
	}
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	start := time.Now()
	ch := make(chan queryResult, 1)
	s.mu.Lock()
	s.pending = &pendingQuery{opcode: cmd.Opcode, ch: ch}
	s.partial = nil
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.pending = nil
		s.mu.Unlock()
	}()

	if err := s.write(ctx, cmd, frame); err != nil {
		return nil, err
	}

	select {
	case r := <-ch:
		s.opts.Observer.QueryCompleted(cmd.Opcode, time.Since(start))
		return r.rec, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("ble: %s: waiting for response: %w", cmd, ctx.Err())
	case <-s.done:
		select {
		case r := <-ch:
			return r.rec, r.err
		default:
		}
		return nil, s.Err()
	}
}

// acquire takes the single request slot.
func (s *Session) acquire(ctx context.Context) error {
	select {
	case <-s.done:
		return s.Err()
	default:
	}
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("ble: waiting for session: %w", ctx.Err())
	case <-s.done:
		return s.Err()
	}
}

func (s *Session) release() { <-s.sem }

// write sends frame in MTU-sized chunks, pacing each write.
func (s *Session) write(ctx context.Context, cmd protocol.Command, frame []byte) error {
	for _, chunk := range protocol.ChunkFrame(frame, s.opts.MTU) {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("ble: %s: %w", cmd, err)
		}
		select {
		case <-s.done:
			return s.Err()
		default:
		}
		if err := s.rx.Write(chunk); err != nil {
			return fmt.Errorf("ble: write %s: %w", cmd, err)
		}
	}
	s.opts.Observer.FrameSent(cmd.Opcode)
	slog.Debug("[BLE] sent", "session", s.id, "command", cmd.String(), "bytes", len(frame))
	return nil
}

// reassemble joins notifications into frames. A notification may end a
// frame started earlier, hold several frames, or start a frame completed
// by later notifications. Bytes that cannot start a frame are returned
// as-is so the decoder reports them.
func (s *Session) reassemble(data []byte) [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.partial) > 0 {
		if startsCompleteFrame(data) {
			slog.Debug("[BLE] discarding incomplete frame", "session", s.id, "bytes", len(s.partial))
		} else {
			data = append(s.partial, data...)
		}
		s.partial = nil
	}

	var frames [][]byte
	for len(data) > 0 {
		n, ok := protocol.FrameLength(data)
		if !ok {
			if data[0] == protocol.FrameStart && len(data) < minFrameSize {
				s.partial = bytes.Clone(data)
			} else {
				frames = append(frames, data)
			}
			break
		}
		if n < minFrameSize {
			frames = append(frames, data)
			break
		}
		if n > len(data) {
			s.partial = bytes.Clone(data)
			break
		}
		frames = append(frames, data[:n])
		data = data[n:]
	}
	return frames
}

// minFrameSize is the smallest well-formed frame: start, opcode, format,
// a 1-byte length and the end byte.
const minFrameSize = 5

// startsCompleteFrame reports whether data begins with a whole, valid frame.
func startsCompleteFrame(data []byte) bool {
	n, ok := protocol.FrameLength(data)
	if !ok || n < minFrameSize || n > len(data) {
		return false
	}
	_, err := protocol.ParseFrame(data[:n])
	return err == nil
}

func (s *Session) handleNotification(data []byte) {
	for _, frame := range s.reassemble(data) {
		s.handleFrame(frame)
	}
}

func (s *Session) handleFrame(frame []byte) {
	rec, err := s.opts.Registry.Decode(frame)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return
	}
	obs := s.opts.Observer
	p := s.pending

	if err != nil {
		var de *protocol.DecodeError
		if errors.As(err, &de) {
			obs.DecodeFailed(de.Opcode)
			obs.NotificationReceived(ResultDecodeError)
			if p != nil && p.opcode == de.Opcode {
				s.deliver(queryResult{err: err})
				return
			}
		} else {
			obs.NotificationReceived(ResultMalformed)
		}
		slog.Warn("[BLE] dropping notification", "session", s.id, "error", err)
		return
	}

	if p != nil {
		if info, ok := rec.(protocol.ErrorInfo); ok && info.CmdID == p.opcode {
			obs.NotificationReceived(ResultMatched)
			s.deliver(queryResult{err: &CommandError{Info: info}})
			return
		}
		if rec.Opcode() == p.opcode {
			obs.NotificationReceived(ResultMatched)
			s.deliver(queryResult{rec: rec})
			return
		}
	}

	if _, ok := rec.(protocol.Unhandled); ok {
		obs.NotificationReceived(ResultUnhandled)
		slog.Debug("[BLE] unhandled notification", "session", s.id, "opcode", protocol.OpcodeName(rec.Opcode()))
	} else {
		obs.NotificationReceived(ResultEvent)
	}
	s.pushEvent(rec)
}

// deliver hands r to the pending query (caller must hold mu).
func (s *Session) deliver(r queryResult) {
	s.pending.ch <- r
	s.pending = nil
}

// pushEvent queues rec, dropping the oldest event when full (caller must
// hold mu).
func (s *Session) pushEvent(rec protocol.Record) {
	select {
	case s.events <- rec:
		return
	default:
	}
	select {
	case old := <-s.events:
		slog.Warn("[BLE] event buffer full, dropping oldest", "session", s.id, "opcode", protocol.OpcodeName(old.Opcode()))
	default:
	}
	select {
	case s.events <- rec:
	default:
	}
}

func (s *Session) handleDisconnect() {
	if s.shutdown(ErrDisconnected) {
		slog.Warn("[BLE] disconnected", "session", s.id, "address", s.address)
	}
}

// shutdown ends the session with err. It reports false if the session had
// already ended.
func (s *Session) shutdown(err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false
	}
	s.err = err
	close(s.done)
	close(s.events)
	return true
}

// Close ends the session and disconnects. Requests in flight fail with
// ErrClosed.
func (s *Session) Close() error {
	if !s.shutdown(ErrClosed) {
		return nil
	}
	if err := s.conn.Disconnect(); err != nil {
		return fmt.Errorf("ble: disconnect: %w", err)
	}
	slog.Info("[BLE] session closed", "session", s.id)
	return nil
}

// ReadCharacteristic reads a catalog characteristic and decodes it with its
// semantic type.
func (s *Session) ReadCharacteristic(ctx context.Context, service, name string) (gatt.Value, error) {
	svc, spec, err := lookupCharacteristic(service, name, gatt.PropRead)
	if err != nil {
		return gatt.Value{}, err
	}

	type readResult struct {
		data []byte
		err  error
	}
	ch := make(chan readResult, 1)
	go func() {
		char, err := s.conn.DiscoverCharacteristic(svc.UUID.String(), spec.UUID.String())
		if err != nil {
			ch <- readResult{err: err}
			return
		}
		data, err := char.Read()
		ch <- readResult{data, err}
	}()

	select {
	case <-ctx.Done():
		return gatt.Value{}, fmt.Errorf("ble: read %s/%s: %w", service, name, ctx.Err())
	case <-s.done:
		return gatt.Value{}, s.Err()
	case r := <-ch:
		if r.err != nil {
			return gatt.Value{}, fmt.Errorf("ble: read %s/%s: %w", service, name, r.err)
		}
		return gatt.DecodeValue(r.data, spec.Type)
	}
}

// SubscribeCharacteristic delivers decoded notifications of a catalog
// characteristic to fn. Values that fail to decode are logged and skipped.
func (s *Session) SubscribeCharacteristic(service, name string, fn func(gatt.Value)) error {
	svc, spec, err := lookupCharacteristic(service, name, gatt.PropNotify)
	if err != nil {
		return err
	}
	if spec.Type == gatt.TypeOpaque {
		return fmt.Errorf("ble: subscribe %s/%s: %w", service, name, gatt.ErrUnsupportedType)
	}
	char, err := s.conn.DiscoverCharacteristic(svc.UUID.String(), spec.UUID.String())
	if err != nil {
		return fmt.Errorf("ble: subscribe %s/%s: %w", service, name, err)
	}
	return char.Subscribe(func(data []byte) {
		v, err := gatt.DecodeValue(data, spec.Type)
		if err != nil {
			slog.Warn("[BLE] bad characteristic value", "session", s.id, "characteristic", name, "error", err)
			return
		}
		fn(v)
	})
}

func lookupCharacteristic(service, name string, prop gatt.Property) (gatt.ServiceSpec, gatt.CharacteristicSpec, error) {
	spec, ok := gatt.Lookup(service, name, prop)
	if !ok {
		return gatt.ServiceSpec{}, gatt.CharacteristicSpec{}, fmt.Errorf("%w: %s/%s (%s)", gatt.ErrNotFound, service, name, prop)
	}
	svc, _ := gatt.Service(service)
	return svc, spec, nil
}

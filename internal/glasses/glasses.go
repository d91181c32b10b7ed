// Package glasses is the typed API over a BLE session: one method per
// command, with typed results for every command the glasses answer.
package glasses

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chaz8081/engoctl/internal/ble"
	"github.com/chaz8081/engoctl/internal/ble/gatt"
	"github.com/chaz8081/engoctl/internal/ble/protocol"
)

// DefaultRequestTimeout bounds each request when Options leaves it unset.
const DefaultRequestTimeout = 5 * time.Second

// ErrUnexpectedResponse is returned when a query is answered with a record
// of the wrong type.
var ErrUnexpectedResponse = errors.New("glasses: unexpected response")

// Requester is the part of ble.Session the client needs.
type Requester interface {
	Send(ctx context.Context, cmd protocol.Command) error
	Query(ctx context.Context, cmd protocol.Command) (protocol.Record, error)
	ReadCharacteristic(ctx context.Context, service, name string) (gatt.Value, error)
}

// Compile-time interface satisfaction check.
var _ Requester = (*ble.Session)(nil)

// Options configures a Client.
type Options struct {
	// RequestTimeout bounds every request. Zero means DefaultRequestTimeout.
	RequestTimeout time.Duration
}

// Client issues typed commands to the glasses.
type Client struct {
	req     Requester
	timeout time.Duration
}

// New creates a Client backed by req.
// Panics if req is nil (programmer error).
func New(req Requester, opts Options) *Client {
	if req == nil {
		panic("glasses: New called with nil requester")
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	return &Client{req: req, timeout: opts.RequestTimeout}
}

func (c *Client) send(ctx context.Context, cmd protocol.Command) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.req.Send(ctx, cmd); err != nil {
		return fmt.Errorf("glasses: %s: %w", cmd, err)
	}
	return nil
}

// query sends cmd and asserts the response type.
func query[T protocol.Record](ctx context.Context, c *Client, cmd protocol.Command) (T, error) {
	var zero T
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	rec, err := c.req.Query(ctx, cmd)
	if err != nil {
		return zero, fmt.Errorf("glasses: %s: %w", cmd, err)
	}
	v, ok := rec.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s answered with %T", ErrUnexpectedResponse, cmd, rec)
	}
	return v, nil
}

// Batch sends cmds between a hold and a flush so the display updates once.
// A flush is attempted even when a command fails.
func (c *Client) Batch(ctx context.Context, cmds ...protocol.Command) error {
	if err := c.send(ctx, protocol.SetHoldFlush(protocol.Hold)); err != nil {
		return err
	}
	var firstErr error
	for _, cmd := range cmds {
		if err := c.send(ctx, cmd); err != nil {
			firstErr = err
			break
		}
	}
	if err := c.send(ctx, protocol.SetHoldFlush(protocol.Flush)); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

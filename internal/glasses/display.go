package glasses

import (
	"context"

	"github.com/chaz8081/engoctl/internal/ble/protocol"
)

func (c *Client) DisplayPower(ctx context.Context, on bool) error {
	return c.send(ctx, protocol.DisplayPower(on))
}

func (c *Client) Clear(ctx context.Context) error {
	return c.send(ctx, protocol.ClearDisplay())
}

func (c *Client) GreyLevel(ctx context.Context, level uint8) error {
	return c.send(ctx, protocol.GreyLevel(level))
}

func (c *Client) Demo(ctx context.Context, id uint8) error {
	return c.send(ctx, protocol.Demo(id))
}

func (c *Client) LED(ctx context.Context, state protocol.LEDState) error {
	return c.send(ctx, protocol.LED(state))
}

// Shift moves the whole display by x, y pixels.
func (c *Client) Shift(ctx context.Context, x, y int16) error {
	return c.send(ctx, protocol.Shift(x, y))
}

func (c *Client) Settings(ctx context.Context) (protocol.Settings, error) {
	return query[protocol.Settings](ctx, c, protocol.GetSettings())
}

func (c *Client) Luminance(ctx context.Context, level uint8) error {
	return c.send(ctx, protocol.Luminance(level))
}

func (c *Client) Sensor(ctx context.Context, on bool) error {
	return c.send(ctx, protocol.Sensor(on))
}

func (c *Client) Gesture(ctx context.Context, on bool) error {
	return c.send(ctx, protocol.Gesture(on))
}

func (c *Client) AutoBrightness(ctx context.Context, on bool) error {
	return c.send(ctx, protocol.AutoBrightness(on))
}

// Draw sends graphics commands built with the protocol package, e.g.
// protocol.DrawLine, wrapped in a hold/flush batch.
func (c *Client) Draw(ctx context.Context, cmds ...protocol.Command) error {
	return c.Batch(ctx, cmds...)
}

// TextStyle controls how Text lays out a string.
type TextStyle struct {
	Rotation uint8
	Font     uint8
	Color    uint8
	// LineHeight is the vertical distance between wrapped lines.
	LineHeight int16
	// MaxLineBytes limits the length of one drawn line. Zero draws the
	// text on a single line.
	MaxLineBytes int
}

// Text draws text at p, wrapping it into lines of at most
// style.MaxLineBytes bytes. Lines are drawn downwards from p.
func (c *Client) Text(ctx context.Context, p protocol.Point, style TextStyle, text string) error {
	lines := []string{text}
	if style.MaxLineBytes > 0 {
		lines = protocol.WrapText(text, style.MaxLineBytes)
	}
	cmds := make([]protocol.Command, 0, len(lines))
	for i, line := range lines {
		at := protocol.Point{X: p.X, Y: p.Y + int16(i)*style.LineHeight}
		cmds = append(cmds, protocol.DrawText(at, style.Rotation, style.Font, style.Color, line))
	}
	return c.Batch(ctx, cmds...)
}

func (c *Client) PixelCount(ctx context.Context) (uint32, error) {
	pc, err := query[protocol.PixelCount](ctx, c, protocol.PixelCountRequest())
	return pc.Count, err
}

package glasses

import (
	"context"

	"github.com/chaz8081/engoctl/internal/ble/protocol"
)

// Images

func (c *Client) ImageSave(ctx context.Context, id uint8, size uint32, width uint16, format uint8) error {
	return c.send(ctx, protocol.ImageSave(id, size, width, format))
}

func (c *Client) ImageDisplay(ctx context.Context, id uint8, p protocol.Point) error {
	return c.send(ctx, protocol.ImageDisplay(id, p))
}

// ImageStream announces an image that is displayed without being saved.
// The pixel data follows as raw writes.
func (c *Client) ImageStream(ctx context.Context, size uint32, width uint16, p protocol.Point, format uint8) error {
	return c.send(ctx, protocol.ImageStream(size, width, p, format))
}

func (c *Client) ImageDelete(ctx context.Context, id uint8) error {
	return c.send(ctx, protocol.ImageDelete(id))
}

func (c *Client) Images(ctx context.Context) (protocol.ImageList, error) {
	return query[protocol.ImageList](ctx, c, protocol.ImageListRequest())
}

// Fonts

func (c *Client) Fonts(ctx context.Context) (protocol.FontList, error) {
	return query[protocol.FontList](ctx, c, protocol.FontListRequest())
}

func (c *Client) FontSave(ctx context.Context, id uint8, size uint16, data []byte) error {
	return c.send(ctx, protocol.FontSave(id, size, data))
}

func (c *Client) FontSelect(ctx context.Context, id uint8) error {
	return c.send(ctx, protocol.FontSelect(id))
}

func (c *Client) FontDelete(ctx context.Context, id uint8) error {
	return c.send(ctx, protocol.FontDelete(id))
}

// Layouts

func (c *Client) LayoutSave(ctx context.Context, l protocol.Layout) error {
	cmd, err := protocol.LayoutSave(l)
	if err != nil {
		return err
	}
	return c.send(ctx, cmd)
}

func (c *Client) LayoutDelete(ctx context.Context, id uint8) error {
	return c.send(ctx, protocol.LayoutDelete(id))
}

func (c *Client) LayoutDisplay(ctx context.Context, id uint8, text string) error {
	return c.send(ctx, protocol.LayoutDisplay(id, text))
}

func (c *Client) LayoutClear(ctx context.Context, id uint8) error {
	return c.send(ctx, protocol.LayoutClear(id))
}

func (c *Client) Layouts(ctx context.Context) (protocol.LayoutList, error) {
	return query[protocol.LayoutList](ctx, c, protocol.LayoutListRequest())
}

func (c *Client) LayoutPosition(ctx context.Context, id uint8, x uint16, y uint8) error {
	return c.send(ctx, protocol.LayoutPosition(id, x, y))
}

func (c *Client) LayoutDisplayExtended(ctx context.Context, id uint8, x uint16, y uint8, text string, extra []byte) error {
	return c.send(ctx, protocol.LayoutDisplayExtended(id, x, y, text, extra))
}

func (c *Client) Layout(ctx context.Context, id uint8) (protocol.Layout, error) {
	return query[protocol.Layout](ctx, c, protocol.LayoutGet(id))
}

func (c *Client) LayoutClearExtended(ctx context.Context, id uint8, x uint16, y uint8) error {
	return c.send(ctx, protocol.LayoutClearExtended(id, x, y))
}

func (c *Client) LayoutClearAndDisplay(ctx context.Context, id uint8, text string) error {
	return c.send(ctx, protocol.LayoutClearAndDisplay(id, text))
}

func (c *Client) LayoutClearAndDisplayExtended(ctx context.Context, id uint8, x uint16, y uint8, text string, extra []byte) error {
	return c.send(ctx, protocol.LayoutClearAndDisplayExtended(id, x, y, text, extra))
}

// Gauges

func (c *Client) GaugeDisplay(ctx context.Context, id, value uint8) error {
	return c.send(ctx, protocol.GaugeDisplay(id, value))
}

func (c *Client) GaugeSave(ctx context.Context, id uint8, g protocol.Gauge) error {
	return c.send(ctx, protocol.GaugeSave(id, g))
}

func (c *Client) GaugeDelete(ctx context.Context, id uint8) error {
	return c.send(ctx, protocol.GaugeDelete(id))
}

func (c *Client) Gauges(ctx context.Context) (protocol.GaugeList, error) {
	return query[protocol.GaugeList](ctx, c, protocol.GaugeListRequest())
}

func (c *Client) Gauge(ctx context.Context, id uint8) (protocol.Gauge, error) {
	return query[protocol.Gauge](ctx, c, protocol.GaugeGet(id))
}

// Pages

func (c *Client) PageSave(ctx context.Context, id uint8, layouts []protocol.PageLayout) error {
	return c.send(ctx, protocol.PageSave(id, layouts))
}

func (c *Client) Page(ctx context.Context, id uint8) (protocol.Page, error) {
	return query[protocol.Page](ctx, c, protocol.PageGet(id))
}

func (c *Client) PageDelete(ctx context.Context, id uint8) error {
	return c.send(ctx, protocol.PageDelete(id))
}

func (c *Client) PageDisplay(ctx context.Context, id uint8, texts []string) error {
	return c.send(ctx, protocol.PageDisplay(id, texts))
}

func (c *Client) PageClear(ctx context.Context, id uint8) error {
	return c.send(ctx, protocol.PageClear(id))
}

func (c *Client) Pages(ctx context.Context) (protocol.PageList, error) {
	return query[protocol.PageList](ctx, c, protocol.PageListRequest())
}

func (c *Client) PageClearAndDisplay(ctx context.Context, id uint8, texts []string) error {
	return c.send(ctx, protocol.PageClearAndDisplay(id, texts))
}

// Animations

func (c *Client) AnimationSave(ctx context.Context, id uint8, totalSize, imgSize uint32, width uint16, format uint8, compressedSize uint32) error {
	return c.send(ctx, protocol.AnimationSave(id, totalSize, imgSize, width, format, compressedSize))
}

func (c *Client) AnimationDelete(ctx context.Context, id uint8) error {
	return c.send(ctx, protocol.AnimationDelete(id))
}

func (c *Client) AnimationDisplay(ctx context.Context, handler, id uint8, delay uint16, repeat uint8, p protocol.Point) error {
	return c.send(ctx, protocol.AnimationDisplay(handler, id, delay, repeat, p))
}

func (c *Client) AnimationClear(ctx context.Context, handler uint8) error {
	return c.send(ctx, protocol.AnimationClear(handler))
}

func (c *Client) Animations(ctx context.Context) (protocol.AnimationList, error) {
	return query[protocol.AnimationList](ctx, c, protocol.AnimationListRequest())
}

// Configurations

func (c *Client) ConfigWrite(ctx context.Context, name string, version, password uint32) error {
	return c.send(ctx, protocol.ConfigWrite(name, version, password))
}

func (c *Client) ConfigRead(ctx context.Context, name string) (protocol.ConfigInfo, error) {
	return query[protocol.ConfigInfo](ctx, c, protocol.ConfigRead(name))
}

func (c *Client) ConfigSet(ctx context.Context, name string) error {
	return c.send(ctx, protocol.ConfigSet(name))
}

func (c *Client) Configs(ctx context.Context) (protocol.ConfigList, error) {
	return query[protocol.ConfigList](ctx, c, protocol.ConfigListRequest())
}

func (c *Client) ConfigRename(ctx context.Context, oldName, newName string, password uint32) error {
	return c.send(ctx, protocol.ConfigRename(oldName, newName, password))
}

func (c *Client) ConfigDelete(ctx context.Context, name string) error {
	return c.send(ctx, protocol.ConfigDelete(name))
}

func (c *Client) ConfigDeleteLessUsed(ctx context.Context) error {
	return c.send(ctx, protocol.ConfigDeleteLessUsed())
}

func (c *Client) ConfigFreeSpace(ctx context.Context) (protocol.ConfigFreeSpace, error) {
	return query[protocol.ConfigFreeSpace](ctx, c, protocol.ConfigFreeSpaceRequest())
}

func (c *Client) ConfigCount(ctx context.Context) (uint8, error) {
	n, err := query[protocol.ConfigCount](ctx, c, protocol.ConfigCountRequest())
	return n.Count, err
}

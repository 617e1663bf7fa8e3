package game

import (
	"math"

	"github.com/Garsondee/Outbreak/internal/geom"
)

const (
	zoomMin = 2.0
	zoomMax = 48.0
)

// Camera maps world metres (y up) to viewport pixels (y down).
//
//	screen = (world - centre) * zoom + viewHalf, with y flipped
//	world  = (screen - viewHalf) / zoom + centre
type Camera struct {
	Center geom.Vec2
	Zoom   float64 // pixels per metre
	ViewW  int
	ViewH  int
}

// WorldToScreen projects p into viewport pixels.
func (c *Camera) WorldToScreen(p geom.Vec2) (float32, float32) {
	sx := (p.X-c.Center.X)*c.Zoom + float64(c.ViewW)/2
	sy := float64(c.ViewH)/2 - (p.Y-c.Center.Y)*c.Zoom
	return float32(sx), float32(sy)
}

// ScreenToWorld is the inverse of WorldToScreen.
func (c *Camera) ScreenToWorld(x, y int) geom.Vec2 {
	return geom.V(
		(float64(x)-float64(c.ViewW)/2)/c.Zoom+c.Center.X,
		(float64(c.ViewH)/2-float64(y))/c.Zoom+c.Center.Y,
	)
}

// Scale converts a world length to pixels.
func (c *Camera) Scale(d float64) float32 {
	return float32(d * c.Zoom)
}

// Pan moves the camera by a screen-space delta.
func (c *Camera) Pan(dxPx, dyPx float64) {
	c.Center.X += dxPx / c.Zoom
	c.Center.Y -= dyPx / c.Zoom
}

// ZoomAt multiplies the zoom, keeping the world point under (sx, sy) fixed.
func (c *Camera) ZoomAt(factor float64, sx, sy int) {
	before := c.ScreenToWorld(sx, sy)
	c.Zoom = math.Max(zoomMin, math.Min(zoomMax, c.Zoom*factor))
	after := c.ScreenToWorld(sx, sy)
	c.Center = c.Center.Add(before.Sub(after))
}

// Clamp keeps the centre inside [-half, half]².
func (c *Camera) Clamp(half float64) {
	c.Center.X = math.Max(-half, math.Min(half, c.Center.X))
	c.Center.Y = math.Max(-half, math.Min(half, c.Center.Y))
}

// Visible returns the world rectangle covered by the viewport.
func (c *Camera) Visible() (minX, minY, maxX, maxY float64) {
	hw := float64(c.ViewW) / 2 / c.Zoom
	hh := float64(c.ViewH) / 2 / c.Zoom
	return c.Center.X - hw, c.Center.Y - hh, c.Center.X + hw, c.Center.Y + hh
}

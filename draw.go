package main

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/ride/common"
	"golang.org/x/image/colornames"
)

// camera maps world coordinates (y up) onto the screen (y down).
type camera struct {
	center cp.Vector
	scale  float64
	width  float64
	height float64
}

func (c camera) toScreen(p cp.Vector) (float64, float64) {
	return (p.X-c.center.X)*c.scale + c.width/2, c.height/2 - (p.Y-c.center.Y)*c.scale
}

func (c camera) toWorld(x, y float64) cp.Vector {
	return cp.Vector{X: (x-c.width/2)/c.scale + c.center.X, Y: (c.height/2-y)/c.scale + c.center.Y}
}

// follow eases the camera toward target.
func (c *camera) follow(target cp.Vector, t float64) {
	c.center.X = common.Lerp(c.center.X, target.X, t)
	c.center.Y = common.Lerp(c.center.Y, target.Y, t)
}

func (c camera) line(screen *ebiten.Image, a, b cp.Vector, clr color.Color) {
	ax, ay := c.toScreen(a)
	bx, by := c.toScreen(b)
	ebitenutil.DrawLine(screen, ax, ay, bx, by, clr)
}

// spaceDrawer renders Chipmunk shapes through the camera.
type spaceDrawer struct {
	screen *ebiten.Image
	cam    camera
	debug  bool
}

func (d *spaceDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	c := fcolorToRGBA(fill)
	steps := 24
	prev := cp.Vector{X: pos.X + radius, Y: pos.Y}
	for i := 1; i <= steps; i++ {
		th := float64(i) * (2 * math.Pi / float64(steps))
		cur := cp.Vector{X: pos.X + math.Cos(th)*radius, Y: pos.Y + math.Sin(th)*radius}
		d.cam.line(d.screen, prev, cur, c)
		prev = cur
	}
	// spoke, so rolling is visible
	d.cam.line(d.screen, pos, cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}, c)
}

func (d *spaceDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.cam.line(d.screen, a, b, fcolorToRGBA(fill))
}

func (d *spaceDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.cam.line(d.screen, a, b, fcolorToRGBA(fill))
}

func (d *spaceDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count == 0 {
		return
	}
	c := fcolorToRGBA(fill)
	for i := 0; i < count; i++ {
		d.cam.line(d.screen, verts[i], verts[(i+1)%count], c)
	}
}

func (d *spaceDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	c := fcolorToRGBA(fill)
	l := size / 2 / d.cam.scale
	d.cam.line(d.screen, pos.Sub(cp.Vector{X: l}), pos.Add(cp.Vector{X: l}), c)
	d.cam.line(d.screen, pos.Sub(cp.Vector{Y: l}), pos.Add(cp.Vector{Y: l}), c)
}

func (d *spaceDrawer) Flags() uint {
	if d.debug {
		return cp.DRAW_SHAPES | cp.DRAW_CONSTRAINTS | cp.DRAW_COLLISION_POINTS
	}
	return cp.DRAW_SHAPES
}

func (d *spaceDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1.0, B: 0.2, A: 1.0}
}

// ShapeColor prefers the colour the level gave the shape.
func (d *spaceDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if shape == nil {
		return cp.FColor{R: 1, G: 1, B: 1, A: 1}
	}
	if c, ok := shape.UserData.(color.NRGBA); ok {
		return cp.FColor{R: float32(c.R) / 255, G: float32(c.G) / 255, B: float32(c.B) / 255, A: float32(c.A) / 255}
	}
	if shape.Body() != nil && shape.Body().GetType() == cp.BODY_STATIC {
		return cp.FColor{R: 0.4, G: 0.7, B: 1.0, A: 1.0}
	}
	return cp.FColor{R: 0.9, G: 0.4, B: 0.9, A: 1.0}
}

func (d *spaceDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 0.7, G: 0.7, B: 0.7, A: 1.0}
}

func (d *spaceDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1.0, G: 0.1, B: 0.1, A: 1.0}
}

func (d *spaceDrawer) Data() interface{} {
	return nil
}

// marker draws a flag pole at p.
func (c camera) marker(screen *ebiten.Image, p cp.Vector, clr color.Color) {
	top := p.Add(cp.Vector{Y: 1.5})
	c.line(screen, p, top, clr)
	c.line(screen, top, top.Add(cp.Vector{X: 0.6, Y: -0.25}), clr)
	c.line(screen, top.Add(cp.Vector{X: 0.6, Y: -0.25}), top.Add(cp.Vector{Y: -0.5}), clr)
}

// zigzag draws a spring between a and b.
func (c camera) zigzag(screen *ebiten.Image, a, b cp.Vector) {
	const coils = 8
	delta := b.Sub(a)
	if delta.Length() < 1e-9 {
		return
	}
	side := delta.Perp().Normalize().Mult(0.12)
	prev := a
	for i := 1; i < coils; i++ {
		p := a.Add(delta.Mult(float64(i) / coils))
		if i%2 == 0 {
			p = p.Add(side)
		} else {
			p = p.Sub(side)
		}
		c.line(screen, prev, p, colornames.Gold)
		prev = p
	}
	c.line(screen, prev, b, colornames.Gold)
}

func fcolorToRGBA(c cp.FColor) color.RGBA {
	clamp := func(v float32) uint8 {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return uint8(v * 255)
	}
	return color.RGBA{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: clamp(c.A)}
}

package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/jrcoleman/nesemu/system"
)

const (
	masterTicksPerFrame = 29781 * 12 // one CPU cycle = 12 master ticks, ~29781 CPU cycles/frame NTSC
)

// standard NES button-to-bit mapping, polled into the same $4016
// open-bus stub window the core treats as out of scope (§1/§3); see
// system.controller for the serializer itself.
var keys = []ebiten.Key{
	ebiten.KeyX,     // A
	ebiten.KeyZ,     // B
	ebiten.KeyShift, // Select
	ebiten.KeyEnter, // Start
	ebiten.KeyUp,
	ebiten.KeyDown,
	ebiten.KeyLeft,
	ebiten.KeyRight,
}

// gameWindow adapts system.System to the ebiten.Game interface. It
// holds the one reference the core's collaborator layer needs; the
// core itself never imports ebiten.
type gameWindow struct {
	sys *system.System
}

// Update runs one video frame's worth of master clock ticks and
// samples the host keyboard into controller port 1 (pad 0).
func (g *gameWindow) Update() error {
	var buttons uint8
	for i, k := range keys {
		if ebiten.IsKeyPressed(k) {
			buttons |= 1 << i
		}
	}
	g.sys.SetButtons(0, buttons)

	for i := 0; i < masterTicksPerFrame && g.sys.Fault() == nil; i++ {
		g.sys.Tick()
	}
	return nil
}

// Draw blits the core's packed-ARGB frame buffer into the ebiten
// screen image.
func (g *gameWindow) Draw(screen *ebiten.Image) {
	fb := g.sys.FrameBuffer()
	for i, px := range fb {
		x, y := i%256, i/256
		a := uint8(px >> 24)
		r := uint8(px >> 16)
		gg := uint8(px >> 8)
		b := uint8(px)
		screen.Set(x, y, color.RGBA{r, gg, b, a})
	}
}

// Layout returns the NES's fixed native resolution; ebiten scales the
// window to it rather than the other way around.
func (g *gameWindow) Layout(outsideWidth, outsideHeight int) (int, int) {
	return 256, 240
}

//go:build !tinygo

package simwindow

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"stickhal/hal/panel"
	"stickhal/hal/platform"
)

// Options configure Run.
type Options struct {
	Title   string
	Scale   int
	Panel   *platform.MemPanel
	Variant panel.Variant
	Controls

	// LED, when set, is drawn as a dot in the corner while lit.
	LED          *platform.FakePin
	LEDActiveLow bool
}

var keymap = map[Key]ebiten.Key{
	KeyA:          ebiten.KeyA,
	KeyB:          ebiten.KeyB,
	KeyPowerShort: ebiten.KeyP,
	KeyPowerLong:  ebiten.KeyL,
	KeyQuit:       ebiten.KeyEscape,
}

type ebitenKeys struct{}

func (ebitenKeys) JustPressed(k Key) bool  { return inpututil.IsKeyJustPressed(keymap[k]) }
func (ebitenKeys) JustReleased(k Key) bool { return inpututil.IsKeyJustReleased(keymap[k]) }

var ledColor = color.RGBA{R: 0xFF, A: 0xFF}

// Run opens the window and blocks until it is closed or Escape is pressed.
func Run(o Options) error {
	if o.Scale <= 0 {
		o.Scale = 3
	}
	if o.Title == "" {
		o.Title = "stick-sim (" + o.Variant.Name + ")"
	}
	g := &game{o: o, frame: NewFrame(o.Panel, o.Variant)}
	w, h := g.frame.Size()
	ebiten.SetWindowTitle(o.Title)
	ebiten.SetWindowSize(w*o.Scale, h*o.Scale)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type game struct {
	o     Options
	frame *Frame
	img   *ebiten.Image
	led   *ebiten.Image
}

func (g *game) Update() error {
	if g.o.Controls.Apply(ebitenKeys{}) {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.img == nil {
		w, h := g.frame.Size()
		g.img = ebiten.NewImage(w, h)
		g.led = ebiten.NewImage(3, 3)
		g.led.Fill(ledColor)
	}
	g.img.WritePixels(g.frame.Refresh())
	screen.DrawImage(g.img, nil)

	if g.o.LED != nil && g.o.LED.Get() != g.o.LEDActiveLow {
		w, _ := g.frame.Size()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(w-4), 1)
		screen.DrawImage(g.led, op)
	}
}

func (g *game) Layout(_, _ int) (int, int) { return g.frame.Size() }

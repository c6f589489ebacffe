// Package display renders the temperature dashboard: a black canvas with
// CPU/GPU labels, large centered degree readouts, and two rounded progress
// bars colored by the temperature gradient.
package display

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"coolerdash/config"
	"coolerdash/sensors"
)

const (
	// barCornerRadius is the rounded-corner radius of the progress bars.
	barCornerRadius = 8.0
	// tempOffsetX/Y push the large readouts toward the display edges so
	// they clear the labels and the central bar block.
	tempOffsetX = 22
	tempOffsetY = 22
	labelInset  = 4
)

// Composer renders snapshots into the configured PNG file.
type Composer struct {
	cfg       *config.Config
	largeFace font.Face
	labelFace font.Face
}

// NewComposer loads the configured font and prepares the two faces.
func NewComposer(cfg *config.Config) (*Composer, error) {
	f, err := loadFont(cfg.Font.Face)
	if err != nil {
		return nil, err
	}
	large, err := newFace(f, cfg.Font.SizeLarge)
	if err != nil {
		return nil, fmt.Errorf("large face: %w", err)
	}
	labels, err := newFace(f, cfg.Font.SizeLabels)
	if err != nil {
		return nil, fmt.Errorf("label face: %w", err)
	}
	return &Composer{cfg: cfg, largeFace: large, labelFace: labels}, nil
}

// Render composes the dashboard for snap and writes it to the configured
// image path. The previous on-disk image survives any failure: the PNG is
// encoded to a temp file in the same directory and renamed into place only
// after a successful sync.
func (c *Composer) Render(snap sensors.Snapshot) error {
	img := c.compose(snap)
	return c.writePNG(img)
}

func (c *Composer) compose(snap sensors.Snapshot) *image.RGBA {
	cfg := c.cfg
	width := cfg.Display.Width
	height := cfg.Display.Height
	boxH := float64(cfg.Layout.BoxHeight)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	gc := draw2dimg.NewGraphicContext(img)

	gc.SetFillColor(color.Black)
	draw2dkit.Rectangle(gc, 0, 0, float64(width), float64(height))
	gc.Fill()

	// Labels, left-aligned and vertically centered per box.
	labelColor := toColor(cfg.Colors.Label)
	c.drawText(img, "CPU", labelInset, c.labelBaseline(0), c.labelFace, labelColor)
	c.drawText(img, "GPU", labelInset, c.labelBaseline(boxH), c.labelFace, labelColor)

	// Large readouts with the degree glyph, centered with fixed offsets.
	tempColor := toColor(cfg.Colors.Temp)
	cpuText := fmt.Sprintf("%d°", int(snap.CPUTemp))
	gpuText := fmt.Sprintf("%d°", int(snap.GPUTemp))
	c.drawCentered(img, cpuText, 0, boxH, -tempOffsetY, tempColor)
	c.drawCentered(img, gpuText, boxH, boxH, tempOffsetY, tempColor)

	// Progress bars, drawn last so they sit on top of oversized glyphs.
	barX := float64(width-cfg.Layout.BarWidth) / 2
	barH := float64(cfg.Layout.BarHeight)
	barGap := float64(cfg.Layout.BarGap)
	cpuBarY := (float64(height)-(2*barH+barGap))/2 + 1
	gpuBarY := cpuBarY + barH + barGap
	c.drawBar(gc, barX, cpuBarY, snap.CPUTemp)
	c.drawBar(gc, barX, gpuBarY, snap.GPUTemp)

	return img
}

// labelBaseline vertically centers the label face within the box at boxY.
func (c *Composer) labelBaseline(boxY float64) int {
	metrics := c.labelFace.Metrics()
	half := (metrics.Ascent - metrics.Descent).Round() / 2
	return int(boxY) + c.cfg.Layout.BoxHeight/2 + half
}

func (c *Composer) drawText(img *image.RGBA, text string, x, y int, face font.Face, clr color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(clr),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// drawCentered places text horizontally centered (plus the fixed x offset)
// within the full-width box starting at boxY, with dy shifting the baseline
// away from the central bar block.
func (c *Composer) drawCentered(img *image.RGBA, text string, boxY, boxH float64, dy int, clr color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(clr),
		Face: c.largeFace,
	}
	textW := d.MeasureString(text).Round()
	textH := c.largeFace.Metrics().Ascent.Round()
	x := (c.cfg.Display.Width-textW)/2 + tempOffsetX
	y := int(boxY) + (int(boxH)+textH)/2 + dy
	d.Dot = fixed.P(x, y)
	d.DrawString(text)
}

// drawBar draws one progress bar: rounded background, temperature-colored
// fill, stroked border. A fill narrower than the corner diameter degrades
// to a plain rectangle instead of a malformed rounded path.
func (c *Composer) drawBar(gc *draw2dimg.GraphicContext, x, y float64, tempC float64) {
	cfg := c.cfg
	barW := float64(cfg.Layout.BarWidth)
	barH := float64(cfg.Layout.BarHeight)

	gc.BeginPath()
	gc.SetFillColor(toColor(cfg.Colors.Bg))
	draw2dkit.RoundedRectangle(gc, x, y, x+barW, y+barH, 2*barCornerRadius, 2*barCornerRadius)
	gc.Fill()

	fillW := fillWidth(tempC, cfg.Layout.BarWidth)
	if fillW > 0 {
		gc.BeginPath()
		gc.SetFillColor(toColor(ColorFor(tempC, cfg)))
		if float64(fillW) > 2*barCornerRadius {
			draw2dkit.RoundedRectangle(gc, x, y, x+float64(fillW), y+barH, 2*barCornerRadius, 2*barCornerRadius)
		} else {
			draw2dkit.Rectangle(gc, x, y, x+float64(fillW), y+barH)
		}
		gc.Fill()
	}

	gc.BeginPath()
	gc.SetStrokeColor(toColor(cfg.Colors.Border))
	gc.SetLineWidth(cfg.Layout.BorderLineWidth)
	draw2dkit.RoundedRectangle(gc, x, y, x+barW, y+barH, 2*barCornerRadius, 2*barCornerRadius)
	gc.Stroke()
}

// fillWidth maps a temperature to a bar fill width on a 0-100 degree scale,
// clamped to [0, barWidth].
func fillWidth(tempC float64, barWidth int) int {
	if tempC <= 0 {
		return 0
	}
	w := int(tempC / 100.0 * float64(barWidth))
	if w < 0 {
		return 0
	}
	if w > barWidth {
		return barWidth
	}
	return w
}

func (c *Composer) writePNG(img *image.RGBA) error {
	dir := c.cfg.Paths.ImageDir
	if dir == "" {
		dir = filepath.Dir(c.cfg.Paths.ImagePath)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create image dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.cfg.Paths.ImagePath), ".coolerdash-*.png")
	if err != nil {
		return fmt.Errorf("create temp image: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.cfg.Paths.ImagePath); err != nil {
		return fmt.Errorf("replace %s: %w", c.cfg.Paths.ImagePath, err)
	}
	return nil
}

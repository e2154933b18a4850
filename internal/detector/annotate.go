package detector

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/domain"
)

const (
	NoFaceBanner     = "No face detected"
	AnalyzingBanner  = "Analyzing..."
	boxThickness     = 2
	textPadding      = 4
	labelScale       = 2
	scoreScale       = 1
	scoreLineStart   = 60
	scoreLineSpacing = 25
)

var (
	labelOrigin  = image.Pt(15, 8)
	bannerOrigin = image.Pt(20, 12)
	scoreX       = 15

	colorBox        = color.NRGBA{R: 0, G: 255, B: 0, A: 255}
	colorText       = color.NRGBA{R: 0, G: 255, B: 0, A: 255}
	colorScoreText  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	colorBanner     = color.NRGBA{R: 255, G: 0, B: 0, A: 255}
	colorBackground = color.NRGBA{R: 0, G: 0, B: 0, A: 200}
)

// TextStyle controls how a single line is rendered
type TextStyle struct {
	Scale      int
	Color      color.Color
	Background color.Color
}

// Annotator draws emotion overlays. The zero value is usable.
type Annotator struct {
	Face font.Face
}

func (a *Annotator) face() font.Face {
	if a.Face != nil {
		return a.Face
	}
	return basicfont.Face7x13
}

// Reading returns a copy of img with the region box, the label line and the
// ranked score lines drawn on it.
func (a *Annotator) Reading(img image.Image, reading *domain.EmotionReading) *image.NRGBA {
	out := imaging.Clone(img)
	if reading == nil {
		return out
	}

	if reading.Region != nil && reading.Region.Valid() {
		r := image.Rect(reading.Region.X, reading.Region.Y,
			reading.Region.X+reading.Region.Width, reading.Region.Y+reading.Region.Height)
		StrokeRect(out, r.Add(out.Bounds().Min), boxThickness, colorBox)
	}

	a.DrawText(out, labelOrigin, LabelText(reading.Label, reading.Confidence),
		TextStyle{Scale: labelScale, Color: colorText, Background: colorBackground})

	for i, s := range reading.Scores {
		pt := image.Pt(scoreX, scoreLineStart+i*scoreLineSpacing)
		a.DrawText(out, pt, ScoreText(s), TextStyle{Scale: scoreScale, Color: colorScoreText, Background: colorBackground})
	}

	return out
}

// NoFace returns a copy of img carrying only the no-face banner.
func (a *Annotator) NoFace(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)
	a.DrawText(out, bannerOrigin, NoFaceBanner,
		TextStyle{Scale: labelScale, Color: colorBanner, Background: colorBackground})
	return out
}

// Label returns a copy of img with just one text line, used for frames
// that were not classified.
func (a *Annotator) Label(img image.Image, text string) *image.NRGBA {
	out := imaging.Clone(img)
	a.DrawText(out, bannerOrigin, text,
		TextStyle{Scale: labelScale, Color: colorText, Background: colorBackground})
	return out
}

// DrawText renders text with its top-left corner at origin and returns the
// rectangle covered, background padding included.
func (a *Annotator) DrawText(dst draw.Image, origin image.Point, text string, style TextStyle) image.Rectangle {
	face := a.face()
	metrics := face.Metrics()

	w := font.MeasureString(face, text).Ceil()
	h := metrics.Height.Ceil()
	if w <= 0 || h <= 0 {
		return image.Rectangle{}
	}

	glyphs := image.NewNRGBA(image.Rect(0, 0, w, h))
	d := &font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(style.Color),
		Face: face,
		Dot:  fixed.P(0, metrics.Ascent.Ceil()),
	}
	d.DrawString(text)

	var rendered image.Image = glyphs
	if style.Scale > 1 {
		rendered = imaging.Resize(glyphs, w*style.Scale, h*style.Scale, imaging.NearestNeighbor)
	}

	origin = origin.Add(dst.Bounds().Min)
	box := image.Rectangle{Min: origin, Max: origin.Add(rendered.Bounds().Size())}
	covered := box
	if style.Background != nil {
		covered = box.Inset(-textPadding)
		draw.Draw(dst, covered, image.NewUniform(style.Background), image.Point{}, draw.Over)
	}
	draw.Draw(dst, box, rendered, image.Point{}, draw.Over)

	return covered.Intersect(dst.Bounds())
}

// StrokeRect draws the outline of r with the given thickness, clipped to dst.
func StrokeRect(dst draw.Image, r image.Rectangle, thickness int, c color.Color) {
	src := image.NewUniform(c)
	t := thickness
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t),
		image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y),
		image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e, src, image.Point{}, draw.Src)
	}
}

func LabelText(label string, confidence float64) string {
	return fmt.Sprintf("%s (%.2f)", label, confidence)
}

func ScoreText(s domain.EmotionScore) string {
	return fmt.Sprintf("%s: %.1f%%", s.Label, s.Score)
}

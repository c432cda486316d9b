package glview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const captionSize = 14 // points at 72 DPI.

var parseCaptionFont = sync.OnceValues(func() (*truetype.Font, error) {
	return freetype.ParseFont(goregular.TTF)
})

// Snapshot encodes an RGBA float texture read back from OpenGL as a PNG image
// and writes it to w. OpenGL stores rows bottom to top so rows are flipped.
// If conv is nil the RGBA values are clamped to 0..1 and used as is, otherwise
// conv maps each texel's red channel to a color. A non-empty caption is drawn
// on the top left corner of the image.
func Snapshot(w io.Writer, width, height int, rgba []float32, conv func(float32) color.Color, caption string) error {
	img, err := SnapshotImage(width, height, rgba, conv)
	if err != nil {
		return err
	}
	if caption != "" {
		err = drawCaption(img, caption)
		if err != nil {
			return fmt.Errorf("drawing caption: %w", err)
		}
	}
	return png.Encode(w, img)
}

// WriteSnapshotFile creates filename and writes a PNG snapshot to it. See [Snapshot].
func WriteSnapshotFile(filename string, width, height int, rgba []float32, conv func(float32) color.Color, caption string) (err error) {
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		errClose := fp.Close()
		if err == nil {
			err = errClose
		}
	}()
	err = Snapshot(fp, width, height, rgba, conv, caption)
	if err != nil {
		return err
	}
	return fp.Sync()
}

// SnapshotImage converts an RGBA float texture read back from OpenGL to an image. See [Snapshot].
func SnapshotImage(width, height int, rgba []float32, conv func(float32) color.Color) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid snapshot size %dx%d", width, height)
	} else if len(rgba) < 4*width*height {
		return nil, fmt.Errorf("snapshot buffer too short: %d floats for %dx%d RGBA", len(rgba), width, height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := rgba[4*width*(height-1-y):]
		for x := 0; x < width; x++ {
			px := row[4*x : 4*x+4]
			if conv != nil {
				img.Set(x, y, conv(px[0]))
				continue
			}
			// Texels hold straight alpha.
			img.Set(x, y, color.NRGBA{R: unorm8(px[0]), G: unorm8(px[1]), B: unorm8(px[2]), A: unorm8(px[3])})
		}
	}
	return img, nil
}

func drawCaption(dst draw.Image, caption string) error {
	f, err := parseCaptionFont()
	if err != nil {
		return err
	}
	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(f)
	c.SetFontSize(captionSize)
	c.SetClip(dst.Bounds())
	c.SetDst(dst)
	c.SetSrc(image.White)
	c.SetHinting(font.HintingFull)
	pt := freetype.Pt(4, 4+int(c.PointToFixed(captionSize)>>6))
	_, err = c.DrawString(caption, pt)
	return err
}

package runtime

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"
)

// Raster is an in-memory Surface backed by an RGBA image. Resizing clears
// the canvas, like an HTML canvas does.
type Raster struct {
	img *image.RGBA
	ops []string
}

func NewRaster(width, height int) *Raster {
	return &Raster{img: image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))}
}

func (r *Raster) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	r.img = image.NewRGBA(image.Rect(0, 0, width, height))
	r.ops = append(r.ops, fmt.Sprintf("resize %dx%d", width, height))
}

// DrawImage scales img into the rectangle at (x, y) of the given size.
func (r *Raster) DrawImage(img image.Image, x, y, width, height int) {
	dst := image.Rect(x, y, x+width, y+height)
	draw.NearestNeighbor.Scale(r.img, dst, img, img.Bounds(), draw.Over, nil)
	r.ops = append(r.ops, fmt.Sprintf("draw %v", dst))
}

func (r *Raster) ClearRect(x, y, width, height int) {
	rect := image.Rect(x, y, x+width, y+height).Intersect(r.img.Bounds())
	draw.Draw(r.img, rect, image.Transparent, image.Point{}, draw.Src)
	r.ops = append(r.ops, fmt.Sprintf("clear %v", image.Rect(x, y, x+width, y+height)))
}

func (r *Raster) Width() int  { return r.img.Bounds().Dx() }
func (r *Raster) Height() int { return r.img.Bounds().Dy() }

// Image exposes the current canvas contents.
func (r *Raster) Image() *image.RGBA { return r.img }

// Ops is the log of surface operations applied so far, oldest first.
func (r *Raster) Ops() []string { return r.ops }

func (r *Raster) EncodePNG(w io.Writer) error {
	return png.Encode(w, r.img)
}

// WritePNG saves the canvas to path.
func (r *Raster) WritePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create snapshot: %w", err)
	}
	if err := r.EncodePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("cannot encode snapshot: %w", err)
	}
	return f.Close()
}

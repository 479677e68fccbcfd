package chart

import (
	"image"
	"image/color"
	"image/png"
	"io"
)

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// cropPNG decodes src, trims rows and columns matching the corner pixel and
// keeps margin pixels around the remaining content
func cropPNG(src io.Reader, dst io.Writer, margin int) error {
	img, err := png.Decode(src)
	if err != nil {
		return err
	}

	content := contentBounds(img)
	if content.Empty() {
		return png.Encode(dst, img)
	}
	crop := content.Inset(-margin).Intersect(img.Bounds())

	if s, ok := img.(subImager); ok {
		return png.Encode(dst, s.SubImage(crop))
	}
	return png.Encode(dst, img)
}

// contentBounds returns the smallest rectangle holding every pixel that
// differs from the top-left background pixel
func contentBounds(img image.Image) image.Rectangle {
	b := img.Bounds()
	bg := color.NRGBAModel.Convert(img.At(b.Min.X, b.Min.Y))

	minX, minY, maxX, maxY := b.Max.X, b.Max.Y, b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if color.NRGBAModel.Convert(img.At(x, y)) == bg {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < minX {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

package gpu

import (
	"image"

	"golang.org/x/image/draw"
)

// ImageToRGBA converts any decoded image into tightly packed RGBA8. Images
// larger than maxSize on either side are downscaled preserving aspect ratio;
// maxSize <= 0 disables scaling.
func ImageToRGBA(img image.Image, maxSize int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize > 0 && (w > maxSize || h > maxSize) {
		if w >= h {
			h = max(1, h*maxSize/w)
			w = maxSize
		} else {
			w = max(1, w*maxSize/h)
			h = maxSize
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		return dst
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// UploadImage creates an RGBA8 texture from img on dev.
func UploadImage(dev Device, img image.Image, maxSize int) Texture {
	rgba := ImageToRGBA(img, maxSize)
	return dev.CreateTexture2D(FormatRGBA8, rgba.Rect.Dx(), rgba.Rect.Dy(), rgba.Pix)
}

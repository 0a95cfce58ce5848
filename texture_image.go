package gfxcmd

import (
	"fmt"
	"image"
	"math/bits"

	xdraw "golang.org/x/image/draw"
)

// ImageOptions controls UploadImage.
type ImageOptions struct {
	// Mipmaps allocates a full mip chain.
	Mipmaps bool
	// GPUMipmaps fills the chain with the driver instead of scaling each
	// level on the CPU.
	GPUMipmaps bool
}

// mipLevels returns the length of a full mip chain for a w x h image.
func mipLevels(w, h int) int {
	return bits.Len(uint(max(w, h))) //nolint:gosec // sizes are positive
}

// toRGBA returns img as tightly packed RGBA with its origin at (0, 0).
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == 4*b.Dx() {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return dst
}

// UploadImage creates an RGBA8 2D texture holding img.
func (d *Device) UploadImage(img image.Image, opts ImageOptions) (Texture, error) {
	if img == nil || img.Bounds().Empty() {
		return Texture{}, fmt.Errorf("%w: empty image", ErrInvalidDescriptor)
	}
	base := toRGBA(img)
	w, h := base.Rect.Dx(), base.Rect.Dy()
	levels := 1
	if opts.Mipmaps {
		levels = mipLevels(w, h)
	}
	t, err := d.CreateTexture(TextureDesc{
		Type:      TextureType2D,
		Format:    FormatRGBA8Unorm,
		Width:     w,
		Height:    h,
		MipLevels: levels,
	})
	if err != nil {
		return Texture{}, err
	}
	if err := d.writeTexture(t, TextureType2D, 0, 0, 0, 0, w, h, 1, FormatRGBA8Unorm, base.Pix); err != nil {
		d.DestroyTexture(t)
		return Texture{}, err
	}
	if levels == 1 {
		return t, nil
	}

	if opts.GPUMipmaps {
		rec, _ := d.textures.get(t.h)
		d.drv.GenerateMipmaps(rec.native)
		return t, nil
	}
	prev := base
	for level := 1; level < levels; level++ {
		lw, lh := max(w>>level, 1), max(h>>level, 1)
		next := image.NewRGBA(image.Rect(0, 0, lw, lh))
		xdraw.CatmullRom.Scale(next, next.Rect, prev, prev.Rect, xdraw.Src, nil)
		if err := d.writeTexture(t, TextureType2D, level, 0, 0, 0, lw, lh, 1, FormatRGBA8Unorm, next.Pix); err != nil {
			d.DestroyTexture(t)
			return Texture{}, err
		}
		prev = next
	}
	d.log.Debug("gfxcmd: image uploaded", "width", w, "height", h, "levels", levels)
	return t, nil
}

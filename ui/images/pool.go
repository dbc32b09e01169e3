package images

import (
	"image"
	"sync"
)

// Overlay renders run every tick while the frame is dirty and each one is
// several hundred kilobytes. Buffers that the view has finished encoding go
// back to the pool.
var rgbaPool sync.Pool // stores *image.RGBA

// AcquireRGBA returns an RGBA image sized w x h at the origin. The pixels are
// not cleared; callers overwrite the whole image.
func AcquireRGBA(w, h int) *image.RGBA {
	w, h = max(w, 1), max(h, 1)
	need := w * h * 4
	rect := image.Rect(0, 0, w, h)
	if v := rgbaPool.Get(); v != nil {
		img := v.(*image.RGBA)
		if cap(img.Pix) >= need {
			img.Pix = img.Pix[:need]
			img.Stride = w * 4
			img.Rect = rect
			return img
		}
	}
	return image.NewRGBA(rect)
}

// Recycle hands img back for reuse. The caller must not touch it afterwards.
func Recycle(img *image.RGBA) {
	if img == nil || img.Pix == nil {
		return
	}
	rgbaPool.Put(img)
}

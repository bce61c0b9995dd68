package media

import (
	"errors"
	"image"
	"image/color"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var errUpload = errors.New("media: texture upload failed")

// GPU uploads textures through raylib. It needs a live GL context (after InitWindow).
type GPU struct{}

// Upload implements Uploader. Still images get mipmaps and trilinear filtering; video textures
// are rewritten every frame so they stay bilinear without mipmaps.
func (GPU) Upload(img *image.RGBA, video bool) (rl.Texture2D, error) {
	b := img.Bounds()
	if b.Empty() || len(img.Pix) == 0 {
		return rl.Texture2D{}, errUpload
	}
	raw := rl.NewImage(img.Pix, int32(b.Dx()), int32(b.Dy()), 1, rl.UncompressedR8g8b8a8)
	tex := rl.LoadTextureFromImage(raw)
	if !rl.IsTextureValid(tex) {
		return rl.Texture2D{}, errUpload
	}
	if video {
		rl.SetTextureFilter(tex, rl.FilterBilinear)
	} else {
		rl.GenTextureMipmaps(&tex)
		rl.SetTextureFilter(tex, rl.FilterTrilinear)
		rl.SetTextureFilter(tex, rl.FilterAnisotropic4x)
	}
	rl.SetTextureWrap(tex, rl.WrapClamp)
	return tex, nil
}

// Update implements Uploader. Frames whose size differs from the texture are ignored.
func (GPU) Update(tex rl.Texture2D, img *image.RGBA) {
	b := img.Bounds()
	if int32(b.Dx()) != tex.Width || int32(b.Dy()) != tex.Height || len(img.Pix) < 4 {
		return
	}
	pixels := unsafe.Slice((*color.RGBA)(unsafe.Pointer(&img.Pix[0])), len(img.Pix)/4)
	rl.UpdateTexture(tex, pixels)
}

// Unload implements Uploader.
func (GPU) Unload(tex rl.Texture2D) {
	if tex.ID != 0 {
		rl.UnloadTexture(tex)
	}
}

package video

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/retrofe/retrofe/internal/libretro"
)

// lutCache caches the expanded RGBA8888 lookup table for each 16-bit
// pixel format the core might negotiate (RGB565, RGB15). The core set
// is fixed and tiny (at most the three libretro.PixelFormat values) so
// a small bounded LRU is enough to avoid rebuilding a 64K-entry table on
// every format renegotiation without ever growing unbounded.
var lutCache, _ = lru.New[libretro.PixelFormat, []byte](4)

// rgbaBytes returns the cached (or newly built) 16-bit -> RGBA8888
// lookup table for format. XRGB8888 needs no table; callers should
// convert it directly.
func rgbaBytes(format libretro.PixelFormat) []byte {
	if t, ok := lutCache.Get(format); ok {
		return t
	}
	table := make([]byte, 65536*4)
	for v := 0; v < 65536; v++ {
		var r, g, b uint8
		switch format {
		case libretro.PixelFormatRGB565:
			r = expand5(uint8(v>>11) & 0x1f)
			g = expand6(uint8(v>>5) & 0x3f)
			b = expand5(uint8(v) & 0x1f)
		default: // PixelFormatRGB15 (0RGB1555)
			r = expand5(uint8(v>>10) & 0x1f)
			g = expand5(uint8(v>>5) & 0x1f)
			b = expand5(uint8(v) & 0x1f)
		}
		table[v*4+0] = r
		table[v*4+1] = g
		table[v*4+2] = b
		table[v*4+3] = 0xff
	}
	lutCache.Add(format, table)
	return table
}

func expand5(v uint8) uint8 { return uint8((uint32(v)*255 + 15) / 31) }
func expand6(v uint8) uint8 { return uint8((uint32(v)*255 + 31) / 63) }

// ConvertFrame turns a raw core framebuffer (in the negotiated pixel
// format, with the core's own pitch) into tightly packed RGBA8888 bytes
// suitable for ebiten.Image.WritePixels. dst is reused when it already
// has the right length.
func ConvertFrame(format libretro.PixelFormat, data []byte, width, height, pitch int, dst []byte) []byte {
	need := width * height * 4
	if cap(dst) < need {
		dst = make([]byte, need)
	}
	dst = dst[:need]

	switch format {
	case libretro.PixelFormatXRGB8888:
		for y := 0; y < height; y++ {
			srcRow := data[y*pitch : y*pitch+width*4]
			dstRow := dst[y*width*4 : (y+1)*width*4]
			for x := 0; x < width; x++ {
				b := srcRow[x*4+0]
				g := srcRow[x*4+1]
				r := srcRow[x*4+2]
				dstRow[x*4+0] = r
				dstRow[x*4+1] = g
				dstRow[x*4+2] = b
				dstRow[x*4+3] = 0xff
			}
		}
	default: // RGB565 / RGB15, both 16-bit-per-pixel formats
		table := rgbaBytes(format)
		for y := 0; y < height; y++ {
			srcRow := data[y*pitch : y*pitch+width*2]
			dstRow := dst[y*width*4 : (y+1)*width*4]
			for x := 0; x < width; x++ {
				v := uint16(srcRow[x*2]) | uint16(srcRow[x*2+1])<<8
				copy(dstRow[x*4:x*4+4], table[int(v)*4:int(v)*4+4])
			}
		}
	}
	return dst
}

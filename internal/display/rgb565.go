package display

import "image"

// rgb565 packs an 8-bit RGB triple into the 5-6-5 format small panels
// and 16 bpp framebuffers share.
func rgb565(r, g, b uint8) uint16 {
	return uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b)>>3
}

// encodeRGB565LE converts a frame for 16 bpp framebuffers, low byte first.
func encodeRGB565LE(img *image.RGBA) []byte {
	b := img.Bounds()
	out := make([]byte, b.Dx()*b.Dy()*2)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			v := rgb565(c.R, c.G, c.B)
			out[i] = byte(v)
			out[i+1] = byte(v >> 8)
			i += 2
		}
	}
	return out
}

// encodeRGB565BE converts a frame for the SPI panel, high byte first.
func encodeRGB565BE(img *image.RGBA) []byte {
	b := img.Bounds()
	out := make([]byte, b.Dx()*b.Dy()*2)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			v := rgb565(c.R, c.G, c.B)
			out[i] = byte(v >> 8)
			out[i+1] = byte(v)
			i += 2
		}
	}
	return out
}

// encodeRGB24 packs plain RGB triples for 24 and 32 bpp framebuffers.
func encodeRGB24(img *image.RGBA) []byte {
	b := img.Bounds()
	out := make([]byte, b.Dx()*b.Dy()*3)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			out[i] = c.R
			out[i+1] = c.G
			out[i+2] = c.B
			i += 3
		}
	}
	return out
}

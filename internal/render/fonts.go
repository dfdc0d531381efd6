package render

import (
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// fontCandidates are system faces tried in order when no explicit path is
// configured.
var fontCandidates = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/freefont/FreeSans.ttf",
}

// FontSet holds one parsed typeface and caches faces by point size. The
// embedded Go Regular face keeps the panel readable on systems without any
// TrueType fonts installed; a bitmap face is the terminal fallback should
// even that fail to parse.
type FontSet struct {
	src    *sfnt.Font
	source string
	faces  map[int]font.Face
}

// LoadFonts resolves the panel typeface. explicit names a TTF file to
// prefer; an unreadable or unparsable file falls through to the system
// candidates and then to the embedded face.
func LoadFonts(explicit string) *FontSet {
	fs := &FontSet{faces: make(map[int]font.Face)}

	paths := fontCandidates
	if explicit != "" {
		paths = append([]string{explicit}, fontCandidates...)
	}
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		src, err := opentype.Parse(raw)
		if err != nil {
			continue
		}
		fs.src = src
		fs.source = path
		return fs
	}

	if src, err := opentype.Parse(goregular.TTF); err == nil {
		fs.src = src
		fs.source = "embedded Go Regular"
	} else {
		fs.source = "bitmap fallback"
	}
	return fs
}

// Source names the typeface that was resolved, for diagnostics.
func (fs *FontSet) Source() string {
	return fs.source
}

// Scalable reports whether a vector face was found. When false the panel
// draws with the 7x13 bitmap face and ignores point sizes.
func (fs *FontSet) Scalable() bool {
	return fs.src != nil
}

// Face returns a cached face at the given point size.
func (fs *FontSet) Face(size int) font.Face {
	if f, ok := fs.faces[size]; ok {
		return f
	}
	if fs.src == nil {
		return basicfont.Face7x13
	}
	f, err := opentype.NewFace(fs.src, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	fs.faces[size] = f
	return f
}

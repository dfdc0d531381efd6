package render

import (
	"path/filepath"
	"testing"
)

func TestLoadFonts_AlwaysResolves(t *testing.T) {
	t.Parallel()

	fs := LoadFonts("")
	if fs.Source() == "" {
		t.Fatal("font source must be reported")
	}
	face := fs.Face(subPt)
	if face == nil {
		t.Fatal("face must never be nil")
	}
	m := face.Metrics()
	if m.Ascent <= 0 {
		t.Errorf("face metrics look wrong: %+v", m)
	}
}

func TestLoadFonts_BadExplicitPathFallsThrough(t *testing.T) {
	t.Parallel()

	fs := LoadFonts(filepath.Join(t.TempDir(), "missing.ttf"))
	if fs.Face(subPt) == nil {
		t.Fatal("missing explicit font must fall back")
	}
}

func TestFontSet_FaceCache(t *testing.T) {
	t.Parallel()

	fs := LoadFonts("")
	if fs.src == nil {
		t.Skip("no scalable font available")
	}
	a := fs.Face(bigPt)
	b := fs.Face(bigPt)
	if a != b {
		t.Error("faces must be cached per size")
	}
	if fs.Face(subPt) == a {
		t.Error("different sizes must get different faces")
	}
}

func TestFontSet_SizesAreMonotonic(t *testing.T) {
	t.Parallel()

	fs := LoadFonts("")
	if fs.src == nil {
		t.Skip("no scalable font available")
	}
	wide := textWidth(fs.Face(headerMaxPt), "Printer")
	narrow := textWidth(fs.Face(headerMinPt), "Printer")
	if wide <= narrow {
		t.Errorf("bigger face should measure wider: %d vs %d", wide, narrow)
	}
}

package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"golang.org/x/image/font"

	"cupspanel"
)

func testSnapshot() cupspanel.Snapshot {
	temp := 45.2
	usage := 37.6
	memPct := 52.0
	return cupspanel.Snapshot{
		PrinterName:  "office",
		PrinterState: "idle",
		Scheduler:    cupspanel.SchedulerRunning,
		State:        cupspanel.StateIdle,
		QueueSize:    0,
		IPAddr:       "192.168.1.7",
		CPUTempC:     &temp,
		CPUUsagePct:  &usage,
		MemUsedPct:   &memPct,
		CollectedAt:  time.Date(2026, 8, 25, 12, 30, 2, 0, time.UTC),
	}
}

func TestRenderer_FrameGeometry(t *testing.T) {
	t.Parallel()

	r := New(480, 320, LoadFonts(""))
	img := r.Render(testSnapshot())

	b := img.Bounds()
	if b.Dx() != 480 || b.Dy() != 320 {
		t.Fatalf("frame: want 480x320, got %dx%d", b.Dx(), b.Dy())
	}
	if got := img.RGBAAt(0, 0); got != colorBG {
		t.Errorf("corner pixel: want background %v, got %v", colorBG, got)
	}
	if got := img.RGBAAt(479, 0); got != colorBG {
		t.Errorf("corner pixel: want background %v, got %v", colorBG, got)
	}
}

func TestRenderer_HeartbeatParity(t *testing.T) {
	t.Parallel()

	r := New(480, 320, LoadFonts(""))
	cx := padding + heartbeatRadius
	cy := 320 - padding - heartbeatRadius

	snap := testSnapshot()
	snap.CollectedAt = time.Date(2026, 8, 25, 12, 30, 2, 0, time.UTC) // even second
	if got := r.Render(snap).RGBAAt(cx, cy); got != colorAccent {
		t.Errorf("even second: want accent dot %v, got %v", colorAccent, got)
	}

	snap.CollectedAt = time.Date(2026, 8, 25, 12, 30, 3, 0, time.UTC) // odd second
	if got := r.Render(snap).RGBAAt(cx, cy); got != colorFooter {
		t.Errorf("odd second: want muted dot %v, got %v", colorFooter, got)
	}
}

func TestRenderer_Deterministic(t *testing.T) {
	t.Parallel()

	r := New(480, 320, LoadFonts(""))
	snap := testSnapshot()

	a := r.Render(snap)
	b := r.Render(snap)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("two renders of the same snapshot must be identical")
	}
}

func TestRenderer_PlaceholderValues(t *testing.T) {
	t.Parallel()

	// Nothing collected at all: the frame must still render.
	r := New(480, 320, LoadFonts(""))
	img := r.Render(cupspanel.Snapshot{
		Scheduler:   cupspanel.SchedulerUnknown,
		CollectedAt: time.Date(2026, 8, 25, 12, 30, 3, 0, time.UTC),
	})
	if img.Bounds().Dx() != 480 {
		t.Fatal("empty snapshot did not render")
	}
}

func TestRenderer_BitmapFallbackFace(t *testing.T) {
	t.Parallel()

	// A FontSet without a parsed typeface serves the bitmap face; layout
	// must survive its coarse metrics.
	fs := &FontSet{source: "bitmap fallback", faces: make(map[int]font.Face)}
	r := New(480, 320, fs)
	img := r.Render(testSnapshot())
	if img.Bounds().Dy() != 320 {
		t.Fatal("bitmap fallback render failed")
	}
}

func TestRenderer_HeaderSizeSearch(t *testing.T) {
	t.Parallel()

	r := New(480, 320, LoadFonts(""))

	r.headerFace("Hi")
	short := r.headerSizes[headerKey{text: "Hi", width: 480 - 2*padding}]
	if short != headerMaxPt {
		t.Errorf("short header: want %dpt, got %dpt", headerMaxPt, short)
	}

	long := strings.Repeat("W", 60)
	r.headerFace(long)
	got := r.headerSizes[headerKey{text: long, width: 480 - 2*padding}]
	if got != headerMinPt {
		t.Errorf("overlong header: want floor %dpt, got %dpt", headerMinPt, got)
	}

	// Cached: a second lookup must not change the stored size.
	r.headerFace(long)
	if again := r.headerSizes[headerKey{text: long, width: 480 - 2*padding}]; again != got {
		t.Errorf("cache: size changed from %d to %d", got, again)
	}
}

func TestInfoLines(t *testing.T) {
	t.Parallel()

	snap := testSnapshot()
	lines := infoLines(snap)
	want := []string{
		"CUPS: running",
		"IP: 192.168.1.7",
		"CPU: 45.2°C 38%",
		"Mem: 52%",
	}
	if len(lines) != len(want) {
		t.Fatalf("want %d lines, got %d", len(want), len(lines))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: want %q, got %q", i, want[i], lines[i])
		}
	}

	empty := infoLines(cupspanel.Snapshot{Scheduler: cupspanel.SchedulerUnknown})
	wantEmpty := []string{"CUPS: unknown", "IP: -", "CPU: - -%", "Mem: -"}
	for i := range wantEmpty {
		if empty[i] != wantEmpty[i] {
			t.Errorf("placeholder line %d: want %q, got %q", i, wantEmpty[i], empty[i])
		}
	}
}

func TestStateColor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		state string
		want  string
	}{
		{cupspanel.StateIdle, "accent"},
		{"printing office-3", "warn"},
		{cupspanel.StateQueued, "other"},
		{"paused", "other"},
		{cupspanel.StateUnknown, "other"},
	}
	for _, tc := range cases {
		got := stateColor(tc.state)
		var name string
		switch got {
		case colorAccent:
			name = "accent"
		case colorWarn:
			name = "warn"
		case colorOtherState:
			name = "other"
		default:
			name = "unexpected"
		}
		if name != tc.want {
			t.Errorf("stateColor(%q): want %s, got %s (%v)", tc.state, tc.want, name, got)
		}
	}
}

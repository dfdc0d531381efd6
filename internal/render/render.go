// Package render turns snapshots into panel frames. Rendering is pure:
// everything drawn, including the clock and the heartbeat, derives from
// the snapshot alone.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"cupspanel"
)

// headerKey caches the header font search per text and available width.
type headerKey struct {
	text  string
	width int
}

// Renderer lays out the fixed-size dashboard frame. Not safe for
// concurrent use; the face and header-size caches are unsynchronized.
type Renderer struct {
	width       int
	height      int
	fonts       *FontSet
	headerSizes map[headerKey]int
}

// New returns a Renderer for the given canvas size.
func New(width, height int, fonts *FontSet) *Renderer {
	return &Renderer{
		width:       width,
		height:      height,
		fonts:       fonts,
		headerSizes: make(map[headerKey]int),
	}
}

// Render draws one frame from the snapshot.
func (r *Renderer) Render(snap cupspanel.Snapshot) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(colorBG), image.Point{}, draw.Src)

	fontSub := r.fonts.Face(subPt)
	fontBig := r.fonts.Face(bigPt)

	// Header: printer name centered across the full width.
	header := snap.PrinterName
	if header == "" {
		header = "Printer"
	}
	headerFace := r.headerFace(header)
	headerH := textHeight(headerFace)
	drawText(img, header, (r.width-textWidth(headerFace, header))/2, padding, headerFace, colorFG)

	// Status lines under the header.
	infoY := padding + headerH + 12
	for i, line := range infoLines(snap) {
		drawText(img, line, padding, infoY+i*lineStep, fontSub, colorInfo)
	}

	// Right column: big state word, active job, queue depth.
	rightX := r.width/2 + padding
	y := infoY
	state := snap.State
	if state == "" {
		state = cupspanel.StateUnknown
	}
	drawText(img, state, rightX, y, fontBig, stateColor(state))
	y += textHeight(fontBig) + 8
	if snap.CurrentJob != "" {
		drawText(img, "Current: "+snap.CurrentJob, rightX, y, fontSub, colorInfo)
		y += 24
	}
	drawText(img, "Queue", rightX, y, fontSub, colorQueueLabel)
	y += lineStep
	drawText(img, strconv.Itoa(snap.QueueSize), rightX, y, fontBig, colorFG)

	// Footer: timestamp right-aligned, heartbeat dot bottom-left. The dot
	// flips color on the wall-clock second so a frozen panel is obvious.
	footer := "Updated " + snap.CollectedAt.Format("15:04:05")
	drawText(img, footer,
		r.width-padding-textWidth(fontSub, footer),
		r.height-padding-textHeight(fontSub),
		fontSub, colorFooter)

	heartbeat := colorFooter
	if snap.CollectedAt.Second()%2 == 0 {
		heartbeat = colorAccent
	}
	fillCircle(img, padding+heartbeatRadius, r.height-padding-heartbeatRadius, heartbeatRadius, heartbeat)

	return img
}

// headerFace finds the largest point size from headerMaxPt down that fits
// the text in the padded width, bottoming out at headerMinPt. The search
// result is cached per text and width.
func (r *Renderer) headerFace(text string) font.Face {
	avail := r.width - 2*padding
	key := headerKey{text: text, width: avail}
	if size, ok := r.headerSizes[key]; ok {
		return r.fonts.Face(size)
	}
	size := headerMaxPt
	for size > headerMinPt {
		if textWidth(r.fonts.Face(size), text) <= avail {
			break
		}
		size -= 2
	}
	r.headerSizes[key] = size
	return r.fonts.Face(size)
}

func infoLines(snap cupspanel.Snapshot) []string {
	ip := snap.IPAddr
	if ip == "" {
		ip = "-"
	}

	cpu := "CPU: "
	if snap.CPUTempC != nil {
		cpu += fmt.Sprintf("%.1f°C ", *snap.CPUTempC)
	} else {
		cpu += "- "
	}
	if snap.CPUUsagePct != nil {
		cpu += fmt.Sprintf("%.0f%%", *snap.CPUUsagePct)
	} else {
		cpu += "-%"
	}

	memLine := "Mem: -"
	if snap.MemUsedPct != nil {
		memLine = fmt.Sprintf("Mem: %.0f%%", *snap.MemUsedPct)
	}

	return []string{
		"CUPS: " + string(snap.Scheduler),
		"IP: " + ip,
		cpu,
		memLine,
	}
}

func stateColor(state string) color.RGBA {
	switch {
	case state == cupspanel.StateIdle:
		return colorAccent
	case strings.HasPrefix(state, cupspanel.StatePrinting):
		return colorWarn
	default:
		return colorOtherState
	}
}

// drawText draws s with its top-left corner at (x, y).
func drawText(dst *image.RGBA, s string, x, y int, face font.Face, col color.RGBA) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

func textWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

func textHeight(face font.Face) int {
	m := face.Metrics()
	return (m.Ascent + m.Descent).Ceil()
}

// fillCircle paints the heartbeat dot. SetRGBA ignores out-of-bounds
// points, so a dot near the edge simply clips.
func fillCircle(img *image.RGBA, cx, cy, r int, col color.RGBA) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				img.SetRGBA(cx+dx, cy+dy, col)
			}
		}
	}
}

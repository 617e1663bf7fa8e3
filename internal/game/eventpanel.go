package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Outbreak/internal/sim"
)

const (
	panelWidth      = 420
	panelMaxEntries = 80
	panelLineHeight = 14
)

// EventPanel is a ring buffer of recent engine events rendered on the
// right side of the window.
type EventPanel struct {
	entries []sim.EventEntry
	head    int
	count   int
	synced  int // entries already pulled from the world log
}

// NewEventPanel creates an empty panel.
func NewEventPanel() *EventPanel {
	return &EventPanel{entries: make([]sim.EventEntry, panelMaxEntries)}
}

// Add appends an entry, overwriting the oldest when full.
func (p *EventPanel) Add(e sim.EventEntry) {
	p.entries[p.head] = e
	p.head = (p.head + 1) % panelMaxEntries
	if p.count < panelMaxEntries {
		p.count++
	}
}

// Sync pulls entries recorded since the last call. Verbose movement entries
// are skipped; they would flood the panel.
func (p *EventPanel) Sync(log *sim.EventLog) {
	if log == nil {
		return
	}
	all := log.Entries()
	if p.synced > len(all) {
		p.synced = 0
	}
	for _, e := range all[p.synced:] {
		if e.Category == "move" {
			continue
		}
		p.Add(e)
	}
	p.synced = len(all)
}

// Recent returns entries oldest first.
func (p *EventPanel) Recent() []sim.EventEntry {
	result := make([]sim.EventEntry, p.count)
	for i := 0; i < p.count; i++ {
		idx := (p.head - p.count + i + panelMaxEntries) % panelMaxEntries
		result[i] = p.entries[idx]
	}
	return result
}

func categoryColor(category string) color.RGBA {
	switch category {
	case "combat":
		return color.RGBA{R: 230, G: 200, B: 90, A: 255}
	case "infection":
		return color.RGBA{R: 120, G: 210, B: 90, A: 255}
	case "cop":
		return color.RGBA{R: 100, G: 150, B: 240, A: 255}
	case "order":
		return color.RGBA{R: 200, G: 200, B: 200, A: 255}
	case "outcome":
		return color.RGBA{R: 240, G: 120, B: 80, A: 255}
	default:
		return color.RGBA{R: 150, G: 150, B: 150, A: 255}
	}
}

// Draw renders the panel at panelX, newest entries at the bottom.
func (p *EventPanel) Draw(screen *ebiten.Image, face text.Face, panelX, panelH int) {
	x := float32(panelX)
	vector.FillRect(screen, x, 0, panelWidth, float32(panelH), color.RGBA{R: 10, G: 10, B: 12, A: 248}, false)
	vector.StrokeLine(screen, x, 0, x, float32(panelH), 1.0, color.RGBA{R: 70, G: 60, B: 60, A: 255}, false)

	vector.FillRect(screen, x, 0, panelWidth, 18, color.RGBA{R: 30, G: 22, B: 22, A: 255}, false)
	drawText(screen, face, "EVENTS", panelX+8, 3, color.White)

	entries := p.Recent()
	maxVisible := (panelH - 24) / panelLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}

	const highlighted = 3
	y := 22
	for i, e := range entries {
		if i >= len(entries)-highlighted {
			vector.FillRect(screen, x+2, float32(y), panelWidth-4, panelLineHeight, color.RGBA{R: 40, G: 30, B: 30, A: 160}, false)
		}
		col := categoryColor(e.Category)
		vector.FillRect(screen, x+5, float32(y+4), 3, 6, col, false)
		drawText(screen, face, e.String(), panelX+12, y, col)
		y += panelLineHeight
	}
}

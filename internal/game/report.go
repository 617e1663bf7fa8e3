package game

import (
	"fmt"
	"log"
	"strings"

	"github.com/atotto/clipboard"
)

// reportTicks is how far back the copied report reaches.
const reportTicks = 300

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

// debugReport renders the run state, the selection and the recent event
// log as plain text for pasting into a bug report.
func (g *Game) debugReport(lastTicks int) string {
	if lastTicks <= 0 {
		lastTicks = reportTicks
	}
	toTick := g.world.Tick()
	fromTick := max(0, toTick-lastTicks+1)

	var b strings.Builder
	fmt.Fprintf(&b, "--- Outbreak debug report ---\n")
	fmt.Fprintf(&b, "seed=%d tick=%d elapsed=%.2fs dt=%.4f speed=%s\n",
		g.seed, toTick, g.world.Elapsed(), g.dt, g.speedLabel())
	fmt.Fprintf(&b, "census: %s\n", g.world.Census())
	fmt.Fprintf(&b, "money=%d projectiles=%d outcome=%s\n\n",
		g.world.Money(), g.world.ProjectileCount(), g.outcome.Outcome)

	if sel := g.world.Selected(); len(sel) > 0 {
		b.WriteString("== selection ==\n")
		for _, i := range sel {
			for _, l := range inspectLines(g.world.Entity(i)) {
				b.WriteString("  ")
				b.WriteString(l)
				b.WriteByte('\n')
			}
		}
		b.WriteByte('\n')
	}

	if wr := g.reporter.WindowSummary(); wr != nil {
		b.WriteString("== window ==\n")
		b.WriteString(wr.Format())
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "== events T=%d..%d ==\n", fromTick, toTick)
	b.WriteString(g.world.EventLog().FormatRange(fromTick, toTick))
	return b.String()
}

// copyReport puts the debug report on the system clipboard.
func (g *Game) copyReport() {
	report := g.debugReport(reportTicks)
	if err := writeClipboard(report); err != nil {
		log.Printf("copy report: %v", err)
		g.setStatus("copy failed: " + err.Error())
		return
	}
	g.setStatus(fmt.Sprintf("report copied (%d lines)", strings.Count(report, "\n")))
}

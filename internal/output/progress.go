package output

import (
	"fmt"
	"io"
	"time"
)

// Progress renders a single self-overwriting status line for one transfer.
// A total of zero or less means the size is unknown.
type Progress struct {
	out      io.Writer
	label    string
	total    int64
	current  int64
	start    time.Time
	lastDraw time.Time
	refresh  time.Duration
}

func NewProgress(out io.Writer, total int64, label string, refresh time.Duration) *Progress {
	return &Progress{
		out:     out,
		label:   label,
		total:   total,
		start:   time.Now(),
		refresh: refresh,
	}
}

func (p *Progress) Add(n int64) {
	p.current += n
	if time.Since(p.lastDraw) >= p.refresh {
		p.draw()
	}
}

func (p *Progress) Done() {
	p.draw()
	fmt.Fprintln(p.out)
}

func (p *Progress) Current() int64 {
	return p.current
}

func (p *Progress) draw() {
	p.lastDraw = time.Now()
	fmt.Fprintf(p.out, "\r\033[K%s", p.render())
}

func (p *Progress) render() string {
	elapsed := time.Since(p.start).Seconds()
	speed := FDebug(FormatSpeed(p.current, elapsed))
	if p.total > 0 {
		counts := fmt.Sprintf("%s / %s", FormatBytes(uint64(p.current)), FormatBytes(uint64(p.total)))
		return fmt.Sprintf("%s%s %s %s", PrintProgressBar(p.current, p.total, progressBarWidth()), FDebug(counts), StyleSymbols["bullet"], speed)
	}
	return fmt.Sprintf("%s %s %s %s", FPending(StyleSymbols["pending"]), FDebug(FormatBytes(uint64(p.current))), StyleSymbols["bullet"], speed)
}

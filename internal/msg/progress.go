package msg

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Progress reports compilation of a fixed number of units, one line per
// unit, with a running counter and a bar.
type Progress struct {
	Total   int
	Current int
	Verb    string
	Start   time.Time
	W       io.Writer
}

func NewProgress(total int, verb string, w io.Writer) *Progress {
	return &Progress{
		Total: total,
		Verb:  verb,
		Start: time.Now(),
		W:     w,
	}
}

// Step advances the counter and prints the unit that is about to be handled.
func (p *Progress) Step(name string) {
	p.Current++
	fmt.Fprintf(p.W, "%s %s %s\n", p.bar(), color.HiGreenString(p.Verb), name)
}

func (p *Progress) bar() string {
	width := 20
	percent := float64(p.Current) / float64(max(p.Total, 1))
	filled := min(int(percent*float64(width)), width)
	return fmt.Sprintf("[%s%s] %*d/%d",
		strings.Repeat("█", filled),
		strings.Repeat("-", width-filled),
		len(fmt.Sprint(p.Total)), p.Current, p.Total,
	)
}

// Finish prints a summary line with the elapsed time.
func (p *Progress) Finish(what string) {
	fmt.Fprintf(p.W, "%s %s in %s\n", color.HiGreenString("Finished"), what, time.Since(p.Start).Round(time.Millisecond))
}

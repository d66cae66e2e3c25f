package utils

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"
)

// Progress represents a progress bar using mpb. The bar is created on the
// first Update, once the total is known.
type Progress struct {
	container *mpb.Progress
	bar       *mpb.Bar
	enabled   bool

	// description is read by the mpb render goroutine
	mu          sync.Mutex
	description string
}

var descLength = 24

// NewProgress creates a progress bar that renders only when enabled and
// stderr is a terminal
func NewProgress(enabled bool) *Progress {
	return &Progress{enabled: enabled && isTerminal()}
}

// Update updates the progress bar with current count and description
func (p *Progress) Update(current, total int, description string) {
	if !p.enabled {
		return
	}

	if p.bar == nil {
		p.start(total)
	}

	// Update the description which will be shown by the dynamic decorator
	p.setDescription(description)

	p.bar.SetCurrent(int64(current))
}

func (p *Progress) start(total int) {
	// Add space before progress bar
	fmt.Fprintln(os.Stderr)

	p.container = mpb.New(
		mpb.WithOutput(os.Stderr),
		mpb.WithWidth(64),
		mpb.WithRefreshRate(100*time.Millisecond),
	)

	p.bar = p.container.New(int64(total),
		mpb.BarStyle().Lbound("[").Filler("█").Tip("█").Padding("░").Rbound("]"),
		mpb.PrependDecorators(
			decor.Any(func(statistics decor.Statistics) string {
				return truncate(p.currentDescription(), descLength)
			}, decor.WC{W: descLength, C: decor.DindentRight}),
			decor.Name("  "),
			decor.CountersNoUnit("%d/%d", decor.WC{C: decor.DindentRight}),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
		),
	)
}

func (p *Progress) setDescription(description string) {
	p.mu.Lock()
	p.description = description
	p.mu.Unlock()
}

func (p *Progress) currentDescription() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.description
}

// Finish completes the progress bar and shuts down the container. A bar
// that never reached its total is aborted so Wait does not block.
func (p *Progress) Finish() {
	if !p.enabled || p.container == nil {
		return
	}

	if !p.bar.Completed() {
		p.bar.Abort(false)
	}

	p.container.Wait()

	// Add space after progress bar
	fmt.Fprintln(os.Stderr)
}

// truncate shortens s to at most n runes, keeping the tail since asset
// paths differ at the end
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return ".." + string(r[len(r)-n+2:])
}

// isTerminal checks if stderr is a terminal (TTY)
func isTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

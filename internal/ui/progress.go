package ui

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// ScrollProgress renders the browser scroll loop as a progress bar.
type ScrollProgress struct {
	p     *mpb.Progress
	bar   *mpb.Bar
	total atomic.Int64
	final atomic.Bool
}

// NewScrollProgress starts a progress bar on w.
func NewScrollProgress(w io.Writer, prefix string) *ScrollProgress {
	p := mpb.New(
		mpb.WithWidth(52),
		mpb.WithOutput(w),
		mpb.WithRefreshRate(120*time.Millisecond),
	)

	bar := p.New(
		0,
		mpb.BarStyle().Rbound("]"),
		mpb.PrependDecorators(
			decor.Name(prefix+"  "),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WCSyncWidth),
			decor.CountersNoUnit(" | %d/%d events", decor.WCSyncWidth),
			decor.Elapsed(decor.ET_STYLE_GO, decor.WCSyncSpace),
		),
	)

	return &ScrollProgress{p: p, bar: bar}
}

func (s *ScrollProgress) SetTotal(total int) {
	if s.final.Load() {
		return
	}
	s.total.Store(int64(total))
	s.bar.SetTotal(int64(total), false)
}

func (s *ScrollProgress) Increment() {
	if s.final.Load() {
		return
	}
	s.bar.Increment()
}

// Done completes the bar and waits for the final render.
func (s *ScrollProgress) Done() {
	if s.final.Swap(true) {
		return
	}
	s.bar.SetCurrent(s.total.Load())
	s.bar.SetTotal(s.total.Load(), true)
	s.p.Wait()
}

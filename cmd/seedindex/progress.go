package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/tamirms/seedindex"
)

// progressBars shows one bar per table sort.
type progressBars struct {
	p *mpb.Progress

	mu        sync.Mutex
	reporters []*barReporter
}

func newProgressBars(w io.Writer) *progressBars {
	return &progressBars{p: mpb.New(mpb.WithWidth(40), mpb.WithOutput(w))}
}

func (b *progressBars) reporter(shape *seedindex.SeedShape, table int) seedindex.ProgressReporter {
	r := &barReporter{
		p:    b.p,
		name: fmt.Sprintf("table %d %s: ", table, shape),
	}
	b.mu.Lock()
	b.reporters = append(b.reporters, r)
	b.mu.Unlock()
	return r
}

// wait blocks until every bar has rendered. Bars of a failed build never
// complete, so they are aborted first.
func (b *progressBars) wait(failed bool) {
	if failed {
		b.mu.Lock()
		for _, r := range b.reporters {
			r.abort()
		}
		b.mu.Unlock()
	}
	b.p.Wait()
}

// barReporter adds its bar once the number of passes is known.
type barReporter struct {
	p    *mpb.Progress
	name string

	mu  sync.Mutex
	bar *mpb.Bar
}

func (r *barReporter) SetMaximum(max int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar != nil {
		r.bar.SetTotal(max, false)
		return
	}
	r.bar = r.p.AddBar(max,
		mpb.PrependDecorators(
			decor.Name(r.name, decor.WC{W: len(r.name), C: decor.DindentRight}),
			decor.CountersNoUnit("%d / %d passes", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.OnComplete(decor.Percentage(decor.WC{W: 5}), "sorted"),
		),
	)
}

func (r *barReporter) SetProgress(v int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar != nil {
		r.bar.SetCurrent(v)
	}
}

func (r *barReporter) abort() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar != nil && !r.bar.Completed() {
		r.bar.Abort(false)
	}
}

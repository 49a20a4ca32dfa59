package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/ziptree/ziptree/internal/event"
	"github.com/ziptree/ziptree/internal/stats"
)

// plainPresenter outputs one line per archive entry to stdout,
// and periodic progress to stderr when not a TTY.
type plainPresenter struct {
	w     io.Writer
	errW  io.Writer
	stats *stats.Collector
	mode  Mode
	root  string
	isTTY bool
}

func (p *plainPresenter) Run(events <-chan event.Event) error {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			p.handleEvent(ev)
		case <-ticker.C:
			if !p.isTTY {
				p.printProgress()
			}
		}
	}
}

func (p *plainPresenter) handleEvent(ev event.Event) {
	switch ev.Type {
	case event.PackStarted, event.UnpackStarted:
		// no per-event output; the summary covers totals
	case event.FileAdded:
		fmt.Fprintf(p.w, "add %s  %s\n", ev.Path, FormatBytes(ev.Size))
	case event.DirAdded:
		fmt.Fprintf(p.w, "add %s\n", ev.Path)
	case event.CycleSkipped:
		fmt.Fprintf(p.w, "skip %s  already visited\n", StripRoot(p.root, ev.Path))
	case event.FileExtracted:
		fmt.Fprintf(p.w, "extract %s  %s\n", ev.Path, FormatBytes(ev.Size))
	case event.DirCreated:
		fmt.Fprintf(p.w, "extract %s\n", ev.Path)
	case event.VerifyStarted:
		fmt.Fprintln(p.w, "verifying...")
	case event.VerifyMismatch:
		fmt.Fprintf(p.w, "MISMATCH: %s\n", ev.Path)
	case event.VerifyOK:
		// silent in plain mode
	}
}

func (p *plainPresenter) printProgress() {
	snap := p.stats.Snapshot()
	switch p.mode {
	case ModeUnpack:
		fmt.Fprintf(p.errW, "progress: %s written %s files\n",
			FormatBytes(snap.BytesWritten),
			FormatCount(snap.FilesExtracted),
		)
	default:
		fmt.Fprintf(p.errW, "progress: %s read %s files\n",
			FormatBytes(snap.BytesRead),
			FormatCount(snap.FilesPacked),
		)
	}
}

func (p *plainPresenter) Summary() string {
	return completionSummary(p.stats.Snapshot(), p.mode)
}

package ui

import (
	"io"

	"github.com/ziptree/ziptree/internal/event"
	"github.com/ziptree/ziptree/internal/stats"
)

// Mode selects the wording a presenter uses when reporting.
type Mode int

const (
	ModePack Mode = iota + 1
	ModeUnpack
)

// Presenter consumes events and displays progress.
type Presenter interface {
	// Run consumes events until the channel closes. Blocks until done.
	Run(events <-chan event.Event) error
	// Summary returns the final summary line.
	Summary() string
}

// Config configures a Presenter.
type Config struct {
	Writer    io.Writer
	ErrWriter io.Writer
	Stats     *stats.Collector
	Mode      Mode
	Root      string
	IsTTY     bool
	Verbose   bool
}

// NewPresenter creates the appropriate presenter based on configuration.
//
//nolint:ireturn // factory function returns interface by design
func NewPresenter(
	cfg Config,
) Presenter {
	if !cfg.Verbose {
		return &quietPresenter{stats: cfg.Stats}
	}
	return &plainPresenter{
		w:     cfg.Writer,
		errW:  cfg.ErrWriter,
		stats: cfg.Stats,
		mode:  cfg.Mode,
		root:  cfg.Root,
		isTTY: cfg.IsTTY,
	}
}

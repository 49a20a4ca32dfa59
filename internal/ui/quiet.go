package ui

import (
	"github.com/ziptree/ziptree/internal/event"
	"github.com/ziptree/ziptree/internal/stats"
)

// quietPresenter consumes events but produces no output.
type quietPresenter struct {
	stats *stats.Collector
}

func (p *quietPresenter) Run(events <-chan event.Event) error {
	for ev := range events {
		p.handleEvent(ev)
	}
	return nil
}

func (p *quietPresenter) handleEvent(_ event.Event) {
	// Counters are written on the collector by the packer and unpacker;
	// presenters only read from the collector, never write.
}

func (p *quietPresenter) Summary() string {
	return ""
}

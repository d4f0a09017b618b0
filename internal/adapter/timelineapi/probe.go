package timelineapi

import (
	"context"
	"log/slog"
	"time"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Probe polls the API's liveness endpoint and reports connectivity
// transitions.
type Probe struct {
	api      pinger
	interval time.Duration
	timeout  time.Duration
	log      *slog.Logger
}

// NewProbe creates a Probe checking api every interval.
func NewProbe(api pinger, interval time.Duration, logger *slog.Logger) *Probe {
	return &Probe{
		api:      api,
		interval: interval,
		timeout:  min(interval, 5*time.Second),
		log:      logger.With("adapter", "probe"),
	}
}

// Check pings once and reports whether the API is reachable.
func (p *Probe) Check(ctx context.Context) bool {
	cctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.api.Ping(cctx); err != nil {
		p.log.DebugContext(ctx, "api unreachable", slog.String("error", err.Error()))
		return false
	}
	return true
}

// Run checks immediately, then every interval, until ctx is done. onChange
// is called with the first result and on every change after it.
func (p *Probe) Run(ctx context.Context, onChange func(online bool)) {
	online := p.Check(ctx)
	onChange(online)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if now := p.Check(ctx); now != online {
				online = now
				onChange(online)
			}
		}
	}
}

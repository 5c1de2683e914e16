// Package chatfeed turns a chat's message table into a live feed by polling.
package chatfeed

import (
	"context"
	"log/slog"
	"time"

	"github.com/fitcoach/coach/internal/metrics"
	"github.com/fitcoach/coach/internal/model"
)

const DefaultInterval = 2 * time.Second

// FetchFunc returns the full, oldest first message list of a chat.
type FetchFunc func(ctx context.Context) ([]*model.ChatMessage, error)

// Poller re-fetches a chat every interval and publishes the whole list.
// Each snapshot replaces the previous one; there is no diffing.
type Poller struct {
	fetch    FetchFunc
	interval time.Duration
	metrics  *metrics.Manager
}

func NewPoller(fetch FetchFunc, interval time.Duration, metricsManager *metrics.Manager) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		fetch:    fetch,
		interval: interval,
		metrics:  metricsManager,
	}
}

// Run fetches once right away and then on every tick until ctx is done.
// The returned channel is closed when polling stops. A slow reader does not
// queue snapshots: a pending snapshot is replaced by the newer one.
func (p *Poller) Run(ctx context.Context) <-chan []*model.ChatMessage {
	out := make(chan []*model.ChatMessage, 1)

	go func() {
		defer close(out)
		if p.metrics != nil {
			p.metrics.GaugeChatFeeds.Inc()
			defer p.metrics.GaugeChatFeeds.Dec()
		}

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			p.poll(ctx, out)

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return out
}

func (p *Poller) poll(ctx context.Context, out chan []*model.ChatMessage) {
	messages, err := p.fetch(ctx)
	if err != nil {
		if ctx.Err() == nil {
			slog.Warn("chat feed poll failed", "error", err)
		}
		return
	}

	// drop a snapshot nobody picked up yet
	select {
	case <-out:
	default:
	}

	select {
	case out <- messages:
	case <-ctx.Done():
	}
}

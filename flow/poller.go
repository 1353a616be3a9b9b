package flow

import (
	"context"
	"log/slog"
	"ru-ticket/common/constant"
	"sync"
	"time"
)

const DefaultPollInterval = 4 * time.Second

// CheckFunc reports whether the awaited condition holds. Errors are logged and
// the check is retried on the next tick.
type CheckFunc func(ctx context.Context) (bool, error)

// Poller runs at most one polling loop. Starting a new loop cancels the
// previous one and waits for it to exit.
type Poller struct {
	Interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Start begins polling check every Interval. The returned channel yields nil
// once check reports true, or the context error when cancelled or stopped.
func (p *Poller) Start(ctx context.Context, check CheckFunc) <-chan error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()

	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	result := make(chan error, 1)

	p.cancel = cancel
	p.done = done

	go func() {
		defer close(done)
		defer cancel()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				result <- ctx.Err()
				return
			case <-ticker.C:
				ok, err := check(ctx)
				if err != nil {
					slog.WarnContext(ctx, "poll check failed, retrying", slog.Any(constant.LogFieldErr, err))
					continue
				}
				if ok {
					result <- nil
					return
				}
			}
		}
	}()

	return result
}

// Stop cancels the running loop, if any, and waits for it to exit.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
}

func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done == nil {
		return false
	}

	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

func (p *Poller) stopLocked() {
	if p.cancel == nil {
		return
	}

	p.cancel()
	<-p.done

	p.cancel = nil
	p.done = nil
}

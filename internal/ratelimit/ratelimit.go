package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/deusflow/gnews/internal/logger"
)

// Pacer serializes calls to one external endpoint with a fixed delay
// between them. The first call goes through immediately.
type Pacer struct {
	mu    sync.Mutex
	delay time.Duration
	last  time.Time
}

func NewPacer(delay time.Duration) *Pacer {
	return &Pacer{delay: delay}
}

// Wait blocks until the delay since the previous call has elapsed.
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.last.IsZero() {
		if remaining := p.delay - time.Since(p.last); remaining > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(remaining):
			}
		}
	}
	p.last = time.Now()
	return nil
}

// Budget caps the number of paid requests per run. Zero max means unlimited.
type Budget struct {
	mu    sync.Mutex
	used  int
	max   int
	label string
}

func NewBudget(label string, max int) *Budget {
	return &Budget{label: label, max: max}
}

// Take consumes one request from the budget.
func (b *Budget) Take() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.max > 0 && b.used >= b.max {
		return fmt.Errorf("%s request budget exhausted (%d/%d)", b.label, b.used, b.max)
	}
	b.used++
	logger.Debug("budget usage", "service", b.label, "used", b.used, "max", b.max)
	return nil
}

func (b *Budget) Used() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used
}

// Package ratelimit paces every interactive browser action. All navigation,
// query submission and page advances go through Wait; ScrollPage simulates a
// reading pass over a fetched page and forces lazy-loaded results to render.
package ratelimit

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/chromedp/chromedp"
	"golang.org/x/time/rate"
)

// cooldownFactor scales the jitter window after a block signal.
const cooldownFactor = 10

// Limiter draws a uniform delay from [min, max] before each action, on top of
// a hard actions-per-second ceiling.
type Limiter struct {
	min     time.Duration
	max     time.Duration
	ceiling *rate.Limiter
	rng     *rand.Rand
}

// New builds a Limiter from the configured delay bounds in seconds.
// Requires min <= max; config validation enforces that before a run starts.
// The ceiling holds actions at least min apart even when a caller skips the
// jittered wait; rate.Every(0) disables it for min = 0.
func New(minSeconds, maxSeconds float64) *Limiter {
	min := time.Duration(minSeconds * float64(time.Second))
	return &Limiter{
		min:     min,
		max:     time.Duration(maxSeconds * float64(time.Second)),
		ceiling: rate.NewLimiter(rate.Every(min), 1),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Delay returns one uniformly distributed duration in [min, max].
func (l *Limiter) Delay() time.Duration {
	if l.max <= l.min {
		return l.min
	}
	return l.min + time.Duration(l.rng.Int63n(int64(l.max-l.min)+1))
}

// Wait blocks for one jittered delay. It returns early with the context's
// error when the run is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.ceiling.Wait(ctx); err != nil {
		return err
	}
	return sleep(ctx, l.Delay())
}

// WaitBetweenQueries blocks for a doubled jitter window, the longer pause the
// run takes before starting the next configured search.
func (l *Limiter) WaitBetweenQueries(ctx context.Context) error {
	return sleep(ctx, 2*l.Delay())
}

// Cooldown blocks for an escalated pause after a block or rate-limit signal,
// before the caller retries the action once.
func (l *Limiter) Cooldown(ctx context.Context) error {
	return sleep(ctx, time.Duration(cooldownFactor)*l.Delay())
}

// ScrollPage scrolls the current page in randomized chunks and then to the
// bottom, pausing between steps, so the result list is fully rendered before
// extraction.
func (l *Limiter) ScrollPage(ctx context.Context) error {
	var height int
	if err := chromedp.Run(ctx,
		chromedp.Evaluate(`document.body.scrollHeight`, &height),
	); err != nil {
		return fmt.Errorf("read page height: %w", err)
	}

	for i := 0; i < 3; i++ {
		frac := 0.3 + l.rng.Float64()*0.4
		target := int(float64(height) * frac)
		if err := chromedp.Run(ctx,
			chromedp.Evaluate(fmt.Sprintf(`window.scrollTo(0, %d)`, target), nil),
		); err != nil {
			return fmt.Errorf("scroll step: %w", err)
		}
		if err := sleep(ctx, l.Delay()/3); err != nil {
			return err
		}
	}

	if err := chromedp.Run(ctx,
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
	); err != nil {
		return fmt.Errorf("scroll to bottom: %w", err)
	}
	return sleep(ctx, l.Delay()/3)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package driver

import (
	"context"
	"time"
)

// Observer is notified after each rendered frame.
type Observer interface {
	OnFrame(d *Driver, frame int)
}

type ObserverFunc func(d *Driver, frame int)

func (f ObserverFunc) OnFrame(d *Driver, frame int) { f(d, frame) }

// Loop drives a Driver from a timer for headless use.
type Loop struct {
	d         *Driver
	observers []Observer
}

func NewLoop(d *Driver) *Loop {
	return &Loop{d: d}
}

func (l *Loop) AddObserver(o Observer) { l.observers = append(l.observers, o) }

// Run ticks the driver every interval, or back to back when interval is
// zero, until ctx is done, the driver is stopped or maxFrames frames have
// been rendered (maxFrames <= 0 means no limit). It returns the number of
// frames rendered and ctx.Err() on cancellation.
func (l *Loop) Run(ctx context.Context, interval time.Duration, maxFrames int) (int, error) {
	tok := l.d.Start()
	frames := 0

	step := func() bool {
		next, ok := l.d.Tick(tok)
		if !ok {
			return false
		}
		tok = next
		frames++
		for _, o := range l.observers {
			o.OnFrame(l.d, frames)
		}
		return maxFrames <= 0 || frames < maxFrames
	}

	if interval <= 0 {
		for {
			if err := ctx.Err(); err != nil {
				return frames, err
			}
			if !step() {
				return frames, nil
			}
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return frames, ctx.Err()
		case <-ticker.C:
			if !step() {
				return frames, nil
			}
		}
	}
}

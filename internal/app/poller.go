package app

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/five82/droidtrace/internal/adb"
	"github.com/five82/droidtrace/internal/state"
)

const (
	defaultPollInterval = 5 * time.Second
	maxBackoff          = 30 * time.Second
	pollTimeout         = 10 * time.Second
)

// DeviceLister reports attached devices.
type DeviceLister interface {
	Devices(ctx context.Context) ([]adb.Device, error)
}

// StartPoller launches a background goroutine that refreshes the device list.
// Failures back off exponentially up to maxBackoff. It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, devices DeviceLister, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		for {
			refresh(ctx, store, devices)
			wait := calculateBackoff(store.Snapshot().ConsecutiveFailures, interval)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
}

// calculateBackoff doubles base once per consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}

func refresh(ctx context.Context, store *state.Store, devices DeviceLister) {
	ctx, cancel := context.WithTimeout(ctx, pollTimeout)
	defer cancel()

	list, err := devices.Devices(ctx)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return
		}
		store.UpdateDevices(nil, err)
		log.Warn().Err(err).Msg("device poll failed")
		return
	}
	store.UpdateDevices(list, nil)
}

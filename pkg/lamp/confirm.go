package lamp

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"lampbot/pkg/payload"
)

var errNotYet = errors.New("lamp state does not match yet")

// confirmation is the outcome of polling after a state change.
type confirmation struct {
	Confirmed bool
	// Status is the last rendered status, empty if none could be read.
	Status string
}

// confirm polls the device until its reported power state matches on or the
// policy gives up. With polling disabled the state is read once.
func (d *Dispatcher) confirm(ctx context.Context, policy ConfirmPolicy, device string, on bool) confirmation {
	var last confirmation

	poll := func() (struct{}, error) {
		obj, err := d.api.GetObject(ctx, device)
		if err != nil {
			return struct{}{}, err
		}
		report, err := payload.InterpretState(obj.State)
		if err != nil {
			return struct{}{}, err
		}

		last.Status = payload.Render(obj.Name, report)
		if report.IsOn() != on {
			return struct{}{}, errNotYet
		}
		last.Confirmed = true
		return struct{}{}, nil
	}

	if !policy.Enabled {
		if _, err := poll(); err != nil && !errors.Is(err, errNotYet) {
			d.log.Debug("Reading state after command failed", zap.String("device", device), zap.Error(err))
		}
		return last
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = policy.InitialInterval
	b.MaxInterval = policy.MaxInterval
	b.Multiplier = policy.Multiplier

	_, err := backoff.Retry(ctx, poll,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(policy.MaxTries),
		backoff.WithMaxElapsedTime(policy.MaxElapsed),
		backoff.WithNotify(func(err error, next time.Duration) {
			d.log.Debug("Waiting for lamp state",
				zap.String("device", device),
				zap.Duration("next", next),
				zap.Error(err))
		}),
	)
	if err != nil {
		d.log.Info("State change not confirmed",
			zap.String("device", device),
			zap.Bool("want_on", on),
			zap.Error(err))
	}

	return last
}

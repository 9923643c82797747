package enforcer

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// idlePollInterval bounds how long the loop sleeps even with no pending
	// deadline, so external edits (imports, override changes) are picked up.
	idlePollInterval = 5 * time.Minute
	errRetryInterval = 5 * time.Second
)

// RunLoop drives enforcement continuously: enforce, sleep until the next
// deadline, repeat. Wake() cuts the sleep short.
func (e *Enforcer) RunLoop(ctx context.Context) error {
	log.Info().Msg("enforcer loop started")

	timer := e.clock.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-e.wakeCh:
			log.Debug().Msg("drained enforcer wake channel")
		default:
		}

		acted, next, err := e.EnforceOnce(ctx)
		if err != nil {
			log.Error().Err(err).Msg("enforcement tick failed")
			timer.Reset(errRetryInterval)
			select {
			case <-timer.Chan():
				continue
			case <-ctx.Done():
				return nil
			}
		}

		// An assignment changes the schedule; re-enforce immediately so a
		// backlog of overdue picks drains one per tick without sleeping.
		if acted {
			continue
		}

		wait := idlePollInterval
		if !next.IsZero() {
			if d := next.Sub(e.clock.Now()); d < wait {
				wait = d
			}
		}
		if wait < 0 {
			wait = 0
		}

		timer.Reset(wait)
		select {
		case <-timer.Chan():
		case <-e.wakeCh:
			log.Debug().Msg("enforcer woken early")
		case <-ctx.Done():
			log.Info().Msg("enforcer loop shutting down")
			return nil
		}
	}
}

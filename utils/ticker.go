package utils

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"

	"go.viam.com/dualpose/logging"
)

// slowLogBackoff is the wait before each warning. The last entry repeats.
var slowLogBackoff = []time.Duration{2 * time.Second, 3 * time.Second, 5 * time.Second}

// SlowLogger warns with msg, keysAndValues and the elapsed time on clk until the returned function is
// called or ctx is done:
//
//	defer utils.SlowLogger(ctx, clock.New(), logger, "still simulating", "config", path)()
func SlowLogger(
	ctx context.Context, clk clock.Clock, logger logging.Logger, msg string, keysAndValues ...interface{},
) func() {
	ctxWithCancel, cancel := context.WithCancel(ctx)
	startTime := clk.Now()
	timer := clk.Timer(slowLogBackoff[0])
	go func() {
		defer timer.Stop()
		for attempt := 1; ; attempt++ {
			select {
			case <-timer.C:
				// rearm before logging, a waiting mock clock sees the timer once the warning is out
				timer.Reset(slowLogBackoff[min(attempt, len(slowLogBackoff)-1)])
				elapsed := clk.Since(startTime).Round(time.Second).String()
				n := len(keysAndValues)
				logger.Warnw(msg, append(keysAndValues[:n:n], "time_elapsed", elapsed)...)
			case <-ctxWithCancel.Done():
				return
			}
		}
	}()
	return cancel
}

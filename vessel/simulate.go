package vessel

import (
	"context"

	"github.com/pkg/errors"

	"go.viam.com/dualpose/logging"
)

// Simulate steps craft once per input and returns the snapshot after every tick. It stops with the
// context error if ctx is done between ticks, returning the snapshots gathered so far.
func Simulate(ctx context.Context, logger logging.Logger, craft Craft, inputs []InputState) ([]Snapshot, error) {
	snapshots := make([]Snapshot, 0, len(inputs))
	for i, in := range inputs {
		if err := ctx.Err(); err != nil {
			return snapshots, errors.Wrapf(err, "simulation stopped before tick %d", i+1)
		}

		craft = craft.Step(in)
		if !craft.Ship.Pose.IsFinite() {
			return snapshots, errors.Errorf("ship pose is not finite after tick %d: %v", i+1, craft.Ship.Pose)
		}

		snap := craft.Snapshot()
		snap.Tick = i + 1
		snapshots = append(snapshots, snap)

		logger.CDebugw(ctx, "tick", "tick", snap.Tick, "ship", snap.Ship.String(), "gun", snap.Gun.String())
		if in.Pointer != nil && !craft.OnTarget {
			logger.Warnw("cannot aim at target", "tick", snap.Tick, "target", *in.Pointer)
		}
	}
	return snapshots, nil
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/dualpose/config"
	"go.viam.com/dualpose/logging"
	"go.viam.com/dualpose/spatialmath"
	"go.viam.com/dualpose/utils"
	"go.viam.com/dualpose/vessel"
)

// SimulateAction is the corresponding Action for 'simulate'.
func SimulateAction(c *cli.Context) error {
	every := c.Int(simulateFlagEvery)
	if every < 1 {
		return errors.Errorf("--%s must be at least 1, got %d", simulateFlagEvery, every)
	}

	logger := logging.Global().Sublogger("simulate")
	scenario, err := config.Read(c.Context, c.String(simulateFlagConfig), logger)
	if err != nil {
		return err
	}

	if scenario.LogLevel != nil && !c.IsSet(generalFlagLogLevel) && !c.Bool(generalFlagDebug) {
		logger.SetLevel(*scenario.LogLevel)
	}

	done := utils.SlowLogger(c.Context, clock.New(), logger, "still simulating", "config", scenario.ConfigFilePath)
	snapshots, err := vessel.Simulate(c.Context, logger, scenario.Craft(), scenario.Inputs())
	done()
	if err != nil {
		return err
	}
	logger.Infow("simulation finished", "config", scenario.ConfigFilePath, "ticks", len(snapshots))

	if out := c.String(simulateFlagOut); out != "" {
		if err := writeSnapshots(out, snapshots); err != nil {
			return err
		}
	}

	printf(c, "%s", SnapshotTable(snapshots, every))
	return nil
}

func writeSnapshots(path string, snapshots []vessel.Snapshot) error {
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "could not create %q", path)
	}
	return encodeSnapshots(f, path, snapshots)
}

// encodeSnapshots writes snapshots as indented json and closes wc. A failed close is returned too.
func encodeSnapshots(wc io.WriteCloser, path string, snapshots []vessel.Snapshot) (err error) {
	defer func() {
		err = multierr.Combine(err, errors.Wrapf(wc.Close(), "could not close %q", path))
	}()

	enc := json.NewEncoder(wc)
	enc.SetIndent("", "  ")
	return errors.Wrapf(enc.Encode(snapshots), "could not write snapshots to %q", path)
}

// SnapshotTable renders every Nth snapshot, plus the last one, as a table with angles in degrees.
func SnapshotTable(snapshots []vessel.Snapshot, every int) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Tick", "Heading", "Orientation", "Translation", "Gun Tip", "On Target"})
	rows := lo.Filter(snapshots, func(snap vessel.Snapshot, idx int) bool {
		return snap.Tick%every == 0 || idx == len(snapshots)-1
	})
	for _, snap := range rows {
		deg := snap.Ship.Orientation.Degrees()
		t.AppendRow(table.Row{
			snap.Tick,
			fmt.Sprintf("%.1f", utils.ModAngDeg(deg.Yaw)),
			fmt.Sprintf("Yaw:%.2f, Pitch:%.2f, Roll:%.2f", deg.Yaw, deg.Pitch, deg.Roll),
			formatVector(snap.Ship.Point),
			formatVector(snap.GunTip),
			snap.OnTarget,
		})
	}
	return t.Render()
}

// RelativeAction is the corresponding Action for 'relative'.
func RelativeAction(c *cli.Context) error {
	from, err := poseFromFlag(c, relativeFlagFrom)
	if err != nil {
		return err
	}
	to, err := poseFromFlag(c, relativeFlagTo)
	if err != nil {
		return err
	}

	rel := spatialmath.RelativePose(from, to)
	logging.Global().CDebugw(c.Context, "relative pose", "from", from.String(), "to", to.String(), "relative", rel.String())
	printf(c, "%s", rel.Pose())
	return nil
}

// TransformAction is the corresponding Action for 'transform'.
func TransformAction(c *cli.Context) error {
	pose, err := poseFromFlag(c, transformFlagPose)
	if err != nil {
		return err
	}
	vals := c.Float64Slice(transformFlagPoint)
	if len(vals) != 3 {
		return errors.Errorf("--%s needs 3 values (x,y,z), got %d", transformFlagPoint, len(vals))
	}

	printf(c, "%s", formatVector(pose.TransformVector(r3.Vector{X: vals[0], Y: vals[1], Z: vals[2]})))
	return nil
}

// poseFromFlag reads yaw,pitch,roll in degrees followed by x,y,z.
func poseFromFlag(c *cli.Context, flag string) (spatialmath.DualQuaternion, error) {
	vals := c.Float64Slice(flag)
	if len(vals) != 6 {
		return spatialmath.DualQuaternion{}, errors.Errorf(
			"--%s needs 6 values (yaw,pitch,roll,x,y,z), got %d", flag, len(vals))
	}
	pose := spatialmath.NewPose(
		r3.Vector{X: vals[3], Y: vals[4], Z: vals[5]},
		spatialmath.NewEulerAnglesDegrees(vals[0], vals[1], vals[2]),
	)
	return pose.DualQuaternion(), nil
}

func formatVector(v r3.Vector) string {
	return fmt.Sprintf("X:%.2f, Y:%.2f, Z:%.2f", v.X, v.Y, v.Z)
}

// printf prints a message with no decoration.
func printf(c *cli.Context, format string, a ...interface{}) {
	fmt.Fprintf(c.App.Writer, format+"\n", a...)
}

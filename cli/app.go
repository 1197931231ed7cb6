// Package cli contains the posesim command line: playing back ship scenarios and composing poses by hand.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"

	"go.viam.com/dualpose/logging"
)

const (
	generalFlagDebug    = "debug"
	generalFlagLogLevel = "log-level"

	simulateFlagConfig = "config"
	simulateFlagEvery  = "every"
	simulateFlagOut    = "out"

	relativeFlagFrom = "from"
	relativeFlagTo   = "to"

	transformFlagPose  = "pose"
	transformFlagPoint = "point"
)

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "posesim",
		Usage:           "compose rigid transforms and drive a ship with dual quaternions",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    generalFlagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.StringFlag{
				Name:  generalFlagLogLevel,
				Usage: "log at `LEVEL` (debug, info, warn or error), --debug wins over it",
				Value: "info",
			},
		},
		Before: func(c *cli.Context) error {
			level, err := logging.LevelFromString(c.String(generalFlagLogLevel))
			if err != nil {
				return err
			}
			if c.Bool(generalFlagDebug) {
				level = logging.DEBUG
				c.Context = logging.EnableDebugMode(c.Context, "")
			}
			// the global level outlives this app, so set it on every run
			logging.GlobalLogLevel.SetLevel(level.AsZap())

			logger := logging.NewBlankLogger("posesim")
			logger.SetLevel(level)
			logger.AddAppender(logging.NewWriterAppender(errOut))
			logging.ReplaceGlobal(logger)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "simulate",
				Usage:     "play back a scenario file and print the ship and gun every few ticks",
				UsageText: "posesim simulate --config FILE [--every N] [--out FILE]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     simulateFlagConfig,
						Aliases:  []string{"c"},
						Usage:    "load the scenario from `FILE`",
						Required: true,
					},
					&cli.IntFlag{
						Name:  simulateFlagEvery,
						Usage: "print one row per `N` ticks, the last tick is always printed",
						Value: 10,
					},
					&cli.StringFlag{
						Name:  simulateFlagOut,
						Usage: "also write every snapshot as json to `FILE`",
					},
				},
				Action: SimulateAction,
			},
			{
				Name:      "relative",
				Usage:     "print the pose of one frame as seen from another",
				UsageText: "posesim relative --from yaw,pitch,roll,x,y,z --to yaw,pitch,roll,x,y,z",
				Flags: []cli.Flag{
					&cli.Float64SliceFlag{
						Name:     relativeFlagFrom,
						Usage:    "reference pose, angles in degrees",
						Required: true,
					},
					&cli.Float64SliceFlag{
						Name:     relativeFlagTo,
						Usage:    "pose to express in the reference frame, angles in degrees",
						Required: true,
					},
				},
				Action: RelativeAction,
			},
			{
				Name:      "transform",
				Usage:     "rotate and translate a point by a pose",
				UsageText: "posesim transform --pose yaw,pitch,roll,x,y,z --point x,y,z",
				Flags: []cli.Flag{
					&cli.Float64SliceFlag{
						Name:     transformFlagPose,
						Usage:    "pose to apply, angles in degrees",
						Required: true,
					},
					&cli.Float64SliceFlag{
						Name:     transformFlagPoint,
						Usage:    "point to transform",
						Required: true,
					},
				},
				Action: TransformAction,
			},
		},
	}
}

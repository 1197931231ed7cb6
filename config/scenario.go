// Package config defines the structures to configure a ship and gun scenario and the ways to read them.
package config

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"

	"go.viam.com/dualpose/logging"
	"go.viam.com/dualpose/spatialmath"
	"go.viam.com/dualpose/utils"
	"go.viam.com/dualpose/vessel"
)

// Translation is an offset in scenario length units.
type Translation struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vector converts the translation to an r3.Vector.
func (t Translation) Vector() r3.Vector {
	return r3.Vector{X: t.X, Y: t.Y, Z: t.Z}
}

// Orientation is a yaw, pitch, roll triple in degrees.
type Orientation struct {
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
	Roll  float64 `json:"roll"`
}

// EulerAngles converts the orientation to radians.
func (o Orientation) EulerAngles() spatialmath.EulerAngles {
	return spatialmath.NewEulerAnglesDegrees(o.Yaw, o.Pitch, o.Roll)
}

// FrameConfig is the starting pose of the ship.
type FrameConfig struct {
	Translation Translation `json:"translation"`
	Orientation Orientation `json:"orientation"`
}

// Validate ensures all parts of the config are valid.
func (f *FrameConfig) Validate(path string) error {
	var errs error
	if !utils.IsFinite(f.Translation.X, f.Translation.Y, f.Translation.Z) {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path, errors.New("translation must be finite")))
	}
	if !utils.IsFinite(f.Orientation.Yaw, f.Orientation.Pitch, f.Orientation.Roll) {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path, errors.New("orientation must be finite")))
	}
	return errs
}

// Pose returns the configured pose.
func (f *FrameConfig) Pose() spatialmath.Pose {
	return spatialmath.NewPose(f.Translation.Vector(), f.Orientation.EulerAngles())
}

// GunConfig places the gun mount relative to the ship origin.
type GunConfig struct {
	Translation Translation `json:"translation"`
}

// Validate ensures all parts of the config are valid.
func (g *GunConfig) Validate(path string) error {
	if !utils.IsFinite(g.Translation.X, g.Translation.Y, g.Translation.Z) {
		return utils.NewConfigValidationError(path, errors.New("translation must be finite"))
	}
	return nil
}

const (
	// MaxTickRepeat bounds the repeat count of a single tick entry.
	MaxTickRepeat = 100_000
	// MaxScenarioTicks bounds the number of ticks a whole scenario expands to.
	MaxScenarioTicks = 1_000_000
)

// TickConfig is an input held for Repeat ticks. A zero Repeat means one tick.
type TickConfig struct {
	Repeat   int          `json:"repeat,omitempty"`
	Left     bool         `json:"left,omitempty"`
	Right    bool         `json:"right,omitempty"`
	Forward  bool         `json:"forward,omitempty"`
	Backward bool         `json:"backward,omitempty"`
	Pointer  *Translation `json:"pointer,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (tc *TickConfig) Validate(path string) error {
	var errs error
	if tc.Repeat < 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path,
			errors.Errorf("repeat must not be negative, got %d", tc.Repeat)))
	}
	if tc.Repeat > MaxTickRepeat {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path,
			errors.Errorf("repeat must be at most %d, got %d", MaxTickRepeat, tc.Repeat)))
	}
	if tc.Pointer != nil && !utils.IsFinite(tc.Pointer.X, tc.Pointer.Y, tc.Pointer.Z) {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path, errors.New("pointer must be finite")))
	}
	return errs
}

func (tc *TickConfig) count() int {
	return max(tc.Repeat, 1)
}

func (tc *TickConfig) inputs() []vessel.InputState {
	return lo.Times(tc.count(), func(int) vessel.InputState {
		in := vessel.InputState{Left: tc.Left, Right: tc.Right, Forward: tc.Forward, Backward: tc.Backward}
		if tc.Pointer != nil {
			pointer := tc.Pointer.Vector()
			in.Pointer = &pointer
		}
		return in
	})
}

// Scenario describes a ship, its gun and the input played back against them.
type Scenario struct {
	Ship  *FrameConfig `json:"ship"`
	Gun   GunConfig    `json:"gun"`
	Ticks []TickConfig `json:"ticks"`

	// LogLevel, when set, is the level the scenario is simulated at unless the command line overrides it.
	LogLevel *logging.Level `json:"log_level,omitempty"`

	ConfigFilePath string `json:"-"`
}

// Validate checks every section and returns all problems found, not just the first.
func (s *Scenario) Validate(path string) error {
	var errs error
	if s.Ship == nil {
		errs = multierr.Append(errs, utils.NewConfigValidationFieldRequiredError(path, "ship"))
	} else {
		errs = multierr.Append(errs, s.Ship.Validate(joinPath(path, "ship")))
	}
	errs = multierr.Append(errs, s.Gun.Validate(joinPath(path, "gun")))
	total := 0
	for idx := range s.Ticks {
		errs = multierr.Append(errs, s.Ticks[idx].Validate(joinPath(path, fmt.Sprintf("ticks.%d", idx))))
		total += min(s.Ticks[idx].count(), MaxTickRepeat)
	}
	if total > MaxScenarioTicks {
		errs = multierr.Append(errs, utils.NewConfigValidationError(joinPath(path, "ticks"),
			errors.Errorf("scenario expands to %d ticks, at most %d are allowed", total, MaxScenarioTicks)))
	}
	return errs
}

// Craft returns the craft at its starting pose. The scenario must have been validated.
func (s *Scenario) Craft() vessel.Craft {
	return vessel.NewCraft(s.Ship.Pose().DualQuaternion(), s.Gun.Translation.Vector())
}

// Inputs expands the ticks into one input per simulated tick.
func (s *Scenario) Inputs() []vessel.InputState {
	return lo.FlatMap(s.Ticks, func(tc TickConfig, _ int) []vessel.InputState {
		return tc.inputs()
	})
}

func joinPath(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}

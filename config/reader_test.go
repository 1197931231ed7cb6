package config

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"go.viam.com/utils"

	"go.viam.com/dualpose/logging"
	"go.viam.com/dualpose/spatialmath"
)

func TestFromReaderValidate(t *testing.T) {
	logger := logging.NewTestLogger(t)
	ctx := context.Background()

	_, err := FromReader(ctx, "somepath", strings.NewReader(""), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "EOF")

	_, err = FromReader(ctx, "somepath", strings.NewReader(`{"ship": 1}`), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unmarshal")

	_, err = FromReader(ctx, "somepath", strings.NewReader(`{}`), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `"ship" is required`)

	conf, err := FromReader(ctx, "somepath", strings.NewReader(`{"ship": {}}`), logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, conf, test.ShouldResemble, &Scenario{
		Ship:           &FrameConfig{},
		ConfigFilePath: "somepath",
	})

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = FromReader(canceled, "somepath", strings.NewReader(`{"ship": {}}`), logger)
	test.That(t, err, test.ShouldEqual, context.Canceled)
}

func TestValidateAggregates(t *testing.T) {
	scenario := &Scenario{
		Gun: GunConfig{Translation: Translation{X: math.Inf(1)}},
		Ticks: []TickConfig{
			{Repeat: 2},
			{Repeat: -2},
			{Pointer: &Translation{Z: math.NaN()}},
		},
	}
	err := scenario.Validate("scenario")
	test.That(t, err, test.ShouldNotBeNil)
	msg := err.Error()
	test.That(t, msg, test.ShouldContainSubstring, `error validating "scenario": "ship" is required`)
	test.That(t, msg, test.ShouldContainSubstring, `error validating "scenario.gun": translation must be finite`)
	test.That(t, msg, test.ShouldContainSubstring, `error validating "scenario.ticks.1": repeat must not be negative, got -2`)
	test.That(t, msg, test.ShouldContainSubstring, `error validating "scenario.ticks.2": pointer must be finite`)
	test.That(t, msg, test.ShouldNotContainSubstring, "ticks.0")

	scenario.Ship = &FrameConfig{Orientation: Orientation{Yaw: math.NaN()}}
	msg = scenario.Validate("scenario").Error()
	test.That(t, msg, test.ShouldNotContainSubstring, `"ship" is required`)
	test.That(t, msg, test.ShouldContainSubstring, `error validating "scenario.ship": orientation must be finite`)
}

func TestRead(t *testing.T) {
	logger := logging.NewTestLogger(t)
	scenario, err := Read(context.Background(), "testdata/circle.json", logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, scenario.ConfigFilePath, test.ShouldEqual, "testdata/circle.json")

	inputs := scenario.Inputs()
	test.That(t, inputs, test.ShouldHaveLength, 91)
	test.That(t, inputs[0].Left && inputs[0].Forward, test.ShouldBeTrue)
	test.That(t, inputs[89].Pointer, test.ShouldBeNil)
	test.That(t, *inputs[90].Pointer, test.ShouldResemble, r3.Vector{X: 300, Z: 50})

	craft := scenario.Craft()
	test.That(t, spatialmath.R3VectorAlmostEqual(craft.Ship.Pose.Vector(), r3.Vector{X: 100, Z: 100}, 1e-9), test.ShouldBeTrue)
	test.That(t, spatialmath.R3VectorAlmostEqual(craft.Gun.Mount.Vector(), r3.Vector{X: 5}, 1e-9), test.ShouldBeTrue)

	_, err = Read(context.Background(), "testdata/missing.json", logger)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestReadExpandsEnv(t *testing.T) {
	logger := logging.NewTestLogger(t)
	t.Setenv("SHIP_X", "42")

	scenario, err := Read(context.Background(), "testdata/env.json", logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, scenario.Ship.Translation.X, test.ShouldEqual, 42.)
	test.That(t, scenario.Ship.Orientation.Yaw, test.ShouldEqual, 0.)
	test.That(t, scenario.Inputs(), test.ShouldHaveLength, 3)

	t.Setenv("SHIP_YAW", "90")
	scenario, err = Read(context.Background(), "testdata/env.json", logger)
	test.That(t, err, test.ShouldBeNil)
	pose := scenario.Ship.Pose()
	test.That(t, pose.Orientation.Yaw, test.ShouldAlmostEqual, math.Pi/2)
}

func TestReadWrittenFile(t *testing.T) {
	logger := logging.NewTestLogger(t)
	path := filepath.Join(t.TempDir(), "scenario.json")
	file, err := os.Create(path)
	test.That(t, err, test.ShouldBeNil)
	defer utils.UncheckedErrorFunc(file.Close)

	_, err = file.WriteString(`{"ship": {"orientation": {"pitch": 45}}, "ticks": [{"repeat": 0, "backward": true}]}`)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, file.Sync(), test.ShouldBeNil)

	scenario, err := Read(context.Background(), path, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, scenario.Ship.Pose().Orientation.Pitch, test.ShouldAlmostEqual, math.Pi/4)
	inputs := scenario.Inputs()
	test.That(t, inputs, test.ShouldHaveLength, 1)
	test.That(t, inputs[0].Backward, test.ShouldBeTrue)
}

func TestValidateRepeatBounds(t *testing.T) {
	ship := &FrameConfig{}

	scenario := &Scenario{Ship: ship, Ticks: []TickConfig{{Repeat: MaxTickRepeat, Forward: true}}}
	test.That(t, scenario.Validate("scenario"), test.ShouldBeNil)

	scenario.Ticks = []TickConfig{{Repeat: 1_000_000_000, Left: true}}
	err := scenario.Validate("scenario")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring,
		`error validating "scenario.ticks.0": repeat must be at most 100000, got 1000000000`)

	// each entry is in range but together they are too long
	scenario.Ticks = make([]TickConfig, MaxScenarioTicks/MaxTickRepeat+1)
	for idx := range scenario.Ticks {
		scenario.Ticks[idx].Repeat = MaxTickRepeat
	}
	err = scenario.Validate("scenario")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `error validating "scenario.ticks": scenario expands to 1100000 ticks`)

	logger := logging.NewTestLogger(t)
	_, err = FromReader(context.Background(), "somepath",
		strings.NewReader(`{"ship": {}, "ticks": [{"repeat": 1000000000, "forward": true}]}`), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "repeat must be at most")
}

func TestScenarioLogLevel(t *testing.T) {
	logger := logging.NewTestLogger(t)
	ctx := context.Background()

	scenario, err := FromReader(ctx, "somepath", strings.NewReader(`{"ship": {}}`), logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, scenario.LogLevel, test.ShouldBeNil)

	scenario, err = FromReader(ctx, "somepath", strings.NewReader(`{"ship": {}, "log_level": "WARNING"}`), logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, scenario.LogLevel, test.ShouldNotBeNil)
	test.That(t, *scenario.LogLevel, test.ShouldEqual, logging.WARN)

	_, err = FromReader(ctx, "somepath", strings.NewReader(`{"ship": {}, "log_level": "loud"}`), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `unknown log level: "loud"`)
}

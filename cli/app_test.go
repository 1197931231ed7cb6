package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.viam.com/test"

	"go.viam.com/dualpose/logging"
	"go.viam.com/dualpose/vessel"
)

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	err := NewApp(out, errOut).Run(append([]string{"posesim"}, args...))
	return out.String(), errOut.String(), err
}

func TestTransformAction(t *testing.T) {
	out, _, err := runApp(t, "transform", "--pose", "90,0,0,100,0,0", "--point", "30,0,0")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "X:100.00")
	test.That(t, out, test.ShouldContainSubstring, "Z:-30.00")

	_, _, err = runApp(t, "transform", "--pose", "90,0,0", "--point", "30,0,0")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "--pose needs 6 values")

	_, _, err = runApp(t, "transform", "--pose", "0,0,0,0,0,0", "--point", "1,2")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "--point needs 3 values")
}

func TestRelativeAction(t *testing.T) {
	out, _, err := runApp(t, "relative", "--from", "0,0,0,10,0,0", "--to", "90,0,0,10,0,5")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "yaw: 90.00")
	test.That(t, out, test.ShouldContainSubstring, "z: 5.00")

	_, _, err = runApp(t, "relative", "--from", "0,0,0,10,0,0")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSimulateAction(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "scenario.json")
	test.That(t, os.WriteFile(cfg, []byte(`{
		"ship": {"translation": {"x": 100, "y": 0, "z": 100}},
		"ticks": [{"repeat": 25, "forward": true}, {"pointer": {"x": 0, "y": 0, "z": 0}}]
	}`), 0o600), test.ShouldBeNil)
	snapshotsPath := filepath.Join(dir, "snapshots.json")

	out, errOut, err := runApp(t, "simulate", "--config", cfg, "--every", "10", "--out", snapshotsPath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, errOut, test.ShouldContainSubstring, "simulation finished")

	// header plus ticks 10, 20 and the final 26
	test.That(t, out, test.ShouldContainSubstring, "ON TARGET")
	test.That(t, out, test.ShouldContainSubstring, "X:110.00, Y:0.00, Z:100.00")
	test.That(t, out, test.ShouldContainSubstring, "X:125.00, Y:0.00, Z:100.00")
	test.That(t, out, test.ShouldNotContainSubstring, "X:105.00")
	test.That(t, strings.Count(out, "| 26 "), test.ShouldEqual, 1)

	data, err := os.ReadFile(snapshotsPath)
	test.That(t, err, test.ShouldBeNil)
	var snapshots []vessel.Snapshot
	test.That(t, json.Unmarshal(data, &snapshots), test.ShouldBeNil)
	test.That(t, snapshots, test.ShouldHaveLength, 26)
	test.That(t, snapshots[25].Tick, test.ShouldEqual, 26)
	test.That(t, snapshots[25].OnTarget, test.ShouldBeTrue)

	_, _, err = runApp(t, "simulate", "--config", cfg, "--every", "0")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "--every must be at least 1")

	_, _, err = runApp(t, "simulate", "--config", filepath.Join(dir, "missing.json"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestLogLevelFlags(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "scenario.json")
	test.That(t, os.WriteFile(cfg, []byte(`{"ship": {}, "ticks": [{"forward": true}]}`), 0o600), test.ShouldBeNil)

	_, errOut, err := runApp(t, "--debug", "simulate", "--config", cfg)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, logging.GlobalLogLevel.Level(), test.ShouldEqual, zap.DebugLevel)
	test.That(t, errOut, test.ShouldContainSubstring, "read scenario")

	// a later run in the same process is back at info
	_, errOut, err = runApp(t, "simulate", "--config", cfg)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, logging.GlobalLogLevel.Level(), test.ShouldEqual, zap.InfoLevel)
	test.That(t, errOut, test.ShouldNotContainSubstring, "read scenario")
	test.That(t, errOut, test.ShouldContainSubstring, "simulation finished")

	_, errOut, err = runApp(t, "--log-level", "warn", "simulate", "--config", cfg)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, logging.GlobalLogLevel.Level(), test.ShouldEqual, zap.WarnLevel)
	test.That(t, errOut, test.ShouldNotContainSubstring, "simulation finished")

	_, _, err = runApp(t, "--log-level", "loud", "simulate", "--config", cfg)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `unknown log level: "loud"`)
}

func TestScenarioLogLevel(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "scenario.json")
	test.That(t, os.WriteFile(cfg, []byte(`{"ship": {}, "log_level": "error", "ticks": [{"forward": true}]}`), 0o600),
		test.ShouldBeNil)

	_, errOut, err := runApp(t, "simulate", "--config", cfg)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, errOut, test.ShouldNotContainSubstring, "simulation finished")

	// an explicit flag wins over the scenario
	_, errOut, err = runApp(t, "--log-level", "info", "simulate", "--config", cfg)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, errOut, test.ShouldContainSubstring, "simulation finished")
}

type closeErrWriter struct {
	bytes.Buffer
	closeErr error
}

func (w *closeErrWriter) Close() error {
	return w.closeErr
}

func TestEncodeSnapshotsReportsClose(t *testing.T) {
	snapshots := []vessel.Snapshot{{Tick: 1}}

	ok := &closeErrWriter{}
	test.That(t, encodeSnapshots(ok, "ok.json", snapshots), test.ShouldBeNil)
	test.That(t, ok.String(), test.ShouldContainSubstring, `"tick": 1`)

	failing := &closeErrWriter{closeErr: errors.New("disk full")}
	err := encodeSnapshots(failing, "full.json", snapshots)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `could not close "full.json": disk full`)
}

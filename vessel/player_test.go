package vessel

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"go.viam.com/utils/testutils"

	"go.viam.com/dualpose/logging"
	"go.viam.com/dualpose/spatialmath"
)

func TestPlayerStep(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	// never ticks on its own, the test drives it
	p := NewPlayer(logger, NewCraft(spatialmath.IdentityDualQuaternion(), r3.Vector{}), time.Hour)
	defer p.Close()

	test.That(t, p.Snapshot().Tick, test.ShouldEqual, 0)

	p.SetInput(InputState{Forward: true})
	p.step(context.Background())
	p.step(context.Background())
	snap := p.Snapshot()
	test.That(t, snap.Tick, test.ShouldEqual, 2)
	test.That(t, spatialmath.R3VectorAlmostEqual(snap.Ship.Point, r3.Vector{X: 2}, tol), test.ShouldBeTrue)

	// the pointer is used once, held keys stay
	target := r3.Vector{X: 3, Z: 30}
	p.SetInput(InputState{Forward: true, Pointer: &target})
	p.step(context.Background())
	snap = p.Snapshot()
	test.That(t, snap.OnTarget, test.ShouldBeTrue)
	test.That(t, spatialmath.R3VectorAlmostEqual(snap.GunTip, r3.Vector{X: 3, Z: 20}, 1e-6), test.ShouldBeTrue)
	test.That(t, p.input.Pointer, test.ShouldBeNil)
	test.That(t, p.input.Forward, test.ShouldBeTrue)

	behind := r3.Vector{X: -10}
	p.SetInput(InputState{Pointer: &behind})
	p.step(context.Background())
	test.That(t, p.Snapshot().OnTarget, test.ShouldBeFalse)
	test.That(t, logs.FilterMessage("cannot aim at target").Len(), test.ShouldEqual, 1)
}

func TestPlayerTicks(t *testing.T) {
	logger := logging.NewTestLogger(t)
	clk := clock.NewMock()
	p := newPlayerWithClock(logger, NewCraft(spatialmath.IdentityDualQuaternion(), r3.Vector{}), 10*time.Millisecond, clk)
	p.SetInput(InputState{Left: true})

	for tick := 1; tick <= 3; tick++ {
		clk.Add(10 * time.Millisecond)
		testutils.WaitForAssertion(t, func(tb testing.TB) {
			test.That(tb, p.Snapshot().Tick, test.ShouldEqual, tick)
		})
	}
	test.That(t, p.Snapshot().Ship.Orientation.Yaw, test.ShouldAlmostEqual, 3*math.Pi/180, tol)

	p.Close()
	clk.Add(time.Second)
	test.That(t, p.Snapshot().Tick, test.ShouldEqual, 3)
}

func TestPlayerRuns(t *testing.T) {
	logger := logging.NewTestLogger(t)
	p := NewPlayer(logger, NewCraft(spatialmath.IdentityDualQuaternion(), r3.Vector{}), time.Millisecond)
	p.SetInput(InputState{Forward: true})

	testutils.WaitForAssertion(t, func(tb testing.TB) {
		test.That(tb, p.Snapshot().Tick, test.ShouldBeGreaterThanOrEqualTo, 5)
	})
	p.Close()

	stopped := p.Snapshot()
	test.That(t, stopped.Ship.Point.X, test.ShouldAlmostEqual, float64(stopped.Tick), tol)
}

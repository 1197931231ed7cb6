package vessel

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"go.viam.com/dualpose/logging"
	"go.viam.com/dualpose/utils"
)

// Player steps a craft on a fixed period in the background, the way an interactive front end drives
// it. Held keys persist between ticks until replaced; a pointer is aimed at once and then cleared.
type Player struct {
	logger logging.Logger

	mu    sync.Mutex
	craft Craft
	input InputState
	last  Snapshot

	workers utils.StoppableWorkers
}

// NewPlayer starts stepping craft every period until Close is called.
func NewPlayer(logger logging.Logger, craft Craft, period time.Duration) *Player {
	return newPlayerWithClock(logger, craft, period, clock.New())
}

func newPlayerWithClock(logger logging.Logger, craft Craft, period time.Duration, clk clock.Clock) *Player {
	p := &Player{
		logger: logger,
		craft:  craft,
		last:   craft.Snapshot(),
	}
	p.workers = utils.NewTickingWorkers(clk, period, p.step)
	return p
}

// SetInput replaces the input used from the next tick on.
func (p *Player) SetInput(in InputState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.input = in
}

// Snapshot returns the state after the most recent tick.
func (p *Player) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Close stops the background ticking and waits for it to finish.
func (p *Player) Close() {
	p.workers.Stop()
}

func (p *Player) step(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := p.craft.Step(p.input)
	if !next.Ship.Pose.IsFinite() {
		p.logger.Errorw("ship pose is not finite, holding position", "tick", p.last.Tick+1)
		return
	}
	if p.input.Pointer != nil && !next.OnTarget {
		p.logger.Warnw("cannot aim at target", "tick", p.last.Tick+1, "target", *p.input.Pointer)
	}
	p.input.Pointer = nil

	tick := p.last.Tick + 1
	p.craft = next
	p.last = next.Snapshot()
	p.last.Tick = tick
	p.logger.CDebugw(ctx, "tick", "tick", tick, "ship", p.last.Ship.String())
}

package vessel

import (
	"github.com/golang/geo/r3"

	"go.viam.com/dualpose/spatialmath"
)

// Craft is a ship together with its gun.
type Craft struct {
	Ship Ship
	Gun  Gun
	// OnTarget is whether the last pointer input could be aimed at.
	OnTarget bool
}

// NewCraft returns a craft at the given ship pose with a gun at mount.
func NewCraft(pose spatialmath.DualQuaternion, mount r3.Vector) Craft {
	return Craft{Ship: NewShip(pose), Gun: NewGun(mount), OnTarget: true}
}

// Step moves the ship first and then aims the gun from the new ship pose.
func (c Craft) Step(in InputState) Craft {
	next := Craft{Ship: c.Ship.Step(in), Gun: c.Gun, OnTarget: c.OnTarget}
	if in.Pointer != nil {
		next.Gun, next.OnTarget = c.Gun.AimAt(next.Ship, *in.Pointer)
	}
	return next
}

// Snapshot is everything a renderer needs to draw a craft for one tick.
type Snapshot struct {
	Tick     int              `json:"tick"`
	Ship     spatialmath.Pose `json:"ship"`
	Outline  []r3.Vector      `json:"outline"`
	Gun      spatialmath.Pose `json:"gun"`
	GunBase  r3.Vector        `json:"gun_base"`
	GunTip   r3.Vector        `json:"gun_tip"`
	OnTarget bool             `json:"on_target"`
}

// Snapshot captures the current world geometry. Tick is left for the caller to fill in.
func (c Craft) Snapshot() Snapshot {
	base, tip := c.Gun.Segment(c.Ship)
	return Snapshot{
		Ship:     c.Ship.Pose.Pose(),
		Outline:  c.Ship.Outline(),
		Gun:      c.Gun.WorldPose(c.Ship).Pose(),
		GunBase:  base,
		GunTip:   tip,
		OnTarget: c.OnTarget,
	}
}

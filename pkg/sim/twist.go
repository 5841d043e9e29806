package sim

import (
	"github.com/robotalks/swerve.go/pkg/geom"
	"github.com/robotalks/swerve.go/pkg/kinematics"
)

// Twist finds the rigid body motion which best explains the wheel ground
// velocities vels at offsets from the rotation center, in the least squares
// sense. It returns the linear velocity of the center and the angular
// velocity in radians per second, counter-clockwise.
func Twist(offsets, vels kinematics.WheelSet[geom.Point2]) (v geom.Point2, omega float64) {
	for _, vel := range vels {
		v = v.Add(vel)
	}
	v = v.Mul(1 / float64(kinematics.NumWheels))
	var moment, inertia float64
	for n, r := range offsets {
		moment += r.Cross(vels[n].Sub(v))
		inertia += r.Dot(r)
	}
	if inertia > 0 {
		omega = moment / inertia
	}
	return
}

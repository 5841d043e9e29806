// Package sim simulates a swerve base for running the controller without
// hardware.
package sim

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/swerve.go/pkg/framework"
	"github.com/robotalks/swerve.go/pkg/geom"
	"github.com/robotalks/swerve.go/pkg/kinematics"
	"github.com/robotalks/swerve.go/pkg/motion"
)

// Base is a simulated swerve base. It accepts wheel commands as a
// motion.ActuatorPort and moves on every loop iteration according to the
// wheels, reporting the new pose to Sink.
type Base struct {
	Chassis  kinematics.Chassis
	MaxSpeed float64
	Interval time.Duration
	Sink     motion.PoseSink

	lock     sync.Mutex
	pose     geom.Pose
	wheels   kinematics.WheelSet[motion.WheelCommand]
	lastTime time.Time
	changes  int
}

// NewBase creates a Base.
func NewBase(chassis kinematics.Chassis) *Base {
	return &Base{
		Chassis:  chassis,
		MaxSpeed: DefaultMaxSpeed,
		changes:  1, // report the initial pose.
	}
}

// SetWheelAngle implements motion.ActuatorPort.
func (b *Base) SetWheelAngle(ctx context.Context, w kinematics.WheelID, deg float64) error {
	if !w.Valid() {
		return fmt.Errorf("invalid wheel %v", w)
	}
	b.lock.Lock()
	b.wheels[w].AngleDeg = geom.Wrap360(deg)
	b.lock.Unlock()
	return nil
}

// SetWheelSpeed implements motion.ActuatorPort.
func (b *Base) SetWheelSpeed(ctx context.Context, w kinematics.WheelID, ratio float64) error {
	if !w.Valid() {
		return fmt.Errorf("invalid wheel %v", w)
	}
	if math.IsNaN(ratio) || ratio < -1 || ratio > 1 {
		return fmt.Errorf("speed %v of %s out of range", ratio, w)
	}
	b.lock.Lock()
	b.wheels[w].Speed = ratio
	b.lock.Unlock()
	return nil
}

// Pose returns the current pose.
func (b *Base) Pose() geom.Pose {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.pose
}

// SetPose places the base.
func (b *Base) SetPose(pose geom.Pose) {
	b.lock.Lock()
	b.pose = pose
	b.changes++
	b.lock.Unlock()
}

// Wheels returns the current wheel commands.
func (b *Base) Wheels() kinematics.WheelSet[motion.WheelCommand] {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.wheels
}

// AddToLoop implements LoopAdder.
func (b *Base) AddToLoop(l *fx.Loop) {
	if b.Interval > 0 {
		l.Interval = b.Interval
	}
	l.AddController(fx.PrLvAcuate, fx.ControlFunc(b.Move))
	l.AddController(fx.PrLvPostProc, fx.ControlFunc(b.NotifyChanges))
}

// Move is a controller advancing the base to the iteration time.
func (b *Base) Move(cc fx.ControlContext) error {
	now := cc.Time()
	b.lock.Lock()
	defer b.lock.Unlock()
	if !b.lastTime.IsZero() {
		b.stepLocked(now.Sub(b.lastTime).Seconds())
	}
	b.lastTime = now
	return nil
}

// Step advances the base by dt seconds.
func (b *Base) Step(dt float64) geom.Pose {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.stepLocked(dt)
	return b.pose
}

// NotifyChanges reports the pose to Sink when it changed.
func (b *Base) NotifyChanges(cc fx.ControlContext) error {
	b.lock.Lock()
	pose, changes := b.pose, b.changes
	b.changes = 0
	b.lock.Unlock()
	if changes > 0 && b.Sink != nil {
		b.Sink.SetPosition(pose)
	}
	return nil
}

func (b *Base) stepLocked(dt float64) {
	if dt <= 0 {
		return
	}
	var vels, offsets kinematics.WheelSet[geom.Point2]
	for _, w := range kinematics.Wheels {
		cmd := b.wheels[w]
		world := b.pose.Heading().AddDegrees(cmd.AngleDeg)
		vels[w] = world.Project(cmd.Speed * b.MaxSpeed)
		offsets[w] = geom.Rotate(b.Chassis.Offset(w), b.pose.HeadingDeg)
	}
	v, omega := Twist(offsets, vels)
	if v.X == 0 && v.Y == 0 && omega == 0 {
		return
	}
	b.pose = b.pose.Moved(v.Mul(dt), geom.Degrees(omega*dt))
	b.changes++
	if glog.V(5) {
		glog.Infof("sim: pose %v", b.pose)
	}
}

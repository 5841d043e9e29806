package motion

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/robotalks/swerve.go/pkg/kinematics"
)

// Bench helpers commanding a single wheel for a while, for checking a
// swerve module without a route.

// TimedSpeed drives the wheel at speed for d, then stops it.
func TimedSpeed(ctx context.Context, port ActuatorPort, clk clock.Clock, w kinematics.WheelID, speed float64, d time.Duration) error {
	timer := clk.Timer(d)
	defer timer.Stop()
	if err := port.SetWheelSpeed(ctx, w, speed); err != nil {
		return &ActuatorError{Wheel: w, Op: OpSpeed, Err: err}
	}
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
	return stopWheel(port, w, ctx.Err())
}

// TimedAngle steers the wheel to deg and gives it d to settle.
func TimedAngle(ctx context.Context, port ActuatorPort, clk clock.Clock, w kinematics.WheelID, deg float64, d time.Duration) error {
	timer := clk.Timer(d)
	defer timer.Stop()
	if err := port.SetWheelAngle(ctx, w, deg); err != nil {
		return &ActuatorError{Wheel: w, Op: OpAngle, Err: err}
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// CurveSpeed drives the wheel following curve scaled by peak over d,
// updating the speed every interval, then stops it.
func CurveSpeed(ctx context.Context, port ActuatorPort, clk clock.Clock, w kinematics.WheelID,
	peak float64, curve kinematics.SpeedCurve, d, interval time.Duration) error {
	ticker := clk.Ticker(interval)
	defer ticker.Stop()
	start := clk.Now()
	for {
		elapsed := clk.Now().Sub(start)
		if elapsed >= d {
			break
		}
		if err := port.SetWheelSpeed(ctx, w, peak*curve(float64(elapsed)/float64(d))); err != nil {
			return &ActuatorError{Wheel: w, Op: OpSpeed, Err: err}
		}
		select {
		case <-ctx.Done():
			return stopWheel(port, w, ctx.Err())
		case <-ticker.C:
		}
	}
	return stopWheel(port, w, nil)
}

func stopWheel(port ActuatorPort, w kinematics.WheelID, cause error) error {
	if err := port.SetWheelSpeed(context.Background(), w, 0); err != nil {
		return &ActuatorError{Wheel: w, Op: OpSpeed, Err: err}
	}
	return cause
}

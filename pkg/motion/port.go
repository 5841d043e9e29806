// Package motion drives a swerve base along a route: it estimates progress
// from the latest pose, and commands the steering angle and speed of each
// wheel at a fixed rate.
package motion

import (
	"context"
	"errors"
	"fmt"

	"github.com/robotalks/swerve.go/pkg/geom"
	"github.com/robotalks/swerve.go/pkg/kinematics"
)

// ErrConfiguration is returned when the controller isn't in a state to
// accept the request.
var ErrConfiguration = errors.New("configuration error")

// ActuatorPort delivers wheel commands to the hardware.
type ActuatorPort interface {
	// SetWheelAngle steers the wheel to deg in the chassis frame.
	SetWheelAngle(ctx context.Context, w kinematics.WheelID, deg float64) error
	// SetWheelSpeed drives the wheel at ratio in [-1, 1] of its full speed.
	SetWheelSpeed(ctx context.Context, w kinematics.WheelID, ratio float64) error
}

// PoseSink accepts poses from localization.
type PoseSink interface {
	SetPosition(geom.Pose)
}

// WheelCommand is what a wheel is told on a tick.
type WheelCommand struct {
	AngleDeg float64 `json:"angle"`
	Speed    float64 `json:"speed"`
}

// Actuator operations.
const (
	OpAngle = "angle"
	OpSpeed = "speed"
)

// ActuatorError is a failed command to a single wheel.
type ActuatorError struct {
	Wheel kinematics.WheelID
	Op    string
	Err   error
}

func (e *ActuatorError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Wheel, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *ActuatorError) Unwrap() error {
	return e.Err
}

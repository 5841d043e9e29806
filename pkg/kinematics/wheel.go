// Package kinematics computes per-wheel steering angles and speeds for a
// four-wheel swerve chassis following a path.
package kinematics

import (
	"fmt"

	"github.com/robotalks/swerve.go/pkg/geom"
)

// WheelID identifies one of the four swerve modules.
type WheelID int

// Wheels, in the order used by WheelSet.
const (
	FrontLeft WheelID = iota
	FrontRight
	BackLeft
	BackRight

	NumWheels = 4
)

// Wheels lists all wheels.
var Wheels = [NumWheels]WheelID{FrontLeft, FrontRight, BackLeft, BackRight}

var wheelNames = [NumWheels]string{"front-left", "front-right", "back-left", "back-right"}

func (w WheelID) String() string {
	if w.Valid() {
		return wheelNames[w]
	}
	return fmt.Sprintf("wheel(%d)", int(w))
}

// Valid tells whether w is a known wheel.
func (w WheelID) Valid() bool {
	return w >= 0 && w < NumWheels
}

// SteerMotor is the motor number steering the wheel on the motor bus.
func (w WheelID) SteerMotor() int {
	return int(w)*2 + 1
}

// DriveMotor is the motor number driving the wheel on the motor bus.
func (w WheelID) DriveMotor() int {
	return int(w)*2 + 2
}

// ParseWheel accepts a wheel name or either of its motor numbers.
func ParseWheel(s string) (WheelID, error) {
	for _, w := range Wheels {
		if s == w.String() || s == fmt.Sprint(w.SteerMotor()) || s == fmt.Sprint(w.DriveMotor()) {
			return w, nil
		}
	}
	return 0, fmt.Errorf("unknown wheel %q", s)
}

// WheelSet holds one value per wheel.
type WheelSet[T any] [NumWheels]T

// Chassis describes the wheel base. Wheels sit at the corners of a
// Width x Height rectangle centered on the rotation center, with y
// growing toward the back.
type Chassis struct {
	Width  float64
	Height float64
}

// Offset is the position of the wheel relative to the chassis center.
func (c Chassis) Offset(w WheelID) geom.Point2 {
	x, y := c.Width/2, c.Height/2
	switch w {
	case FrontLeft:
		return geom.Pt(-x, -y)
	case FrontRight:
		return geom.Pt(x, -y)
	case BackLeft:
		return geom.Pt(-x, y)
	default:
		return geom.Pt(x, y)
	}
}

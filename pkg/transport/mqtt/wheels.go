package mqtt

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"
	"github.com/golang/protobuf/ptypes/wrappers"

	"github.com/robotalks/swerve.go/pkg/kinematics"
	"github.com/robotalks/swerve.go/pkg/motion"
)

// Publisher publishes a payload and waits for the delivery.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// WheelTopic is the topic of a motor command, e.g. "bot/wheel/3/angle"
// steers the front-right wheel of bot.
func WheelTopic(robot string, motor int, op string) string {
	return fmt.Sprintf("%s/wheel/%d/%s", robot, motor, op)
}

// ParseWheelTopic extracts the wheel and operation from a topic relative
// to the robot.
func ParseWheelTopic(topic string) (w kinematics.WheelID, op string, err error) {
	parts := strings.Split(topic, "/")
	if len(parts) < 3 || parts[len(parts)-3] != "wheel" {
		return 0, "", fmt.Errorf("not a wheel topic %q", topic)
	}
	motor, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil {
		return 0, "", fmt.Errorf("invalid motor in %q", topic)
	}
	op = parts[len(parts)-1]
	for _, w = range kinematics.Wheels {
		if (op == motion.OpAngle && motor == w.SteerMotor()) ||
			(op == motion.OpSpeed && motor == w.DriveMotor()) {
			return w, op, nil
		}
	}
	return 0, "", fmt.Errorf("unknown motor %d for %s", motor, op)
}

// EncodeValue encodes a motor command value.
func EncodeValue(v float64) ([]byte, error) {
	return proto.Marshal(&wrappers.DoubleValue{Value: v})
}

// DecodeValue decodes a motor command value.
func DecodeValue(payload []byte) (float64, error) {
	var msg wrappers.DoubleValue
	if err := proto.Unmarshal(payload, &msg); err != nil {
		return 0, err
	}
	return msg.Value, nil
}

// Actuator implements motion.ActuatorPort by publishing motor commands.
type Actuator struct {
	Pub   Publisher
	Robot string
}

// NewActuator creates an Actuator.
func NewActuator(pub Publisher, robot string) *Actuator {
	return &Actuator{Pub: pub, Robot: robot}
}

// SetWheelAngle implements motion.ActuatorPort.
func (a *Actuator) SetWheelAngle(ctx context.Context, w kinematics.WheelID, deg float64) error {
	return a.send(ctx, WheelTopic(a.Robot, w.SteerMotor(), motion.OpAngle), deg)
}

// SetWheelSpeed implements motion.ActuatorPort.
func (a *Actuator) SetWheelSpeed(ctx context.Context, w kinematics.WheelID, ratio float64) error {
	return a.send(ctx, WheelTopic(a.Robot, w.DriveMotor(), motion.OpSpeed), ratio)
}

func (a *Actuator) send(ctx context.Context, topic string, v float64) error {
	payload, err := EncodeValue(v)
	if err != nil {
		return err
	}
	return a.Pub.Publish(ctx, topic, payload)
}

// WheelHandler decodes motor commands and forwards them to port. It's the
// receiving end of Actuator.
func WheelHandler(port motion.ActuatorPort) Handler {
	return func(topic string, payload []byte) {
		w, op, err := ParseWheelTopic(topic)
		if err != nil {
			glog.Warningf("drop message: %v", err)
			return
		}
		v, err := DecodeValue(payload)
		if err != nil {
			glog.Warningf("drop message %q: %v", topic, err)
			return
		}
		ctx := context.Background()
		if op == motion.OpAngle {
			err = port.SetWheelAngle(ctx, w, v)
		} else {
			err = port.SetWheelSpeed(ctx, w, v)
		}
		if err != nil {
			glog.Errorf("%s: %v", topic, err)
		}
	}
}

// ServeWheels subscribes motor commands of robot and applies them to port.
func ServeWheels(q *Queue, robot string, port motion.ActuatorPort) *Subscription {
	return q.Sub(robot+"/wheel/+/+", WheelHandler(port))
}

package mqtt

import (
	"context"
	"fmt"

	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"
	structpb "github.com/golang/protobuf/ptypes/struct"

	"github.com/robotalks/swerve.go/pkg/geom"
	"github.com/robotalks/swerve.go/pkg/motion"
)

// PoseTopic is where poses of robot are published.
func PoseTopic(robot string) string {
	return robot + "/pose"
}

// EncodePose encodes pose as a Struct with fields x, y and heading.
func EncodePose(pose geom.Pose) ([]byte, error) {
	return proto.Marshal(&structpb.Struct{
		Fields: map[string]*structpb.Value{
			"x":       numberValue(pose.X),
			"y":       numberValue(pose.Y),
			"heading": numberValue(pose.HeadingDeg),
		},
	})
}

// DecodePose decodes a pose encoded by EncodePose.
func DecodePose(payload []byte) (pose geom.Pose, err error) {
	var msg structpb.Struct
	if err = proto.Unmarshal(payload, &msg); err != nil {
		return
	}
	fields := []struct {
		name string
		val  *float64
	}{
		{"x", &pose.X},
		{"y", &pose.Y},
		{"heading", &pose.HeadingDeg},
	}
	for _, f := range fields {
		v, ok := msg.Fields[f.name].GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return pose, fmt.Errorf("pose field %q missing", f.name)
		}
		*f.val = v.NumberValue
	}
	return
}

// PoseHandler decodes poses and forwards them to sink.
func PoseHandler(sink motion.PoseSink) Handler {
	return func(topic string, payload []byte) {
		pose, err := DecodePose(payload)
		if err != nil {
			glog.Warningf("drop pose on %q: %v", topic, err)
			return
		}
		sink.SetPosition(pose)
	}
}

// SubscribePose feeds poses of robot into sink.
func SubscribePose(q *Queue, robot string, sink motion.PoseSink) *Subscription {
	return q.Sub(PoseTopic(robot), PoseHandler(sink))
}

// PosePublisher implements motion.PoseSink by publishing poses.
type PosePublisher struct {
	Pub   Publisher
	Robot string
}

// SetPosition implements motion.PoseSink.
func (p *PosePublisher) SetPosition(pose geom.Pose) {
	payload, err := EncodePose(pose)
	if err == nil {
		err = p.Pub.Publish(context.Background(), PoseTopic(p.Robot), payload)
	}
	if err != nil {
		glog.Errorf("publish pose: %v", err)
	}
}

func numberValue(v float64) *structpb.Value {
	return &structpb.Value{Kind: &structpb.Value_NumberValue{NumberValue: v}}
}

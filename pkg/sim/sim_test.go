package sim

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/swerve.go/pkg/framework"
	"github.com/robotalks/swerve.go/pkg/geom"
	"github.com/robotalks/swerve.go/pkg/kinematics"
	"github.com/robotalks/swerve.go/pkg/motion"
	"github.com/robotalks/swerve.go/pkg/path"
)

var testChassis = kinematics.Chassis{Width: 120, Height: 120}

func setAll(t *testing.T, b *Base, angle, speed float64) {
	for _, w := range kinematics.Wheels {
		require.NoError(t, b.SetWheelAngle(context.Background(), w, angle))
		require.NoError(t, b.SetWheelSpeed(context.Background(), w, speed))
	}
}

func TestStep(t *testing.T) {
	testCases := []struct {
		name    string
		heading float64
		angle   float64
		speed   float64
		expect  geom.Pose
	}{
		{name: "forward", angle: 0, speed: 1, expect: geom.Pose{X: 100}},
		{name: "reverse", angle: 0, speed: -0.5, expect: geom.Pose{X: -50}},
		{name: "sideways", angle: 90, speed: 1, expect: geom.Pose{Y: 100}},
		{name: "rotated chassis", heading: 90, angle: 270, speed: 1, expect: geom.Pose{X: 100, HeadingDeg: 90}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBase(testChassis)
			b.SetPose(geom.Pose{HeadingDeg: tc.heading})
			setAll(t, b, tc.angle, tc.speed)
			pose := b.Step(1)
			require.InDelta(t, tc.expect.X, pose.X, 1e-9)
			require.InDelta(t, tc.expect.Y, pose.Y, 1e-9)
			require.InDelta(t, tc.expect.HeadingDeg, pose.HeadingDeg, 1e-9)
		})
	}
}

func TestStepSpinsInPlace(t *testing.T) {
	b := NewBase(testChassis)
	for _, w := range kinematics.Wheels {
		off := testChassis.Offset(w)
		angle := geom.Degrees(math.Atan2(off.Y, off.X)) + 90
		require.NoError(t, b.SetWheelAngle(context.Background(), w, angle))
		require.NoError(t, b.SetWheelSpeed(context.Background(), w, 0.5))
	}
	pose := b.Step(0.01)
	require.InDelta(t, 0, pose.X, 1e-9)
	require.InDelta(t, 0, pose.Y, 1e-9)
	radius := 60 * math.Sqrt2
	require.InDelta(t, geom.Degrees(50*0.01/radius), pose.HeadingDeg, 1e-9)
}

func TestInvalidCommands(t *testing.T) {
	b := NewBase(testChassis)
	require.Error(t, b.SetWheelSpeed(context.Background(), kinematics.FrontLeft, 1.5))
	require.Error(t, b.SetWheelSpeed(context.Background(), kinematics.FrontLeft, math.NaN()))
	require.Error(t, b.SetWheelAngle(context.Background(), kinematics.WheelID(9), 0))
	require.NoError(t, b.SetWheelAngle(context.Background(), kinematics.FrontLeft, -90))
	require.Equal(t, 270.0, b.Wheels()[kinematics.FrontLeft].AngleDeg)
}

type poseRecorder struct {
	poses chan geom.Pose
}

func (r *poseRecorder) SetPosition(p geom.Pose) {
	select {
	case r.poses <- p:
	default:
	}
}

func TestBaseInLoop(t *testing.T) {
	mock := clock.NewMock()
	rec := &poseRecorder{poses: make(chan geom.Pose, 1)}
	b := NewConfig().NewBase(testChassis)
	b.Sink = rec
	setAll(t, b, 0, 1)
	l := fx.NewLoop().Add(b)
	l.Clock = mock
	require.Equal(t, DefaultInterval, l.Interval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	require.Eventually(t, func() bool {
		mock.Add(l.Interval)
		return b.Pose().X > 0
	}, time.Second, time.Millisecond)
	select {
	case <-rec.poses:
	case <-time.After(time.Second):
		t.Fatal("pose not reported")
	}
}

func TestFollowRouteInSimulation(t *testing.T) {
	line, err := path.NewLine(geom.Pt(0, 0), geom.Pt(100, 0), 1)
	require.NoError(t, err)
	arc, err := path.NewArc(geom.Pt(150, 0), 50, math.Pi, 0, 1)
	require.NoError(t, err)

	mock := clock.NewMock()
	b := NewConfig().NewBase(testChassis)
	ctl := motion.NewConfig().NewController(b)
	ctl.Clock = mock
	b.Sink = ctl

	l := fx.NewLoop().Add(b)
	l.Clock = mock
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	require.NoError(t, ctl.SetRoute(path.Route{line, arc}, 0, 0))
	require.NoError(t, ctl.Start(0.1))
	require.Eventually(t, func() bool {
		mock.Add(l.Interval)
		return !ctl.Status().Active
	}, 20*time.Second, time.Millisecond)

	status := ctl.Status()
	require.Equal(t, 2, status.SegmentIndex)
	pose := b.Pose()
	require.InDelta(t, 200, pose.X, 10)
	require.InDelta(t, 0, pose.Y, 10)
	require.InDelta(t, 0, geom.CircularDistance(pose.HeadingDeg, 0), 1e-6)
	for _, cmd := range b.Wheels() {
		require.Equal(t, 0.0, cmd.Speed)
	}
}

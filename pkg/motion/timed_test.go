package motion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/swerve.go/pkg/kinematics"
)

func TestTimedSpeed(t *testing.T) {
	port := &fakePort{}
	mock := clock.NewMock()
	errCh := make(chan error, 1)
	go func() {
		errCh <- TimedSpeed(context.Background(), port, mock, kinematics.BackLeft, 0.7, time.Second)
	}()
	require.Eventually(t, func() bool {
		return len(port.Calls(OpSpeed)) == 1
	}, time.Second, time.Millisecond)
	mock.Add(time.Second)
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("timeout")
	}
	require.Equal(t, []portCall{
		{op: OpSpeed, wheel: kinematics.BackLeft, value: 0.7},
		{op: OpSpeed, wheel: kinematics.BackLeft, value: 0},
	}, port.Calls(OpSpeed))
}

func TestTimedSpeedCanceled(t *testing.T) {
	port := &fakePort{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := TimedSpeed(ctx, port, clock.NewMock(), kinematics.FrontLeft, 1, time.Hour)
	require.True(t, errors.Is(err, context.Canceled))
	require.Equal(t, 0.0, port.lastSpeeds()[kinematics.FrontLeft])
}

func TestTimedAngleError(t *testing.T) {
	port := &fakePort{fail: map[kinematics.WheelID]error{kinematics.FrontRight: errors.New("stalled")}}
	err := TimedAngle(context.Background(), port, clock.NewMock(), kinematics.FrontRight, 45, time.Second)
	var actErr *ActuatorError
	require.True(t, errors.As(err, &actErr))
	require.Equal(t, kinematics.FrontRight, actErr.Wheel)
	require.Equal(t, OpAngle, actErr.Op)
	require.Equal(t, "front-right angle: stalled", err.Error())
}

func TestCurveSpeed(t *testing.T) {
	port := &fakePort{}
	mock := clock.NewMock()
	errCh := make(chan error, 1)
	go func() {
		errCh <- CurveSpeed(context.Background(), port, mock, kinematics.BackRight,
			0.8, kinematics.Trapezoidal, time.Second, 100*time.Millisecond)
	}()
	var err error
	require.Eventually(t, func() bool {
		if len(port.Calls(OpSpeed)) == 0 {
			return false
		}
		select {
		case err = <-errCh:
			return true
		default:
			mock.Add(100 * time.Millisecond)
			return false
		}
	}, 5*time.Second, time.Millisecond)
	require.NoError(t, err)

	speeds := port.Calls(OpSpeed)
	require.Equal(t, 0.0, speeds[0].value)
	require.Equal(t, 0.0, speeds[len(speeds)-1].value)
	peak := 0.0
	for _, call := range speeds {
		require.Equal(t, kinematics.BackRight, call.wheel)
		require.LessOrEqual(t, call.value, 0.8+1e-9)
		if call.value > peak {
			peak = call.value
		}
	}
	require.InDelta(t, 0.8, peak, 1e-9)
}

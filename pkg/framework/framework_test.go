package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
)

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Add(nil, nil).Aggregate())
	errA := errors.New("a")
	errs.Add(errA)
	require.Equal(t, "a", errs.Aggregate().Error())
	errs.Add(nil, errors.New("b"))
	err := errs.Aggregate()
	require.Error(t, err)
	require.Equal(t, 2, errs.Len())
	require.Equal(t, "2 errors: a; b", err.Error())
	require.ErrorIs(t, err, errA)
}

func TestLoopRunsByPriority(t *testing.T) {
	mock := clock.NewMock()
	l := NewLoop()
	l.Clock = mock
	var order []int
	iterCh := make(chan time.Time, 1)
	l.AddController(PrLvPostProc, ControlFunc(func(cc ControlContext) error {
		order = append(order, cc.PriorityLevel())
		select {
		case iterCh <- cc.Time():
		default:
		}
		return nil
	}))
	l.AddController(PrLvSense, ControlFunc(func(cc ControlContext) error {
		order = append(order, cc.PriorityLevel())
		cc.PostRun(ControlFunc(func(cc ControlContext) error {
			order = append(order, -1)
			return nil
		}))
		return errors.New("ignored")
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	var at time.Time
	require.Eventually(t, func() bool {
		mock.Add(DefaultInterval)
		select {
		case at = <-iterCh:
			return true
		default:
			return false
		}
	}, time.Second, time.Millisecond)
	cancel()
	require.True(t, errors.Is(<-done, context.Canceled))
	require.Equal(t, []int{PrLvSense, -1, PrLvPostProc}, order[:3])
	require.False(t, at.IsZero())
}

func TestLoopTriggerNext(t *testing.T) {
	l := NewLoop()
	l.Clock = clock.NewMock()
	iterCh := make(chan struct{}, 1)
	l.AddController(PrLvControl, ControlFunc(func(cc ControlContext) error {
		iterCh <- struct{}{}
		return nil
	}))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)
	l.TriggerNext()
	select {
	case <-iterCh:
	case <-time.After(time.Second):
		t.Fatal("iteration not triggered")
	}
}

func TestRunner(t *testing.T) {
	r := NewRunner()
	r.Go(
		NamedRun("canceled", RunFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})),
		RunFunc(func(ctx context.Context) error {
			return errors.New("failed")
		}),
	)
	r.Cancel()
	err := r.Wait()
	require.Error(t, err)
	require.Equal(t, "failed", err.Error())
}

type closer struct {
	closed chan struct{}
}

func (c *closer) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}
	return nil
}

func TestRunWithContextCloser(t *testing.T) {
	c := &closer{closed: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RunWithContextCloser(ctx, c, func() error {
		<-c.closed
		return errors.New("closed")
	})
	require.True(t, errors.Is(err, context.Canceled))

	c = &closer{closed: make(chan struct{})}
	err = RunWithContextCloser(context.Background(), c, func() error { return nil })
	require.NoError(t, err)
	<-c.closed
}

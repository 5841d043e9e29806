package motion

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/glog"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/atomic"

	fx "github.com/robotalks/swerve.go/pkg/framework"
	"github.com/robotalks/swerve.go/pkg/geom"
	"github.com/robotalks/swerve.go/pkg/kinematics"
	"github.com/robotalks/swerve.go/pkg/path"
)

// State of the Controller.
type State int

// States
const (
	Idle State = iota
	Following
)

func (s State) String() string {
	if s == Following {
		return "following"
	}
	return "idle"
}

// Status is a snapshot of the Controller.
type Status struct {
	Active            bool                              `json:"active"`
	SegmentIndex      int                               `json:"segment_index"`
	Progress          float64                           `json:"progress"`
	SegmentCount      int                               `json:"segment_count"`
	InitialHeadingDeg float64                           `json:"initial_heading"`
	FinalHeadingDeg   float64                           `json:"final_heading"`
	Pose              geom.Pose                         `json:"pose"`
	SegmentKinds      []string                          `json:"segment_kinds,omitempty"`
	Commands          kinematics.WheelSet[WheelCommand] `json:"commands"`
	Ticks             uint64                            `json:"ticks"`
	DispatchErrors    uint64                            `json:"dispatch_errors"`
}

// Controller follows a route by commanding the wheels through an
// ActuatorPort once per tick.
type Controller struct {
	Port ActuatorPort
	// Clock drives the ticks, the wall clock if nil.
	Clock clock.Clock

	config Config

	pose           atomic.Pointer[geom.Pose]
	ticks          atomic.Uint64
	dispatchErrors atomic.Uint64

	lock           sync.Mutex
	state          State
	route          path.Route
	profile        *kinematics.Profile
	initialHeading float64
	finalHeading   float64
	index          int
	progress       float64
	baseSpeed      float64
	// steering of each wheel as a world bearing.
	angles   kinematics.WheelSet[float64]
	commands kinematics.WheelSet[WheelCommand]
	stopCh   chan struct{}
	done     chan struct{}
}

// NewController creates a Controller with the default config.
func NewController(port ActuatorPort) *Controller {
	return NewConfig().NewController(port)
}

// Config returns the config of the controller.
func (c *Controller) Config() Config {
	return c.config
}

// SetRoute replaces the route and rewinds to its first segment. Following
// state is not changed.
func (c *Controller) SetRoute(segs path.Route, initialHeadingDeg, finalHeadingDeg float64) error {
	if len(segs) == 0 {
		return pkgerrors.Wrap(ErrConfiguration, "empty route")
	}
	route, err := path.NewRoute(segs...)
	if err != nil {
		return err
	}
	profile, err := kinematics.NewProfile(route, c.config.Chassis, initialHeadingDeg, finalHeadingDeg)
	if err != nil {
		return err
	}
	c.lock.Lock()
	c.route, c.profile = route, profile
	c.initialHeading, c.finalHeading = initialHeadingDeg, finalHeadingDeg
	c.index, c.progress = 0, 0
	c.lock.Unlock()
	glog.Infof("route set: %d segments, heading %v° -> %v°", len(route), initialHeadingDeg, finalHeadingDeg)
	return nil
}

// Start seats the wheels for the current segment and starts following.
// A finished route is followed again from its first segment.
func (c *Controller) Start(baseSpeed float64) error {
	c.lock.Lock()
	if len(c.route) == 0 {
		c.lock.Unlock()
		return pkgerrors.Wrap(ErrConfiguration, "no route")
	}
	if c.state == Following {
		c.lock.Unlock()
		return pkgerrors.Wrap(ErrConfiguration, "already following")
	}
	// a loop which didn't stop in time still owns the wheels until it
	// has dispatched the zero speeds.
	if c.done != nil {
		select {
		case <-c.done:
		default:
			c.lock.Unlock()
			return pkgerrors.Wrap(ErrConfiguration, "previous run still stopping")
		}
	}
	if c.index >= len(c.route) {
		c.index, c.progress = 0, 0
	}
	c.state, c.baseSpeed = Following, baseSpeed
	stopCh, done := make(chan struct{}), make(chan struct{})
	c.stopCh, c.done = stopCh, done
	cmds := c.seatLocked(kinematics.StartTangent(c.route[c.index]), c.Pose().HeadingDeg)
	ticker := c.clock().Ticker(c.config.Period())
	index := c.index
	c.lock.Unlock()

	glog.Infof("start following from segment %d at speed %v", index, baseSpeed)
	c.dispatch(cmds, false)
	go c.run(ticker, stopCh, done)
	return nil
}

// Stop stops following and waits for the wheels to be stopped. It's a
// no-op when not following.
func (c *Controller) Stop() {
	c.lock.Lock()
	stopCh, done := c.stopCh, c.done
	c.stopCh = nil
	c.lock.Unlock()
	if stopCh == nil {
		return
	}
	close(stopCh)

	timeout := c.config.JoinTimeout()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		glog.Warningf("control loop didn't stop in %v", timeout)
		c.lock.Lock()
		if c.done == done {
			c.state = Idle
		}
		c.lock.Unlock()
	}
}

// Wait blocks until the control loop exits, either because the route is
// finished or Stop was called. It returns immediately when not following.
func (c *Controller) Wait(ctx context.Context) error {
	c.lock.Lock()
	done, following := c.done, c.state == Following
	c.lock.Unlock()
	if !following || done == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// SetPosition implements PoseSink.
func (c *Controller) SetPosition(pose geom.Pose) {
	c.pose.Store(&pose)
}

// Pose returns the latest pose.
func (c *Controller) Pose() geom.Pose {
	if p := c.pose.Load(); p != nil {
		return *p
	}
	return geom.Pose{}
}

// Status returns a snapshot of the controller.
func (c *Controller) Status() Status {
	c.lock.Lock()
	defer c.lock.Unlock()
	s := Status{
		Active:            c.state == Following,
		SegmentIndex:      c.index,
		Progress:          c.progress,
		SegmentCount:      len(c.route),
		InitialHeadingDeg: c.initialHeading,
		FinalHeadingDeg:   c.finalHeading,
		Pose:              c.Pose(),
		Commands:          c.commands,
		Ticks:             c.ticks.Load(),
		DispatchErrors:    c.dispatchErrors.Load(),
	}
	if len(c.route) > 0 {
		s.SegmentKinds = c.route.Kinds()
	}
	return s
}

func (c *Controller) clock() clock.Clock {
	if c.Clock != nil {
		return c.Clock
	}
	return clock.New()
}

func (c *Controller) run(ticker *clock.Ticker, stopCh, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()
	for {
		select {
		case <-stopCh:
			c.halt(done)
			return
		case <-ticker.C:
			if !c.tick() {
				c.halt(done)
				return
			}
		}
	}
}

// tick runs one control iteration, and returns false when the loop
// should stop.
func (c *Controller) tick() bool {
	c.ticks.Inc()
	pose := c.Pose()

	c.lock.Lock()
	if c.state != Following || c.index >= len(c.route) {
		c.lock.Unlock()
		return false
	}
	seg := c.route[c.index]
	progress := seg.Progress(pose.Point())
	if seg.Complete(progress) {
		c.index++
		c.progress = 0
		if c.index >= len(c.route) {
			c.lock.Unlock()
			glog.Infof("route complete")
			return false
		}
		glog.Infof("segment %d/%d complete", c.index, len(c.route))
		cmds := c.seatLocked(kinematics.StartTangent(c.route[c.index]), pose.HeadingDeg)
		c.lock.Unlock()
		c.dispatch(cmds, false)
		return true
	}
	c.progress = progress

	tangent := kinematics.Tangent(seg, pose.Point())
	overall := kinematics.OverallProgress(c.index, len(c.route), progress)
	base := c.baseSpeed * seg.Velocity()
	speeds := c.profile.SpeedsAt(overall, base)
	for _, w := range kinematics.Wheels {
		angle, reversed := kinematics.ResolveAngle(c.angles[w], tangent)
		c.angles[w] = angle
		if reversed {
			speeds[w] = -speeds[w]
		}
	}
	bound := math.Min(math.Abs(base), c.speedLimit())
	speeds = kinematics.Normalize(speeds, -bound, bound)
	for _, w := range kinematics.Wheels {
		c.commands[w] = WheelCommand{
			AngleDeg: c.chassisAngle(c.angles[w], pose.HeadingDeg),
			Speed:    speeds[w],
		}
	}
	cmds := c.commands
	index := c.index
	c.lock.Unlock()

	if glog.V(4) {
		glog.Infof("tick: pose %v segment %d progress %.3f tangent %.1f", pose, index, progress, tangent)
	}
	c.dispatch(cmds, true)
	return true
}

// seatLocked steers all wheels along tangent without driving them.
func (c *Controller) seatLocked(tangent, headingDeg float64) kinematics.WheelSet[WheelCommand] {
	for _, w := range kinematics.Wheels {
		c.angles[w] = tangent
		c.commands[w].AngleDeg = c.chassisAngle(tangent, headingDeg)
	}
	return c.commands
}

// halt stops all wheels and goes idle.
func (c *Controller) halt(done chan struct{}) {
	var errs fx.AggregatedError
	ctx, cancel := context.WithTimeout(context.Background(), c.config.Period())
	for _, w := range kinematics.Wheels {
		if err := c.Port.SetWheelSpeed(ctx, w, 0); err != nil {
			errs.Add(&ActuatorError{Wheel: w, Op: OpSpeed, Err: err})
		}
	}
	cancel()
	c.reportErrors(&errs)

	c.lock.Lock()
	if c.done == done {
		c.state = Idle
		c.stopCh = nil
		for _, w := range kinematics.Wheels {
			c.commands[w].Speed = 0
		}
	}
	c.lock.Unlock()
	glog.Info("stopped following")
}

// dispatch sends the commands to all wheels. A failed wheel doesn't
// prevent the others from being commanded.
func (c *Controller) dispatch(cmds kinematics.WheelSet[WheelCommand], withSpeed bool) {
	var errs fx.AggregatedError
	ctx, cancel := context.WithTimeout(context.Background(), c.config.Period())
	defer cancel()
	for _, w := range kinematics.Wheels {
		if err := c.Port.SetWheelAngle(ctx, w, cmds[w].AngleDeg); err != nil {
			errs.Add(&ActuatorError{Wheel: w, Op: OpAngle, Err: err})
		}
		if !withSpeed {
			continue
		}
		if err := c.Port.SetWheelSpeed(ctx, w, cmds[w].Speed); err != nil {
			errs.Add(&ActuatorError{Wheel: w, Op: OpSpeed, Err: err})
		}
	}
	c.reportErrors(&errs)
}

func (c *Controller) reportErrors(errs *fx.AggregatedError) {
	if err := errs.Aggregate(); err != nil {
		c.dispatchErrors.Add(uint64(errs.Len()))
		glog.Errorf("dispatch error: %v", err)
	}
}

func (c *Controller) chassisAngle(world, headingDeg float64) float64 {
	if !c.config.HeadingFeedback {
		return geom.Wrap360(world)
	}
	return kinematics.ChassisAngle(world, headingDeg)
}

func (c *Controller) speedLimit() float64 {
	if c.config.SpeedLimit <= 0 {
		return 1
	}
	return c.config.SpeedLimit
}

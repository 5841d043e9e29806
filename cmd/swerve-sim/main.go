package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/swerve.go/pkg/env"
	fx "github.com/robotalks/swerve.go/pkg/framework"
	"github.com/robotalks/swerve.go/pkg/geom"
	"github.com/robotalks/swerve.go/pkg/motion"
	"github.com/robotalks/swerve.go/pkg/path"
	"github.com/robotalks/swerve.go/pkg/sim"
	"github.com/robotalks/swerve.go/pkg/transport/mqtt"
)

var (
	routeFile      = flag.String("route", "", "Route file (JSON)")
	baseSpeed      = flag.Float64("speed", 0.5, "Base speed ratio")
	initialHeading = flag.Float64("initial-heading", 0, "Heading at the start of the route (degrees)")
	finalHeading   = flag.Float64("final-heading", 0, "Heading at the end of the route (degrees)")
	serveMQTT      = flag.Bool("serve-mqtt", false, "Also serve wheel commands and publish poses over MQTT")
)

func init() {
	env.SetupFlags()
	motion.SetupFlags()
	sim.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	route, err := path.LoadRoute(*routeFile)
	if err != nil {
		log.Fatalln(err)
	}

	runner := fx.NewRunner().HandleSignals()
	ctx := runner.Context

	conf := motion.NewConfig()
	base := sim.NewConfig().NewBase(conf.Chassis)
	ctl := conf.NewController(base)
	start := route[0].PointAt(0)
	base.SetPose(geom.Pose{X: start.X, Y: start.Y, HeadingDeg: *initialHeading})
	sinks := poseSinks{ctl}

	if *serveMQTT {
		e := env.NewConfig().MustConnect(ctx, "sim")
		defer e.Close()
		sub := mqtt.ServeWheels(e.Queue, e.Robot, base)
		defer sub.Close()
		sinks = append(sinks, &mqtt.PosePublisher{Pub: e.Queue, Robot: e.Robot})
	}
	base.Sink = sinks
	ctl.SetPosition(base.Pose())

	if err := ctl.SetRoute(route, *initialHeading, *finalHeading); err != nil {
		log.Fatalln(err)
	}
	if err := ctl.Start(*baseSpeed); err != nil {
		log.Fatalln(err)
	}

	loop := fx.NewLoop().Add(base)
	runner.Go(loop, fx.RunFunc(func(ctx context.Context) error {
		defer runner.Cancel()
		return followRoute(ctx, ctl)
	}))
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}

	status := ctl.Status()
	json.NewEncoder(os.Stdout).Encode(&status)
}

type poseSinks []motion.PoseSink

func (s poseSinks) SetPosition(pose geom.Pose) {
	for _, sink := range s {
		sink.SetPosition(pose)
	}
}

func followRoute(ctx context.Context, ctl *motion.Controller) error {
	err := ctl.Wait(ctx)
	ctl.Stop()
	status := ctl.Status()
	glog.Infof("route stopped at segment %d/%d pose %s", status.SegmentIndex, status.SegmentCount, status.Pose)
	return err
}

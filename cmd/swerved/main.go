package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"log"
	"net"
	"net/http"

	"github.com/golang/glog"

	"github.com/robotalks/swerve.go/pkg/env"
	fx "github.com/robotalks/swerve.go/pkg/framework"
	"github.com/robotalks/swerve.go/pkg/motion"
	"github.com/robotalks/swerve.go/pkg/path"
	"github.com/robotalks/swerve.go/pkg/transport/mqtt"
	"github.com/robotalks/swerve.go/pkg/transport/websocket"
)

var (
	routeFile      = flag.String("route", "", "Route file (JSON)")
	baseSpeed      = flag.Float64("speed", 0.5, "Base speed ratio")
	initialHeading = flag.Float64("initial-heading", 0, "Heading at the start of the route (degrees)")
	finalHeading   = flag.Float64("final-heading", 0, "Heading at the end of the route (degrees)")
	wsAddr         = flag.String("ws", "", "Serve the websocket pose feed on this address, e.g. :8080")
)

func init() {
	env.SetupFlags()
	motion.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	route, err := path.LoadRoute(*routeFile)
	if err != nil {
		log.Fatalln(err)
	}

	runner := fx.NewRunner().HandleSignals()
	e := env.Default().MustConnect(runner.Context, "ctl")
	defer e.Close()

	ctl := motion.Default().NewController(mqtt.NewActuator(e.Queue, e.Robot))
	sub := mqtt.SubscribePose(e.Queue, e.Robot, ctl)
	defer sub.Close()

	if *wsAddr != "" {
		ln, err := net.Listen("tcp", *wsAddr)
		if err != nil {
			log.Fatalln(err)
		}
		feed := &websocket.PoseFeed{Sink: ctl, Status: ctl}
		mux := http.NewServeMux()
		mux.Handle("/pose", feed.Handler())
		server := &http.Server{Handler: mux}
		glog.Infof("websocket pose feed on ws://%s/pose", ln.Addr())
		runner.Go(fx.NamedRun("websocket", fx.RunFunc(func(ctx context.Context) error {
			return fx.RunWithContextCloser(ctx, server, func() error {
				if err := server.Serve(ln); err != http.ErrServerClosed {
					return err
				}
				return nil
			})
		})))
	}

	if err := ctl.SetRoute(route, *initialHeading, *finalHeading); err != nil {
		log.Fatalln(err)
	}
	if err := ctl.Start(*baseSpeed); err != nil {
		log.Fatalln(err)
	}
	runner.Go(fx.NamedRun("controller", fx.RunFunc(func(ctx context.Context) error {
		defer runner.Cancel()
		err := ctl.Wait(ctx)
		ctl.Stop()
		status := ctl.Status()
		glog.Infof("route stopped at segment %d/%d, %d dispatch errors",
			status.SegmentIndex, status.SegmentCount, status.DispatchErrors)
		return err
	})))
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}

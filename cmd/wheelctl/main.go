package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/glog"

	"github.com/robotalks/swerve.go/pkg/env"
	fx "github.com/robotalks/swerve.go/pkg/framework"
	"github.com/robotalks/swerve.go/pkg/kinematics"
	"github.com/robotalks/swerve.go/pkg/motion"
	"github.com/robotalks/swerve.go/pkg/transport/mqtt"
)

var (
	wheelName = flag.String("wheel", "front-left", "Wheel to command")
	speed     = flag.Float64("speed", 0, "Speed ratio, or the peak with -curve")
	angle     = flag.Float64("angle", -1, "Steer the wheel to this angle (degrees) instead of driving it")
	duration  = flag.Duration("duration", time.Second, "How long to command the wheel")
	curveName = flag.String("curve", "", "Speed curve: "+strings.Join(kinematics.CurveNames(), ", "))
	interval  = flag.Duration("interval", 50*time.Millisecond, "Speed update interval with -curve")
)

func init() {
	env.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	w, err := kinematics.ParseWheel(*wheelName)
	if err != nil {
		log.Fatalln(err)
	}

	runner := fx.NewRunner().HandleSignals()
	ctx := runner.Context
	e := env.Default().MustConnect(ctx, "wheelctl")
	defer e.Close()

	port := mqtt.NewActuator(e.Queue, e.Robot)
	clk := clock.New()
	switch {
	case *angle >= 0:
		err = motion.TimedAngle(ctx, port, clk, w, *angle, *duration)
	case *curveName != "":
		curve, cerr := kinematics.CurveByName(*curveName)
		if cerr != nil {
			log.Fatalln(cerr)
		}
		err = motion.CurveSpeed(ctx, port, clk, w, *speed, curve, *duration, *interval)
	default:
		err = motion.TimedSpeed(ctx, port, clk, w, *speed, *duration)
	}
	if err != nil {
		log.Fatalln(err)
	}
	fmt.Printf("%s done\n", w)
}

package motion

import (
	"flag"
	"time"

	"github.com/robotalks/swerve.go/pkg/kinematics"
)

// Config defines the controller settings.
type Config struct {
	// UpdateHz is the tick rate.
	UpdateHz float64
	Chassis  kinematics.Chassis
	// SpeedLimit caps the magnitude of any wheel speed.
	SpeedLimit float64
	// JoinPeriods is how many ticks Stop waits for the loop to exit.
	JoinPeriods int
	// HeadingFeedback converts wheel angles into the chassis frame using
	// the reported heading. Without it the heading is not tracked at all
	// and wheel angles are commanded as world bearings.
	HeadingFeedback bool
}

// Defaults
const (
	DefaultUpdateHz    float64 = 10
	DefaultChassisSize float64 = 120
)

var defaultConfig = Config{
	UpdateHz:        DefaultUpdateHz,
	Chassis:         kinematics.Chassis{Width: DefaultChassisSize, Height: DefaultChassisSize},
	SpeedLimit:      1,
	JoinPeriods:     2,
	HeadingFeedback: true,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.Float64Var(&defaultConfig.UpdateHz, "update-hz", defaultConfig.UpdateHz, "Control loop rate (Hz).")
	flag.Float64Var(&defaultConfig.Chassis.Width, "chassis-width", defaultConfig.Chassis.Width, "Distance between left and right wheels.")
	flag.Float64Var(&defaultConfig.Chassis.Height, "chassis-height", defaultConfig.Chassis.Height, "Distance between front and back wheels.")
	flag.Float64Var(&defaultConfig.SpeedLimit, "speed-limit", defaultConfig.SpeedLimit, "Maximum wheel speed ratio.")
	flag.BoolVar(&defaultConfig.HeadingFeedback, "heading-feedback", defaultConfig.HeadingFeedback, "Correct wheel angles by the reported heading.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Period is the interval between ticks.
func (c Config) Period() time.Duration {
	hz := c.UpdateHz
	if hz <= 0 {
		hz = DefaultUpdateHz
	}
	return time.Duration(float64(time.Second) / hz)
}

// JoinTimeout is how long Stop waits for the loop.
func (c Config) JoinTimeout() time.Duration {
	n := c.JoinPeriods
	if n < 1 {
		n = 1
	}
	return time.Duration(n) * c.Period()
}

// NewController creates the Controller.
func (c *Config) NewController(port ActuatorPort) *Controller {
	return &Controller{Port: port, config: *c}
}

package sim

import (
	"flag"
	"time"

	"github.com/robotalks/swerve.go/pkg/kinematics"
)

// Config defines the configuration of the simulated base.
type Config struct {
	// MaxSpeed is the ground speed of a wheel at full speed ratio (units/s).
	MaxSpeed float64
	// Interval is the simulation step.
	Interval time.Duration
}

// Defaults
const (
	DefaultMaxSpeed float64 = 100
	DefaultInterval         = 20 * time.Millisecond
)

var defaultConfig = Config{
	MaxSpeed: DefaultMaxSpeed,
	Interval: DefaultInterval,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.Float64Var(&defaultConfig.MaxSpeed, "sim-max-speed", defaultConfig.MaxSpeed, "Wheel ground speed at full speed ratio (units/s).")
	flag.DurationVar(&defaultConfig.Interval, "sim-interval", defaultConfig.Interval, "Simulation step.")
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

// NewBase creates the simulated base.
func (c *Config) NewBase(chassis kinematics.Chassis) *Base {
	b := NewBase(chassis)
	if c.MaxSpeed > 0 {
		b.MaxSpeed = c.MaxSpeed
	}
	b.Interval = c.Interval
	return b
}

// Package env provides the identity of the robot and its connection to the
// MQTT broker, shared by the binaries.
package env

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"

	"github.com/robotalks/swerve.go/pkg/transport/mqtt"
)

// Config provides common options of the binaries.
type Config struct {
	// RobotID prefixes all topics of the robot.
	RobotID string
	// MQTTBrokerURL specifies the MQTT broker to use.
	// e.g. mqtt://host:port/topic-prefix/
	MQTTBrokerURL string
	// ConnectTimeout bounds the connection to the broker.
	ConnectTimeout time.Duration
}

var defaultConfig = Config{
	MQTTBrokerURL:  "mqtt://localhost:1883/swerve/",
	ConnectTimeout: 5 * time.Second,
}

func init() {
	if val := os.Getenv("SWERVE_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("SWERVE_ID"); val != "" {
		defaultConfig.RobotID = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.RobotID, "id", defaultConfig.RobotID, "Robot ID, defaults to the machine ID")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL")
	flag.DurationVar(&defaultConfig.ConnectTimeout, "mqtt-timeout", defaultConfig.ConnectTimeout, "MQTT connect timeout")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// MachineID retrieves the unique ID identifying the machine.
func MachineID() (string, error) {
	return machineid.ProtectedID("swerve")
}

// Robot returns RobotID, or the machine ID if not set.
func (c *Config) Robot() (string, error) {
	if c.RobotID != "" {
		return c.RobotID, nil
	}
	id, err := MachineID()
	if err != nil {
		return "", fmt.Errorf("robot id not specified and machine id unavailable: %v", err)
	}
	return id[:12], nil
}

// BrokerURL returns MQTTBrokerURL with client-id set to clientID unless
// already present.
func (c *Config) BrokerURL(clientID string) (string, error) {
	u, err := url.Parse(c.MQTTBrokerURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	if q.Get("client-id") == "" && clientID != "" {
		q.Set("client-id", clientID)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// Env is the connected environment.
type Env struct {
	Config *Config
	Robot  string
	Queue  *mqtt.Queue
}

// Connect resolves the robot and connects to the broker. role is appended
// to the robot ID to form the MQTT client ID.
func (c *Config) Connect(ctx context.Context, role string) (*Env, error) {
	robot, err := c.Robot()
	if err != nil {
		return nil, err
	}
	brokerURL, err := c.BrokerURL(robot + "-" + role)
	if err != nil {
		return nil, err
	}
	q, err := mqtt.NewQueueFromURL(brokerURL)
	if err != nil {
		return nil, fmt.Errorf("create MQTT queue error: %v", err)
	}
	ctx, cancel := context.WithTimeout(ctx, c.ConnectTimeout)
	defer cancel()
	if err := q.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect %s error: %v", c.MQTTBrokerURL, err)
	}
	glog.Infof("robot %s connected to %s", robot, c.MQTTBrokerURL)
	return &Env{Config: c, Robot: robot, Queue: q}, nil
}

// MustConnect connects and fails on error.
func (c *Config) MustConnect(ctx context.Context, role string) *Env {
	e, err := c.Connect(ctx, role)
	if err != nil {
		log.Fatalln(err)
	}
	return e
}

// Close implements io.Closer.
func (e *Env) Close() error {
	return e.Queue.Close()
}

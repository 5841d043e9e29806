package env

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRobot(t *testing.T) {
	conf := NewConfig()
	conf.RobotID = "bot-1"
	robot, err := conf.Robot()
	require.NoError(t, err)
	require.Equal(t, "bot-1", robot)
}

func TestBrokerURL(t *testing.T) {
	conf := NewConfig()
	conf.MQTTBrokerURL = "mqtt://broker:1883/swerve/"
	u, err := conf.BrokerURL("bot-1-ctl")
	require.NoError(t, err)
	require.Equal(t, "mqtt://broker:1883/swerve/?client-id=bot-1-ctl", u)

	conf.MQTTBrokerURL = "mqtt://broker:1883/swerve/?client-id=fixed"
	u, err = conf.BrokerURL("bot-1-ctl")
	require.NoError(t, err)
	require.Equal(t, conf.MQTTBrokerURL, u)

	conf.MQTTBrokerURL = "://bad"
	_, err = conf.BrokerURL("x")
	require.Error(t, err)
}

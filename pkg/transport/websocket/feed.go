// Package websocket exposes the controller over websocket: clients stream
// poses in and receive the controller status back.
package websocket

import (
	"io"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/swerve.go/pkg/geom"
	"github.com/robotalks/swerve.go/pkg/motion"
)

// StatusSource provides the status sent back for each pose.
type StatusSource interface {
	Status() motion.Status
}

// PoseFeed accepts JSON poses like {"x": 1, "y": 2, "heading": 90} and
// replies each with the JSON status.
type PoseFeed struct {
	Sink   motion.PoseSink
	Status StatusSource
}

// Handler creates the websocket handler.
func (f *PoseFeed) Handler() websocket.Handler {
	return websocket.Handler(f.serve)
}

func (f *PoseFeed) serve(conn *websocket.Conn) {
	defer conn.Close()
	glog.V(2).Infof("pose feed from %s", conn.Request().RemoteAddr)
	for {
		var pose geom.Pose
		if err := websocket.JSON.Receive(conn, &pose); err != nil {
			if err != io.EOF {
				glog.Warningf("pose feed: %v", err)
			}
			return
		}
		f.Sink.SetPosition(pose)
		if f.Status == nil {
			continue
		}
		if err := websocket.JSON.Send(conn, f.Status.Status()); err != nil {
			glog.Warningf("pose feed: %v", err)
			return
		}
	}
}

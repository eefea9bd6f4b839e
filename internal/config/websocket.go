package config

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader websocket.Upgrader
	// PingPeriod is how often an idle connection is pinged. Pongs must
	// arrive within twice that.
	PingPeriod time.Duration
}

func NewWebSocket() *WebSocket {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	ws := &WebSocket{
		Upgrader:   upgrader,
		PingPeriod: time.Second * 30,
	}

	return ws
}

package hub

import (
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	// writeWait bounds how long a single frame write may take.
	writeWait = 10 * time.Second

	// pongWait is how long to keep a silent connection before giving
	// up on it. Pings go out at pingPeriod, which must be shorter.
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// readLimit caps inbound frames. Viewers send nothing but control
	// frames, so anything near this is a misbehaving peer.
	readLimit = 512 * 1024
)

// Viewer is one websocket connection watching the robot, either the
// status feed or the face frame feed.
type Viewer struct {
	hub  *Hub
	conn *websocket.Conn
	send chan Message
}

// NewViewer attaches a connection to the hub. The hub's Run loop must
// already be started; during shutdown the attach is skipped.
func NewViewer(h *Hub, conn *websocket.Conn) *Viewer {
	v := &Viewer{
		hub:  h,
		conn: conn,
		send: make(chan Message, 256),
	}
	select {
	case h.join <- v:
	case <-h.quit:
	}
	return v
}

// Run pumps the connection and blocks until it closes. Call it from
// the websocket handler.
func (v *Viewer) Run() {
	go v.writePump()
	v.readPump()
}

// readPump drains the connection. Nothing meaningful arrives from
// viewers; the read exists to notice disconnects and handle pongs.
func (v *Viewer) readPump() {
	defer func() {
		select {
		case v.hub.leave <- v:
		case <-v.hub.quit:
		}
		v.conn.Close()
	}()

	v.conn.SetReadLimit(readLimit)
	v.conn.SetReadDeadline(time.Now().Add(pongWait))
	v.conn.SetPongHandler(func(string) error {
		v.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := v.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump is the only goroutine that writes to the connection. It
// forwards queued messages and keeps the peer alive with pings.
func (v *Viewer) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		v.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-v.send:
			v.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub dropped us. Say goodbye properly.
				v.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := v.conn.WriteMessage(msg.frame(), msg.Data); err != nil {
				return
			}

		case <-ticker.C:
			v.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := v.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package controllers

import (
	"net/http"
	"time"

	"github.com/stephenwzkong/personal-assistant/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// pingInterval keeps connections alive through proxies that drop idle sockets.
const pingInterval = 25 * time.Second

type RealtimeController struct {
	Hub *services.RealtimeHub
}

func NewRealtimeController(hub *services.RealtimeHub) *RealtimeController {
	return &RealtimeController{Hub: hub}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // tighten behind a proxy if needed
}

// EntriesWS streams every newly stored meal/workout entry to the browser.
// The connection lives until the client goes away: the read loop notices the
// close, and the deferred unregister tears everything down including the
// pinger.
func (rc *RealtimeController) EntriesWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	cl := &services.WSClient{Conn: conn}
	rc.Hub.Register(cl)
	defer rc.Hub.Unregister(cl)

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		t := time.NewTicker(pingInterval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				if err := cl.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-stop:
				return
			}
		}
	}()

	// clients never send anything meaningful; the read loop exists to
	// detect disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

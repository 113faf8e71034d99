package game

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	clientSendBuffer = 256
	pingInterval     = 30 * time.Second
)

// client is one live connection. A client may be a member of several rooms;
// the rooms set is guarded by the gateway's group lock and is only used to
// clean up on disconnect.
type client struct {
	id       string
	username string
	socket   WebsocketConnection
	limiter  *rate.Limiter
	sendChan chan []byte
	done     chan struct{}
	rooms    map[string]struct{}
}

func newClient(id, username string, socket WebsocketConnection) *client {
	return &client{
		id:       id,
		username: username,
		socket:   socket,
		limiter:  rate.NewLimiter(rate.Limit(30), 60),
		sendChan: make(chan []byte, clientSendBuffer),
		done:     make(chan struct{}),
		rooms:    make(map[string]struct{}),
	}
}

// send drops when the client's buffer is full so a slow reader never stalls
// a room-wide broadcast. sendChan is never closed: broadcasts snapshot the
// group membership before sending, so a send may race a disconnect, and a
// send into a drained buffer is harmless where a send on a closed channel
// would not be.
func (c *client) send(data []byte) {
	select {
	case c.sendChan <- data:
	default:
	}
}

func (c *client) readPump(g *Gateway) {
	defer g.disconnect(c)

	for {
		data, err := c.socket.Read()
		if err != nil {
			return
		}

		if !c.limiter.Allow() {
			continue
		}

		var envelope clientEnvelope
		if err := json.Unmarshal(data, &envelope); err != nil {
			log.Debug().Str("player", c.id).Msg("dropping malformed message")
			continue
		}

		g.dispatch(c, envelope)
	}
}

func (c *client) writePump() {
	pinger := time.NewTicker(pingInterval)
	defer pinger.Stop()

	for {
		select {
		case data := <-c.sendChan:
			if err := c.socket.Write(data); err != nil {
				return
			}
		case <-pinger.C:
			if err := c.socket.Ping(); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

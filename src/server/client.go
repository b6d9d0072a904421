package server

import (
	"slices"
	"sync"
	"time"

	"market-signals/src/helpers"
	"market-signals/src/models"

	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Constants
// -----------------------------------------------------------------------------

const (
	writeWait      = 2 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// -----------------------------------------------------------------------------
// Client Structure
// -----------------------------------------------------------------------------

type Client struct {
	hub  *SignalServer
	conn *websocket.Conn
	send chan *models.MLatestData

	mu      sync.RWMutex
	symbols []string // empty means all tickers
}

// -----------------------------------------------------------------------------

func (c *Client) SetSymbols(symbols []string) {
	normalized := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		if sym = helpers.NormalizeSymbol(sym); sym != "" && !slices.Contains(normalized, sym) {
			normalized = append(normalized, sym)
		}
	}

	c.mu.Lock()
	c.symbols = normalized
	c.mu.Unlock()
}

// -----------------------------------------------------------------------------

func (c *Client) Symbols() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.symbols
}

// -----------------------------------------------------------------------------

// readPump consumes subscribe commands and keeps the read deadline alive on pongs.
// It owns the connection teardown.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
		c.hub.Logger.Debug("Client %s disconnected", c.conn.RemoteAddr())
	}()

	c.conn.SetReadLimit(maxMessageSize)
	extend := func(string) error { return c.conn.SetReadDeadline(time.Now().Add(pongWait)) }
	extend("")
	c.conn.SetPongHandler(extend)

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.Logger.Warning("WebSocket read from %s failed: %v", c.conn.RemoteAddr(), err)
			}
			return
		}
		c.hub.HandleClientMessage(c, message)
	}
}

// -----------------------------------------------------------------------------

// writePump forwards hub messages and pings until send is closed or a write fails.
func (c *Client) writePump() {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.hub.Logger.Warning("WebSocket write of %s update failed: %v", message.Type, err)
				return
			}

		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

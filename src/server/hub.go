package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"market-signals/src/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// runHub owns the client set until ctx is cancelled.
func (s *SignalServer) runHub(ctx context.Context) {
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			for client := range s.clients {
				delete(s.clients, client)
				close(client.send)
			}
			s.connections.Store(0)
			return

		case client := <-s.register:
			s.clients[client] = struct{}{}
			s.connections.Store(int64(len(s.clients)))
			// Send current state on connect
			client.send <- s.snapshotFor(client.Symbols(), "INITIAL")

		case client := <-s.resync:
			if _, ok := s.clients[client]; ok {
				select {
				case client.send <- s.snapshotFor(client.Symbols(), "INITIAL"):
				default:
				}
			}

		case client := <-s.unregister:
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
				s.connections.Store(int64(len(s.clients)))
			}

		case message := <-s.broadcast:
			for client := range s.clients {
				select {
				case client.send <- filterForClient(message, client.Symbols()):
				default:
					// Client too slow, disconnect to prevent Hub blocking
					delete(s.clients, client)
					close(client.send)
				}
			}
			s.connections.Store(int64(len(s.clients)))
		}
	}
}

// -----------------------------------------------------------------------------

func (s *SignalServer) snapshotFor(symbols []string, kind string) *models.MLatestData {
	return &models.MLatestData{
		Type:      kind,
		Tickers:   s.Store.LatestRows(symbols...),
		Timestamp: s.lastUpdate.Load(),
	}
}

// -----------------------------------------------------------------------------

func filterForClient(message *models.MLatestData, symbols []string) *models.MLatestData {
	if len(symbols) == 0 {
		return message
	}

	filtered := &models.MLatestData{
		Type:      message.Type,
		Tickers:   make(map[string]models.MSeriesRow),
		Timestamp: message.Timestamp,
	}
	for _, sym := range symbols {
		if row, ok := message.Tickers[sym]; ok {
			filtered.Tickers[sym] = row
		}
		if reason, ok := message.Failed[sym]; ok {
			if filtered.Failed == nil {
				filtered.Failed = make(map[string]string)
			}
			filtered.Failed[sym] = reason
		}
	}
	return filtered
}

// -----------------------------------------------------------------------------

// BroadcastRefresh pushes the outcome of a refresh cycle to every client.
// It never blocks the refresh loop: a full queue drops the update.
func (s *SignalServer) BroadcastRefresh(result models.MRefreshResult) {
	now := time.Now().Unix()
	s.lastUpdate.Store(now)

	message := &models.MLatestData{
		Type:      "UPDATE",
		Tickers:   map[string]models.MSeriesRow{},
		Failed:    result.FailureMessages(),
		Timestamp: now,
	}
	if len(result.Updated) > 0 {
		message.Tickers = s.Store.LatestRows(result.Updated...)
	}

	select {
	case s.broadcast <- message:
	default:
		s.Logger.Warning("Broadcast queue full, dropping update")
	}
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *SignalServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		hub:  s,
		conn: conn,
		// Buffered channel to prevent blocking the Hub loop
		send: make(chan *models.MLatestData, 256),
	}

	select {
	case s.register <- client:
	case <-s.done:
		conn.Close()
		return
	}

	// Start goroutines for reading/writing
	go client.writePump()
	go client.readPump()
}

// -----------------------------------------------------------------------------
// Client Message Handling
// -----------------------------------------------------------------------------

func (s *SignalServer) HandleClientMessage(client *Client, message []byte) {
	var cmd models.MSubscribeCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		s.Logger.Info("Failed to parse client command: %v, disconnecting client", err)
		client.conn.Close()
		return
	}

	if cmd.Command != "subscribe" {
		return
	}

	client.SetSymbols(cmd.Symbols)

	// The hub answers with the filtered current state.
	select {
	case s.resync <- client:
	case <-s.done:
	}
}

package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/dom/league-damage-calc/internal/domain"
	"github.com/dom/league-damage-calc/internal/service"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024
)

// Searcher runs build searches, reporting optimizer progress as it goes.
type Searcher interface {
	Search(ctx context.Context, req service.SearchRequest, progress func(done, total int)) (*service.SearchResult, error)
}

// Client is one websocket connection. It runs at most one search at a time.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	id   uuid.UUID

	mu      sync.Mutex
	closed  bool
	cancel  context.CancelFunc
	percent int
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
		id:   uuid.New(),
	}
}

func (c *Client) ID() uuid.UUID {
	return c.id
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket error: %v", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("failed to unmarshal message: %v", err)
			c.sendError(ErrCodeInvalidMessage, "Invalid message")
			continue
		}

		c.handleMessage(&msg)
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(msg *Message) {
	switch msg.Type {
	case MessageTypeStartSearch:
		var payload StartSearchPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			c.sendError(ErrCodeInvalidPayload, "Invalid start search payload")
			return
		}
		c.startSearch(payload)

	case MessageTypeCancelSearch:
		if !c.cancelSearch() {
			c.sendError(ErrCodeNoActiveSearch, "No search is running")
		}

	default:
		c.sendError(ErrCodeUnknownMessage, "Unknown message type: "+string(msg.Type))
	}
}

func (c *Client) startSearch(req StartSearchPayload) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.cancel != nil {
		c.mu.Unlock()
		c.sendError(ErrCodeSearchInProgress, "A search is already running")
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.percent = -1
	c.mu.Unlock()

	c.sendMessage(MessageTypeSearchStarted, SearchStartedPayload{
		SessionID: c.id.String(),
		Champion:  req.Champion,
	})

	go func() {
		defer c.finishSearch(cancel)

		result, err := c.hub.searcher.Search(ctx, req, c.reportProgress)
		switch {
		case errors.Is(err, context.Canceled):
			c.sendMessage(MessageTypeSearchCancelled, SearchCancelledPayload{SessionID: c.id.String()})
		case err != nil:
			log.Printf("ERROR [Client.Search] session=%s champion=%s: %v", c.id, req.Champion, err)
			c.sendError(searchErrorCode(err), err.Error())
		default:
			c.sendMessage(MessageTypeSearchResult, result)
		}
	}()
}

// reportProgress sends one update per whole percent. Updates that do not fit
// in the send buffer are dropped.
func (c *Client) reportProgress(done, total int) {
	if total <= 0 {
		return
	}
	percent := done * 100 / total

	c.mu.Lock()
	if percent == c.percent {
		c.mu.Unlock()
		return
	}
	c.percent = percent
	c.mu.Unlock()

	msg, err := NewMessage(MessageTypeSearchProgress, SearchProgressPayload{
		Done:    done,
		Total:   total,
		Percent: percent,
	})
	if err != nil {
		return
	}
	data, _ := json.Marshal(msg)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) cancelSearch() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel == nil {
		return false
	}
	c.cancel()
	return true
}

func (c *Client) finishSearch(cancel context.CancelFunc) {
	cancel()

	c.mu.Lock()
	c.cancel = nil
	c.mu.Unlock()
}

// Close cancels any running search and closes the send channel. It is safe to
// call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	if c.cancel != nil {
		c.cancel()
	}
	close(c.send)
}

func (c *Client) sendError(code, message string) {
	c.sendMessage(MessageTypeError, ErrorPayload{
		Code:    code,
		Message: message,
	})
}

func (c *Client) sendMessage(msgType MessageType, payload interface{}) {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		log.Printf("failed to marshal %s payload: %v", msgType, err)
		return
	}
	c.Send(msg)
}

func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("failed to marshal message: %v", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("ERROR [Client.Send] session=%s: send buffer full, dropping %s", c.id, msg.Type)
	}
}

func searchErrorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return ErrCodeNotFound
	case errors.Is(err, domain.ErrUnsupportedMetric),
		errors.Is(err, domain.ErrUnknownAbility),
		errors.Is(err, domain.ErrInvalidLevel),
		errors.Is(err, domain.ErrSearchTooLarge):
		return ErrCodeInvalidRequest
	case errors.Is(err, domain.ErrMissingRepository):
		return ErrCodeUnavailable
	default:
		return ErrCodeSearchFailed
	}
}

package testutil

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/dom/league-damage-calc/internal/service"
	"github.com/dom/league-damage-calc/internal/websocket"
	gorillaWS "github.com/gorilla/websocket"
)

// WSClient is a test WebSocket client
type WSClient struct {
	t        *testing.T
	conn     *gorillaWS.Conn
	messages chan *websocket.Message
	errors   chan error
	done     chan struct{}
	mu       sync.Mutex
}

// NewWSClient creates a new WebSocket test client
func NewWSClient(t *testing.T, url string) *WSClient {
	t.Helper()

	dialer := *gorillaWS.DefaultDialer
	dialer.HandshakeTimeout = 5 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect to websocket: %v", err)
	}

	client := &WSClient{
		t:        t,
		conn:     conn,
		messages: make(chan *websocket.Message, 512),
		errors:   make(chan error, 10),
		done:     make(chan struct{}),
	}

	go client.readPump()

	t.Cleanup(func() {
		client.Close()
	})

	return client
}

// readPump reads messages from the WebSocket connection
func (c *WSClient) readPump() {
	defer close(c.messages)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			case c.errors <- err:
			default:
			}
			return
		}

		var msg websocket.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			select {
			case c.errors <- err:
			default:
			}
			continue
		}

		select {
		case c.messages <- &msg:
		case <-c.done:
			return
		}
	}
}

// Close closes the WebSocket connection gracefully
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return
	default:
		close(c.done)
		c.conn.WriteMessage(gorillaWS.CloseMessage, gorillaWS.FormatCloseMessage(gorillaWS.CloseNormalClosure, ""))
		c.conn.Close()
	}
}

// SendRaw writes data as a single text frame
func (c *WSClient) SendRaw(data []byte) {
	c.t.Helper()

	c.mu.Lock()
	err := c.conn.WriteMessage(gorillaWS.TextMessage, data)
	c.mu.Unlock()

	if err != nil {
		c.t.Fatalf("failed to send message: %v", err)
	}
}

// Send wraps payload in a message of msgType and sends it
func (c *WSClient) Send(msgType websocket.MessageType, payload interface{}) {
	c.t.Helper()

	msg := &websocket.Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
	}
	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			c.t.Fatalf("failed to marshal payload: %v", err)
		}
		msg.Payload = payloadBytes
	}

	data, err := json.Marshal(msg)
	if err != nil {
		c.t.Fatalf("failed to marshal message: %v", err)
	}
	c.SendRaw(data)
}

// StartSearch sends a START_SEARCH message
func (c *WSClient) StartSearch(req service.SearchRequest) {
	c.Send(websocket.MessageTypeStartSearch, req)
}

// CancelSearch sends a CANCEL_SEARCH message
func (c *WSClient) CancelSearch() {
	c.Send(websocket.MessageTypeCancelSearch, nil)
}

// ExpectMessage waits for a message of the specified type. Unrelated
// messages are skipped; an unexpected ERROR fails the test.
func (c *WSClient) ExpectMessage(msgType websocket.MessageType, timeout time.Duration) *websocket.Message {
	c.t.Helper()

	deadline := time.After(timeout)
	for {
		select {
		case msg := <-c.messages:
			if msg == nil {
				c.t.Fatalf("connection closed while waiting for %s", msgType)
			}
			if msg.Type == msgType {
				return msg
			}
			if msg.Type == websocket.MessageTypeError {
				c.t.Fatalf("error while waiting for %s: %s", msgType, string(msg.Payload))
			}
		case err := <-c.errors:
			c.t.Fatalf("error while waiting for %s: %v", msgType, err)
		case <-deadline:
			c.t.Fatalf("timeout waiting for message type %s", msgType)
		}
	}
}

// ExpectSearchStarted waits for and decodes a SEARCH_STARTED message
func (c *WSClient) ExpectSearchStarted(timeout time.Duration) *websocket.SearchStartedPayload {
	c.t.Helper()

	msg := c.ExpectMessage(websocket.MessageTypeSearchStarted, timeout)

	var payload websocket.SearchStartedPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.t.Fatalf("failed to decode search started payload: %v", err)
	}

	return &payload
}

// ExpectSearchResult waits for and decodes a SEARCH_RESULT message, returning
// the progress updates seen before it
func (c *WSClient) ExpectSearchResult(timeout time.Duration) (*service.SearchResult, []websocket.SearchProgressPayload) {
	c.t.Helper()

	var progress []websocket.SearchProgressPayload
	deadline := time.After(timeout)
	for {
		select {
		case msg := <-c.messages:
			if msg == nil {
				c.t.Fatalf("connection closed while waiting for search result")
			}
			switch msg.Type {
			case websocket.MessageTypeSearchProgress:
				var payload websocket.SearchProgressPayload
				if err := json.Unmarshal(msg.Payload, &payload); err != nil {
					c.t.Fatalf("failed to decode progress payload: %v", err)
				}
				progress = append(progress, payload)
			case websocket.MessageTypeSearchResult:
				var result service.SearchResult
				if err := json.Unmarshal(msg.Payload, &result); err != nil {
					c.t.Fatalf("failed to decode search result: %v", err)
				}
				return &result, progress
			case websocket.MessageTypeError:
				c.t.Fatalf("error while waiting for search result: %s", string(msg.Payload))
			}
		case err := <-c.errors:
			c.t.Fatalf("error while waiting for search result: %v", err)
		case <-deadline:
			c.t.Fatalf("timeout waiting for search result")
		}
	}
}

// ExpectError waits for and decodes an ERROR message
func (c *WSClient) ExpectError(timeout time.Duration) *websocket.ErrorPayload {
	c.t.Helper()

	msg := c.ExpectMessage(websocket.MessageTypeError, timeout)

	var payload websocket.ErrorPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.t.Fatalf("failed to decode error payload: %v", err)
	}

	return &payload
}

// ExpectErrorWithCode waits for an error with a specific code
func (c *WSClient) ExpectErrorWithCode(code string, timeout time.Duration) *websocket.ErrorPayload {
	c.t.Helper()

	payload := c.ExpectError(timeout)
	if payload.Code != code {
		c.t.Fatalf("expected error code %s, got %s: %s", code, payload.Code, payload.Message)
	}

	return payload
}

// ExpectNoMessage verifies no messages are received within timeout
func (c *WSClient) ExpectNoMessage(timeout time.Duration) {
	c.t.Helper()

	select {
	case msg := <-c.messages:
		if msg != nil {
			c.t.Fatalf("unexpected message received: %s", msg.Type)
		}
	case <-time.After(timeout):
		// Expected - no message received
	}
}

package websocket

import (
	"encoding/json"
	"time"

	"github.com/dom/league-damage-calc/internal/service"
)

type MessageType string

const (
	// Client to Server
	MessageTypeStartSearch  MessageType = "START_SEARCH"
	MessageTypeCancelSearch MessageType = "CANCEL_SEARCH"

	// Server to Client
	MessageTypeSearchStarted   MessageType = "SEARCH_STARTED"
	MessageTypeSearchProgress  MessageType = "SEARCH_PROGRESS"
	MessageTypeSearchResult    MessageType = "SEARCH_RESULT"
	MessageTypeSearchCancelled MessageType = "SEARCH_CANCELLED"
	MessageTypeError           MessageType = "ERROR"
)

// Error codes carried by ErrorPayload
const (
	ErrCodeInvalidMessage   = "INVALID_MESSAGE"
	ErrCodeInvalidPayload   = "INVALID_PAYLOAD"
	ErrCodeUnknownMessage   = "UNKNOWN_MESSAGE"
	ErrCodeSearchInProgress = "SEARCH_IN_PROGRESS"
	ErrCodeNoActiveSearch   = "NO_ACTIVE_SEARCH"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeInvalidRequest   = "INVALID_REQUEST"
	ErrCodeUnavailable      = "UNAVAILABLE"
	ErrCodeSearchFailed     = "SEARCH_FAILED"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// Client to Server payloads

// StartSearchPayload is a build search request.
type StartSearchPayload = service.SearchRequest

// Server to Client payloads

type SearchStartedPayload struct {
	SessionID string `json:"sessionId"`
	Champion  string `json:"champion"`
}

type SearchProgressPayload struct {
	Done    int `json:"done"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}

type SearchResultPayload = service.SearchResult

type SearchCancelledPayload struct {
	SessionID string `json:"sessionId"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
